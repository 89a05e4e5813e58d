package cmdlets

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/go-sockaddr"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/gizmo-platform/driverstation/pkg/config"
)

var (
	qrCmd = &cobra.Command{
		Use:   "qr",
		Short: "Show a QR code for the dashboard",
		Long:  qrCmdLongDocs,
		Run:   qrCmdRun,
	}

	qrCmdLongDocs = `qr prints a QR code that opens the driver station dashboard, so a phone or tablet on the same network can be used to drive the mode and enable buttons.`
)

func init() {
	rootCmd.AddCommand(qrCmd)
}

func qrCmdRun(c *cobra.Command, args []string) {
	cfg, err := config.Load(config.Path(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}

	url, err := dashboardURL(cfg.HTTPBind())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	qrterminal.Generate(url, qrterminal.L, os.Stdout)
	fmt.Println(url)
}

// dashboardURL works out the address that other machines can reach
// the dashboard on.  A wildcard bind is replaced with this machine's
// private address.
func dashboardURL(bind string) (string, error) {
	if bind == "" {
		return "", fmt.Errorf("the dashboard is disabled")
	}

	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return "", fmt.Errorf("bad dashboard bind %q: %w", bind, err)
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		// The worst case here is an empty host, which is
		// caught below.
		host, _ = sockaddr.GetPrivateIP()
	}
	if host == "" {
		return "", fmt.Errorf("could not determine a reachable address")
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, port)), nil
}
