// Package cmdlets contains the main entrypoints of the various
// functions that the driver station tool can perform.
package cmdlets

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gizmo-ds [address]",
		Short: "Run the driver station",
		Long:  rootCmdLongDocs,
		Run:   rootCmdRun,
		Args:  cobra.MaximumNArgs(1),
	}
	rootCmdLongDocs = `The driver station reads every attached joystick and publishes its axes and buttons, along with the selected game mode and enable state, to the robot.  The robot can be given as a team number, a host, or a full broker URL.  If given, the address is used for this session only and the config file keeps its saved endpoint.`

	appLogger = hclog.NewNullLogger()
)

// Entrypoint is the entrypoint into all cmdlets, it will dispatch to
// the right one.
func Entrypoint() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func initLogger(name string) {
	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	appLogger = hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(ll),
	})
	appLogger.Info("Log level", "level", appLogger.GetLevel())
}
