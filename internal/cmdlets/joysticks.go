package cmdlets

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gizmo-platform/driverstation/pkg/gamepad"
)

var (
	joysticksCmd = &cobra.Command{
		Use:   "joysticks",
		Short: "List the attached controllers",
		Long:  joysticksCmdLongDocs,
		Run:   joysticksCmdRun,
	}

	joysticksCmdLongDocs = `joysticks scans for controllers the same way the driver station does at startup and prints the index each one will be published under.`
)

func init() {
	rootCmd.AddCommand(joysticksCmd)
}

func joysticksCmdRun(c *cobra.Command, args []string) {
	initLogger("joysticks")

	pad := gamepad.New(gamepad.WithLogger(appLogger))
	found, err := pad.Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning controllers: %s\n", err)
		os.Exit(1)
	}
	defer pad.Release()

	if len(found) == 0 {
		fmt.Println("No controllers attached")
		return
	}
	for _, js := range found {
		fmt.Printf("joystick-%d: %s (%d axes, %d buttons)\n", js.Index, js.Name, js.Axes, js.Buttons)
	}
}
