package cmdlets

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gizmo-platform/driverstation/pkg/config"
	"github.com/gizmo-platform/driverstation/pkg/mdns"
	"github.com/gizmo-platform/driverstation/pkg/mqttserver"
)

var (
	brokerCmd = &cobra.Command{
		Use:   "broker",
		Short: "Run only the embedded broker",
		Long:  brokerCmdLongDocs,
		Run:   brokerCmdRun,
	}

	brokerCmdLongDocs = `broker runs the same MQTT broker that the driver station can embed, without reading any controllers.  This is useful for bench testing a robot against a station running on another machine.`

	brokerBind string
)

func init() {
	rootCmd.AddCommand(brokerCmd)
	brokerCmd.Flags().StringVar(&brokerBind, "bind", "", "Address to listen on (default from config)")
}

func brokerCmdRun(c *cobra.Command, args []string) {
	initLogger("broker")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(config.Path(), appLogger)
	if err != nil {
		appLogger.Error("Error loading config", "error", err)
		os.Exit(1)
	}
	if brokerBind == "" {
		brokerBind = cfg.BrokerBind()
	}

	b, err := mqttserver.NewServer(mqttserver.WithLogger(appLogger))
	if err != nil {
		appLogger.Error("Could not create broker", "error", err)
		os.Exit(1)
	}
	if err := b.Serve(brokerBind); err != nil {
		appLogger.Error("Could not start broker", "error", err)
		os.Exit(1)
	}

	advert, err := mdns.NewServer(cfg.TeamNumber(), brokerBind)
	if err != nil {
		appLogger.Warn("Could not advertise broker", "error", err)
	}

	<-quit
	appLogger.Info("Shutting down...", "peers", b.Peers())
	for k, v := range b.Values() {
		appLogger.Debug("Last value", "key", k, "value", v)
	}
	if advert != nil {
		advert.Shutdown()
	}
	if err := b.Shutdown(); err != nil {
		appLogger.Error("Error during shutdown", "error", err)
		os.Exit(2)
	}
}
