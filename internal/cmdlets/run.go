package cmdlets

import (
	"context"
	"errors"
	nhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/gizmo-platform/driverstation/pkg/config"
	"github.com/gizmo-platform/driverstation/pkg/ds"
	"github.com/gizmo-platform/driverstation/pkg/eventstream"
	"github.com/gizmo-platform/driverstation/pkg/gamepad"
	"github.com/gizmo-platform/driverstation/pkg/http"
	"github.com/gizmo-platform/driverstation/pkg/mdns"
	"github.com/gizmo-platform/driverstation/pkg/metrics"
	"github.com/gizmo-platform/driverstation/pkg/mqttserver"
	"github.com/gizmo-platform/driverstation/pkg/nt"
)

var errNoControllers = errors.New("no controllers attached")

func rootCmdRun(c *cobra.Command, args []string) {
	initLogger("gizmo-ds")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(config.Path(), appLogger)
	if err != nil {
		appLogger.Error("Error loading config", "error", err)
		os.Exit(1)
	}
	endpoint, err := sessionEndpoint(cfg, args)
	if err != nil {
		appLogger.Error("Bad address", "address", args[0], "error", err)
		os.Exit(1)
	}

	var broker *mqttserver.Server
	var advert *mdns.Server
	if cfg.LocalBroker() {
		broker, err = mqttserver.NewServer(mqttserver.WithLogger(appLogger))
		if err != nil {
			appLogger.Error("Could not create broker", "error", err)
			os.Exit(1)
		}
		if err := broker.Serve(cfg.BrokerBind()); err != nil {
			appLogger.Error("Could not start broker", "error", err)
			os.Exit(1)
		}
		advert, err = mdns.NewServer(cfg.TeamNumber(), cfg.BrokerBind())
		if err != nil {
			appLogger.Warn("Could not advertise broker", "error", err)
		}
	}

	pad := gamepad.New(gamepad.WithLogger(appLogger))
	if err := waitForControllers(pad, cfg.ScanWait()); err != nil {
		appLogger.Warn("Continuing without controllers", "error", err)
	}

	ch := nt.New(
		nt.NewMQTTClient(
			nt.WithMQTTLogger(appLogger),
			nt.WithConnectTimeout(cfg.ConnectTimeout()),
		),
		nt.WithLogger(appLogger),
	)
	ch.Connect(endpoint)

	m := metrics.New(metrics.WithLogger(appLogger))

	bind := cfg.HTTPBind()
	var listener ds.Listener = eventstream.NewNullStreamer()
	var es *eventstream.EventStream
	if bind != "" {
		es = eventstream.New(appLogger, eventstream.WithMaxUndelivered(cfg.EventQueue()))
		listener = es
	}

	st, err := ds.New(
		ds.WithLogger(appLogger),
		ds.WithInputSource(pad),
		ds.WithChannel(ch),
		ds.WithConfig(cfg),
		ds.WithMetrics(m),
		ds.WithListener(listener),
		ds.WithPeriod(cfg.PollPeriod()),
		ds.WithEndpoint(endpoint),
	)
	if err != nil {
		appLogger.Error("Could not create driver station", "error", err)
		os.Exit(1)
	}

	var web *http.Server
	if es != nil {
		web, err = http.NewServer(
			http.WithLogger(appLogger),
			http.WithStation(st),
			http.WithEventStreamer(es),
			http.WithPrometheusRegistry(m.Registry()),
		)
		if err != nil {
			appLogger.Error("Could not create dashboard", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := web.Serve(bind); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
				appLogger.Error("Error serving dashboard", "error", err)
				quit <- syscall.SIGINT
			}
		}()
	}

	st.Start()
	<-quit
	appLogger.Info("Shutting down...")

	if web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := web.Shutdown(ctx); err != nil {
			appLogger.Warn("Error stopping dashboard", "error", err)
		}
		cancel()
	}
	st.Shutdown()
	if advert != nil {
		advert.Shutdown()
	}
	if broker != nil {
		if err := broker.Shutdown(); err != nil {
			appLogger.Warn("Error stopping broker", "error", err)
		}
	}
}

// sessionEndpoint picks the endpoint for this run.  An address given
// on the command line is used for this session only and is never
// written to the config.
func sessionEndpoint(cfg *config.Config, args []string) (string, error) {
	if len(args) == 0 {
		return cfg.Endpoint(), nil
	}
	endpoint := strings.TrimSpace(args[0])
	if _, err := nt.ResolveAddress(endpoint); err != nil {
		return "", err
	}
	return endpoint, nil
}

// waitForControllers scans for controllers, retrying for up to wait
// if none are attached yet.
func waitForControllers(pad *gamepad.Source, wait time.Duration) error {
	scanFunc := func() error {
		found, err := pad.Scan()
		if err != nil {
			return backoff.Permanent(err)
		}
		if len(found) == 0 {
			return errNoControllers
		}
		return nil
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if wait > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = wait
		b = eb
	}
	return backoff.Retry(scanFunc, b)
}
