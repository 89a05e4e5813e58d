// Package http serves the driver station dashboard and its API.
package http

import (
	"context"
	"embed"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gizmo-platform/driverstation/pkg/ds"
)

//go:embed ui/*
var uifs embed.FS

// Station is the control surface the dashboard drives.
type Station interface {
	State() ds.State
	SelectMode(ds.Mode) error
	SelectEnabled(bool)
	ChangeEndpoint(string) error
}

// EventStreamer upgrades a request into a stream of station events.
type EventStreamer interface {
	Handler(http.ResponseWriter, *http.Request)
}

// Server manages the HTTP serving components
type Server struct {
	r   chi.Router
	n   *http.Server
	l   hclog.Logger
	tpl *pongo2.TemplateSet

	st  Station
	es  EventStreamer
	reg *prometheus.Registry
}

// NewServer returns a dashboard server.  A Station must be provided.
func NewServer(opts ...Option) (*Server, error) {
	sub, _ := fs.Sub(uifs, "ui/p2")

	x := new(Server)
	x.r = chi.NewRouter()
	x.n = &http.Server{}
	x.l = hclog.NewNullLogger()
	x.tpl = pongo2.NewSet("html", pongo2.NewFSLoader(sub))

	for _, o := range opts {
		if err := o(x); err != nil {
			return nil, err
		}
	}
	if x.st == nil {
		return nil, ErrNoStation
	}

	x.r.Use(middleware.Recoverer)

	x.r.Get("/", x.uiDashboard)
	x.r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/state", x.apiGetState)
		r.Post("/mode", x.apiSetMode)
		r.Post("/enabled", x.apiSetEnabled)
		r.Post("/endpoint", x.apiSetEndpoint)
		if x.es != nil {
			r.Get("/eventstream", x.es.Handler)
		}
	})
	if x.reg != nil {
		x.r.Handle("/metrics", promhttp.HandlerFor(x.reg, promhttp.HandlerOpts{Registry: x.reg}))
	}

	return x, nil
}

// Serve binds and serves http on the bound socket.  An error will be
// returned if the server cannot initialize.
func (s *Server) Serve(bind string) error {
	s.l.Info("HTTP is starting", "bind", bind)
	s.n.Addr = bind
	s.n.Handler = s.r
	return s.n.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.l.Info("Stopping...")
	return s.n.Shutdown(ctx)
}

// ServeHTTP allows the server to be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}
