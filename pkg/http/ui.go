package http

import (
	"fmt"
	"net/http"

	"github.com/flosch/pongo2/v6"

	"github.com/gizmo-platform/driverstation/pkg/buildinfo"
	"github.com/gizmo-platform/driverstation/pkg/ds"
)

func (s *Server) uiDashboard(w http.ResponseWriter, r *http.Request) {
	st := s.st.State()

	modes := []string{}
	for _, m := range ds.Modes {
		modes = append(modes, m.String())
	}

	s.doTemplate(w, r, "dashboard.p2", pongo2.Context{
		"mode":        st.Mode.String(),
		"enable":      st.Enable.String(),
		"connected":   st.Connected,
		"endpoint":    st.Endpoint,
		"controllers": st.Controllers,
		"modes":       modes,
		"stream":      s.es != nil,
		"version":     buildinfo.Summary(),
	})
}

func (s *Server) templateErrorHandler(w http.ResponseWriter, err error) {
	s.l.Warn("Error rendering template", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "Error while rendering template: %s\n", err)
}

func (s *Server) doTemplate(w http.ResponseWriter, r *http.Request, tmpl string, ctx pongo2.Context) {
	t, err := s.tpl.FromCache(tmpl)
	if err != nil {
		s.templateErrorHandler(w, err)
		return
	}
	if err := t.ExecuteWriter(ctx, w); err != nil {
		s.templateErrorHandler(w, err)
	}
}
