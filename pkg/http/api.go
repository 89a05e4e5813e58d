package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gizmo-platform/driverstation/pkg/ds"
)

type apiState struct {
	Mode        ds.Mode   `json:"mode"`
	Enable      ds.Enable `json:"enable"`
	Connected   bool      `json:"connected"`
	Endpoint    string    `json:"endpoint"`
	Controllers int       `json:"controllers"`
}

func stateFrom(st ds.State) apiState {
	return apiState{
		Mode:        st.Mode,
		Enable:      st.Enable,
		Connected:   st.Connected,
		Endpoint:    st.Endpoint,
		Controllers: st.Controllers,
	}
}

func (s *Server) apiGetState(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateFrom(s.st.State())); err != nil {
		s.l.Warn("Error encoding state", "error", err)
	}
}

func (s *Server) apiSetMode(w http.ResponseWriter, r *http.Request) {
	vals := struct{ Mode string }{}
	if err := json.NewDecoder(r.Body).Decode(&vals); err != nil {
		s.l.Warn("Error decoding mode", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("could not parse mode\n"))
		return
	}

	m, err := ds.ParseMode(vals.Mode)
	if err == nil {
		err = s.st.SelectMode(m)
	}
	if err != nil {
		s.l.Warn("Rejected mode", "mode", vals.Mode, "error", err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		w.Write([]byte("\n"))
		return
	}
	w.Write([]byte("ok\n"))
}

func (s *Server) apiSetEnabled(w http.ResponseWriter, r *http.Request) {
	vals := struct{ Enabled *bool }{}
	if err := json.NewDecoder(r.Body).Decode(&vals); err != nil || vals.Enabled == nil {
		s.l.Warn("Error decoding enable", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("could not parse enable\n"))
		return
	}

	s.st.SelectEnabled(*vals.Enabled)
	w.Write([]byte("ok\n"))
}

func (s *Server) apiSetEndpoint(w http.ResponseWriter, r *http.Request) {
	vals := struct{ Endpoint string }{}
	if err := json.NewDecoder(r.Body).Decode(&vals); err != nil {
		s.l.Warn("Error decoding endpoint", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("could not parse endpoint\n"))
		return
	}

	if err := s.st.ChangeEndpoint(vals.Endpoint); err != nil {
		s.l.Warn("Could not change endpoint", "endpoint", vals.Endpoint, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, ds.ErrEmptyEndpoint) {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		w.Write([]byte(err.Error()))
		w.Write([]byte("\n"))
		return
	}
	w.Write([]byte("ok\n"))
}
