package webui

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/atlas"
	"github.com/minpaixinyu/minpai/internal/city"
	"github.com/minpaixinyu/minpai/internal/session"
)

// sessionResponse is the JSON shape of GET /api/session.
type sessionResponse struct {
	SignedIn  bool   `json:"signed_in"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// cityResponse is one entry of GET /api/cities.
type cityResponse struct {
	Name        string `json:"name"`
	EnName      string `json:"en_name"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

// regionResponse is one map region of GET /api/map, carrying the style the
// page should paint it with.
type regionResponse struct {
	Name        string          `json:"name"`
	Interactive bool            `json:"interactive"`
	Explored    bool            `json:"explored"`
	FillColor   string          `json:"fill_color"`
	Geometry    json.RawMessage `json:"geometry"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	nav := session.Check(r.Context(), s.client)
	writeJSON(w, http.StatusOK, sessionResponse{
		SignedIn:  nav.State == session.SignedIn,
		Username:  nav.Username,
		AvatarURL: nav.AvatarURL,
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	out := make([]cityResponse, 0, len(city.Cities))
	for _, c := range city.Cities {
		out = append(out, cityResponse{
			Name:        c.Name,
			EnName:      c.EnName,
			Subtitle:    c.Subtitle,
			Description: c.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := city.Lookup(name)
	if !ok {
		info, ok = city.LookupEn(name)
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown city: " + name})
		return
	}
	writeJSON(w, http.StatusOK, cityResponse{
		Name:        info.Name,
		EnName:      info.EnName,
		Subtitle:    info.Subtitle,
		Description: info.Description,
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	m := atlas.New()
	if err := m.Load(r.Context(), s.client); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	regions := m.Regions()
	out := make([]regionResponse, 0, len(regions))
	for _, reg := range regions {
		_, interactive := city.Lookup(reg.Name)
		out = append(out, regionResponse{
			Name:        reg.Name,
			Interactive: interactive,
			Explored:    reg.Explored,
			FillColor:   reg.Style().Fill,
			Geometry:    reg.Geometry,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExplorations(w http.ResponseWriter, r *http.Request) {
	explored, err := s.client.GetExplorations(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	names := make([]string, 0, len(explored))
	for _, n := range explored {
		names = append(names, city.DisplayName(n))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"explorations": names})
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := city.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown city: " + name})
		return
	}

	if err := s.client.MarkExplored(r.Context(), info.Name); err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Message})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.client.GetQuestions(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrNoQuestions) {
			writeJSON(w, http.StatusOK, map[string][]api.Question{"questions": {}})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]api.Question{"questions": questions})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
