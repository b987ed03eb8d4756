package atlas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
)

const fujianGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "福州"}, "geometry": {"type": "Polygon", "coordinates": []}},
    {"type": "Feature", "properties": {"name": "泉州"}, "geometry": {"type": "Polygon", "coordinates": []}},
    {"type": "Feature", "properties": {"name": "宁德"}, "geometry": {"type": "Polygon", "coordinates": []}}
  ]
}`

type backendOpts struct {
	loggedIn     bool
	explorations []string
	geoStatus    int
	markCalls    *atomic.Int64
}

func newBackend(t *testing.T, opts backendOpts) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check-login", func(w http.ResponseWriter, r *http.Request) {
		if opts.loggedIn {
			w.Write([]byte(`{"logged_in": true}`))
		} else {
			w.Write([]byte(`{"logged_in": false}`))
		}
	})
	mux.HandleFunc("/api/get-explorations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"explorations": [`))
		for i, name := range opts.explorations {
			if i > 0 {
				w.Write([]byte(","))
			}
			w.Write([]byte(`"` + name + `"`))
		}
		w.Write([]byte(`]}`))
	})
	mux.HandleFunc("/api/mark-explored", func(w http.ResponseWriter, r *http.Request) {
		if opts.markCalls != nil {
			opts.markCalls.Add(1)
		}
		w.Write([]byte(`{"success": true}`))
	})
	mux.HandleFunc("/static/fujian.json", func(w http.ResponseWriter, r *http.Request) {
		if opts.geoStatus != 0 {
			w.WriteHeader(opts.geoStatus)
			return
		}
		w.Write([]byte(fujianGeoJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return client
}

func TestLoadSignedInStylesExplored(t *testing.T) {
	client := newBackend(t, backendOpts{loggedIn: true, explorations: []string{"福州"}})

	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.SignedIn() {
		t.Error("SignedIn should reflect the probe")
	}

	fz, ok := m.Region("福州")
	if !ok || !fz.Explored {
		t.Errorf("福州 explored = %v,%v, want true", fz, ok)
	}
	if fz.Style().Fill != FillExplored {
		t.Errorf("explored fill = %s", fz.Style().Fill)
	}

	qz, _ := m.Region("泉州")
	if qz.Explored || qz.Style().Fill != FillDefault {
		t.Errorf("unexplored region styled %+v", qz.Style())
	}
}

func TestLoadSignedOutRendersWithEmptySet(t *testing.T) {
	client := newBackend(t, backendOpts{loggedIn: false, explorations: []string{"福州"}})

	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("map must render regardless of sign-in state: %v", err)
	}
	if len(m.Explored()) != 0 {
		t.Errorf("signed-out explored set = %v, want empty", m.Explored())
	}
	if len(m.Regions()) != 3 {
		t.Errorf("regions = %d, want 3", len(m.Regions()))
	}
}

func TestLoadGeoJSONFailure(t *testing.T) {
	client := newBackend(t, backendOpts{geoStatus: http.StatusInternalServerError})
	m := New()
	if err := m.Load(context.Background(), client); err == nil {
		t.Fatal("expected MapLoadError when the boundary fetch fails")
	}
}

func TestHoverTransient(t *testing.T) {
	client := newBackend(t, backendOpts{})
	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.HoverEnter("泉州")
	r, _ := m.Region("泉州")
	if s := r.Style(); s.Stroke != StrokeHover || s.Weight != 3 {
		t.Errorf("hover style = %+v", s)
	}
	m.HoverLeave("泉州")
	if s := r.Style(); s.Stroke != StrokeDefault || s.Weight != 2 {
		t.Errorf("style after leave = %+v", s)
	}
}

func TestClickAllowList(t *testing.T) {
	client := newBackend(t, backendOpts{})
	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}

	info := m.Click("福州")
	if info == nil || info.DetailURL != "/city/fuzhou" {
		t.Errorf("Click(福州) = %+v", info)
	}
	if m.Click("宁德") != nil {
		t.Error("宁德 is outside the allow-list and must be inert")
	}
}

func TestMarkExploredOptimisticAndIdempotent(t *testing.T) {
	var markCalls atomic.Int64
	client := newBackend(t, backendOpts{loggedIn: true, markCalls: &markCalls})

	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.MarkExplored(context.Background(), client, "泉州")
	r, _ := m.Region("泉州")
	if !r.Explored {
		t.Error("optimistic restyle did not happen")
	}
	if markCalls.Load() != 1 {
		t.Errorf("persistence calls = %d, want 1", markCalls.Load())
	}
	before := len(m.Explored())

	// Marking an explored city: zero additional calls, set unchanged.
	m.MarkExplored(context.Background(), client, "泉州")
	if markCalls.Load() != 1 {
		t.Errorf("persistence calls after repeat = %d, want still 1", markCalls.Load())
	}
	if len(m.Explored()) != before {
		t.Errorf("explored set size changed on repeat mark")
	}
}

func TestMarkExploredFailureIsNotRolledBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check-login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logged_in": true}`))
	})
	mux.HandleFunc("/api/get-explorations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"explorations": []}`))
	})
	mux.HandleFunc("/api/mark-explored", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/static/fujian.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fujianGeoJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client, _ := api.New(srv.URL, 5*time.Second)

	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.MarkExplored(context.Background(), client, "福州")
	r, _ := m.Region("福州")
	if !r.Explored {
		t.Error("failed persistence must not roll back the local mark")
	}
}

func TestReload(t *testing.T) {
	client := newBackend(t, backendOpts{loggedIn: true, explorations: []string{"福州", "泉州"}})
	m := New()
	if err := m.Load(context.Background(), client); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Reload(context.Background(), client); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := m.Explored(); len(got) != 2 {
		t.Errorf("explored after reload = %v", got)
	}
}
