// Package atlas is the Fujian map controller: it loads the boundary
// dataset, mirrors the explored-city set into region styling, and resolves
// clicks on the fixed interactive regions into city descriptions. The map
// renders regardless of sign-in state; only the explored overlay depends on
// a session.
package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/city"
)

// GeoJSONPath is where the backend serves the boundary dataset.
const GeoJSONPath = "/static/fujian.json"

// Region fill and stroke palette, matching the original map styling.
const (
	FillExplored  = "#2ed573"
	FillDefault   = "#D2B48C"
	StrokeDefault = "#8B7355"
	StrokeHover   = "#DAA520"
)

// Style is the rendering style of one region.
type Style struct {
	Fill        string
	Stroke      string
	Weight      int
	FillOpacity float64
}

// Region is one named boundary plus its current style.
type Region struct {
	Name     string
	Geometry json.RawMessage
	Explored bool
	Hovered  bool
}

// Style resolves the region's current style from its state.
func (r *Region) Style() Style {
	s := Style{Fill: FillDefault, Stroke: StrokeDefault, Weight: 2, FillOpacity: 0.7}
	if r.Explored {
		s.Fill = FillExplored
	}
	if r.Hovered {
		s.Stroke = StrokeHover
		s.Weight = 3
		s.FillOpacity = 0.8
	}
	return s
}

// Info is what a click on an interactive region opens: the city description
// plus the detail-page target. Clicks elsewhere resolve to nothing.
type Info struct {
	City      city.Info
	DetailURL string
	Explored  bool
}

// Map is the map page state.
type Map struct {
	mu       sync.Mutex
	regions  map[string]*Region
	order    []string
	explored map[string]bool
	signedIn bool
}

// New creates an empty map.
func New() *Map {
	return &Map{
		regions:  make(map[string]*Region),
		explored: make(map[string]bool),
	}
}

// Load performs the page-load sequence: session check first, then the
// explored set when signed in (empty otherwise — a failed explorations
// fetch also degrades to empty), then the boundary dataset. Only a boundary
// failure is fatal; the caller shows it as a static error with a manual
// reload.
func (m *Map) Load(ctx context.Context, client *api.Client) error {
	signedIn := false
	if status, err := client.CheckLogin(ctx); err != nil {
		log.Printf("atlas: checking login: %v", err)
	} else {
		signedIn = status.LoggedIn
	}

	explored := make(map[string]bool)
	if signedIn {
		names, err := client.GetExplorations(ctx)
		if err != nil {
			log.Printf("atlas: loading explorations: %v", err)
		}
		for _, name := range names {
			explored[name] = true
		}
	}

	data, err := client.FetchGeoJSON(ctx, GeoJSONPath)
	if err != nil {
		return fmt.Errorf("loading map data: %w", err)
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing map data: %w", err)
	}
	if len(fc.Features) == 0 {
		return fmt.Errorf("map data has no regions")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedIn = signedIn
	m.explored = explored
	m.regions = make(map[string]*Region, len(fc.Features))
	m.order = m.order[:0]
	for _, f := range fc.Features {
		name := f.Properties.Name
		if name == "" {
			continue
		}
		m.regions[name] = &Region{
			Name:     name,
			Geometry: f.Geometry,
			Explored: explored[name],
		}
		m.order = append(m.order, name)
	}
	return nil
}

// SignedIn reports the session state observed at load time.
func (m *Map) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signedIn
}

// Regions returns the regions in dataset order.
func (m *Map) Regions() []*Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Region, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.regions[name])
	}
	return out
}

// Region looks up one region by name.
func (m *Map) Region(name string) (*Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[name]
	return r, ok
}

// Explored returns the explored city names, sorted for stable display.
func (m *Map) Explored() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.explored))
	for name := range m.explored {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HoverEnter applies the transient hover style.
func (m *Map) HoverEnter(name string) {
	m.setHover(name, true)
}

// HoverLeave reverts the hover style.
func (m *Map) HoverLeave(name string) {
	m.setHover(name, false)
}

func (m *Map) setHover(name string, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.regions[name]; ok {
		r.Hovered = on
	}
}

// Click resolves a click on the named region. Interactive cities return
// their Info; everything else is inert and returns nil.
func (m *Map) Click(name string) *Info {
	info, ok := city.Lookup(name)
	if !ok {
		return nil
	}
	m.mu.Lock()
	explored := m.explored[name]
	m.mu.Unlock()
	return &Info{
		City:      info,
		DetailURL: "/city/" + info.EnName,
		Explored:  explored,
	}
}

// MarkExplored marks a city optimistically: membership and styling change
// first, then the persistence call is issued. A persistence failure is
// logged and never rolled back; the window closes on the next full reload.
// Marking an already-explored city is a no-op and performs zero calls.
func (m *Map) MarkExplored(ctx context.Context, client *api.Client, name string) {
	m.mu.Lock()
	if m.explored[name] {
		m.mu.Unlock()
		return
	}
	m.explored[name] = true
	if r, ok := m.regions[name]; ok {
		r.Explored = true
	}
	m.mu.Unlock()

	if err := client.MarkExplored(ctx, name); err != nil {
		log.Printf("atlas: persisting exploration of %s: %v", name, err)
	}
}

// Reload refetches the explored set and restyles, the parent-refresh hook a
// detail page calls after a successful mark.
func (m *Map) Reload(ctx context.Context, client *api.Client) error {
	names, err := client.GetExplorations(ctx)
	if err != nil {
		return fmt.Errorf("reloading explorations: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.explored = make(map[string]bool, len(names))
	for _, name := range names {
		m.explored[name] = true
	}
	for name, r := range m.regions {
		r.Explored = m.explored[name]
	}
	return nil
}
