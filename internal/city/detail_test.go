package city

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
)

func TestLookup(t *testing.T) {
	info, ok := Lookup("泉州")
	if !ok || info.EnName != "quanzhou" {
		t.Errorf("Lookup(泉州) = %+v,%v", info, ok)
	}
	if _, ok := Lookup("宁德"); ok {
		t.Error("宁德 is not in the interactive allow-list")
	}

	info, ok = LookupEn("fuzhou")
	if !ok || info.Name != "福州" {
		t.Errorf("LookupEn(fuzhou) = %+v,%v", info, ok)
	}
}

func TestNameMapping(t *testing.T) {
	if got := DBName("福州"); got != "闽派新语 - 福州" {
		t.Errorf("DBName = %q", got)
	}
	if got := DisplayName("闽派新语 - 莆田"); got != "莆田" {
		t.Errorf("DisplayName(prefixed) = %q", got)
	}
	if got := DisplayName("莆田"); got != "莆田" {
		t.Errorf("DisplayName(bare) = %q", got)
	}
}

func TestTabsMutualExclusion(t *testing.T) {
	info, _ := Lookup("福州")
	d := NewDetail(info)

	if d.ActiveTab() != 0 {
		t.Fatalf("initial tab = %d", d.ActiveTab())
	}
	d.SelectTab(2)
	if d.ActiveTab() != 2 {
		t.Errorf("tab after SelectTab(2) = %d", d.ActiveTab())
	}
	d.SelectTab(99)
	if d.ActiveTab() != 2 {
		t.Errorf("out-of-range select changed tab to %d", d.ActiveTab())
	}
	d.SelectTabByDigit('1')
	if d.ActiveTab() != 0 {
		t.Errorf("digit key 1 selected tab %d", d.ActiveTab())
	}
	d.SelectTabByDigit('x')
	if d.ActiveTab() != 0 {
		t.Errorf("non-digit key changed tab to %d", d.ActiveTab())
	}
}

func TestOverlayDismiss(t *testing.T) {
	info, _ := Lookup("南平")
	d := NewDetail(info)

	d.ShowImage("/static/wuyishan.jpg", "武夷山")
	if d.Overlay() == nil || d.Overlay().Caption != "武夷山" {
		t.Fatalf("overlay = %+v", d.Overlay())
	}
	d.ShowImage("/static/minjiang.jpg", "闽江")
	if d.Overlay().Caption != "闽江" {
		t.Error("new overlay should replace the current one")
	}
	d.Dismiss()
	if d.Overlay() != nil {
		t.Error("overlay survived Dismiss")
	}
}

func markBackend(t *testing.T, explored bool, markCalls *atomic.Int64) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/check-explored", func(w http.ResponseWriter, r *http.Request) {
		if explored {
			w.Write([]byte(`{"explored": true}`))
		} else {
			w.Write([]byte(`{"explored": false}`))
		}
	})
	mux.HandleFunc("/api/mark-explored", func(w http.ResponseWriter, r *http.Request) {
		markCalls.Add(1)
		w.Write([]byte(`{"success": true}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return client
}

func TestMarkExploredFreshCity(t *testing.T) {
	var markCalls atomic.Int64
	client := markBackend(t, false, &markCalls)

	info, _ := Lookup("龙岩")
	d := NewDetail(info)
	refreshed := false
	d.OnMarked = func() { refreshed = true }

	outcome, err := d.MarkExplored(context.Background(), client)
	if err != nil {
		t.Fatalf("MarkExplored: %v", err)
	}
	if outcome != MarkedNow {
		t.Errorf("outcome = %v, want MarkedNow", outcome)
	}
	if !d.Marked() {
		t.Error("action should be disabled after a successful mark")
	}
	if !refreshed {
		t.Error("parent refresh hook not invoked")
	}
	if markCalls.Load() != 1 {
		t.Errorf("mark calls = %d, want 1", markCalls.Load())
	}

	// Second attempt in the same page lifetime: no further calls.
	outcome, err = d.MarkExplored(context.Background(), client)
	if err != nil || outcome != AlreadyExplored {
		t.Errorf("second mark = %v,%v, want AlreadyExplored", outcome, err)
	}
	if markCalls.Load() != 1 {
		t.Errorf("mark calls after repeat = %d, want still 1", markCalls.Load())
	}
}

func TestMarkExploredAlreadyExplored(t *testing.T) {
	var markCalls atomic.Int64
	client := markBackend(t, true, &markCalls)

	info, _ := Lookup("莆田")
	d := NewDetail(info)

	outcome, err := d.MarkExplored(context.Background(), client)
	if err != nil {
		t.Fatalf("MarkExplored: %v", err)
	}
	if outcome != AlreadyExplored {
		t.Errorf("outcome = %v, want AlreadyExplored", outcome)
	}
	if markCalls.Load() != 0 {
		t.Errorf("mark calls = %d, want 0 for an already-explored city", markCalls.Load())
	}
	if !d.Marked() {
		t.Error("action should be disabled once the city is known explored")
	}
}
