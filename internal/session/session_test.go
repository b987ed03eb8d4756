package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
)

func client(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func TestCheckSignedIn(t *testing.T) {
	c := client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logged_in": true, "username": "minyou"}`))
	})
	nav := Check(context.Background(), c)
	if nav.State != SignedIn || nav.Username != "minyou" {
		t.Errorf("nav = %+v", nav)
	}
	if nav.AvatarURL == "" {
		t.Error("signed-in nav needs the avatar reference")
	}
}

func TestCheckSignedOut(t *testing.T) {
	c := client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logged_in": false}`))
	})
	nav := Check(context.Background(), c)
	if nav.State != SignedOut || nav.AvatarURL != "" {
		t.Errorf("nav = %+v", nav)
	}
}

func TestCheckFailureFailsSafe(t *testing.T) {
	c := client(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	nav := Check(context.Background(), c)
	if nav.State != SignedOut {
		t.Errorf("probe failure rendered %v, must never render signed-in", nav.State)
	}
}

func TestCheckParseFailureFailsSafe(t *testing.T) {
	c := client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	nav := Check(context.Background(), c)
	if nav.State != SignedOut {
		t.Errorf("parse failure rendered %v, must never render signed-in", nav.State)
	}
}
