// Package session resolves the signed-in/signed-out navigation state every
// page load starts with.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
)

// State is the navigation presentation.
type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// Nav is the pair of mutually exclusive navigation regions. AvatarURL is
// set only when signed in, with a cache-busting query so a fresh avatar
// shows immediately; signed-out clears it entirely so no unauthorized
// avatar fetch happens.
type Nav struct {
	State     State
	Username  string
	AvatarURL string
}

// Check probes the session once and returns the nav state. Any failure —
// transport, status, parse — degrades to the signed-out presentation
// (fail-safe, never fail-open).
func Check(ctx context.Context, client *api.Client) Nav {
	status, err := client.CheckLogin(ctx)
	if err != nil {
		log.Printf("session: checking login: %v", err)
		return Nav{State: SignedOut}
	}
	if !status.LoggedIn {
		return Nav{State: SignedOut}
	}
	return Nav{
		State:     SignedIn,
		Username:  status.Username,
		AvatarURL: fmt.Sprintf("/get-avatar?t=%d", time.Now().UnixMilli()),
	}
}
