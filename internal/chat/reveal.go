package chat

import (
	"context"
	"time"
	"unicode/utf8"
)

// DefaultRevealInterval matches the 20ms-per-character cadence of the
// original typewriter.
const DefaultRevealInterval = 20 * time.Millisecond

// Reveal emits the turn text one rune at a time on the returned channel and
// closes it when done. The conversation is non-interactive during the
// reveal; callers call MarkRevealed once the channel closes to unlock the
// copy action. Cancelling ctx ends the reveal early without marking.
func Reveal(ctx context.Context, text string, interval time.Duration) <-chan rune {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	out := make(chan rune)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for len(text) > 0 {
			r, size := utf8.DecodeRuneInString(text)
			text = text[size:]
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
