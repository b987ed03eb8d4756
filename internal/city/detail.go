package city

import (
	"context"
	"fmt"

	"github.com/minpaixinyu/minpai/internal/api"
)

// DefaultTabs are the detail-page content panels, in digit-key order.
var DefaultTabs = []string{"culture", "attractions", "food", "history"}

// MarkOutcome distinguishes the two success notices of the mark-explored
// flow.
type MarkOutcome int

const (
	// MarkedNow means the mark call just succeeded.
	MarkedNow MarkOutcome = iota
	// AlreadyExplored means the status check short-circuited the call.
	AlreadyExplored
)

// Detail is the city-detail page state: exactly one active tab, at most one
// image overlay, and a mark action that disables irreversibly once the city
// is known explored.
type Detail struct {
	Info Info

	tabs      []string
	activeTab int
	overlay   *Overlay
	marked    bool

	// OnMarked is the parent/opener refresh hook, invoked after a
	// successful mark when set.
	OnMarked func()
}

// Overlay is a dismissible full-size image view.
type Overlay struct {
	Src     string
	Caption string
}

// NewDetail creates the controller for one city page.
func NewDetail(info Info) *Detail {
	return &Detail{Info: info, tabs: DefaultTabs}
}

// Tabs returns the panel names.
func (d *Detail) Tabs() []string { return d.tabs }

// ActiveTab returns the index of the one visible panel.
func (d *Detail) ActiveTab() int { return d.activeTab }

// SelectTab activates panel i and deactivates every other; out-of-range
// indices are ignored.
func (d *Detail) SelectTab(i int) {
	if i < 0 || i >= len(d.tabs) {
		return
	}
	d.activeTab = i
}

// SelectTabByDigit maps the digit keys 1-4 onto the tabs.
func (d *Detail) SelectTabByDigit(digit rune) {
	if digit < '1' || digit > '9' {
		return
	}
	d.SelectTab(int(digit - '1'))
}

// ShowImage opens the zoom overlay for an image. A newly shown overlay
// replaces the current one.
func (d *Detail) ShowImage(src, caption string) {
	d.overlay = &Overlay{Src: src, Caption: caption}
}

// Overlay returns the currently shown overlay, nil when none.
func (d *Detail) Overlay() *Overlay { return d.overlay }

// Dismiss closes the overlay. Close button, outside click, and Escape all
// land here.
func (d *Detail) Dismiss() { d.overlay = nil }

// Marked reports whether the mark action has been disabled for this page's
// lifetime.
func (d *Detail) Marked() bool { return d.marked }

// MarkExplored runs the guarded flow: check the current status first so an
// already-explored city gets its own notice and zero mark calls; otherwise
// mark, disable the action irreversibly, and poke the parent refresh hook.
func (d *Detail) MarkExplored(ctx context.Context, client *api.Client) (MarkOutcome, error) {
	if d.marked {
		return AlreadyExplored, nil
	}

	explored, err := client.CheckExplored(ctx, d.Info.Name)
	if err != nil {
		return 0, fmt.Errorf("checking explored status: %w", err)
	}
	if explored {
		d.marked = true
		return AlreadyExplored, nil
	}

	if err := client.MarkExplored(ctx, d.Info.Name); err != nil {
		return 0, err
	}
	d.marked = true
	if d.OnMarked != nil {
		d.OnMarked()
	}
	return MarkedNow, nil
}
