// Package ebook implements the reading-log document viewer: page/zoom/view
// state plus the render discipline of at most one render in flight and at
// most one pending target. Every input source (keys, resize, visibility)
// funnels through Request, so rapid page flips collapse into the newest
// target instead of queueing.
package ebook

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
)

// ViewMode is a pure display-layout flag.
type ViewMode string

const (
	ModeSingle ViewMode = "single"
	ModeSpread ViewMode = "spread"
)

// DefaultScale is the zoom factor a fresh viewer and ZoomReset use.
const DefaultScale = 1.2

// minScale is the zoom floor; there is no ceiling.
const minScale = 0.5

// ErrNotLoaded is returned by operations before a successful Open.
var ErrNotLoaded = errors.New("no document loaded")

// Document is the third-party renderer boundary. Render returns the page
// content for display; the viewer never looks inside the document format.
type Document interface {
	PageCount() int
	Render(ctx context.Context, page int) (string, error)
}

// Frame is one completed render delivered to the sink.
type Frame struct {
	Page  int
	Pages int
	Scale float64
	Mode  ViewMode
	Text  string
}

// RenderSink receives completed renders. A render failure is delivered with
// err set; the viewer stays usable either way.
type RenderSink func(Frame, error)

type renderReq struct {
	page  int
	scale float64
	mode  ViewMode
}

// Viewer holds the document state. Mutations take the mutex; the render
// goroutine owns the in-flight flag and drains the single pending slot on
// completion.
type Viewer struct {
	sink RenderSink

	mu        sync.Mutex
	doc       Document
	ctx       context.Context
	page      int
	scale     float64
	mode      ViewMode
	rendering bool
	pending   *renderReq
}

// NewViewer creates a viewer delivering renders to sink.
func NewViewer(sink RenderSink) *Viewer {
	return &Viewer{sink: sink, scale: DefaultScale, mode: ModeSingle, page: 1}
}

// Open attaches a loaded document and renders its first page (or startPage
// when a bookmark is being restored). Loading failures belong to the
// Document constructor; Open itself cannot fail on a non-nil document.
func (v *Viewer) Open(ctx context.Context, doc Document, startPage int) {
	v.mu.Lock()
	v.doc = doc
	v.ctx = ctx
	v.page = clamp(startPage, 1, doc.PageCount())
	v.mu.Unlock()
	v.Request(v.Page())
}

// Page returns the current 1-based page number.
func (v *Viewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageCount returns the document length, zero before Open.
func (v *Viewer) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil {
		return 0
	}
	return v.doc.PageCount()
}

// Scale returns the current zoom factor.
func (v *Viewer) Scale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

// Mode returns the current view mode.
func (v *Viewer) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// Request asks for the given page to be rendered. While a render is in
// flight the single pending slot is overwritten — last write wins, earlier
// pending targets are discarded, and there is never more than one follow-up
// render.
func (v *Viewer) Request(page int) {
	v.mu.Lock()
	if v.doc == nil {
		v.mu.Unlock()
		return
	}
	v.page = clamp(page, 1, v.doc.PageCount())
	req := renderReq{page: v.page, scale: v.scale, mode: v.mode}
	if v.rendering {
		v.pending = &req
		v.mu.Unlock()
		return
	}
	v.rendering = true
	ctx := v.ctx
	v.mu.Unlock()

	go v.renderLoop(ctx, req)
}

func (v *Viewer) renderLoop(ctx context.Context, req renderReq) {
	for {
		text, err := v.doc.Render(ctx, req.page)
		if err != nil {
			log.Printf("ebook: rendering page %d: %v", req.page, err)
		}
		if v.sink != nil {
			v.sink(Frame{
				Page:  req.page,
				Pages: v.doc.PageCount(),
				Scale: req.scale,
				Mode:  req.mode,
				Text:  text,
			}, err)
		}

		v.mu.Lock()
		if v.pending != nil {
			req = *v.pending
			v.pending = nil
			v.mu.Unlock()
			continue
		}
		v.rendering = false
		v.mu.Unlock()
		return
	}
}

// NextPage advances one page, clamped at the end.
func (v *Viewer) NextPage() { v.step(1) }

// PrevPage steps back one page, clamped at the start.
func (v *Viewer) PrevPage() { v.step(-1) }

// FirstPage jumps to page 1.
func (v *Viewer) FirstPage() { v.Request(1) }

// LastPage jumps to the final page.
func (v *Viewer) LastPage() {
	if n := v.PageCount(); n > 0 {
		v.Request(n)
	}
}

// GoTo jumps to page n, clamped to the document range.
func (v *Viewer) GoTo(n int) { v.Request(n) }

func (v *Viewer) step(delta int) {
	v.mu.Lock()
	target := v.page + delta
	v.mu.Unlock()
	v.Request(target)
}

// ZoomIn raises the scale by 0.1 (no ceiling) and re-renders.
func (v *Viewer) ZoomIn() { v.setScale(v.Scale() + 0.1) }

// ZoomOut lowers the scale by 0.1, never below 0.5, and re-renders.
func (v *Viewer) ZoomOut() { v.setScale(v.Scale() - 0.1) }

// ZoomReset restores the default scale and re-renders.
func (v *Viewer) ZoomReset() { v.setScale(DefaultScale) }

func (v *Viewer) setScale(s float64) {
	v.mu.Lock()
	s = math.Round(s*10) / 10
	if s < minScale {
		s = minScale
	}
	v.scale = s
	page := v.page
	v.mu.Unlock()
	v.Request(page)
}

// SetMode switches between single and spread layout and re-renders the
// current page.
func (v *Viewer) SetMode(mode ViewMode) {
	v.mu.Lock()
	v.mode = mode
	page := v.page
	v.mu.Unlock()
	v.Request(page)
}

// Refresh re-renders the current page; the resize and visibility-change
// analogues call this.
func (v *Viewer) Refresh() { v.Request(v.Page()) }

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
