package ebook

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// PDFTextDocument renders pages as plain text by shelling out to the
// poppler tools (pdfinfo for the page count, pdftotext per page). The PDF
// format itself stays on the other side of that boundary.
type PDFTextDocument struct {
	path  string
	pages int
}

// OpenPDF probes the document and returns a page-addressable view of it. A
// missing file, a missing poppler install, or an unparseable document all
// fail here, before any viewer state exists.
func OpenPDF(ctx context.Context, path string) (*PDFTextDocument, error) {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}

	m := pagesRe.FindSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("opening document %s: page count not found", path)
	}
	pages, err := strconv.Atoi(string(m[1]))
	if err != nil || pages < 1 {
		return nil, fmt.Errorf("opening document %s: bad page count %q", path, m[1])
	}

	return &PDFTextDocument{path: path, pages: pages}, nil
}

// PageCount returns the number of pages.
func (d *PDFTextDocument) PageCount() int { return d.pages }

// Render extracts the text of one page.
func (d *PDFTextDocument) Render(ctx context.Context, page int) (string, error) {
	n := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, "pdftotext", "-f", n, "-l", n, "-layout", d.path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w", page, err)
	}
	return strings.TrimRight(string(out), "\f\n") + "\n", nil
}
