package loader

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// PageExtractor returns the plain text of each page of a PDF, in order.
// Empty pages are returned as empty strings so page numbers stay aligned.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFToText extracts pages with the poppler pdftotext tool.
type PDFToText struct {
	runner   CommandRunner
	lookPath bool
}

// NewPDFToText creates an extractor that shells out to pdftotext.
func NewPDFToText() *PDFToText {
	return &PDFToText{runner: execRunner{}, lookPath: true}
}

// NewPDFToTextWithRunner creates an extractor with a custom command runner.
func NewPDFToTextWithRunner(runner CommandRunner) *PDFToText {
	return &PDFToText{runner: runner}
}

// ExtractPages runs pdftotext and splits its output on form feeds,
// which pdftotext emits after every page.
func (p *PDFToText) ExtractPages(ctx context.Context, path string) ([]string, error) {
	if p.lookPath {
		if _, err := exec.LookPath("pdftotext"); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPDFToolNotFound, InstallInstructions())
		}
	}

	out, err := p.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	pages := strings.Split(string(out), "\f")
	// The trailing form feed leaves an empty element that is not a page.
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return "install poppler to get pdftotext (macOS: brew install poppler, Debian/Ubuntu: apt install poppler-utils)"
}
