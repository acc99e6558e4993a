package rendering

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// A4 paper size in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// PDFOptions configures headless Chrome exports.
type PDFOptions struct {
	// MaxConcurrent caps the number of browsers running at once.
	MaxConcurrent int64
	Timeout       time.Duration
	// ExecPath overrides Chrome discovery.
	ExecPath string
}

// DefaultPDFOptions returns the defaults used when nothing is configured.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{MaxConcurrent: 2, Timeout: 30 * time.Second}
}

// PDFRenderer prints HTML to PDF through headless Chrome.
type PDFRenderer struct {
	opts PDFOptions
	sem  *semaphore.Weighted
}

// NewPDFRenderer creates a renderer. Non-positive options fall back to defaults.
func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	def := DefaultPDFOptions()
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = def.MaxConcurrent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &PDFRenderer{opts: opts, sem: semaphore.NewWeighted(opts.MaxConcurrent)}
}

var chromeCandidates = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"}

// ChromeAvailable reports whether a Chrome binary can be found.
func ChromeAvailable(execPath string) bool {
	if execPath != "" {
		_, err := exec.LookPath(execPath)
		return err == nil
	}
	for _, name := range chromeCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// Render prints html to an A4 PDF. It blocks while the concurrency limit is
// reached, until ctx is done.
func (r *PDFRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &RenderError{Message: "waiting for a browser slot", Cause: err}
	}
	defer r.sem.Release(1)

	started := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.opts.Timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &RenderError{Message: fmt.Sprintf("PDF export timed out after %s", r.opts.Timeout), Cause: err}
		}
		return nil, &RenderError{Message: "PDF export failed", Cause: err}
	}

	log.Debug().
		Int("bytes", len(pdf)).
		Dur("duration", time.Since(started)).
		Msg("PDF rendered")

	return pdf, nil
}
