package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a draft file",
	Long: `Renders a draft JSON file with a resume template.

Formats: html (screen), print (export HTML), tex (LaTeX source), pdf (needs Chrome) or all.`,
	RunE: runRender,
}

var (
	renderDraftFile     string
	renderTemplateID    string
	renderFormat        string
	renderOutputDir     string
	renderLaTeXTemplate string
	renderChromePath    string
)

func init() {
	renderCmd.Flags().StringVarP(&renderDraftFile, "draft", "d", "", "Path to draft JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplateID, "template", "t", "", "Template ID (default: the draft's template, then toronto)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: html, print, tex, pdf or all (default html)")
	renderCmd.Flags().StringVarP(&renderOutputDir, "out", "o", "", "Output directory (default .)")
	renderCmd.Flags().StringVar(&renderLaTeXTemplate, "latex-template", "", "Path to a custom LaTeX template")
	renderCmd.Flags().StringVar(&renderChromePath, "chrome", "", "Chrome binary for PDF output (default $CHROME_PATH)")
	_ = renderCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(renderCmd)
}

// renderJob is one output file of a render run.
type renderJob struct {
	format string
	path   string
	render func(ctx context.Context) ([]byte, error)
}

func runRender(cmd *cobra.Command, _ []string) error {
	opts := config.Config{
		Template:      renderTemplateID,
		Format:        renderFormat,
		OutputDir:     renderOutputDir,
		LaTeXTemplate: renderLaTeXTemplate,
		ChromePath:    renderChromePath,
	}
	opts = opts.MergeWithDefaults(fileConfig)
	opts = opts.MergeWithDefaults(config.Config{
		Template:   rendering.DefaultTemplateID,
		Format:     config.FormatHTML,
		OutputDir:  ".",
		ChromePath: config.EnvString("CHROME_PATH", ""),
	})
	if err := opts.Validate(); err != nil {
		return err
	}

	draft, err := schemas.LoadDraftFile(renderDraftFile)
	if err != nil {
		return err
	}
	templateID := opts.Template
	if renderTemplateID == "" && draft.TemplateID != "" {
		templateID = draft.TemplateID
	}
	tmpl, err := rendering.LookupTemplate(templateID)
	if err != nil {
		return err
	}
	doc := rendering.Project(draft.FormData)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(renderDraftFile), filepath.Ext(renderDraftFile))
	jobs := renderJobs(opts, doc, tmpl, filepath.Join(opts.OutputDir, base))

	var (
		mu      sync.Mutex
		written []string
	)
	g, ctx := errgroup.WithContext(commandContext(cmd))
	for _, job := range jobs {
		g.Go(func() error {
			data, err := job.render(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", job.format, err)
			}
			if err := os.WriteFile(job.path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", job.path, err)
			}
			log.Debug().Str("format", job.format).Str("path", job.path).Int("bytes", len(data)).Msg("rendered")

			mu.Lock()
			written = append(written, job.path)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	// Files written before a failure are still reported.
	slices.Sort(written)
	observability.NewPrinter(cmd.OutOrStdout()).PrintRendered(written)
	return err
}

func renderJobs(opts config.Config, doc rendering.Document, tmpl rendering.Template, stem string) []renderJob {
	html := renderJob{
		format: config.FormatHTML,
		path:   stem + ".html",
		render: func(context.Context) ([]byte, error) {
			out, err := rendering.RenderHTML(doc, tmpl, rendering.VariantFull)
			return []byte(out), err
		},
	}
	printed := renderJob{
		format: config.FormatPrint,
		path:   stem + ".print.html",
		render: func(context.Context) ([]byte, error) {
			out, err := rendering.RenderPrintHTML(doc, tmpl)
			return []byte(out), err
		},
	}
	tex := renderJob{
		format: config.FormatTeX,
		path:   stem + ".tex",
		render: func(context.Context) ([]byte, error) {
			var out string
			var err error
			if opts.LaTeXTemplate != "" {
				out, err = rendering.RenderLaTeXFile(doc, tmpl, opts.LaTeXTemplate)
			} else {
				out, err = rendering.RenderLaTeX(doc, tmpl)
			}
			return []byte(out), err
		},
	}
	pdf := renderJob{
		format: config.FormatPDF,
		path:   stem + ".pdf",
		render: func(ctx context.Context) ([]byte, error) {
			page, err := rendering.RenderExportHTML(doc, tmpl)
			if err != nil {
				return nil, err
			}
			pdfOpts := rendering.DefaultPDFOptions()
			pdfOpts.ExecPath = opts.ChromePath
			return rendering.NewPDFRenderer(pdfOpts).Render(ctx, page)
		},
	}

	switch opts.Format {
	case config.FormatPrint:
		return []renderJob{printed}
	case config.FormatTeX:
		return []renderJob{tex}
	case config.FormatPDF:
		return []renderJob{pdf}
	case config.FormatAll:
		return []renderJob{html, printed, tex, pdf}
	default:
		return []renderJob{html}
	}
}
