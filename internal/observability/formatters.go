// Package observability provides logging setup and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDraftSummary outputs what the draft contains per category.
func (p *Printer) PrintDraftSummary(fd types.FormData) {
	var sb strings.Builder

	title := fd.Title
	if title == "" {
		title = "(untitled)"
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	if fd.PersonalInfo != nil {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", fd.PersonalInfo.FullName))
		sb.WriteString(fmt.Sprintf("Email:    %s\n", fd.PersonalInfo.Email))
	}
	sb.WriteString("\n")

	counts := []struct {
		label string
		n     int
	}{
		{"Work experience", len(fd.WorkExperiences)},
		{"Education", len(fd.Educations)},
		{"Skills", len(fd.Skills)},
		{"Languages", len(fd.Languages)},
		{"Projects", len(fd.Projects)},
		{"Certifications", len(fd.Certifications)},
	}
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("  • %-16s %d\n", c.label, c.n))
	}

	if len(fd.Skills) > 0 {
		sb.WriteString("\nTop skills:\n")
		count := min(len(fd.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", fd.Skills[i].Name, fd.Skills[i].Level.Label()))
		}
		if len(fd.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fd.Skills)-maxItemsToShow))
		}
	}

	p.printBox("DRAFT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGateReport outputs the result of every step gate.
func (p *Printer) PrintGateReport(results []wizard.GateResult) {
	var sb strings.Builder
	failed := 0
	for _, r := range results {
		name := r.Step.String()
		if def, ok := wizard.LookupStep(r.Step); ok {
			name = def.Title
		}
		if r.Passed {
			sb.WriteString(fmt.Sprintf("✓ %d. %s\n", int(r.Step), name))
			continue
		}
		failed++
		sb.WriteString(fmt.Sprintf("✗ %d. %s\n", int(r.Step), name))
		if r.Notification != nil {
			sb.WriteString(fmt.Sprintf("    %s\n", r.Notification.Title))
		}
	}
	if failed == 0 {
		sb.WriteString("\nReady to finish")
	} else {
		sb.WriteString(fmt.Sprintf("\n%d step(s) block finishing", failed))
	}

	p.printBox("STEP GATES", sb.String())
}

// PrintFieldErrors outputs field validation failures.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFieldErrors(errs wizard.FieldErrors) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL FIELDS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d invalid fields:\n\n", len(errs)))
	for i, fe := range errs {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(fe.Message, 45)))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FIELD ERRORS", sb.String())
}

// PrintRendered lists the files written by a render run.
func (p *Printer) PrintRendered(paths []string) {
	if len(paths) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Wrote %d file(s):\n", len(paths)))
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf("  • %s\n", path))
	}
	p.printBox("RENDERED", strings.TrimSuffix(sb.String(), "\n"))
}
