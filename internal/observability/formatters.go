// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/faculty-digest/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxPreviewLines bounds the wrapped bio and summary previews
	maxPreviewLines = 4
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries and
// keeps at most maxLines of them.
func wrap(text string, width, maxLines int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], truncate(lines[maxLines-1]+" ...", width))
	}
	return lines
}

// PrintLinks outputs the discovered profile links.
func (p *Printer) PrintLinks(links []string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Found %d profile links\n", len(links)))
	count := min(len(links), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", links[i]))
	}
	if len(links) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(links)-maxItemsToShow))
	}

	p.printBox("DISCOVERED LINKS", sb.String())
}

// PrintProfile outputs a human-readable view of one extracted profile.
func (p *Printer) PrintProfile(profile *types.FacultyProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	previewWidth := boxWidth - 6

	sb.WriteString(fmt.Sprintf("Name:   %s\n", valueOr(profile.Name, "(not found)")))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", valueOr(profile.Email, "(none)")))
	sb.WriteString(fmt.Sprintf("URL:    %s\n", profile.URL))
	sb.WriteString("\n")

	if profile.HasBio() {
		sb.WriteString(fmt.Sprintf("Bio (%d paragraphs):\n", len(profile.Paragraphs())))
		for _, line := range wrap(profile.Bio, previewWidth, maxPreviewLines) {
			sb.WriteString("  " + line + "\n")
		}
	} else {
		sb.WriteString(fmt.Sprintf("Bio: %s\n", profile.Bio))
	}

	switch {
	case profile.Summary != "":
		sb.WriteString("\nSummary:\n")
		for _, line := range wrap(profile.Summary, previewWidth, maxPreviewLines) {
			sb.WriteString("  " + line + "\n")
		}
	case profile.SummaryError != "":
		sb.WriteString(fmt.Sprintf("\n⚠️  Summary failed: %s\n", profile.SummaryError))
	}

	p.printBox("FACULTY PROFILE", sb.String())
}

// PrintRunSummary outputs the totals of a finished run.
func (p *Printer) PrintRunSummary(discovered int, profiles []types.FacultyProfile, skipped []string) {
	var sb strings.Builder

	var empty, failed, unsummarized int
	for i := range profiles {
		switch profiles[i].BioState {
		case types.BioEmpty:
			empty++
		case types.BioFailed:
			failed++
		}
		if profiles[i].Summary == "" {
			unsummarized++
		}
	}

	sb.WriteString(fmt.Sprintf("Links discovered:      %d\n", discovered))
	sb.WriteString(fmt.Sprintf("Records saved:         %d\n", len(profiles)))
	sb.WriteString(fmt.Sprintf("Bios without content:  %d\n", empty))
	sb.WriteString(fmt.Sprintf("Bios not extracted:    %d\n", failed))
	sb.WriteString(fmt.Sprintf("Without summary:       %d\n", unsummarized))

	if len(skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped (%d):\n", len(skipped)))
		count := min(len(skipped), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skipped[i]))
		}
		if len(skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skipped)-maxItemsToShow))
		}
	}

	p.printBox("RUN SUMMARY", sb.String())
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
