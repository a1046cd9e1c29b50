// Package cliui provides reusable terminal UI helpers (spinners, status
// lines, markdown rendering) for relay CLI commands.
package cliui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	DimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	PromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	StatusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	CitationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	var mu sync.Mutex

	// Run spinner animation in background
	go func() {
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			mu.Lock()
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)

	// Clear the spinner line and print final result
	mu.Lock()
	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)
	mu.Unlock()

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// StatusLine renders a status event payload as a single dimmed line.
// A "description" field is preferred; otherwise the payload's key/value
// pairs are joined in key order.
func StatusLine(data map[string]any) string {
	if desc, ok := data["description"].(string); ok && desc != "" {
		return StatusStyle.Render("· " + desc)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	if len(parts) == 0 {
		return StatusStyle.Render("· working")
	}

	return StatusStyle.Render("· " + strings.Join(parts, " "))
}

// CitationList renders collected citation payloads as a numbered source list.
// Returns "" when there is nothing to show.
func CitationList(citations []map[string]any) string {
	if len(citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(CitationStyle.Render("Sources:"))
	sb.WriteString("\n")
	for i, data := range citations {
		title, _ := data["title"].(string)
		url, _ := data["url"].(string)

		label := title
		switch {
		case label == "" && url != "":
			label = url
		case label != "" && url != "":
			label = fmt.Sprintf("%s (%s)", title, url)
		case label == "":
			label = "unnamed source"
		}

		sb.WriteString(CitationStyle.Render(fmt.Sprintf("  [%d] %s", i+1, label)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderMarkdown renders markdown content for terminal display using glamour.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}
