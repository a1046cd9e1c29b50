package cliui_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/cliui"
)

var _ = Describe("Cliui", func() {
	Describe("FormatDuration", func() {
		It("renders sub-second durations in milliseconds", func() {
			Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		})

		It("renders longer durations in seconds", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("Mark", func() {
		It("marks success for nil errors", func() {
			Expect(cliui.Mark(nil)).To(ContainSubstring("✓"))
		})

		It("marks failure for errors", func() {
			Expect(cliui.Mark(errors.New("boom"))).To(ContainSubstring("✗"))
		})
	})

	Describe("StatusLine", func() {
		It("prefers the description field", func() {
			line := cliui.StatusLine(map[string]any{
				"description": "searching the web",
				"done":        false,
			})
			Expect(line).To(ContainSubstring("searching the web"))
			Expect(line).NotTo(ContainSubstring("done"))
		})

		It("falls back to sorted key/value pairs", func() {
			line := cliui.StatusLine(map[string]any{"b": 2, "a": 1})
			Expect(strings.Index(line, "a=1")).To(BeNumerically("<", strings.Index(line, "b=2")))
		})

		It("renders a placeholder for empty payloads", func() {
			Expect(cliui.StatusLine(map[string]any{})).To(ContainSubstring("working"))
		})
	})

	Describe("CitationList", func() {
		It("returns empty for no citations", func() {
			Expect(cliui.CitationList(nil)).To(BeEmpty())
		})

		It("numbers citations and includes titles and URLs", func() {
			out := cliui.CitationList([]map[string]any{
				{"title": "Example", "url": "https://example.com"},
				{"url": "https://second.test"},
			})
			Expect(out).To(ContainSubstring("[1] Example (https://example.com)"))
			Expect(out).To(ContainSubstring("[2] https://second.test"))
		})
	})

	Describe("Step", func() {
		It("reports the wrapped function's error and prints the message", func() {
			var sb strings.Builder
			err := cliui.Step(&sb, "doing work", func() error {
				return errors.New("boom")
			})
			Expect(err).To(MatchError("boom"))
			Expect(sb.String()).To(ContainSubstring("doing work"))
		})
	})
})
