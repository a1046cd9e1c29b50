package sse_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/sse"
)

var _ = Describe("Classify", func() {
	It("classifies event-tag lines", func() {
		line := sse.Classify("event: status")
		Expect(line.Field).To(Equal(sse.FieldEvent))
		Expect(line.Value).To(Equal("status"))
	})

	It("trims whitespace around the event tag", func() {
		line := sse.Classify("event:  source ")
		Expect(line.Field).To(Equal(sse.FieldEvent))
		Expect(line.Value).To(Equal("source"))
	})

	It("classifies data lines, keeping the payload verbatim", func() {
		line := sse.Classify(`data: {"choices":[]}`)
		Expect(line.Field).To(Equal(sse.FieldData))
		Expect(line.Value).To(Equal(`{"choices":[]}`))
	})

	It("recognizes the [DONE] sentinel payload", func() {
		line := sse.Classify("data: [DONE]")
		Expect(line.Field).To(Equal(sse.FieldData))
		Expect(line.Value).To(Equal(sse.Done))
	})

	It("treats comment lines as noise", func() {
		Expect(sse.Classify(": keep-alive").Field).To(Equal(sse.FieldNone))
	})

	It("treats unknown fields as noise", func() {
		Expect(sse.Classify("retry: 3000").Field).To(Equal(sse.FieldNone))
		Expect(sse.Classify("id: 42").Field).To(Equal(sse.FieldNone))
	})

	It("requires the space after the field colon", func() {
		// The toolset server always emits "data: " with a space. A bare
		// "data:{...}" is not one of its frames and is ignored.
		Expect(sse.Classify(`data:{"x":1}`).Field).To(Equal(sse.FieldNone))
		Expect(sse.Classify("event:status").Field).To(Equal(sse.FieldNone))
	})
})

var _ = Describe("Scanner", func() {
	It("yields classified lines in stream order", func() {
		src := strings.NewReader("event: status\ndata: {\"data\":{}}\n\ndata: [DONE]\n")
		s := sse.NewScanner(src)

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Field).To(Equal(sse.FieldEvent))
		Expect(s.Line().Value).To(Equal("status"))

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Field).To(Equal(sse.FieldData))
		Expect(s.Line().Value).To(Equal(`{"data":{}}`))

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Value).To(Equal(sse.Done))

		Expect(s.Scan()).To(BeFalse())
		Expect(s.Err()).NotTo(HaveOccurred())
	})

	It("skips blank lines between frames", func() {
		src := strings.NewReader("\n\n\ndata: one\n\n\ndata: two\n")
		s := sse.NewScanner(src)

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Value).To(Equal("one"))
		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Value).To(Equal("two"))
		Expect(s.Scan()).To(BeFalse())
	})

	It("strips surrounding whitespace before classification", func() {
		src := strings.NewReader("  data: padded\r\n")
		s := sse.NewScanner(src)

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Field).To(Equal(sse.FieldData))
		Expect(s.Line().Value).To(Equal("padded"))
	})

	It("returns false on empty input with no error", func() {
		s := sse.NewScanner(strings.NewReader(""))
		Expect(s.Scan()).To(BeFalse())
		Expect(s.Err()).NotTo(HaveOccurred())
	})

	It("handles large data lines", func() {
		payload := strings.Repeat("x", 512*1024)
		s := sse.NewScanner(strings.NewReader("data: " + payload + "\n"))

		Expect(s.Scan()).To(BeTrue())
		Expect(s.Line().Value).To(HaveLen(len(payload)))
	})
})
