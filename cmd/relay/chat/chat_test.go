package chatcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/opentoolset/relay/cmd/relay/chat"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --endpoint flag with the default server URL", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("endpoint")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("e"))
		Expect(flag.DefValue).To(Equal("http://localhost:3000"))
	})

	It("has --api-key flag", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("api-key")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
	})

	It("has --markdown flag defaulting to off", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("markdown")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("false"))
	})
})
