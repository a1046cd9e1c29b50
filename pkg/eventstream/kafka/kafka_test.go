package kafka_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/eventstream/kafka"
)

var _ = Describe("Publisher", func() {
	It("requires at least one broker", func() {
		_, err := kafka.NewPublisher(nil, "relay.chat.events")
		Expect(err).To(MatchError(ContainSubstring("brokers")))
	})

	It("requires a topic", func() {
		_, err := kafka.NewPublisher([]string{"localhost:9092"}, "")
		Expect(err).To(MatchError(ContainSubstring("topic")))
	})

	It("creates a publisher with brokers and a topic", func() {
		p, err := kafka.NewPublisher([]string{"localhost:9092"}, "relay.chat.events")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).NotTo(BeNil())
		Expect(p.Close()).To(Succeed())
	})

	It("rejects nil events before touching the network", func() {
		p, err := kafka.NewPublisher([]string{"localhost:9092"}, "relay.chat.events")
		Expect(err).NotTo(HaveOccurred())
		defer p.Close()

		Expect(p.PublishChat(context.Background(), nil)).To(HaveOccurred())
	})
})
