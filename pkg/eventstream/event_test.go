package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals ChatRelayedEvent with expected top-level keys", func() {
		now := time.Unix(1735689600, 0).UTC()
		event := eventstream.ChatRelayedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeChatRelayed,
			EventID:       "evt_123",
			EmittedAt:     now,
			Source: eventstream.EventSource{
				Instance:  "open-webui",
				UserEmail: "ada@example.com",
				Provider:  "anthropic",
				Model:     "claude-sonnet-4-5",
			},
			RequestMeta: eventstream.ChatRequestMeta{
				Path:        "/api/v1/chat",
				StartedAt:   now.Add(-2 * time.Second),
				CompletedAt: now,
				DurationMs:  2000,
				Streaming:   true,
				HTTPStatus:  200,
			},
			Counts: eventstream.ChatEventCounts{
				Messages:  12,
				Statuses:  3,
				Citations: 2,
			},
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKey("request_meta"))
		Expect(got).To(HaveKey("counts"))
		Expect(got).NotTo(HaveKey("error"))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeChatRelayed).To(Equal("relay.chat.relayed"))
	})

	It("stamps new events with an ID and emission time", func() {
		event := eventstream.NewChatRelayedEvent()

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeChatRelayed))
		Expect(event.EventID).NotTo(BeEmpty())
		Expect(event.EmittedAt).To(BeTemporally("~", time.Now(), time.Minute))
	})

	It("assigns distinct IDs to distinct events", func() {
		Expect(eventstream.NewChatRelayedEvent().EventID).NotTo(
			Equal(eventstream.NewChatRelayedEvent().EventID))
	})

	It("provides ErrNilChatEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilChatEvent).NotTo(BeNil())
		Expect(eventstream.ErrNilChatEvent).To(MatchError("nil chat event"))
	})
})
