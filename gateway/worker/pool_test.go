package worker

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opentoolset/relay/pkg/eventstream"
	"github.com/opentoolset/relay/pkg/logger"
)

// recordingPublisher captures published events for assertions.
// Callers should "wp.Close()" to drain enqueued jobs before asserting.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ChatRelayedEvent
}

func (p *recordingPublisher) PublishChat(_ context.Context, event *eventstream.ChatRelayedEvent) error {
	if event == nil {
		return eventstream.ErrNilChatEvent
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) Events() []*eventstream.ChatRelayedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*eventstream.ChatRelayedEvent(nil), p.events...)
}

// blockingPublisher parks every publish until released, to fill the queue
// deterministically.
type blockingPublisher struct {
	release chan struct{}
}

func (p *blockingPublisher) PublishChat(context.Context, *eventstream.ChatRelayedEvent) error {
	<-p.release
	return nil
}

func (p *blockingPublisher) Close() error {
	return nil
}

// flakyPublisher fails its first publish and delegates the rest.
type flakyPublisher struct {
	recordingPublisher
	mu     sync.Mutex
	failed bool
}

func (p *flakyPublisher) PublishChat(ctx context.Context, event *eventstream.ChatRelayedEvent) error {
	p.mu.Lock()
	first := !p.failed
	p.failed = true
	p.mu.Unlock()

	if first {
		return errors.New("broker unavailable")
	}
	return p.recordingPublisher.PublishChat(ctx, event)
}

func newTestPool() (*Pool, *recordingPublisher) {
	pub := &recordingPublisher{}

	wp, err := NewPool(&Config{
		Publisher: pub,
		Logger:    logger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())

	return wp, pub
}

var _ = Describe("Worker Pool", func() {
	It("requires a publisher", func() {
		_, err := NewPool(&Config{Logger: logger.Nop()})
		Expect(err).To(MatchError(ContainSubstring("publisher")))
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp, _ := newTestPool()
			ok := wp.Enqueue(Job{Event: eventstream.NewChatRelayedEvent()})
			Expect(ok).To(BeTrue())
			wp.Close()
		})

		It("publishes every enqueued event before Close returns", func() {
			wp, pub := newTestPool()

			for range 5 {
				Expect(wp.Enqueue(Job{Event: eventstream.NewChatRelayedEvent()})).To(BeTrue())
			}
			wp.Close()

			Expect(pub.Events()).To(HaveLen(5))
		})

		It("drops jobs when the queue is full", func() {
			pub := &blockingPublisher{release: make(chan struct{})}
			wp, err := NewPool(&Config{
				Publisher: pub,
				QueueSize: 1,
				Logger:    logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			// Workers park on the publisher, so once they hold a job each
			// and the queue is full, further enqueues must be rejected.
			accepted := 0
			for range 100 {
				if wp.Enqueue(Job{Event: eventstream.NewChatRelayedEvent()}) {
					accepted++
				}
			}

			Expect(accepted).To(BeNumerically("<", 100))

			close(pub.release)
			wp.Close()
		})

		It("keeps processing after a publish failure", func() {
			pub := &flakyPublisher{}
			wp, err := NewPool(&Config{
				Publisher: pub,
				Logger:    logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			wp.Enqueue(Job{Event: eventstream.NewChatRelayedEvent()})
			wp.Enqueue(Job{Event: eventstream.NewChatRelayedEvent()})
			wp.Close()

			Expect(pub.Events()).To(HaveLen(1))
		})
	})
})
