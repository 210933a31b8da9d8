package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribe(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Publish(42)
	assert.Equal(t, 42, <-sub)
	b.Unsubscribe(sub)
	_, ok := <-sub
	assert.False(t, ok, "channel closed after unsubscribe")
}

func TestPublishNonBlocking(t *testing.T) {
	b := New[int]()
	b.Subscribe()
	// Buffer is 8; overflow must not block the publisher.
	for i := 0; i < 20; i++ {
		b.Publish(i)
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := New[string]()
	sub := b.Subscribe()
	b.Close()
	b.Close()
	_, ok := <-sub
	assert.False(t, ok)
	b.Publish("after close")
}

func TestSubscribeAfterClose(t *testing.T) {
	b := New[int]()
	b.Close()
	sub := b.Subscribe()
	_, ok := <-sub
	assert.False(t, ok, "subscription on a closed bus is immediately closed")
}
