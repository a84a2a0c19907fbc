package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryEnqueueRejectsWhenFull(t *testing.T) {
	q := New(2)
	assert.True(t, q.TryEnqueue(slack.SlashCommand{Command: "/balance", UserID: "U1"}))
	assert.True(t, q.TryEnqueue(slack.SlashCommand{Command: "/balance", UserID: "U2"}))
	assert.False(t, q.TryEnqueue(slack.SlashCommand{Command: "/balance", UserID: "U3"}))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.Cap())
}

func TestDequeueIsFIFO(t *testing.T) {
	q := New(3)
	for _, u := range []string{"U1", "U2", "U3"} {
		require.True(t, q.TryEnqueue(slack.SlashCommand{UserID: u}))
	}
	ctx := context.Background()
	for _, want := range []string{"U1", "U2", "U3"} {
		cmd, ok := q.Dequeue(ctx)
		require.True(t, ok)
		assert.Equal(t, want, cmd.UserID)
	}
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New(1)
	got := make(chan slack.SlashCommand, 1)
	go func() {
		cmd, ok := q.Dequeue(context.Background())
		if ok {
			got <- cmd
		}
	}()

	select {
	case <-got:
		t.Fatal("dequeue returned before anything was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, q.TryEnqueue(slack.SlashCommand{UserID: "U9"}))
	select {
	case cmd := <-got:
		assert.Equal(t, "U9", cmd.UserID)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestDequeueStopsOnCancelAndClose(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := q.Dequeue(ctx)
	assert.False(t, ok)

	q.Close()
	q.Close()
	_, ok = q.Dequeue(context.Background())
	assert.False(t, ok)
	assert.False(t, q.TryEnqueue(slack.SlashCommand{}))
}

func TestCloseDrainsBufferedCommands(t *testing.T) {
	for i := 0; i < 200; i++ {
		q := New(5)
		for _, u := range []string{"U1", "U2", "U3"} {
			require.True(t, q.TryEnqueue(slack.SlashCommand{UserID: u}))
		}
		q.Close()
		assert.False(t, q.TryEnqueue(slack.SlashCommand{UserID: "U4"}))

		var got []string
		for {
			cmd, ok := q.Dequeue(context.Background())
			if !ok {
				break
			}
			got = append(got, cmd.UserID)
		}
		require.Equal(t, []string{"U1", "U2", "U3"}, got)
		assert.Zero(t, q.Len())
	}
}

func TestConcurrentProducersNeverExceedCapacity(t *testing.T) {
	q := New(10)
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.TryEnqueue(slack.SlashCommand{}) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, accepted)
	assert.Equal(t, 10, q.Len())
}
