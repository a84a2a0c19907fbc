// Package queue holds validated slash commands between the HTTP front door
// and the dispatcher.
package queue

import (
	"context"
	"sync"

	"github.com/slack-go/slack"
)

// Queue is a bounded FIFO of slash commands. Any number of producers may call
// TryEnqueue concurrently; a single consumer drains it with Dequeue.
type Queue struct {
	items chan slack.SlashCommand
	done  chan struct{}

	mu     sync.RWMutex // held for reading while sending, so no send follows Close
	closed bool
}

// New creates a queue holding at most capacity pending commands.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		items: make(chan slack.SlashCommand, capacity),
		done:  make(chan struct{}),
	}
}

// TryEnqueue adds cmd without blocking. It returns false when the queue is
// full or closed, in which case the caller should report an overload.
func (q *Queue) TryEnqueue(cmd slack.SlashCommand) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.items <- cmd:
		return true
	default:
		return false
	}
}

// Dequeue blocks until a command is available. After Close it keeps handing
// out the buffered commands and reports false once they are exhausted. A
// cancelled ctx reports false right away.
func (q *Queue) Dequeue(ctx context.Context) (slack.SlashCommand, bool) {
	select {
	case cmd := <-q.items:
		return cmd, true
	default:
	}
	select {
	case cmd := <-q.items:
		return cmd, true
	case <-ctx.Done():
		return slack.SlashCommand{}, false
	case <-q.done:
		select {
		case cmd := <-q.items:
			return cmd, true
		default:
			return slack.SlashCommand{}, false
		}
	}
}

// Close stops accepting commands and wakes up a blocked Dequeue. Commands
// already buffered are still dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
}

// Len is the number of commands waiting to be processed.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cap is the fixed capacity of the queue.
func (q *Queue) Cap() int {
	return cap(q.items)
}
