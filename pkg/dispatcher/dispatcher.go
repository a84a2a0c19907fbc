// Package dispatcher drains the request queue and runs one slash command at a
// time.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/command"
	"github.com/kaplan-michael/neecathon-bank/pkg/dispatcher/slashcommandevent"
	"github.com/kaplan-michael/neecathon-bank/pkg/metrics"
	"github.com/kaplan-michael/neecathon-bank/pkg/queue"
)

// Failer answers a command whose handler broke down.
type Failer interface {
	Fail(ctx context.Context, cmd slack.SlashCommand, err error)
}

// Router runs the handler a command resolves to.
type Router interface {
	Dispatch(ctx context.Context, cmd slack.SlashCommand) command.Kind
}

type Dispatcher struct {
	queue   *queue.Queue
	router  Router
	failer  Failer
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *log.Logger
}

const defaultTimeout = 30 * time.Second

func NewDispatcher(q *queue.Queue, router Router, failer Failer, timeout time.Duration, m *metrics.Metrics, logger *log.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		queue:   q,
		router:  router,
		failer:  failer,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

var _ Router = (*slashcommandevent.Dispatcher)(nil)

// Run processes commands until ctx is cancelled or the queue is closed. Only
// one command is ever in flight.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Dispatcher started", "capacity", d.queue.Cap())
	for {
		cmd, ok := d.queue.Dequeue(ctx)
		if !ok {
			d.logger.Info("Dispatcher stopped", "pending", d.queue.Len())
			return
		}
		d.process(ctx, cmd)
	}
}

func (d *Dispatcher) process(ctx context.Context, cmd slack.SlashCommand) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	kind, _ := command.Lookup(cmd.Command)
	outcome := metrics.OutcomeHandled
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			err := errors.Newf("panic in %s handler: %v", cmd.Command, r)
			d.logger.Error("Recovered from handler panic", "command", cmd.Command, "user", cmd.UserID, "err", err)
			d.failer.Fail(ctx, cmd, err)
		}
		d.metrics.Processed(kind.String(), outcome, time.Since(start))
	}()

	switch {
	case d.router.Dispatch(ctx, cmd) == command.Unknown:
		outcome = metrics.OutcomeUnknown
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outcome = metrics.OutcomeTimeout
		d.logger.Warn(fmt.Sprintf("Command took longer than %s", d.timeout), "command", cmd.Command, "user", cmd.UserID)
	}
}
