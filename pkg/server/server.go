// Package server is the HTTP front door: it verifies and shape-checks Slack
// slash command webhooks and hands them to the queue.
package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/command"
	"github.com/kaplan-michael/neecathon-bank/pkg/metrics"
	"github.com/kaplan-michael/neecathon-bank/pkg/queue"
)

const (
	maxBodyBytes      = 64 << 10
	timestampHeader   = "X-Slack-Request-Timestamp"
	defaultMaxGap     = 60 * time.Second
	healthPingTimeout = 2 * time.Second
)

// Fields Slack always sends with a slash command.
var requiredFields = []string{
	"token", "team_id", "team_domain", "channel_id", "channel_name",
	"user_id", "user_name", "command", "text", "response_url",
}

// Replies are the user-facing texts for requests that never reach a handler.
type Replies interface {
	DefaultError() string
	OverloadedError() string
	UnverifiedOriginError() string
}

// Pinger reports whether the ledger store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	SigningSecret string
	// MaxTimestampGap bounds how old (or how far in the future) a request
	// timestamp may be.
	MaxTimestampGap time.Duration
}

type Server struct {
	queue   *queue.Queue
	replies Replies
	store   Pinger
	metrics *metrics.Metrics
	opts    Options
	logger  *log.Logger

	now func() time.Time
}

func New(q *queue.Queue, replies Replies, store Pinger, m *metrics.Metrics, opts Options, logger *log.Logger) *Server {
	if opts.MaxTimestampGap <= 0 {
		opts.MaxTimestampGap = defaultMaxGap
	}
	return &Server{
		queue:   q,
		replies: replies,
		store:   store,
		metrics: m,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})

	r.Post("/slack/commands", s.handleSlashCommand)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *Server) handleSlashCommand(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("Failed to read webhook body", "err", err)
		s.reject(w, "malformed", s.replies.DefaultError())
		return
	}

	if err := s.verify(r.Header, body); err != nil {
		logger.Warn("Rejected request from unverified origin", "err", err)
		s.reject(w, "unverified", s.replies.UnverifiedOriginError())
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	if err := r.ParseForm(); err != nil {
		logger.Warn("Failed to parse webhook form", "err", err)
		s.reject(w, "malformed", s.replies.DefaultError())
		return
	}
	for _, field := range requiredFields {
		if _, ok := r.PostForm[field]; !ok {
			logger.Warn("Webhook is missing a field", "field", field)
			s.reject(w, "malformed", s.replies.DefaultError())
			return
		}
	}
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		logger.Warn("Failed to parse slash command", "err", err)
		s.reject(w, "malformed", s.replies.DefaultError())
		return
	}

	// Unknown commands are queued too so the dispatcher can log and answer
	// them like any other failure.
	kind, _ := command.Lookup(cmd.Command)
	if !s.queue.TryEnqueue(cmd) {
		logger.Error("Request queue is full", "command", cmd.Command, "user", cmd.UserID, "capacity", s.queue.Cap())
		s.reject(w, "overloaded", s.replies.OverloadedError())
		return
	}
	logger.Debug("Queued slash command", "command", cmd.Command, "user", cmd.UserID, "pending", s.queue.Len())
	writeJSON(w, http.StatusOK, textResponse{Text: kind.Ack()})
}

// verify checks the request timestamp against the allowed gap and the
// v0 HMAC signature against the signing secret.
func (s *Server) verify(header http.Header, body []byte) error {
	ts, err := strconv.ParseInt(header.Get(timestampHeader), 10, 64)
	if err != nil {
		return fmt.Errorf("bad %s header: %w", timestampHeader, err)
	}
	gap := s.now().Sub(time.Unix(ts, 0))
	if gap < 0 {
		gap = -gap
	}
	if gap > s.opts.MaxTimestampGap {
		return fmt.Errorf("timestamp is %s away from now", gap.Round(time.Second))
	}

	sv, err := slack.NewSecretsVerifier(header, s.opts.SigningSecret)
	if err != nil {
		return fmt.Errorf("create secrets verifier: %w", err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("hash body: %w", err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("signature mismatch: %w", err)
	}
	return nil
}

func (s *Server) reject(w http.ResponseWriter, reason, text string) {
	s.metrics.Rejected(reason)
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("Health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
