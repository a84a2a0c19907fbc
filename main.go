package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/kaplan-michael/neecathon-bank/pkg/config"
	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/dispatcher"
	"github.com/kaplan-michael/neecathon-bank/pkg/dispatcher/slashcommandevent"
	"github.com/kaplan-michael/neecathon-bank/pkg/handler/commands"
	"github.com/kaplan-michael/neecathon-bank/pkg/metrics"
	"github.com/kaplan-michael/neecathon-bank/pkg/queue"
	"github.com/kaplan-michael/neecathon-bank/pkg/server"
	"github.com/kaplan-michael/neecathon-bank/pkg/slackapi"
	"github.com/kaplan-michael/neecathon-bank/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Init()
	cfg := config.AppConfig

	logger := newLogger(cfg.LogLevel)

	store, err := database.Open(cfg.SQLiteFilename)
	if err != nil {
		logger.Fatal("Error initializing database", "file", cfg.SQLiteFilename, "err", err)
	}
	defer store.Close()

	q := queue.New(cfg.QueueCapacity)
	m := metrics.New(q.Len)

	api := slack.New(cfg.SlackUserToken, slack.OptionDebug(cfg.Debug))
	gateway := slackapi.NewGateway(api, cfg.LogsChannelID, logger.WithPrefix("slack"))
	h := commands.New(store, gateway, slackapi.NewWebhookResponder(nil), commands.Settings{
		InitialBalance:    cfg.InitialBalance,
		TeamChannelPrefix: cfg.TeamChannelPrefix,
		SupportChannelID:  cfg.SupportChannelID,
		StaffChannelID:    cfg.StaffChannelID,
	}, logger.WithPrefix("commands"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dispatcher outlives ctx. After q.Close it finishes the commands
	// already acked and then stops.
	disp := dispatcher.NewDispatcher(q, slashcommandevent.NewDispatcher(h), h, cfg.CommandTimeout, m, logger.WithPrefix("dispatcher"))
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		disp.Run(context.Background())
	}()

	srv := server.New(q, h, store, m, server.Options{
		SigningSecret:   cfg.SigningSecret,
		MaxTimestampGap: cfg.TimestampMaxGap,
	}, logger.WithPrefix("http"))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSSelfSigned {
			certPath, keyPath, certErr := utils.GenerateSelfSignedCert(os.TempDir(), cfg.BaseURL, logger)
			if certErr != nil {
				logger.Error("Error generating self-signed certificate", "err", certErr)
				stop()
				return
			}
			logger.Info("Bank is running", "addr", httpServer.Addr, "tls", true)
			err = httpServer.ListenAndServeTLS(certPath, keyPath)
		} else {
			logger.Info("Bank is running", "addr", httpServer.Addr)
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error running HTTP server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server did not shut down cleanly", "err", err)
	}
	q.Close()
	<-dispatcherDone
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	log.SetDefault(logger)
	return logger
}
