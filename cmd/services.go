package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"

	"github.com/SamWanekeya/UnCSS-Online/internal/config"
	"github.com/SamWanekeya/UnCSS-Online/internal/reducer"
	"github.com/SamWanekeya/UnCSS-Online/internal/submission"
	"github.com/SamWanekeya/UnCSS-Online/internal/telemetry"
)

// services holds the collaborators shared by the form and the reduce
// command.
type services struct {
	client     *reducer.Client
	reporter   telemetry.Reporter
	controller *submission.Controller

	sentry *telemetry.SentryReporter
}

// newServices builds the reducer client, the telemetry sink and the
// submission controller from cfg. Failures go to the log whenever it has a
// sink, and to Sentry when a DSN is configured. The form passes
// logsDropped=true when it runs without a log file.
func newServices(cfg config.Config, logger *log.Logger, logsDropped bool) (*services, error) {
	client, err := reducer.New(reducer.Options{
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
		UserAgent: userAgent(),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	svc := &services{client: client}

	var reporter telemetry.Reporter = telemetry.NewLogReporter(logger)
	if logsDropped {
		reporter = telemetry.Nop{}
	}
	if cfg.SentryDSN != "" {
		sr, err := telemetry.NewSentryReporter(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			Release:     userAgent(),
			Debug:       cfg.Debug,
		})
		if err != nil {
			return nil, err
		}
		svc.sentry = sr
		reporter = telemetry.Fanout{reporter, sr}
		logger.Debug("sentry enabled", "environment", cfg.SentryEnvironment)
	}
	svc.reporter = reporter

	svc.controller = submission.New(client, reporter, submission.WithLogger(logger))
	return svc, nil
}

// Close flushes pending telemetry.
func (s *services) Close() {
	if s.sentry != nil {
		s.sentry.Close()
	}
}
