// Package wire provides dependency injection for the smsfix application.
// Commands call Init once with the loaded configuration; the accessors then
// return the shared singletons.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/smsfix/internal/adapters/sqlite"
	"github.com/example/smsfix/internal/app"
	"github.com/example/smsfix/internal/config"
	"github.com/example/smsfix/internal/db"
	"github.com/example/smsfix/internal/logging"
	"github.com/example/smsfix/internal/metrics"
	"github.com/example/smsfix/internal/ports/primary"
	"github.com/example/smsfix/internal/ports/secondary"
)

var (
	initialized bool

	database    *sql.DB
	logger      *logrus.Logger
	messageRepo *sqlite.MessageRepository
	statusRepo  *sqlite.StatusRepository
	watcher     *sqlite.Watcher
	recorder    metrics.Recorder
	promRec     *metrics.PrometheusRecorder
	fixService  primary.FixService
)

// Init builds all services from the configuration. Safe to call once per
// process; later calls are no-ops.
func Init(ctx context.Context, cfg *config.Config) error {
	if initialized {
		return nil
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	logger, err = logging.Configure(cfg.LogLevel)
	if err != nil {
		return err
	}

	database, err = db.Open(cfg.DBPath)
	if err != nil {
		return err
	}

	messageRepo = sqlite.NewMessageRepository(database)
	statusRepo = sqlite.NewStatusRepository(database)

	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	watcher, err = sqlite.NewWatcher(ctx, database, interval, logger)
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create change watcher: %w", err)
	}
	messageRepo.SetWriteObserver(watcher)

	if cfg.MetricsListen != "" {
		promRec = metrics.NewPrometheusRecorder(cfg.MetricsListen, logger)
		recorder = promRec
	} else {
		recorder = metrics.Nop{}
	}

	fixService = app.NewFixService(messageRepo, watcher, statusRepo, app.FixServiceConfig{
		Policy:  policy,
		Magic:   cfg.Magic,
		Logger:  logger,
		Metrics: recorder,
	})

	initialized = true
	return nil
}

// FixService returns the singleton FixService instance.
func FixService() primary.FixService {
	return fixService
}

// MessageStore returns the singleton message store.
func MessageStore() secondary.MessageStore {
	return messageRepo
}

// Watcher returns the singleton change watcher.
func Watcher() *sqlite.Watcher {
	return watcher
}

// Logger returns the configured logger.
func Logger() *logrus.Logger {
	return logger
}

// StartMetrics begins serving /metrics if a listen address was configured.
func StartMetrics() {
	if promRec != nil {
		promRec.Start()
	}
}

// StopMetrics shuts the metrics listener down.
func StopMetrics(ctx context.Context) {
	if promRec != nil {
		if err := promRec.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("failed to stop metrics listener")
		}
	}
}

// Close releases the database connection.
func Close() error {
	if database != nil {
		return database.Close()
	}
	return nil
}
