package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tochemey/goakt/v3/log"
)

var logLevels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarningLevel,
	"warning": log.WarningLevel,
	"error":   log.ErrorLevel,
}

// NewLogger builds the actor system logger for a level name. An empty level
// means info; w defaults to stdout.
func NewLogger(level string, w io.Writer) (log.Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	if level == "" {
		level = "info"
	}
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return log.New(lvl, w), nil
}

// ServeMetrics exposes the collector on addr under /metrics. It returns nil
// when addr is empty.
func ServeMetrics(addr string, collector *SimCollector, logger log.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warnf("metrics server exited: %v", err)
		}
	}()
	logger.Infof("serving Prometheus metrics on %s/metrics", addr)
	return srv
}

// ShutdownServer stops srv within five seconds. A nil server is a no-op.
func ShutdownServer(srv *http.Server, logger log.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warnf("metrics server shutdown: %v", err)
	}
}
