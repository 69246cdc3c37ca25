package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/quorumkit/quorum/internal/config"
)

// newLogger builds the service logger: console plus a rotating file under
// the logs dir, with the GitHub token redacted from every line. The sink is
// returned alongside the logger so request-scoped loggers can tee to it.
func newLogger(cfg *config.Settings) (zerolog.Logger, io.Writer) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogsDir, "quorum.log"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	var sink io.Writer = zerolog.MultiLevelWriter(console, file)
	if cfg.GitHubToken != "" {
		sink = &redactWriter{w: sink, secret: []byte(cfg.GitHubToken)}
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return logger, sink
}

// redactWriter masks the secret in everything written through it, so a
// token leaking into any log field never reaches disk or console.
type redactWriter struct {
	w      io.Writer
	secret []byte
}

func (r *redactWriter) Write(p []byte) (int, error) {
	clean := bytes.ReplaceAll(p, r.secret, []byte("[REDACTED]"))
	if _, err := r.w.Write(clean); err != nil {
		return 0, err
	}
	return len(p), nil
}
