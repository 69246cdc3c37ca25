package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestLogger assigns each request a short uuid, mirrors all request-scoped
// log output into its own file under the logs dir, and logs start/finish
// lines. Log file setup failures never fail the request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()[:8]
		start := time.Now()

		logger, closeFile := s.newRequestLogger(requestID, start)
		defer closeFile()

		logger.Info().Str("method", r.Method).Str("path", r.URL.Path).Msg("request started")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := logger.WithContext(r.Context())
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request finished")
	})
}

// newRequestLogger builds a logger teeing to the service sink and a
// per-request file named <timestamp>_<id>.log.
func (s *Server) newRequestLogger(requestID string, start time.Time) (zerolog.Logger, func()) {
	writers := []io.Writer{}
	if s.logWriter != nil {
		writers = append(writers, s.logWriter)
	}

	closeFile := func() {}
	if s.logsDir != "" {
		if err := os.MkdirAll(s.logsDir, 0o755); err == nil {
			name := fmt.Sprintf("%s_%s.log", start.Format("20060102_150405"), requestID)
			if f, err := os.Create(filepath.Join(s.logsDir, name)); err == nil {
				writers = append(writers, f)
				closeFile = func() { f.Close() }
			}
		}
	}

	logger := s.logger
	if len(writers) > 0 {
		logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	}
	return logger.With().Str("request_id", requestID).Logger(), closeFile
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
