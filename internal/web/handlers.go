package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Name:    s.appName,
		Version: s.version,
		Status:  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}

func (s *Server) handleCallCouncil(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	note, ok := decodeNote(w, r)
	if !ok {
		return
	}

	logger.Info().Str("idea", truncate(note.Content, 50)).Msg("starting council debate")
	conclusion, err := s.council.Debate(r.Context(), note.Content)
	if err != nil {
		logger.Error().Err(err).Msg("council debate failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: "Council debate failed: " + err.Error(),
		})
		return
	}

	logger.Info().Msg("council debate completed")
	writeJSON(w, http.StatusOK, councilResponse{Status: "success", Conclusion: conclusion})
}

func (s *Server) handleBuildPoC(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	note, ok := decodeNote(w, r)
	if !ok {
		return
	}

	logger.Info().Str("request", truncate(note.Content, 50)).Msg("starting dev team run")
	result, err := s.devteam.Run(r.Context(), note.Content)
	if err != nil {
		logger.Error().Err(err).Msg("dev team run failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: "Dev team execution failed: " + err.Error(),
		})
		return
	}

	logger.Info().Msg("dev team run completed")
	writeJSON(w, http.StatusOK, devTeamResponse{Status: "success", Result: result})
}

// decodeNote parses the request body and enforces the non-empty content
// constraint, writing the error response itself when validation fails.
func decodeNote(w http.ResponseWriter, r *http.Request) (noteInput, bool) {
	var note noteInput
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
		return note, false
	}
	if note.Content == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "content must not be empty"})
		return note, false
	}
	return note, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
