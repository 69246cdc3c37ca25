package config

import "fmt"

// ValidationError represents a single validation issue with the settings.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks settings for structural and semantic errors. It returns
// a slice of all validation errors found (empty if valid).
func Validate(s *Settings) []ValidationError {
	var errs []ValidationError

	if s.GeminiAPIKey == "" {
		errs = append(errs, ValidationError{Field: "gemini_api_key", Message: "is required"})
	}
	if s.ListenPort < 1 || s.ListenPort > 65535 {
		errs = append(errs, ValidationError{
			Field:   "listen_port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", s.ListenPort),
		})
	}
	if (s.GitHubUser == "") != (s.GitHubToken == "") {
		errs = append(errs, ValidationError{
			Field:   "github_user",
			Message: "github_user and github_token must be set together",
		})
	}
	if s.WorkspaceDir == "" {
		errs = append(errs, ValidationError{Field: "workspace_dir", Message: "is required"})
	}

	return errs
}
