// Package config loads service settings from YAML with environment and
// .env overrides.
package config

// Settings holds the full service configuration.
type Settings struct {
	AppName    string `yaml:"app_name"`
	Debug      bool   `yaml:"debug"`
	ListenPort int    `yaml:"listen_port"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	CouncilModel string `yaml:"council_model"`
	DevTeamModel string `yaml:"dev_team_model"`

	GitHubUser   string `yaml:"github_user"`
	GitHubToken  string `yaml:"github_token"`
	GitUserEmail string `yaml:"git_user_email"`
	GitUserName  string `yaml:"git_user_name"`

	WorkspaceDir string `yaml:"workspace_dir"`
	LogsDir      string `yaml:"logs_dir"`
	RunsDir      string `yaml:"runs_dir"`
	TemplateDir  string `yaml:"template_dir"`

	DatabaseURL string `yaml:"database_url"`
}

// applyDefaults fills unset fields with their defaults.
func applyDefaults(s *Settings) {
	if s.AppName == "" {
		s.AppName = "AI Council API"
	}
	if s.ListenPort == 0 {
		s.ListenPort = 8000
	}
	if s.CouncilModel == "" {
		s.CouncilModel = "gemini-2.0-flash-exp"
	}
	if s.DevTeamModel == "" {
		s.DevTeamModel = "gemini-2.0-flash-exp"
	}
	if s.WorkspaceDir == "" {
		s.WorkspaceDir = "workspace"
	}
	if s.LogsDir == "" {
		s.LogsDir = "logs"
	}
	if s.RunsDir == "" {
		s.RunsDir = "runs"
	}
}
