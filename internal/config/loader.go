package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// envFile is the local dotenv file consulted when a variable is not in the
// process environment.
const envFile = ".env"

// Load reads and parses settings from the given YAML file path. After
// parsing it applies environment overrides, then defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyEnv(&s)
	applyDefaults(&s)
	return &s, nil
}

// LoadDefault searches for a config file in standard locations and loads
// the first one found. Search order: ./quorum.yaml, ~/.quorum/config.yaml.
// With no file present, settings come from the environment and defaults
// alone.
func LoadDefault() (*Settings, error) {
	candidates := []string{"quorum.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".quorum", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	var s Settings
	applyEnv(&s)
	applyDefaults(&s)
	return &s, nil
}

// applyEnv overrides settings from environment variables, falling back to
// the local .env file for each key.
func applyEnv(s *Settings) {
	overrideString(&s.AppName, "APP_NAME")
	overrideBool(&s.Debug, "DEBUG")
	overrideInt(&s.ListenPort, "LISTEN_PORT")
	overrideString(&s.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&s.CouncilModel, "COUNCIL_GEMINI_MODEL")
	overrideString(&s.DevTeamModel, "DEV_TEAM_GEMINI_MODEL")
	overrideString(&s.GitHubUser, "GITHUB_USER")
	overrideString(&s.GitHubToken, "GITHUB_TOKEN")
	overrideString(&s.GitUserEmail, "GIT_USER_EMAIL")
	overrideString(&s.GitUserName, "GIT_USER_NAME")
	overrideString(&s.WorkspaceDir, "WORKSPACE_DIR")
	overrideString(&s.LogsDir, "LOGS_DIR")
	overrideString(&s.RunsDir, "RUNS_DIR")
	overrideString(&s.TemplateDir, "TEMPLATE_DIR")
	overrideString(&s.DatabaseURL, "DATABASE_URL")
}

func overrideString(dst *string, key string) {
	if v := envValue(key); v != "" {
		*dst = v
	}
}

func overrideBool(dst *bool, key string) {
	if v := envValue(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func overrideInt(dst *int, key string) {
	if v := envValue(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// envValue reads key from the process environment, then from ./.env.
func envValue(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readEnvFileVar(envFile, key)
}

// readEnvFileVar reads the value of a specific key from a .env file.
// Supports both "KEY=VALUE" and "export KEY=VALUE" formats.
// Returns empty string if the file or key is not found.
func readEnvFileVar(path, key string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.TrimSpace(parts[0]) == key {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
