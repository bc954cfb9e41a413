// Package profile holds the environment-derived runtime configuration.
package profile

import (
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider selects which completion backend to use.
type Provider string

const (
	ProviderRemote Provider = "remote"
	ProviderLocal  Provider = "local"
)

// Profile is the full runtime configuration, populated from the environment
// (optionally via a .env file). It is constructed once at startup and passed
// by value into the components that need it.
type Profile struct {
	Mode    string // "dev" or "prod"
	Addr    string // HTTP listen address
	Version string

	// Completion backend.
	LLMProvider string // "remote", "local", or "" for auto-detection
	LLMAPIKey   string
	LLMModel    string
	LLMAPIURL   string // OpenAI-compatible chat completions endpoint
	LocalAPIURL string // Ollama chat endpoint
	LocalModel  string

	// Issue tracker.
	JiraAPIURL     string
	JiraUsername   string
	JiraAPIToken   string
	JiraProjectKey string
	JiraBrowseURL  string // base for user-facing issue hyperlinks

	// SQL backend.
	DBDriver string // "sqlite", "mysql", or "postgres"
	DBDSN    string

	// Product catalog API.
	CatalogAPIURL string

	// Remote build-info endpoint for the UI status entry. Empty disables
	// the remote probe.
	BuildInfoURL string

	// Durable state (example store).
	DataDir string
}

// Load reads the .env file when present and binds environment variables.
// A missing .env is not an error; the process environment always wins.
func Load() Profile {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("MODE", "dev")
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("LLM_API_URL", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("OLLAMA_API_URL", "http://localhost:11434/api/chat")
	v.SetDefault("LOCAL_MODEL", "mistral")
	v.SetDefault("JIRA_PROJECT_KEY", "SCRUM")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "file:data/mcp.db")
	v.SetDefault("CATALOG_API_URL", "https://dummyjson.com")
	v.SetDefault("DATA_DIR", "data")

	return Profile{
		Mode:           v.GetString("MODE"),
		Addr:           v.GetString("ADDR"),
		Version:        "1.0.0",
		LLMProvider:    strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMAPIKey:      v.GetString("LLM_API_KEY"),
		LLMModel:       v.GetString("LLM_MODEL"),
		LLMAPIURL:      v.GetString("LLM_API_URL"),
		LocalAPIURL:    v.GetString("OLLAMA_API_URL"),
		LocalModel:     v.GetString("LOCAL_MODEL"),
		JiraAPIURL:     v.GetString("JIRA_API_URL"),
		JiraUsername:   v.GetString("JIRA_USERNAME"),
		JiraAPIToken:   v.GetString("JIRA_API_TOKEN"),
		JiraProjectKey: v.GetString("JIRA_PROJECT_KEY"),
		JiraBrowseURL:  v.GetString("JIRA_BROWSE_URL"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DBDSN:          v.GetString("DB_DSN"),
		CatalogAPIURL:  v.GetString("CATALOG_API_URL"),
		BuildInfoURL:   v.GetString("BUILD_INFO_URL"),
		DataDir:        v.GetString("DATA_DIR"),
	}
}
