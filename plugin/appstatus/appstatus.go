// Package appstatus serves deployment status for a small set of internal
// applications. Most entries are static; the UI entry is fetched from its
// build-info endpoint with the static record as fallback.
package appstatus

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const fetchTimeout = 10 * time.Second

// Info describes one application deployment.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Status      string `json:"status,omitempty"`
	Version     string `json:"version,omitempty"`
	Build       string `json:"build,omitempty"`
}

type Registry struct {
	apps         map[string]map[string]Info
	buildInfoURL string
	http         *http.Client
}

// NewRegistry returns the registry of known applications. buildInfoURL may
// be empty, in which case the boss-ui entry stays static.
func NewRegistry(buildInfoURL string) *Registry {
	return &Registry{
		apps:         defaultApps(),
		buildInfoURL: buildInfoURL,
		http:         &http.Client{Timeout: fetchTimeout},
	}
}

// Lookup resolves one application in one environment. A nil result means
// the pair is unknown.
func (r *Registry) Lookup(ctx context.Context, appName, env string) *Info {
	if appName == "boss-ui" && r.buildInfoURL != "" {
		if info := r.fetchBuildInfo(ctx); info != nil {
			return info
		}
		// fall back to the static record
	}
	envs, ok := r.apps[appName]
	if !ok {
		return nil
	}
	info, ok := envs[env]
	if !ok {
		return nil
	}
	return &info
}

func (r *Registry) fetchBuildInfo(ctx context.Context) *Info {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.buildInfoURL, nil)
	if err != nil {
		return nil
	}
	resp, err := r.http.Do(req)
	if err != nil {
		slog.Warn("build info fetch failed", "url", r.buildInfoURL, "err", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("build info fetch failed", "url", r.buildInfoURL, "status", resp.StatusCode)
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	info := &Info{}
	if err := json.Unmarshal(body, info); err != nil {
		slog.Warn("build info decode failed", "err", err)
		return nil
	}
	return info
}

func defaultApps() map[string]map[string]Info {
	return map[string]map[string]Info{
		"boss-service": {
			"dev": {
				Name:        "Boss Service",
				Description: "Development environment for the Boss Service application.",
				URL:         "https://dev.boss-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+develop:478jk609.90",
			},
			"test": {
				Name:        "Boss Service",
				Description: "Staging environment for the Boss Service application.",
				URL:         "https://staging.boss-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+release:478jk609.90",
			},
			"prod": {
				Name:        "Boss Service",
				Description: "Production environment for the Boss Service application.",
				URL:         "https://boss-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+release:478jk609.90",
			},
		},
		"transformation-service": {
			"dev": {
				Name:        "Transformation Service",
				Description: "Development environment for the Transformation Service application.",
				URL:         "https://dev.transformation-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+develop:478jk609.90",
			},
			"test": {
				Name:        "Transformation Service",
				Description: "Staging environment for the Transformation Service application.",
				URL:         "https://staging.transformation-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+release:478jk609.90",
			},
			"prod": {
				Name:        "Transformation Service",
				Description: "Production environment for the Transformation Service application.",
				URL:         "https://transformation-service.example.com",
				Status:      "up",
				Version:     "1.0.2",
				Build:       "1.0.2+release:478jk609.90",
			},
		},
		"boss-ui": {
			"dev": {
				Name:        "Boss UI",
				Description: "Development environment for the Boss UI application.",
				Status:      "unknown",
			},
		},
	}
}
