package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if strings.TrimSpace(c.Paths.Bind) == "" {
		problems = append(problems, "paths.bind is required")
	}

	if c.Sync.Enabled {
		if strings.TrimSpace(c.Jellyfin.URL) == "" {
			problems = append(problems, "jellyfin.url is required when sync is enabled")
		} else if _, err := url.Parse(c.Jellyfin.URL); err != nil {
			problems = append(problems, fmt.Sprintf("jellyfin.url is invalid: %v", err))
		}
		if strings.TrimSpace(c.Jellyfin.APIKey) == "" {
			problems = append(problems, "jellyfin.api_key is required when sync is enabled")
		}
		if c.Sync.IntervalMinutes <= 0 {
			problems = append(problems, "sync.interval_minutes must be positive")
		}
	}

	if webhook := strings.TrimSpace(c.Discord.WebhookURL); webhook != "" {
		parsed, err := url.Parse(webhook)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			problems = append(problems, "discord.webhook_url must be an absolute URL")
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
