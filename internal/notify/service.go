package notify

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jellywatch/internal/config"
	"jellywatch/internal/detect"
	"jellywatch/internal/media"
)

// Service defines the notification surface exposed to the webhook and
// reconciliation components.
type Service interface {
	NotifyChange(ctx context.Context, item media.FullRecord, decision detect.Decision, summary string, changes []detect.Change) error
	NotifyDeleted(ctx context.Context, rec *media.Record) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by a Discord webhook
// when configured. When no webhook URL is configured, a noop
// implementation is returned.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	webhookURL := strings.TrimSpace(cfg.Discord.WebhookURL)
	if webhookURL == "" {
		return noopService{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(cfg.Discord.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &discordService{
		webhookURL:    webhookURL,
		username:      strings.TrimSpace(cfg.Discord.Username),
		avatarURL:     strings.TrimSpace(cfg.Discord.AvatarURL),
		filterRenames: cfg.Discord.FilterRenames,
		filterDeletes: cfg.Discord.FilterDeletes,
		client:        &http.Client{Timeout: timeout},
		logger:        logger.With(slog.String("component", "notify")),
	}
}

type noopService struct{}

func (noopService) NotifyChange(context.Context, media.FullRecord, detect.Decision, string, []detect.Change) error {
	return nil
}
func (noopService) NotifyDeleted(context.Context, *media.Record) error { return nil }
func (noopService) TestNotification(context.Context) error            { return nil }
