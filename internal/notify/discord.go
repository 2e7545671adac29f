package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"jellywatch/internal/detect"
	"jellywatch/internal/media"
)

const userAgent = "Jellywatch/0.1.0"

type discordService struct {
	webhookURL    string
	username      string
	avatarURL     string
	filterRenames bool
	filterDeletes bool
	client        *http.Client
	logger        *slog.Logger
}

// webhookMessage is the Discord webhook execution payload.
type webhookMessage struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Thumbnail   *embedImage  `json:"thumbnail,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text string `json:"text"`
}

func (d *discordService) NotifyChange(ctx context.Context, item media.FullRecord, decision detect.Decision, summary string, changes []detect.Change) error {
	switch decision {
	case detect.DecisionUnchanged:
		return nil
	case detect.DecisionRenamed:
		if d.filterRenames {
			d.logger.Debug("rename notification suppressed",
				slog.String("item_id", item.ItemID),
				slog.String("name", item.Name))
			return nil
		}
	}

	msg := webhookMessage{
		Username:  d.username,
		AvatarURL: d.avatarURL,
		Embeds:    []embed{renderChangeEmbed(item, decision, summary, changes)},
	}
	return d.send(ctx, msg)
}

func (d *discordService) NotifyDeleted(ctx context.Context, rec *media.Record) error {
	if rec == nil {
		return nil
	}
	if d.filterDeletes {
		d.logger.Debug("delete notification suppressed",
			slog.String("item_id", rec.ItemID),
			slog.String("name", rec.Name))
		return nil
	}
	msg := webhookMessage{
		Username:  d.username,
		AvatarURL: d.avatarURL,
		Embeds:    []embed{renderDeleteEmbed(rec)},
	}
	return d.send(ctx, msg)
}

func (d *discordService) TestNotification(ctx context.Context) error {
	msg := webhookMessage{
		Username:  d.username,
		AvatarURL: d.avatarURL,
		Embeds: []embed{{
			Title:       "Jellywatch - Test",
			Description: "Notification system test",
			Color:       colorInfo,
		}},
	}
	return d.send(ctx, msg)
}

func (d *discordService) send(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
