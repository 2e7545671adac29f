package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jellywatch/internal/detect"
	"jellywatch/internal/media"
	"jellywatch/internal/notify"
	"jellywatch/internal/testsupport"
)

type capturedMessage struct {
	Username string `json:"username"`
	Embeds   []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       int    `json:"color"`
		Fields      []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"fields"`
	} `json:"embeds"`
}

func captureWebhook(t *testing.T) (*httptest.Server, *[]capturedMessage) {
	t.Helper()
	var messages []capturedMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var msg capturedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Errorf("unmarshal message: %v", err)
		}
		messages = append(messages, msg)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, &messages
}

func movieRecord(name string) media.FullRecord {
	height := 1080
	codec := "h264"
	year := 1989
	size := int64(8_000_000_000)
	return media.FullRecord{
		Record: media.Record{
			ItemID:      "item-1",
			Name:        name,
			Kind:        media.KindMovie,
			Year:        &year,
			VideoHeight: &height,
			VideoCodec:  &codec,
			FileSize:    &size,
		},
		Overview:   "Deep sea drama.",
		ServerName: "home",
	}
}

func TestNoopServiceWhenUnconfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notify.NewService(cfg, nil)

	if err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"), detect.DecisionNew, "", nil); err != nil {
		t.Fatalf("noop notify: %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop test: %v", err)
	}
}

func TestNotifyNewItem(t *testing.T) {
	server, messages := captureWebhook(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	svc := notify.NewService(cfg, nil)

	err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"), detect.DecisionNew, "", nil)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(*messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(*messages))
	}

	msg := (*messages)[0]
	if msg.Username != "Jellywatch" {
		t.Fatalf("username = %q", msg.Username)
	}
	if len(msg.Embeds) != 1 {
		t.Fatalf("embeds = %d", len(msg.Embeds))
	}
	embed := msg.Embeds[0]
	if embed.Title != "New Movie: The Abyss (1989)" {
		t.Fatalf("title = %q", embed.Title)
	}
	if embed.Color != 0x2ECC71 {
		t.Fatalf("color = %#x, want green", embed.Color)
	}
}

func TestNotifyUpgradeCarriesSummaryAndChanges(t *testing.T) {
	server, messages := captureWebhook(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	svc := notify.NewService(cfg, nil)

	changes := []detect.Change{{
		Category:    detect.CategoryResolution,
		Field:       "video_height",
		OldValue:    "1080p",
		NewValue:    "2160p",
		Description: "resolution 1080p → 2160p",
	}}
	err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"),
		detect.DecisionUpgraded, "resolution 1080p → 2160p", changes)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	embed := (*messages)[0].Embeds[0]
	if embed.Title != "Upgraded: The Abyss (1989)" {
		t.Fatalf("title = %q", embed.Title)
	}
	found := false
	for _, field := range embed.Fields {
		if field.Name == "Changes" && field.Value == "resolution 1080p → 2160p" {
			found = true
		}
	}
	if !found {
		t.Fatalf("changes field missing: %+v", embed.Fields)
	}
}

func TestNotifyUnchangedIsSuppressed(t *testing.T) {
	server, messages := captureWebhook(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	svc := notify.NewService(cfg, nil)

	err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"), detect.DecisionUnchanged, "", nil)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(*messages) != 0 {
		t.Fatal("unchanged decisions must never notify")
	}
}

func TestRenameFilterSuppression(t *testing.T) {
	server, messages := captureWebhook(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	cfg.Discord.FilterRenames = true
	svc := notify.NewService(cfg, nil)

	err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"), detect.DecisionRenamed, "", nil)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(*messages) != 0 {
		t.Fatal("rename should be filtered")
	}

	cfg.Discord.FilterRenames = false
	svc = notify.NewService(cfg, nil)
	if err := svc.NotifyChange(context.Background(), movieRecord("The Abyss"), detect.DecisionRenamed, "", nil); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(*messages) != 1 {
		t.Fatal("rename should notify when the filter is off")
	}
}

func TestDeleteFilterSuppression(t *testing.T) {
	server, messages := captureWebhook(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	cfg.Discord.FilterDeletes = true
	svc := notify.NewService(cfg, nil)

	rec := movieRecord("The Abyss").Record
	if err := svc.NotifyDeleted(context.Background(), &rec); err != nil {
		t.Fatalf("notify deleted: %v", err)
	}
	if len(*messages) != 0 {
		t.Fatal("delete should be filtered")
	}

	cfg.Discord.FilterDeletes = false
	svc = notify.NewService(cfg, nil)
	if err := svc.NotifyDeleted(context.Background(), &rec); err != nil {
		t.Fatalf("notify deleted: %v", err)
	}
	if len(*messages) != 1 {
		t.Fatal("delete should notify when the filter is off")
	}
	if title := (*messages)[0].Embeds[0].Title; title != "Removed: The Abyss (1989)" {
		t.Fatalf("title = %q", title)
	}
}

func TestNotifyErrorOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithDiscordWebhook(server.URL))
	svc := notify.NewService(cfg, nil)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
