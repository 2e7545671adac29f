package webhook_test

import (
	"context"
	"testing"

	"jellywatch/internal/detect"
	"jellywatch/internal/media"
	"jellywatch/internal/testsupport"
	"jellywatch/internal/webhook"
)

func newProcessor(t *testing.T) *webhook.Processor {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	detector := detect.NewDetector(nil)
	return webhook.NewProcessor(st, detector, nil, nil)
}

func fullRecord(itemID, name string) media.FullRecord {
	height := 1080
	codec := "h264"
	channels := 6
	size := int64(8_000_000_000)
	return media.FullRecord{
		Record: media.Record{
			ItemID:        itemID,
			Name:          name,
			Kind:          media.KindMovie,
			VideoHeight:   &height,
			VideoCodec:    &codec,
			AudioChannels: &channels,
			FilePath:      "/movies/" + name + ".mkv",
			FileSize:      &size,
		},
		Overview: "An overview.",
	}
}

func TestProcessNewItem(t *testing.T) {
	p := newProcessor(t)
	ctx := context.Background()

	outcome := p.Process(ctx, fullRecord("item-1", "The Abyss"))
	if outcome.Decision != detect.DecisionNew {
		t.Fatalf("decision = %s, want new", outcome.Decision)
	}
	if outcome.EventID == "" {
		t.Fatal("expected an event id")
	}
	if outcome.Previous != nil {
		t.Fatal("new items have no previous record")
	}
}

func TestProcessUnchangedItem(t *testing.T) {
	p := newProcessor(t)
	ctx := context.Background()

	p.Process(ctx, fullRecord("item-1", "The Abyss"))
	outcome := p.Process(ctx, fullRecord("item-1", "The Abyss"))
	if outcome.Decision != detect.DecisionUnchanged {
		t.Fatalf("decision = %s, want unchanged", outcome.Decision)
	}
	if len(outcome.Changes) != 0 {
		t.Fatalf("unexpected changes: %v", outcome.Changes)
	}
}

func TestProcessUpgradedItem(t *testing.T) {
	p := newProcessor(t)
	ctx := context.Background()

	p.Process(ctx, fullRecord("item-1", "The Abyss"))

	upgraded := fullRecord("item-1", "The Abyss")
	height := 2160
	upgraded.VideoHeight = &height

	outcome := p.Process(ctx, upgraded)
	if outcome.Decision != detect.DecisionUpgraded {
		t.Fatalf("decision = %s, want upgraded", outcome.Decision)
	}
	if len(outcome.Changes) == 0 {
		t.Fatal("expected change descriptors")
	}
	if outcome.Summary == "" {
		t.Fatal("expected a summary")
	}
	if outcome.Previous == nil || *outcome.Previous.VideoHeight != 1080 {
		t.Fatal("previous record should carry the pre-upgrade state")
	}
}

func TestProcessRenamedItem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	p := webhook.NewProcessor(st, detect.NewDetector(nil), nil, nil)
	ctx := context.Background()

	p.Process(ctx, fullRecord("old-id", "The Abyss"))

	outcome := p.Process(ctx, fullRecord("new-id", "The Abyss"))
	if outcome.Decision != detect.DecisionRenamed {
		t.Fatalf("decision = %s, want renamed", outcome.Decision)
	}
	if outcome.Previous == nil || outcome.Previous.ItemID != "old-id" {
		t.Fatalf("previous = %v, want old-id", outcome.Previous)
	}

	if st.Get(ctx, "old-id") != nil {
		t.Fatal("superseded record should be deleted")
	}
	if st.Get(ctx, "new-id") == nil {
		t.Fatal("renamed record should be stored under the new id")
	}
}

func TestProcessUnwatchedChangeIsUnchanged(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	watch := detect.WatchConfig{
		"resolution":     false,
		"video_codec":    false,
		"audio_codec":    false,
		"audio_channels": false,
		"hdr_status":     false,
		"file_size":      false,
		"subtitles":      false,
	}
	p := webhook.NewProcessor(st, detect.NewDetector(nil), watch, nil)
	ctx := context.Background()

	p.Process(ctx, fullRecord("item-1", "The Abyss"))

	upgraded := fullRecord("item-1", "The Abyss")
	height := 2160
	upgraded.VideoHeight = &height

	outcome := p.Process(ctx, upgraded)
	if outcome.Decision != detect.DecisionUnchanged {
		t.Fatalf("decision = %s, want unchanged when every category is unwatched", outcome.Decision)
	}

	// The store still converges onto the new state.
	stored := st.Get(ctx, "item-1")
	if stored == nil || *stored.VideoHeight != 2160 {
		t.Fatal("record should be upserted even without notification")
	}
}

func TestProcessDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	p := webhook.NewProcessor(st, detect.NewDetector(nil), nil, nil)
	ctx := context.Background()

	p.Process(ctx, fullRecord("item-1", "The Abyss"))

	prev, deleted := p.ProcessDelete(ctx, "item-1")
	if !deleted {
		t.Fatal("expected delete to succeed")
	}
	if prev == nil || prev.Name != "The Abyss" {
		t.Fatalf("previous = %v", prev)
	}

	if _, deleted := p.ProcessDelete(ctx, "item-1"); deleted {
		t.Fatal("second delete should report false")
	}
}
