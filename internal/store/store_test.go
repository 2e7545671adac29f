package store_test

import (
	"context"
	"testing"
	"time"

	"jellywatch/internal/media"
	"jellywatch/internal/store"
	"jellywatch/internal/testsupport"
)

func newRecord(itemID, name string) *media.Record {
	return &media.Record{
		ItemID:            itemID,
		Name:              name,
		Kind:              media.KindMovie,
		VideoHeight:       intPtr(1080),
		VideoCodec:        strPtr("h264"),
		VideoRange:        strPtr("SDR"),
		AudioCodec:        strPtr("ac3"),
		AudioChannels:     intPtr(6),
		SubtitleCount:     intPtr(1),
		SubtitleLanguages: []string{"eng"},
		SubtitleFormats:   []string{"srt"},
		FilePath:          "/movies/" + name + ".mkv",
		FileSize:          int64Ptr(4_000_000_000),
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := newRecord("item-1", "The Abyss")
	if !st.Save(ctx, rec) {
		t.Fatal("save failed")
	}
	if rec.Fingerprint == "" {
		t.Fatal("save should compute the fingerprint")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("save should set the creation timestamp")
	}

	got := st.Get(ctx, "item-1")
	if got == nil {
		t.Fatal("expected record")
	}
	if got.Name != rec.Name || got.Kind != rec.Kind {
		t.Fatalf("identity mismatch: got %q/%q", got.Name, got.Kind)
	}
	if got.Fingerprint != rec.Fingerprint {
		t.Fatalf("fingerprint mismatch: %s vs %s", got.Fingerprint, rec.Fingerprint)
	}
	if got.VideoHeight == nil || *got.VideoHeight != 1080 {
		t.Fatalf("video height not round-tripped: %v", got.VideoHeight)
	}
	if len(got.SubtitleLanguages) != 1 || got.SubtitleLanguages[0] != "eng" {
		t.Fatalf("subtitle languages not round-tripped: %v", got.SubtitleLanguages)
	}
	if got.SeriesName != nil {
		t.Fatalf("expected nil series name, got %v", *got.SeriesName)
	}
}

func TestSaveUpsertPreservesCreatedAt(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := newRecord("item-1", "The Abyss")
	if !st.Save(ctx, rec) {
		t.Fatal("save failed")
	}
	original := st.Get(ctx, "item-1")
	if original == nil {
		t.Fatal("expected record")
	}

	updated := newRecord("item-1", "The Abyss")
	updated.VideoHeight = intPtr(2160)
	if !st.Save(ctx, updated) {
		t.Fatal("upsert failed")
	}

	after := st.Get(ctx, "item-1")
	if after == nil {
		t.Fatal("expected record after upsert")
	}
	if *after.VideoHeight != 2160 {
		t.Fatalf("upsert did not replace fields: height %d", *after.VideoHeight)
	}
	if !after.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("created_at changed on upsert: %v vs %v", after.CreatedAt, original.CreatedAt)
	}
	if after.Fingerprint == original.Fingerprint {
		t.Fatal("fingerprint should change with the video height")
	}
}

func TestSaveRejectsMissingItemID(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if st.Save(context.Background(), &media.Record{Name: "No ID"}) {
		t.Fatal("expected save to report failure for a record without an item id")
	}
	if st.Save(context.Background(), nil) {
		t.Fatal("expected save to report failure for a nil record")
	}
}

func TestSaveBatchAccounting(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	records := []*media.Record{
		newRecord("item-1", "First"),
		newRecord("item-2", "Second"),
		{Name: "missing id"},
		newRecord("item-3", "Third"),
	}

	result := st.SaveBatch(ctx, records)
	if result.Total != 4 {
		t.Fatalf("total = %d, want 4", result.Total)
	}
	if result.Successful != 3 {
		t.Fatalf("successful = %d, want 3", result.Successful)
	}
	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}

	for _, id := range []string{"item-1", "item-2", "item-3"} {
		if st.Get(ctx, id) == nil {
			t.Fatalf("record %s missing after batch with one bad sibling", id)
		}
	}
}

func TestSaveBatchEmpty(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	result := st.SaveBatch(context.Background(), nil)
	if result.Total != 0 || result.Successful != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result for empty batch: %+v", result)
	}
}

func TestByKindOrderAndLimit(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	older := newRecord("item-1", "Older")
	older.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	newer := newRecord("item-2", "Newer")
	newer.CreatedAt = time.Now().UTC()
	episode := newRecord("item-3", "Pilot")
	episode.Kind = media.KindEpisode

	for _, rec := range []*media.Record{older, newer, episode} {
		if !st.Save(ctx, rec) {
			t.Fatalf("save %s failed", rec.ItemID)
		}
	}

	movies := st.ByKind(ctx, media.KindMovie, 0)
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ItemID != "item-2" {
		t.Fatalf("expected newest first, got %s", movies[0].ItemID)
	}

	limited := st.ByKind(ctx, media.KindMovie, 1)
	if len(limited) != 1 || limited[0].ItemID != "item-2" {
		t.Fatalf("limit not applied: %v", limited)
	}
}

func TestByNameReturnsCandidates(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, rec := range []*media.Record{
		newRecord("item-1", "Dune"),
		newRecord("item-2", "Dune"),
		newRecord("item-3", "Alien"),
	} {
		if !st.Save(ctx, rec) {
			t.Fatalf("save %s failed", rec.ItemID)
		}
	}

	candidates := st.ByName(ctx, "Dune")
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates := st.ByName(ctx, "Nothing"); len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestDeleteReportsRemoval(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if !st.Save(ctx, newRecord("item-1", "The Abyss")) {
		t.Fatal("save failed")
	}
	if !st.Delete(ctx, "item-1") {
		t.Fatal("expected delete to report a removed row")
	}
	if st.Delete(ctx, "item-1") {
		t.Fatal("expected delete of an absent row to report false")
	}
	if st.Get(ctx, "item-1") != nil {
		t.Fatal("record still present after delete")
	}
}

func TestAllIDs(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if !st.Save(ctx, newRecord(id, "Item "+id)) {
			t.Fatalf("save %s failed", id)
		}
	}
	ids := st.AllIDs(ctx)
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
}

func TestStats(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	movie := newRecord("item-1", "The Abyss")
	episode := newRecord("item-2", "Pilot")
	episode.Kind = media.KindEpisode
	for _, rec := range []*media.Record{movie, episode} {
		if !st.Save(ctx, rec) {
			t.Fatalf("save %s failed", rec.ItemID)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRecords != 2 {
		t.Fatalf("total = %d, want 2", stats.TotalRecords)
	}
	if stats.ByKind[media.KindMovie] != 1 || stats.ByKind[media.KindEpisode] != 1 {
		t.Fatalf("per-kind counts wrong: %v", stats.ByKind)
	}
	if !stats.WALEnabled {
		t.Fatal("expected WAL journal mode")
	}
	if stats.RecentAdditions != 2 {
		t.Fatalf("recent additions = %d, want 2", stats.RecentAdditions)
	}
}

func TestVacuum(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if !st.Save(ctx, newRecord("item-1", "The Abyss")) {
		t.Fatal("save failed")
	}
	if err := st.Vacuum(ctx); err != nil {
		t.Fatalf("vacuum: %v", err)
	}
	if st.Get(ctx, "item-1") == nil {
		t.Fatal("record missing after vacuum")
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if !st.Save(ctx, newRecord("item-1", "The Abyss")) {
		t.Fatal("save failed")
	}

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("check health: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %+v", health)
	}
	if !health.IntegrityCheck {
		t.Fatal("integrity check failed")
	}
	if health.TotalRecords != 1 {
		t.Fatalf("total records = %d, want 1", health.TotalRecords)
	}
}

func TestOpenReusesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if !st.Save(ctx, newRecord("item-1", "The Abyss")) {
		t.Fatal("save failed")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := store.Open(cfg.DatabasePath(), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	if reopened.Get(ctx, "item-1") == nil {
		t.Fatal("record missing after reopen")
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
