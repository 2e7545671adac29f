package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jellywatch/internal/fingerprint"
	"jellywatch/internal/media"
)

// batchChunkSize bounds records per transaction so long reconciliation
// batches never starve concurrent readers.
const batchChunkSize = 100

const recordColumns = `item_id, name, kind, series_name, series_id, season_number, episode_number, year,
	video_height, video_width, video_codec, video_profile, video_range, video_framerate, video_bitrate, video_bitdepth,
	audio_codec, audio_channels, audio_language, audio_bitrate, audio_samplerate,
	subtitle_count, subtitle_languages, subtitle_formats,
	file_path, file_size, library_name, fingerprint, created_at`

const upsertSQL = `INSERT INTO media_items (` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(item_id) DO UPDATE SET
		name = excluded.name,
		kind = excluded.kind,
		series_name = excluded.series_name,
		series_id = excluded.series_id,
		season_number = excluded.season_number,
		episode_number = excluded.episode_number,
		year = excluded.year,
		video_height = excluded.video_height,
		video_width = excluded.video_width,
		video_codec = excluded.video_codec,
		video_profile = excluded.video_profile,
		video_range = excluded.video_range,
		video_framerate = excluded.video_framerate,
		video_bitrate = excluded.video_bitrate,
		video_bitdepth = excluded.video_bitdepth,
		audio_codec = excluded.audio_codec,
		audio_channels = excluded.audio_channels,
		audio_language = excluded.audio_language,
		audio_bitrate = excluded.audio_bitrate,
		audio_samplerate = excluded.audio_samplerate,
		subtitle_count = excluded.subtitle_count,
		subtitle_languages = excluded.subtitle_languages,
		subtitle_formats = excluded.subtitle_formats,
		file_path = excluded.file_path,
		file_size = excluded.file_size,
		library_name = excluded.library_name,
		fingerprint = excluded.fingerprint`

// Save upserts one record by item identifier, replacing every field
// except the original creation timestamp. The fingerprint is recomputed
// here so a stale value can never reach disk. Storage failures are
// logged and surface as false: the caller may retry, the upsert is
// idempotent for identical input.
func (s *Store) Save(ctx context.Context, rec *media.Record) bool {
	if rec == nil || strings.TrimSpace(rec.ItemID) == "" {
		s.logger.Warn("save skipped: record missing item id")
		return false
	}
	if err := s.exec(ctx, s.db, rec); err != nil {
		s.logger.Error("save record",
			slog.String("item_id", rec.ItemID),
			slog.Any("error", err))
		return false
	}
	return true
}

// BatchResult reports batch upsert accounting.
type BatchResult struct {
	Successful int
	Failed     int
	Total      int
}

// SaveBatch upserts many records for bulk reconciliation. Records are
// processed in bounded chunks, one transaction per chunk. A failed chunk
// is rolled back in full by SQLite's transaction atomicity and then
// retried record by record so one malformed record does not sacrifice
// its siblings.
func (s *Store) SaveBatch(ctx context.Context, records []*media.Record) BatchResult {
	result := BatchResult{Total: len(records)}
	for start := 0; start < len(records); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		if err := s.saveChunk(ctx, chunk); err == nil {
			result.Successful += len(chunk)
			continue
		}

		// Chunk rolled back; retry individually so valid records land.
		for _, rec := range chunk {
			if s.Save(ctx, rec) {
				result.Successful++
			} else {
				result.Failed++
			}
		}
	}
	return result
}

func (s *Store) saveChunk(ctx context.Context, chunk []*media.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, rec := range chunk {
		if rec == nil || strings.TrimSpace(rec.ItemID) == "" {
			return errors.New("record missing item id")
		}
		if err := s.exec(ctx, tx, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch chunk: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) exec(ctx context.Context, db execer, rec *media.Record) error {
	rec.Fingerprint = fingerprint.Record(rec)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, upsertSQL,
		rec.ItemID,
		rec.Name,
		string(rec.Kind),
		nullableStringPtr(rec.SeriesName),
		nullableStringPtr(rec.SeriesID),
		nullableIntPtr(rec.SeasonNumber),
		nullableIntPtr(rec.EpisodeNumber),
		nullableIntPtr(rec.Year),
		nullableIntPtr(rec.VideoHeight),
		nullableIntPtr(rec.VideoWidth),
		nullableStringPtr(rec.VideoCodec),
		nullableStringPtr(rec.VideoProfile),
		nullableStringPtr(rec.VideoRange),
		nullableFloatPtr(rec.VideoFrameRate),
		nullableInt64Ptr(rec.VideoBitrate),
		nullableIntPtr(rec.VideoBitDepth),
		nullableStringPtr(rec.AudioCodec),
		nullableIntPtr(rec.AudioChannels),
		nullableStringPtr(rec.AudioLanguage),
		nullableInt64Ptr(rec.AudioBitrate),
		nullableIntPtr(rec.AudioSampleRate),
		nullableIntPtr(rec.SubtitleCount),
		joinSet(rec.SubtitleLanguages),
		joinSet(rec.SubtitleFormats),
		nullableString(rec.FilePath),
		nullableInt64Ptr(rec.FileSize),
		nullableString(rec.LibraryName),
		rec.Fingerprint,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Get fetches a record by item identifier. Lookup failures are logged
// and reported as absent.
func (s *Store) Get(ctx context.Context, itemID string) *media.Record {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM media_items WHERE item_id = ?`, itemID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logger.Error("get record", slog.String("item_id", itemID), slog.Any("error", err))
		return nil
	}
	return rec
}

// ByKind returns records of one kind ordered newest-first by creation
// timestamp, optionally capped. limit <= 0 means no cap.
func (s *Store) ByKind(ctx context.Context, kind media.Kind, limit int) []*media.Record {
	query := `SELECT ` + recordColumns + ` FROM media_items WHERE kind = ? ORDER BY created_at DESC`
	args := []any{string(kind)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRecords(ctx, query, args...)
}

// ByName returns records sharing a display name, the candidate set for
// rename detection.
func (s *Store) ByName(ctx context.Context, name string) []*media.Record {
	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM media_items WHERE name = ? ORDER BY created_at DESC`, name)
}

// AllIDs returns every stored item identifier; the reconciler uses it to
// find records no longer present on the server.
func (s *Store) AllIDs(ctx context.Context) []string {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM media_items`)
	if err != nil {
		s.logger.Error("list item ids", slog.Any("error", err))
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			s.logger.Error("scan item id", slog.Any("error", err))
			return nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate item ids", slog.Any("error", err))
		return nil
	}
	return ids
}

// Delete removes a record by item identifier and reports whether a row
// was actually removed.
func (s *Store) Delete(ctx context.Context, itemID string) bool {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media_items WHERE item_id = ?`, itemID)
	if err != nil {
		s.logger.Error("delete record", slog.String("item_id", itemID), slog.Any("error", err))
		return false
	}
	affected, err := res.RowsAffected()
	if err != nil {
		s.logger.Error("delete rows affected", slog.String("item_id", itemID), slog.Any("error", err))
		return false
	}
	return affected > 0
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) []*media.Record {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("query records", slog.Any("error", err))
		return nil
	}
	defer rows.Close()

	var records []*media.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			s.logger.Error("scan record", slog.Any("error", err))
			return nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate records", slog.Any("error", err))
		return nil
	}
	return records
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*media.Record, error) {
	var (
		itemID        string
		name          string
		kind          string
		seriesName    sql.NullString
		seriesID      sql.NullString
		seasonNumber  sql.NullInt64
		episodeNumber sql.NullInt64
		year          sql.NullInt64
		videoHeight   sql.NullInt64
		videoWidth    sql.NullInt64
		videoCodec    sql.NullString
		videoProfile  sql.NullString
		videoRange    sql.NullString
		videoFPS      sql.NullFloat64
		videoBitrate  sql.NullInt64
		videoBitDepth sql.NullInt64
		audioCodec    sql.NullString
		audioChannels sql.NullInt64
		audioLanguage sql.NullString
		audioBitrate  sql.NullInt64
		audioSamples  sql.NullInt64
		subtitleCount sql.NullInt64
		subtitleLangs sql.NullString
		subtitleFmts  sql.NullString
		filePath      sql.NullString
		fileSize      sql.NullInt64
		libraryName   sql.NullString
		fp            string
		createdRaw    string
	)

	if err := scanner.Scan(
		&itemID, &name, &kind, &seriesName, &seriesID, &seasonNumber, &episodeNumber, &year,
		&videoHeight, &videoWidth, &videoCodec, &videoProfile, &videoRange, &videoFPS, &videoBitrate, &videoBitDepth,
		&audioCodec, &audioChannels, &audioLanguage, &audioBitrate, &audioSamples,
		&subtitleCount, &subtitleLangs, &subtitleFmts,
		&filePath, &fileSize, &libraryName, &fp, &createdRaw,
	); err != nil {
		return nil, err
	}

	rec := &media.Record{
		ItemID:            itemID,
		Name:              name,
		Kind:              media.Kind(kind),
		SeriesName:        stringPtr(seriesName),
		SeriesID:          stringPtr(seriesID),
		SeasonNumber:      intPtr(seasonNumber),
		EpisodeNumber:     intPtr(episodeNumber),
		Year:              intPtr(year),
		VideoHeight:       intPtr(videoHeight),
		VideoWidth:        intPtr(videoWidth),
		VideoCodec:        stringPtr(videoCodec),
		VideoProfile:      stringPtr(videoProfile),
		VideoRange:        stringPtr(videoRange),
		VideoFrameRate:    floatPtr(videoFPS),
		VideoBitrate:      int64Ptr(videoBitrate),
		VideoBitDepth:     intPtr(videoBitDepth),
		AudioCodec:        stringPtr(audioCodec),
		AudioChannels:     intPtr(audioChannels),
		AudioLanguage:     stringPtr(audioLanguage),
		AudioBitrate:      int64Ptr(audioBitrate),
		AudioSampleRate:   intPtr(audioSamples),
		SubtitleCount:     intPtr(subtitleCount),
		SubtitleLanguages: splitSet(subtitleLangs),
		SubtitleFormats:   splitSet(subtitleFmts),
		FilePath:          filePath.String,
		FileSize:          int64Ptr(fileSize),
		LibraryName:       libraryName.String,
		Fingerprint:       fp,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		rec.CreatedAt = created
	}
	return rec, nil
}

func joinSet(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return strings.Join(values, ",")
}

func splitSet(value sql.NullString) []string {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil
	}
	return strings.Split(value.String, ",")
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableStringPtr(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableIntPtr(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt64Ptr(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableFloatPtr(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func int64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
