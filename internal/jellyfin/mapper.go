package jellyfin

import (
	"strings"

	"jellywatch/internal/media"
)

// MapItem converts a Jellyfin item DTO into the full record shape. The
// conversion is total: absent fields stay nil so projection defaults
// apply deterministically downstream.
func MapItem(item Item) media.FullRecord {
	rec := media.Record{
		ItemID:      item.ID,
		Name:        item.Name,
		Kind:        media.ParseKind(item.Type),
		Year:        item.ProductionYear,
		FilePath:    item.Path,
		LibraryName: item.LibraryName,
	}

	if item.SeriesName != "" {
		seriesName := item.SeriesName
		rec.SeriesName = &seriesName
	}
	if item.SeriesID != "" {
		seriesID := item.SeriesID
		rec.SeriesID = &seriesID
	}
	rec.SeasonNumber = item.ParentIndexNumber
	rec.EpisodeNumber = item.IndexNumber

	if len(item.MediaSources) > 0 {
		source := item.MediaSources[0]
		if rec.FilePath == "" {
			rec.FilePath = source.Path
		}
		rec.FileSize = source.Size
	}

	applyStreams(&rec, item.MediaStreams)

	full := media.FullRecord{
		Record:          rec,
		Overview:        item.Overview,
		Genres:          append([]string(nil), item.Genres...),
		CommunityRating: item.CommunityRating,
		CriticRating:    item.CriticRating,
		OfficialRating:  item.OfficialRating,
		RuntimeTicks:    item.RunTimeTicks,
	}
	if len(item.Taglines) > 0 {
		full.Tagline = item.Taglines[0]
	}
	return full
}

// applyStreams folds stream-level technical attributes into the record:
// the first video stream, the default (else first) audio stream, and
// the aggregated subtitle set.
func applyStreams(rec *media.Record, streams []MediaStream) {
	var audio *MediaStream
	subtitleCount := 0
	var subtitleLangs, subtitleFormats []string
	seenLang := map[string]struct{}{}
	seenFormat := map[string]struct{}{}

	for i := range streams {
		stream := streams[i]
		switch strings.ToLower(stream.Type) {
		case "video":
			if rec.VideoHeight == nil && rec.VideoCodec == nil {
				rec.VideoHeight = stream.Height
				rec.VideoWidth = stream.Width
				rec.VideoCodec = optional(stream.Codec)
				rec.VideoProfile = optional(stream.Profile)
				rec.VideoRange = optional(stream.VideoRange)
				rec.VideoFrameRate = stream.RealFrameRate
				rec.VideoBitrate = stream.BitRate
				rec.VideoBitDepth = stream.BitDepth
			}
		case "audio":
			if audio == nil || (stream.IsDefault && !audio.IsDefault) {
				audio = &streams[i]
			}
		case "subtitle":
			subtitleCount++
			if lang := strings.ToLower(strings.TrimSpace(stream.Language)); lang != "" {
				if _, ok := seenLang[lang]; !ok {
					seenLang[lang] = struct{}{}
					subtitleLangs = append(subtitleLangs, lang)
				}
			}
			if format := strings.ToLower(strings.TrimSpace(stream.Codec)); format != "" {
				if _, ok := seenFormat[format]; !ok {
					seenFormat[format] = struct{}{}
					subtitleFormats = append(subtitleFormats, format)
				}
			}
		}
	}

	if audio != nil {
		rec.AudioCodec = optional(audio.Codec)
		rec.AudioChannels = audio.Channels
		rec.AudioLanguage = optional(audio.Language)
		rec.AudioBitrate = audio.BitRate
		rec.AudioSampleRate = audio.SampleRate
	}
	if subtitleCount > 0 {
		rec.SubtitleCount = &subtitleCount
		rec.SubtitleLanguages = subtitleLangs
		rec.SubtitleFormats = subtitleFormats
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
