package media

import (
	"strings"
	"time"
)

// Kind classifies a media item.
type Kind string

const (
	KindMovie   Kind = "Movie"
	KindEpisode Kind = "Episode"
	KindSeason  Kind = "Season"
	KindSeries  Kind = "Series"
	KindAudio   Kind = "Audio"
	KindOther   Kind = "Other"
)

var knownKinds = map[Kind]struct{}{
	KindMovie:   {},
	KindEpisode: {},
	KindSeason:  {},
	KindSeries:  {},
	KindAudio:   {},
	KindOther:   {},
}

// ParseKind normalizes a raw item type string into a known Kind.
// Unrecognized values map to KindOther so ingestion never rejects an item
// on type alone.
func ParseKind(value string) Kind {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return KindOther
	}
	candidate := Kind(strings.ToUpper(trimmed[:1]) + strings.ToLower(trimmed[1:]))
	if _, ok := knownKinds[candidate]; ok {
		return candidate
	}
	return KindOther
}

// Record is the slim persisted shape: item identity plus only the
// attributes needed for change detection. Optional attributes are
// pointers so "absent" stays distinguishable from "zero" all the way
// into the fingerprint.
type Record struct {
	// Identity.
	ItemID string
	Name   string
	Kind   Kind

	// Series linkage; nil for non-episodic content.
	SeriesName    *string
	SeriesID      *string
	SeasonNumber  *int
	EpisodeNumber *int
	Year          *int

	// Video technical attributes; nil for non-video content.
	VideoHeight    *int
	VideoWidth     *int
	VideoCodec     *string
	VideoProfile   *string
	VideoRange     *string
	VideoFrameRate *float64
	VideoBitrate   *int64
	VideoBitDepth  *int

	// Audio technical attributes.
	AudioCodec      *string
	AudioChannels   *int
	AudioLanguage   *string
	AudioBitrate    *int64
	AudioSampleRate *int

	// Subtitle attributes. Languages and formats are order-irrelevant sets.
	SubtitleCount     *int
	SubtitleLanguages []string
	SubtitleFormats   []string

	// File attributes. Path is used only for rename correlation, never
	// for identity or fingerprinting.
	FilePath    string
	FileSize    *int64
	LibraryName string

	// Derived fields. Fingerprint is recomputed by the store on every
	// save; callers never set it directly.
	Fingerprint string
	CreatedAt   time.Time
}

// Clone returns a deep copy of the record. Pointer fields are duplicated
// so mutations on the copy never leak back into the original.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.SeriesName = cloneString(r.SeriesName)
	cp.SeriesID = cloneString(r.SeriesID)
	cp.SeasonNumber = cloneInt(r.SeasonNumber)
	cp.EpisodeNumber = cloneInt(r.EpisodeNumber)
	cp.Year = cloneInt(r.Year)
	cp.VideoHeight = cloneInt(r.VideoHeight)
	cp.VideoWidth = cloneInt(r.VideoWidth)
	cp.VideoCodec = cloneString(r.VideoCodec)
	cp.VideoProfile = cloneString(r.VideoProfile)
	cp.VideoRange = cloneString(r.VideoRange)
	cp.VideoFrameRate = cloneFloat(r.VideoFrameRate)
	cp.VideoBitrate = cloneInt64(r.VideoBitrate)
	cp.VideoBitDepth = cloneInt(r.VideoBitDepth)
	cp.AudioCodec = cloneString(r.AudioCodec)
	cp.AudioChannels = cloneInt(r.AudioChannels)
	cp.AudioLanguage = cloneString(r.AudioLanguage)
	cp.AudioBitrate = cloneInt64(r.AudioBitrate)
	cp.AudioSampleRate = cloneInt(r.AudioSampleRate)
	cp.SubtitleCount = cloneInt(r.SubtitleCount)
	cp.SubtitleLanguages = append([]string(nil), r.SubtitleLanguages...)
	cp.SubtitleFormats = append([]string(nil), r.SubtitleFormats...)
	cp.FileSize = cloneInt64(r.FileSize)
	return &cp
}

// IsEpisodic reports whether the record carries series linkage.
func (r *Record) IsEpisodic() bool {
	return r != nil && r.SeriesName != nil && strings.TrimSpace(*r.SeriesName) != ""
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
