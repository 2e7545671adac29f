package detect

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"jellywatch/internal/media"
)

// Category tags one monitored change type.
type Category string

const (
	CategoryResolution    Category = "resolution"
	CategoryVideoCodec    Category = "video_codec"
	CategoryAudioCodec    Category = "audio_codec"
	CategoryAudioChannels Category = "audio_channels"
	CategoryHDRStatus     Category = "hdr_status"
	CategoryFileSize      Category = "file_size"
	CategorySubtitles     Category = "subtitles"
)

// summaryOrder is the fixed priority used when joining change phrasings.
var summaryOrder = []Category{
	CategoryResolution,
	CategoryHDRStatus,
	CategoryVideoCodec,
	CategoryAudioCodec,
	CategoryAudioChannels,
	CategorySubtitles,
	CategoryFileSize,
}

// Change is a transient descriptor for one detected difference. It is
// self-contained: category, affected field, raw old/new values, and a
// human-readable description.
type Change struct {
	Category    Category
	Field       string
	OldValue    string
	NewValue    string
	Description string
}

// WatchConfig maps category names to enable flags. Missing categories
// default to enabled; unknown names are ignored.
type WatchConfig map[string]bool

// Enabled reports whether a category should be classified.
func (w WatchConfig) Enabled(cat Category) bool {
	if w == nil {
		return true
	}
	enabled, ok := w[string(cat)]
	if !ok {
		return true
	}
	return enabled
}

// Detector classifies differences between record snapshots. It holds no
// mutable state and is safe for concurrent use.
type Detector struct {
	logger *slog.Logger
}

// NewDetector builds a change detector.
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// Changes compares old and new records and returns the ordered change
// descriptors for every enabled category that differs. It sits on the
// webhook-processing path and never propagates internal failures: a
// panic during comparison is logged and yields an empty result.
func (d *Detector) Changes(old, current *media.Record, watch WatchConfig) (changes []Change) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("change detection failed",
				slog.String("component", "detector"),
				slog.Any("panic", r))
			changes = nil
		}
	}()

	if old == nil || current == nil {
		return nil
	}

	if watch.Enabled(CategoryResolution) {
		if c := resolutionChange(old, current); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategoryVideoCodec) {
		if c := codecChange(CategoryVideoCodec, "video_codec", "Video codec", old.VideoCodec, current.VideoCodec); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategoryAudioCodec) {
		if c := codecChange(CategoryAudioCodec, "audio_codec", "Audio codec", old.AudioCodec, current.AudioCodec); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategoryAudioChannels) {
		if c := audioChannelsChange(old, current); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategoryHDRStatus) {
		if c := hdrChange(old, current); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategoryFileSize) {
		if c := fileSizeChange(old, current); c != nil {
			changes = append(changes, *c)
		}
	}
	if watch.Enabled(CategorySubtitles) {
		changes = append(changes, subtitleChanges(old, current)...)
	}
	return changes
}

func resolutionChange(old, current *media.Record) *Change {
	if old.VideoHeight == nil || current.VideoHeight == nil {
		return nil
	}
	if *old.VideoHeight == *current.VideoHeight {
		return nil
	}
	return &Change{
		Category:    CategoryResolution,
		Field:       "video_height",
		OldValue:    fmt.Sprintf("%dp", *old.VideoHeight),
		NewValue:    fmt.Sprintf("%dp", *current.VideoHeight),
		Description: fmt.Sprintf("resolution %dp → %dp", *old.VideoHeight, *current.VideoHeight),
	}
}

// codecChange fires when the strings differ and at least one side is
// known; an upgrade from "unknown" counts as a change.
func codecChange(cat Category, field, label string, old, current *string) *Change {
	if old == nil && current == nil {
		return nil
	}
	oldVal := derefLower(old)
	newVal := derefLower(current)
	if oldVal == newVal {
		return nil
	}
	return &Change{
		Category:    cat,
		Field:       field,
		OldValue:    displayOr(oldVal, "unknown"),
		NewValue:    displayOr(newVal, "unknown"),
		Description: fmt.Sprintf("%s %s → %s", strings.ToLower(label), displayOr(oldVal, "unknown"), displayOr(newVal, "unknown")),
	}
}

func audioChannelsChange(old, current *media.Record) *Change {
	if old.AudioChannels == nil || current.AudioChannels == nil {
		return nil
	}
	if *old.AudioChannels == *current.AudioChannels {
		return nil
	}
	return &Change{
		Category:    CategoryAudioChannels,
		Field:       "audio_channels",
		OldValue:    channelLayout(*old.AudioChannels),
		NewValue:    channelLayout(*current.AudioChannels),
		Description: fmt.Sprintf("audio channels %s → %s", channelLayout(*old.AudioChannels), channelLayout(*current.AudioChannels)),
	}
}

func hdrChange(old, current *media.Record) *Change {
	oldRange := NormalizeDynamicRange(deref(old.VideoRange))
	newRange := NormalizeDynamicRange(deref(current.VideoRange))
	if oldRange == newRange {
		return nil
	}
	return &Change{
		Category:    CategoryHDRStatus,
		Field:       "video_range",
		OldValue:    oldRange,
		NewValue:    newRange,
		Description: fmt.Sprintf("dynamic range %s → %s", oldRange, newRange),
	}
}

// fileSizeThreshold guards against negligible re-encode and remux noise.
const fileSizeThreshold = 0.10

func fileSizeChange(old, current *media.Record) *Change {
	if old.FileSize == nil || current.FileSize == nil {
		return nil
	}
	oldSize, newSize := *old.FileSize, *current.FileSize
	if oldSize <= 0 {
		if newSize == oldSize {
			return nil
		}
	} else if math.Abs(float64(newSize-oldSize))/float64(oldSize) <= fileSizeThreshold {
		return nil
	}
	return &Change{
		Category:    CategoryFileSize,
		Field:       "file_size",
		OldValue:    humanize.IBytes(uint64(max64(oldSize, 0))),
		NewValue:    humanize.IBytes(uint64(max64(newSize, 0))),
		Description: fmt.Sprintf("file size %s → %s", humanize.IBytes(uint64(max64(oldSize, 0))), humanize.IBytes(uint64(max64(newSize, 0)))),
	}
}

func subtitleChanges(old, current *media.Record) []Change {
	var changes []Change

	if old.SubtitleCount != nil && current.SubtitleCount != nil && *old.SubtitleCount != *current.SubtitleCount {
		changes = append(changes, Change{
			Category:    CategorySubtitles,
			Field:       "subtitle_count",
			OldValue:    fmt.Sprintf("%d tracks", *old.SubtitleCount),
			NewValue:    fmt.Sprintf("%d tracks", *current.SubtitleCount),
			Description: fmt.Sprintf("subtitle tracks %d → %d", *old.SubtitleCount, *current.SubtitleCount),
		})
	}

	added, removed := setDiff(old.SubtitleLanguages, current.SubtitleLanguages)
	if len(added) > 0 || len(removed) > 0 {
		changes = append(changes, Change{
			Category:    CategorySubtitles,
			Field:       "subtitle_languages",
			OldValue:    strings.Join(normalizeSet(old.SubtitleLanguages), ","),
			NewValue:    strings.Join(normalizeSet(current.SubtitleLanguages), ","),
			Description: subtitleLanguageDescription(added, removed),
		})
	}
	return changes
}

func subtitleLanguageDescription(added, removed []string) string {
	switch {
	case len(added) > 0 && len(removed) > 0:
		return fmt.Sprintf("subtitle languages added %s and removed %s",
			strings.Join(languageNames(added), ", "), strings.Join(languageNames(removed), ", "))
	case len(added) > 0:
		return fmt.Sprintf("subtitle languages added %s", strings.Join(languageNames(added), ", "))
	default:
		return fmt.Sprintf("subtitle languages removed %s", strings.Join(languageNames(removed), ", "))
	}
}

// setDiff returns elements present only in current (added) and only in
// old (removed), case-insensitively, each sorted for stable output.
func setDiff(old, current []string) (added, removed []string) {
	oldSet := make(map[string]struct{}, len(old))
	for _, v := range normalizeSet(old) {
		oldSet[v] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(current))
	for _, v := range normalizeSet(current) {
		newSet[v] = struct{}{}
	}
	for v := range newSet {
		if _, ok := oldSet[v]; !ok {
			added = append(added, v)
		}
	}
	for v := range oldSet {
		if _, ok := newSet[v]; !ok {
			removed = append(removed, v)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	sort.Strings(out)
	return out
}

func channelLayout(channels int) string {
	switch channels {
	case 1:
		return "1.0"
	case 2:
		return "2.0"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefLower(v *string) string {
	return strings.ToLower(strings.TrimSpace(deref(v)))
}

func displayOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
