package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"jellywatch/internal/detect"
	"jellywatch/internal/media"
)

// Discord embed accent colors per decision.
const (
	colorNew      = 0x2ECC71 // green
	colorUpgraded = 0xE67E22 // orange
	colorRenamed  = 0x95A5A6 // grey
	colorDeleted  = 0xE74C3C // red
	colorInfo     = 0x3498DB // blue
)

const maxDescriptionLen = 600

func renderChangeEmbed(item media.FullRecord, decision detect.Decision, summary string, changes []detect.Change) embed {
	e := embed{
		Title:       embedTitle(&item.Record, decision),
		Description: embedDescription(item, decision, summary),
		Color:       decisionColor(decision),
	}

	if item.PosterURL != "" {
		e.Thumbnail = &embedImage{URL: item.PosterURL}
	}
	if item.ServerName != "" {
		e.Footer = &embedFooter{Text: item.ServerName}
	}

	e.Fields = append(e.Fields, technicalFields(&item.Record)...)
	if decision == detect.DecisionUpgraded {
		e.Fields = append(e.Fields, changeFields(changes)...)
	}
	if len(item.Genres) > 0 {
		e.Fields = append(e.Fields, embedField{
			Name:  "Genres",
			Value: strings.Join(item.Genres, ", "),
		})
	}
	if item.CommunityRating != nil {
		e.Fields = append(e.Fields, embedField{
			Name:   "Rating",
			Value:  fmt.Sprintf("%.1f", *item.CommunityRating),
			Inline: true,
		})
	}
	if item.RuntimeTicks != nil {
		e.Fields = append(e.Fields, embedField{
			Name:   "Runtime",
			Value:  formatRuntime(*item.RuntimeTicks),
			Inline: true,
		})
	}
	return e
}

func renderDeleteEmbed(rec *media.Record) embed {
	return embed{
		Title:       fmt.Sprintf("Removed: %s", displayName(rec)),
		Description: fmt.Sprintf("%s removed from the library", kindLabel(rec.Kind)),
		Color:       colorDeleted,
	}
}

func embedTitle(rec *media.Record, decision detect.Decision) string {
	name := displayName(rec)
	switch decision {
	case detect.DecisionNew:
		return fmt.Sprintf("New %s: %s", kindLabel(rec.Kind), name)
	case detect.DecisionUpgraded:
		return fmt.Sprintf("Upgraded: %s", name)
	case detect.DecisionRenamed:
		return fmt.Sprintf("Renamed: %s", name)
	default:
		return name
	}
}

func embedDescription(item media.FullRecord, decision detect.Decision, summary string) string {
	var parts []string
	if decision == detect.DecisionUpgraded && summary != "" {
		parts = append(parts, summary)
	}
	if item.Tagline != "" {
		parts = append(parts, fmt.Sprintf("*%s*", item.Tagline))
	}
	if item.Overview != "" {
		parts = append(parts, truncate(item.Overview, maxDescriptionLen))
	}
	return strings.Join(parts, "\n\n")
}

// displayName renders episodes as "Series S01E02 - Title"; everything
// else is name plus year when known.
func displayName(rec *media.Record) string {
	if rec.IsEpisodic() && rec.SeriesName != nil {
		if rec.SeasonNumber != nil && rec.EpisodeNumber != nil {
			return fmt.Sprintf("%s S%02dE%02d - %s", *rec.SeriesName, *rec.SeasonNumber, *rec.EpisodeNumber, rec.Name)
		}
		return fmt.Sprintf("%s - %s", *rec.SeriesName, rec.Name)
	}
	if rec.Year != nil {
		return fmt.Sprintf("%s (%d)", rec.Name, *rec.Year)
	}
	return rec.Name
}

func kindLabel(kind media.Kind) string {
	switch kind {
	case media.KindMovie:
		return "Movie"
	case media.KindEpisode:
		return "Episode"
	case media.KindSeason:
		return "Season"
	case media.KindSeries:
		return "Series"
	case media.KindAudio:
		return "Audio"
	default:
		return "Item"
	}
}

func decisionColor(decision detect.Decision) int {
	switch decision {
	case detect.DecisionNew:
		return colorNew
	case detect.DecisionUpgraded:
		return colorUpgraded
	case detect.DecisionRenamed:
		return colorRenamed
	default:
		return colorInfo
	}
}

func technicalFields(rec *media.Record) []embedField {
	var fields []embedField
	if quality := qualityLine(rec); quality != "" {
		fields = append(fields, embedField{Name: "Video", Value: quality, Inline: true})
	}
	if audio := audioLine(rec); audio != "" {
		fields = append(fields, embedField{Name: "Audio", Value: audio, Inline: true})
	}
	if rec.FileSize != nil && *rec.FileSize > 0 {
		fields = append(fields, embedField{
			Name:   "Size",
			Value:  humanize.IBytes(uint64(*rec.FileSize)),
			Inline: true,
		})
	}
	return fields
}

func qualityLine(rec *media.Record) string {
	var parts []string
	if rec.VideoHeight != nil {
		parts = append(parts, fmt.Sprintf("%dp", *rec.VideoHeight))
	}
	if rec.VideoCodec != nil {
		parts = append(parts, strings.ToUpper(*rec.VideoCodec))
	}
	if dr := detect.NormalizeDynamicRange(deref(rec.VideoRange)); dr != "" && dr != detect.RangeSDR {
		parts = append(parts, dr)
	}
	return strings.Join(parts, " ")
}

func audioLine(rec *media.Record) string {
	var parts []string
	if rec.AudioCodec != nil {
		parts = append(parts, strings.ToUpper(*rec.AudioCodec))
	}
	if rec.AudioChannels != nil {
		parts = append(parts, channelSuffix(*rec.AudioChannels))
	}
	return strings.Join(parts, " ")
}

func channelSuffix(channels int) string {
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

func changeFields(changes []detect.Change) []embedField {
	if len(changes) == 0 {
		return nil
	}
	lines := make([]string, 0, len(changes))
	for _, change := range changes {
		lines = append(lines, change.Description)
	}
	return []embedField{{Name: "Changes", Value: strings.Join(lines, "\n")}}
}

func formatRuntime(ticks int64) string {
	d := time.Duration(ticks/10) * time.Microsecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.TrimSpace(s[:limit]) + "…"
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
