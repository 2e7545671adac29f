package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
	"strconv"
	"strings"

	"jellywatch/internal/media"
)

// nullMarker is written for absent optional fields so that "absent"
// hashes identically every time and stays distinguishable from zero.
const nullMarker = "\x00null"

// Record returns the content fingerprint for a media record: a SHA-256
// hex digest over a canonical serialization of the technical
// specification fields plus name and kind. File path, identifiers,
// series linkage, and timestamps are excluded so pure renames keep the
// same fingerprint.
//
// The function is pure and safe for concurrent use.
func Record(rec *media.Record) string {
	if rec == nil {
		return ""
	}

	h := sha256.New()
	writeField(h, "name", rec.Name)
	writeField(h, "kind", string(rec.Kind))

	writeIntField(h, "video.height", rec.VideoHeight)
	writeIntField(h, "video.width", rec.VideoWidth)
	writeStringField(h, "video.codec", rec.VideoCodec)
	writeStringField(h, "video.profile", rec.VideoProfile)
	writeStringField(h, "video.range", rec.VideoRange)
	writeFloatField(h, "video.framerate", rec.VideoFrameRate)
	writeInt64Field(h, "video.bitrate", rec.VideoBitrate)
	writeIntField(h, "video.bitdepth", rec.VideoBitDepth)

	writeStringField(h, "audio.codec", rec.AudioCodec)
	writeIntField(h, "audio.channels", rec.AudioChannels)
	writeStringField(h, "audio.language", rec.AudioLanguage)
	writeInt64Field(h, "audio.bitrate", rec.AudioBitrate)
	writeIntField(h, "audio.samplerate", rec.AudioSampleRate)

	writeIntField(h, "subs.count", rec.SubtitleCount)
	writeField(h, "subs.languages", sortedSet(rec.SubtitleLanguages))
	writeField(h, "subs.formats", sortedSet(rec.SubtitleFormats))

	writeInt64Field(h, "file.size", rec.FileSize)

	return hex.EncodeToString(h.Sum(nil))
}

// sortedSet produces an order-insensitive serialization of a string set.
func sortedSet(values []string) string {
	if len(values) == 0 {
		return nullMarker
	}
	sorted := make([]string, 0, len(values))
	for _, v := range values {
		sorted = append(sorted, strings.ToLower(strings.TrimSpace(v)))
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func writeField(h hash.Hash, key, value string) {
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte{'='})
	_, _ = h.Write([]byte(value))
	_, _ = h.Write([]byte{0})
}

func writeStringField(h hash.Hash, key string, value *string) {
	if value == nil {
		writeField(h, key, nullMarker)
		return
	}
	writeField(h, key, strings.ToLower(strings.TrimSpace(*value)))
}

func writeIntField(h hash.Hash, key string, value *int) {
	if value == nil {
		writeField(h, key, nullMarker)
		return
	}
	writeField(h, key, strconv.Itoa(*value))
}

func writeInt64Field(h hash.Hash, key string, value *int64) {
	if value == nil {
		writeField(h, key, nullMarker)
		return
	}
	writeField(h, key, strconv.FormatInt(*value, 10))
}

func writeFloatField(h hash.Hash, key string, value *float64) {
	if value == nil {
		writeField(h, key, nullMarker)
		return
	}
	writeField(h, key, strconv.FormatFloat(*value, 'f', -1, 64))
}
