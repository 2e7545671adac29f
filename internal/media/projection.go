package media

// FullRecord is the enriched shape consumed by the notification
// rendering layer: the slim record plus metadata fetched separately.
// Enrichment fields never participate in fingerprinting.
type FullRecord struct {
	Record

	Overview        string
	Tagline         string
	Genres          []string
	CommunityRating *float64
	CriticRating    *float64
	OfficialRating  *string
	PosterURL       string
	ServerName      string
	RuntimeTicks    *int64
}

// Enrichment carries caller-supplied metadata overlaid onto a slim
// record when producing a FullRecord.
type Enrichment struct {
	Overview        string
	Tagline         string
	Genres          []string
	CommunityRating *float64
	CriticRating    *float64
	OfficialRating  *string
	PosterURL       string
	ServerName      string
	RuntimeTicks    *int64
}

// FromFull extracts the slim persisted fields from a full record. The
// conversion is total: missing optional fields stay nil and never fail.
func FromFull(full FullRecord) Record {
	rec := *full.Record.Clone()
	return rec
}

// ToFull produces the enriched shape from a slim record, overlaying the
// supplied enrichment. The slim record's fingerprint-relevant fields pass
// through untouched so FromFull(ToFull(rec, Enrichment{})) reproduces
// them exactly.
func ToFull(rec Record, extra Enrichment) FullRecord {
	return FullRecord{
		Record:          *rec.Clone(),
		Overview:        extra.Overview,
		Tagline:         extra.Tagline,
		Genres:          append([]string(nil), extra.Genres...),
		CommunityRating: cloneFloat(extra.CommunityRating),
		CriticRating:    cloneFloat(extra.CriticRating),
		OfficialRating:  cloneString(extra.OfficialRating),
		PosterURL:       extra.PosterURL,
		ServerName:      extra.ServerName,
		RuntimeTicks:    cloneInt64(extra.RuntimeTicks),
	}
}
