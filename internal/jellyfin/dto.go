package jellyfin

// ItemsResponse represents a paginated list of items from Jellyfin.
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Item represents a media item from Jellyfin.
type Item struct {
	ID                string        `json:"Id"`
	Name              string        `json:"Name"`
	Type              string        `json:"Type"`
	Overview          string        `json:"Overview,omitempty"`
	Taglines          []string      `json:"Taglines,omitempty"`
	Genres            []string      `json:"Genres,omitempty"`
	ProductionYear    *int          `json:"ProductionYear,omitempty"`
	CommunityRating   *float64      `json:"CommunityRating,omitempty"`
	CriticRating      *float64      `json:"CriticRating,omitempty"`
	OfficialRating    *string       `json:"OfficialRating,omitempty"`
	RunTimeTicks      *int64        `json:"RunTimeTicks,omitempty"`
	SeriesID          string        `json:"SeriesId,omitempty"`
	SeriesName        string        `json:"SeriesName,omitempty"`
	ParentIndexNumber *int          `json:"ParentIndexNumber,omitempty"`
	IndexNumber       *int          `json:"IndexNumber,omitempty"`
	Path              string        `json:"Path,omitempty"`
	LibraryName       string        `json:"CollectionName,omitempty"`
	MediaSources      []MediaSource `json:"MediaSources,omitempty"`
	MediaStreams      []MediaStream `json:"MediaStreams,omitempty"`
}

// MediaSource represents a media source file for an item.
type MediaSource struct {
	ID   string `json:"Id"`
	Path string `json:"Path"`
	Size *int64 `json:"Size,omitempty"`
}

// MediaStream represents one stream within a media source.
type MediaStream struct {
	Type           string   `json:"Type"`
	Codec          string   `json:"Codec,omitempty"`
	Profile        string   `json:"Profile,omitempty"`
	Height         *int     `json:"Height,omitempty"`
	Width          *int     `json:"Width,omitempty"`
	VideoRange     string   `json:"VideoRange,omitempty"`
	RealFrameRate  *float64 `json:"RealFrameRate,omitempty"`
	BitRate        *int64   `json:"BitRate,omitempty"`
	BitDepth       *int     `json:"BitDepth,omitempty"`
	Channels       *int     `json:"Channels,omitempty"`
	SampleRate     *int     `json:"SampleRate,omitempty"`
	Language       string   `json:"Language,omitempty"`
	IsDefault      bool     `json:"IsDefault,omitempty"`
	DisplayTitle   string   `json:"DisplayTitle,omitempty"`
}
