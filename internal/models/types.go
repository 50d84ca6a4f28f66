package models

// MediaKind represents the kind of media (movie or show)
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindShow  MediaKind = "show"
)

// Kinds lists every media kind handled by the sync pipeline.
var Kinds = []MediaKind{MediaKindMovie, MediaKindShow}

// Rating holds the provider-derived popularity scores for a media item
type Rating struct {
	Votes      int     // raw vote count
	Watching   int     // popularity * 10000, not a literal viewer count
	Percentage float64 // vote average * 10, range [0,100]
}

// Images holds the artwork URLs for a media item
type Images struct {
	Poster string
	Fanart string
	Banner string
}
