package tmdb

// FindResult is the response of a find-by-external-id lookup. A given IMDB
// id resolves to at most one of the two result lists.
type FindResult struct {
	MovieResults []FindMatch `json:"movie_results"`
	TVResults    []FindMatch `json:"tv_results"`
}

// FindMatch identifies a provider record returned by a lookup
type FindMatch struct {
	ID int `json:"id"`
}

// MediaCommon holds the detail fields shared by movies and shows
type MediaCommon struct {
	ID           int     `json:"id"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	Genres       []Genre `json:"genres"`
}

// Genre represents a provider genre entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the movie detail record with release dates and videos
// appended to the response
type MovieDetail struct {
	MediaCommon
	ImdbID       string       `json:"imdb_id"`
	Title        string       `json:"title"`
	ReleaseDate  string       `json:"release_date"` // YYYY-MM-DD
	Runtime      int          `json:"runtime"`      // minutes
	ReleaseDates ReleaseDates `json:"release_dates"`
	Videos       Videos       `json:"videos"`
}

// ReleaseDates wraps the per-region release date groups
type ReleaseDates struct {
	Results []ReleaseDatesGroup `json:"results"`
}

// ReleaseDatesGroup holds the release entries for one region
type ReleaseDatesGroup struct {
	ISO31661     string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ReleaseDate is a single regional release entry
type ReleaseDate struct {
	Certification string `json:"certification"`
}

// Videos wraps the video entries attached to a movie
type Videos struct {
	Results []Video `json:"results"`
}

// Video is a single video entry (trailer, teaser, clip...)
type Video struct {
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
}

// TVDetail is the show detail record with external ids appended to the
// response
type TVDetail struct {
	MediaCommon
	Name            string      `json:"name"`
	OriginalName    string      `json:"original_name"`
	FirstAirDate    string      `json:"first_air_date"` // YYYY-MM-DD
	LastAirDate     string      `json:"last_air_date"`  // YYYY-MM-DD
	Status          string      `json:"status"`
	NumberOfSeasons int         `json:"number_of_seasons"`
	OriginCountry   []string    `json:"origin_country"`
	Networks        []Network   `json:"networks"`
	EpisodeRunTime  []int       `json:"episode_run_time"`
	ExternalIDs     ExternalIDs `json:"external_ids"`
}

// Network is a broadcasting network entry
type Network struct {
	Name string `json:"name"`
}

// ExternalIDs holds the cross-database identifiers of a show
type ExternalIDs struct {
	ImdbID string `json:"imdb_id"`
	TvdbID int    `json:"tvdb_id"`
}
