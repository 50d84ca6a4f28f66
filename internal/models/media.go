package models

import "time"

// Media represents a catalog record for a movie or a show. Both kinds share
// one struct; kind-specific fields are zero-valued on the other kind, the
// same way season/episode numbers are nil on movies elsewhere in the model.
type Media struct {
	ID     uint64    `boltholdKey:"ID"`
	ImdbID string    `boltholdIndex:"ImdbID"` // provider-agnostic external id
	Kind   MediaKind `boltholdIndex:"Kind"`

	Title    string
	Year     int
	Synopsis string
	Genres   []string // lowercase, never empty once synced ("unknown" sentinel)
	Runtime  string   // minutes for movies, first episode runtime for shows
	Images   Images
	Rating   Rating

	// Movie specific fields
	Released      time.Time
	Certification string // empty if no US rating found
	Trailer       string // empty if the provider lists no trailer

	// Show specific fields
	TvdbID     int // required for a show to be accepted as a match
	Status     string
	NumSeasons int
	Country    string
	Network    string
	Slug       string
	AirDay     string // not derivable from the provider, always empty
	AirTime    string // not derivable from the provider, always empty
	LastAired  time.Time

	// Tracking
	SyncedAt  time.Time `boltholdIndex:"SyncedAt"` // only moves forward
	CreatedAt time.Time
	UpdatedAt time.Time
}
