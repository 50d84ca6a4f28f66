package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Media operations

// CreateMedia creates a new media item in the database
func (db *Database) CreateMedia(media *Media) error {
	media.CreatedAt = time.Now()
	media.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), media)
}

// UpdateMedia updates an existing media item
func (db *Database) UpdateMedia(media *Media) error {
	media.UpdatedAt = time.Now()
	return db.store.Update(media.ID, media)
}

// UpsertMedia inserts or updates a media item. SyncedAt never moves
// backwards: concurrent redeliveries of the same task may race here, and
// the later sync time must win regardless of write order.
func (db *Database) UpsertMedia(media *Media) error {
	if media.ID == 0 {
		return db.CreateMedia(media)
	}

	existing, err := db.GetMediaByID(media.ID)
	if err == nil && existing.SyncedAt.After(media.SyncedAt) {
		media.SyncedAt = existing.SyncedAt
	}

	return db.UpdateMedia(media)
}

// GetMediaByID retrieves a media item by ID
func (db *Database) GetMediaByID(id uint64) (*Media, error) {
	var media Media
	err := db.store.Get(id, &media)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// GetMediaByImdbID retrieves a media item by IMDB ID and kind
func (db *Database) GetMediaByImdbID(kind MediaKind, imdbID string) (*Media, error) {
	var media Media
	err := db.store.FindOne(&media, bolthold.Where("ImdbID").Eq(imdbID).And("Kind").Eq(kind))
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// FindOrCreateByImdb returns the media item for the given IMDB ID, creating
// a bare shell record pending its first sync when none exists. The second
// return value reports whether a record was created.
func (db *Database) FindOrCreateByImdb(kind MediaKind, imdbID string) (*Media, bool, error) {
	media, err := db.GetMediaByImdbID(kind, imdbID)
	if err == nil {
		return media, false, nil
	}
	if err != bolthold.ErrNotFound {
		return nil, false, err
	}

	media = &Media{
		ImdbID: imdbID,
		Kind:   kind,
	}
	if err := db.CreateMedia(media); err != nil {
		return nil, false, err
	}

	return media, true, nil
}

// FindStale returns the IDs of up to limit media items of the given kind
// whose last sync is older than before. Order is not significant.
func (db *Database) FindStale(kind MediaKind, before time.Time, limit int) ([]uint64, error) {
	var medias []*Media
	query := bolthold.Where("Kind").Eq(kind).And("SyncedAt").Lt(before).Limit(limit)
	if err := db.store.Find(&medias, query); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(medias))
	for _, media := range medias {
		ids = append(ids, media.ID)
	}
	return ids, nil
}

// CountMedia returns the number of media items of the given kind
func (db *Database) CountMedia(kind MediaKind) (int, error) {
	count, err := db.store.Count(&Media{}, bolthold.Where("Kind").Eq(kind))
	return count, err
}

// CountStale returns the number of media items of the given kind whose last
// sync is older than before
func (db *Database) CountStale(kind MediaKind, before time.Time) (int, error) {
	count, err := db.store.Count(&Media{}, bolthold.Where("Kind").Eq(kind).And("SyncedAt").Lt(before))
	return count, err
}

// GetMediaPage returns one page of media items filtered by genre and
// keywords and ordered by the requested sort. Filtering beyond the indexed
// kind/genre match happens in memory.
func (db *Database) GetMediaPage(kind MediaKind, genre, keywords, sortBy string, descending bool, offset, limit int) ([]*Media, error) {
	query := bolthold.Where("Kind").Eq(kind)
	if genre != "" && genre != "all" {
		query = query.And("Genres").Contains(genre)
	}

	var medias []*Media
	if err := db.store.Find(&medias, query); err != nil {
		return nil, err
	}

	if keywords != "" {
		needle := strings.ToLower(keywords)
		filtered := medias[:0]
		for _, media := range medias {
			if strings.Contains(strings.ToLower(media.Title), needle) ||
				strings.Contains(strings.ToLower(media.Synopsis), needle) {
				filtered = append(filtered, media)
			}
		}
		medias = filtered
	}

	less := mediaLess(sortBy)
	sort.Slice(medias, func(i, j int) bool {
		if descending {
			return less(medias[j], medias[i])
		}
		return less(medias[i], medias[j])
	})

	if offset >= len(medias) {
		return []*Media{}, nil
	}
	end := offset + limit
	if end > len(medias) {
		end = len(medias)
	}
	return medias[offset:end], nil
}

// mediaLess returns the comparison for a sort key, defaulting to trending
// (rating watching score) like the original catalog listing
func mediaLess(sortBy string) func(a, b *Media) bool {
	switch sortBy {
	case "name", "title":
		return func(a, b *Media) bool { return a.Title < b.Title }
	case "year":
		return func(a, b *Media) bool { return a.Year < b.Year }
	case "released", "updated":
		return func(a, b *Media) bool { return a.Released.Before(b.Released) }
	default: // trending
		return func(a, b *Media) bool { return a.Rating.Watching < b.Rating.Watching }
	}
}
