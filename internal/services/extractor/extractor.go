package extractor

import (
	"context"
	"errors"
	"strconv"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// ErrNoMatch indicates the provider has nothing usable for an external id:
// no search result, a result of the wrong kind, or a show without a TVDB
// id. Callers treat it as a successful no-op sync, not a failure.
var ErrNoMatch = errors.New("no provider match")

// Provider is the slice of the TMDB client the extractor needs
type Provider interface {
	FindByImdb(ctx context.Context, imdbID string) (*tmdb.FindResult, error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetail, error)
	GetTV(ctx context.Context, id int) (*tmdb.TVDetail, error)
}

// Extractor resolves external ids against the metadata provider and maps
// provider detail records onto catalog media records
type Extractor struct {
	provider  Provider
	imageBase string
	logger    *logrus.Logger
}

// New creates a new extractor
func New(provider Provider, imageBase string, logger *logrus.Logger) *Extractor {
	return &Extractor{
		provider:  provider,
		imageBase: imageBase,
		logger:    logger,
	}
}

// Resolve looks up an external id and returns a freshly filled media
// record. Returns ErrNoMatch when the provider has nothing usable.
func (e *Extractor) Resolve(ctx context.Context, imdbID string) (*models.Media, error) {
	media := &models.Media{ImdbID: imdbID}
	if err := e.Fill(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// Fill refreshes a media record in place from the provider. The record's
// kind, when already set, must agree with the kind the lookup resolves to;
// a disagreement is treated as no match. Missing fields and malformed dates
// are absorbed here with their documented fallbacks and never abort an
// otherwise successful fill.
func (e *Extractor) Fill(ctx context.Context, media *models.Media) error {
	search, err := e.provider.FindByImdb(ctx, media.ImdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return ErrNoMatch
		}
		return err
	}

	switch {
	case len(search.MovieResults) > 0:
		if media.Kind != "" && media.Kind != models.MediaKindMovie {
			return ErrNoMatch
		}
		detail, err := e.provider.GetMovie(ctx, search.MovieResults[0].ID)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return ErrNoMatch
			}
			return err
		}
		e.fillMovie(detail, media)
		return nil

	case len(search.TVResults) > 0:
		if media.Kind != "" && media.Kind != models.MediaKindShow {
			return ErrNoMatch
		}
		detail, err := e.provider.GetTV(ctx, search.TVResults[0].ID)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return ErrNoMatch
			}
			return err
		}
		// A show without a TVDB id is unresolved and never persisted.
		if detail.ExternalIDs.TvdbID == 0 {
			return ErrNoMatch
		}
		e.fillShow(detail, media)
		return nil
	}

	return ErrNoMatch
}

func (e *Extractor) fillMovie(info *tmdb.MovieDetail, media *models.Media) {
	media.Kind = models.MediaKindMovie
	if info.ImdbID != "" {
		media.ImdbID = info.ImdbID
	}
	media.Title = info.Title
	media.Synopsis = info.Overview
	media.Certification = certificationFor(info.ReleaseDates, referenceRegion)
	media.Runtime = strconv.Itoa(info.Runtime)
	media.Trailer = trailerURL(info.Videos)

	if released, err := parseDate(info.ReleaseDate); err != nil {
		// Malformed date keeps the prior value; the fill still counts.
		e.logger.WithFields(logrus.Fields{
			"imdb_id":      media.ImdbID,
			"release_date": info.ReleaseDate,
		}).Warn("Malformed movie release date, keeping previous value")
	} else {
		media.Released = released
		media.Year = released.Year()
	}

	fillRating(media, info.MediaCommon)
	fillImagesGenres(media, info.MediaCommon, e.imageBase)
}

func (e *Extractor) fillShow(info *tmdb.TVDetail, media *models.Media) {
	media.Kind = models.MediaKindShow
	if info.ExternalIDs.ImdbID != "" {
		media.ImdbID = info.ExternalIDs.ImdbID
	}
	media.TvdbID = info.ExternalIDs.TvdbID
	media.Title = info.OriginalName
	media.Synopsis = info.Overview
	media.Status = info.Status
	media.NumSeasons = info.NumberOfSeasons

	// The provider exposes no airing schedule for shows.
	media.AirDay = ""
	media.AirTime = ""

	if first, err := parseDate(info.FirstAirDate); err != nil {
		e.logger.WithFields(logrus.Fields{
			"imdb_id":        media.ImdbID,
			"first_air_date": info.FirstAirDate,
		}).Warn("Malformed first air date, keeping previous value")
	} else {
		media.Year = first.Year()
	}

	if last, err := parseDate(info.LastAirDate); err != nil {
		e.logger.WithFields(logrus.Fields{
			"imdb_id":       media.ImdbID,
			"last_air_date": info.LastAirDate,
		}).Warn("Malformed last air date, keeping previous value")
	} else {
		media.LastAired = last
	}

	media.Country = ""
	if len(info.OriginCountry) > 0 {
		media.Country = info.OriginCountry[0]
	}

	media.Network = ""
	if len(info.Networks) > 0 {
		media.Network = info.Networks[0].Name
	}

	media.Runtime = ""
	if len(info.EpisodeRunTime) > 0 {
		media.Runtime = strconv.Itoa(info.EpisodeRunTime[0])
	}

	media.Slug = Slugify(info.Name)

	fillRating(media, info.MediaCommon)
	fillImagesGenres(media, info.MediaCommon, e.imageBase)
}
