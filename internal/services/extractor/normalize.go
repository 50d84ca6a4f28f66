package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/services/tmdb"
)

const (
	referenceRegion = "US"
	typeTrailer     = "Trailer"

	providerDateFmt = "2006-01-02"
)

var (
	slugStripRe  = regexp.MustCompile(`[^a-zA-Z0-9 -]`)
	slugHyphenRe = regexp.MustCompile(`\s+`)
)

// fillRating maps the provider vote fields onto the rating score triple.
// Watching is a popularity transform, not a literal viewer count.
func fillRating(media *models.Media, info tmdb.MediaCommon) {
	media.Rating = models.Rating{
		Votes:      info.VoteCount,
		Watching:   int(info.Popularity * 10000),
		Percentage: info.VoteAverage * 10,
	}
}

// fillImagesGenres maps the artwork paths and genre list. Poster and banner
// share the poster path; fanart uses the backdrop path. An absent path
// degrades to the bare image base URL. An empty genre list becomes the
// single "unknown" sentinel.
func fillImagesGenres(media *models.Media, info tmdb.MediaCommon, imageBase string) {
	media.Images = models.Images{
		Poster: imageBase + info.PosterPath,
		Fanart: imageBase + info.BackdropPath,
		Banner: imageBase + info.PosterPath,
	}

	genres := make([]string, 0, len(info.Genres))
	for _, genre := range info.Genres {
		genres = append(genres, strings.ToLower(genre.Name))
	}
	if len(genres) == 0 {
		genres = []string{"unknown"}
	}
	media.Genres = genres
}

// Slugify derives a URL-safe slug from a display name: characters outside
// [A-Za-z0-9 -] are stripped, whitespace runs collapse to single hyphens,
// and the result is lowercased.
func Slugify(name string) string {
	slug := slugStripRe.ReplaceAllString(name, "")
	slug = slugHyphenRe.ReplaceAllString(strings.TrimSpace(slug), "-")
	return strings.ToLower(slug)
}

// certificationFor returns the certification of the first release-dates
// group matching the region, or the empty string when the region is absent
func certificationFor(dates tmdb.ReleaseDates, region string) string {
	for _, group := range dates.Results {
		if group.ISO31661 != region {
			continue
		}
		if len(group.ReleaseDates) > 0 {
			return group.ReleaseDates[0].Certification
		}
	}
	return ""
}

// trailerURL returns the watch URL of the first video entry of type
// Trailer, or the empty string when none is listed
func trailerURL(videos tmdb.Videos) string {
	for _, video := range videos.Results {
		if video.Type != typeTrailer {
			continue
		}
		switch video.Site {
		case "YouTube":
			return "https://www.youtube.com/watch?v=" + video.Key
		case "Vimeo":
			return "https://vimeo.com/" + video.Key
		}
		return ""
	}
	return ""
}

// parseDate parses a provider date in YYYY-MM-DD form
func parseDate(value string) (time.Time, error) {
	return time.Parse(providerDateFmt, value)
}
