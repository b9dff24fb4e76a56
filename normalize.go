package audioprobe

import (
	"math"

	"github.com/simonhull/audioprobe/internal/parsing"
	"github.com/simonhull/audioprobe/internal/types"
)

// normalize applies the post-parse steps, in order: filename fill, bitrate
// back-fill, mode from channels, quality from format.
func normalize(rec Record) Record {
	fillFromName(&rec)

	if rec.Bitrate == 0 && rec.Length > 0 && rec.Size > 0 {
		rec.Bitrate = int(math.Round(float64(rec.Size) * 8 / float64(rec.Length) / 1000))
	}

	rec.Mode = types.ModeFromChannels(rec.Channels)
	rec.Quality = rec.Format.Quality()
	return rec
}

// fillFromName sets fields still at their defaults from the file name.
func fillFromName(rec *Record) {
	guess := parsing.ExtractFromName(rec.Filename)

	if rec.Artist == types.UnknownArtist && guess.Artist != "" {
		rec.Artist = guess.Artist
	}
	if rec.Title == types.Stem(rec.Filename) && guess.Title != "" {
		rec.Title = guess.Title
	}
	if rec.TrackNumber == 0 {
		rec.TrackNumber = guess.TrackNumber
	}
	if rec.DiscNumber == 0 {
		rec.DiscNumber = guess.DiscNumber
	}
}
