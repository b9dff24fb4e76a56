// Package parsing infers tag fields from file names.
package parsing

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/simonhull/audioprobe/internal/types"
)

// FromName is what a file name suggests about its tags. Zero values mean
// the name said nothing about that field.
type FromName struct {
	Artist      string
	Title       string
	TrackNumber int
	DiscNumber  int
}

var (
	// "A1. Artist - Title", "B2 Title", "C3-Title"
	vinylPattern = regexp.MustCompile(`^([A-D])(\d+)[-.\s]+(.+?)(?:\s*-\s*(.+))?$`)

	// "01 Title", "1-03 Artist - Title", "2.05. Title"
	numberedPattern = regexp.MustCompile(`^(?:(\d+)[-.]?)?(\d+)[-.\s]+(.+?)(?:\s*-\s*(.+))?$`)
)

// ExtractFromName parses the base name of path, without its extension.
//
// Vinyl sides map to discs two at a time: A and B are disc 1, C and D are
// disc 2. When no pattern matches, the whole name becomes the title.
func ExtractFromName(path string) FromName {
	cleaned := types.Stem(filepath.Base(path))

	if m := vinylPattern.FindStringSubmatch(cleaned); m != nil {
		side := int(m[1][0]-'A') + 1
		result := FromName{
			DiscNumber:  (side + 1) / 2,
			TrackNumber: atoi(m[2]),
		}
		if m[4] != "" {
			result.Artist = strings.TrimSpace(m[3])
			result.Title = strings.TrimSpace(m[4])
		} else {
			result.Title = strings.TrimSpace(m[3])
		}
		return result
	}

	if m := numberedPattern.FindStringSubmatch(cleaned); m != nil {
		result := FromName{
			DiscNumber:  atoi(m[1]),
			TrackNumber: atoi(m[2]),
		}
		rest := strings.TrimSpace(m[3])
		switch {
		case m[4] != "":
			result.Artist = rest
			result.Title = strings.TrimSpace(m[4])
		case strings.Contains(rest, " - "):
			artist, title, _ := strings.Cut(rest, " - ")
			result.Artist = strings.TrimSpace(artist)
			result.Title = strings.TrimSpace(title)
		default:
			result.Title = rest
		}
		return result
	}

	return FromName{Title: cleaned}
}

// atoi parses a captured digit run, returning 0 for an empty capture.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
