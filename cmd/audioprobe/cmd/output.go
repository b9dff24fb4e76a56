package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/simonhull/audioprobe"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printRecord writes rec as one JSON line, or as an indented text block.
func printRecord(w io.Writer, rec audioprobe.Record, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(rec)
	}

	fmt.Fprintf(w, "%s\n", rec.Filename)
	fmt.Fprintf(w, "  Title:     %s\n", rec.Title)
	fmt.Fprintf(w, "  Artist:    %s\n", rec.Artist)
	fmt.Fprintf(w, "  Album:     %s\n", rec.Album)
	if rec.AlbumArtist != "" {
		fmt.Fprintf(w, "  Album Art: %s\n", rec.AlbumArtist)
	}
	if rec.TrackNumber > 0 {
		fmt.Fprintf(w, "  Track:     %s\n", trackLabel(rec))
	}
	if rec.Genre != "" {
		fmt.Fprintf(w, "  Genre:     %s\n", rec.Genre)
	}
	if rec.Year > 0 {
		fmt.Fprintf(w, "  Year:      %d\n", rec.Year)
	}
	fmt.Fprintf(w, "  Length:    %s\n", time.Duration(rec.Length)*time.Second)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(rec.Size))
	fmt.Fprintf(w, "  Audio:     %s\n", rec)
	fmt.Fprintf(w, "  Encoder:   %s", rec.WritingLibrary)
	if rec.EncodingSettings != "" {
		fmt.Fprintf(w, " (%s)", rec.EncodingSettings)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func trackLabel(rec audioprobe.Record) string {
	if rec.DiscNumber > 0 {
		return strconv.Itoa(rec.DiscNumber) + "-" + strconv.Itoa(rec.TrackNumber)
	}
	return strconv.Itoa(rec.TrackNumber)
}
