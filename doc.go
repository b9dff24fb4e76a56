// Package audioprobe extracts technical and descriptive metadata from audio
// files held in memory.
//
// audioprobe reads MP3 (ID3v2, MPEG frame headers, LAME encoder tags), FLAC
// (STREAMINFO and Vorbis comments), DSDIFF and MP4/M4A (AAC and ALAC) with
// built-in parsers. Other extensions are handed to an external prober
// (ffprobe when it is on PATH) for duration, sample rate and channels only.
//
// # Quick Start
//
//	rec, err := audioprobe.ExtractFile(ctx, "01 Artist - Title.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s - %s (%s)\n", rec.Artist, rec.Title, rec)
//
// # Graceful Degradation
//
// Extraction never fails because of file content. A truncated or corrupted
// file yields a record holding whatever could be read, with defaults for the
// rest and Record.Warnings describing what went wrong:
//
//	rec := audioprobe.Extract("song.mp3", data, uint64(len(data)))
//	for _, w := range rec.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// Only the file loaders (ExtractFile, ExtractFiles) return errors, and only
// for I/O problems.
//
// # Normalization
//
// After the format parser runs, every record goes through the same steps:
//
//  1. Fields still at their defaults are filled from the file name
//     ("A2 Artist - Title", "1-03 Title", ...). Parsed tags are never
//     overwritten.
//  2. A missing bitrate is derived from the file size and length.
//  3. Mode is set from the channel count.
//  4. Quality is set from the format.
//
// Normalizing an already normalized record leaves it unchanged.
package audioprobe
