package types

// Tags holds descriptive fields read from an embedded tag (ID3v2, Vorbis
// comments). Empty strings and zero integers mean the field was absent.
type Tags struct {
	Artist         string
	Album          string
	AlbumArtist    string
	Title          string
	Genre          string
	Year           int
	TrackNumber    int
	DiscNumber     int
	WritingLibrary string
}

// ApplyTags copies the fields present in t onto the record.
func (b *Builder) ApplyTags(t Tags) {
	r := &b.Record
	if t.Artist != "" {
		r.Artist = t.Artist
	}
	if t.Album != "" {
		r.Album = t.Album
	}
	if t.AlbumArtist != "" {
		r.AlbumArtist = t.AlbumArtist
	}
	if t.Title != "" {
		r.Title = t.Title
	}
	if t.Genre != "" {
		r.Genre = t.Genre
	}
	if t.Year > 0 {
		r.Year = t.Year
	}
	if t.TrackNumber > 0 {
		r.TrackNumber = t.TrackNumber
	}
	if t.DiscNumber > 0 {
		r.DiscNumber = t.DiscNumber
	}
	if t.WritingLibrary != "" && !b.Claimed(FieldEncoder) {
		r.WritingLibrary = t.WritingLibrary
	}
}
