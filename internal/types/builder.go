package types

// Field names a record field guarded by a first-write-wins rule.
type Field uint8

const (
	// FieldLength is claimed by the first mdhd box seen.
	FieldLength Field = iota
	// FieldSampleRate is claimed by the first sample description seen.
	FieldSampleRate
	// FieldEncoder is claimed when an encoder string read from the audio
	// stream is applied. Tag values no longer replace it afterwards.
	FieldEncoder
)

// Builder accumulates a Record while a parser walks a file.
//
// It is not safe for concurrent use. Parsers receive it by pointer and
// append warnings instead of returning errors.
type Builder struct {
	Record Record
	claims map[Field]bool
}

// NewBuilder starts a builder from the defaults for filename.
func NewBuilder(filename string, size uint64) *Builder {
	return &Builder{
		Record: NewRecord(filename, size),
		claims: make(map[Field]bool),
	}
}

// Once claims f. It returns true the first time f is claimed and false after.
func (b *Builder) Once(f Field) bool {
	if b.claims[f] {
		return false
	}
	b.claims[f] = true
	return true
}

// Claimed reports whether f has already been claimed.
func (b *Builder) Claimed(f Field) bool {
	return b.claims[f]
}

// Warn records a non-fatal problem.
func (b *Builder) Warn(stage, message string, offset int64) {
	b.Record.Warnings = append(b.Record.Warnings, Warning{
		Stage:   stage,
		Message: message,
		Offset:  offset,
	})
}

// WarnErr records err as a warning.
func (b *Builder) WarnErr(stage string, err error, offset int64) {
	if err == nil {
		return
	}
	b.Warn(stage, err.Error(), offset)
}

// Build returns the accumulated record.
func (b *Builder) Build() Record {
	return b.Record
}
