package audioprobe

import (
	"github.com/simonhull/audioprobe/internal/types"
)

// OutOfBoundsError is returned by buffer reads past the end of the data.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError reports content no parser or prober accepts.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError reports a failed signature or structure check.
type CorruptedFileError = types.CorruptedFileError

// Warning is a non-fatal issue recorded on Record.Warnings.
type Warning = types.Warning
