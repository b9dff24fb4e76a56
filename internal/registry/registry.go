// Package registry maps file extensions to format parsers.
package registry

import (
	"slices"
	"strings"
	"sync"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse reads buf and fills b. Problems are reported as warnings on b;
	// a parser never fails outright.
	Parse(buf *binary.Buffer, b *types.Builder)
}

// FormatParserFunc adapts a function to FormatParser.
type FormatParserFunc func(buf *binary.Buffer, b *types.Builder)

// Parse calls f(buf, b).
func (f FormatParserFunc) Parse(buf *binary.Buffer, b *types.Builder) {
	f(buf, b)
}

var (
	mu      sync.RWMutex
	parsers = make(map[string]FormatParser)
)

// Register registers a parser for one or more extensions (without the dot).
// This is called by format packages during initialization (init functions).
func Register(parser FormatParser, extensions ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, ext := range extensions {
		parsers[strings.ToLower(ext)] = parser
	}
}

// Get returns the parser for an extension, or nil if none is registered.
func Get(ext string) FormatParser {
	mu.RLock()
	defer mu.RUnlock()
	return parsers[strings.ToLower(ext)]
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
