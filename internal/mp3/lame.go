package mp3

import (
	"fmt"
	"strings"

	"github.com/simonhull/audioprobe/internal/binary"
)

const (
	lameSignature   = "LAME"
	lameBefore      = 100
	lameAfter       = 1000
	lameCapture     = 20
	lameInfoByte    = 27
	lameInfoMinimum = 36

	tagRegionScan    = 2000
	tagRegionCapture = 15
)

// LAMEInfo is the encoder identity found in a LAME tag.
type LAMEInfo struct {
	Version  string // e.g. "LAME3.100"
	Settings string // e.g. "-V2"; empty when unknown
}

// asciiPrefix returns raw up to the first NUL or non-ASCII byte.
func asciiPrefix(raw []byte) string {
	for i, c := range raw {
		if c == 0 || c > 127 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

// SniffLAME searches for a LAME signature from 100 bytes before the first
// frame to 1000 bytes after it.
func SniffLAME(buf *binary.Buffer, frameOffset int64) (LAMEInfo, bool) {
	data := buf.Bytes()
	n := buf.Len()
	start := max(0, frameOffset-lameBefore)
	end := min(n-lameCapture, frameOffset+lameAfter)

	for i := start; i < end; i++ {
		if !buf.Match(i, lameSignature) {
			continue
		}
		version := asciiPrefix(data[i : i+lameCapture])
		if !strings.HasPrefix(version, lameSignature) {
			continue
		}

		info := LAMEInfo{Version: version}
		if i+lameInfoMinimum <= n {
			if enc := data[i+lameInfoByte]; enc != 0 {
				method, quality := enc>>4, enc&0x0F
				if method > 0 && quality < 10 {
					info.Settings = fmt.Sprintf("-V%d", quality)
				}
			}
		}
		return info, true
	}
	return LAMEInfo{}, false
}

// SniffLAMEInTags scans the first 2000 bytes, where an ID3v2 tag would
// live, for a LAME version string longer than the bare signature.
func SniffLAMEInTags(buf *binary.Buffer) (LAMEInfo, bool) {
	data := buf.Bytes()
	n := buf.Len()
	end := min(tagRegionScan, n-10)

	for i := int64(0); i < end; i++ {
		if !buf.Match(i, lameSignature) {
			continue
		}
		version := asciiPrefix(data[i:min(i+tagRegionCapture, n)])
		if len(version) > len(lameSignature) {
			return LAMEInfo{Version: version}, true
		}
	}
	return LAMEInfo{}, false
}
