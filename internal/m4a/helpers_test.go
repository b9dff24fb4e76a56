package m4a

import (
	"bytes"
	"encoding/binary"
)

// createMockAtom creates a test atom with given type and data.
func createMockAtom(atomType string, data []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(8+len(data)))
	buf.WriteString(atomType)
	buf.Write(data)
	return buf.Bytes()
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// createMdhdAtom builds an mdhd atom in either version.
func createMdhdAtom(version byte, timescale uint32, duration uint64) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{version, 0, 0, 0})
	if version == 1 {
		buf.Write(make([]byte, 16)) // creation + modification
		binary.Write(buf, binary.BigEndian, timescale)
		binary.Write(buf, binary.BigEndian, duration)
	} else {
		buf.Write(make([]byte, 8))
		binary.Write(buf, binary.BigEndian, timescale)
		binary.Write(buf, binary.BigEndian, uint32(duration))
	}
	buf.Write(make([]byte, 4)) // language + quality
	return createMockAtom("mdhd", buf.Bytes())
}

// soundEntry builds an audio sample entry with the given nested boxes.
func soundEntry(format string, channels, sampleSize uint16, sampleRate uint32, children ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 6))                          // reserved
	binary.Write(buf, binary.BigEndian, uint16(1))      // data reference index
	buf.Write(make([]byte, 8))                          // version, revision, vendor
	binary.Write(buf, binary.BigEndian, channels)       // channels
	binary.Write(buf, binary.BigEndian, sampleSize)     // sample size
	buf.Write(make([]byte, 4))                          // compression ID, packet size
	binary.Write(buf, binary.BigEndian, sampleRate<<16) // 16.16 fixed point
	buf.Write(concat(children...))
	return createMockAtom(format, buf.Bytes())
}

// createALACCookie builds the nested alac configuration box.
func createALACCookie(bits, channels uint8, sampleRate uint32) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0, 0, 0, 0})                     // version + flags
	binary.Write(buf, binary.BigEndian, uint32(4096)) // frame length
	buf.Write([]byte{0, bits, 40, 10, 14, channels})
	binary.Write(buf, binary.BigEndian, uint16(255)) // max run
	binary.Write(buf, binary.BigEndian, uint32(0))   // max frame bytes
	binary.Write(buf, binary.BigEndian, uint32(0))   // avg bitrate
	binary.Write(buf, binary.BigEndian, sampleRate)
	return createMockAtom("alac", buf.Bytes())
}

// createESDS builds an esds box carrying the given bitrates.
func createESDS(maxBitrate, avgBitrate uint32) []byte {
	dc := &bytes.Buffer{}
	dc.Write([]byte{0x40, 0x15, 0, 0, 0})
	binary.Write(dc, binary.BigEndian, maxBitrate)
	binary.Write(dc, binary.BigEndian, avgBitrate)
	dc.Write([]byte{0x05, 0x02, 0x12, 0x10}) // AudioSpecificConfig

	es := &bytes.Buffer{}
	es.Write([]byte{0, 1, 0}) // ES_ID + flags
	es.Write([]byte{tagDecoderConfig, byte(dc.Len())})
	es.Write(dc.Bytes())
	es.Write([]byte{0x06, 0x01, 0x02}) // SLConfig

	buf := &bytes.Buffer{}
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write([]byte{tagESDescriptor, byte(es.Len())})
	buf.Write(es.Bytes())
	return createMockAtom("esds", buf.Bytes())
}

// createStsdAtom wraps sample entries in an stsd atom.
func createStsdAtom(entries ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0, 0, 0, 0})
	binary.Write(buf, binary.BigEndian, uint32(len(entries)))
	buf.Write(concat(entries...))
	return createMockAtom("stsd", buf.Bytes())
}

// createDataAtom builds a data atom with the given payload.
func createDataAtom(payload []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(1)) // type: UTF-8
	buf.Write(make([]byte, 4))                     // locale
	buf.Write(payload)
	return createMockAtom("data", buf.Bytes())
}

// createMetadataItem builds an ilst item holding a text value.
func createMetadataItem(itemType []byte, value string) []byte {
	return createMockAtom(string(itemType), createDataAtom([]byte(value)))
}

// createNumberItem builds a trkn or disk item.
func createNumberItem(itemType string, number, total uint16) []byte {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint16(payload[2:], number)
	binary.BigEndian.PutUint16(payload[4:], total)
	return createMockAtom(itemType, createDataAtom(payload))
}

// createIlstTree wraps ilst items in udta/meta/ilst.
func createIlstTree(items ...[]byte) []byte {
	ilst := createMockAtom("ilst", concat(items...))
	meta := createMockAtom("meta", concat([]byte{0, 0, 0, 0}, ilst))
	return createMockAtom("udta", meta)
}

// createTrack builds moov/trak/mdia with an mdhd and the given sample entries.
func createTrack(mdhd []byte, entries ...[]byte) []byte {
	stbl := createMockAtom("stbl", createStsdAtom(entries...))
	minf := createMockAtom("minf", stbl)
	mdia := createMockAtom("mdia", concat(mdhd, minf))
	return createMockAtom("trak", mdia)
}

// createM4A builds a complete file: ftyp, moov(trak, udta) and an mdat.
func createM4A(track []byte, udta []byte) []byte {
	ftyp := createMockAtom("ftyp", []byte("M4A \x00\x00\x00\x00M4A mp42"))
	moov := createMockAtom("moov", concat(track, udta))
	mdat := createMockAtom("mdat", make([]byte, 64))
	return concat(ftyp, moov, mdat)
}
