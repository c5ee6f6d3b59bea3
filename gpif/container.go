package gpif

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/jsphweid/tabdex/reader"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
)

const (
	scoreFile  = "score.gpif"
	sectorSize = 0x1000
	// entries point at their data sectors with a zero terminated int list
	sectorPointers = 0x94
	fileEntry      = 2
	// a GPIF document is text; anything past this is not a real score
	maxDocument = 64 << 20
	// first allocation per compressed byte; append grows past it
	expansionGuess = 16
)

// Extract returns the score.gpif document held by a GP7 zip, a compressed
// BCFZ or a plain BCFS container.
func Extract(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte("PK")):
		return extractZip(data)
	case bytes.HasPrefix(data, []byte("BCFZ")):
		fs, err := decompress(data[4:])
		if err != nil {
			return nil, err
		}
		return extractBCFS(fs)
	case bytes.HasPrefix(data, []byte("BCFS")):
		return extractBCFS(data[4:])
	}
	return nil, taberr.Malformedf("container", 0, "not a gpx or gp7 container")
}

func extractZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, taberr.Wrap(err, taberr.Malformed, "container", "bad zip archive")
	}
	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, "Content/"+scoreFile) {
			continue
		}
		if f.UncompressedSize64 > maxDocument {
			return nil, taberr.Newf(taberr.TooLarge, "container", -1, "%s declares %d bytes", f.Name, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, taberr.Wrap(err, taberr.Malformed, "container", "opening "+f.Name)
		}
		defer rc.Close()
		doc, err := io.ReadAll(io.LimitReader(rc, maxDocument))
		if err != nil {
			return nil, taberr.Wrap(err, taberr.Malformed, "container", "reading "+f.Name)
		}
		return doc, nil
	}
	return nil, taberr.Malformedf("container", -1, "zip has no Content/%s", scoreFile)
}

// decompress inflates a BCFZ stream: a little endian expected length then
// a bit stream of literal runs and back references.
// outputCapacity sizes the first allocation by the compressed input, not by
// the length the header claims.
func outputCapacity(expected, compressed int) int {
	return util.Min(expected, expansionGuess*compressed)
}

func decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, taberr.Malformedf("bcfz", 4, "missing expected length")
	}
	expected := int(int32(binary.LittleEndian.Uint32(data)))
	if expected < 0 || expected > maxDocument {
		return nil, taberr.Malformedf("bcfz", 4, "expected length %d out of range", expected)
	}
	br := reader.NewBitReader(data[4:])
	out := make([]byte, 0, outputCapacity(expected, len(data)))
	for len(out) < expected {
		flag, err := br.ReadBits(1)
		if err != nil {
			return nil, err
		}
		if flag == 1 {
			wordSize, err := br.ReadBits(4)
			if err != nil {
				return nil, err
			}
			offset, err := br.ReadBitsReversed(wordSize)
			if err != nil {
				return nil, err
			}
			size, err := br.ReadBitsReversed(wordSize)
			if err != nil {
				return nil, err
			}
			src := len(out) - offset
			if offset == 0 || src < 0 {
				return nil, taberr.Malformedf("bcfz", -1, "back reference %d before start of output", offset)
			}
			n := size
			if offset < n {
				n = offset
			}
			out = append(out, out[src : src+n]...)
			continue
		}
		size, err := br.ReadBitsReversed(2)
		if err != nil {
			return nil, err
		}
		for i := 0; i < size; i++ {
			b, err := br.ReadByte()
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
	}
	// the stream may overshoot on its last chunk
	if len(out) > expected {
		out = out[:expected]
	}
	if !bytes.HasPrefix(out, []byte("BCFS")) {
		return nil, taberr.Malformedf("bcfz", -1, "inflated data is not a bcfs file system")
	}
	return out[4:], nil
}

// extractBCFS walks the sector table of a BCFS file system, data given
// without its magic.
func extractBCFS(data []byte) ([]byte, error) {
	le := binary.LittleEndian
	for offset := sectorSize; offset+sectorSize <= len(data); offset += sectorSize {
		if le.Uint32(data[offset:]) != fileEntry {
			continue
		}
		name := data[offset+4 : offset+4+127]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		size := int(le.Uint32(data[offset+0x8C:]))
		if !strings.EqualFold(string(name), scoreFile) {
			continue
		}
		if size > maxDocument {
			return nil, taberr.Newf(taberr.TooLarge, "bcfs", offset, "%s declares %d bytes", scoreFile, size)
		}
		doc := make([]byte, 0, size)
		for p := offset + sectorPointers; p+4 <= offset+sectorSize; p += 4 {
			sector := int(le.Uint32(data[p:]))
			if sector == 0 {
				break
			}
			start := sector * sectorSize
			if start+sectorSize > len(data) {
				return nil, taberr.Malformedf("bcfs", p, "sector %d past end of file system", sector)
			}
			doc = append(doc, data[start : start+sectorSize]...)
		}
		if len(doc) < size {
			return nil, taberr.Malformedf("bcfs", offset, "%s holds %d of %d bytes", scoreFile, len(doc), size)
		}
		return doc[:size], nil
	}
	return nil, taberr.Malformedf("bcfs", -1, "no %s entry", scoreFile)
}
