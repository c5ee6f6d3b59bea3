package reader

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/taberr"
)

const binaryMagic = "GUITAR PRO "

var (
	zipMagic  = []byte("PK\x03\x04")
	bcfzMagic = []byte("BCFZ")
	bcfsMagic = []byte("BCFS")
)

// Sniff picks the format from the first bytes of a file.
func Sniff(data []byte) (model.FormatVersion, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return model.GP7, nil
	case bytes.HasPrefix(data, bcfzMagic), bytes.HasPrefix(data, bcfsMagic):
		return model.GPX, nil
	}
	_, version, err := BinaryVersion(data)
	if err != nil {
		return model.FormatUnknown, err
	}
	switch version / 100 {
	case 3:
		return model.GP3, nil
	case 4:
		return model.GP4, nil
	}
	return model.GP5, nil
}

// BinaryVersion parses the 31 byte version block of GP3-GP5 files and
// returns the text and the numeric version (e.g. 510 for v5.10).
func BinaryVersion(data []byte) (string, int, error) {
	if len(data) < 31 {
		return "", 0, taberr.Malformedf("version", 0, "file too short for a signature (%d bytes)", len(data))
	}
	n := int(data[0])
	if n < len(binaryMagic)+5 || n > 30 {
		return "", 0, taberr.Malformedf("version", 0, "bad signature length %d", n)
	}
	text := string(data[1 : 1+n])
	if strings.HasPrefix(text, "CLIPBOARD") {
		return text, 0, taberr.Unsupportedf("version", "clipboard files are not supported")
	}
	idx := strings.Index(text, binaryMagic)
	if !strings.HasPrefix(text, "FICHIER") || idx < 0 {
		return text, 0, taberr.Malformedf("version", 1, "unrecognised signature %q", text)
	}
	// "FICHIER GUITAR PRO v5.10", the v is sometimes an L
	tail := text[idx+len(binaryMagic):]
	if len(tail) < 5 || tail[2] != '.' {
		return text, 0, taberr.Malformedf("version", 1, "unrecognised version %q", text)
	}
	major, err1 := strconv.Atoi(tail[1:2])
	minor, err2 := strconv.Atoi(tail[3:5])
	if err1 != nil || err2 != nil {
		return text, 0, taberr.Malformedf("version", 1, "unrecognised version %q", text)
	}
	if major < 3 || major > 5 {
		return text, 0, taberr.Unsupportedf("version", "guitar pro %d files are not supported", major)
	}
	return text, major*100 + minor, nil
}
