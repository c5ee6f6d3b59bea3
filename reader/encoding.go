package reader

import (
	"strings"

	"github.com/jsphweid/tabdex/taberr"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// LookupEncoding resolves a WHATWG label ("windows-1252", "latin1",
// "shift_jis") to an encoding for legacy binary strings.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return charmap.Windows1252, nil
	}
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return nil, taberr.Unsupportedf("encoding", "unknown string encoding %q", label)
	}
	return enc, nil
}
