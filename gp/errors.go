package gp

import (
	"github.com/jsphweid/tabdex/reader"
	"github.com/jsphweid/tabdex/taberr"
)

func malformed(r *reader.Reader, format string, args ...any) error {
	return taberr.Malformedf(r.SectionName(), r.Offset(), format, args...)
}
