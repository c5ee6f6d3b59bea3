package gpif

import "github.com/jsphweid/tabdex/taberr"

// xml documents have no byte offsets worth reporting
func malformedf(section, format string, args ...any) error {
	return taberr.Malformedf(section, -1, format, args...)
}
