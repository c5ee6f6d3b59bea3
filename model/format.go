package model

// FormatVersion tags the container a score was decoded from. Downstream
// decoding branches on it; the normalized model does not.
type FormatVersion int

const (
	FormatUnknown FormatVersion = iota
	GP3
	GP4
	GP5
	GPX
	GP7
)

func (f FormatVersion) String() string {
	switch f {
	case GP3:
		return "gp3"
	case GP4:
		return "gp4"
	case GP5:
		return "gp5"
	case GPX:
		return "gpx"
	case GP7:
		return "gp7"
	}
	return "unknown"
}

// NativeTicksPerBeat is the tick base the builder lays beats out on before
// normalization. It is not comparable across formats.
func (f FormatVersion) NativeTicksPerBeat() int {
	switch f {
	case GPX, GP7:
		return 960
	}
	return 480
}

// IsXML reports whether the format carries a GPIF document instead of a
// binary section stream.
func (f FormatVersion) IsXML() bool {
	return f == GPX || f == GP7
}
