// Package raw holds the values section decoders hand to the score builder:
// everything the file said, in the file's own order and encodings.
package raw

import "github.com/jsphweid/tabdex/model"

type Song struct {
	Format  model.FormatVersion
	// Version is the numeric binary version (300, 400, 406, 500, 510) or the
	// GPIF generation (6, 7).
	Version int

	Title        string
	Subtitle     string
	Artist       string
	Album        string
	Words        string
	Music        string
	Copyright    string
	Tab          string
	Instructions string
	Notices      []string

	// Tempo is zero when the file declared none.
	Tempo float64
	Key   int

	MasterBars   []MasterBar
	Tracks       []Track
	TempoChanges []model.TempoChange
}

type MasterBar struct {
	Numerator   int
	Denominator int
	Key         int
	KeyType     model.KeyType
	RepeatOpen  bool
	// RepeatCount is the number of passes; zero means no closing repeat.
	RepeatCount int
	Endings     model.Endings
	DoubleBar   bool
	Marker      *model.Marker
}

type Track struct {
	Name         string
	Program      int
	Channel      int
	IsPercussion bool
	// Volume and Pan use the 0..16 channel-table scale; -1 means unset.
	Volume       int
	Pan          int
	Transpose    int
	Staves       []Staff
}

type Staff struct {
	Tuning       []int
	TuningOrder  model.TuningOrder
	Capo         int
	Transpose    int
	IsPercussion bool
	// Bars may be shorter than the master-bar table; the builder pads.
	Bars         []Bar
}

type Bar struct {
	Voices []Voice
}

type Voice struct {
	Beats []Beat
}

type Duration struct {
	// Value is the written note value: 1, 2, 4, 8, 16, 32 or 64.
	Value     int
	Dots      int
	TupletNum int
	TupletDen int
}

// Beat embeds the model beat for flags and source codes; Start, Duration,
// ID and Symbol are computed by the builder.
type Beat struct {
	model.Beat
	Length Duration
	// Empty beats are placeholders that take no time.
	Empty  bool
	Rest   bool
	// Grace beats are played ahead of the next beat and take no bar time.
	Grace  bool
	Text   string
}
