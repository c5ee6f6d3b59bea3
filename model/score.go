package model

// Score is the root of the tree. After normalization TicksPerBeat is the
// canonical base and every tick value in the tree is expressed in it.
type Score struct {
	Format     FormatVersion
	Normalized bool

	Title        string
	Subtitle     string
	Artist       string
	Album        string
	Copyright    string
	MusicBy      string
	WordsBy      string
	Transcriber  string
	Instructions string
	Notices      []string

	Tempo        float64
	TicksPerBeat int

	TimeSignatures []TimeSignature
	KeySignatures  []KeySignature
	TempoChanges   []TempoChange
	Markers        []Marker
	Repeats        []Repeat

	Tracks []Track
}

type TimeSignature struct {
	Numerator   int
	Denominator int
	BarIndex    int
}

type KeySignature struct {
	Key      int
	Type     KeyType
	BarIndex int
}

type TempoChange struct {
	BPM      float64
	BarIndex int
}

type Marker struct {
	Text      string
	ColorARGB uint32
	BarIndex  int
}

type Repeat struct {
	Open     bool
	Close    bool
	Count    int
	BarIndex int
}

type Track struct {
	Name         string
	Program      int
	Channel      int
	IsPercussion bool
	Capo         int
	Transpose    int
	Volume       int
	Pan          int
	Staves       []Staff
}

type Staff struct {
	Tuning       []int
	TuningOrder  TuningOrder
	Capo         int
	Transpose    int
	IsPercussion bool
	Bars         []Bar
}

type Bar struct {
	Index       int
	Start       int
	Duration    int
	RepeatOpen  bool
	RepeatClose bool
	RepeatCount int

	Endings Endings
	Voltas  []int

	BarlineType     BarlineType
	TimeSigOverride *TimeSignature
	Marker          *Marker
	Voices          []Voice
}

// Endings is the alternate-ending value as the file stored it.
type Endings struct {
	Encoding EndingEncoding
	Value    int
}

type Voice struct {
	Beats []Beat
}

type Tuplet struct {
	Num int
	Den int
}

// Beat.Start is relative to the owning bar.
type Beat struct {
	ID       int
	Start    int
	Duration int
	// Symbol is the written note value: 1 whole, 2 half, 4 quarter ... 64.
	Symbol   int
	Dots     int
	Tuplet   Tuplet
	IsRest   bool

	TremoloPicking  int
	FadeIn          bool
	Arpeggio        Direction
	BrushDirection  Direction
	WhammyBarPoints []BendPoint

	Notes []Note

	Source BeatCodes
}

// BeatCodes holds the format specific values the normalizer translates.
type BeatCodes struct {
	Tremolo  int
	Arpeggio int
	Brush    int
	Vibrato  int
}

type Note struct {
	StringLow  int
	StringHigh int
	Fret       int
	Pitch      int
	// Velocity is the MIDI velocity of the note's written dynamic.
	Velocity   int

	IsTieOrigin      bool
	IsTieDestination bool
	IsGhost          bool
	IsDead           bool

	HarmonicType  HarmonicType
	HarmonicValue float64

	IsPalmMute bool
	IsLetRing  bool
	IsStaccato bool

	IsHammerPullOrigin      bool
	IsHammerPullDestination bool
	IsSlurOrigin            bool
	IsSlurDestination       bool

	SlideInType  SlideInType
	SlideOutType SlideOutType

	BendType   BendType
	BendPoints []BendPoint

	VibratoType VibratoType

	IsTrill    bool
	TrillValue int
	TrillSpeed int

	IsTapped  bool
	IsSlapped bool
	IsPopped  bool

	FingeringLeft  Finger
	FingeringRight Finger

	GraceType GraceType

	Source NoteCodes
}

// NoteCodes holds the format specific values the normalizer translates.
// String is the raw string position: 0 based from the highest string in
// binary files, from the lowest string in GPIF documents.
type NoteCodes struct {
	String       int
	Slide        int
	Harmonic     int
	HarmonicFret float64
	Vibrato      int
	Bend         int
	Grace        int
	TrillFret    int
	TrillSpeed   int
	LeftFinger   int
	RightFinger  int
	MidiPitch    int
	Dynamic      int
}

// BendPoint offsets are fractions of the note duration and values are
// quarter tones once normalized.
type BendPoint struct {
	Offset float64
	Value  float64
}
