package model

type KeyType int

const (
	Major KeyType = 0
	Minor KeyType = 1
)

type BarlineType int

const (
	BarlineSingle BarlineType = iota
	BarlineDouble
	BarlineRepeatOpen
	BarlineRepeatClose
	BarlineRepeatOpenClose
)

// EndingEncoding says how Endings.Value must be read.
type EndingEncoding int

const (
	EndingNone EndingEncoding = iota
	// EndingRange is the GP3/GP4 form: play on passes 1..Value that no
	// earlier bar of the same repeat group already claimed.
	EndingRange
	// EndingBitflags is the GP5/GPX/GP7 form: bit i set means ending i+1.
	EndingBitflags
)

type TuningOrder int

const (
	LowToHigh TuningOrder = iota
	HighToLow
)

type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

type VibratoType int

const (
	VibratoNone VibratoType = iota
	VibratoSlight
	VibratoWide
)

type HarmonicType int

const (
	HarmonicNone HarmonicType = iota
	HarmonicNatural
	HarmonicArtificial
	HarmonicPinch
	HarmonicTap
	HarmonicSemi
	HarmonicFeedback
)

type SlideInType int

const (
	SlideInNone SlideInType = iota
	SlideInFromBelow
	SlideInFromAbove
)

type SlideOutType int

const (
	SlideOutNone SlideOutType = iota
	SlideOutShift
	SlideOutLegato
	SlideOutDown
	SlideOutUp
)

type GraceType int

const (
	GraceNone GraceType = iota
	GraceBeforeBeat
	GraceOnBeat
)

type BendType int

const (
	BendNone BendType = iota
	BendBend
	BendRelease
	BendReleaseBend
	BendPrebend
	BendPrebendRelease
	BendPrebendBend
	BendReleaseOnly
	BendHold
)

// Finger follows the usual tab fingering numbering; Unknown means the file
// carried no fingering at all.
type Finger int

const (
	FingerUnknown Finger = -2
	FingerNone    Finger = -1
	FingerThumb   Finger = 0
	FingerIndex   Finger = 1
	FingerMiddle  Finger = 2
	FingerAnnular Finger = 3
	FingerLittle  Finger = 4
)
