package raw

import "github.com/jsphweid/tabdex/model"

// StandardTuning is the default six string tuning, low to high.
var StandardTuning = []int{40, 45, 50, 55, 59, 64}

// DefaultTuning returns the standard tuning laid out in the given order.
func DefaultTuning(order model.TuningOrder) []int {
	res := make([]int, len(StandardTuning))
	copy(res, StandardTuning)
	if order == model.HighToLow {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// GP4 stores slides as one signed code.
const (
	GP4SlideShift     = 1
	GP4SlideLegato    = 2
	GP4SlideOutDown   = 3
	GP4SlideOutUp     = 4
	GP4SlideInBelow   = -1
	GP4SlideInAbove   = -2
	GP3SlideShiftFlag = 1
)

// GP5 and GPIF store slides as a bit set.
const (
	SlideFlagShift   = 0x01
	SlideFlagLegato  = 0x02
	SlideFlagOutDown = 0x04
	SlideFlagOutUp   = 0x08
	SlideFlagInBelow = 0x10
	SlideFlagInAbove = 0x20
)

// Harmonic codes. GP3 only knows natural/artificial beats, GP4 folds the
// artificial octave into the code, GP5 and GPIF use the 1..6 table.
const (
	HarmonicNatural    = 1
	HarmonicArtificial = 2
	HarmonicTap        = 3
	HarmonicPinch      = 4
	HarmonicSemi       = 5
	HarmonicFeedback   = 6

	GP4HarmonicArtificial5  = 15
	GP4HarmonicArtificial7  = 17
	GP4HarmonicArtificial12 = 22
)

const (
	VibratoSlight = 1
	VibratoWide   = 2
)

// Binary bend and whammy types, in file order.
const (
	BendNone = iota
	BendBend
	BendBendRelease
	BendBendReleaseBend
	BendPrebend
	BendPrebendRelease
	BendDip
	BendDive
	BendReleaseUp
	BendInvertedDip
	BendReturn
	BendReleaseDown
)

// Binary bend points: offsets 0..60, values in 1/25 of a quarter tone step.
// GPIF points: offsets 0..100, same value scale.
const (
	BinaryBendPosition = 60
	GPIFBendPosition   = 100
	BendValueStep      = 25
)

const (
	GraceBefore = 1
	GraceOnBeat = 2
)

// Speeds shared by tremolo picking (8th/16th/32nd) and trills (16th/32nd/64th).
const (
	Speed1 = 1
	Speed2 = 2
	Speed3 = 3
)

const (
	DirectionUp   = 1
	DirectionDown = 2
)

// Dynamics run from 1 (ppp) to 8 (fff) in every format. A note without a
// dynamic plays forte.
const (
	DynamicPPP   = 1
	DynamicForte = 6
	DynamicFFF   = 8
)

// FingerAbsent marks a note whose file carried no fingering block.
const FingerAbsent = -2

// IsLegatoSlide reports whether a raw slide code slurs into the next note.
func IsLegatoSlide(format model.FormatVersion, code int) bool {
	switch format {
	case model.GP3:
		return false
	case model.GP4:
		return code == GP4SlideLegato
	}
	return code&SlideFlagLegato != 0
}
