package normalize

import (
	"math"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
)

// note values played per speed step
var (
	tremoloValues = map[int]int{raw.Speed1: 8, raw.Speed2: 16, raw.Speed3: 32}
	trillValues   = map[int]int{raw.Speed1: 16, raw.Speed2: 32, raw.Speed3: 64}
)

// harmonicValues maps a fret distance to the sounding harmonic node.
var harmonicValues = map[int]float64{
	2:  2.4,
	3:  3.2,
	4:  4,
	5:  5,
	7:  7,
	8:  8.2,
	9:  9,
	10: 9.6,
	12: 12,
	14: 14.7,
	15: 14.7,
	16: 16,
	17: 17,
	19: 19,
	24: 24,
}

const octaveHarmonic = 12

func harmonicNode(fret int) float64 {
	if v, ok := harmonicValues[fret]; ok {
		return v
	}
	return octaveHarmonic
}

const (
	minVelocity  = 15
	velocityStep = 16
)

// velocity maps a dynamic to 15, 31 ... 127, ppp to fff.
func velocity(dynamic int) int {
	if dynamic < raw.DynamicPPP || dynamic > raw.DynamicFFF {
		dynamic = raw.DynamicForte
	}
	return minVelocity + (dynamic-raw.DynamicPPP)*velocityStep
}

func tremoloValue(code int) int {
	return tremoloValues[code]
}

func trillValue(code int) int {
	if v, ok := trillValues[code]; ok {
		return v
	}
	return trillValues[raw.Speed1]
}

func direction(code int) model.Direction {
	switch code {
	case raw.DirectionUp:
		return model.DirectionUp
	case raw.DirectionDown:
		return model.DirectionDown
	}
	return model.DirectionNone
}

func vibrato(code int) model.VibratoType {
	switch code {
	case raw.VibratoSlight:
		return model.VibratoSlight
	case raw.VibratoWide:
		return model.VibratoWide
	}
	return model.VibratoNone
}

func grace(code int) model.GraceType {
	switch code {
	case raw.GraceBefore:
		return model.GraceBeforeBeat
	case raw.GraceOnBeat:
		return model.GraceOnBeat
	}
	return model.GraceNone
}

func finger(code int) model.Finger {
	if code < int(model.FingerNone) || code > int(model.FingerLittle) {
		return model.FingerUnknown
	}
	return model.Finger(code)
}

func (n *normalizer) harmonic(note *model.Note) (model.HarmonicType, float64) {
	code := note.Source.Harmonic
	if code == 0 {
		return model.HarmonicNone, 0
	}
	// GPIF documents carry the node fret for every kind
	if n.format.IsXML() {
		kind := harmonicKind(code)
		if note.Source.HarmonicFret > 0 {
			return kind, note.Source.HarmonicFret
		}
		return kind, harmonicNode(note.Fret)
	}
	if n.format == model.GP4 {
		switch code {
		case raw.GP4HarmonicArtificial5:
			return model.HarmonicArtificial, harmonicNode(5)
		case raw.GP4HarmonicArtificial7:
			return model.HarmonicArtificial, harmonicNode(7)
		case raw.GP4HarmonicArtificial12:
			return model.HarmonicArtificial, harmonicNode(12)
		}
	}
	kind := harmonicKind(code)
	switch kind {
	case model.HarmonicNatural:
		return kind, harmonicNode(note.Fret)
	case model.HarmonicTap:
		if note.Source.HarmonicFret > 0 {
			return kind, harmonicNode(int(note.Source.HarmonicFret))
		}
	case model.HarmonicNone:
		return kind, 0
	}
	return kind, octaveHarmonic
}

func harmonicKind(code int) model.HarmonicType {
	switch code {
	case raw.HarmonicNatural:
		return model.HarmonicNatural
	case raw.HarmonicArtificial:
		return model.HarmonicArtificial
	case raw.HarmonicTap:
		return model.HarmonicTap
	case raw.HarmonicPinch:
		return model.HarmonicPinch
	case raw.HarmonicSemi:
		return model.HarmonicSemi
	case raw.HarmonicFeedback:
		return model.HarmonicFeedback
	}
	return model.HarmonicNone
}

func (n *normalizer) slide(code int) (model.SlideInType, model.SlideOutType) {
	if code == 0 {
		return model.SlideInNone, model.SlideOutNone
	}
	switch n.format {
	case model.GP3:
		return model.SlideInNone, model.SlideOutShift
	case model.GP4:
		switch code {
		case raw.GP4SlideShift:
			return model.SlideInNone, model.SlideOutShift
		case raw.GP4SlideLegato:
			return model.SlideInNone, model.SlideOutLegato
		case raw.GP4SlideOutDown:
			return model.SlideInNone, model.SlideOutDown
		case raw.GP4SlideOutUp:
			return model.SlideInNone, model.SlideOutUp
		case raw.GP4SlideInBelow:
			return model.SlideInFromBelow, model.SlideOutNone
		case raw.GP4SlideInAbove:
			return model.SlideInFromAbove, model.SlideOutNone
		}
		return model.SlideInNone, model.SlideOutNone
	}
	in := model.SlideInNone
	switch {
	case code&raw.SlideFlagInBelow != 0:
		in = model.SlideInFromBelow
	case code&raw.SlideFlagInAbove != 0:
		in = model.SlideInFromAbove
	}
	out := model.SlideOutNone
	switch {
	case code&raw.SlideFlagShift != 0:
		out = model.SlideOutShift
	case code&raw.SlideFlagLegato != 0:
		out = model.SlideOutLegato
	case code&raw.SlideFlagOutDown != 0:
		out = model.SlideOutDown
	case code&raw.SlideFlagOutUp != 0:
		out = model.SlideOutUp
	}
	return in, out
}

// bendPoints scales offsets to 0..1 of the note and values to quarter tones.
func (n *normalizer) bendPoints(points []model.BendPoint) []model.BendPoint {
	if len(points) == 0 {
		return nil
	}
	position := float64(raw.BinaryBendPosition)
	if n.format.IsXML() {
		position = raw.GPIFBendPosition
	}
	out := make([]model.BendPoint, len(points))
	for i, p := range points {
		out[i] = model.BendPoint{
			Offset: p.Offset / position,
			Value:  p.Value / raw.BendValueStep,
		}
	}
	return out
}

func (n *normalizer) bendType(code int, points []model.BendPoint) model.BendType {
	if len(points) == 0 {
		return model.BendNone
	}
	switch code {
	case raw.BendBend:
		return model.BendBend
	case raw.BendBendRelease:
		return model.BendRelease
	case raw.BendBendReleaseBend:
		return model.BendReleaseBend
	case raw.BendPrebend:
		return model.BendPrebend
	case raw.BendPrebendRelease:
		return model.BendPrebendRelease
	case raw.BendReleaseUp, raw.BendReturn, raw.BendReleaseDown:
		return model.BendReleaseOnly
	}
	return bendShape(points)
}

// bendShape classifies a curve from its first, highest and last values.
func bendShape(points []model.BendPoint) model.BendType {
	first := points[0].Value
	last := points[len(points)-1].Value
	peak := first
	for _, p := range points {
		peak = math.Max(peak, p.Value)
	}
	switch {
	case peak == 0:
		return model.BendNone
	case first == 0 && last < peak:
		return model.BendRelease
	case first == 0:
		return model.BendBend
	case last > first:
		return model.BendPrebendBend
	case last < first:
		return model.BendPrebendRelease
	case peak > first:
		return model.BendReleaseBend
	}
	return model.BendPrebend
}
