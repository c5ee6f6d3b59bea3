// Package normalize removes format leakage from a built score: one tick
// base, one tuning order, one ending representation and one set of
// technique enumerations.
package normalize

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
)

const (
	DefaultTicksPerBeat = 960
	DefaultTempo        = 120.0
	DefaultTitle        = "(Untitled)"
	DefaultArtist       = "(Unknown Artist)"

	// channel table volume and balance are 0..16
	channelScale  = 8
	defaultVolume = 13 * channelScale
	defaultPan    = 8 * channelScale
	maxMidiValue  = 127
)

type Options struct {
	// TicksPerBeat is the canonical base; zero means DefaultTicksPerBeat.
	TicksPerBeat int
}

type normalizer struct {
	format model.FormatVersion
	// ratio of canonical to native ticks
	scale  util.Fraction
}

// Normalize returns a normalized copy of score. The input is not modified.
func Normalize(score *model.Score, opts Options) (*model.Score, error) {
	if score.Normalized {
		return nil, taberr.Invariantf("normalize", "score is already normalized")
	}
	tpb := opts.TicksPerBeat
	if tpb <= 0 {
		tpb = DefaultTicksPerBeat
	}
	if score.TicksPerBeat <= 0 {
		return nil, taberr.Invariantf("normalize", "score has no tick base")
	}
	n := &normalizer{
		format: score.Format,
		scale:  util.NewFraction(int64(tpb), int64(score.TicksPerBeat)),
	}
	out := *score
	out.Normalized = true
	out.TicksPerBeat = tpb
	out.Notices = append([]string(nil), score.Notices...)
	out.TimeSignatures = append([]model.TimeSignature(nil), score.TimeSignatures...)
	out.KeySignatures = append([]model.KeySignature(nil), score.KeySignatures...)
	out.TempoChanges = append([]model.TempoChange(nil), score.TempoChanges...)
	out.Markers = append([]model.Marker(nil), score.Markers...)
	out.Repeats = append([]model.Repeat(nil), score.Repeats...)
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if out.Artist == "" {
		out.Artist = DefaultArtist
	}
	if out.Tempo <= 0 {
		out.Tempo = DefaultTempo
	}

	out.Tracks = make([]model.Track, len(score.Tracks))
	for i := range score.Tracks {
		t, err := n.track(&score.Tracks[i])
		if err != nil {
			return nil, err
		}
		out.Tracks[i] = t
	}
	return &out, nil
}

func (n *normalizer) rescale(tick int) int {
	return int(util.NewFraction(int64(tick), 1).Mul(n.scale).Round())
}

func channelValue(v, def int) int {
	if v < 0 {
		return def
	}
	return util.Clamp(v*channelScale, 0, maxMidiValue)
}

func (n *normalizer) track(t *model.Track) (model.Track, error) {
	out := *t
	out.Volume = channelValue(t.Volume, defaultVolume)
	out.Pan = channelValue(t.Pan, defaultPan)
	out.Staves = make([]model.Staff, len(t.Staves))
	for i := range t.Staves {
		s, err := n.staff(&t.Staves[i])
		if err != nil {
			return out, err
		}
		out.Staves[i] = s
	}
	return out, nil
}

func (n *normalizer) staff(s *model.Staff) (model.Staff, error) {
	out := *s
	out.Tuning = make([]int, len(s.Tuning))
	copy(out.Tuning, s.Tuning)
	if s.TuningOrder == model.HighToLow {
		for i, j := 0, len(out.Tuning)-1; i < j; i, j = i+1, j-1 {
			out.Tuning[i], out.Tuning[j] = out.Tuning[j], out.Tuning[i]
		}
	}
	out.TuningOrder = model.LowToHigh
	voltas := n.voltas(s.Bars)
	out.Bars = make([]model.Bar, len(s.Bars))
	for i := range s.Bars {
		bar, err := n.bar(s, &out, &s.Bars[i])
		if err != nil {
			return out, err
		}
		bar.Voltas = voltas[i]
		out.Bars[i] = bar
	}
	return out, nil
}

func (n *normalizer) bar(src, staff *model.Staff, b *model.Bar) (model.Bar, error) {
	out := *b
	out.Start = n.rescale(b.Start)
	out.Duration = n.rescale(b.Start+b.Duration) - out.Start
	if b.Marker != nil {
		m := *b.Marker
		out.Marker = &m
	}
	if b.TimeSigOverride != nil {
		ts := *b.TimeSigOverride
		out.TimeSigOverride = &ts
	}
	out.Voices = make([]model.Voice, len(b.Voices))
	for i := range b.Voices {
		beats := b.Voices[i].Beats
		v := model.Voice{Beats: make([]model.Beat, len(beats))}
		for j := range beats {
			beat, err := n.beat(src, staff, b.Start, &beats[j])
			if err != nil {
				return out, err
			}
			beat.Start -= out.Start
			v.Beats[j] = beat
		}
		out.Voices[i] = v
	}
	return out, nil
}

// beat rescales from absolute boundaries; Start is returned absolute and
// made bar relative by the caller.
func (n *normalizer) beat(src, staff *model.Staff, barStart int, b *model.Beat) (model.Beat, error) {
	out := *b
	abs := barStart + b.Start
	out.Start = n.rescale(abs)
	out.Duration = n.rescale(abs+b.Duration) - out.Start
	out.TremoloPicking = tremoloValue(b.Source.Tremolo)
	out.Arpeggio = direction(b.Source.Arpeggio)
	out.BrushDirection = direction(b.Source.Brush)
	out.WhammyBarPoints = n.bendPoints(b.WhammyBarPoints)
	out.Notes = make([]model.Note, len(b.Notes))
	for i := range b.Notes {
		note, err := n.note(src, staff, b, &b.Notes[i])
		if err != nil {
			return out, err
		}
		out.Notes[i] = note
	}
	if len(out.Notes) == 0 {
		out.Notes = nil
	}
	return out, nil
}

// stringLow numbers strings from 1 at the lowest string.
func stringLow(src *model.Staff, code int) (int, bool) {
	count := len(src.Tuning)
	low := code + 1
	if src.TuningOrder == model.HighToLow {
		low = count - code
	}
	return low, low >= 1 && low <= count
}

func (n *normalizer) note(src, staff *model.Staff, b *model.Beat, note *model.Note) (model.Note, error) {
	out := *note
	count := len(staff.Tuning)
	low, ok := stringLow(src, note.Source.String)
	if !ok {
		return out, taberr.Invariantf("notes", "string %d outside a %d string tuning", note.Source.String, count)
	}
	out.StringLow = low
	out.StringHigh = count - low + 1
	if staff.IsPercussion {
		out.Pitch = note.Fret
		if note.Source.MidiPitch > 0 {
			out.Pitch = note.Source.MidiPitch
		}
	} else {
		out.Pitch = staff.Tuning[low-1] + staff.Capo + note.Fret
	}
	out.Pitch = util.Clamp(out.Pitch, 0, maxMidiValue)
	out.Velocity = velocity(note.Source.Dynamic)

	out.HarmonicType, out.HarmonicValue = n.harmonic(note)
	out.SlideInType, out.SlideOutType = n.slide(note.Source.Slide)
	out.VibratoType = vibrato(note.Source.Vibrato)
	if out.VibratoType == model.VibratoNone {
		out.VibratoType = vibrato(b.Source.Vibrato)
	}
	out.GraceType = grace(note.Source.Grace)
	out.BendPoints = n.bendPoints(note.BendPoints)
	out.BendType = n.bendType(note.Source.Bend, out.BendPoints)
	if note.IsTrill {
		out.TrillValue = note.Source.TrillFret
		out.TrillSpeed = trillValue(note.Source.TrillSpeed)
	}
	out.FingeringLeft = finger(note.Source.LeftFinger)
	out.FingeringRight = finger(note.Source.RightFinger)
	return out, nil
}
