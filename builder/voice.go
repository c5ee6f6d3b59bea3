package builder

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
)

// restValues are the note values trailing rests are cut from, longest first.
var restValues = []int64{1, 2, 4, 8, 16, 32, 64}

const (
	maxNoteValue = 128
	maxDots      = 2
	maxTuplet    = 128
)

// checkLength rejects written durations no file format can express. It keeps
// the fraction arithmetic in length from overflowing.
func checkLength(i int, d raw.Duration) error {
	if d.Value <= 0 || d.Value > maxNoteValue || d.Value&(d.Value-1) != 0 {
		return taberr.Invariantf("beats", "beat %d has note value %d", i, d.Value)
	}
	if d.Dots < 0 || d.Dots > maxDots {
		return taberr.Invariantf("beats", "beat %d has %d dots", i, d.Dots)
	}
	if d.TupletNum < 0 || d.TupletNum > maxTuplet || d.TupletDen < 0 || d.TupletDen > maxTuplet {
		return taberr.Invariantf("beats", "beat %d has tuplet %d:%d", i, d.TupletNum, d.TupletDen)
	}
	return nil
}

// length returns a written duration as a fraction of a whole note. The
// duration must have passed checkLength.
func length(d raw.Duration) util.Fraction {
	f := util.NewFraction(1, int64(d.Value))
	// each dot adds half of the previous addition
	add := f
	for i := 0; i < d.Dots; i++ {
		add = add.Mul(util.NewFraction(1, 2))
		f = f.Add(add)
	}
	if d.TupletNum > 0 && d.TupletDen > 0 {
		f = f.Mul(util.NewFraction(int64(d.TupletDen), int64(d.TupletNum)))
	}
	return f
}

// voice lays beats out from the bar start. Start and Duration are derived
// from exact boundaries so the durations of a voice always sum to the
// position of its last boundary.
func (b *builder) voice(v *raw.Voice, barLength util.Fraction) (model.Voice, error) {
	var out model.Voice
	var pos util.Fraction
	for i := range v.Beats {
		src := &v.Beats[i]
		if src.Empty {
			continue
		}
		if err := checkLength(i, src.Length); err != nil {
			return out, err
		}
		dur := length(src.Length)
		if src.Grace {
			dur = util.Fraction{}
		}
		end := pos.Add(dur)
		if end.Cmp(barLength) > 0 {
			return out, taberr.Invariantf("beats", "voice runs to %s of a whole note in a %s bar", end, barLength)
		}
		beat := src.Beat
		beat.ID = b.seq.Next()
		beat.Start = b.ticks(pos)
		beat.Duration = b.ticks(end) - beat.Start
		beat.Symbol = src.Length.Value
		beat.Dots = src.Length.Dots
		beat.Tuplet = model.Tuplet{Num: src.Length.TupletNum, Den: src.Length.TupletDen}
		if src.Rest {
			beat.Notes = nil
		} else {
			beat.Notes = append([]model.Note(nil), src.Notes...)
		}
		beat.IsRest = len(beat.Notes) == 0
		if beat.WhammyBarPoints != nil {
			beat.WhammyBarPoints = append([]model.BendPoint(nil), beat.WhammyBarPoints...)
		}
		out.Beats = append(out.Beats, beat)
		pos = end
	}
	if len(out.Beats) == 0 {
		return out, nil
	}
	// fill the rest of an under-full voice
	for _, value := range restValues {
		step := util.NewFraction(1, value)
		for pos.Add(step).Cmp(barLength) <= 0 {
			start := b.ticks(pos)
			pos = pos.Add(step)
			out.Beats = append(out.Beats, b.rest(start, b.ticks(pos)-start, int(value)))
		}
	}
	if pos.Cmp(barLength) < 0 {
		// a tuplet left a gap no plain value fits
		start := b.ticks(pos)
		out.Beats = append(out.Beats, b.rest(start, b.ticks(barLength)-start, 64))
	}
	return out, nil
}

func (b *builder) rest(start, duration, symbol int) model.Beat {
	return model.Beat{
		ID:       b.seq.Next(),
		Start:    start,
		Duration: duration,
		Symbol:   symbol,
		IsRest:   true,
	}
}
