package gp

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/pkg/errors"
)

var tuplets = map[int][2]int{
	3:  {3, 2},
	5:  {5, 4},
	6:  {6, 4},
	7:  {7, 4},
	9:  {9, 8},
	10: {10, 8},
	11: {11, 8},
	12: {12, 8},
	13: {13, 8},
}

func (d *decoder) voiceCount() int {
	if d.version >= 500 {
		return 2
	}
	return 1
}

// readBars reads the bar data, master bar major and track minor.
func (d *decoder) readBars() error {
	r := d.r
	r.Section("bars")
	for i := 0; i < d.barCount; i++ {
		if err := d.canceled(); err != nil {
			return err
		}
		d.currentBar = i
		for t := range d.song.Tracks {
			track := &d.song.Tracks[t]
			bar, err := d.readBar(&track.Staves[0])
			if err != nil {
				return errors.Wrapf(err, "bar %d track %d", i, t)
			}
			track.Staves[0].Bars = append(track.Staves[0].Bars, bar)
		}
	}
	return nil
}

func (d *decoder) readBar(staff *raw.Staff) (raw.Bar, error) {
	r := d.r
	var bar raw.Bar
	for v := 0; v < d.voiceCount(); v++ {
		count, err := r.Int32()
		if err != nil {
			return bar, err
		}
		// every beat takes at least 3 bytes
		if count < 0 || count*3 > r.Remaining() {
			return bar, malformed(r, "beat count %d out of range", count)
		}
		var voice raw.Voice
		for b := 0; b < count; b++ {
			beat, err := d.readBeat(staff)
			if err != nil {
				return bar, errors.Wrapf(err, "voice %d beat %d", v, b)
			}
			voice.Beats = append(voice.Beats, beat)
		}
		bar.Voices = append(bar.Voices, voice)
	}
	if d.version >= 500 {
		// line break
		if err := r.Skip(1); err != nil {
			return bar, err
		}
	}
	return bar, nil
}

func (d *decoder) readBeat(staff *raw.Staff) (raw.Beat, error) {
	r := d.r
	var beat raw.Beat
	flags, err := r.Byte()
	if err != nil {
		return beat, err
	}
	if flags&0x40 != 0 {
		status, err := r.Byte()
		if err != nil {
			return beat, err
		}
		beat.Empty = status == 0x00
		beat.Rest = status == 0x02
	}
	if beat.Length, err = d.readDuration(flags); err != nil {
		return beat, err
	}
	if flags&0x02 != 0 {
		if err := d.skipChord(); err != nil {
			return beat, err
		}
	}
	if flags&0x04 != 0 {
		if beat.Text, err = r.IntByteSizeString(); err != nil {
			return beat, err
		}
	}
	var fx beatEffects
	if flags&0x08 != 0 {
		if fx, err = d.readBeatEffects(&beat); err != nil {
			return beat, err
		}
	}
	if flags&0x10 != 0 {
		if err := d.readMixTableChange(); err != nil {
			return beat, err
		}
	}
	if err := d.readNotes(staff, &beat); err != nil {
		return beat, err
	}
	fx.apply(&beat)
	if d.version >= 500 {
		flags2, err := r.Int16()
		if err != nil {
			return beat, err
		}
		if flags2&0x0800 != 0 {
			// secondary beam break
			if err := r.Skip(1); err != nil {
				return beat, err
			}
		}
	}
	return beat, nil
}

func (d *decoder) readDuration(flags byte) (raw.Duration, error) {
	r := d.r
	var dur raw.Duration
	v, err := r.SByte()
	if err != nil {
		return dur, err
	}
	if v < -2 || v > 4 {
		return dur, malformed(r, "duration code %d out of range", v)
	}
	dur.Value = 1 << (v + 2)
	if flags&0x01 != 0 {
		dur.Dots = 1
	}
	if flags&0x20 != 0 {
		n, err := r.Int32()
		if err != nil {
			return dur, err
		}
		ratio, ok := tuplets[n]
		if !ok {
			return dur, malformed(r, "tuplet %d not supported", n)
		}
		dur.TupletNum, dur.TupletDen = ratio[0], ratio[1]
	}
	return dur, nil
}

// beatEffects carries beat level effects GP stores once per beat but the
// model keeps per note.
type beatEffects struct {
	harmonic int
	tapped   bool
	slapped  bool
	popped   bool
}

func (fx beatEffects) apply(beat *raw.Beat) {
	for i := range beat.Notes {
		n := &beat.Notes[i]
		if fx.harmonic != 0 && n.Source.Harmonic == 0 {
			n.Source.Harmonic = fx.harmonic
		}
		n.IsTapped = n.IsTapped || fx.tapped
		n.IsSlapped = n.IsSlapped || fx.slapped
		n.IsPopped = n.IsPopped || fx.popped
	}
}

func (d *decoder) readBeatEffects(beat *raw.Beat) (beatEffects, error) {
	r := d.r
	var fx beatEffects
	flags, err := r.Byte()
	if err != nil {
		return fx, err
	}
	var flags2 byte
	if d.version >= 400 {
		if flags2, err = r.Byte(); err != nil {
			return fx, err
		}
	}
	beat.FadeIn = flags&0x10 != 0
	if d.version < 400 {
		switch {
		case flags&0x02 != 0:
			beat.Source.Vibrato = raw.VibratoWide
		case flags&0x01 != 0:
			beat.Source.Vibrato = raw.VibratoSlight
		}
		if flags&0x04 != 0 {
			fx.harmonic = raw.HarmonicNatural
		}
		if flags&0x08 != 0 {
			fx.harmonic = raw.HarmonicArtificial
		}
	} else if flags&0x02 != 0 {
		beat.Source.Vibrato = raw.VibratoSlight
	}
	if flags&0x20 != 0 {
		code, err := r.SByte()
		if err != nil {
			return fx, err
		}
		switch code {
		case 1:
			fx.tapped = true
		case 2:
			fx.slapped = true
		case 3:
			fx.popped = true
		}
		if d.version < 400 {
			// tremolo bar value, or an unused int after a slap code
			if err := r.Skip(4); err != nil {
				return fx, err
			}
		}
	}
	if flags2&0x04 != 0 {
		if _, err := r.Byte(); err != nil {
			return fx, err
		}
		if beat.WhammyBarPoints, err = d.readBendPoints(); err != nil {
			return fx, err
		}
	}
	if flags&0x40 != 0 {
		b, err := r.Bytes(2)
		if err != nil {
			return fx, err
		}
		up, down := b[1], b[0]
		if d.version >= 500 {
			up, down = b[0], b[1]
		}
		switch {
		case up > 0:
			beat.Source.Brush = raw.DirectionUp
		case down > 0:
			beat.Source.Brush = raw.DirectionDown
		}
	}
	if flags2&0x02 != 0 {
		// pick stroke
		if err := r.Skip(1); err != nil {
			return fx, err
		}
	}
	return fx, nil
}

// readBendPoints reads the value and point list shared by bends and the
// whammy bar; the leading type byte is read by the caller.
func (d *decoder) readBendPoints() ([]model.BendPoint, error) {
	r := d.r
	if _, err := r.Int32(); err != nil {
		return nil, err
	}
	count, err := r.Int32()
	if err != nil {
		return nil, err
	}
	if count < 0 || count*9 > r.Remaining() {
		return nil, malformed(r, "bend point count %d out of range", count)
	}
	points := make([]model.BendPoint, 0, count)
	for i := 0; i < count; i++ {
		offset, err := r.Int32()
		if err != nil {
			return nil, err
		}
		value, err := r.Int32()
		if err != nil {
			return nil, err
		}
		// vibrato
		if err := r.Skip(1); err != nil {
			return nil, err
		}
		points = append(points, model.BendPoint{Offset: float64(offset), Value: float64(value)})
	}
	return points, nil
}
