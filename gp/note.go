package gp

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
)

func (d *decoder) readNotes(staff *raw.Staff, beat *raw.Beat) error {
	r := d.r
	mask, err := r.Byte()
	if err != nil {
		return err
	}
	// bit 6 is the highest string
	for i := 6; i >= 0; i-- {
		if mask&(1<<i) == 0 {
			continue
		}
		stringIndex := 6 - i
		if stringIndex >= len(staff.Tuning) {
			return malformed(r, "note on string %d of a %d string track", stringIndex+1, len(staff.Tuning))
		}
		note, err := d.readNote(beat, stringIndex)
		if err != nil {
			return err
		}
		beat.Notes = append(beat.Notes, note)
	}
	return nil
}

func (d *decoder) readNote(beat *raw.Beat, stringIndex int) (model.Note, error) {
	r := d.r
	note := model.Note{
		Source: model.NoteCodes{
			String:      stringIndex,
			LeftFinger:  raw.FingerAbsent,
			RightFinger: raw.FingerAbsent,
		},
	}
	flags, err := r.Byte()
	if err != nil {
		return note, err
	}
	note.IsGhost = flags&0x04 != 0
	if flags&0x20 != 0 {
		kind, err := r.Byte()
		if err != nil {
			return note, err
		}
		note.IsTieDestination = kind == 0x02
		note.IsDead = kind == 0x03
	}
	if flags&0x01 != 0 && d.version < 500 {
		// independent duration and tuplet
		if err := r.Skip(2); err != nil {
			return note, err
		}
	}
	if flags&0x10 != 0 {
		if note.Source.Dynamic, err = r.SByte(); err != nil {
			return note, err
		}
	}
	if flags&0x20 != 0 {
		if note.Fret, err = r.SByte(); err != nil {
			return note, err
		}
		if note.Fret < 0 || note.Fret > 99 {
			return note, malformed(r, "fret %d out of range", note.Fret)
		}
	}
	if flags&0x80 != 0 {
		if note.Source.LeftFinger, err = r.SByte(); err != nil {
			return note, err
		}
		if note.Source.RightFinger, err = r.SByte(); err != nil {
			return note, err
		}
	}
	if d.version >= 500 {
		if flags&0x01 != 0 {
			// duration percent
			if _, err := r.Float64(); err != nil {
				return note, err
			}
		}
		// accidental swapping
		if err := r.Skip(1); err != nil {
			return note, err
		}
	}
	if flags&0x08 != 0 {
		if err := d.readNoteEffects(beat, &note); err != nil {
			return note, err
		}
	}
	return note, nil
}

func (d *decoder) readNoteEffects(beat *raw.Beat, note *model.Note) error {
	r := d.r
	flags, err := r.Byte()
	if err != nil {
		return err
	}
	var flags2 byte
	if d.version >= 400 {
		if flags2, err = r.Byte(); err != nil {
			return err
		}
	}
	note.IsHammerPullOrigin = flags&0x02 != 0
	note.IsLetRing = flags&0x08 != 0
	if flags&0x01 != 0 {
		kind, err := r.Byte()
		if err != nil {
			return err
		}
		note.Source.Bend = int(kind)
		if note.BendPoints, err = d.readBendPoints(); err != nil {
			return err
		}
	}
	if flags&0x10 != 0 {
		if err := d.readGrace(note); err != nil {
			return err
		}
	}
	if d.version < 400 {
		if flags&0x04 != 0 {
			note.Source.Slide = raw.GP3SlideShiftFlag
		}
		return nil
	}
	if flags2&0x04 != 0 {
		speed, err := r.Byte()
		if err != nil {
			return err
		}
		beat.Source.Tremolo = int(speed)
	}
	if flags2&0x08 != 0 {
		if d.version >= 500 {
			b, err := r.Byte()
			if err != nil {
				return err
			}
			note.Source.Slide = int(b)
		} else if note.Source.Slide, err = r.SByte(); err != nil {
			return err
		}
	}
	if flags2&0x10 != 0 {
		if err := d.readHarmonic(note); err != nil {
			return err
		}
	}
	if flags2&0x20 != 0 {
		b, err := r.Bytes(2)
		if err != nil {
			return err
		}
		note.IsTrill = true
		note.Source.TrillFret = int(b[0])
		note.Source.TrillSpeed = int(b[1])
	}
	if flags2&0x40 != 0 {
		note.Source.Vibrato = raw.VibratoSlight
	}
	note.IsPalmMute = flags2&0x02 != 0
	note.IsStaccato = flags2&0x01 != 0
	return nil
}

func (d *decoder) readGrace(note *model.Note) error {
	r := d.r
	// fret, dynamic, transition, duration
	if err := r.Skip(4); err != nil {
		return err
	}
	note.Source.Grace = raw.GraceBefore
	if d.version >= 500 {
		flags, err := r.Byte()
		if err != nil {
			return err
		}
		if flags&0x02 != 0 {
			note.Source.Grace = raw.GraceOnBeat
		}
	}
	return nil
}

func (d *decoder) readHarmonic(note *model.Note) error {
	r := d.r
	kind, err := r.Byte()
	if err != nil {
		return err
	}
	note.Source.Harmonic = int(kind)
	if d.version < 500 {
		return nil
	}
	switch kind {
	case raw.HarmonicArtificial:
		// tone, key, octave
		return r.Skip(3)
	case raw.HarmonicTap:
		fret, err := r.Byte()
		if err != nil {
			return err
		}
		note.Source.HarmonicFret = float64(fret)
	}
	return nil
}
