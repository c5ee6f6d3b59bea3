package gp

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/pkg/errors"
)

const percussionChannel = 9

func (d *decoder) readTracks(count int) error {
	r := d.r
	r.Section("tracks")
	for i := 0; i < count; i++ {
		t, err := d.readTrack(i)
		if err != nil {
			return errors.Wrapf(err, "track %d", i)
		}
		d.song.Tracks = append(d.song.Tracks, t)
	}
	if d.version >= 500 {
		n := 1
		if d.version == 500 {
			n = 2
		}
		return r.Skip(n)
	}
	return nil
}

func (d *decoder) readTrack(index int) (raw.Track, error) {
	r := d.r
	var t raw.Track
	if d.version >= 500 && (index == 0 || d.version == 500) {
		if err := r.Skip(1); err != nil {
			return t, err
		}
	}
	flags, err := r.Byte()
	if err != nil {
		return t, err
	}
	if t.Name, err = r.ByteSizeString(40); err != nil {
		return t, err
	}
	stringCount, err := r.Int32()
	if err != nil {
		return t, err
	}
	if stringCount < 0 || stringCount > maxStrings {
		return t, malformed(r, "string count %d out of range", stringCount)
	}
	staff := raw.Staff{TuningOrder: model.HighToLow}
	for i := 0; i < maxStrings; i++ {
		pitch, err := r.Int32()
		if err != nil {
			return t, err
		}
		if i >= stringCount {
			continue
		}
		if pitch < 0 || pitch > 127 {
			return t, malformed(r, "tuning pitch %d out of range", pitch)
		}
		staff.Tuning = append(staff.Tuning, pitch)
	}
	if len(staff.Tuning) == 0 {
		staff.Tuning = raw.DefaultTuning(model.HighToLow)
	}
	// midi port
	if err := r.Skip(4); err != nil {
		return t, err
	}
	ch, err := r.Int32()
	if err != nil {
		return t, err
	}
	// effect channel, fret count
	if err := r.Skip(8); err != nil {
		return t, err
	}
	if staff.Capo, err = r.Int32(); err != nil {
		return t, err
	}
	if _, err := d.readColor(); err != nil {
		return t, err
	}
	if d.version >= 500 {
		if err := d.skipTrackRSE(); err != nil {
			return t, err
		}
	}

	t.Channel = ch - 1
	t.Volume, t.Pan = -1, -1
	if t.Channel >= 0 && t.Channel < len(d.channels) {
		info := d.channels[t.Channel]
		t.Program = info.program
		t.Volume = info.volume
		t.Pan = info.balance
	} else {
		t.Channel = 0
	}
	t.IsPercussion = flags&0x01 != 0 || t.Channel == percussionChannel
	staff.IsPercussion = t.IsPercussion
	t.Staves = []raw.Staff{staff}
	return t, nil
}

// skipTrackRSE consumes the GP5 track settings and RSE instrument block.
func (d *decoder) skipTrackRSE() error {
	r := d.r
	// settings flags (2), auto accentuation, bank, humanize, 3 ints, 12 unknown
	if err := r.Skip(2 + 1 + 1 + 1 + 12 + 12); err != nil {
		return err
	}
	// rse instrument, sound bank, effect number
	n := 4 + 4 + 4 + 4
	if d.version == 500 {
		n = 4 + 4 + 4 + 2 + 1
	}
	if err := r.Skip(n); err != nil {
		return err
	}
	if d.version > 500 {
		// equalizer, then effect name and category
		if err := r.Skip(4); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if _, err := r.IntByteSizeString(); err != nil {
				return err
			}
		}
	}
	return nil
}
