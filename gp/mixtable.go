package gp

import "github.com/jsphweid/tabdex/model"

// readMixTableChange consumes a mix table; only tempo changes survive into
// the model, as score tempo events on the current bar.
func (d *decoder) readMixTableChange() error {
	r := d.r
	// instrument
	if err := r.Skip(1); err != nil {
		return err
	}
	if d.version >= 500 {
		// rse instrument
		if err := r.Skip(16); err != nil {
			return err
		}
	}
	// volume, balance, chorus, reverb, phaser, tremolo
	values, err := r.Bytes(6)
	if err != nil {
		return err
	}
	if d.version >= 500 {
		if _, err := r.IntByteSizeString(); err != nil {
			return err
		}
	}
	tempo, err := r.Int32()
	if err != nil {
		return err
	}
	// a transition duration byte follows each value that is set
	skip := 0
	for _, v := range values {
		if int8(v) >= 0 {
			skip++
		}
	}
	if err := r.Skip(skip); err != nil {
		return err
	}
	if tempo >= 0 {
		n := 1
		if d.version >= 510 {
			// hide tempo
			n++
		}
		if err := r.Skip(n); err != nil {
			return err
		}
		if tempo > 0 {
			d.song.TempoChanges = append(d.song.TempoChanges, model.TempoChange{BPM: float64(tempo), BarIndex: d.currentBar})
		}
	}
	if d.version >= 400 {
		// apply-to-all-tracks flags
		if err := r.Skip(1); err != nil {
			return err
		}
	}
	if d.version >= 500 {
		// wah
		if err := r.Skip(1); err != nil {
			return err
		}
	}
	if d.version >= 510 {
		for i := 0; i < 2; i++ {
			if _, err := r.IntByteSizeString(); err != nil {
				return err
			}
		}
	}
	return nil
}
