package gp

// skipChord consumes a chord diagram. Diagrams are not modelled but their
// layout differs per version and per "new format" flag.
func (d *decoder) skipChord() error {
	r := d.r
	if d.version >= 500 {
		return d.skipNewChord(17)
	}
	newFormat, err := r.Bool()
	if err != nil {
		return err
	}
	if !newFormat {
		if _, err := r.IntByteSizeString(); err != nil {
			return err
		}
		firstFret, err := r.Int32()
		if err != nil {
			return err
		}
		if firstFret > 0 {
			strings := 6
			if d.version >= 406 {
				strings = 7
			}
			return r.Skip(4 * strings)
		}
		return nil
	}
	if d.version >= 400 {
		return d.skipNewChord(16)
	}
	// gp3: header, 34 wide name, first fret, 6 frets, trailer
	if err := r.Skip(25); err != nil {
		return err
	}
	if _, err := r.ByteSizeString(34); err != nil {
		return err
	}
	return r.Skip(4 + 6*4 + 36)
}

// skipNewChord reads the gp4/gp5 diagram: header, 21 wide name, alterations,
// first fret, 7 frets, barre count and frets, then barre/omission/fingering.
func (d *decoder) skipNewChord(header int) error {
	r := d.r
	if err := r.Skip(header); err != nil {
		return err
	}
	if _, err := r.ByteSizeString(21); err != nil {
		return err
	}
	return r.Skip(4 + 4 + 7*4 + 1 + 5 + 26)
}
