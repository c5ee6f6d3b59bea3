package gp

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/pkg/errors"
)

func (d *decoder) readMasterBars() error {
	d.r.Section("master bars")
	bars := make([]raw.MasterBar, 0, d.barCount)
	for i := 0; i < d.barCount; i++ {
		var prev *raw.MasterBar
		if i > 0 {
			prev = &bars[i-1]
		}
		mb, err := d.readMasterBar(prev)
		if err != nil {
			return errors.Wrapf(err, "master bar %d", i)
		}
		bars = append(bars, mb)
	}
	d.song.MasterBars = bars
	return nil
}

func (d *decoder) readMasterBar(prev *raw.MasterBar) (raw.MasterBar, error) {
	r := d.r
	mb := raw.MasterBar{Numerator: 4, Denominator: 4}
	if prev != nil {
		mb.Numerator = prev.Numerator
		mb.Denominator = prev.Denominator
		mb.Key = prev.Key
		mb.KeyType = prev.KeyType
		if d.version >= 500 {
			// always zero
			if err := r.Skip(1); err != nil {
				return mb, err
			}
		}
	} else {
		mb.Key = d.song.Key
	}
	flags, err := r.Byte()
	if err != nil {
		return mb, err
	}
	if flags&0x01 != 0 {
		if mb.Numerator, err = r.SByte(); err != nil {
			return mb, err
		}
	}
	if flags&0x02 != 0 {
		if mb.Denominator, err = r.SByte(); err != nil {
			return mb, err
		}
	}
	if mb.Numerator < 1 || mb.Numerator > 32 || !validDenominator(mb.Denominator) {
		return mb, malformed(r, "time signature %d/%d", mb.Numerator, mb.Denominator)
	}
	mb.RepeatOpen = flags&0x04 != 0
	if flags&0x08 != 0 {
		count, err := r.Byte()
		if err != nil {
			return mb, err
		}
		mb.RepeatCount = int(count)
		if d.version < 500 {
			mb.RepeatCount++
		}
	}
	if flags&0x10 != 0 && d.version < 500 {
		n, err := r.Byte()
		if err != nil {
			return mb, err
		}
		mb.Endings = model.Endings{Encoding: model.EndingRange, Value: int(n)}
	}
	if flags&0x20 != 0 {
		text, err := r.IntByteSizeString()
		if err != nil {
			return mb, err
		}
		color, err := d.readColor()
		if err != nil {
			return mb, err
		}
		mb.Marker = &model.Marker{Text: text, ColorARGB: color}
	}
	if flags&0x40 != 0 {
		if mb.Key, err = r.SByte(); err != nil {
			return mb, err
		}
		kt, err := r.Byte()
		if err != nil {
			return mb, err
		}
		mb.KeyType = model.KeyType(kt)
		if mb.KeyType != model.Minor {
			mb.KeyType = model.Major
		}
	}
	mb.DoubleBar = flags&0x80 != 0
	if d.version >= 500 {
		if flags&0x03 != 0 {
			// beam grouping
			if err := r.Skip(4); err != nil {
				return mb, err
			}
		}
		n, err := r.Byte()
		if err != nil {
			return mb, err
		}
		if flags&0x10 != 0 {
			mb.Endings = model.Endings{Encoding: model.EndingBitflags, Value: int(n)}
		}
		// triplet feel
		if err := r.Skip(1); err != nil {
			return mb, err
		}
	}
	return mb, nil
}

func validDenominator(den int) bool {
	switch den {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}

// readColor turns the r, g, b, padding quadruplet into an opaque ARGB value.
func (d *decoder) readColor() (uint32, error) {
	b, err := d.r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return 0xff000000 | uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}
