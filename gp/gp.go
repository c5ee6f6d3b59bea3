// Package gp decodes the Guitar Pro 3, 4 and 5 binary formats into raw song
// values. The three generations share one section order; the version
// number read from the signature selects the per-field layout.
package gp

import (
	"context"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/reader"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

const (
	maxTracks   = 127
	maxBars     = 4096
	maxNotices  = 256
	maxStrings  = 7
	channelSize = 64
)

type channel struct {
	program int
	volume  int
	balance int
}

type decoder struct {
	ctx        context.Context
	r          *reader.Reader
	version    int
	song       *raw.Song
	channels   []channel
	barCount   int
	// bar being read, for tempo changes coming from mix tables
	currentBar int
}

// Decode reads a whole GP3/GP4/GP5 file. Any malformed or truncated section
// fails the whole decode; no partial song is returned.
func Decode(ctx context.Context, data []byte, enc encoding.Encoding) (*raw.Song, error) {
	text, version, err := reader.BinaryVersion(data)
	if err != nil {
		return nil, err
	}
	d := &decoder{
		ctx:     ctx,
		r:       reader.New(data, enc),
		version: version,
		song:    &raw.Song{Version: version},
	}
	switch version / 100 {
	case 3:
		d.song.Format = model.GP3
	case 4:
		d.song.Format = model.GP4
	default:
		d.song.Format = model.GP5
	}
	if err := d.readSong(); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", text)
	}
	return d.song, nil
}

func (d *decoder) canceled() error {
	if err := d.ctx.Err(); err != nil {
		return taberr.Wrap(err, taberr.Canceled, "bars", "decode canceled")
	}
	return nil
}

func (d *decoder) readSong() error {
	r := d.r
	r.Section("version")
	if _, err := r.ByteSizeString(30); err != nil {
		return err
	}
	if err := d.readInfo(); err != nil {
		return err
	}
	if d.version < 500 {
		r.Section("triplet feel")
		if _, err := r.Bool(); err != nil {
			return err
		}
	}
	if d.version >= 400 {
		if err := d.readLyrics(); err != nil {
			return err
		}
	}
	if d.version >= 510 {
		r.Section("rse master effect")
		if err := r.Skip(19); err != nil {
			return err
		}
	}
	if d.version >= 500 {
		if err := d.readPageSetup(); err != nil {
			return err
		}
	}
	if err := d.readTempoAndKey(); err != nil {
		return err
	}
	if err := d.readChannels(); err != nil {
		return err
	}
	if d.version >= 500 {
		// 19 direction bar indexes (coda, segno, ...) and the master reverb
		r.Section("directions")
		if err := r.Skip(38 + 4); err != nil {
			return err
		}
	}
	r.Section("counts")
	var err error
	if d.barCount, err = r.Int32(); err != nil {
		return err
	}
	trackCount, err := r.Int32()
	if err != nil {
		return err
	}
	if d.barCount < 1 || d.barCount > maxBars {
		return taberr.Malformedf("counts", r.Offset()-8, "bar count %d out of range", d.barCount)
	}
	if trackCount < 1 || trackCount > maxTracks {
		return taberr.Malformedf("counts", r.Offset()-4, "track count %d out of range", trackCount)
	}
	if err := d.readMasterBars(); err != nil {
		return err
	}
	if err := d.readTracks(trackCount); err != nil {
		return err
	}
	return d.readBars()
}

func (d *decoder) readInfo() error {
	r := d.r
	r.Section("song info")
	s := d.song
	fields := []*string{&s.Title, &s.Subtitle, &s.Artist, &s.Album, &s.Words}
	if d.version >= 500 {
		fields = append(fields, &s.Music)
	}
	fields = append(fields, &s.Copyright, &s.Tab, &s.Instructions)
	for _, f := range fields {
		v, err := r.IntByteSizeString()
		if err != nil {
			return err
		}
		*f = v
	}
	if d.version < 500 {
		s.Music = s.Words
	}
	count, err := r.Int32()
	if err != nil {
		return err
	}
	if count < 0 || count > maxNotices {
		return taberr.Malformedf("song info", r.Offset()-4, "notice count %d out of range", count)
	}
	for i := 0; i < count; i++ {
		line, err := r.IntByteSizeString()
		if err != nil {
			return err
		}
		s.Notices = append(s.Notices, line)
	}
	return nil
}

// Lyrics are not part of the model but the block has to be consumed.
func (d *decoder) readLyrics() error {
	r := d.r
	r.Section("lyrics")
	if _, err := r.Int32(); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		if _, err := r.Int32(); err != nil {
			return err
		}
		if _, err := r.IntString(); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) readPageSetup() error {
	r := d.r
	r.Section("page setup")
	// page size, margins, proportion, header/footer flags
	if err := r.Skip(30); err != nil {
		return err
	}
	// header and footer templates
	for i := 0; i < 10; i++ {
		if _, err := r.IntByteSizeString(); err != nil {
			return err
		}
	}
	r.Section("tempo label")
	_, err := r.IntByteSizeString()
	return err
}

func (d *decoder) readTempoAndKey() error {
	r := d.r
	r.Section("tempo")
	tempo, err := r.Int32()
	if err != nil {
		return err
	}
	if tempo > 0 {
		d.song.Tempo = float64(tempo)
	}
	if d.version >= 510 {
		if _, err := r.Bool(); err != nil {
			return err
		}
	}
	r.Section("key")
	if d.version >= 500 {
		if d.song.Key, err = r.SByte(); err != nil {
			return err
		}
		return r.Skip(4)
	}
	if d.song.Key, err = r.Int32(); err != nil {
		return err
	}
	if d.version >= 400 {
		return r.Skip(1)
	}
	return nil
}

func (d *decoder) readChannels() error {
	r := d.r
	r.Section("midi channels")
	d.channels = make([]channel, channelSize)
	for i := range d.channels {
		program, err := r.Int32()
		if err != nil {
			return err
		}
		b, err := r.Bytes(8)
		if err != nil {
			return err
		}
		// volume, balance, chorus, reverb, phaser, tremolo, 2 blank
		d.channels[i] = channel{program: program, volume: int(b[0]), balance: int(b[1])}
	}
	return nil
}
