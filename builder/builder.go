// Package builder folds the raw values of a section decoder into the score
// tree, laying beats out on the source format's native tick base.
package builder

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
)

// Sequence hands out beat ids. One sequence belongs to one decode.
type Sequence struct {
	next int
}

func (s *Sequence) Next() int {
	s.next++
	return s.next
}

type builder struct {
	song  *raw.Song
	score *model.Score
	seq   *Sequence
	// per master bar, shared by every staff
	bars []model.Bar
}

// Build returns a new score for song. The song is not modified.
func Build(song *raw.Song, seq *Sequence) (*model.Score, error) {
	if seq == nil {
		seq = &Sequence{}
	}
	if len(song.MasterBars) == 0 {
		return nil, taberr.Invariantf("bars", "song has no bars")
	}
	if len(song.Tracks) == 0 {
		return nil, taberr.Invariantf("tracks", "song has no tracks")
	}
	b := &builder{song: song, seq: seq}
	b.score = &model.Score{
		Format:       song.Format,
		Title:        song.Title,
		Subtitle:     song.Subtitle,
		Artist:       song.Artist,
		Album:        song.Album,
		Copyright:    song.Copyright,
		MusicBy:      song.Music,
		WordsBy:      song.Words,
		Transcriber:  song.Tab,
		Instructions: song.Instructions,
		Notices:      append([]string(nil), song.Notices...),
		Tempo:        song.Tempo,
		TicksPerBeat: song.Format.NativeTicksPerBeat(),
	}
	if err := b.masterBars(); err != nil {
		return nil, err
	}
	for i := range song.Tracks {
		t, err := b.track(&song.Tracks[i])
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", i)
		}
		b.score.Tracks = append(b.score.Tracks, t)
	}
	return b.score, nil
}

// wholeTicks is the length of a whole note in ticks.
func (b *builder) wholeTicks() int64 {
	return int64(4 * b.score.TicksPerBeat)
}

func (b *builder) ticks(f util.Fraction) int {
	return int(f.Mul(util.NewFraction(b.wholeTicks(), 1)).Round())
}

// masterBars lays out bar timing and the score level events.
func (b *builder) masterBars() error {
	s := b.score
	start := 0
	var prev *raw.MasterBar
	for i := range b.song.MasterBars {
		mb := &b.song.MasterBars[i]
		length := util.NewFraction(int64(mb.Numerator), int64(mb.Denominator))
		bar := model.Bar{
			Index:       i,
			Start:       start,
			Duration:    b.ticks(length),
			RepeatOpen:  mb.RepeatOpen,
			RepeatClose: mb.RepeatCount > 0,
			RepeatCount: mb.RepeatCount,
			Endings:     mb.Endings,
			BarlineType: barlineType(mb),
		}
		if bar.Duration <= 0 {
			return taberr.Invariantf("bars", "bar %d has no duration", i)
		}
		start += bar.Duration

		ts := model.TimeSignature{Numerator: mb.Numerator, Denominator: mb.Denominator, BarIndex: i}
		if prev == nil || prev.Numerator != mb.Numerator || prev.Denominator != mb.Denominator {
			s.TimeSignatures = append(s.TimeSignatures, ts)
			if prev != nil {
				override := ts
				bar.TimeSigOverride = &override
			}
		}
		if prev == nil || prev.Key != mb.Key || prev.KeyType != mb.KeyType {
			s.KeySignatures = append(s.KeySignatures, model.KeySignature{Key: mb.Key, Type: mb.KeyType, BarIndex: i})
		}
		if mb.Marker != nil {
			marker := *mb.Marker
			marker.BarIndex = i
			bar.Marker = &marker
			s.Markers = append(s.Markers, marker)
		}
		if bar.RepeatOpen || bar.RepeatClose {
			s.Repeats = append(s.Repeats, model.Repeat{Open: bar.RepeatOpen, Close: bar.RepeatClose, Count: bar.RepeatCount, BarIndex: i})
		}
		b.bars = append(b.bars, bar)
		prev = mb
	}
	for _, tc := range b.song.TempoChanges {
		// changes pointing past the last bar are authoring noise
		if tc.BarIndex < 0 || tc.BarIndex >= len(b.bars) {
			continue
		}
		s.TempoChanges = append(s.TempoChanges, tc)
	}
	return nil
}

func barlineType(mb *raw.MasterBar) model.BarlineType {
	closing := mb.RepeatCount > 0
	switch {
	case mb.RepeatOpen && closing:
		return model.BarlineRepeatOpenClose
	case mb.RepeatOpen:
		return model.BarlineRepeatOpen
	case closing:
		return model.BarlineRepeatClose
	case mb.DoubleBar:
		return model.BarlineDouble
	}
	return model.BarlineSingle
}

func (b *builder) track(t *raw.Track) (model.Track, error) {
	out := model.Track{
		Name:         t.Name,
		Program:      t.Program,
		Channel:      t.Channel,
		IsPercussion: t.IsPercussion,
		Transpose:    t.Transpose,
		Volume:       t.Volume,
		Pan:          t.Pan,
	}
	if len(t.Staves) == 0 {
		return out, taberr.Invariantf("tracks", "track %q has no staff", t.Name)
	}
	out.Capo = t.Staves[0].Capo
	for i := range t.Staves {
		staff, err := b.staff(&t.Staves[i])
		if err != nil {
			return out, errors.Wrapf(err, "staff %d", i)
		}
		out.Staves = append(out.Staves, staff)
	}
	return out, nil
}

func (b *builder) staff(s *raw.Staff) (model.Staff, error) {
	out := model.Staff{
		Tuning:       append([]int(nil), s.Tuning...),
		TuningOrder:  s.TuningOrder,
		Capo:         s.Capo,
		Transpose:    s.Transpose,
		IsPercussion: s.IsPercussion,
	}
	if len(s.Bars) > len(b.bars) {
		return out, taberr.Invariantf("bars", "staff has %d bars, song has %d", len(s.Bars), len(b.bars))
	}
	for i := range b.bars {
		var src *raw.Bar
		if i < len(s.Bars) {
			src = &s.Bars[i]
		}
		bar, err := b.bar(i, src)
		if err != nil {
			return out, errors.Wrapf(err, "bar %d", i)
		}
		out.Bars = append(out.Bars, bar)
	}
	link(b.song.Format, out.Bars)
	return out, nil
}

// bar copies the master bar template and lays out src's voices; a nil src
// is a padding bar.
func (b *builder) bar(index int, src *raw.Bar) (model.Bar, error) {
	out := b.bars[index]
	if out.Marker != nil {
		m := *out.Marker
		out.Marker = &m
	}
	if out.TimeSigOverride != nil {
		ts := *out.TimeSigOverride
		out.TimeSigOverride = &ts
	}
	mb := b.song.MasterBars[index]
	length := util.NewFraction(int64(mb.Numerator), int64(mb.Denominator))
	if src != nil {
		for i := range src.Voices {
			v, err := b.voice(&src.Voices[i], length)
			if err != nil {
				return out, errors.Wrapf(err, "voice %d", i)
			}
			if len(v.Beats) == 0 {
				if i > 0 {
					continue
				}
				v.Beats = []model.Beat{b.rest(0, out.Duration, 1)}
			}
			out.Voices = append(out.Voices, v)
		}
	}
	if len(out.Voices) == 0 {
		out.Voices = []model.Voice{{Beats: []model.Beat{b.rest(0, out.Duration, 1)}}}
	}
	return out, nil
}
