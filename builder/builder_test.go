package builder

import (
	"testing"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(str, fret int) model.Note {
	return model.Note{Fret: fret, Source: model.NoteCodes{String: str}}
}

func beat(value int, notes ...model.Note) raw.Beat {
	b := raw.Beat{Length: raw.Duration{Value: value}}
	b.Notes = notes
	return b
}

func quarters(n int) raw.Bar {
	var v raw.Voice
	for i := 0; i < n; i++ {
		v.Beats = append(v.Beats, beat(4, note(0, i)))
	}
	return raw.Bar{Voices: []raw.Voice{v}}
}

func song(format model.FormatVersion, bars int, tracks ...[]raw.Bar) *raw.Song {
	s := &raw.Song{Format: format, Title: "t"}
	for i := 0; i < bars; i++ {
		s.MasterBars = append(s.MasterBars, raw.MasterBar{Numerator: 4, Denominator: 4})
	}
	for _, bars := range tracks {
		s.Tracks = append(s.Tracks, raw.Track{Staves: []raw.Staff{{Tuning: raw.StandardTuning, Bars: bars}}})
	}
	return s
}

func repeatBars(bar raw.Bar, n int) []raw.Bar {
	var res []raw.Bar
	for i := 0; i < n; i++ {
		res = append(res, bar)
	}
	return res
}

func assertVoiceSpansBar(t *testing.T, bar model.Bar) {
	for _, v := range bar.Voices {
		pos := 0
		for _, b := range v.Beats {
			assert.Equal(t, pos, b.Start, "bar %d beat %d", bar.Index, b.ID)
			assert.GreaterOrEqual(t, b.Duration, 0)
			pos = b.Start + b.Duration
		}
		assert.Equal(t, bar.Duration, pos, "bar %d", bar.Index)
	}
}

func TestPadsShortTracks(t *testing.T) {
	s := song(model.GP5, 10, repeatBars(quarters(4), 10), repeatBars(quarters(4), 8))

	score, err := Build(s, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	short := score.Tracks[1].Staves[0]
	require.Len(t, short.Bars, 10)
	for i, bar := range short.Bars[8:] {
		assert.Equal(8+i, bar.Index)
		require.Len(t, bar.Voices, 1)
		require.Len(t, bar.Voices[0].Beats, 1)
		rest := bar.Voices[0].Beats[0]
		assert.True(rest.IsRest)
		assert.Empty(rest.Notes)
		assert.Equal(0, rest.Start)
		assert.Equal(1920, rest.Duration)
	}
}

func TestLaysBarsOutOnNativeTicks(t *testing.T) {
	s := song(model.GP7, 3, []raw.Bar{quarters(4), {}, quarters(4)})
	s.MasterBars[1] = raw.MasterBar{Numerator: 3, Denominator: 8}

	score, err := Build(s, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(960, score.TicksPerBeat)
	bars := score.Tracks[0].Staves[0].Bars
	assert.Equal(0, bars[0].Start)
	assert.Equal(3840, bars[0].Duration)
	assert.Equal(3840, bars[1].Start)
	assert.Equal(1440, bars[1].Duration)
	assert.Equal(5280, bars[2].Start)
}

func TestTupletsSumExactly(t *testing.T) {
	var v raw.Voice
	// a septuplet of sixteenths then a triplet of eighths, then a half
	for i := 0; i < 7; i++ {
		b := beat(16, note(0, 1))
		b.Length.TupletNum, b.Length.TupletDen = 7, 4
		v.Beats = append(v.Beats, b)
	}
	for i := 0; i < 3; i++ {
		b := beat(8, note(0, 1))
		b.Length.TupletNum, b.Length.TupletDen = 3, 2
		v.Beats = append(v.Beats, b)
	}
	v.Beats = append(v.Beats, beat(2, note(0, 1)))
	s := song(model.GP5, 1, []raw.Bar{{Voices: []raw.Voice{v}}})

	score, err := Build(s, nil)
	require.NoError(t, err)

	bar := score.Tracks[0].Staves[0].Bars[0]
	require.Len(t, bar.Voices[0].Beats, 11)
	assertVoiceSpansBar(t, bar)
	assert.Equal(t, 69, bar.Voices[0].Beats[0].Duration)
	assert.Equal(t, 960, bar.Voices[0].Beats[10].Start)
}

func TestDottedDurations(t *testing.T) {
	dotted := beat(4, note(0, 1))
	dotted.Length.Dots = 2
	s := song(model.GP5, 1, []raw.Bar{{Voices: []raw.Voice{{Beats: []raw.Beat{dotted, beat(16, note(0, 2)), beat(2, note(0, 3))}}}}})

	score, err := Build(s, nil)
	require.NoError(t, err)

	beats := score.Tracks[0].Staves[0].Bars[0].Voices[0].Beats
	assert.Equal(t, 840, beats[0].Duration)
	assert.Equal(t, 2, beats[0].Dots)
	assert.Equal(t, 960, beats[2].Start)
}

func TestFillsUnderFullVoiceWithRests(t *testing.T) {
	s := song(model.GP5, 1, []raw.Bar{quarters(1)})

	score, err := Build(s, nil)
	require.NoError(t, err)

	bar := score.Tracks[0].Staves[0].Bars[0]
	beats := bar.Voices[0].Beats
	assert := assert.New(t)
	require.Len(t, beats, 3)
	assert.Equal(2, beats[1].Symbol)
	assert.True(beats[1].IsRest)
	assert.Equal(4, beats[2].Symbol)
	assertVoiceSpansBar(t, bar)
}

func TestOverFullVoiceIsInvariantError(t *testing.T) {
	s := song(model.GP5, 1, []raw.Bar{quarters(5)})

	_, err := Build(s, nil)

	assert.Equal(t, taberr.Invariant, taberr.KindOf(err))
}

func TestImpossibleLengthsAreInvariantErrors(t *testing.T) {
	for _, d := range []raw.Duration{
		{Value: 0},
		{Value: 3},
		{Value: 256},
		{Value: 4, Dots: 70},
		{Value: 4, Dots: -1},
		{Value: 4, TupletNum: 100000, TupletDen: 2},
		{Value: 4, TupletNum: 3, TupletDen: -2},
	} {
		b := beat(4, note(0, 0))
		b.Length = d
		s := song(model.GP5, 1, []raw.Bar{{Voices: []raw.Voice{{Beats: []raw.Beat{b}}}}})

		assert.NotPanics(t, func() {
			_, err := Build(s, nil)
			assert.Equal(t, taberr.Invariant, taberr.KindOf(err), "%+v", d)
		})
	}
}

func TestMoreBarsThanMasterBarsIsInvariantError(t *testing.T) {
	s := song(model.GP5, 2, repeatBars(quarters(4), 3))

	_, err := Build(s, nil)

	assert.Equal(t, taberr.Invariant, taberr.KindOf(err))
}

func TestEmptyVoices(t *testing.T) {
	empty := raw.Beat{Empty: true, Length: raw.Duration{Value: 4}}
	s := song(model.GP5, 2, []raw.Bar{
		{Voices: []raw.Voice{{Beats: []raw.Beat{empty}}, quarters(4).Voices[0]}},
		{Voices: []raw.Voice{quarters(4).Voices[0], {}}},
	})

	score, err := Build(s, nil)
	require.NoError(t, err)

	bars := score.Tracks[0].Staves[0].Bars
	assert := assert.New(t)
	require.Len(t, bars[0].Voices, 2)
	assert.Len(bars[0].Voices[0].Beats, 1)
	assert.True(bars[0].Voices[0].Beats[0].IsRest)
	assert.Equal(1920, bars[0].Voices[0].Beats[0].Duration)
	assert.Len(bars[1].Voices, 1)
}

func TestGraceBeatsTakeNoTime(t *testing.T) {
	grace := beat(32, note(0, 5))
	grace.Grace = true
	bar := quarters(4)
	bar.Voices[0].Beats = append([]raw.Beat{grace}, bar.Voices[0].Beats...)
	s := song(model.GP7, 1, []raw.Bar{bar})

	score, err := Build(s, nil)
	require.NoError(t, err)

	beats := score.Tracks[0].Staves[0].Bars[0].Voices[0].Beats
	assert.Equal(t, 0, beats[0].Duration)
	assert.Equal(t, 0, beats[1].Start)
	assert.Len(t, beats, 5)
}

func TestBeatIDsComeFromTheSequence(t *testing.T) {
	s := song(model.GP5, 2, repeatBars(quarters(4), 2))
	seq := &Sequence{}

	first, err := Build(s, seq)
	require.NoError(t, err)
	fresh, err := Build(s, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	beats := first.Tracks[0].Staves[0].Bars[1].Voices[0].Beats
	assert.Equal(8, beats[3].ID)
	assert.Equal(8, seq.Next()-1)
	assert.Equal(1, fresh.Tracks[0].Staves[0].Bars[0].Voices[0].Beats[0].ID)
}

func TestRestBreaksTiesAndHammers(t *testing.T) {
	origin := note(2, 7)
	origin.IsHammerPullOrigin = true
	tie := note(2, 0)
	tie.IsTieDestination = true
	s := song(model.GP5, 2, []raw.Bar{
		{Voices: []raw.Voice{{Beats: []raw.Beat{beat(2, origin), beat(2)}}}},
		{Voices: []raw.Voice{{Beats: []raw.Beat{beat(1, tie)}}}},
	})

	score, err := Build(s, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	bars := score.Tracks[0].Staves[0].Bars
	assert.True(bars[0].Voices[0].Beats[1].IsRest)
	first := bars[0].Voices[0].Beats[0].Notes[0]
	assert.False(first.IsTieOrigin)
	after := bars[1].Voices[0].Beats[0].Notes[0]
	assert.False(after.IsTieDestination)
	assert.False(after.IsHammerPullDestination)
	assert.Equal(0, after.Fret)
}

func TestLinksTiesAndHammersAcrossBars(t *testing.T) {
	origin := note(2, 7)
	origin.IsHammerPullOrigin = true
	tie := note(2, 0)
	tie.IsTieDestination = true
	dangling := note(4, 3)
	dangling.IsTieDestination = true
	legato := note(1, 5)
	legato.Source.Slide = raw.SlideFlagLegato
	s := song(model.GP5, 2, []raw.Bar{
		{Voices: []raw.Voice{{Beats: []raw.Beat{beat(2, origin), beat(2, legato, dangling)}}}},
		{Voices: []raw.Voice{{Beats: []raw.Beat{beat(2, tie, note(1, 7)), beat(2)}}}},
	})

	score, err := Build(s, nil)
	require.NoError(t, err)

	bars := score.Tracks[0].Staves[0].Bars
	assert := assert.New(t)
	first := bars[0].Voices[0].Beats
	second := bars[1].Voices[0].Beats
	assert.True(first[0].Notes[0].IsTieOrigin)
	assert.True(first[1].Notes[0].IsSlurOrigin)
	assert.False(first[1].Notes[1].IsTieDestination)
	tied := second[0].Notes[0]
	assert.True(tied.IsTieDestination)
	assert.True(tied.IsHammerPullDestination)
	assert.Equal(7, tied.Fret)
	assert.True(second[0].Notes[1].IsSlurDestination)
	assert.True(second[1].IsRest)
	// the raw song is left alone
	assert.False(s.Tracks[0].Staves[0].Bars[0].Voices[0].Beats[0].Notes[0].IsTieOrigin)
}

func TestScoreEvents(t *testing.T) {
	s := song(model.GP4, 3, repeatBars(quarters(4), 3))
	s.MasterBars[0].RepeatOpen = true
	s.MasterBars[0].Marker = &model.Marker{Text: "Intro", ColorARGB: 0xffff0000}
	s.MasterBars[1] = raw.MasterBar{Numerator: 4, Denominator: 4, RepeatCount: 2, Key: 1}
	s.MasterBars[2] = raw.MasterBar{Numerator: 4, Denominator: 4, DoubleBar: true, Key: 1}
	s.TempoChanges = []model.TempoChange{{BPM: 100, BarIndex: 2}, {BPM: 80, BarIndex: 9}}

	score, err := Build(s, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]model.TimeSignature{{Numerator: 4, Denominator: 4, BarIndex: 0}}, score.TimeSignatures)
	assert.Equal([]model.KeySignature{{Key: 0, BarIndex: 0}, {Key: 1, BarIndex: 1}}, score.KeySignatures)
	assert.Equal([]model.Marker{{Text: "Intro", ColorARGB: 0xffff0000, BarIndex: 0}}, score.Markers)
	assert.Equal([]model.Repeat{{Open: true, BarIndex: 0}, {Close: true, Count: 2, BarIndex: 1}}, score.Repeats)
	assert.Equal([]model.TempoChange{{BPM: 100, BarIndex: 2}}, score.TempoChanges)
	bars := score.Tracks[0].Staves[0].Bars
	assert.Equal(model.BarlineRepeatOpen, bars[0].BarlineType)
	assert.Equal(model.BarlineRepeatClose, bars[1].BarlineType)
	assert.Equal(model.BarlineDouble, bars[2].BarlineType)
	assert.Equal("Intro", bars[0].Marker.Text)
}

func TestTimeSignatureOverride(t *testing.T) {
	s := song(model.GP5, 2, []raw.Bar{quarters(4), quarters(3)})
	s.MasterBars[1] = raw.MasterBar{Numerator: 3, Denominator: 4}

	score, err := Build(s, nil)
	require.NoError(t, err)

	bars := score.Tracks[0].Staves[0].Bars
	assert := assert.New(t)
	assert.Nil(bars[0].TimeSigOverride)
	require.NotNil(t, bars[1].TimeSigOverride)
	assert.Equal(3, bars[1].TimeSigOverride.Numerator)
	assert.Len(score.TimeSignatures, 2)
}
