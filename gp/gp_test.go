package gp

import (
	"context"
	"testing"

	"github.com/jsphweid/tabdex/gptest"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guitar = []int{64, 59, 55, 50, 45, 40}

func quarter(str, fret int) gptest.Beat {
	return gptest.Beat{Value: 4, Notes: []gptest.Note{{String: str, Fret: fret}}}
}

func twoBarSong() gptest.Song {
	return gptest.Song{
		Title:    "Etude",
		Artist:   "Someone",
		Tempo:    96,
		Programs: map[int]int{0: 25},
		MasterBars: []gptest.MasterBar{
			{Numerator: 4, Denominator: 4, RepeatOpen: true},
			{RepeatClose: 2, Marker: "Verse", DoubleBar: true},
		},
		Tracks: []gptest.Track{{
			Name:    "Guitar",
			Tuning:  guitar,
			Channel: 1,
			Bars: [][]gptest.Beat{
				{quarter(1, 0), quarter(2, 1), quarter(3, 2), quarter(6, 3)},
				{
					{Value: 2, Tempo: 140, Notes: []gptest.Note{{String: 1, Fret: 5}, {String: 6, Fret: 7}}},
					{Value: 2, Rest: true},
				},
			},
		}},
	}
}

func decode(t *testing.T, data []byte) *raw.Song {
	song, err := Decode(context.Background(), data, nil)
	require.NoError(t, err)
	return song
}

func TestDecodesEveryVersion(t *testing.T) {
	for _, version := range []int{300, 400, 500, 510} {
		song := decode(t, twoBarSong().Bytes(version))

		assert := assert.New(t)
		assert.Equal(version, song.Version)
		assert.Equal("Etude", song.Title)
		assert.Equal("Someone", song.Artist)
		assert.Equal(96.0, song.Tempo)
		assert.Len(song.MasterBars, 2)
		require.Len(t, song.Tracks, 1)

		track := song.Tracks[0]
		assert.Equal("Guitar", track.Name)
		assert.Equal(25, track.Program)
		assert.Equal(0, track.Channel)
		assert.Equal(13, track.Volume)
		assert.Equal(8, track.Pan)
		assert.False(track.IsPercussion)
		require.Len(t, track.Staves, 1)
		staff := track.Staves[0]
		assert.Equal(guitar, staff.Tuning)
		assert.Equal(model.HighToLow, staff.TuningOrder)
		require.Len(t, staff.Bars, 2)

		first := staff.Bars[0].Voices[0].Beats
		require.Len(t, first, 4)
		assert.Equal(4, first[0].Length.Value)
		assert.Equal(0, first[0].Notes[0].Source.String)
		assert.Equal(5, first[3].Notes[0].Source.String)
		assert.Equal(3, first[3].Notes[0].Fret)

		second := staff.Bars[1].Voices[0].Beats
		require.Len(t, second, 2)
		require.Len(t, second[0].Notes, 2)
		assert.Equal(0, second[0].Notes[0].Source.String)
		assert.Equal(5, second[0].Notes[1].Source.String)
		assert.True(second[1].Rest)
		assert.Equal([]model.TempoChange{{BPM: 140, BarIndex: 1}}, song.TempoChanges)
	}
}

func TestFormatFollowsVersion(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(model.GP3, decode(t, twoBarSong().Bytes(300)).Format)
	assert.Equal(model.GP4, decode(t, twoBarSong().Bytes(400)).Format)
	assert.Equal(model.GP5, decode(t, twoBarSong().Bytes(510)).Format)
}

func TestReadsMasterBarFlags(t *testing.T) {
	for _, version := range []int{300, 500} {
		song := decode(t, twoBarSong().Bytes(version))

		assert := assert.New(t)
		first, second := song.MasterBars[0], song.MasterBars[1]
		assert.True(first.RepeatOpen)
		assert.Equal(0, first.RepeatCount)
		assert.Equal(2, second.RepeatCount)
		assert.Equal(4, second.Numerator)
		assert.True(second.DoubleBar)
		require.NotNil(t, second.Marker)
		assert.Equal("Verse", second.Marker.Text)
		assert.Equal(uint32(0xffff0000), second.Marker.ColorARGB)
	}
}

func TestAlternateEndingsKeepTheirEncoding(t *testing.T) {
	song := twoBarSong()
	song.MasterBars[1].Ending = 5

	assert := assert.New(t)
	gp3 := decode(t, song.Bytes(300))
	assert.Equal(model.Endings{Encoding: model.EndingRange, Value: 5}, gp3.MasterBars[1].Endings)
	gp5 := decode(t, song.Bytes(500))
	assert.Equal(model.Endings{Encoding: model.EndingBitflags, Value: 5}, gp5.MasterBars[1].Endings)
}

func TestReadsNoteFlagsAndEffects(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Bars[0] = []gptest.Beat{
		{Value: 4, Notes: []gptest.Note{{String: 1, Fret: 3, HammerOn: true, LetRing: true}}},
		{Value: 4, Notes: []gptest.Note{{String: 1, Fret: 3, Tie: true}}},
		{Value: 4, Notes: []gptest.Note{{String: 2, Dead: true, Ghost: true}}},
		{Value: 4, Notes: []gptest.Note{{String: 3, Fret: 5, PalmMute: true, Slide: raw.SlideFlagShift, Harmonic: raw.HarmonicTap, Fingering: true, LeftFinger: 1, RightFinger: 0}}},
	}

	beats := decode(t, song.Bytes(500)).Tracks[0].Staves[0].Bars[0].Voices[0].Beats

	assert := assert.New(t)
	hammer := beats[0].Notes[0]
	assert.True(hammer.IsHammerPullOrigin)
	assert.True(hammer.IsLetRing)
	assert.Equal(raw.FingerAbsent, hammer.Source.LeftFinger)
	tie := beats[1].Notes[0]
	assert.True(tie.IsTieDestination)
	dead := beats[2].Notes[0]
	assert.True(dead.IsDead)
	assert.True(dead.IsGhost)
	fx := beats[3].Notes[0]
	assert.True(fx.IsPalmMute)
	assert.Equal(raw.SlideFlagShift, fx.Source.Slide)
	assert.Equal(raw.HarmonicTap, fx.Source.Harmonic)
	assert.Equal(12.0, fx.Source.HarmonicFret)
	assert.Equal(1, fx.Source.LeftFinger)
	assert.Equal(0, fx.Source.RightFinger)
}

func TestReadsDynamics(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Bars[0][0].Notes[0].Dynamic = 2
	song.Tracks[0].Bars[0][1].Notes[0].Dynamic = 8

	for _, version := range []int{300, 400, 500} {
		beats := decode(t, song.Bytes(version)).Tracks[0].Staves[0].Bars[0].Voices[0].Beats

		assert := assert.New(t)
		assert.Equal(2, beats[0].Notes[0].Source.Dynamic, version)
		assert.Equal(8, beats[1].Notes[0].Source.Dynamic, version)
		assert.Equal(0, beats[2].Notes[0].Source.Dynamic, version)
	}
}

func TestGP3SlideIsAShiftFlag(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Bars[0][0].Notes[0].Slide = 1

	beats := decode(t, song.Bytes(300)).Tracks[0].Staves[0].Bars[0].Voices[0].Beats

	assert.Equal(t, raw.GP3SlideShiftFlag, beats[0].Notes[0].Source.Slide)
}

func TestReadsDurationsAndTuplets(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Bars[0] = []gptest.Beat{
		{Value: 2, Dotted: true, Notes: []gptest.Note{{String: 1}}},
		{Value: 8, Tuplet: 3, Rest: true},
		{Value: 8, Tuplet: 3, Rest: true},
		{Value: 8, Tuplet: 3, Empty: true},
	}

	beats := decode(t, song.Bytes(400)).Tracks[0].Staves[0].Bars[0].Voices[0].Beats

	assert := assert.New(t)
	assert.Equal(raw.Duration{Value: 2, Dots: 1}, beats[0].Length)
	assert.Equal(raw.Duration{Value: 8, TupletNum: 3, TupletDen: 2}, beats[1].Length)
	assert.True(beats[1].Rest)
	assert.True(beats[3].Empty)
}

func TestGP5HasTwoVoices(t *testing.T) {
	bars := decode(t, twoBarSong().Bytes(500)).Tracks[0].Staves[0].Bars

	assert := assert.New(t)
	assert.Len(bars[0].Voices, 2)
	assert.Empty(bars[0].Voices[1].Beats)
}

func TestEmptyTuningDefaultsToStandard(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Tuning = nil
	song.Tracks[0].Bars = nil

	track := decode(t, song.Bytes(500)).Tracks[0]

	assert.Equal(t, raw.DefaultTuning(model.HighToLow), track.Staves[0].Tuning)
}

func TestTuningPitchOutOfRangeIsMalformed(t *testing.T) {
	for _, pitch := range []int{-3, 128} {
		song := twoBarSong()
		song.Tracks[0].Tuning = []int{64, 59, 55, 50, 45, pitch}

		_, err := Decode(context.Background(), song.Bytes(500), nil)

		assert := assert.New(t)
		assert.Equal(taberr.Malformed, taberr.KindOf(err))
		assert.Contains(err.Error(), "tuning pitch")
	}
}

func TestPercussionChannel(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Channel = 10

	track := decode(t, song.Bytes(400)).Tracks[0]

	assert := assert.New(t)
	assert.Equal(9, track.Channel)
	assert.True(track.IsPercussion)
	assert.True(track.Staves[0].IsPercussion)
}

func TestNoteOnMissingStringIsMalformed(t *testing.T) {
	song := twoBarSong()
	song.Tracks[0].Tuning = guitar[:4]

	_, err := Decode(context.Background(), song.Bytes(500), nil)

	assert := assert.New(t)
	assert.Equal(taberr.Malformed, taberr.KindOf(err))
	assert.Contains(err.Error(), "string 6")
}

func TestEveryTruncationIsMalformed(t *testing.T) {
	for _, version := range []int{300, 500, 510} {
		data := twoBarSong().Bytes(version)
		for n := 0; n < len(data); n++ {
			song, err := Decode(context.Background(), data[:n], nil)
			if !assert.Error(t, err, "version %d cut at %d", version, n) {
				return
			}
			assert.Nil(t, song)
			assert.Equal(t, taberr.Malformed, taberr.KindOf(err), "version %d cut at %d", version, n)
		}
	}
}

func TestUnsupportedVersions(t *testing.T) {
	data := twoBarSong().Bytes(500)
	copy(data[1:], "FICHIER GUITAR PRO v2.21")

	_, err := Decode(context.Background(), data, nil)

	assert.Equal(t, taberr.Unsupported, taberr.KindOf(err))
}

func TestCanceledContextStopsDecode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, twoBarSong().Bytes(500), nil)

	assert.Equal(t, taberr.Canceled, taberr.KindOf(err))
}
