package chord

import (
	"testing"

	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notes(pitches ...int) []model.Note {
	var res []model.Note
	for _, p := range pitches {
		res = append(res, model.Note{Pitch: p})
	}
	return res
}

func TestCreateChordKeySortsACopy(t *testing.T) {
	pitches := []int{64, 40, 52}
	assert := assert.New(t)
	assert.Equal("40-52-64", CreateChordKey(pitches))
	assert.Equal([]int{64, 40, 52}, pitches)
	assert.Equal("", CreateChordKey(nil))
}

func TestFromScore(t *testing.T) {
	dead := notes(45)
	dead[0].IsDead = true
	tied := notes(47)
	tied[0].IsTieDestination = true
	score := &model.Score{Tracks: []model.Track{
		{Staves: []model.Staff{{Bars: []model.Bar{
			{Index: 0, Voices: []model.Voice{{Beats: []model.Beat{
				{Start: 0, Notes: notes(52, 40, 47)},
				{Start: 960, Notes: notes(40)},
				{Start: 1920, Notes: append(notes(40), dead...)},
			}}}},
			{Index: 1, Start: 3840, Voices: []model.Voice{{Beats: []model.Beat{
				{Start: 480, Notes: append(notes(40, 40, 52), tied...)},
			}}}},
		}}}},
		{IsPercussion: true, Staves: []model.Staff{{Bars: []model.Bar{
			{Voices: []model.Voice{{Beats: []model.Beat{{Notes: notes(36, 42)}}}}},
		}}}},
	}}

	chords := FromScore(score)
	require.Len(t, chords, 2)

	assert := assert.New(t)
	assert.Equal("40-47-52", chords[0].Key)
	assert.Equal([]int{40, 47, 52}, chords[0].Pitches)
	assert.Equal(0, chords[0].Tick)
	assert.Equal("40-52", chords[1].Key)
	assert.Equal(1, chords[1].BarIndex)
	assert.Equal(4320, chords[1].Tick)
}

func TestRankKeys(t *testing.T) {
	chords := []Chord{{Key: "b"}, {Key: "a"}, {Key: "c"}, {Key: "c"}}
	assert.Equal(t, []KeyCount{{"c", 2}, {"a", 1}, {"b", 1}}, RankKeys(chords))
}
