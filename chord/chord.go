// Package chord finds the chords a normalized score strikes: beats that
// start two or more sounding notes at once.
package chord

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/tabdex/model"
)

type Chord struct {
	Key      string
	Pitches  []int
	Track    int
	BarIndex int
	// Tick is absolute, in the score's ticks.
	Tick     int
}

// CreateChordKey joins the pitches in ascending order, e.g. "40-47-52".
// The input is not reordered.
func CreateChordKey(pitches []int) string {
	sorted := append([]int(nil), pitches...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "-")
}

// FromScore lists chords of every stringed track in score order. Dead notes
// and tie destinations do not strike.
func FromScore(score *model.Score) []Chord {
	var res []Chord
	for ti, t := range score.Tracks {
		if t.IsPercussion {
			continue
		}
		for _, s := range t.Staves {
			for _, b := range s.Bars {
				for _, v := range b.Voices {
					for _, beat := range v.Beats {
						pitches := struck(beat.Notes)
						if len(pitches) < 2 {
							continue
						}
						res = append(res, Chord{
							Key:      CreateChordKey(pitches),
							Pitches:  pitches,
							Track:    ti,
							BarIndex: b.Index,
							Tick:     b.Start + beat.Start,
						})
					}
				}
			}
		}
	}
	return res
}

func struck(notes []model.Note) []int {
	seen := map[int]bool{}
	var res []int
	for _, n := range notes {
		if n.IsDead || n.IsTieDestination || seen[n.Pitch] {
			continue
		}
		seen[n.Pitch] = true
		res = append(res, n.Pitch)
	}
	sort.Ints(res)
	return res
}

type KeyCount struct {
	Key   string
	Count int
}

// RankKeys counts chords per key, most frequent first and then by key.
func RankKeys(chords []Chord) []KeyCount {
	counts := map[string]int{}
	for _, c := range chords {
		counts[c.Key]++
	}
	res := make([]KeyCount, 0, len(counts))
	for k, n := range counts {
		res = append(res, KeyCount{Key: k, Count: n})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	return res
}
