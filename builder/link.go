package builder

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
)

// link connects ties, hammer-ons/pull-offs and legato slurs to the next
// note on the same string in the same voice, across bar lines. A rest ends
// every open connection.
func link(format model.FormatVersion, bars []model.Bar) {
	voices := 0
	for _, bar := range bars {
		if len(bar.Voices) > voices {
			voices = len(bar.Voices)
		}
	}
	for v := 0; v < voices; v++ {
		last := map[int]*model.Note{}
		for i := range bars {
			if v >= len(bars[i].Voices) {
				continue
			}
			beats := bars[i].Voices[v].Beats
			for j := range beats {
				if beats[j].IsRest {
					last = map[int]*model.Note{}
					continue
				}
				for k := range beats[j].Notes {
					n := &beats[j].Notes[k]
					prev := last[n.Source.String]
					if n.IsTieDestination {
						if prev == nil {
							n.IsTieDestination = false
						} else {
							prev.IsTieOrigin = true
							n.Fret = prev.Fret
						}
					}
					if prev != nil {
						if prev.IsHammerPullOrigin {
							n.IsHammerPullDestination = true
						}
						if prev.IsSlurOrigin {
							n.IsSlurDestination = true
						}
					}
					if raw.IsLegatoSlide(format, n.Source.Slide) {
						n.IsSlurOrigin = true
					}
					last[n.Source.String] = n
				}
			}
		}
	}
}
