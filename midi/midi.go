// Package midi renders a normalized score as a Standard MIDI File and reads
// such files back.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

const (
	defaultVelocity = 95
	// ghost notes sound one dynamic step softer
	ghostStep       = 16
	minVelocity     = 1
	ccVolume        = 7
	ccPan           = 10
)

// event is a message at an absolute tick. Lower rank goes first on a tie.
type event struct {
	tick int
	rank int
	msg  []byte
}

type span struct {
	start int
	end   int
	pitch int
	vel   int
}

// Render builds a format 1 file: a conductor track followed by one track per
// score track. Tied notes sound as one note and dead notes are silent.
func Render(score *model.Score) (*smf.SMF, error) {
	if !score.Normalized {
		return nil, taberr.Invariantf("midi", "score is not normalized")
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(score.TicksPerBeat)
	if err := s.Add(conductor(score)); err != nil {
		return nil, errors.Wrap(err, "add conductor track")
	}
	for i := range score.Tracks {
		if err := s.Add(track(&score.Tracks[i])); err != nil {
			return nil, errors.Wrapf(err, "add track %d", i)
		}
	}
	return s, nil
}

// Write renders score and writes the file to w.
func Write(w io.Writer, score *model.Score) error {
	s, err := Render(score)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "write midi")
}

// barStarts maps bar indices to ticks using the first staff of the score.
func barStarts(score *model.Score) []int {
	for _, t := range score.Tracks {
		for _, s := range t.Staves {
			res := make([]int, len(s.Bars))
			for i, b := range s.Bars {
				res[i] = b.Start
			}
			return res
		}
	}
	return nil
}

func conductor(score *model.Score) smf.Track {
	starts := barStarts(score)
	at := func(bar int) int {
		if bar >= 0 && bar < len(starts) {
			return starts[bar]
		}
		return 0
	}
	events := []event{
		{tick: 0, msg: smf.MetaTrackSequenceName(score.Title)},
		{tick: 0, rank: 1, msg: smf.MetaTempo(score.Tempo)},
	}
	for _, ts := range score.TimeSignatures {
		events = append(events, event{tick: at(ts.BarIndex), rank: 1, msg: smf.MetaMeter(uint8(ts.Numerator), uint8(ts.Denominator))})
	}
	for _, tc := range score.TempoChanges {
		events = append(events, event{tick: at(tc.BarIndex), rank: 2, msg: smf.MetaTempo(tc.BPM)})
	}
	for _, m := range score.Markers {
		events = append(events, event{tick: at(m.BarIndex), rank: 3, msg: smf.MetaMarker(m.Text)})
	}
	return toTrack(events)
}

func track(t *model.Track) smf.Track {
	ch := uint8(t.Channel & 0x0F)
	events := []event{
		{tick: 0, msg: smf.MetaTrackSequenceName(t.Name)},
		{tick: 0, rank: 1, msg: midi.ProgramChange(ch, uint8(t.Program&0x7F))},
		{tick: 0, rank: 1, msg: midi.ControlChange(ch, ccVolume, uint8(t.Volume&0x7F))},
		{tick: 0, rank: 1, msg: midi.ControlChange(ch, ccPan, uint8(t.Pan&0x7F))},
	}
	for _, s := range t.Staves {
		for _, n := range spans(s.Bars) {
			events = append(events,
				event{tick: n.start, rank: 3, msg: midi.NoteOn(ch, uint8(n.pitch), uint8(n.vel))},
				event{tick: n.end, rank: 2, msg: midi.NoteOff(ch, uint8(n.pitch))},
			)
		}
	}
	return toTrack(events)
}

// spans collects sounding notes per voice, extending tie origins over their
// destinations.
func spans(bars []model.Bar) []span {
	var res []span
	voices := 0
	for _, b := range bars {
		voices = util.Max(voices, len(b.Voices))
	}
	for v := 0; v < voices; v++ {
		open := map[int]int{}
		for _, b := range bars {
			if v >= len(b.Voices) {
				continue
			}
			for _, beat := range b.Voices[v].Beats {
				start := b.Start + beat.Start
				end := start + beat.Duration
				for _, n := range beat.Notes {
					if n.IsTieDestination {
						if i, ok := open[n.StringLow]; ok {
							res[i].end = end
							continue
						}
					}
					delete(open, n.StringLow)
					if n.IsDead || beat.Duration == 0 {
						continue
					}
					vel := n.Velocity
					if vel <= 0 {
						vel = defaultVelocity
					}
					if n.IsGhost {
						vel = util.Max(vel-ghostStep, minVelocity)
					}
					res = append(res, span{start: start, end: end, pitch: n.Pitch, vel: vel})
					open[n.StringLow] = len(res) - 1
				}
			}
		}
	}
	return res
}

func toTrack(events []event) smf.Track {
	slices.SortStableFunc(events, func(a, b event) bool {
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		return a.rank < b.rank
	})
	var tr smf.Track
	last := 0
	for _, e := range events {
		tr.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

// Read parses a MIDI file. The parser panics on some corrupt input, which is
// reported as an error.
func Read(r io.Reader) (s *smf.SMF, e error) {
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s, e = nil, fmt.Errorf("parsing midi: %v", rec)
		}
	}()
	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi")
	}
	return res, nil
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return Read(bytes.NewReader(dat))
}

type TrackSummary struct {
	Name    string
	Program int
	Channel int
	Notes   int
	// Length is the tick of the last note off.
	Length  int
}

type Summary struct {
	TicksPerQuarter int
	Tempos          []float64
	Tracks          []TrackSummary
}

// Summarize counts what a file holds, for checking rendered output.
func Summarize(s *smf.SMF) Summary {
	var res Summary
	if tf, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.TicksPerQuarter = int(tf)
	}
	for i, tr := range s.Tracks {
		var ts TrackSummary
		tick := 0
		for _, ev := range tr {
			tick += int(ev.Delta)
			msg := ev.Message
			var name string
			var bpm float64
			var ch, key, vel, prog uint8
			switch {
			case msg.GetMetaTrackName(&name):
				ts.Name = name
			case msg.GetMetaTempo(&bpm):
				res.Tempos = append(res.Tempos, bpm)
			case midi.Message(msg).GetProgramChange(&ch, &prog):
				ts.Program = int(prog)
				ts.Channel = int(ch)
			case midi.Message(msg).GetNoteStart(&ch, &key, &vel):
				ts.Notes++
			case midi.Message(msg).GetNoteEnd(&ch, &key):
				ts.Length = tick
			}
		}
		// the conductor carries no notes
		if i > 0 {
			res.Tracks = append(res.Tracks, ts)
		}
	}
	return res
}
