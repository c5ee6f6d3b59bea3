package export

import (
	"strconv"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/taberr"
)

type Document struct {
	Artist              string          `json:"artist" yaml:"artist"`
	Title               string          `json:"title" yaml:"title"`
	Album               string          `json:"album" yaml:"album"`
	Subtitle            string          `json:"subtitle" yaml:"subtitle"`
	Copyright           string          `json:"copyright" yaml:"copyright"`
	MusicBy             string          `json:"music_by" yaml:"music_by"`
	WordsBy             string          `json:"words_by" yaml:"words_by"`
	Transcriber         string          `json:"transcriber" yaml:"transcriber"`
	Instructions        string          `json:"instructions" yaml:"instructions"`
	Notices             []string        `json:"notices" yaml:"notices"`
	Tempo               float64         `json:"tempo" yaml:"tempo"`
	TicksPerBeat        int             `json:"ticks_per_beat" yaml:"ticks_per_beat"`
	GlobalTuning        []int           `json:"global_tuning" yaml:"global_tuning"`
	GlobalTuningText    []string        `json:"global_tuning_text" yaml:"global_tuning_text"`
	GlobalTuningLetters string          `json:"global_tuning_letters" yaml:"global_tuning_letters"`
	TimeSignatures      []TimeSignature `json:"time_signatures" yaml:"time_signatures"`
	KeySignatures       []KeySignature  `json:"key_signatures" yaml:"key_signatures"`
	TempoChanges        []TempoChange   `json:"tempo_changes" yaml:"tempo_changes"`
	Markers             []Marker        `json:"markers" yaml:"markers"`
	Repeats             []Repeat        `json:"repeats" yaml:"repeats"`
	Tracks              []Track         `json:"tracks" yaml:"tracks"`
}

type TimeSignature struct {
	Numerator   int `json:"numerator" yaml:"numerator"`
	Denominator int `json:"denominator" yaml:"denominator"`
	BarIndex    int `json:"bar_index" yaml:"bar_index"`
}

type KeySignature struct {
	Key      int `json:"key" yaml:"key"`
	Type     int `json:"type" yaml:"type"`
	BarIndex int `json:"bar_index" yaml:"bar_index"`
}

type TempoChange struct {
	BPM      float64 `json:"bpm" yaml:"bpm"`
	BarIndex int     `json:"bar_index" yaml:"bar_index"`
}

type Marker struct {
	Text      string `json:"text" yaml:"text"`
	ColorARGB uint32 `json:"color_argb" yaml:"color_argb"`
	BarIndex  int    `json:"bar_index" yaml:"bar_index"`
}

type Repeat struct {
	Open     bool `json:"open" yaml:"open"`
	Close    bool `json:"close" yaml:"close"`
	Count    int  `json:"count" yaml:"count"`
	BarIndex int  `json:"bar_index" yaml:"bar_index"`
}

type Track struct {
	Name         string  `json:"name" yaml:"name"`
	Program      int     `json:"program" yaml:"program"`
	Channel      int     `json:"channel" yaml:"channel"`
	IsPercussion bool    `json:"is_percussion" yaml:"is_percussion"`
	Capo         int     `json:"capo" yaml:"capo"`
	Transpose    int     `json:"transpose" yaml:"transpose"`
	Volume       int     `json:"volume" yaml:"volume"`
	Pan          int     `json:"pan" yaml:"pan"`
	Staves       []Staff `json:"staves" yaml:"staves"`
}

type Staff struct {
	Tuning        []int    `json:"tuning" yaml:"tuning"`
	TuningText    []string `json:"tuning_text" yaml:"tuning_text"`
	TuningLetters string   `json:"tuning_letters" yaml:"tuning_letters"`
	Bars          []Bar    `json:"bars" yaml:"bars"`
}

type Bar struct {
	Index           int            `json:"index" yaml:"index"`
	Start           int            `json:"start" yaml:"start"`
	RepeatOpen      bool           `json:"repeat_open" yaml:"repeat_open"`
	RepeatClose     bool           `json:"repeat_close" yaml:"repeat_close"`
	RepeatCount     int            `json:"repeat_count" yaml:"repeat_count"`
	Voltas          []int          `json:"voltas" yaml:"voltas"`
	BarlineType     int            `json:"barline_type" yaml:"barline_type"`
	TimeSigOverride *TimeSignature `json:"time_sig_override,omitempty" yaml:"time_sig_override,omitempty"`
	Marker          *Marker        `json:"marker,omitempty" yaml:"marker,omitempty"`
	Voices          []Voice        `json:"voices" yaml:"voices"`
}

type Voice struct {
	Beats []Beat `json:"beats" yaml:"beats"`
}

type Tuplet struct {
	Num int `json:"num" yaml:"num"`
	Den int `json:"den" yaml:"den"`
}

type BendPoint struct {
	Offset float64 `json:"offset" yaml:"offset"`
	Value  float64 `json:"value" yaml:"value"`
}

type Beat struct {
	ID              int         `json:"id" yaml:"id"`
	Start           int         `json:"start" yaml:"start"`
	Duration        int         `json:"duration" yaml:"duration"`
	DurationSymbol  int         `json:"duration_symbol" yaml:"duration_symbol"`
	Dots            int         `json:"dots" yaml:"dots"`
	Tuplet          Tuplet      `json:"tuplet" yaml:"tuplet"`
	IsRest          bool        `json:"is_rest" yaml:"is_rest"`
	TremoloPicking  int         `json:"tremolo_picking" yaml:"tremolo_picking"`
	FadeIn          bool        `json:"fade_in" yaml:"fade_in"`
	Arpeggio        int         `json:"arpeggio" yaml:"arpeggio"`
	BrushDirection  int         `json:"brush_direction" yaml:"brush_direction"`
	WhammyBarPoints []BendPoint `json:"whammy_bar_points" yaml:"whammy_bar_points"`
	Notes           []Note      `json:"notes" yaml:"notes"`
}

type Note struct {
	StringLow               int         `json:"string_low" yaml:"string_low"`
	StringHigh              int         `json:"string_high" yaml:"string_high"`
	Fret                    int         `json:"fret" yaml:"fret"`
	PitchMidi               int         `json:"pitch_midi" yaml:"pitch_midi"`
	Velocity                int         `json:"velocity" yaml:"velocity"`
	IsTieOrigin             bool        `json:"is_tie_origin" yaml:"is_tie_origin"`
	IsTieDestination        bool        `json:"is_tie_destination" yaml:"is_tie_destination"`
	IsGhost                 bool        `json:"is_ghost" yaml:"is_ghost"`
	IsDead                  bool        `json:"is_dead" yaml:"is_dead"`
	IsHarmonic              bool        `json:"is_harmonic" yaml:"is_harmonic"`
	HarmonicType            int         `json:"harmonic_type" yaml:"harmonic_type"`
	HarmonicValue           float64     `json:"harmonic_value" yaml:"harmonic_value"`
	IsPalmMute              bool        `json:"is_palm_mute" yaml:"is_palm_mute"`
	IsLetRing               bool        `json:"is_let_ring" yaml:"is_let_ring"`
	IsStaccato              bool        `json:"is_staccato" yaml:"is_staccato"`
	IsHammerPullOrigin      bool        `json:"is_hammer_pull_origin" yaml:"is_hammer_pull_origin"`
	IsHammerPullDestination bool        `json:"is_hammer_pull_destination" yaml:"is_hammer_pull_destination"`
	IsSlurOrigin            bool        `json:"is_slur_origin" yaml:"is_slur_origin"`
	IsSlurDestination       bool        `json:"is_slur_destination" yaml:"is_slur_destination"`
	SlideInType             int         `json:"slide_in_type" yaml:"slide_in_type"`
	SlideOutType            int         `json:"slide_out_type" yaml:"slide_out_type"`
	BendType                int         `json:"bend_type" yaml:"bend_type"`
	BendPoints              []BendPoint `json:"bend_points" yaml:"bend_points"`
	VibratoType             int         `json:"vibrato_type" yaml:"vibrato_type"`
	IsTrill                 bool        `json:"is_trill" yaml:"is_trill"`
	TrillValue              float64     `json:"trill_value" yaml:"trill_value"`
	TrillSpeed              int         `json:"trill_speed" yaml:"trill_speed"`
	IsTapped                bool        `json:"is_tapped" yaml:"is_tapped"`
	IsSlapped               bool        `json:"is_slapped" yaml:"is_slapped"`
	IsPopped                bool        `json:"is_popped" yaml:"is_popped"`
	FingeringLeft           int         `json:"fingering_left" yaml:"fingering_left"`
	FingeringRight          int         `json:"fingering_right" yaml:"fingering_right"`
	GraceType               int         `json:"grace_type" yaml:"grace_type"`
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass names the pitch class of a MIDI pitch with sharps.
func PitchClass(pitch int) string {
	return noteNames[((pitch%12)+12)%12]
}

// PitchName spells a MIDI pitch with sharps, middle C being C4.
func PitchName(pitch int) string {
	octave := pitch / 12
	if pitch < 0 && pitch%12 != 0 {
		octave--
	}
	return PitchClass(pitch) + strconv.Itoa(octave-1)
}

func tuningText(tuning []int) ([]string, string) {
	text := make([]string, len(tuning))
	var letters strings.Builder
	for i, p := range tuning {
		text[i] = PitchName(p)
		letters.WriteString(PitchClass(p))
	}
	return text, letters.String()
}

// NewDocument walks a normalized score into its exported shape.
func NewDocument(score *model.Score) (*Document, error) {
	if !score.Normalized {
		return nil, taberr.Invariantf("export", "score is not normalized")
	}
	doc := &Document{
		Artist:         score.Artist,
		Title:          score.Title,
		Album:          score.Album,
		Subtitle:       score.Subtitle,
		Copyright:      score.Copyright,
		MusicBy:        score.MusicBy,
		WordsBy:        score.WordsBy,
		Transcriber:    score.Transcriber,
		Instructions:   score.Instructions,
		Notices:        append([]string{}, score.Notices...),
		Tempo:          score.Tempo,
		TicksPerBeat:   score.TicksPerBeat,
		GlobalTuning:   []int{},
		TimeSignatures: make([]TimeSignature, len(score.TimeSignatures)),
		KeySignatures:  make([]KeySignature, len(score.KeySignatures)),
		TempoChanges:   make([]TempoChange, len(score.TempoChanges)),
		Markers:        make([]Marker, len(score.Markers)),
		Repeats:        make([]Repeat, len(score.Repeats)),
		Tracks:         make([]Track, len(score.Tracks)),
	}
	for i, ts := range score.TimeSignatures {
		doc.TimeSignatures[i] = timeSignature(ts)
	}
	for i, ks := range score.KeySignatures {
		doc.KeySignatures[i] = KeySignature{Key: ks.Key, Type: int(ks.Type), BarIndex: ks.BarIndex}
	}
	for i, tc := range score.TempoChanges {
		doc.TempoChanges[i] = TempoChange{BPM: tc.BPM, BarIndex: tc.BarIndex}
	}
	for i, m := range score.Markers {
		doc.Markers[i] = marker(m)
	}
	for i, r := range score.Repeats {
		doc.Repeats[i] = Repeat{Open: r.Open, Close: r.Close, Count: r.Count, BarIndex: r.BarIndex}
	}
	for i := range score.Tracks {
		doc.Tracks[i] = track(&score.Tracks[i])
	}
	// the first stringed staff stands for the whole score
	for _, t := range doc.Tracks {
		if t.IsPercussion || len(t.Staves) == 0 {
			continue
		}
		doc.GlobalTuning = t.Staves[0].Tuning
		doc.GlobalTuningText = t.Staves[0].TuningText
		doc.GlobalTuningLetters = t.Staves[0].TuningLetters
		break
	}
	if doc.GlobalTuningText == nil {
		doc.GlobalTuningText = []string{}
	}
	return doc, nil
}

func timeSignature(ts model.TimeSignature) TimeSignature {
	return TimeSignature{Numerator: ts.Numerator, Denominator: ts.Denominator, BarIndex: ts.BarIndex}
}

func marker(m model.Marker) Marker {
	return Marker{Text: m.Text, ColorARGB: m.ColorARGB, BarIndex: m.BarIndex}
}

func track(t *model.Track) Track {
	out := Track{
		Name:         t.Name,
		Program:      t.Program,
		Channel:      t.Channel,
		IsPercussion: t.IsPercussion,
		Capo:         t.Capo,
		Transpose:    t.Transpose,
		Volume:       t.Volume,
		Pan:          t.Pan,
		Staves:       make([]Staff, len(t.Staves)),
	}
	for i := range t.Staves {
		s := &t.Staves[i]
		text, letters := tuningText(s.Tuning)
		staff := Staff{
			Tuning:        append([]int{}, s.Tuning...),
			TuningText:    text,
			TuningLetters: letters,
			Bars:          make([]Bar, len(s.Bars)),
		}
		for j := range s.Bars {
			staff.Bars[j] = bar(&s.Bars[j])
		}
		out.Staves[i] = staff
	}
	return out
}

func bar(b *model.Bar) Bar {
	out := Bar{
		Index:       b.Index,
		Start:       b.Start,
		RepeatOpen:  b.RepeatOpen,
		RepeatClose: b.RepeatClose,
		RepeatCount: b.RepeatCount,
		Voltas:      append([]int{}, b.Voltas...),
		BarlineType: int(b.BarlineType),
		Voices:      make([]Voice, len(b.Voices)),
	}
	if b.TimeSigOverride != nil {
		ts := timeSignature(*b.TimeSigOverride)
		out.TimeSigOverride = &ts
	}
	if b.Marker != nil {
		m := marker(*b.Marker)
		out.Marker = &m
	}
	for i, v := range b.Voices {
		voice := Voice{Beats: make([]Beat, len(v.Beats))}
		for j := range v.Beats {
			voice.Beats[j] = beat(&v.Beats[j])
		}
		out.Voices[i] = voice
	}
	return out
}

func bendPoints(points []model.BendPoint) []BendPoint {
	out := make([]BendPoint, len(points))
	for i, p := range points {
		out[i] = BendPoint{Offset: p.Offset, Value: p.Value}
	}
	return out
}

func beat(b *model.Beat) Beat {
	out := Beat{
		ID:              b.ID,
		Start:           b.Start,
		Duration:        b.Duration,
		DurationSymbol:  b.Symbol,
		Dots:            b.Dots,
		Tuplet:          Tuplet{Num: b.Tuplet.Num, Den: b.Tuplet.Den},
		IsRest:          b.IsRest,
		TremoloPicking:  b.TremoloPicking,
		FadeIn:          b.FadeIn,
		Arpeggio:        int(b.Arpeggio),
		BrushDirection:  int(b.BrushDirection),
		WhammyBarPoints: bendPoints(b.WhammyBarPoints),
		Notes:           make([]Note, len(b.Notes)),
	}
	if out.Tuplet.Num == 0 {
		out.Tuplet = Tuplet{Num: 1, Den: 1}
	}
	for i := range b.Notes {
		out.Notes[i] = note(&b.Notes[i])
	}
	return out
}

func note(n *model.Note) Note {
	return Note{
		StringLow:               n.StringLow,
		StringHigh:              n.StringHigh,
		Fret:                    n.Fret,
		PitchMidi:               n.Pitch,
		Velocity:                n.Velocity,
		IsTieOrigin:             n.IsTieOrigin,
		IsTieDestination:        n.IsTieDestination,
		IsGhost:                 n.IsGhost,
		IsDead:                  n.IsDead,
		IsHarmonic:              n.HarmonicType != model.HarmonicNone,
		HarmonicType:            int(n.HarmonicType),
		HarmonicValue:           n.HarmonicValue,
		IsPalmMute:              n.IsPalmMute,
		IsLetRing:               n.IsLetRing,
		IsStaccato:              n.IsStaccato,
		IsHammerPullOrigin:      n.IsHammerPullOrigin,
		IsHammerPullDestination: n.IsHammerPullDestination,
		IsSlurOrigin:            n.IsSlurOrigin,
		IsSlurDestination:       n.IsSlurDestination,
		SlideInType:             int(n.SlideInType),
		SlideOutType:            int(n.SlideOutType),
		BendType:                int(n.BendType),
		BendPoints:              bendPoints(n.BendPoints),
		VibratoType:             int(n.VibratoType),
		IsTrill:                 n.IsTrill,
		TrillValue:              float64(n.TrillValue),
		TrillSpeed:              n.TrillSpeed,
		IsTapped:                n.IsTapped,
		IsSlapped:               n.IsSlapped,
		IsPopped:                n.IsPopped,
		FingeringLeft:           int(n.FingeringLeft),
		FingeringRight:          int(n.FingeringRight),
		GraceType:               int(n.GraceType),
	}
}
