package gpif

import (
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/pkg/errors"
)

var noteValues = map[string]int{
	"Whole":   1,
	"Half":    2,
	"Quarter": 4,
	"Eighth":  8,
	"16th":    16,
	"32nd":    32,
	"64th":    64,
	"128th":   128,
}

const (
	maxDots   = 2
	maxTuplet = 128
)

var dynamics = map[string]int{
	"PPP": 1,
	"PP":  2,
	"P":   3,
	"MP":  4,
	"MF":  5,
	"F":   6,
	"FF":  7,
	"FFF": 8,
}

var tremoloSpeeds = map[string]int{
	"1/2": raw.Speed1,
	"1/4": raw.Speed2,
	"1/8": raw.Speed3,
}

var fingers = map[string]int{
	"P": int(model.FingerThumb),
	"I": int(model.FingerIndex),
	"M": int(model.FingerMiddle),
	"A": int(model.FingerAnnular),
	"C": int(model.FingerLittle),
}

func (d *decoder) readMasterBars() error {
	prev := raw.MasterBar{Numerator: 4, Denominator: 4}
	for i := range *d.doc.MasterBars {
		if err := d.ctx.Err(); err != nil {
			return taberr.Wrap(err, taberr.Canceled, "master bars", "decode canceled")
		}
		mb := &(*d.doc.MasterBars)[i]
		out, err := readMasterBar(mb, prev)
		if err != nil {
			return errors.Wrapf(err, "master bar %d", i)
		}
		d.song.MasterBars = append(d.song.MasterBars, out)
		prev = out
		barIDs := ids(mb.Bars)
		if len(barIDs) > len(d.staves) {
			return errors.Wrapf(malformedf("master bars", "%d bar ids for %d staves", len(barIDs), len(d.staves)), "master bar %d", i)
		}
		for s, id := range barIDs {
			bar, err := d.readBar(id, d.staves[s])
			if err != nil {
				return errors.Wrapf(err, "master bar %d staff %d", i, s)
			}
			d.staves[s].Bars = append(d.staves[s].Bars, bar)
		}
	}
	return nil
}

func readMasterBar(mb *masterBar, prev raw.MasterBar) (raw.MasterBar, error) {
	out := raw.MasterBar{
		Numerator:   prev.Numerator,
		Denominator: prev.Denominator,
		Key:         mb.Key.AccidentalCount,
		KeyType:     model.Major,
	}
	if strings.EqualFold(mb.Key.Mode, "Minor") {
		out.KeyType = model.Minor
	}
	if t := strings.TrimSpace(mb.Time); t != "" {
		parts := strings.Split(t, "/")
		if len(parts) != 2 {
			return out, malformedf("master bars", "time signature %q", t)
		}
		out.Numerator, out.Denominator = atoi(parts[0], 0), atoi(parts[1], 0)
	}
	if out.Numerator < 1 || out.Numerator > 32 || !validDenominator(out.Denominator) {
		return out, malformedf("master bars", "time signature %d/%d", out.Numerator, out.Denominator)
	}
	if r := mb.Repeat; r != nil {
		out.RepeatOpen = r.Start
		if r.End {
			out.RepeatCount = r.Count
			if out.RepeatCount < 2 {
				out.RepeatCount = 2
			}
		}
	}
	if endings := ids(mb.AlternateEndings); len(endings) > 0 {
		flags := 0
		for _, e := range endings {
			n := atoi(e, 0)
			if n < 1 || n > 8 {
				return out, malformedf("master bars", "alternate ending %q", e)
			}
			flags |= 1 << (n - 1)
		}
		out.Endings = model.Endings{Encoding: model.EndingBitflags, Value: flags}
	}
	if s := mb.Section; s != nil {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			text = strings.TrimSpace(s.Letter)
		}
		out.Marker = &model.Marker{Text: text}
	}
	out.DoubleBar = mb.DoubleBar != nil
	return out, nil
}

func validDenominator(den int) bool {
	switch den {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}

func (d *decoder) readBar(id string, staff *raw.Staff) (raw.Bar, error) {
	var out raw.Bar
	b, ok := d.bars[id]
	if !ok {
		return out, malformedf("bars", "unknown bar id %q", id)
	}
	for _, vid := range ids(b.Voices) {
		if vid == "-1" {
			continue
		}
		v, ok := d.voices[vid]
		if !ok {
			return out, malformedf("voices", "unknown voice id %q", vid)
		}
		var voice raw.Voice
		for _, bid := range ids(v.Beats) {
			beat, err := d.readBeat(bid, staff)
			if err != nil {
				return out, err
			}
			voice.Beats = append(voice.Beats, beat)
		}
		out.Voices = append(out.Voices, voice)
	}
	return out, nil
}

func (d *decoder) readBeat(id string, staff *raw.Staff) (raw.Beat, error) {
	var out raw.Beat
	b, ok := d.beats[id]
	if !ok {
		return out, malformedf("beats", "unknown beat id %q", id)
	}
	r, ok := d.rhythm[b.Rhythm.Ref]
	if !ok {
		return out, malformedf("rhythms", "beat %s has unknown rhythm %q", id, b.Rhythm.Ref)
	}
	value, ok := noteValues[strings.TrimSpace(r.NoteValue)]
	if !ok {
		return out, taberr.Unsupportedf("rhythms", "note value %q", r.NoteValue)
	}
	out.Length.Value = value
	if r.AugmentationDot != nil {
		out.Length.Dots = r.AugmentationDot.Count
		if out.Length.Dots < 0 || out.Length.Dots > maxDots {
			return out, malformedf("rhythms", "rhythm %s has %d dots", r.ID, out.Length.Dots)
		}
	}
	if t := r.PrimaryTuplet; t != nil {
		if t.Num < 0 || t.Num > maxTuplet || t.Den < 0 || t.Den > maxTuplet {
			return out, malformedf("rhythms", "rhythm %s has tuplet %d:%d", r.ID, t.Num, t.Den)
		}
		if t.Num > 0 && t.Den > 0 && t.Num != t.Den {
			out.Length.TupletNum, out.Length.TupletDen = t.Num, t.Den
		}
	}

	out.FadeIn = strings.EqualFold(b.Fadding, "FadeIn")
	out.Source.Arpeggio = direction(b.Arpeggio)
	out.Source.Tremolo = tremoloSpeeds[strings.TrimSpace(b.Tremolo)]
	if p := b.Properties.get("Brush"); p != nil {
		out.Source.Brush = direction(p.Direction)
	}
	if b.Properties.enabled("WhammyBar") {
		out.WhammyBarPoints = bendPoints(b.Properties, "WhammyBar")
	}
	grace := 0
	switch strings.TrimSpace(b.GraceNotes) {
	case "BeforeBeat":
		grace = raw.GraceBefore
	case "OnBeat":
		grace = raw.GraceOnBeat
	}
	out.Grace = grace != 0

	for _, nid := range ids(b.Notes) {
		n, ok := d.notes[nid]
		if !ok {
			return out, malformedf("notes", "unknown note id %q", nid)
		}
		note, err := readNote(n, staff)
		if err != nil {
			return out, errors.Wrapf(err, "beat %s", id)
		}
		note.Source.Grace = grace
		note.Source.Dynamic = dynamics[strings.ToUpper(strings.TrimSpace(b.Dynamic))]
		note.IsSlapped = b.Properties.enabled("Slapped")
		note.IsPopped = b.Properties.enabled("Popped")
		out.Notes = append(out.Notes, note)
	}
	out.Rest = len(out.Notes) == 0
	return out, nil
}

func direction(s string) int {
	switch strings.TrimSpace(s) {
	case "Up":
		return raw.DirectionUp
	case "Down":
		return raw.DirectionDown
	}
	return 0
}

// bendPoints builds origin, middle and destination points from the
// Bend* or WhammyBar* float properties. Offsets run 0..100.
func bendPoints(props properties, prefix string) []model.BendPoint {
	get := func(name string, def float64) (float64, bool) {
		p := props.get(prefix + name)
		if p == nil {
			return def, false
		}
		return atof(p.Float, def), true
	}
	var points []model.BendPoint
	value, _ := get("OriginValue", 0)
	offset, _ := get("OriginOffset", 0)
	points = append(points, model.BendPoint{Offset: offset, Value: value})
	if value, ok := get("MiddleValue", 0); ok {
		offset, _ := get("MiddleOffset1", raw.GPIFBendPosition/2)
		points = append(points, model.BendPoint{Offset: offset, Value: value})
	}
	value, _ = get("DestinationValue", 0)
	offset, _ = get("DestinationOffset", raw.GPIFBendPosition)
	points = append(points, model.BendPoint{Offset: offset, Value: value})
	return points
}

func readNote(n *note, staff *raw.Staff) (model.Note, error) {
	out := model.Note{
		Source: model.NoteCodes{
			LeftFinger:  raw.FingerAbsent,
			RightFinger: raw.FingerAbsent,
		},
	}
	props := n.Properties
	if p := props.get("String"); p != nil {
		out.Source.String = atoi(p.String, -1)
		if out.Source.String < 0 || out.Source.String >= len(staff.Tuning) {
			return out, malformedf("notes", "note %s on string %q of a %d string staff", n.ID, p.String, len(staff.Tuning))
		}
	}
	if p := props.get("Fret"); p != nil {
		out.Fret = atoi(p.Fret, -1)
		if out.Fret < 0 || out.Fret > 99 {
			return out, malformedf("notes", "note %s fret %q", n.ID, p.Fret)
		}
	}
	if p := props.get("Midi"); p != nil {
		out.Source.MidiPitch = atoi(p.Number, 0)
	}
	if t := n.Tie; t != nil {
		out.IsTieOrigin = t.Origin
		out.IsTieDestination = t.Destination
	}
	out.IsHammerPullOrigin = props.enabled("HopoOrigin")
	out.IsHammerPullDestination = props.enabled("HopoDestination")
	out.IsTapped = props.enabled("Tapped") || props.enabled("LeftHandTapped")
	out.IsDead = props.enabled("Muted")
	out.IsPalmMute = props.enabled("PalmMuted")
	out.IsLetRing = n.LetRing != nil
	out.IsGhost = strings.TrimSpace(n.AntiAccent) != ""
	out.IsStaccato = n.Accent&0x01 != 0
	if p := props.get("Slide"); p != nil {
		out.Source.Slide = atoi(p.Flags, 0)
	}
	if p := props.get("HarmonicType"); p != nil {
		out.Source.Harmonic = harmonicCode(p.HType)
	}
	if p := props.get("HarmonicFret"); p != nil {
		out.Source.HarmonicFret = atof(p.HFret, 0)
	}
	if props.enabled("Bended") {
		out.BendPoints = bendPoints(props, "Bend")
	}
	switch strings.TrimSpace(n.Vibrato) {
	case "Slight":
		out.Source.Vibrato = raw.VibratoSlight
	case "Wide":
		out.Source.Vibrato = raw.VibratoWide
	}
	if f, ok := fingers[strings.TrimSpace(n.LeftFingering)]; ok {
		out.Source.LeftFinger = f
	}
	if f, ok := fingers[strings.TrimSpace(n.RightFingering)]; ok {
		out.Source.RightFinger = f
	}
	// the trill holds the pitch of the alternate note
	if pitch := atoi(n.Trill, -1); pitch >= 0 {
		out.IsTrill = true
		out.Source.TrillFret = pitch - staff.Tuning[out.Source.String]
		out.Source.TrillSpeed = raw.Speed1
	}
	return out, nil
}

func harmonicCode(s string) int {
	switch strings.TrimSpace(s) {
	case "Natural":
		return raw.HarmonicNatural
	case "Artificial":
		return raw.HarmonicArtificial
	case "Tap":
		return raw.HarmonicTap
	case "Pinch":
		return raw.HarmonicPinch
	case "Semi":
		return raw.HarmonicSemi
	case "Feedback":
		return raw.HarmonicFeedback
	}
	return 0
}
