package gpif

import (
	"math"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/pkg/errors"
)

// channel strip parameters are 0..1 floats; these slots hold pan and volume
const (
	stripPan    = 11
	stripVolume = 12
)

func (d *decoder) readTrack(t *track) (raw.Track, error) {
	out := raw.Track{Name: strings.TrimSpace(t.Name), Volume: -1, Pan: -1}
	if mc := t.GeneralMidi; mc != nil {
		out.Program = atoi(mc.Program, 0)
		out.Channel = atoi(mc.PrimaryChannel, 0)
		out.IsPercussion = strings.EqualFold(mc.Table, "Percussion")
	}
	if len(t.Sounds) > 0 {
		out.Program = atoi(t.Sounds[0].Program, out.Program)
	}
	if mc := t.MidiConnection; mc != nil {
		out.Channel = atoi(mc.PrimaryChannel, out.Channel)
	}
	if out.Channel < 0 || out.Channel > 15 {
		out.Channel = 0
	}
	out.IsPercussion = out.IsPercussion || out.Channel == percussionChannel ||
		strings.EqualFold(t.InstrumentSet.Type, "drumKit")
	out.Transpose = t.Transpose.Chromatic + 12*t.Transpose.Octave

	if params := strings.Fields(t.ChannelStrip.Parameters); len(params) > stripVolume {
		out.Pan = int(math.Floor(atof(params[stripPan], 0.5) * 16))
		out.Volume = int(math.Floor(atof(params[stripVolume], 0.8) * 16))
	}

	staves := []properties{t.Properties}
	if len(t.Staves) > 0 {
		staves = staves[:0]
		for _, s := range t.Staves {
			staves = append(staves, s.Properties)
		}
	}
	for i, props := range staves {
		staff, err := readStaff(props, t.Properties)
		if err != nil {
			return out, errors.Wrapf(err, "track %q staff %d", out.Name, i)
		}
		staff.IsPercussion = out.IsPercussion
		staff.Transpose = out.Transpose
		out.Staves = append(out.Staves, staff)
	}
	return out, nil
}

// readStaff reads tuning and capo from the staff properties, falling back
// to the track level properties GP6 uses.
func readStaff(props, trackProps properties) (raw.Staff, error) {
	staff := raw.Staff{TuningOrder: model.LowToHigh}
	tuning := props.get("Tuning")
	if tuning == nil {
		tuning = trackProps.get("Tuning")
	}
	if tuning != nil {
		for _, f := range strings.Fields(tuning.Pitches) {
			p := atoi(f, -1)
			if p < 0 || p > 127 {
				return staff, malformedf("tracks", "tuning pitch %q", f)
			}
			staff.Tuning = append(staff.Tuning, p)
		}
	}
	if len(staff.Tuning) == 0 {
		staff.Tuning = raw.DefaultTuning(model.LowToHigh)
	}
	capo := props.get("CapoFret")
	if capo == nil {
		capo = trackProps.get("CapoFret")
	}
	if capo != nil {
		staff.Capo = atoi(capo.Fret, 0)
	}
	return staff, nil
}
