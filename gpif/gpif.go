// Package gpif decodes Guitar Pro 6 (GPX) and Guitar Pro 7+ files. Both
// carry the same GPIF XML document, in a BCFS file system or a zip.
package gpif

import (
	"bytes"
	"context"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/taberr"
	"golang.org/x/net/html/charset"
)

const percussionChannel = 9

type decoder struct {
	ctx    context.Context
	doc    *document
	song   *raw.Song
	bars   map[string]*bar
	voices map[string]*voice
	beats  map[string]*beat
	notes  map[string]*note
	rhythm map[string]*rhythm
	// staves in document order, matching the ids of MasterBar.Bars
	staves []*raw.Staff
}

// Decode extracts and reads the GPIF document of a GPX or GP7 file.
func Decode(ctx context.Context, data []byte, format model.FormatVersion) (*raw.Song, error) {
	content, err := Extract(data)
	if err != nil {
		return nil, err
	}
	doc, err := parse(content)
	if err != nil {
		return nil, err
	}
	d := &decoder{ctx: ctx, doc: doc, song: &raw.Song{Format: format, Version: 6}}
	if format == model.GP7 {
		d.song.Version = 7
	}
	if err := d.readSong(); err != nil {
		return nil, err
	}
	return d.song, nil
}

// parse unmarshals a GPIF document, honouring its declared charset.
func parse(content []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = charset.NewReaderLabel
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, taberr.Wrap(err, taberr.Malformed, "gpif", "bad xml document")
	}
	if doc.XMLName.Local != "GPIF" {
		return nil, taberr.Malformedf("gpif", -1, "root element is %q", doc.XMLName.Local)
	}
	if doc.MasterBars == nil || len(*doc.MasterBars) == 0 {
		return nil, taberr.Malformedf("master bars", -1, "document has no master bars")
	}
	if doc.Tracks == nil || len(*doc.Tracks) == 0 {
		return nil, taberr.Malformedf("tracks", -1, "document has no tracks")
	}
	return &doc, nil
}

func (d *decoder) readSong() error {
	d.index()
	d.readInfo()
	d.readAutomations()
	for i := range *d.doc.Tracks {
		t, err := d.readTrack(&(*d.doc.Tracks)[i])
		if err != nil {
			return err
		}
		d.song.Tracks = append(d.song.Tracks, t)
	}
	for i := range d.song.Tracks {
		for s := range d.song.Tracks[i].Staves {
			d.staves = append(d.staves, &d.song.Tracks[i].Staves[s])
		}
	}
	return d.readMasterBars()
}

func (d *decoder) index() {
	doc := d.doc
	d.bars = make(map[string]*bar, len(doc.Bars))
	for i := range doc.Bars {
		d.bars[doc.Bars[i].ID] = &doc.Bars[i]
	}
	d.voices = make(map[string]*voice, len(doc.Voices))
	for i := range doc.Voices {
		d.voices[doc.Voices[i].ID] = &doc.Voices[i]
	}
	d.beats = make(map[string]*beat, len(doc.Beats))
	for i := range doc.Beats {
		d.beats[doc.Beats[i].ID] = &doc.Beats[i]
	}
	d.notes = make(map[string]*note, len(doc.Notes))
	for i := range doc.Notes {
		d.notes[doc.Notes[i].ID] = &doc.Notes[i]
	}
	d.rhythm = make(map[string]*rhythm, len(doc.Rhythms))
	for i := range doc.Rhythms {
		d.rhythm[doc.Rhythms[i].ID] = &doc.Rhythms[i]
	}
}

func (d *decoder) readInfo() {
	sc := d.doc.Score
	s := d.song
	s.Title = strings.TrimSpace(sc.Title)
	s.Subtitle = strings.TrimSpace(sc.SubTitle)
	s.Artist = strings.TrimSpace(sc.Artist)
	s.Album = strings.TrimSpace(sc.Album)
	s.Words = strings.TrimSpace(sc.Words)
	s.Music = strings.TrimSpace(sc.Music)
	if both := strings.TrimSpace(sc.WordsAndMusic); both != "" {
		if s.Words == "" {
			s.Words = both
		}
		if s.Music == "" {
			s.Music = both
		}
	}
	s.Copyright = strings.TrimSpace(sc.Copyright)
	s.Tab = strings.TrimSpace(sc.Tabber)
	s.Instructions = strings.TrimSpace(sc.Instructions)
	for _, line := range strings.Split(sc.Notices, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			s.Notices = append(s.Notices, line)
		}
	}
}

// readAutomations picks the tempo automations: "120 2" is 120 bpm in
// quarter notes. The first one on bar 0 is the song tempo.
func (d *decoder) readAutomations() {
	for _, a := range d.doc.MasterTrack.Automations {
		if !strings.EqualFold(a.Type, "Tempo") {
			continue
		}
		fields := strings.Fields(a.Value)
		if len(fields) == 0 {
			continue
		}
		bpm, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || bpm <= 0 {
			// cosmetic, keep the default
			continue
		}
		if a.Bar <= 0 && d.song.Tempo == 0 {
			d.song.Tempo = bpm
			continue
		}
		d.song.TempoChanges = append(d.song.TempoChanges, model.TempoChange{BPM: bpm, BarIndex: a.Bar})
	}
}

func atoi(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func atof(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func ids(list string) []string {
	return strings.Fields(list)
}
