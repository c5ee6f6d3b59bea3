package gpif

import "encoding/xml"

// document mirrors the parts of a GPIF file the decoder reads. Elements
// reference each other by id through whitespace separated lists.
type document struct {
	XMLName     xml.Name
	GPVersion   string
	Score       score
	MasterTrack masterTrack
	Tracks      *[]track     `xml:"Tracks>Track"`
	MasterBars  *[]masterBar `xml:"MasterBars>MasterBar"`
	Bars        []bar        `xml:"Bars>Bar"`
	Voices      []voice      `xml:"Voices>Voice"`
	Beats       []beat       `xml:"Beats>Beat"`
	Notes       []note       `xml:"Notes>Note"`
	Rhythms     []rhythm     `xml:"Rhythms>Rhythm"`
}

type score struct {
	Title         string
	SubTitle      string
	Artist        string
	Album         string
	Words         string
	Music         string
	WordsAndMusic string
	Copyright     string
	Tabber        string
	Instructions  string
	Notices       string
}

type masterTrack struct {
	Automations []automation `xml:"Automations>Automation"`
}

type automation struct {
	Type  string
	Bar   int
	Value string
}

// property is the generic <Property name="..."> element; which child is
// set depends on the name.
type property struct {
	Name      string `xml:"name,attr"`
	Pitches   string
	Fret      string
	String    string
	Number    string
	Flags     string
	HType     string
	HFret     string
	Float     string
	Direction string
	Enable    *struct{}
}

type properties []property

func (ps properties) get(name string) *property {
	for i := range ps {
		if ps[i].Name == name {
			return &ps[i]
		}
	}
	return nil
}

func (ps properties) enabled(name string) bool {
	p := ps.get(name)
	return p != nil && p.Enable != nil
}

type midiChannel struct {
	Table          string `xml:"table,attr"`
	Program        string
	PrimaryChannel string
}

type instrumentSet struct {
	Type string
}

type sound struct {
	Program string `xml:"MIDI>Program"`
}

type channelStrip struct {
	Parameters string
}

type staff struct {
	Properties properties `xml:"Properties>Property"`
}

type transpose struct {
	Chromatic int
	Octave    int
}

type track struct {
	ID             string `xml:"id,attr"`
	Name           string
	InstrumentSet  instrumentSet
	GeneralMidi    *midiChannel
	MidiConnection *midiChannel
	Sounds         []sound `xml:"Sounds>Sound"`
	ChannelStrip   channelStrip
	Properties     properties `xml:"Properties>Property"`
	Staves         []staff    `xml:"Staves>Staff"`
	Transpose      transpose
}

type key struct {
	AccidentalCount int
	Mode            string
}

type repeat struct {
	Start bool `xml:"start,attr"`
	End   bool `xml:"end,attr"`
	Count int  `xml:"count,attr"`
}

type section struct {
	Letter string
	Text   string
}

type masterBar struct {
	Key              key
	Time             string
	Repeat           *repeat
	AlternateEndings string
	Section          *section
	DoubleBar        *struct{}
	Bars             string
}

type bar struct {
	ID     string `xml:"id,attr"`
	Voices string
}

type voice struct {
	ID    string `xml:"id,attr"`
	Beats string
}

type reference struct {
	Ref string `xml:"ref,attr"`
}

type beat struct {
	ID         string `xml:"id,attr"`
	Rhythm     reference
	Notes      string
	GraceNotes string
	Fadding    string
	Arpeggio   string
	Tremolo    string
	Dynamic    string
	Properties properties `xml:"Properties>Property"`
}

type tie struct {
	Origin      bool `xml:"origin,attr"`
	Destination bool `xml:"destination,attr"`
}

type note struct {
	ID             string     `xml:"id,attr"`
	Properties     properties `xml:"Properties>Property"`
	Tie            *tie
	Vibrato        string
	LetRing        *struct{}
	AntiAccent     string
	Accent         int
	LeftFingering  string
	RightFingering string
	Trill          string
}

type dot struct {
	Count int `xml:"count,attr"`
}

type tuplet struct {
	Num int `xml:"num,attr"`
	Den int `xml:"den,attr"`
}

type rhythm struct {
	ID              string `xml:"id,attr"`
	NoteValue       string
	AugmentationDot *dot
	PrimaryTuplet   *tuplet
}
