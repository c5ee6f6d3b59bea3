// Package gptest builds small Guitar Pro files for tests: binary GP3, GP4
// and GP5 songs, and GPX/GP7 containers around a GPIF document.
package gptest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

type Note struct {
	// String is 1 for the highest string, as Guitar Pro numbers them.
	String  int
	Fret    int
	Tie     bool
	Dead    bool
	Ghost   bool
	// Dynamic is written when non-zero: 1 ppp ... 8 fff.
	Dynamic int

	HammerOn    bool
	LetRing     bool
	PalmMute    bool
	// Slide is the raw code: a GP4 signed code or a GP5 flag set. Any
	// non-zero value marks a GP3 shift slide.
	Slide       int
	Harmonic    int
	// Fingering writes left/right fingers when set.
	Fingering   bool
	LeftFinger  int
	RightFinger int
}

type Beat struct {
	// Value is the note value: 1 whole ... 64; zero means a quarter.
	Value  int
	Dotted bool
	Tuplet int
	Rest   bool
	Empty  bool
	// Tempo writes a mix table with a tempo change when > 0.
	Tempo  int
	Notes  []Note
}

type MasterBar struct {
	// Numerator and Denominator are written when non-zero.
	Numerator   int
	Denominator int
	RepeatOpen  bool
	// RepeatClose is the number of passes of a closing repeat.
	RepeatClose int
	// Ending is a GP3/GP4 range or a GP5 bit set.
	Ending      int
	Marker      string
	DoubleBar   bool
}

type Track struct {
	Name       string
	// Tuning is high to low, as the file stores it.
	Tuning     []int
	Channel    int
	Capo       int
	Percussion bool
	// Bars holds the first voice of each bar; missing bars are written empty.
	Bars       [][]Beat
}

type Song struct {
	Title      string
	Artist     string
	Tempo      int
	Key        int
	// Programs maps a channel-table index to a midi program.
	Programs   map[int]int
	MasterBars []MasterBar
	Tracks     []Track
}

// Bytes encodes the song in the binary layout of version 300, 400, 500 or 510.
func (s Song) Bytes(version int) []byte {
	w := &writer{version: version}
	w.header(s)
	for i, mb := range s.MasterBars {
		w.masterBar(i, mb)
	}
	for i, t := range s.Tracks {
		w.track(i, t)
	}
	switch {
	case version == 500:
		w.zeros(2)
	case version > 500:
		w.zeros(1)
	}
	for i := range s.MasterBars {
		for _, t := range s.Tracks {
			var beats []Beat
			if i < len(t.Bars) {
				beats = t.Bars[i]
			}
			w.int(len(beats))
			for _, b := range beats {
				w.beat(b)
			}
			if version >= 500 {
				// empty second voice, line break
				w.int(0)
				w.byte(0)
			}
		}
	}
	return w.buf.Bytes()
}

type writer struct {
	buf     bytes.Buffer
	version int
}

func (w *writer) byte(b int) {
	w.buf.WriteByte(byte(b))
}

func (w *writer) zeros(n int) {
	w.buf.Write(make([]byte, n))
}

func (w *writer) int(v int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	w.buf.Write(b[:])
}

func (w *writer) int16(v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
	w.buf.Write(b[:])
}

func (w *writer) byteSizeString(s string, width int) {
	w.byte(len(s))
	w.buf.WriteString(s)
	w.zeros(width - len(s))
}

func (w *writer) intByteSizeString(s string) {
	w.int(len(s) + 1)
	w.byte(len(s))
	w.buf.WriteString(s)
}

func (w *writer) header(s Song) {
	v := w.version
	w.byteSizeString(fmt.Sprintf("FICHIER GUITAR PRO v%d.%02d", v/100, v%100), 30)
	fields := []string{s.Title, "", s.Artist, "", ""}
	if v >= 500 {
		fields = append(fields, "")
	}
	fields = append(fields, "", "", "")
	for _, f := range fields {
		w.intByteSizeString(f)
	}
	// notices
	w.int(0)
	if v < 500 {
		w.byte(0)
	}
	if v >= 400 {
		w.int(0)
		for i := 0; i < 5; i++ {
			w.int(0)
			w.int(0)
		}
	}
	if v >= 510 {
		w.zeros(19)
	}
	if v >= 500 {
		w.zeros(30)
		for i := 0; i < 11; i++ {
			w.intByteSizeString("")
		}
	}
	w.int(s.Tempo)
	if v >= 510 {
		w.byte(0)
	}
	if v >= 500 {
		w.byte(s.Key)
		w.zeros(4)
	} else {
		w.int(s.Key)
		if v >= 400 {
			w.byte(0)
		}
	}
	for i := 0; i < 64; i++ {
		w.int(s.Programs[i])
		w.buf.Write([]byte{13, 8, 0, 0, 0, 0, 0, 0})
	}
	if v >= 500 {
		w.zeros(42)
	}
	w.int(len(s.MasterBars))
	w.int(len(s.Tracks))
}

func (w *writer) masterBar(i int, mb MasterBar) {
	if w.version >= 500 && i > 0 {
		w.byte(0)
	}
	flags := 0
	if mb.Numerator > 0 {
		flags |= 0x01
	}
	if mb.Denominator > 0 {
		flags |= 0x02
	}
	if mb.RepeatOpen {
		flags |= 0x04
	}
	if mb.RepeatClose > 0 {
		flags |= 0x08
	}
	if mb.Ending > 0 {
		flags |= 0x10
	}
	if mb.Marker != "" {
		flags |= 0x20
	}
	if mb.DoubleBar {
		flags |= 0x80
	}
	w.byte(flags)
	if mb.Numerator > 0 {
		w.byte(mb.Numerator)
	}
	if mb.Denominator > 0 {
		w.byte(mb.Denominator)
	}
	if mb.RepeatClose > 0 {
		if w.version < 500 {
			w.byte(mb.RepeatClose - 1)
		} else {
			w.byte(mb.RepeatClose)
		}
	}
	if mb.Ending > 0 && w.version < 500 {
		w.byte(mb.Ending)
	}
	if mb.Marker != "" {
		w.intByteSizeString(mb.Marker)
		w.buf.Write([]byte{255, 0, 0, 0})
	}
	if w.version >= 500 {
		if flags&0x03 != 0 {
			w.zeros(4)
		}
		w.byte(mb.Ending)
		w.byte(0)
	}
}

func (w *writer) track(i int, t Track) {
	v := w.version
	if v >= 500 && (i == 0 || v == 500) {
		w.byte(0)
	}
	flags := 0
	if t.Percussion {
		flags |= 0x01
	}
	w.byte(flags)
	w.byteSizeString(t.Name, 40)
	w.int(len(t.Tuning))
	for s := 0; s < 7; s++ {
		if s < len(t.Tuning) {
			w.int(t.Tuning[s])
		} else {
			w.int(0)
		}
	}
	// port, channel, effect channel, frets, capo, colour
	w.int(1)
	w.int(t.Channel)
	w.int(t.Channel)
	w.int(24)
	w.int(t.Capo)
	w.zeros(4)
	if v >= 500 {
		w.zeros(29)
		if v == 500 {
			w.zeros(15)
		} else {
			w.zeros(16 + 4)
			w.intByteSizeString("")
			w.intByteSizeString("")
		}
	}
}

// durationCode maps a note value to the signed code: whole -2 ... 64th 4.
func durationCode(value int) int {
	if value == 0 {
		value = 4
	}
	code := -2
	for n := 1; n < value; n <<= 1 {
		code++
	}
	return code
}

func (w *writer) beat(b Beat) {
	flags := 0
	if b.Dotted {
		flags |= 0x01
	}
	if b.Rest || b.Empty {
		flags |= 0x40
	}
	if b.Tuplet > 0 {
		flags |= 0x20
	}
	if b.Tempo > 0 {
		flags |= 0x10
	}
	w.byte(flags)
	if b.Rest || b.Empty {
		if b.Empty {
			w.byte(0)
		} else {
			w.byte(2)
		}
	}
	w.byte(durationCode(b.Value))
	if b.Tuplet > 0 {
		w.int(b.Tuplet)
	}
	if b.Tempo > 0 {
		w.mixTable(b.Tempo)
	}
	notes := append([]Note(nil), b.Notes...)
	sort.Slice(notes, func(i, j int) bool { return notes[i].String < notes[j].String })
	mask := 0
	for _, n := range notes {
		mask |= 1 << (7 - n.String)
	}
	w.byte(mask)
	for _, n := range notes {
		w.note(n)
	}
	if w.version >= 500 {
		w.int16(0)
	}
}

func (w *writer) mixTable(tempo int) {
	v := w.version
	w.byte(0xff)
	if v >= 500 {
		w.zeros(16)
	}
	w.buf.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if v >= 500 {
		w.intByteSizeString("")
	}
	w.int(tempo)
	w.byte(0)
	if v >= 510 {
		w.byte(0)
	}
	if v >= 400 {
		w.byte(0)
	}
	if v >= 500 {
		w.byte(0xff)
	}
	if v >= 510 {
		w.intByteSizeString("")
		w.intByteSizeString("")
	}
}

func (n Note) hasEffects() bool {
	return n.HammerOn || n.LetRing || n.PalmMute || n.Slide != 0 || n.Harmonic != 0
}

func (w *writer) note(n Note) {
	flags := 0x20
	if n.Ghost {
		flags |= 0x04
	}
	if n.Fingering {
		flags |= 0x80
	}
	if n.hasEffects() {
		flags |= 0x08
	}
	if n.Dynamic != 0 {
		flags |= 0x10
	}
	w.byte(flags)
	switch {
	case n.Tie:
		w.byte(2)
	case n.Dead:
		w.byte(3)
	default:
		w.byte(1)
	}
	if n.Dynamic != 0 {
		w.byte(n.Dynamic)
	}
	w.byte(n.Fret)
	if n.Fingering {
		w.byte(n.LeftFinger)
		w.byte(n.RightFinger)
	}
	if w.version >= 500 {
		w.byte(0)
	}
	if n.hasEffects() {
		w.noteEffects(n)
	}
}

func (w *writer) noteEffects(n Note) {
	flags := 0
	if n.HammerOn {
		flags |= 0x02
	}
	if n.LetRing {
		flags |= 0x08
	}
	if w.version < 400 {
		if n.Slide != 0 {
			flags |= 0x04
		}
		w.byte(flags)
		return
	}
	flags2 := 0
	if n.PalmMute {
		flags2 |= 0x02
	}
	if n.Slide != 0 {
		flags2 |= 0x08
	}
	if n.Harmonic != 0 {
		flags2 |= 0x10
	}
	w.byte(flags)
	w.byte(flags2)
	if n.Slide != 0 {
		w.byte(n.Slide)
	}
	if n.Harmonic != 0 {
		w.byte(n.Harmonic)
		if w.version >= 500 {
			switch n.Harmonic {
			case 2:
				w.zeros(3)
			case 3:
				w.byte(12)
			}
		}
	}
}
