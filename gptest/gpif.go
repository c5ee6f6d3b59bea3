package gptest

// ScoreGPIF is a two bar, one track GPIF document in the Guitar Pro 7
// layout: a 4/4 bar opening a repeat and a 3/4 bar closing it, with
// endings 1 and 3.
const ScoreGPIF = `<?xml version="1.0" encoding="utf-8"?>
<GPIF>
<GPVersion>7</GPVersion>
<Score>
	<Title><![CDATA[Night Drive]]></Title>
	<SubTitle><![CDATA[]]></SubTitle>
	<Artist><![CDATA[The Examples]]></Artist>
	<Album><![CDATA[Demos]]></Album>
	<WordsAndMusic><![CDATA[Somebody]]></WordsAndMusic>
	<Copyright><![CDATA[]]></Copyright>
	<Tabber><![CDATA[tabber]]></Tabber>
	<Instructions><![CDATA[]]></Instructions>
	<Notices><![CDATA[first line
second line]]></Notices>
</Score>
<MasterTrack>
	<Tracks>0</Tracks>
	<Automations>
		<Automation><Type>Tempo</Type><Linear>false</Linear><Bar>0</Bar><Position>0</Position><Value>110 2</Value></Automation>
		<Automation><Type>Tempo</Type><Linear>false</Linear><Bar>1</Bar><Position>0</Position><Value>90 2</Value></Automation>
	</Automations>
</MasterTrack>
<Tracks>
	<Track id="0">
		<Name><![CDATA[Lead]]></Name>
		<InstrumentSet><Type>electricGuitar</Type></InstrumentSet>
		<Sounds><Sound><Name>Clean</Name><MIDI><LSB>0</LSB><MSB>0</MSB><Program>30</Program></MIDI></Sound></Sounds>
		<MidiConnection><Port>0</Port><PrimaryChannel>2</PrimaryChannel><SecondaryChannel>3</SecondaryChannel></MidiConnection>
		<Staves>
			<Staff>
				<Properties>
					<Property name="CapoFret"><Fret>2</Fret></Property>
					<Property name="Tuning"><Pitches>40 45 50 55 59 64</Pitches></Property>
				</Properties>
			</Staff>
		</Staves>
		<Transpose><Chromatic>0</Chromatic><Octave>-1</Octave></Transpose>
	</Track>
</Tracks>
<MasterBars>
	<MasterBar>
		<Key><AccidentalCount>-2</AccidentalCount><Mode>Minor</Mode></Key>
		<Time>4/4</Time>
		<Repeat start="true" end="false" count="0"/>
		<Section><Letter><![CDATA[A]]></Letter><Text><![CDATA[Intro]]></Text></Section>
		<Bars>0</Bars>
	</MasterBar>
	<MasterBar>
		<Key><AccidentalCount>-2</AccidentalCount><Mode>Minor</Mode></Key>
		<Time>3/4</Time>
		<Repeat start="false" end="true" count="3"/>
		<AlternateEndings>1 3</AlternateEndings>
		<DoubleBar/>
		<Bars>1</Bars>
	</MasterBar>
</MasterBars>
<Bars>
	<Bar id="0"><Clef>G2</Clef><Voices>0 -1 -1 -1</Voices></Bar>
	<Bar id="1"><Clef>G2</Clef><Voices>1 -1 -1 -1</Voices></Bar>
</Bars>
<Voices>
	<Voice id="0"><Beats>0 1</Beats></Voice>
	<Voice id="1"><Beats>2 3</Beats></Voice>
</Voices>
<Beats>
	<Beat id="0"><Rhythm ref="0"/><Notes>0 1</Notes><Arpeggio>Down</Arpeggio></Beat>
	<Beat id="1"><Rhythm ref="0"/><Notes>2</Notes><Fadding>FadeIn</Fadding><Tremolo>1/4</Tremolo></Beat>
	<Beat id="2"><Rhythm ref="1"/></Beat>
	<Beat id="3">
		<Rhythm ref="0"/>
		<Notes>3</Notes>
		<Properties><Property name="Brush"><Direction>Up</Direction></Property><Property name="Slapped"><Enable/></Property></Properties>
	</Beat>
</Beats>
<Notes>
	<Note id="0">
		<Tie origin="true" destination="false"/>
		<LeftFingering>I</LeftFingering>
		<Properties>
			<Property name="Fret"><Fret>3</Fret></Property>
			<Property name="String"><String>0</String></Property>
		</Properties>
	</Note>
	<Note id="1">
		<Properties>
			<Property name="Fret"><Fret>0</Fret></Property>
			<Property name="String"><String>5</String></Property>
			<Property name="HopoOrigin"><Enable/></Property>
		</Properties>
	</Note>
	<Note id="2">
		<Tie origin="false" destination="true"/>
		<Properties>
			<Property name="Fret"><Fret>3</Fret></Property>
			<Property name="String"><String>0</String></Property>
		</Properties>
	</Note>
	<Note id="3">
		<Vibrato>Slight</Vibrato>
		<AntiAccent>Normal</AntiAccent>
		<Accent>1</Accent>
		<Trill>57</Trill>
		<Properties>
			<Property name="Fret"><Fret>5</Fret></Property>
			<Property name="String"><String>2</String></Property>
			<Property name="PalmMuted"><Enable/></Property>
			<Property name="Slide"><Flags>2</Flags></Property>
			<Property name="HarmonicType"><HType>Natural</HType></Property>
			<Property name="HarmonicFret"><HFret>12</HFret></Property>
			<Property name="Bended"><Enable/></Property>
			<Property name="BendOriginValue"><Float>0</Float></Property>
			<Property name="BendDestinationValue"><Float>100</Float></Property>
			<Property name="BendDestinationOffset"><Float>60</Float></Property>
		</Properties>
	</Note>
</Notes>
<Rhythms>
	<Rhythm id="0"><NoteValue>Half</NoteValue></Rhythm>
	<Rhythm id="1"><NoteValue>Quarter</NoteValue></Rhythm>
</Rhythms>
</GPIF>
`
