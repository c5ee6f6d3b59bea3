package cmd

import (
	"context"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/decode"
	"github.com/jsphweid/tabdex/export"
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var inspectTop int

func init() {
	inspectCmd.Flags().IntVar(&inspectTop, "top", 5, "number of most common chords to list")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints a summary of a tab file",
	Long:  `Decodes a tab file and prints its metadata, tracks and most common chords.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "reading tab")
		}
		return inspect(cmd.Context(), cmd.OutOrStdout(), data, inspectTop)
	},
}

const summaryTemplate = `{{ .Score.Title }} by {{ .Score.Artist }}
{{- with .Score.Album }} ({{ . }}){{ end }}
format: {{ .Score.Format }}, {{ .Size }}
tempo: {{ .Score.Tempo | printf "%.0f" }} bpm, {{ .Score.TempoChanges | len }} changes
bars: {{ .Bars }}, length {{ .Length }}
tracks:
{{- range $i, $t := .Score.Tracks }}
  {{ add $i 1 }}. {{ $t.Name | default "(unnamed)" }} program {{ $t.Program }} channel {{ $t.Channel }}
{{- if $t.IsPercussion }} percussion{{ end }}
{{- range $t.Staves }}{{ with .Tuning }} [{{ tuning . }}]{{ end }}{{ end }}
{{- end }}
{{- if .Chords }}
chords:
{{- range .Chords }}
  {{ .Key | replace "-" " " }} x{{ .Count }}
{{- end }}
{{- end }}
`

type summary struct {
	Score  *model.Score
	Size   string
	Bars   int
	Length string
	Chords []chord.KeyCount
}

var summaryTmpl = template.Must(template.New("summary").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{"tuning": tuningNames}).
	Parse(summaryTemplate))

func inspect(ctx context.Context, w io.Writer, data []byte, top int) error {
	score, err := decode.Decode(ctx, data, decode.Options{
		MaxBytes:     -1,
		TicksPerBeat: cfg.Decode.TicksPerBeat,
		Encoding:     cfg.Decode.Encoding,
	})
	if err != nil {
		return err
	}
	chords := chord.RankKeys(chord.FromScore(score))
	if top >= 0 && len(chords) > top {
		chords = chords[:top]
	}
	s := summary{
		Score:  score,
		Size:   humanize.IBytes(uint64(len(data))),
		Bars:   barCount(score),
		Length: durafmt.Parse(songLength(score)).LimitFirstN(2).String(),
		Chords: chords,
	}
	return errors.Wrap(summaryTmpl.Execute(w, s), "rendering summary")
}

func tuningNames(tuning []int) string {
	names := make([]string, len(tuning))
	for i, p := range tuning {
		names[i] = export.PitchClass(p)
	}
	return strings.Join(names, " ")
}

func firstBars(score *model.Score) []model.Bar {
	for _, t := range score.Tracks {
		for _, st := range t.Staves {
			return st.Bars
		}
	}
	return nil
}

func barCount(score *model.Score) int {
	return len(firstBars(score))
}

// songLength plays each bar once at the tempo in effect at its start.
func songLength(score *model.Score) time.Duration {
	if score.TicksPerBeat <= 0 {
		return 0
	}
	changes := make(map[int]float64, len(score.TempoChanges))
	for _, tc := range score.TempoChanges {
		changes[tc.BarIndex] = tc.BPM
	}
	tempo := score.Tempo
	var total time.Duration
	for _, b := range firstBars(score) {
		if bpm, ok := changes[b.Index]; ok && bpm > 0 {
			tempo = bpm
		}
		if tempo <= 0 {
			continue
		}
		beats := float64(b.Duration) / float64(score.TicksPerBeat)
		total += time.Duration(beats * 60 / tempo * float64(time.Second))
	}
	return total
}
