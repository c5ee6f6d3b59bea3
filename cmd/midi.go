package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/tabdex/decode"
	"github.com/jsphweid/tabdex/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <in> <out.mid>",
	Short: "Renders a tab file to a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "reading tab")
		}
		score, err := decode.Decode(cmd.Context(), data, decode.Options{
			MaxBytes:     cfg.Server.MaxUploadBytes,
			TicksPerBeat: cfg.Decode.TicksPerBeat,
			Encoding:     cfg.Decode.Encoding,
		})
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := midi.Write(&buf, score); err != nil {
			return err
		}
		if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
			return errors.Wrap(err, "writing midi")
		}
		fmt.Printf("wrote %s (%s)\n", args[1], humanize.IBytes(uint64(buf.Len())))
		return nil
	},
}
