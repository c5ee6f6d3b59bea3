// Package decode runs the whole pipeline: sniff, section decoding, model
// building and normalization. Calls share no state and may run concurrently.
package decode

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/tabdex/builder"
	"github.com/jsphweid/tabdex/gp"
	"github.com/jsphweid/tabdex/gpif"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/normalize"
	"github.com/jsphweid/tabdex/raw"
	"github.com/jsphweid/tabdex/reader"
	"github.com/jsphweid/tabdex/taberr"
)

const DefaultMaxBytes = 20 << 20

type Options struct {
	// MaxBytes caps the input size; zero means DefaultMaxBytes and a
	// negative value disables the check.
	MaxBytes     int64
	// TicksPerBeat is the canonical tick base; zero means 960.
	TicksPerBeat int
	// Encoding is the label of the legacy string encoding of binary files.
	Encoding     string
}

// Decode turns one tab file into a normalized score. On error no score is
// returned.
func Decode(ctx context.Context, data []byte, opts Options) (*model.Score, error) {
	song, err := Raw(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	score, err := builder.Build(song, &builder.Sequence{})
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(score, normalize.Options{TicksPerBeat: opts.TicksPerBeat})
}

// Raw sniffs the format and runs the matching section decoder.
func Raw(ctx context.Context, data []byte, opts Options) (*raw.Song, error) {
	if err := CheckSize(int64(len(data)), opts.MaxBytes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, taberr.Wrap(err, taberr.Canceled, "decode", "canceled before decoding")
	}
	format, err := reader.Sniff(data)
	if err != nil {
		return nil, err
	}
	if format.IsXML() {
		return gpif.Decode(ctx, data, format)
	}
	enc, err := reader.LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return gp.Decode(ctx, data, enc)
}

// CheckSize fails with a TooLarge error when size exceeds limit.
func CheckSize(size, limit int64) error {
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit > 0 && size > limit {
		return taberr.Newf(taberr.TooLarge, "input", -1, "%s exceeds the %s limit",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
	}
	return nil
}
