package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/tabdex/decode"
	"github.com/jsphweid/tabdex/export"
	"github.com/jsphweid/tabdex/logger"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"
)

var (
	convertMax    int
	convertOut    string
	convertFormat string
	convertCase   string
	convertIndent bool
)

func init() {
	f := convertCmd.Flags()
	f.IntVar(&convertMax, "max", 0, "convert at most this many files (0 means all)")
	f.StringVar(&convertOut, "out", "", "output directory (default from config)")
	f.StringVar(&convertFormat, "format", "", "json, yaml or midi (default from config)")
	f.StringVar(&convertCase, "case", "", "snake or camel keys (default from config)")
	f.BoolVar(&convertIndent, "indent", false, "indent JSON output")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file or directory>",
	Short: "Converts tab files into score documents",
	Long: `Converts every tab file under the given path. Documents go to the output
directory, and also to S3 and the DynamoDB catalog when those are configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newConvertJob()
		if err != nil {
			return err
		}
		results, err := job.run(cmd.Context(), args[0], convertMax)
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		fmt.Printf("converted %d of %d files\n", len(results)-failed, len(results))
		if failed > 0 {
			return errors.Errorf("%d files failed", failed)
		}
		return nil
	},
}

type convertJob struct {
	decode  decode.Options
	format  string
	export  export.Options
	workers int
	sink    store.Sink
	catalog *store.Catalog
	now     func() time.Time
}

type convertResult struct {
	Path     string
	Location string
	Err      error
}

func newConvertJob() (*convertJob, error) {
	out := cfg.Output
	if convertOut != "" {
		out.Dir = convertOut
	}
	if convertFormat != "" {
		out.Format = convertFormat
	}
	if convertCase != "" {
		out.Case = convertCase
	}
	job := &convertJob{
		decode: decode.Options{
			MaxBytes:     cfg.Server.MaxUploadBytes,
			TicksPerBeat: cfg.Decode.TicksPerBeat,
			Encoding:     cfg.Decode.Encoding,
		},
		format:  out.Format,
		export:  export.Options{Case: export.ParseCase(out.Case), Indent: out.Indent || convertIndent},
		workers: out.Workers,
		now:     time.Now,
	}
	switch out.Format {
	case "json":
		job.export.Format = export.JSON
	case "yaml":
		job.export.Format = export.YAML
	case "midi":
	default:
		return nil, errors.Errorf("unknown output format %q", out.Format)
	}

	sinks := store.Multi{store.FileSink{Dir: out.Dir}}
	aws := cfg.AWS
	if aws.Bucket != "" || aws.CatalogTable != "" {
		sess, err := store.NewSession(aws.Region, aws.Endpoint)
		if err != nil {
			return nil, err
		}
		if aws.Bucket != "" {
			sinks = append(sinks, store.NewS3Sink(sess, aws.Bucket, aws.Prefix))
		}
		if aws.CatalogTable != "" {
			job.catalog = store.NewCatalog(sess, aws.CatalogTable)
		}
	}
	job.sink = sinks
	return job, nil
}

func (j *convertJob) extension() (string, string) {
	switch j.format {
	case "midi":
		return ".mid", "audio/midi"
	case "yaml":
		return ".yaml", "application/yaml"
	}
	return ".json", "application/json"
}

// outputName keeps the layout of the input tree under the output root.
func outputName(root, path, ext string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)) + ext)
}

func (j *convertJob) run(ctx context.Context, root string, maxNum int) ([]convertResult, error) {
	paths, err := util.GatherTabPaths(root, maxNum)
	if err != nil {
		return nil, errors.Wrapf(err, "gathering tabs under %s", root)
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}

	start := time.Now()
	results := make([]convertResult, len(paths))
	var mu sync.Mutex
	done := 0
	wg := sizedwaitgroup.New(util.Max(j.workers, 1))
	for i, path := range paths {
		wg.Add()
		go func(i int, path string) {
			defer wg.Done()
			loc, err := j.convert(ctx, root, path)
			results[i] = convertResult{Path: path, Location: loc, Err: err}
			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if err != nil {
				logger.Errorf("Skipping %v because: %v", path, err)
				return
			}
			logger.Debugf("Processed %v of %v tab files", n, len(paths))
		}(i, path)
	}
	wg.Wait()
	logger.Infof("converted %d files in %s", len(paths), durafmt.Parse(time.Since(start)).LimitFirstN(2))
	return results, nil
}

func (j *convertJob) convert(ctx context.Context, root, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading tab")
	}
	score, err := decode.Decode(ctx, data, j.decode)
	if err != nil {
		return "", err
	}
	out, err := j.render(score)
	if err != nil {
		return "", err
	}
	ext, contentType := j.extension()
	name := outputName(root, path, ext)
	loc, err := j.sink.Put(ctx, name, out, contentType)
	if err != nil {
		return "", err
	}
	logger.Debugf("%s: %s -> %s (%s)", path, humanize.IBytes(uint64(len(data))), loc, humanize.IBytes(uint64(len(out))))
	if j.catalog != nil {
		entry := store.NewEntry(filepath.Base(path), loc, score, j.now())
		if err := j.catalog.Put(ctx, entry); err != nil {
			return loc, err
		}
	}
	return loc, nil
}

func (j *convertJob) render(score *model.Score) ([]byte, error) {
	if j.format == "midi" {
		var buf bytes.Buffer
		if err := midi.Write(&buf, score); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return export.Encode(score, j.export)
}
