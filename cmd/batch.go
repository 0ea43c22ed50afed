package main

import (
	"encoding/json"
	"io"
	"os"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/adsource"
	"github.com/sells-group/ad-intel/internal/fetcher"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/monitoring"
	"github.com/sells-group/ad-intel/internal/pipeline"
)

var (
	batchInput       string
	batchFormat      string
	batchOutput      string
	batchConcurrency int
	batchLimit       int
	batchPersist     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a file of ads",
	Long:  "Reads ads from a local file or an http(s)/ftp URL (jsonl, json, csv or xlsx), classifies them concurrently and writes one JSON record per line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reader := adsource.NewReader(fetcher.NewOpener(fetcher.OptionsFromConfig(cfg.Fetch)))
		if batchFormat != "" {
			f, err := adsource.ParseFormat(batchFormat)
			if err != nil {
				return err
			}
			reader.Format = f
		}
		ads, err := reader.Read(ctx, batchInput)
		if err != nil {
			return eris.Wrap(err, "read ads")
		}
		if batchLimit > 0 && len(ads) > batchLimit {
			ads = ads[:batchLimit]
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var done atomic.Int64
		total := int64(len(ads))
		recs, runErr := env.Pipeline.RunBatch(ctx, ads, pipeline.BatchOptions{
			Concurrency: batchConcurrency,
			Persist:     batchPersist,
			OnRecord: func(rec *model.AdRecord) {
				if n := done.Add(1); n%100 == 0 || n == total {
					zap.L().Info("batch progress", zap.Int64("done", n), zap.Int64("total", total))
				}
			},
		})

		// Records finished before a cancellation are still written.
		if err := writeRecords(cmd.OutOrStdout(), batchOutput, recs); err != nil {
			return err
		}

		stats := env.Pipeline.Stats()
		monitoring.NewAlerter(cfg.Monitoring).Check(ctx, monitoring.BatchSnapshot{
			Source:         batchInput,
			Processed:      stats.Processed,
			RegionRejected: stats.RegionRejected,
			StageFailures:  stats.StageFailures,
			StoreFailures:  stats.StoreFailures,
			CostUSD:        stats.EstimatedCostUSD,
		})

		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return eris.Wrap(err, "write stats")
		}
		if runErr != nil {
			return eris.Wrap(runErr, "run batch")
		}
		return nil
	},
}

// writeRecords writes one JSON record per line to path, or to stdout when
// path is empty or "-".
func writeRecords(stdout io.Writer, path string, recs []*model.AdRecord) error {
	w := stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return eris.Wrapf(err, "write record %s", rec.ID)
		}
	}
	return nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "ad file path or http(s)/ftp URL")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "input format: jsonl, json, csv or xlsx (default: from extension)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output JSONL file (default stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel ads (default batch.concurrency)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "process at most this many ads (0 = all)")
	batchCmd.Flags().BoolVar(&batchPersist, "persist", true, "save records to the store")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
