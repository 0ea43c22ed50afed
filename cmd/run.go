package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ad-intel/internal/model"
)

var (
	runID         string
	runAdvertiser string
	runRegion     string
	runEntity     string
	runText       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify a single ad",
	Long:  "Classifies one ad and prints the record as JSON. Without --text the ad copy is read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text := runText
		if text == "" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = strings.TrimSpace(string(data))
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, err := env.Pipeline.Run(ctx, model.AdInput{
			ID:             runID,
			AdvertiserID:   runAdvertiser,
			ExpectedRegion: runRegion,
			ExpectedEntity: runEntity,
			Text:           text,
		})
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(rec)
	},
}

func init() {
	runCmd.Flags().StringVar(&runID, "id", "", "ad id (random when empty)")
	runCmd.Flags().StringVar(&runAdvertiser, "advertiser", "", "advertiser id")
	runCmd.Flags().StringVar(&runRegion, "region", "", "expected region code (defaults to region.default)")
	runCmd.Flags().StringVar(&runEntity, "entity", "", "expected brand or entity")
	runCmd.Flags().StringVar(&runText, "text", "", "ad copy (read from stdin when empty)")
	rootCmd.AddCommand(runCmd)
}
