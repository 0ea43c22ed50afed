package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/store"
)

var (
	recordsStatus     string
	recordsAdvertiser string
	recordsCategory   string
	recordsLimit      int
	recordsOffset     int
	recordsPurge      bool
)

var recordsCmd = &cobra.Command{
	Use:   "records [id]",
	Short: "List stored ad records",
	Long:  "Prints stored records as JSON lines, newest first. With an id argument prints that record only.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("records: store is disabled")
		}
		defer st.Close() //nolint:errcheck

		if recordsPurge {
			n, err := st.DeleteExpiredValidations(ctx)
			if err != nil {
				return eris.Wrap(err, "purge validation cache")
			}
			cmd.PrintErrf("purged %d expired validation entries\n", n)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)

		if len(args) == 1 {
			rec, err := st.GetRecord(ctx, args[0])
			if err != nil {
				return eris.Wrapf(err, "get record %s", args[0])
			}
			return enc.Encode(rec)
		}

		filter, err := recordFilter()
		if err != nil {
			return err
		}
		recs, err := st.ListRecords(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "list records")
		}
		for _, rec := range recs {
			if err := enc.Encode(rec); err != nil {
				return eris.Wrap(err, "write record")
			}
		}
		return nil
	},
}

func recordFilter() (store.RecordFilter, error) {
	f := store.RecordFilter{
		AdvertiserID: recordsAdvertiser,
		Limit:        recordsLimit,
		Offset:       recordsOffset,
	}
	switch s := model.RecordStatus(recordsStatus); s {
	case "":
	case model.RecordStatusPending, model.RecordStatusRejected, model.RecordStatusEnriched:
		f.Status = s
	default:
		return f, eris.Errorf("records: unknown status %q", recordsStatus)
	}
	if recordsCategory != "" {
		c, ok := model.ParseCategory(recordsCategory)
		if !ok {
			return f, eris.Errorf("records: unknown category %q", recordsCategory)
		}
		f.Category = c
	}
	return f, nil
}

func init() {
	recordsCmd.Flags().StringVar(&recordsStatus, "status", "", "filter by status: pending, rejected or enriched")
	recordsCmd.Flags().StringVar(&recordsAdvertiser, "advertiser", "", "filter by advertiser id")
	recordsCmd.Flags().StringVar(&recordsCategory, "category", "", "filter by primary category")
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 100, "page size")
	recordsCmd.Flags().IntVar(&recordsOffset, "offset", 0, "page offset")
	recordsCmd.Flags().BoolVar(&recordsPurge, "purge-cache", false, "delete expired validation cache entries first")
	rootCmd.AddCommand(recordsCmd)
}
