package main

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/scorer"
)

// catalogStats summarizes a loaded catalog.
type catalogStats struct {
	Entities      int            `yaml:"entities"`
	Aliases       int            `yaml:"aliases"`
	EntityTypes   map[string]int `yaml:"entity_types"`
	Regions       []string       `yaml:"regions"`
	Cuisines      int            `yaml:"cuisines"`
	Audiences     []string       `yaml:"audience_tables"`
	Subscriptions []string       `yaml:"subscription_platforms"`
	Advertisers   int            `yaml:"mapped_advertisers"`
	Warnings      []string       `yaml:"warnings,omitempty"`
}

func summarizeCatalog(set *catalog.Set, warnings []string) catalogStats {
	stats := catalogStats{
		Entities:    set.Entities.Len(),
		Aliases:     len(set.Entities.Aliases()),
		EntityTypes: make(map[string]int),
		Cuisines:    len(set.Scoring.Cuisines),
		Advertisers: len(set.Advertisers),
		Warnings:    warnings,
	}
	for _, e := range set.Entities.All() {
		stats.EntityTypes[string(e.Type)]++
	}
	for _, r := range set.Regions {
		stats.Regions = append(stats.Regions, r.Code)
	}
	for name := range set.Scoring.Audiences {
		stats.Audiences = append(stats.Audiences, name)
	}
	sort.Strings(stats.Audiences)
	for _, p := range set.Subscriptions.Platforms {
		if p.Enabled {
			stats.Subscriptions = append(stats.Subscriptions, p.Name+" "+p.Program)
		}
	}
	sort.Strings(stats.Subscriptions)
	return stats
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and summarize the loaded catalog",
	Long:  "Loads the built-in tables plus the configured overlay files, checks them for consistency and prints a YAML summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, warnings, err := loadCatalog()
		if err != nil {
			return err
		}
		if err := scorer.ValidateTables(set.Scoring, set.Subscriptions); err != nil {
			return eris.Wrap(err, "validate catalog")
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(summarizeCatalog(set, warnings))
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
