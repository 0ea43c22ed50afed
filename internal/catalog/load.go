package catalog

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Brands is an advertiser's expected entity list. YAML accepts either a
// single name or a list.
type Brands []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Brands) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Value != "" {
			*b = Brands{value.Value}
		}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	out := make(Brands, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	*b = out
	return nil
}

// AdvertiserMap maps advertiser ids to the entities their ads should name.
type AdvertiserMap map[string]Brands

// Expected returns the brands mapped to advertiserID.
func (m AdvertiserMap) Expected(advertiserID string) []string {
	if advertiserID == "" {
		return nil
	}
	return m[advertiserID]
}

// Set is every table the pipeline reads. It is built once at startup and
// shared read-only by all runs.
type Set struct {
	Entities      *Entities
	Regions       []Region
	Scripts       []Script
	Keywords      Keywords
	Discovery     Discovery
	Scoring       Scoring
	Subscriptions Subscriptions
	Advertisers   AdvertiserMap
}

// Options names optional YAML files layered over the built-in tables.
type Options struct {
	EntitiesPath      string
	AdvertiserMapPath string
	SubscriptionsPath string
}

// Default returns the built-in tables with no file overlays.
func Default() *Set {
	ents, err := NewEntities(DefaultEntities())
	if err != nil {
		panic(err)
	}
	return &Set{
		Entities:      ents,
		Regions:       DefaultRegions(),
		Scripts:       RejectedScripts(),
		Keywords:      DefaultKeywords(),
		Discovery:     DefaultDiscovery(),
		Scoring:       DefaultScoring(),
		Subscriptions: DefaultSubscriptions(),
		Advertisers:   AdvertiserMap{},
	}
}

// Load builds a Set from the built-in tables plus the files in opts. A
// missing file is reported as a warning and skipped; a malformed file is an
// error.
func Load(opts Options) (*Set, []string, error) {
	set := Default()
	var warnings []string

	entities := DefaultEntities()
	if opts.EntitiesPath != "" {
		var doc struct {
			Entities []Entity `yaml:"entities"`
		}
		found, err := readYAML(opts.EntitiesPath, &doc)
		switch {
		case err != nil:
			return nil, warnings, err
		case !found:
			warnings = append(warnings, "entity catalog not found: "+opts.EntitiesPath)
		default:
			entities = mergeEntities(entities, doc.Entities)
		}
	}
	ents, err := NewEntities(entities)
	if err != nil {
		return nil, warnings, err
	}
	set.Entities = ents

	if opts.AdvertiserMapPath != "" {
		var doc struct {
			Map AdvertiserMap `yaml:"advertiser_brand_map"`
		}
		found, err := readYAML(opts.AdvertiserMapPath, &doc)
		switch {
		case err != nil:
			return nil, warnings, err
		case !found:
			warnings = append(warnings, "advertiser brand map not found: "+opts.AdvertiserMapPath)
		case doc.Map != nil:
			set.Advertisers = doc.Map
		}
	}

	if opts.SubscriptionsPath != "" {
		var doc struct {
			Subscriptions map[string]struct {
				Platform `yaml:",inline"`
				Enabled  *bool `yaml:"enabled"`
			} `yaml:"subscriptions"`
			Generic []string `yaml:"generic_keywords"`
		}
		found, err := readYAML(opts.SubscriptionsPath, &doc)
		switch {
		case err != nil:
			return nil, warnings, err
		case !found:
			warnings = append(warnings, "subscription table not found: "+opts.SubscriptionsPath)
		default:
			for id, p := range doc.Subscriptions {
				p.Platform.Enabled = p.Enabled == nil || *p.Enabled
				set.Subscriptions.Platforms[id] = p.Platform
			}
			if len(doc.Generic) > 0 {
				set.Subscriptions.Generic = doc.Generic
			}
		}
	}

	return set, warnings, nil
}

// readYAML decodes path into out. It reports found=false without error when
// the file does not exist.
func readYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "catalog: read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, eris.Wrapf(err, "catalog: parse %s", path)
	}
	return true, nil
}

// mergeEntities overlays extra onto base: an entry whose name matches a base
// entity replaces it, anything else is appended.
func mergeEntities(base, extra []Entity) []Entity {
	index := make(map[string]int, len(base))
	for i, e := range base {
		index[e.Name] = i
	}
	out := append([]Entity(nil), base...)
	for _, e := range extra {
		if i, ok := index[e.Name]; ok {
			out[i] = e
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}
