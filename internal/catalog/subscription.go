package catalog

// Platform is a delivery platform's membership program, keyed by the
// advertiser id that runs its ads.
type Platform struct {
	Name          string   `yaml:"platform" json:"platform"`
	Program       string   `yaml:"program" json:"program"`
	Keywords      []string `yaml:"keywords" json:"keywords"`
	PlatformTerms []string `yaml:"platform_terms" json:"platform_terms"`
	Enabled       bool     `yaml:"-" json:"enabled"`
}

// Subscriptions is the platform table plus the generic membership language
// used when the advertiser has no mapping.
type Subscriptions struct {
	Platforms map[string]Platform
	Generic   []string
}

// Platform returns the program mapped to advertiserID.
func (s Subscriptions) Platform(advertiserID string) (Platform, bool) {
	p, ok := s.Platforms[advertiserID]
	return p, ok
}

// DefaultSubscriptions returns the built-in membership programs.
func DefaultSubscriptions() Subscriptions {
	return Subscriptions{
		Platforms: map[string]Platform{
			"AR14306592000630063105": {
				Name:          "Talabat",
				Program:       "Talabat Pro",
				Keywords:      []string{"talabat pro", "برو", "talabat برو", "pro membership", "subscription", "اشتراك", "عضوية"},
				PlatformTerms: []string{"talabat", "طلبات"},
				Enabled:       true,
			},
			// Keeta has no membership offering; the entry keeps its branding
			// without ever flagging.
			"AR02245493152427278337": {
				Name:          "Keeta",
				Program:       "Keeta Pro",
				Keywords:      []string{"keeta pro", "keeta برو", "keeta plus"},
				PlatformTerms: []string{"keeta"},
			},
			"AR13676304484790173697": {
				Name:          "Deliveroo",
				Program:       "Deliveroo Plus",
				Keywords:      []string{"deliveroo plus", "plus membership", "plus plan"},
				PlatformTerms: []string{"deliveroo"},
				Enabled:       true,
			},
			"AR08778154730519003137": {
				Name:          "Rafeeq",
				Program:       "Rafeeq Pro",
				Keywords:      []string{"rafeeq pro", "رفيق برو", "rafeeq plus", "rafeeq برو", "pro", "برو"},
				PlatformTerms: []string{"rafeeq", "rafiq", "رفيق"},
				Enabled:       true,
			},
			"AR12079153035289296897": {
				Name:          "Snoonu",
				Program:       "S Plus",
				Keywords:      []string{"s plus", "snoonu plus", "s+", "س بلص", "سنوونو بلس"},
				PlatformTerms: []string{"snoonu", "سنوونو"},
				Enabled:       true,
			},
		},
		Generic: []string{"subscription", "member price"},
	}
}
