package catalog

import "github.com/sells-group/ad-intel/internal/textmatch"

// TermSet is a normalized lookup set.
type TermSet map[string]struct{}

// NewTermSet builds a set from raw terms.
func NewTermSet(terms ...string) TermSet {
	s := make(TermSet, len(terms))
	for _, t := range terms {
		s[textmatch.Normalize(t)] = struct{}{}
	}
	return s
}

// Has reports whether the normalized form of term is in the set.
func (s TermSet) Has(term string) bool {
	_, ok := s[textmatch.Normalize(term)]
	return ok
}

// Discovery holds the vocabularies that filter brand names discovered
// heuristically in ad text.
type Discovery struct {
	StopEN           TermSet
	StopAR           TermSet
	Marketing        TermSet
	MarketingPhrases TermSet
	Generic          TermSet
	SuffixStopEN     TermSet
	SuffixStopAR     TermSet
}

// DefaultDiscovery returns the built-in discovery filters.
func DefaultDiscovery() Discovery {
	return Discovery{
		StopEN: NewTermSet(
			"order", "delivery", "delivered", "sponsored", "talabat", "get", "your",
			"online", "today", "visit", "advertiser", "food", "delicious", "enjoy",
			"service", "official", "drink", "cuisine", "desi", "fast", "easy",
			"meal", "meals", "deal", "deals", "combo", "combos",
		),
		StopAR: NewTermSet(
			"إعلان", "اطلب", "طلبات", "اطلب على طلبات", "العاصمة", "على", "اليوم",
			"أونلاين", "طلب", "كل", "شيء", "توصل", "لك",
		),
		Marketing: NewTermSet(
			"meal", "meals", "deal", "deals", "combo", "combos", "offer", "offers",
			"special", "promo", "promotion", "promotions", "limited", "seasonal",
			"bundle", "bundles",
		),
		MarketingPhrases: NewTermSet(
			"meal deals", "meal deal", "combo deals", "combo deal", "meal combos",
			"special offers", "limited offers", "limited time", "special deal",
			"special deals",
		),
		Generic: NewTermSet(
			"qatar", "doha", "bahrain", "kuwait", "saudi", "arabia", "uae", "dubai",
			"restaurants", "restaurant", "groceries", "grocery", "electronics", "fashion",
			"clothing", "shoes", "accessories", "beauty", "cosmetics", "pharmacy",
			"food", "beverages", "drinks", "snacks", "sweets", "desserts",
			"pet", "pets", "supplies", "pet supplies", "pet food",
			"pizza", "burger", "sandwich", "coffee", "tea", "juice", "water",
			"phone", "laptop", "tablet", "watch", "headphones", "camera",
			"dress", "shirt", "pants", "jacket", "bag", "perfume",
			"shop", "store", "market", "supermarket", "hypermarket", "mall",
			"cafe", "bakery", "butcher",
			"sale", "offer", "discount", "free", "new", "best", "top", "hot",
			"exclusive", "premium", "luxury", "quality", "fresh", "organic",
			"coffee machine", "pizza menu", "burger menu", "product", "service",
			"item", "items", "products", "services", "brand", "brands",
			"today", "tomorrow", "weekend", "monday", "tuesday", "wednesday",
			"thursday", "friday", "saturday", "sunday", "weekday",
			"adventure awaits", "welcome", "hello", "thank you", "shop now",
			"order now", "download", "install", "subscribe", "follow",
		),
		SuffixStopEN: NewTermSet(
			"online", "with", "delivery", "delivered", "in", "qatar", "fast", "minute",
			"minutes", "hour", "hours", "today", "now", "order", "buy", "shop", "offer",
			"offers", "deal", "deals", "free", "get", "your", "to", "the", "and", "skip",
			"doorstep", "have", "it", "on", "from", "at", "by", "via", "through", "using",
			"download", "app", "website",
		),
		SuffixStopAR: NewTermSet(
			"عروض", "توصيل", "سريع", "مجاني", "اليوم", "الآن", "اطلب", "تسوق", "اشتري",
			"مع", "الى", "إلى", "و", "في", "قطر",
		),
	}
}
