package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/ad-intel/internal/catalog"
)

const offerSystemPrompt = `You extract promotional offers from Gulf-region advertisements written in English, Arabic or both.
offer_type must be one of: percentage_discount, fixed_discount, free_delivery, bogo, first_order, limited_time, new_product, special_offer, none.
Return none when no clear offer is mentioned. Quote exact amounts in offer_details (e.g. "50% off first order").
Put restrictions such as "new customers only" or "min order QAR 50" in offer_conditions, or null.
Return ONLY valid JSON: {"offer_type": "...", "offer_details": "...", "offer_conditions": "..." or null, "confidence": 0.0-1.0}`

const audienceSystemPrompt = `You identify the target audience of Gulf-region advertisements written in English, Arabic or both.
Choose the single best segment from the list you are given, or "General Audience" when unclear.
Return ONLY valid JSON: {"target_audience": "segment name", "confidence": 0.0-1.0, "signals": ["signal1", "signal2"]}`

const foodSystemPrompt = `You classify restaurant advertisements from the Gulf region into one cuisine category from the list you are given.
Return ONLY valid JSON: {"food_category": "category name", "confidence": 0.0-1.0, "reasoning": "brief explanation", "key_signals": ["signal1", "signal2"]}`

func buildAudiencePrompt(text, category string, table catalog.AudienceTable, offer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product category: %s\n", category)
	if offer != "" {
		fmt.Fprintf(&b, "Detected offer: %s\n", offer)
	}
	fmt.Fprintf(&b, "\nAdvertisement text:\n%s\n\nAudience segments:\n", truncateRunes(text, 800))
	for _, seg := range table.Segments {
		fmt.Fprintf(&b, "- %s\n", seg.Name)
	}
	b.WriteString("- " + GeneralAudience + "\n")
	return b.String()
}

func buildFoodPrompt(text, brand string, cuisines []catalog.Cuisine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Advertisement text:\n%s\n", truncateRunes(text, 800))
	if brand != "" {
		fmt.Fprintf(&b, "\nRestaurant: %s\n", brand)
	}
	b.WriteString("\nCategories:\n")
	for i, c := range cuisines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Name)
	}
	return b.String()
}
