package category

import (
	"fmt"
	"strings"
)

const classifySystemPrompt = `You classify advertisement text (English or Arabic) by the type of product or service being advertised.

Categories:
1. restaurant - a specific restaurant or food establishment ("McDonald's 50% off", "Pizza Hut family deal")
2. electronics - devices and gadgets ("iPhone 15 Pro", "Samsung Galaxy", "laptop deals")
3. home_appliances - kitchen and home appliances ("washing machine", "microwave", "air conditioner")
4. fashion - clothing, shoes, bags, accessories ("abaya collection", "Nike shoes")
5. beauty - cosmetics, skincare, fragrances ("perfume sale", "skincare products")
6. sports - sports equipment and fitness gear ("gym equipment", "yoga mats")
7. pharmacy - medicine, health products, supplements ("vitamins", "first aid")
8. toys - children's toys and games ("LEGO sets", "board games")
9. pet_supplies - pet food and accessories ("dog food", "cat litter")
10. grocery - food items, fresh produce, household essentials ("fresh vegetables", "grocery delivery")
11. flowers - flowers and bouquets ("roses", "flower delivery")
12. entertainment - theme parks, waterparks, cinemas, museums, concerts
13. sweets_desserts - sweets, desserts, bakery items, ice cream
14. beverages - drinks, juices, coffee, tea
15. subscription - a delivery platform's paid membership ("Talabat Pro", "Deliveroo Plus")
16. category_promotion - a promotion across many restaurants or products ("all pizza restaurants 30% off")
17. unknown_category - a physical product that fits none of the above

Choose the most specific category. Several restaurants or products means category_promotion.
Return ONLY valid JSON:
{"product_type": "<category>", "confidence": 0.0-1.0, "reasoning": "brief explanation", "key_signals": ["signal1", "signal2"]}`

const platformConflictNote = `
Note: the advertiser is %s, a delivery platform, but the ad names products or a marketplace section.
Platforms advertise what they sell; classify the PRODUCT being advertised, not the platform.`

func buildPrompt(text string, physical, category, brands []string, platform string) string {
	var b strings.Builder
	b.WriteString("Advertisement text:\n")
	b.WriteString(truncateRunes(text, 1000))
	b.WriteString("\n")
	if len(physical) > 0 {
		fmt.Fprintf(&b, "\nPhysical product signals detected: %s", strings.Join(physical, ", "))
	}
	if len(category) > 0 {
		fmt.Fprintf(&b, "\nCategory promotion signals detected: %s", strings.Join(category, ", "))
	}
	if len(brands) > 0 {
		fmt.Fprintf(&b, "\nDetected brands: %s", strings.Join(brands, ", "))
	}
	if platform != "" {
		fmt.Fprintf(&b, platformConflictNote, platform)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
