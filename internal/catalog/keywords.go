package catalog

import (
	"regexp"

	"github.com/sells-group/ad-intel/internal/model"
)

// DomainKeywords is a keyword set that, with at least two hits, assigns a
// product category directly.
type DomainKeywords struct {
	Category   model.Category
	Confidence float64
	Terms      []string
}

// Keywords holds the category classifier's signal vocabularies.
type Keywords struct {
	Device          []string
	FoodAnchor      []string
	Physical        []string
	CategorySignals []string
	OfferLanguage   []string
	Domains         []DomainKeywords
	TechnicalSpecs  *regexp.Regexp
}

// DefaultKeywords returns the built-in classifier vocabularies.
func DefaultKeywords() Keywords {
	return Keywords{
		Device: []string{
			"smartphone", "smart phone", "iphone", "android", "samsung", "galaxy",
			"xiaomi", "huawei", "pixel", "oneplus", "oppo", "vivo", "realme",
			"tablet", "ipad", "laptop", "macbook", "notebook", "ultrabook",
			"console", "playstation", "ps5", "xbox", "nintendo", "switch",
			"camera", "dslr", "mirrorless", "lens", "headphone", "headphones",
			"earbud", "earbuds", "airpods", "smartwatch", "smart watch",
			"apple watch", "fitbit", "garmin", "soundbar", "projector",
		},
		FoodAnchor: []string{
			"meal", "meals", "combo", "combos", "burger", "pizza", "shawarma",
			"restaurant", "dining", "menu", "order now", "offers", "deal", "deals",
			"food", "kitchen", "chef", "breakfast", "lunch", "dinner",
			"وجبة", "وجبات", "مطعم", "برجر", "بيتزا", "شاورما",
		},
		Physical: []string{
			"specifications", "features", "model", "version", "capacity",
			"dimensions", "weight", "material", "color", "size",
			"warranty", "guarantee", "brand new", "original",
			"kitchen appliance", "blender", "pot", "pan", "cooker",
			"electronics", "gadget", "device", "tool",
			"grocery", "groceries", "fresh", "organic", "produce",
			"smartphone", "phone", "tablet", "laptop", "notebook", "console",
			"playstation", "xbox", "headphones", "camera", "dslr", "lens",
			"smartwatch", "earbuds", "gaming pc",
			"fridge", "refrigerator", "washing machine", "dryer", "microwave",
			"air conditioner", "vacuum", "dishwasher",
			"clothes", "fashion", "dress", "shirt", "abaya", "abayas", "shoe",
			"sneaker", "bag", "accessories",
			"sportswear", "fitness", "equipment", "dumbbell", "treadmill",
			"yoga mat", "cycling",
			"مواصفات", "ميزات", "موديل", "سعة", "وزن", "مادة",
			"ضمان", "جديد", "أصلي", "جهاز", "أداة", "بقالة", "طازج",
			"هاتف", "جوال", "كمبيوتر", "تابلت", "سماعة", "سماعات",
			"كاميرا", "عدسة", "ساعة ذكية", "معالج", "أجهزة منزلية", "ثلاجة",
			"غسالة", "مكيف", "ملابس", "أزياء", "فساتين", "عباية", "عبايات",
			"أحذية", "حقيبة", "اكسسوارات", "رياضة", "معدات", "لياقة",
		},
		CategorySignals: []string{
			"all restaurants", "multiple restaurants", "various restaurants",
			"pizza category", "burger category", "asian food category",
			"restaurants near you", "explore restaurants",
			"choose from", "hundreds of", "thousands of",
			"any restaurant", "all cuisines",
			"all electronics", "multiple electronics", "various electronics",
			"shop all gadgets", "all smartphones", "electronics deals",
			"fashion brands", "all fashion", "clothing brands",
			"sports brands", "outdoor brands", "home appliance deals",
		},
		OfferLanguage: []string{"offers", "deals", "عروض", "خصومات"},
		Domains: []DomainKeywords{
			{Category: model.CategoryPharmacy, Confidence: 0.92, Terms: []string{
				"pharmacy", "pharmacies", "صيدلية", "صيدليات",
				"medicine", "medicines", "دواء", "أدوية",
				"vitamin", "vitamins", "فيتامين", "فيتامينات",
				"supplement", "supplements", "مكمل", "مكملات",
				"medication", "medications", "علاج", "علاجات",
				"prescription", "وصفة طبية",
				"healthcare", "health products", "منتجات صحية",
				"medical supplies", "مستلزمات طبية",
				"wellness", "عافية", "صحة",
			}},
			{Category: model.CategoryBeauty, Confidence: 0.90, Terms: []string{
				"beauty", "جمال", "تجميل",
				"cosmetics", "مستحضرات تجميل", "ميكب",
				"makeup", "مكياج",
				"skincare", "عناية بالبشرة",
				"perfume", "عطر", "عطور",
				"fragrance", "رائحة",
				"lipstick", "أحمر شفاه",
				"mascara", "ماسكارا",
				"foundation", "فاونديشن",
				"serum", "سيروم",
				"cream", "كريم",
				"lotion", "لوشن",
				"hair care", "عناية بالشعر",
				"shampoo", "شامبو",
				"conditioner", "بلسم",
			}},
			{Category: model.CategoryFlowers, Confidence: 0.92, Terms: []string{
				"flowers", "flower", "زهور", "زهرة", "ورود", "ورد",
				"bouquet", "bouquets", "باقة", "باقات",
				"petals", "بتلات",
				"roses", "rose", "وردة",
				"arrangement", "تنسيق",
				"florist", "محل ورد",
				"ferns and petals", "ferns & petals",
			}},
			{Category: model.CategoryEntertainment, Confidence: 0.92, Terms: []string{
				"theme park", "water park", "waterpark", "مدينة ملاهي", "حديقة مائية",
				"amusement park", "منتزه",
				"tickets", "تذاكر", "admission", "دخول",
				"rides", "attractions", "معالم",
				"entertainment", "ترفيه",
				"aquarium", "حوض أسماك", "museum", "متحف",
				"cinema", "movie", "سينما", "فيلم",
				"concert", "حفل", "show",
				"meryal", "aqua park",
			}},
			{Category: model.CategorySweetsDesserts, Confidence: 0.88, Terms: []string{
				"sweets", "حلويات", "حلوى",
				"desserts", "dessert", "حلى", "تحلية",
				"chocolate", "شوكولاتة",
				"candy", "سكاكر",
				"cake", "كيك", "كعكة",
				"pastry", "pastries", "معجنات حلوة",
				"bakery", "مخبز",
				"cookies", "بسكويت",
				"ice cream", "آيس كريم", "بوظة",
			}},
			{Category: model.CategoryBeverages, Confidence: 0.88, Terms: []string{
				"drinks", "drink", "مشروبات", "مشروب",
				"beverage", "beverages",
				"juice", "عصير",
				"coffee", "قهوة",
				"tea", "شاي",
				"milk", "حليب", "لبن",
				"water", "ماء", "مياه",
				"soda", "soft drink", "مشروب غازي",
				"energy drink", "مشروب طاقة",
			}},
			{Category: model.CategoryToys, Confidence: 0.90, Terms: []string{
				"toy", "toys", "لعبة", "ألعاب",
				"kids", "children", "أطفال",
				"educational", "تعليمي",
				"learning", "تعلم",
				"game", "games",
				"puzzle", "أحجية",
				"playstation", "xbox", "console",
				"action figure", "دمية",
				"lego", "building blocks",
			}},
			{Category: model.CategoryPetSupplies, Confidence: 0.90, Terms: []string{
				"pet", "pets", "dog", "cat", "puppy", "kitten",
				"pet food", "dog food", "cat food",
				"pet supplies", "pet accessories",
				"pet care", "pet toys",
				"حيوانات أليفة", "قطط", "كلاب",
			}},
		},
		TechnicalSpecs: regexp.MustCompile(`(?i)\d+\s*(?:l|ml|kg|g|inch|cm|mm|watt|w)\b`),
	}
}
