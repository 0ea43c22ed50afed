package catalog

// Segment is one audience segment and the phrases that point at it.
type Segment struct {
	Name  string
	Terms []string
}

// AudienceTable is the segment vocabulary for one scoring category.
type AudienceTable struct {
	Segments []Segment
	Budget   string
}

// Theme is one messaging theme and its keywords.
type Theme struct {
	Name  string
	Terms []string
}

// Inference maps product keywords to the scoring category the audience and
// theme scorers use when the classifier only said "generic product".
type Inference struct {
	Category string
	Terms    []string
}

// CuisineKeyword is one weighted cuisine signal.
type CuisineKeyword struct {
	Term   string
	Weight float64
}

// Cuisine is one restaurant sub-category.
type Cuisine struct {
	Name     string
	Keywords []CuisineKeyword
	Brands   []string
}

// MixedCuisine is the catch-all cuisine label.
const MixedCuisine = "Mixed Cuisine / Family Dining"

// Scoring holds the secondary scorers' tables.
type Scoring struct {
	Audiences         map[string]AudienceTable
	Themes            map[string][]Theme
	Inference         []Inference
	Cuisines          []Cuisine
	CuisineBrandBonus float64
	CuisineThreshold  float64
}

// DefaultScoring returns the built-in audience, theme and cuisine tables.
func DefaultScoring() Scoring {
	return Scoring{
		Audiences:         defaultAudiences(),
		Themes:            defaultThemes(),
		Inference:         defaultInference(),
		Cuisines:          defaultCuisines(),
		CuisineBrandBonus: 10,
		CuisineThreshold:  3,
	}
}

func defaultInference() []Inference {
	return []Inference{
		{Category: "electronics", Terms: []string{
			"phone", "هاتف", "laptop", "لابتوب", "tablet", "تابلت", "tv", "تلفزيون",
			"headphones", "سماعات", "gaming", "قيمنق",
		}},
		{Category: "fashion", Terms: []string{
			"shirt", "قميص", "dress", "فستان", "shoes", "حذاء", "abaya", "عباية",
			"fashion", "موضة", "clothing",
		}},
		{Category: "sports", Terms: []string{
			"gym", "جيم", "fitness", "لياقة", "dumbbell", "running", "جري",
			"yoga", "يوغا", "sports", "رياضة",
		}},
		{Category: "home_appliances", Terms: []string{
			"fridge", "ثلاجة", "washing machine", "غسالة", "microwave", "مايكرويف",
			"oven", "فرن", "air conditioner", "مكيف",
		}},
		{Category: "pharmacy", Terms: []string{
			"pharmacy", "صيدلية", "medicine", "دواء", "vitamin", "فيتامين",
			"supplement", "مكمل", "health", "صحة", "drug",
		}},
	}
}

func defaultAudiences() map[string]AudienceTable {
	return map[string]AudienceTable{
		"restaurant": {Budget: "Budget-Conscious Diners", Segments: []Segment{
			{"Families with Kids", []string{"family", "kids", "children", "عائلة", "أطفال", "meal deal", "combo", "عائلية"}},
			{"Young Professionals (25-34)", []string{"quick", "lunch", "office", "work", "مكتب", "عمل", "غداء"}},
			{"Students (18-24)", []string{"student", "طالب", "university", "جامعة", "budget", "cheap"}},
			{"Late-night Users", []string{"late night", "midnight", "24/7", "سهرة", "منتصف الليل", "night"}},
			{"Health-Conscious Eaters", []string{"healthy", "organic", "salad", "صحي", "عضوي", "detox", "vegan", "kale"}},
			{"Budget-Conscious Diners", []string{"cheap", "رخيص", "value", "save", "توفير", "discount"}},
			{"Premium Food Seekers", []string{"premium", "finest", "best", "أفضل", "فاخر", "gourmet"}},
			{"New Customers", []string{"first order", "new customer", "الطلب الأول", "عميل جديد", "welcome"}},
			{"Existing Customers", []string{"loyalty", "rewards", "return", "ولاء", "مكافآت", "again"}},
		}},
		"electronics": {Budget: "Budget Shoppers", Segments: []Segment{
			{"Tech Enthusiasts", []string{"latest", "newest", "flagship", "specs", "أحدث", "مواصفات", "cutting-edge", "innovation"}},
			{"Gamers", []string{"gaming", "fps", "rgb", "rtx", "ألعاب", "قيمنق", "gamer", "playstation", "xbox"}},
			{"Professionals/Remote Workers", []string{"work from home", "productivity", "laptop", "عمل عن بعد", "إنتاجية", "professional"}},
			{"Students", []string{"student", "طالب", "university", "جامعة", "study", "دراسة"}},
			{"Budget Shoppers", []string{"affordable", "رخيص", "budget", "installment", "تقسيط", "save"}},
			{"Premium Tech Seekers", []string{"premium", "flagship", "pro", "max", "فاخر", "برو", "luxury"}},
			{"Photography Enthusiasts", []string{"camera", "كاميرا", "photo", "صورة", "megapixel", "lens"}},
			{"Smart Home Adopters", []string{"smart home", "alexa", "google home", "منزل ذكي", "iot", "automation"}},
		}},
		"fashion": {Budget: "Budget Shoppers", Segments: []Segment{
			{"Trend Followers", []string{"trending", "latest fashion", "new collection", "موضة", "ترند", "أحدث", "style"}},
			{"Budget Shoppers", []string{"sale", "تخفيض", "clearance", "cheap", "رخيص", "affordable"}},
			{"Premium Fashion Seekers", []string{"luxury", "designer", "premium", "فاخر", "ديزاينر", "haute"}},
			{"Young Adults (18-30)", []string{"young", "youth", "شباب", "casual", "streetwear"}},
			{"Professionals", []string{"professional", "formal", "office", "مكتب", "business", "احترافي"}},
			{"Modest Fashion Seekers", []string{"modest", "hijab", "abaya", "عباية", "حجاب", "محتشم", "covered"}},
			{"Athleisure Enthusiasts", []string{"sportswear", "athleisure", "activewear", "رياضي", "comfortable"}},
		}},
		"sports": {Budget: "Budget Shoppers", Segments: []Segment{
			{"Fitness Enthusiasts", []string{"fitness", "gym", "لياقة", "جيم", "workout", "تمرين", "training"}},
			{"Athletes/Serious Trainers", []string{"pro", "professional", "performance", "احترافي", "أداء", "athlete", "competition"}},
			{"Casual Exercisers", []string{"casual", "light", "beginners", "easy", "سهل", "home workout"}},
			{"Beginners", []string{"beginner", "starter", "first time", "مبتدئ", "start", "بداية"}},
			{"Outdoor Adventure Seekers", []string{"outdoor", "hiking", "camping", "adventure", "مغامرة", "nature"}},
			{"Budget Shoppers", []string{"affordable", "budget", "cheap", "رخيص", "value"}},
		}},
		"home_appliances": {Budget: "Budget Shoppers", Segments: []Segment{
			{"New Homeowners", []string{"new home", "first home", "منزل جديد", "بيت جديد", "moving", "نقل"}},
			{"Young Couples", []string{"couple", "زوجين", "newlywed", "عروسين", "together"}},
			{"Parents/Families", []string{"family", "kids", "عائلة", "أطفال", "parents", "والدين"}},
			{"Budget Shoppers", []string{"affordable", "budget", "installment", "تقسيط", "save", "توفير"}},
			{"Premium Home Seekers", []string{"premium", "luxury", "high-end", "فاخر", "best quality"}},
			{"Energy-Conscious Consumers", []string{"energy saving", "توفير الطاقة", "eco", "efficient", "كفاءة"}},
		}},
		"pharmacy": {Budget: "Budget-Conscious Shoppers", Segments: []Segment{
			{"Health-Conscious Consumers", []string{"health", "صحة", "wellness", "عافية", "vitamins", "فيتامينات", "supplements"}},
			{"Parents/Caregivers", []string{"baby", "kids", "طفل", "أطفال", "family", "عائلة", "children"}},
			{"Elderly/Senior Care", []string{"elderly", "senior", "كبار السن", "aged", "arthritis", "pain relief"}},
			{"Fitness/Wellness Seekers", []string{"fitness", "protein", "بروتين", "sports nutrition", "muscle"}},
			{"Budget-Conscious Shoppers", []string{"affordable", "discount", "خصم", "save", "توفير"}},
			{"Chronic Condition Patients", []string{"diabetes", "سكري", "blood pressure", "ضغط الدم", "chronic"}},
		}},
		"grocery": {Budget: "Budget Shoppers", Segments: []Segment{
			{"Families", []string{"family", "عائلة", "bulk", "بالجملة", "kids", "أطفال", "household"}},
			{"Bulk Buyers", []string{"bulk", "بالجملة", "wholesale", "stock up", "تخزين", "large pack"}},
			{"Health-Conscious Shoppers", []string{"organic", "عضوي", "healthy", "صحي", "fresh", "طازج", "natural"}},
			{"Budget Shoppers", []string{"discount", "خصم", "sale", "تخفيض", "save", "توفير", "cheap"}},
			{"Busy Professionals", []string{"quick", "سريع", "delivery", "توصيل", "convenient", "سهل"}},
			{"Organic/Premium Seekers", []string{"organic", "عضوي", "premium", "فاخر", "imported", "مستورد"}},
		}},
	}
}

func defaultThemes() map[string][]Theme {
	return map[string][]Theme{
		"restaurant": {
			{"price", []string{"discount", "خصم", "save", "cheap", "رخيص", "offer", "عرض", "sale", "تخفيض", "deal", "صفقة", "%", "free", "مجاني"}},
			{"speed", []string{"fast", "سريع", "quick", "express", "30 min", "دقيقة", "instant", "فوري", "now", "الآن", "asap"}},
			{"quality", []string{"fresh", "طازج", "premium", "best", "أفضل", "quality", "جودة", "finest", "gourmet", "delicious", "لذيذ"}},
			{"convenience", []string{"easy", "سهل", "24/7", "delivered", "توصيل", "app", "تطبيق", "simple", "بسيط", "anywhere", "في أي مكان"}},
		},
		"electronics": {
			{"price", []string{"discount", "خصم", "sale", "تخفيض", "installment", "تقسيط", "save", "توفير", "offer", "عرض", "deal", "%"}},
			{"innovation", []string{"latest", "أحدث", "new", "جديد", "5g", "ai", "smart", "ذكي", "cutting-edge", "innovative", "مبتكر", "advanced", "متقدم"}},
			{"performance", []string{"fast", "سريع", "powerful", "قوي", "specs", "مواصفات", "speed", "performance", "أداء", "processor", "معالج", "ram", "storage"}},
			{"convenience", []string{"delivery", "توصيل", "easy setup", "تركيب سهل", "warranty", "ضمان", "support", "دعم", "free shipping", "شحن مجاني"}},
		},
		"fashion": {
			{"price", []string{"sale", "تخفيض", "discount", "خصم", "clearance", "تصفية", "offer", "عرض", "%", "cheap", "رخيص"}},
			{"style", []string{"trendy", "موضة", "latest", "أحدث", "collection", "مجموعة", "new", "جديد", "fashion", "أناقة", "elegant", "راقي"}},
			{"quality", []string{"premium", "فاخر", "luxury", "designer", "ديزاينر", "high-quality", "جودة عالية", "finest"}},
			{"convenience", []string{"free delivery", "توصيل مجاني", "easy return", "إرجاع سهل", "cash on delivery", "الدفع عند الاستلام", "fast shipping"}},
		},
		"sports": {
			{"price", []string{"discount", "خصم", "sale", "offer", "عرض", "cheap", "رخيص", "%"}},
			{"performance", []string{"pro", "احترافي", "professional", "performance", "أداء", "advanced", "متقدم", "athlete", "رياضي"}},
			{"quality", []string{"premium", "فاخر", "durable", "متين", "high-quality", "جودة عالية", "best", "أفضل"}},
			{"convenience", []string{"delivery", "توصيل", "easy", "سهل", "free shipping", "شحن مجاني"}},
		},
		"home_appliances": {
			{"price", []string{"discount", "خصم", "installment", "تقسيط", "offer", "عرض", "sale", "تخفيض", "%"}},
			{"efficiency", []string{"energy saving", "توفير الطاقة", "eco", "efficient", "كفاءة", "power saving", "green", "أخضر"}},
			{"quality", []string{"durable", "متين", "warranty", "ضمان", "premium", "فاخر", "high-quality", "جودة عالية", "reliable"}},
			{"convenience", []string{"delivery", "توصيل", "installation", "تركيب", "setup", "إعداد", "free install", "تركيب مجاني"}},
		},
		"pharmacy": {
			{"price", []string{"discount", "خصم", "save", "توفير", "offer", "عرض", "cheap", "رخيص", "%"}},
			{"health", []string{"health", "صحة", "wellness", "عافية", "care", "رعاية", "effective", "فعال", "trusted", "موثوق"}},
			{"quality", []string{"premium", "فاخر", "certified", "معتمد", "authentic", "أصلي", "approved", "مصرح"}},
			{"convenience", []string{"delivery", "توصيل", "24/7", "prescription", "وصفة طبية", "fast delivery", "توصيل سريع"}},
		},
		"grocery": {
			{"price", []string{"discount", "خصم", "save", "توفير", "offer", "عرض", "bulk", "بالجملة", "%", "cheap", "رخيص"}},
			{"freshness", []string{"fresh", "طازج", "daily", "يومي", "new", "جديد", "quality", "جودة", "organic", "عضوي"}},
			{"variety", []string{"variety", "تنوع", "wide selection", "اختيار واسع", "all brands", "جميع الماركات", "everything"}},
			{"convenience", []string{"delivery", "توصيل", "quick", "سريع", "same day", "نفس اليوم", "easy", "سهل", "app", "تطبيق"}},
		},
	}
}

func kw(weight float64, terms ...string) []CuisineKeyword {
	out := make([]CuisineKeyword, len(terms))
	for i, t := range terms {
		out[i] = CuisineKeyword{Term: t, Weight: weight}
	}
	return out
}

func cuisine(name string, brands []string, groups ...[]CuisineKeyword) Cuisine {
	c := Cuisine{Name: name, Brands: brands}
	for _, g := range groups {
		c.Keywords = append(c.Keywords, g...)
	}
	return c
}

func defaultCuisines() []Cuisine {
	return []Cuisine{
		cuisine("Burgers & Fast Food",
			[]string{"McDonald's", "Burger King", "Five Guys", "Shake Shack", "Smash Me", "Wendy's"},
			kw(3, "burger", "burgers", "برجر", "برغر"),
			kw(4, "big mac", "whopper"),
			kw(3.5, "cheeseburger"),
			kw(2, "fries", "بطاطس مقلية"),
		),
		cuisine("Pizza & Italian",
			[]string{"Pizza Hut", "Domino's", "Papa John's"},
			kw(4, "pizza", "pizzas", "بيتزا"),
			kw(3, "italian", "pasta", "باستا"),
			kw(3.5, "margherita", "pepperoni"),
		),
		cuisine("Mexican & Tex-Mex",
			[]string{"Chipotle", "Taco Bell", "Qdoba"},
			kw(4, "taco", "tacos", "تاكو", "burrito", "بوريتو", "quesadilla", "كيساديا"),
			kw(3.5, "nachos", "guacamole"),
			kw(3, "mexican", "مكسيكي"),
		),
		cuisine("Asian Food (Chinese/Thai/Japanese)",
			[]string{"P.F. Chang's", "Panda Express", "Wagamama"},
			kw(4, "sushi", "سوشي", "ramen", "pad thai"),
			kw(3, "chinese", "صيني", "wok"),
			kw(3.5, "thai", "تايلندي", "teriyaki", "تيرياكي", "poke bowl"),
			kw(2.5, "noodles", "نودلز"),
		),
		cuisine("Shawarma & Street Food", nil,
			kw(5, "shawarma", "شاورما"),
			kw(3.5, "falafel", "فلافل"),
			kw(3, "street food", "طعام شارع"),
		),
		cuisine("Khaliji Cuisine (Mandi/Madbi/Majboos)", nil,
			kw(5, "mandi", "مندي", "madbi", "مضبي", "majboos", "مجبوس"),
			kw(4.5, "kabsa", "كبسة"),
			kw(4, "khaliji", "خليجي"),
			kw(1.5, "rice", "رز"),
		),
		cuisine("Arabic Pastries & Sweets", nil,
			kw(5, "kunafa", "كنافة", "baklava", "بقلاوة"),
			kw(4.5, "qatayef", "قطايف"),
			kw(4, "arabic sweets", "حلويات عربية"),
			kw(2, "pastries", "معجنات"),
		),
		cuisine("Arabic & Middle Eastern",
			[]string{"Zaatar w Zeit"},
			kw(3, "kabab", "كباب", "kebab", "hummus", "حمص", "tabbouleh", "تبولة", "fattoush", "فتوش"),
			kw(2, "arabic", "عربي"),
			kw(3.5, "manakish", "مناقيش"),
		),
		cuisine("Fried Chicken & Fast Food",
			[]string{"KFC", "Popeyes", "Texas Chicken", "Jollibee"},
			kw(4, "fried chicken", "دجاج مقلي"),
			kw(3, "wings", "أجنحة", "tenders"),
			kw(2, "crispy", "كرسبي"),
			kw(3.5, "bucket"),
		),
		cuisine("Coffee & Beverages",
			[]string{"Starbucks", "Costa Coffee", "Dunkin'"},
			kw(3.5, "coffee", "قهوة", "frappuccino"),
			kw(3, "latte", "لاتيه", "cappuccino", "كابتشينو", "espresso", "اسبريسو"),
			kw(2.5, "mocha"),
		),
		cuisine("Healthy/Organic Food", nil,
			kw(5, "acai", "أساي", "açaí", "acai bowl"),
			kw(4.5, "superfood", "سوبرفود", "smoothie bowl", "cold pressed"),
			kw(3, "salad", "سلطة"),
			kw(4, "vegan", "نباتي", "kale", "quinoa", "كينوا", "detox", "ديتوكس", "green juice"),
			kw(3.5, "organic", "عضوي"),
		),
		cuisine("Desserts & Sweets",
			[]string{"Baskin Robbins", "Cold Stone", "Dairy Queen", "Krispy Kreme"},
			kw(4, "ice cream", "آيس كريم", "gelato", "جيلاتو"),
			kw(3, "dessert", "حلويات", "cake", "كيك"),
			kw(3.5, "brownie", "براوني", "donut", "دونات"),
		),
		cuisine("Breakfast & Brunch",
			[]string{"IHOP", "Denny's", "Waffle House"},
			kw(4, "breakfast", "فطور", "brunch"),
			kw(2.5, "eggs", "بيض"),
			kw(3.5, "pancakes", "بان كيك", "waffle", "وافل"),
			kw(3, "omelette", "أومليت"),
		),
		cuisine("Sandwiches & Subs",
			[]string{"Subway", "Jimmy John's", "Jersey Mike's"},
			kw(3.5, "sandwich", "ساندويتش", "sub", "panini", "بانيني"),
			kw(3, "wrap", "لفافة"),
		),
		cuisine(MixedCuisine,
			[]string{"The Cheesecake Factory", "Applebee's", "Chili's"},
			kw(2.5, "family", "عائلة"),
			kw(3, "diner"),
			kw(2, "variety", "تنوع"),
			kw(1, "menu"),
		),
	}
}
