package catalog

import (
	"regexp"
	"unicode"
)

// Region holds the textual markers that tie an ad to one market.
type Region struct {
	Code       string
	Domains    []string
	Phones     []*regexp.Regexp
	Currencies []string
	Keywords   []string
	Cities     []string
}

// Script is a writing system that marks an ad as outside the served markets.
type Script struct {
	Name  string
	Table *unicode.RangeTable
}

// RejectedScripts names the common non-Gulf script families. Any other
// script outside Arabic and Latin is rejected too, under its Unicode name.
func RejectedScripts() []Script {
	return []Script{
		{Name: "chinese", Table: unicode.Han},
		{Name: "korean", Table: unicode.Hangul},
		{Name: "japanese", Table: japaneseKana},
		{Name: "cyrillic", Table: unicode.Cyrillic},
		{Name: "thai", Table: unicode.Thai},
		{Name: "hindi", Table: unicode.Devanagari},
	}
}

var japaneseKana = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309f, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
	},
}

// DefaultRegions returns markers for the Gulf markets plus the non-Gulf
// markets whose ads most often leak into Gulf feeds.
func DefaultRegions() []Region {
	return []Region{
		{
			Code:       "QA",
			Domains:    []string{".qa", "qatar", "/qa/", "/qa-", "-qa"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+974|00974|974)\s*[3-9]\d{7}`)},
			Currencies: []string{"qar", "ق.ر", "ریال قطری", "riyal"},
			Keywords:   []string{"قطر", "qatar", "doha", "الدوحة"},
		},
		{
			Code:       "AE",
			Domains:    []string{".ae", "/ae/", "/ae-", "-ae", "/uae/", "/emirates/"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+971|00971|971)\s*[24-9]\d{7,8}`)},
			Currencies: []string{"aed", "د.إ", "dirham", "درهم"},
			Keywords:   []string{"uae", "الإمارات", "dubai", "دبي", "abu dhabi", "أبوظبي"},
			Cities: []string{
				"dubai", "abu dhabi", "sharjah", "ajman", "ras al khaimah", "fujairah",
				"umm al quwain", "al ain", "khor fakkan",
				"دبي", "أبوظبي", "أبو ظبي", "الشارقة", "عجمان", "رأس الخيمة",
				"الفجيرة", "أم القيوين", "خورفكان",
			},
		},
		{
			Code:       "SA",
			Domains:    []string{".sa", ".com.sa", "/sa/", "/sa-", "-sa", "/ksa/", "/saudi/"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+966|00966|966)\s*5\d{8}`)},
			Currencies: []string{"sar", "ر.س", "riyal", "ریال سعودی"},
			Keywords:   []string{"saudi", "السعودية", "riyadh", "الرياض", "jeddah", "جدة", "ksa"},
			Cities: []string{
				"riyadh", "jeddah", "mecca", "medina", "dammam", "khobar", "dhahran",
				"taif", "tabuk", "buraidah", "khamis mushait", "najran",
				"jazan", "yanbu", "al kharj", "abha", "unaizah", "qatif",
				"الرياض", "جدة", "جده", "مكة", "مكه", "المدينة المنورة", "المدينه المنورة",
				"الدمام", "الظهران", "الطائف", "تبوك", "بريدة", "بريده",
				"خميس مشيط", "حائل", "نجران", "جازان", "جيزان", "ينبع", "الخرج",
				"أبها", "عنيزة", "القطيف",
			},
		},
		{
			Code:       "KW",
			Domains:    []string{".kw", "/kw/", "/kw-", "-kw", "/kuwait/"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+965|00965|965)\s*[2456]\d{7}`)},
			Currencies: []string{"kwd", "د.ك", "dinar", "دينار"},
			Keywords:   []string{"kuwait", "الكويت"},
		},
		{
			Code:       "BH",
			Domains:    []string{".bh", "/bh/", "/bh-", "-bh", "/bahrain/"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+973|00973|973)\s*[3679]\d{7}`)},
			Currencies: []string{"bhd", "د.ب", "dinar"},
			Keywords:   []string{"bahrain", "البحرين", "manama", "المنامة"},
			Cities: []string{
				"manama", "muharraq", "riffa", "hamad town", "isa town", "sitra",
				"budaiya", "jidhafs", "al hidd", "sanabis",
				"المنامة", "المنامه", "المحرق", "المحرّق", "الرفاع", "الرفاعة",
				"مدينة حمد", "مدينة عيسى", "البدية", "جدحفص", "سنابس",
			},
		},
		{
			Code:       "OM",
			Domains:    []string{".om", "/om/", "/om-", "-om", "/oman/"},
			Phones:     []*regexp.Regexp{regexp.MustCompile(`(?:\+968|00968|968)\s*[79]\d{7}`)},
			Currencies: []string{"omr", "ر.ع", "riyal"},
			Keywords:   []string{"oman", "عمان", "muscat", "مسقط"},
		},
		{
			Code:    "EG",
			Domains: []string{".eg", ".com.eg", "/eg/", "-eg", "/egypt/", "/cairo/"},
			Cities: []string{
				"cairo", "alexandria", "giza", "shubra el kheima", "port said",
				"suez", "luxor", "aswan", "mansoura", "tanta", "asyut", "ismailia",
				"faiyum", "zagazig", "damietta", "assiut", "minya", "damanhur",
				"beni suef", "qena", "sohag", "hurghada", "6th of october",
				"shibin el kom", "banha", "kafr el sheikh", "arish", "mallawi",
				"القاهرة", "القاهره", "الإسكندرية", "الاسكندرية", "الجيزة", "الجيزه",
				"شبرا الخيمة", "بورسعيد", "السويس", "الأقصر", "الاقصر", "أسوان", "اسوان",
				"المنصورة", "المنصوره", "طنطا", "أسيوط", "اسيوط", "الإسماعيلية", "الاسماعيلية",
				"الفيوم", "الزقازيق", "دمياط", "المنيا", "دمنهور", "بني سويف",
				"سوهاج", "الغردقة", "6 أكتوبر", "شبين الكوم",
				"كفر الشيخ", "العريش",
			},
		},
		{Code: "CN", Currencies: []string{"cny", "¥", "yuan", "rmb", "人民币"}},
		{Code: "IN", Currencies: []string{"inr", "₹", "rupee"}},
		{Code: "PK", Currencies: []string{"pkr", "₨", "rupee"}},
	}
}
