package catalog

import "github.com/sells-group/ad-intel/internal/model"

func ent(name string, t model.EntityType, priority int, aliases ...string) Entity {
	return Entity{Name: name, Aliases: aliases, Type: t, Priority: priority}
}

// DefaultEntities returns the built-in entity catalog for Gulf delivery and
// retail advertisers.
func DefaultEntities() []Entity {
	return []Entity{
		ent("McDonald's", model.EntityRestaurant, 5, "mcdonald", "mcdonalds", "mc donald's", "ماكدونالدز"),
		ent("Burger King", model.EntityRestaurant, 4, "burger king", "برغر كينغ", "برجر كينج"),
		ent("KFC", model.EntityRestaurant, 5, "kfc", "kentucky", "كنتاكي"),
		ent("Smash Me", model.EntityRestaurant, 4, "smash me", "smashme", "سماش مي"),
		ent("P.F. Chang's", model.EntityRestaurant, 4, "pf changs", "p.f. chang's", "pf chang", "ب ف شانجز", "بي اف شانغز"),
		ent("Pizza Hut", model.EntityRestaurant, 4, "pizza hut", "بيتزا هت"),
		ent("Subway", model.EntityRestaurant, 4, "subway", "صب واي", "سب واي"),
		ent("TGI Friday's", model.EntityRestaurant, 4, "tgi friday", "tgi fridays", "tgi friday's", "fridays", "تي جي آي فرايدي", "تي جي آي فرايديز"),
		ent("Applebee's", model.EntityRestaurant, 4, "applebees", "applebee's", "applebee", "آبليبيز"),
		ent("Chili's", model.EntityRestaurant, 4, "chilis", "chili's", "chili", "تشيليز"),
		ent("Texas Roadhouse", model.EntityRestaurant, 4, "texas roadhouse", "texasroadhouse", "تكساس رودهاوس"),
		ent("Hardee's", model.EntityRestaurant, 4, "hardees", "hardee's", "hardee", "هارديز"),
		ent("Wendy's", model.EntityRestaurant, 4, "wendys", "wendy's", "wendy", "ويندي", "ويندي ز"),
		ent("Domino's Pizza", model.EntityRestaurant, 4, "dominos", "domino's", "domino pizza", "دومينوز"),
		ent("Papa John's", model.EntityRestaurant, 4, "papa johns", "papa john's", "papajohns", "بابا جونز"),
		ent("Starbucks", model.EntityRestaurant, 5, "starbucks", "ستاربكس"),
		ent("Costa Coffee", model.EntityRestaurant, 4, "costa", "costa coffee", "كوستا"),
		ent("Dunkin'", model.EntityRestaurant, 4, "dunkin", "dunkin donuts", "dunkin'", "دانكن", "دنكن"),
		ent("Baskin Robbins", model.EntityRestaurant, 4, "baskin robbins", "baskin-robbins", "baskinrobbins", "باسكن روبنز"),
		ent("Cold Stone", model.EntityRestaurant, 3, "cold stone", "coldstone", "cold stone creamery", "كولد ستون"),
		ent("Shake Shack", model.EntityRestaurant, 4, "shake shack", "shakeshack", "شيك شاك"),
		ent("Five Guys", model.EntityRestaurant, 3, "five guys", "fiveguys", "فايف جايز"),
		ent("Popeyes", model.EntityRestaurant, 4, "popeyes", "popeye's", "بوبايز"),
		ent("Nando's", model.EntityRestaurant, 4, "nandos", "nando's", "nando", "ناندوز"),
		ent("Buffalo Wild Wings", model.EntityRestaurant, 3, "buffalo wild wings", "buffalo wings", "bww", "بافلو وايلد وينجز"),
		ent("The Cheesecake Factory", model.EntityRestaurant, 4, "cheesecake factory", "the cheesecake factory", "تشيز كيك فاكتوري"),
		ent("Olive Garden", model.EntityRestaurant, 4, "olive garden", "olivegarden", "أوليف جاردن"),
		ent("Red Lobster", model.EntityRestaurant, 4, "red lobster", "redlobster", "ريد لوبستر"),
		ent("Al Wakrah Sweets", model.EntityRestaurant, 3, "al wakrah sweets", "wakrah sweets", "الوكرة حلويات", "حلويات الوكرة"),
		ent("O2 Cafe", model.EntityRestaurant, 3, "o2 cafe", "o2cafe", "o2", "او2 كافيه"),
		ent("NutriBullet", model.EntityProduct, 3, "nutribullet", "nutri bullet"),
		ent("Talabat", model.EntityPlatform, 0, "talabat", "طلبات"),
		ent("Snoonu", model.EntityPlatform, 0, "snoonu", "snoonu.com", "سنوونو"),
		ent("Rafeeq", model.EntityPlatform, 0, "rafeeq", "rafiq", "رفيق"),
		ent("Keeta", model.EntityPlatform, 0, "keeta", "كيتا"),
		ent("Lulu Hypermarket", model.EntityGrocery, 4, "lulu", "lulu hypermarket", "lulu qatar", "لولو", "لولو هايبر ماركت"),
		ent("Al Meera", model.EntityGrocery, 4, "al meera", "al-meera", "الميرة"),
		ent("Monoprix", model.EntityGrocery, 4, "monoprix", "monoprix qatar", "مونوبري"),
		ent("Snoomart", model.EntityGrocery, 2, "snoomart", "snoo mart", "سنومارت"),
		ent("TalabatMart", model.EntityGrocery, 2, "talabatmart", "talabat mart", "طلبات مارت"),
		ent("Samsung", model.EntityElectronics, 4, "samsung", "سامسونج"),
		ent("Apple", model.EntityElectronics, 5, "apple", "آبل", "iphone", "آيفون"),
		ent("Xiaomi", model.EntityElectronics, 3, "xiaomi", "شاومي"),
		ent("Huawei", model.EntityElectronics, 3, "huawei", "هواوي"),
		ent("Sony", model.EntityElectronics, 3, "sony", "سوني"),
		ent("Philips", model.EntityHomeAppliances, 3, "philips", "فيليبس"),
		ent("Bosch", model.EntityHomeAppliances, 3, "bosch", "بوش"),
		ent("H&M", model.EntityFashion, 3, "h&m", "hm", "اتش اند ام"),
		ent("Zara", model.EntityFashion, 3, "zara", "زارا"),
		ent("Shein", model.EntityFashion, 2, "shein", "شي ان", "شيإن"),
		ent("Nike", model.EntitySports, 4, "nike", "نايك"),
		ent("Adidas", model.EntitySports, 4, "adidas", "أديداس"),
		ent("Decathlon", model.EntitySports, 3, "decathlon", "ديكاتلون"),
		ent("Modest Fashion Boutique", model.EntityFashion, 2, "modest fashion boutique", "modest boutique", "عبايات مودست"),
		ent("Abaya House", model.EntityFashion, 2, "abaya house", "بيت العباية", "عباية هاوس"),
		ent("Doha Pharmacy", model.EntityPharmacy, 2, "doha pharmacy", "صيدلية الدوحة"),
		ent("Al Aziziya Pharmacy", model.EntityPharmacy, 3, "al aziziya pharmacy", "aziziya pharmacy", "صيدلية العزيزية", "العزيزية"),
		ent("Kulud Pharmacy", model.EntityPharmacy, 2, "kulud pharmacy", "كلود", "صيدلية كلود"),
		ent("Rafeeq Care", model.EntityPharmacy, 2, "rafeeq care", "rafiq care", "رفيق كير"),
		ent("Boots", model.EntityPharmacy, 3, "boots", "boots pharmacy"),
		ent("MAC Cosmetics", model.EntityBeauty, 4, "mac cosmetics", "mac", "ماك"),
		ent("Sephora", model.EntityBeauty, 4, "sephora", "سيفورا"),
		ent("L'Oréal", model.EntityBeauty, 3, "loreal", "l'oreal", "لوريال"),
		ent("Maybelline", model.EntityBeauty, 3, "maybelline", "مايبيلين"),
		ent("Olaplex", model.EntityBeauty, 2, "olaplex", "أولابليكس"),
		ent("Biobalance", model.EntityBeauty, 2, "biobalance", "bio balance", "بايو بالانس"),
		ent("Anua", model.EntityBeauty, 2, "anua", "أنوا"),
		ent("Fino", model.EntityBeauty, 1, "fino", "فينو"),
		ent("Ferns and Petals", model.EntityFlowers, 4, "ferns and petals", "ferns & petals", "fnp"),
		ent("Floward", model.EntityFlowers, 3, "floward", "فلاورد"),
		ent("Lattafa", model.EntityBeauty, 3, "lattafa", "لطافة"),
		ent("Rainbow", model.EntityGrocery, 2, "rainbow", "rainbow milk", "rainbow evaporated milk"),
		ent("PlayStation", model.EntityElectronics, 5, "playstation", "ps5", "ps4", "بلايستيشن"),
		ent("Deliveroo", model.EntityPlatform, 0, "deliveroo", "ديليفرو"),
		ent("Carrefour", model.EntityGrocery, 4, "carrefour", "كارفور"),
		ent("Amazon", model.EntityMarketplace, 3, "amazon", "amazon.ae", "amazon.sa", "أمازون"),
	}
}
