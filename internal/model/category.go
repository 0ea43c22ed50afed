package model

import "strings"

// Category is the closed set of product category labels an ad can receive.
type Category string

const (
	CategoryRestaurant     Category = "restaurant"
	CategoryElectronics    Category = "electronics"
	CategoryHomeAppliances Category = "home_appliances"
	CategoryFashion        Category = "fashion"
	CategoryBeauty         Category = "beauty"
	CategorySports         Category = "sports"
	CategoryPharmacy       Category = "pharmacy"
	CategoryToys           Category = "toys"
	CategoryPetSupplies    Category = "pet_supplies"
	CategoryGrocery        Category = "grocery"
	CategoryFlowers        Category = "flowers"
	CategoryEntertainment  Category = "entertainment"
	CategorySweetsDesserts Category = "sweets_desserts"
	CategoryBeverages      Category = "beverages"
	CategoryGenericProduct Category = "generic_physical_product"
	CategorySubscription   Category = "platform_subscription"
	CategoryMultiPromotion Category = "multi_entity_promotion"
)

// Categories lists every valid label in prompt order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryElectronics,
	CategoryHomeAppliances,
	CategoryFashion,
	CategoryBeauty,
	CategorySports,
	CategoryPharmacy,
	CategoryToys,
	CategoryPetSupplies,
	CategoryGrocery,
	CategoryFlowers,
	CategoryEntertainment,
	CategorySweetsDesserts,
	CategoryBeverages,
	CategoryGenericProduct,
	CategorySubscription,
	CategoryMultiPromotion,
}

// Kind groups categories by how downstream stages treat them.
type Kind string

const (
	KindRestaurant      Kind = "restaurant"
	KindPhysicalProduct Kind = "physical_product"
	KindSubscription    Kind = "subscription"
	KindPromotion       Kind = "promotion"
)

// Kind maps a category label to its behaviour group. Unknown labels are
// treated as physical products.
func (c Category) Kind() Kind {
	switch c {
	case CategoryRestaurant:
		return KindRestaurant
	case CategorySubscription:
		return KindSubscription
	case CategoryMultiPromotion:
		return KindPromotion
	default:
		return KindPhysicalProduct
	}
}

// Valid reports whether c is one of the closed labels.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// categoryAliases maps labels used by the generative service and older
// exports onto the closed set.
var categoryAliases = map[string]Category{
	"unknown_category":   CategoryGenericProduct,
	"unknown":            CategoryGenericProduct,
	"product":            CategoryGenericProduct,
	"physical_product":   CategoryGenericProduct,
	"category_promotion": CategoryMultiPromotion,
	"promotion":          CategoryMultiPromotion,
	"subscription":       CategorySubscription,
	"food":               CategoryRestaurant,
	"food_delivery":      CategoryRestaurant,
	"pet":                CategoryPetSupplies,
	"sweets":             CategorySweetsDesserts,
	"desserts":           CategorySweetsDesserts,
	"beverage":           CategoryBeverages,
	"supermarket":        CategoryGrocery,
}

// ParseCategory normalizes a free-form label into the closed set. The second
// return value is false when the label could not be mapped.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_", "&", "_").Replace(key)
	if c := Category(key); c.Valid() {
		return c, true
	}
	if c, ok := categoryAliases[key]; ok {
		return c, true
	}
	return CategoryGenericProduct, false
}

// EntityType classifies catalog entities.
type EntityType string

const (
	EntityRestaurant     EntityType = "restaurant"
	EntityElectronics    EntityType = "electronics"
	EntityHomeAppliances EntityType = "home_appliances"
	EntityFashion        EntityType = "fashion"
	EntityBeauty         EntityType = "beauty"
	EntitySports         EntityType = "sports"
	EntityPharmacy       EntityType = "pharmacy"
	EntityToys           EntityType = "toys"
	EntityPetSupplies    EntityType = "pet_supplies"
	EntityFlowers        EntityType = "flowers"
	EntityEntertainment  EntityType = "entertainment"
	EntitySweets         EntityType = "sweets_desserts"
	EntityBeverages      EntityType = "beverages"
	EntityProduct        EntityType = "product"
	EntityGrocery        EntityType = "grocery"
	EntityMarketplace    EntityType = "marketplace"
	EntityPlatform       EntityType = "platform"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityRestaurant, EntityElectronics, EntityHomeAppliances, EntityFashion,
		EntityBeauty, EntitySports, EntityPharmacy, EntityToys, EntityPetSupplies,
		EntityFlowers, EntityEntertainment, EntitySweets, EntityBeverages,
		EntityProduct, EntityGrocery, EntityMarketplace, EntityPlatform:
		return true
	}
	return false
}

// IsProduct reports whether the entity sells physical goods directly.
func (t EntityType) IsProduct() bool {
	switch t {
	case EntityRestaurant, EntityGrocery, EntityMarketplace, EntityPlatform, "":
		return false
	}
	return t.Valid()
}

// Category returns the product category an entity type implies. Types that do
// not imply a single category return false.
func (t EntityType) Category() (Category, bool) {
	switch t {
	case EntityRestaurant:
		return CategoryRestaurant, true
	case EntityProduct:
		return CategoryGenericProduct, true
	case EntityGrocery:
		return CategoryGrocery, true
	case EntityMarketplace, EntityPlatform, "":
		return "", false
	}
	if c := Category(t); c.Valid() {
		return c, true
	}
	return "", false
}
