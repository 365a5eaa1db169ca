package schema

// RiderCategory represents a class of rider eligible for particular fare
// products, from rider_categories.txt.
type RiderCategory struct {
	RiderCategoryID     string `csv:"rider_category_id"`
	RiderCategoryName   string `csv:"rider_category_name"`
	IsDefaultFareCategory int  `csv:"is_default_fare_category"`
}
