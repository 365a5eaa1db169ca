package schema

// Area represents a named geographic grouping of stops from areas.txt,
// used by Fares v2 leg rules to key origin/destination pricing.
type Area struct {
	AreaID   string `csv:"area_id"`
	AreaName string `csv:"area_name"`
}

// StopArea represents a stop's membership in an area, from stop_areas.txt.
type StopArea struct {
	AreaID string `csv:"area_id"`
	StopID string `csv:"stop_id"`
}
