package schema

// StopTime represents a stop time from stop_times.txt, including the
// GTFS-Flex columns that let a row target a demand-responsive zone
// (locations.geojson) and booking window instead of a fixed-time stop.
type StopTime struct {
	TripID            string `csv:"trip_id"`
	ArrivalTime       string `csv:"arrival_time"`
	DepartureTime     string `csv:"departure_time"`
	StopID            string `csv:"stop_id"`
	LocationGroupID   string `csv:"location_group_id"`
	LocationID        string `csv:"location_id"`
	StopSequence      int    `csv:"stop_sequence"`
	StopHeadsign      string `csv:"stop_headsign"`
	StartPickupDropOffWindow string `csv:"start_pickup_drop_off_window"`
	EndPickupDropOffWindow   string `csv:"end_pickup_drop_off_window"`
	PickupType        string `csv:"pickup_type"`
	DropOffType       string `csv:"drop_off_type"`
	ContinuousPickup  string `csv:"continuous_pickup"`
	ContinuousDropOff string `csv:"continuous_drop_off"`
	ShapeDistTraveled string `csv:"shape_dist_traveled"`
	Timepoint         int    `csv:"timepoint"`
	PickupBookingRuleID  string `csv:"pickup_booking_rule_id"`
	DropOffBookingRuleID string `csv:"drop_off_booking_rule_id"`
}