package schema

// Timeframe represents a named time window from timeframes.txt, used by
// GTFS Fares v2 to partition a service day into fare-relevant periods.
type Timeframe struct {
	TimeframeGroupID string `csv:"timeframe_group_id"`
	StartTime        string `csv:"start_time"`
	EndTime          string `csv:"end_time"`
	ServiceID        string `csv:"service_id"`
}
