package schema

// BookingRule represents a demand-responsive booking rule from
// booking_rules.txt, referenced by stop_times.txt rows via booking_rule_id.
type BookingRule struct {
	BookingRuleID          string `csv:"booking_rule_id"`
	BookingType            int    `csv:"booking_type"`
	PriorNoticeDurationMin *int   `csv:"prior_notice_duration_min"`
	PriorNoticeDurationMax *int   `csv:"prior_notice_duration_max"`
	PriorNoticeLastDay     *int   `csv:"prior_notice_last_day"`
	PriorNoticeLastTime    string `csv:"prior_notice_last_time"`
	PriorNoticeStartDay    *int   `csv:"prior_notice_start_day"`
	PriorNoticeStartTime   string `csv:"prior_notice_start_time"`
	PriorNoticeServiceID   string `csv:"prior_notice_service_id"`
	Message                string `csv:"message"`
	PickupMessage          string `csv:"pickup_message"`
	DropOffMessage         string `csv:"drop_off_message"`
	PhoneNumber            string `csv:"phone_number"`
	InfoURL                string `csv:"info_url"`
	BookingURL             string `csv:"booking_url"`
}
