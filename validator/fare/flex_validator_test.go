package fare

import (
	"testing"

	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/testutil"
	gtfsvalidator "github.com/transitlint/gtfs-validator/validator"
)

func TestFlexValidator_Validate(t *testing.T) {
	header := "trip_id,arrival_time,departure_time,stop_id,location_id,location_group_id,stop_sequence," +
		"start_pickup_drop_off_window,end_pickup_drop_off_window,pickup_type,drop_off_type," +
		"pickup_booking_rule_id,drop_off_booking_rule_id,shape_dist_traveled\n"

	files := map[string]string{
		"stop_times.txt": header +
			// fixed stop, no flex fields: fine
			"T1,08:00:00,08:00:00,S1,,,1,,,,,,,\n" +
			// zone row with a fixed arrival_time: conflict
			"T1,08:05:00,,,,Z1,2,08:00:00,09:00:00,,,,,\n" +
			// zone row with both stop_id and zone set: conflict
			"T1,,,S2,Z2,,3,08:00:00,09:00:00,,,,,\n" +
			// zone row with only start of window set: forbidden
			"T1,,,,,Z3,4,08:00:00,,,,,,\n" +
			// zone row with shape_dist_traveled set: forbidden
			"T1,,,,,Z4,5,08:00:00,09:00:00,,,,,1.5\n" +
			// pickup_type=2 without pickup_booking_rule_id
			"T1,08:10:00,08:10:00,S3,,,6,,,2,,,, \n" +
			// neither stop_id nor zone reference
			"T1,08:15:00,08:15:00,,,,7,,,,,,,\n",
	}

	loader := testutil.CreateTestFeedLoader(t, files)
	container := notice.NewNoticeContainer()

	v := NewFlexValidator()
	v.Validate(loader, container, gtfsvalidator.Config{})

	codes := map[string]int{}
	for _, n := range container.GetNotices() {
		codes[n.Code()]++
	}

	if codes["overlapping_zone_and_pickup_drop_off_window"] == 0 {
		t.Errorf("expected overlapping_zone_and_pickup_drop_off_window notice")
	}
	if codes["flex_zone_reference_invalid"] < 2 {
		t.Errorf("expected at least 2 flex_zone_reference_invalid notices (both-set and neither-set rows), got %d", codes["flex_zone_reference_invalid"])
	}
	if codes["flex_forbidden_field"] < 2 {
		t.Errorf("expected at least 2 flex_forbidden_field notices (unpaired window, shape_dist_traveled), got %d", codes["flex_forbidden_field"])
	}
	if codes["missing_pickup_drop_off_booking_rule_id"] == 0 {
		t.Errorf("expected missing_pickup_drop_off_booking_rule_id notice")
	}
}
