package fare

import (
	"io"
	"strconv"
	"strings"

	"github.com/transitlint/gtfs-validator/logging"
	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/parser"
	"github.com/transitlint/gtfs-validator/validator"
)

// FlexValidator validates the GTFS-Flex columns of stop_times.txt that let a
// row target a demand-responsive zone (location_id/location_group_id) and a
// booking window instead of a fixed-time stop.
type FlexValidator struct{}

// NewFlexValidator creates a new GTFS-Flex validator
func NewFlexValidator() *FlexValidator {
	return &FlexValidator{}
}

// flexStopTimeRow is a parsed stop_times.txt record, flex fields only
type flexStopTimeRow struct {
	TripID                   string
	StopSequence             int
	StopID                   string
	LocationID               string
	LocationGroupID          string
	ArrivalTime              string
	DepartureTime            string
	StartPickupDropOffWindow string
	EndPickupDropOffWindow   string
	PickupType               string
	DropOffType              string
	PickupBookingRuleID      string
	DropOffBookingRuleID     string
	ShapeDistTraveled        string
	RowNumber                int
}

// Validate checks the flex-related columns of stop_times.txt
func (v *FlexValidator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	reader, err := loader.GetFile("stop_times.txt")
	if err != nil {
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warnf("failed to close reader: %v", closeErr)
		}
	}()

	csvFile, err := parser.NewCSVFile(reader, "stop_times.txt")
	if err != nil {
		return
	}

	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		v.validateRow(container, v.parseRow(row))
	}
}

func (v *FlexValidator) parseRow(row *parser.CSVRow) *flexStopTimeRow {
	st := &flexStopTimeRow{
		TripID:                   strings.TrimSpace(row.Values["trip_id"]),
		StopID:                   strings.TrimSpace(row.Values["stop_id"]),
		LocationID:               strings.TrimSpace(row.Values["location_id"]),
		LocationGroupID:          strings.TrimSpace(row.Values["location_group_id"]),
		ArrivalTime:              strings.TrimSpace(row.Values["arrival_time"]),
		DepartureTime:            strings.TrimSpace(row.Values["departure_time"]),
		StartPickupDropOffWindow: strings.TrimSpace(row.Values["start_pickup_drop_off_window"]),
		EndPickupDropOffWindow:   strings.TrimSpace(row.Values["end_pickup_drop_off_window"]),
		PickupType:               strings.TrimSpace(row.Values["pickup_type"]),
		DropOffType:              strings.TrimSpace(row.Values["drop_off_type"]),
		PickupBookingRuleID:      strings.TrimSpace(row.Values["pickup_booking_rule_id"]),
		DropOffBookingRuleID:     strings.TrimSpace(row.Values["drop_off_booking_rule_id"]),
		ShapeDistTraveled:        strings.TrimSpace(row.Values["shape_dist_traveled"]),
		RowNumber:                row.RowNumber,
	}
	if seq, ok := row.Values["stop_sequence"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(seq)); err == nil {
			st.StopSequence = n
		}
	}
	return st
}

// validateRow enforces the GTFS-Flex exclusivity rules for a single
// stop_times.txt row: a row locates its pickup/drop-off point either by a
// fixed stop_id or by a zone (location_id/location_group_id), never both or
// neither, and the fields that belong to each mode must not leak into the
// other.
func (v *FlexValidator) validateRow(container *notice.NoticeContainer, st *flexStopTimeRow) {
	isZone := st.LocationID != "" || st.LocationGroupID != ""
	isStop := st.StopID != ""

	if !isZone && !isStop {
		container.AddNotice(notice.NewFlexZoneReferenceNotice(st.TripID, st.StopSequence, "neither stop_id nor a zone reference is set", st.RowNumber))
	}
	if isZone && isStop {
		container.AddNotice(notice.NewFlexZoneReferenceNotice(st.TripID, st.StopSequence, "both stop_id and a zone reference (location_id/location_group_id) are set", st.RowNumber))
	}

	if isZone {
		if st.ArrivalTime != "" {
			container.AddNotice(notice.NewOverlappingZoneAndPickupDropOffWindowNotice(st.TripID, st.StopSequence, "arrival_time", st.RowNumber))
		}
		if st.DepartureTime != "" {
			container.AddNotice(notice.NewOverlappingZoneAndPickupDropOffWindowNotice(st.TripID, st.StopSequence, "departure_time", st.RowNumber))
		}
		if st.ShapeDistTraveled != "" {
			container.AddNotice(notice.NewFlexForbiddenFieldNotice(st.TripID, st.StopSequence, "shape_dist_traveled", "not applicable to a zone-based stop_times.txt row", st.RowNumber))
		}
	}

	startSet := st.StartPickupDropOffWindow != ""
	endSet := st.EndPickupDropOffWindow != ""
	if startSet != endSet {
		field := "end_pickup_drop_off_window"
		if endSet {
			field = "start_pickup_drop_off_window"
		}
		container.AddNotice(notice.NewFlexForbiddenFieldNotice(st.TripID, st.StopSequence, field, "pickup/drop-off window must set both start and end together", st.RowNumber))
	}

	if st.PickupType == "2" && st.PickupBookingRuleID == "" {
		container.AddNotice(notice.NewMissingPickupDropOffBookingRuleIDNotice(st.TripID, st.StopSequence, "pickup_booking_rule_id", st.RowNumber))
	}
	if st.DropOffType == "2" && st.DropOffBookingRuleID == "" {
		container.AddNotice(notice.NewMissingPickupDropOffBookingRuleIDNotice(st.TripID, st.StopSequence, "drop_off_booking_rule_id", st.RowNumber))
	}
}
