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

// booking rule types, per GTFS-Flex booking_rules.txt
const (
	bookingTypeRealTime = 0
	bookingTypeSameDay  = 1
	bookingTypePriorDay = 2
)

// BookingRuleValidator validates booking_rules.txt, the demand-responsive
// booking windows stop_times.txt rows reference via pickup/drop_off_booking_rule_id.
type BookingRuleValidator struct{}

// NewBookingRuleValidator creates a new booking rule validator
func NewBookingRuleValidator() *BookingRuleValidator {
	return &BookingRuleValidator{}
}

// bookingRuleRow is a parsed booking_rules.txt record
type bookingRuleRow struct {
	BookingRuleID          string
	BookingType            int
	HasBookingType         bool
	PriorNoticeDurationMin *int
	PriorNoticeDurationMax *int
	PriorNoticeLastDay     *int
	PriorNoticeLastTime    string
	PriorNoticeStartDay    *int
	PriorNoticeStartTime   string
	RowNumber              int
}

// Validate checks booking_rules.txt for structural and logical consistency
func (v *BookingRuleValidator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	rows := v.loadBookingRules(loader)
	for _, row := range rows {
		v.validateRow(container, row)
	}
}

func (v *BookingRuleValidator) loadBookingRules(loader *parser.FeedLoader) []*bookingRuleRow {
	var rows []*bookingRuleRow

	reader, err := loader.GetFile("booking_rules.txt")
	if err != nil {
		return rows
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warnf("failed to close reader: %v", closeErr)
		}
	}()

	csvFile, err := parser.NewCSVFile(reader, "booking_rules.txt")
	if err != nil {
		return rows
	}

	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		rows = append(rows, v.parseRow(row))
	}

	return rows
}

func (v *BookingRuleValidator) parseRow(row *parser.CSVRow) *bookingRuleRow {
	br := &bookingRuleRow{
		BookingRuleID:        strings.TrimSpace(row.Values["booking_rule_id"]),
		PriorNoticeLastTime:  strings.TrimSpace(row.Values["prior_notice_last_time"]),
		PriorNoticeStartTime: strings.TrimSpace(row.Values["prior_notice_start_time"]),
		RowNumber:            row.RowNumber,
	}

	if bt, ok := row.Values["booking_type"]; ok && strings.TrimSpace(bt) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(bt)); err == nil {
			br.BookingType = n
			br.HasBookingType = true
		}
	}

	br.PriorNoticeDurationMin = parseOptionalInt(row.Values["prior_notice_duration_min"])
	br.PriorNoticeDurationMax = parseOptionalInt(row.Values["prior_notice_duration_max"])
	br.PriorNoticeLastDay = parseOptionalInt(row.Values["prior_notice_last_day"])
	br.PriorNoticeStartDay = parseOptionalInt(row.Values["prior_notice_start_day"])

	return br
}

func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// validateRow enforces the booking_type state machine and the cross-field
// rules named for prior-day and rolling-window bookings.
func (v *BookingRuleValidator) validateRow(container *notice.NoticeContainer, br *bookingRuleRow) {
	if !br.HasBookingType {
		return // missing required field handled by the core required-field validator
	}

	if br.BookingType != bookingTypeRealTime && br.BookingType != bookingTypeSameDay && br.BookingType != bookingTypePriorDay {
		container.AddNotice(notice.NewInvalidBookingTypeNotice(br.BookingRuleID, strconv.Itoa(br.BookingType), br.RowNumber))
		return
	}

	switch br.BookingType {
	case bookingTypeRealTime:
		if br.PriorNoticeDurationMin != nil || br.PriorNoticeDurationMax != nil ||
			br.PriorNoticeLastDay != nil || br.PriorNoticeStartDay != nil {
			container.AddNotice(notice.NewBookingRuleTypeFieldMismatchNotice(br.BookingRuleID, br.BookingType, "prior_notice_*", "real-time booking (booking_type=0) must not set any prior_notice_* field", br.RowNumber))
		}
	case bookingTypeSameDay:
		if br.PriorNoticeDurationMin == nil {
			container.AddNotice(notice.NewBookingRuleTypeFieldMismatchNotice(br.BookingRuleID, br.BookingType, "prior_notice_duration_min", "same-day booking (booking_type=1) requires prior_notice_duration_min", br.RowNumber))
		}
		if br.PriorNoticeLastDay != nil || br.PriorNoticeStartDay != nil {
			container.AddNotice(notice.NewBookingRuleTypeFieldMismatchNotice(br.BookingRuleID, br.BookingType, "prior_notice_last_day/prior_notice_start_day", "same-day booking (booking_type=1) must not set prior_notice_last_day or prior_notice_start_day", br.RowNumber))
		}
	case bookingTypePriorDay:
		if br.PriorNoticeLastDay == nil {
			container.AddNotice(notice.NewBookingRuleTypeFieldMismatchNotice(br.BookingRuleID, br.BookingType, "prior_notice_last_day", "prior-day booking (booking_type=2) requires prior_notice_last_day", br.RowNumber))
		}
		if br.PriorNoticeDurationMin != nil {
			container.AddNotice(notice.NewBookingRuleTypeFieldMismatchNotice(br.BookingRuleID, br.BookingType, "prior_notice_duration_min", "prior-day booking (booking_type=2) must not set prior_notice_duration_min", br.RowNumber))
		}
	}

	if br.PriorNoticeStartDay != nil && br.PriorNoticeLastDay != nil && *br.PriorNoticeStartDay < *br.PriorNoticeLastDay {
		container.AddNotice(notice.NewBookingRulePriorNoticeDayOrderNotice(br.BookingRuleID, *br.PriorNoticeStartDay, *br.PriorNoticeLastDay, br.RowNumber))
	}

	startDaySet := br.PriorNoticeStartDay != nil
	startTimeSet := br.PriorNoticeStartTime != ""
	if startDaySet != startTimeSet {
		reason := "prior_notice_start_day is set without prior_notice_start_time"
		if startTimeSet {
			reason = "prior_notice_start_time is set without prior_notice_start_day"
		}
		container.AddNotice(notice.NewBookingRuleStartDayTimeMismatchNotice(br.BookingRuleID, reason, br.RowNumber))
	}

	if br.PriorNoticeStartDay != nil && br.PriorNoticeDurationMax != nil {
		container.AddNotice(notice.NewBookingRuleStartDayWithDurationMaxNotice(br.BookingRuleID, br.RowNumber))
	}
}
