package fare

import (
	"io"
	"strings"

	"github.com/transitlint/gtfs-validator/logging"
	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/parser"
	"github.com/transitlint/gtfs-validator/types"
	"github.com/transitlint/gtfs-validator/validator"
)

// TimeframeValidator validates timeframes.txt, the named time windows that
// GTFS Fares v2 leg rules use to key fares by time of day.
type TimeframeValidator struct{}

// NewTimeframeValidator creates a new timeframe validator
func NewTimeframeValidator() *TimeframeValidator {
	return &TimeframeValidator{}
}

// timeframeRow is a parsed timeframes.txt record
type timeframeRow struct {
	TimeframeGroupID string
	ServiceID        string
	StartTime        string
	EndTime          string
	RowNumber        int
}

// Validate checks timeframes.txt for structural and logical consistency
func (v *TimeframeValidator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	rows := v.loadTimeframes(loader)
	if len(rows) == 0 {
		return
	}

	for _, row := range rows {
		v.validateRowTimes(container, row)
	}

	v.validateOverlaps(container, rows)
}

func (v *TimeframeValidator) loadTimeframes(loader *parser.FeedLoader) []*timeframeRow {
	var rows []*timeframeRow

	reader, err := loader.GetFile("timeframes.txt")
	if err != nil {
		return rows
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warnf("failed to close reader: %v", closeErr)
		}
	}()

	csvFile, err := parser.NewCSVFile(reader, "timeframes.txt")
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

		rows = append(rows, &timeframeRow{
			TimeframeGroupID: strings.TrimSpace(row.Values["timeframe_group_id"]),
			ServiceID:        strings.TrimSpace(row.Values["service_id"]),
			StartTime:        strings.TrimSpace(row.Values["start_time"]),
			EndTime:          strings.TrimSpace(row.Values["end_time"]),
			RowNumber:        row.RowNumber,
		})
	}

	return rows
}

// validateRowTimes checks that start_time/end_time are either both set
// (a bounded window) or both empty (the whole service day), and that any
// set time does not exceed 24:00:00.
func (v *TimeframeValidator) validateRowTimes(container *notice.NoticeContainer, row *timeframeRow) {
	hasStart := row.StartTime != ""
	hasEnd := row.EndTime != ""

	if hasStart != hasEnd {
		container.AddNotice(notice.NewTimeframeOnlyStartOrEndTimeSpecifiedNotice(row.TimeframeGroupID, row.RowNumber))
	}

	if hasStart {
		v.validateTimeBound(container, row, "start_time", row.StartTime)
	}
	if hasEnd {
		v.validateTimeBound(container, row, "end_time", row.EndTime)
	}
}

func (v *TimeframeValidator) validateTimeBound(container *notice.NoticeContainer, row *timeframeRow, fieldName string, fieldValue string) {
	t, err := types.ParseGTFSTime(fieldValue)
	if err != nil {
		return // other validators handle malformed time fields
	}
	if t.ToSeconds() > 24*3600 {
		container.AddNotice(notice.NewTimeframeTimeGreaterThanTwentyFourHoursNotice(row.TimeframeGroupID, fieldName, fieldValue, row.RowNumber))
	}
}

// validateOverlaps checks that rows sharing a (timeframe_group_id,
// service_id) pair don't define overlapping windows. A row with no
// start/end time covers the whole day (00:00:00-24:00:00).
func (v *TimeframeValidator) validateOverlaps(container *notice.NoticeContainer, rows []*timeframeRow) {
	groups := make(map[string][]*timeframeRow)
	for _, row := range rows {
		key := row.TimeframeGroupID + "\x00" + row.ServiceID
		groups[key] = append(groups[key], row)
	}

	for _, group := range groups {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if v.windowsOverlap(group[i], group[j]) {
					container.AddNotice(notice.NewTimeframeOverlapNotice(
						group[i].TimeframeGroupID,
						group[i].ServiceID,
						group[i].RowNumber,
						group[j].RowNumber,
					))
				}
			}
		}
	}
}

func (v *TimeframeValidator) windowsOverlap(a, b *timeframeRow) bool {
	aStart, aEnd, aOk := v.windowSeconds(a)
	bStart, bEnd, bOk := v.windowSeconds(b)
	if !aOk || !bOk {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

func (v *TimeframeValidator) windowSeconds(row *timeframeRow) (start int, end int, ok bool) {
	if row.StartTime == "" && row.EndTime == "" {
		return 0, 24 * 3600, true
	}

	startTime, err := types.ParseGTFSTime(row.StartTime)
	if err != nil {
		return 0, 0, false
	}
	endTime, err := types.ParseGTFSTime(row.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return startTime.ToSeconds(), endTime.ToSeconds(), true
}
