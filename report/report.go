package report

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/transitlint/gtfs-validator/notice"
)

// ValidationReport represents the complete validation report
type ValidationReport struct {
	Summary Summary        `json:"summary"`
	Notices []NoticeReport `json:"notices"`
}

// Summary contains summary information about the validation
type Summary struct {
	ValidatorVersion string       `json:"validatorVersion"`
	ValidationTime   float64      `json:"validationTimeSeconds"`
	Date             string       `json:"date"`
	FeedInfo         FeedInfo     `json:"feedInfo"`
	Counts           NoticeCounts `json:"counts"`
}

// FeedInfo contains information about the validated feed
type FeedInfo struct {
	FeedPath        string `json:"feedPath"`
	FeedName        string `json:"feedName,omitempty"`
	AgencyCount     int    `json:"agencyCount"`
	RouteCount      int    `json:"routeCount"`
	TripCount       int    `json:"tripCount"`
	StopCount       int    `json:"stopCount"`
	StopTimeCount   int    `json:"stopTimeCount"`
	ServiceDateFrom string `json:"serviceDateFrom,omitempty"`
	ServiceDateTo   string `json:"serviceDateTo,omitempty"`
}

// NoticeCounts contains counts of notices by severity
type NoticeCounts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Total    int `json:"total"`
}

// NoticeReport represents a group of notices with the same code, in the
// deterministic order described by notice.SortNoticesDeterministically.
// Entries is the full group, bounded only by maxNoticesPerCode (0 = unbounded);
// TotalNotices still reflects the true count even when entries is truncated,
// so a truncation is visible in the report rather than silently hidden.
type NoticeReport struct {
	Code         string                   `json:"code"`
	Severity     string                   `json:"severity"`
	Description  string                   `json:"description"`
	TotalNotices int                      `json:"totalNotices"`
	Entries      []map[string]interface{} `json:"entries"`
}

// ReportGenerator generates validation reports
type ReportGenerator struct {
	validatorVersion  string
	maxNoticesPerCode int // 0 means unbounded
}

// NewReportGenerator creates a new report generator that emits every
// notice in each code-group.
func NewReportGenerator(validatorVersion string) *ReportGenerator {
	return &ReportGenerator{
		validatorVersion:  validatorVersion,
		maxNoticesPerCode: 0,
	}
}

// NewReportGeneratorWithLimit creates a report generator that caps the
// number of entries rendered per notice code, for feeds whose notice
// volume would otherwise make the report unwieldy.
func NewReportGeneratorWithLimit(validatorVersion string, maxNoticesPerCode int) *ReportGenerator {
	return &ReportGenerator{
		validatorVersion:  validatorVersion,
		maxNoticesPerCode: maxNoticesPerCode,
	}
}

// GenerateReport generates a validation report from a notice container
func (g *ReportGenerator) GenerateReport(container *notice.NoticeContainer, feedInfo FeedInfo, validationTime float64) *ValidationReport {
	sorted := notice.SortNoticesDeterministically(container.GetNotices())

	var noticeReports []NoticeReport
	var codeOrder []string
	groups := make(map[string][]notice.Notice)
	for _, n := range sorted {
		code := n.Code()
		if _, seen := groups[code]; !seen {
			codeOrder = append(codeOrder, code)
		}
		groups[code] = append(groups[code], n)
	}

	for _, code := range codeOrder {
		notices := groups[code]
		noticeReports = append(noticeReports, NoticeReport{
			Code:         code,
			Severity:     notices[0].Severity().String(),
			Description:  "", // Populated by the main package from notice_descriptions.go
			TotalNotices: len(notices),
			Entries:      g.entriesFor(notices),
		})
	}

	counts := container.CountBySeverity()
	noticeCounts := NoticeCounts{
		Errors:   counts[notice.ERROR],
		Warnings: counts[notice.WARNING],
		Infos:    counts[notice.INFO],
		Total:    len(container.GetNotices()),
	}

	summary := Summary{
		ValidatorVersion: g.validatorVersion,
		ValidationTime:   validationTime,
		Date:             time.Now().Format(time.RFC3339),
		FeedInfo:         feedInfo,
		Counts:           noticeCounts,
	}

	return &ValidationReport{
		Summary: summary,
		Notices: noticeReports,
	}
}

// entriesFor returns the notice contexts for a code-group, capped at
// maxNoticesPerCode when that limit is set.
func (g *ReportGenerator) entriesFor(notices []notice.Notice) []map[string]interface{} {
	limit := len(notices)
	if g.maxNoticesPerCode > 0 && g.maxNoticesPerCode < limit {
		limit = g.maxNoticesPerCode
	}

	entries := make([]map[string]interface{}, limit)
	for i := 0; i < limit; i++ {
		entries[i] = notices[i].Context()
	}
	return entries
}

// NoticeSchema describes the static shape of a notice code, independent of
// any particular validation run: its severity and which context keys its
// entries carry. It lets report consumers validate or render entries
// without special-casing every one of the engine's notice codes.
type NoticeSchema struct {
	Code        string   `json:"code"`
	Severity    string   `json:"severity"`
	ContextKeys []string `json:"contextKeys"`
	Description string   `json:"description,omitempty"`
}

// NoticeSchemaFor derives a NoticeSchema from a representative sample of a
// code's notices, using the context keys carried by the first entry.
func NoticeSchemaFor(code string, sample notice.Notice, description string) NoticeSchema {
	keys := make([]string, 0, len(sample.Context()))
	for k := range sample.Context() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return NoticeSchema{
		Code:        code,
		Severity:    sample.Severity().String(),
		ContextKeys: keys,
		Description: description,
	}
}

// ToJSON converts the report to JSON
func (r *ValidationReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ToJSONCompact converts the report to compact JSON
func (r *ValidationReport) ToJSONCompact() ([]byte, error) {
	return json.Marshal(r)
}

// HasErrors returns true if the report contains any errors
func (r *ValidationReport) HasErrors() bool {
	return r.Summary.Counts.Errors > 0
}

// HasWarnings returns true if the report contains any warnings
func (r *ValidationReport) HasWarnings() bool {
	return r.Summary.Counts.Warnings > 0
}
