package relationship

import (
	"io"
	"log"
	"strings"

	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/parser"
	"github.com/transitlint/gtfs-validator/validator"
)

// translationTablePrimaryKeys maps a translations.txt table_name to the file
// and primary-key field that a referencing record_id must resolve against.
var translationTablePrimaryKeys = map[string]struct {
	filename string
	field    string
}{
	"agency":         {"agency.txt", "agency_id"},
	"stops":          {"stops.txt", "stop_id"},
	"routes":         {"routes.txt", "route_id"},
	"trips":          {"trips.txt", "trip_id"},
	"stop_times":     {"stop_times.txt", "trip_id"},
	"feed_info":      {"feed_info.txt", ""},
	"pathways":       {"pathways.txt", "pathway_id"},
	"levels":         {"levels.txt", "level_id"},
	"attributions":   {"attributions.txt", "attribution_id"},
	"fare_products":  {"fare_products.txt", "fare_product_id"},
	"fare_media":     {"fare_media.txt", "fare_media_id"},
	"networks":       {"networks.txt", "network_id"},
	"rider_categories": {"rider_categories.txt", "rider_category_id"},
}

// TranslationValidator validates translations.txt against the GTFS rules
// for table_name resolution and field-targeting exclusivity.
type TranslationValidator struct{}

// NewTranslationValidator creates a new translations.txt validator.
func NewTranslationValidator() *TranslationValidator {
	return &TranslationValidator{}
}

// Validate checks translations.txt rows for forbidden value combinations
// and unresolved table_name/record_id references.
func (v *TranslationValidator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	reader, err := loader.GetFile("translations.txt")
	if err != nil {
		return // translations.txt is optional
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Printf("Warning: failed to close reader %v", closeErr)
		}
	}()

	csvFile, err := parser.NewCSVFile(reader, "translations.txt")
	if err != nil {
		return
	}

	pkCache := make(map[string]map[string]bool)

	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		tableName := strings.TrimSpace(row.Values["table_name"])
		recordID := strings.TrimSpace(row.Values["record_id"])
		fieldValue := strings.TrimSpace(row.Values["field_value"])
		fieldName := strings.TrimSpace(row.Values["field_name"])

		if recordID != "" && fieldValue != "" {
			container.AddNotice(notice.NewTranslationForbiddenValueCombinationNotice(fieldName, row.RowNumber))
		}

		if tableName == "" {
			continue
		}

		table, known := translationTablePrimaryKeys[tableName]
		if !known {
			container.AddNotice(notice.NewUnknownTableNameNotice(tableName, row.RowNumber))
			continue
		}

		if recordID == "" || table.field == "" {
			continue
		}

		pk, cached := pkCache[tableName]
		if !cached {
			pk = v.buildPrimaryKeyIndex(loader, table.filename, table.field)
			pkCache[tableName] = pk
		}
		if !pk[recordID] {
			container.AddNotice(notice.NewForeignKeyViolationNotice(
				"translations.txt",
				"record_id",
				recordID,
				row.RowNumber,
				table.filename,
				table.field,
			))
		}
	}
}

func (v *TranslationValidator) buildPrimaryKeyIndex(loader *parser.FeedLoader, filename string, field string) map[string]bool {
	index := make(map[string]bool)

	reader, err := loader.GetFile(filename)
	if err != nil {
		return index // referenced table absent from this feed; every record_id will miss
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Printf("Warning: failed to close reader %v", closeErr)
		}
	}()

	csvFile, err := parser.NewCSVFile(reader, filename)
	if err != nil {
		return index
	}

	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		if value, exists := row.Values[field]; exists && strings.TrimSpace(value) != "" {
			index[value] = true
		}
	}

	return index
}
