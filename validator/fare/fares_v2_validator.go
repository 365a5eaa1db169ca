package fare

import (
	"io"
	"strings"

	"github.com/transitlint/gtfs-validator/logging"
	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/parser"
	"github.com/transitlint/gtfs-validator/validator"
)

// FaresV2Validator validates the GTFS Fares v2 file family: fare_products.txt,
// fare_leg_rules.txt, fare_transfer_rules.txt, fare_media.txt and
// rider_categories.txt, plus the areas.txt/stop_areas.txt and
// networks.txt/route_networks.txt groupings the leg rules key off of.
type FaresV2Validator struct{}

// NewFaresV2Validator creates a new Fares v2 validator
func NewFaresV2Validator() *FaresV2Validator {
	return &FaresV2Validator{}
}

type riderCategoryRow struct {
	RiderCategoryID   string
	IsDefaultCategory bool
	RowNumber         int
}

type fareMediaRow struct {
	FareMediaID string
	RowNumber   int
}

type fareTransferRuleRow struct {
	FromLegGroupID    string
	ToLegGroupID      string
	TransferCount     *int
	DurationLimit     *int
	DurationLimitType *int
	RowNumber         int
}

type fareProductRow struct {
	FareProductID   string
	RiderCategoryID string
	FareMediaID     string
	RowNumber       int
}

type areaRow struct {
	AreaID    string
	RowNumber int
}

type stopAreaRow struct {
	AreaID    string
	StopID    string
	RowNumber int
}

type networkRow struct {
	NetworkID string
	RowNumber int
}

type routeNetworkRow struct {
	NetworkID string
	RouteID   string
	RowNumber int
}

// Validate checks the Fares v2 file family for internal and cross-file consistency
func (v *FaresV2Validator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	riderCategories := v.loadRiderCategories(loader)
	fareMedia := v.loadFareMedia(loader)
	transferRules := v.loadFareTransferRules(loader)
	fareProducts := v.loadFareProducts(loader)
	areas := v.loadAreas(loader)
	stopAreas := v.loadStopAreas(loader)
	networks := v.loadNetworks(loader)
	routeNetworks := v.loadRouteNetworks(loader)

	v.validateDefaultRiderCategories(container, riderCategories)
	v.validateDuplicateFareMedia(container, fareMedia)
	v.validateTransferRules(container, transferRules)
	v.validateFareProductReferences(container, fareProducts, riderCategories, fareMedia)
	v.validateStopAreaReferences(container, stopAreas, areas)
	v.validateRouteNetworkReferences(container, routeNetworks, networks)
}

func (v *FaresV2Validator) openCSV(loader *parser.FeedLoader, filename string) (*parser.CSVFile, func()) {
	reader, err := loader.GetFile(filename)
	if err != nil {
		return nil, func() {}
	}
	closer := func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warnf("failed to close reader: %v", closeErr)
		}
	}
	csvFile, err := parser.NewCSVFile(reader, filename)
	if err != nil {
		closer()
		return nil, func() {}
	}
	return csvFile, closer
}

func (v *FaresV2Validator) loadRiderCategories(loader *parser.FeedLoader) []*riderCategoryRow {
	var rows []*riderCategoryRow
	csvFile, closer := v.openCSV(loader, "rider_categories.txt")
	defer closer()
	if csvFile == nil {
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
		isDefault := strings.TrimSpace(row.Values["is_default_fare_category"]) == "1"
		rows = append(rows, &riderCategoryRow{
			RiderCategoryID:   strings.TrimSpace(row.Values["rider_category_id"]),
			IsDefaultCategory: isDefault,
			RowNumber:         row.RowNumber,
		})
	}
	return rows
}

func (v *FaresV2Validator) loadFareMedia(loader *parser.FeedLoader) []*fareMediaRow {
	var rows []*fareMediaRow
	csvFile, closer := v.openCSV(loader, "fare_media.txt")
	defer closer()
	if csvFile == nil {
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
		rows = append(rows, &fareMediaRow{
			FareMediaID: strings.TrimSpace(row.Values["fare_media_id"]),
			RowNumber:   row.RowNumber,
		})
	}
	return rows
}

func (v *FaresV2Validator) loadFareTransferRules(loader *parser.FeedLoader) []*fareTransferRuleRow {
	var rows []*fareTransferRuleRow
	csvFile, closer := v.openCSV(loader, "fare_transfer_rules.txt")
	defer closer()
	if csvFile == nil {
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
		rows = append(rows, &fareTransferRuleRow{
			FromLegGroupID:    strings.TrimSpace(row.Values["from_leg_group_id"]),
			ToLegGroupID:      strings.TrimSpace(row.Values["to_leg_group_id"]),
			TransferCount:     parseOptionalInt(row.Values["transfer_count"]),
			DurationLimit:     parseOptionalInt(row.Values["duration_limit"]),
			DurationLimitType: parseOptionalInt(row.Values["duration_limit_type"]),
			RowNumber:         row.RowNumber,
		})
	}
	return rows
}

func (v *FaresV2Validator) loadFareProducts(loader *parser.FeedLoader) []*fareProductRow {
	var rows []*fareProductRow
	csvFile, closer := v.openCSV(loader, "fare_products.txt")
	defer closer()
	if csvFile == nil {
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
		rows = append(rows, &fareProductRow{
			FareProductID:   strings.TrimSpace(row.Values["fare_product_id"]),
			RiderCategoryID: strings.TrimSpace(row.Values["rider_category_id"]),
			FareMediaID:     strings.TrimSpace(row.Values["fare_media_id"]),
			RowNumber:       row.RowNumber,
		})
	}
	return rows
}

func (v *FaresV2Validator) loadAreas(loader *parser.FeedLoader) map[string]bool {
	areas := make(map[string]bool)
	csvFile, closer := v.openCSV(loader, "areas.txt")
	defer closer()
	if csvFile == nil {
		return areas
	}
	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		areas[strings.TrimSpace(row.Values["area_id"])] = true
	}
	return areas
}

func (v *FaresV2Validator) loadStopAreas(loader *parser.FeedLoader) []*stopAreaRow {
	var rows []*stopAreaRow
	csvFile, closer := v.openCSV(loader, "stop_areas.txt")
	defer closer()
	if csvFile == nil {
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
		rows = append(rows, &stopAreaRow{
			AreaID:    strings.TrimSpace(row.Values["area_id"]),
			StopID:    strings.TrimSpace(row.Values["stop_id"]),
			RowNumber: row.RowNumber,
		})
	}
	return rows
}

func (v *FaresV2Validator) loadNetworks(loader *parser.FeedLoader) map[string]bool {
	networks := make(map[string]bool)
	csvFile, closer := v.openCSV(loader, "networks.txt")
	defer closer()
	if csvFile == nil {
		return networks
	}
	for {
		row, err := csvFile.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		networks[strings.TrimSpace(row.Values["network_id"])] = true
	}
	return networks
}

func (v *FaresV2Validator) loadRouteNetworks(loader *parser.FeedLoader) []*routeNetworkRow {
	var rows []*routeNetworkRow
	csvFile, closer := v.openCSV(loader, "route_networks.txt")
	defer closer()
	if csvFile == nil {
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
		rows = append(rows, &routeNetworkRow{
			NetworkID: strings.TrimSpace(row.Values["network_id"]),
			RouteID:   strings.TrimSpace(row.Values["route_id"]),
			RowNumber: row.RowNumber,
		})
	}
	return rows
}

// validateDefaultRiderCategories flags more than one row marked as the
// default fare category; a feed can have at most one.
func (v *FaresV2Validator) validateDefaultRiderCategories(container *notice.NoticeContainer, rows []*riderCategoryRow) {
	count := 0
	for _, r := range rows {
		if r.IsDefaultCategory {
			count++
		}
	}
	if count > 1 {
		container.AddNotice(notice.NewMultipleDefaultRiderCategoriesNotice(count))
	}
}

// validateDuplicateFareMedia flags repeated fare_media_id values.
func (v *FaresV2Validator) validateDuplicateFareMedia(container *notice.NoticeContainer, rows []*fareMediaRow) {
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.FareMediaID == "" {
			continue
		}
		if seen[r.FareMediaID] {
			container.AddNotice(notice.NewDuplicateFareMediaIDNotice(r.FareMediaID, r.RowNumber))
			continue
		}
		seen[r.FareMediaID] = true
	}
}

// validateTransferRules checks fare_transfer_rules.txt's transfer_count and
// duration_limit/duration_limit_type field coupling.
func (v *FaresV2Validator) validateTransferRules(container *notice.NoticeContainer, rows []*fareTransferRuleRow) {
	for _, r := range rows {
		selfReferencing := r.FromLegGroupID != "" && r.FromLegGroupID == r.ToLegGroupID

		if selfReferencing && r.TransferCount == nil {
			container.AddNotice(notice.NewFareTransferRuleTransferCountMismatchNotice(r.FromLegGroupID, r.ToLegGroupID, "transfer_count is required when from_leg_group_id equals to_leg_group_id", r.RowNumber))
		}
		if !selfReferencing && r.TransferCount != nil {
			container.AddNotice(notice.NewFareTransferRuleTransferCountMismatchNotice(r.FromLegGroupID, r.ToLegGroupID, "transfer_count must only be set when from_leg_group_id equals to_leg_group_id", r.RowNumber))
		}

		durationLimitSet := r.DurationLimit != nil
		durationTypeSet := r.DurationLimitType != nil
		if durationLimitSet != durationTypeSet {
			container.AddNotice(notice.NewFareTransferRuleDurationLimitTypeMismatchNotice(r.FromLegGroupID, r.ToLegGroupID, r.RowNumber))
		}
	}
}

// validateFareProductReferences resolves fare_products.txt's optional
// rider_category_id/fare_media_id foreign keys.
func (v *FaresV2Validator) validateFareProductReferences(container *notice.NoticeContainer, products []*fareProductRow, riderCategories []*riderCategoryRow, fareMedia []*fareMediaRow) {
	knownRiderCategories := make(map[string]bool, len(riderCategories))
	for _, r := range riderCategories {
		knownRiderCategories[r.RiderCategoryID] = true
	}
	knownFareMedia := make(map[string]bool, len(fareMedia))
	for _, m := range fareMedia {
		knownFareMedia[m.FareMediaID] = true
	}

	for _, p := range products {
		if p.RiderCategoryID != "" && !knownRiderCategories[p.RiderCategoryID] {
			container.AddNotice(notice.NewForeignKeyViolationNotice(
				"fare_products.txt", "rider_category_id", p.RiderCategoryID, p.RowNumber,
				"rider_categories.txt", "rider_category_id",
			))
		}
		if p.FareMediaID != "" && !knownFareMedia[p.FareMediaID] {
			container.AddNotice(notice.NewForeignKeyViolationNotice(
				"fare_products.txt", "fare_media_id", p.FareMediaID, p.RowNumber,
				"fare_media.txt", "fare_media_id",
			))
		}
	}
}

// validateStopAreaReferences resolves stop_areas.txt's area_id foreign key.
func (v *FaresV2Validator) validateStopAreaReferences(container *notice.NoticeContainer, stopAreas []*stopAreaRow, areas map[string]bool) {
	if len(areas) == 0 {
		return
	}
	for _, sa := range stopAreas {
		if sa.AreaID != "" && !areas[sa.AreaID] {
			container.AddNotice(notice.NewForeignKeyViolationNotice(
				"stop_areas.txt", "area_id", sa.AreaID, sa.RowNumber,
				"areas.txt", "area_id",
			))
		}
	}
}

// validateRouteNetworkReferences resolves route_networks.txt's network_id foreign key.
func (v *FaresV2Validator) validateRouteNetworkReferences(container *notice.NoticeContainer, routeNetworks []*routeNetworkRow, networks map[string]bool) {
	if len(networks) == 0 {
		return
	}
	for _, rn := range routeNetworks {
		if rn.NetworkID != "" && !networks[rn.NetworkID] {
			container.AddNotice(notice.NewForeignKeyViolationNotice(
				"route_networks.txt", "network_id", rn.NetworkID, rn.RowNumber,
				"networks.txt", "network_id",
			))
		}
	}
}
