package report

import (
	"reflect"
	"sort"

	"github.com/transitlint/gtfs-validator/notice"
)

// noticeConstructors lists every notice constructor the engine can emit.
// NoticeSchemaCatalog calls each with zero-valued arguments via reflection to
// harvest its code, severity and context keys, so the catalog is complete
// independent of which codes a particular validation run actually triggers.
var noticeConstructors = []interface{}{
	notice.NewAgencyMixedRouteTypesNotice,
	notice.NewAllCapsHeadsignNotice,
	notice.NewAllStopsNoDropOffNotice,
	notice.NewAllStopsNoPickupNotice,
	notice.NewAttributionAllRolesNotice,
	notice.NewAttributionRoleNameMismatchNotice,
	notice.NewAttributionWithoutRoleNotice,
	notice.NewBikeWheelchairAccessibilityMismatchNotice,
	notice.NewBlockMultipleRoutesNotice,
	notice.NewBlockServiceMismatchNotice,
	notice.NewBlockTooManyTripsNotice,
	notice.NewBlockTripsOverlapNotice,
	notice.NewBookingRulePriorNoticeDayOrderNotice,
	notice.NewBookingRuleStartDayTimeMismatchNotice,
	notice.NewBookingRuleStartDayWithDurationMaxNotice,
	notice.NewBookingRuleTypeFieldMismatchNotice,
	notice.NewCalendarEndBeforeStartNotice,
	notice.NewCalendarNoDaysSelectedNotice,
	notice.NewChildStationTooFarFromParentNotice,
	notice.NewCircularStationReferenceNotice,
	notice.NewCloseStopsNotPossibleTransferNotice,
	notice.NewConflictingAttributionScopeNotice,
	notice.NewConflictingCalendarExceptionNotice,
	notice.NewConflictingFareRuleFieldsNotice,
	notice.NewConsecutiveDuplicateStopsNotice,
	notice.NewCrossTripFrequencyOverlapNotice,
	notice.NewDarkTextOnDarkBackgroundNotice,
	notice.NewDecreasingOrEqualShapeDistanceNotice,
	notice.NewDecreasingOrEqualStopTimeDistanceNotice,
	notice.NewDecreasingShapeDistanceNotice,
	notice.NewDeprecatedRouteTypeNotice,
	notice.NewDuplicateAttributionScopeNotice,
	notice.NewDuplicateCalendarDateNotice,
	notice.NewDuplicateCalendarExceptionNotice,
	notice.NewDuplicateCompositeKeyNotice,
	notice.NewDuplicateFareMediaIDNotice,
	notice.NewDuplicateGeoJSONKeyNotice,
	notice.NewDuplicateGeographyIDNotice,
	notice.NewDuplicateHeaderNotice,
	notice.NewDuplicateKeyNotice,
	notice.NewDuplicateLevelIndexNotice,
	notice.NewDuplicatePathwayNotice,
	notice.NewDuplicateRouteLongNameNotice,
	notice.NewDuplicateRouteNameCombinationNotice,
	notice.NewDuplicateRouteShortNameNotice,
	notice.NewDuplicateShapePointNotice,
	notice.NewDuplicateShapeSequenceNotice,
	notice.NewDuplicateStopInTripNotice,
	notice.NewDuplicateStopSequenceNotice,
	notice.NewDuplicateTransferNotice,
	notice.NewEmptyFareRuleNotice,
	notice.NewEmptyFileNotice,
	notice.NewEqualShapeDistanceNotice,
	notice.NewExcessivePricePrecisionNotice,
	notice.NewExcessivePunctuationHeadsignNotice,
	notice.NewExcessiveRoutePatternVariationsNotice,
	notice.NewExcessiveServiceVarietyNotice,
	notice.NewExcessiveWhitespaceNotice,
	notice.NewExpiredFeedNotice,
	notice.NewExpiredServiceNotice,
	notice.NewFareTransferRuleDurationLimitTypeMismatchNotice,
	notice.NewFareTransferRuleTransferCountMismatchNotice,
	notice.NewFastTravelBetweenConsecutiveStopsNotice,
	notice.NewFastTravelBetweenFarStopsNotice,
	notice.NewFeedExpirationDate30DaysNotice,
	notice.NewFeedExpirationDate7DaysNotice,
	notice.NewFeedExpiredNotice,
	notice.NewFeedExpiresWithin30DaysNotice,
	notice.NewFeedExpiresWithin7DaysNotice,
	notice.NewFeedInfoEndDateBeforeStartDateNotice,
	notice.NewFeedInfoEndDateMissingNotice,
	notice.NewFirstStopNoPickupNotice,
	notice.NewFlexForbiddenFieldNotice,
	notice.NewFlexZoneReferenceNotice,
	notice.NewForeignKeyViolationNotice,
	notice.NewFragmentedNetworkNotice,
	notice.NewFrequencyDurationShorterThanHeadwayNotice,
	notice.NewFrequentHeadsignChangesNotice,
	notice.NewFutureFeedStartDateNotice,
	notice.NewFutureServiceNotice,
	notice.NewGenericStopNameNotice,
	notice.NewGeoJSONUnknownElementNotice,
	notice.NewGeospatialSummaryNotice,
	notice.NewHeadsignChangeWithinTripNotice,
	notice.NewHighRouteTypeDiversityNotice,
	notice.NewHighStopDensityAreaNotice,
	notice.NewInactiveServiceCurrentMonthNotice,
	notice.NewIncompleteShapeDistanceNotice,
	notice.NewInconsistentBidirectionalPathwayNotice,
	notice.NewInconsistentBidirectionalTransferNotice,
	notice.NewInconsistentShapeDistanceNotice,
	notice.NewInconsistentStopTimeShapeDistanceNotice,
	notice.NewInsufficientCoordinatePrecisionNotice,
	notice.NewInsufficientServiceNext30DaysNotice,
	notice.NewInsufficientServiceNext7DaysNotice,
	notice.NewInsufficientShapePointsNotice,
	notice.NewInsufficientStopTimesNotice,
	notice.NewInvalidAgencyReferenceNotice,
	notice.NewInvalidBidirectionalNotice,
	notice.NewInvalidBikesAllowedNotice,
	notice.NewInvalidBikesAllowedValueNotice,
	notice.NewInvalidBookingTypeNotice,
	notice.NewInvalidColorNotice,
	notice.NewInvalidCoordinateNotice,
	notice.NewInvalidCurrencyCodeNotice,
	notice.NewInvalidDateFormatNotice,
	notice.NewInvalidDayValueNotice,
	notice.NewInvalidDirectionIdNotice,
	notice.NewInvalidEmailNotice,
	notice.NewInvalidExactTimesNotice,
	notice.NewInvalidExceptionTypeNotice,
	notice.NewInvalidFarePriceNotice,
	notice.NewInvalidFieldFormatNotice,
	notice.NewInvalidFloatNotice,
	notice.NewInvalidFrequencyTimeRangeNotice,
	notice.NewInvalidGeometryNotice,
	notice.NewInvalidHeadwayNotice,
	notice.NewInvalidInputFilesInSubfolderNotice,
	notice.NewInvalidLanguageCodeNotice,
	notice.NewInvalidLatitudeNotice,
	notice.NewInvalidLocationTypeNotice,
	notice.NewInvalidLongitudeNotice,
	notice.NewInvalidMinWidthNotice,
	notice.NewInvalidParentStationReferenceNotice,
	notice.NewInvalidParentStationTypeNotice,
	notice.NewInvalidPathwayLengthNotice,
	notice.NewInvalidPathwayModeNotice,
	notice.NewInvalidPaymentMethodNotice,
	notice.NewInvalidRouteTypeNotice,
	notice.NewInvalidRowNotice,
	notice.NewInvalidServiceDateRangeNotice,
	notice.NewInvalidStairCountNotice,
	notice.NewInvalidTimeFormatNotice,
	notice.NewInvalidTimepointNotice,
	notice.NewInvalidTimezoneNotice,
	notice.NewInvalidTransferDurationNotice,
	notice.NewInvalidTransferTypeNotice,
	notice.NewInvalidTransfersNotice,
	notice.NewInvalidTraversalTimeNotice,
	notice.NewInvalidURLNotice,
	notice.NewInvalidWheelchairAccessibleNotice,
	notice.NewInvalidWheelchairBoardingNotice,
	notice.NewIrregularHeadwayNotice,
	notice.NewIsolatedStopNotice,
	notice.NewLargeShapeDistanceJumpNotice,
	notice.NewLastStopNoDropOffNotice,
	notice.NewLeadingWhitespaceNotice,
	notice.NewLightTextOnLightBackgroundNotice,
	notice.NewLimitedServiceVarietyNotice,
	notice.NewLongDistanceTransferNotice,
	notice.NewLongServiceSpanNotice,
	notice.NewLongTripPatternNotice,
	notice.NewLongZoneIDNotice,
	notice.NewLoopRouteNotice,
	notice.NewLowFrequencyServiceNotice,
	notice.NewLowNetworkConnectivityNotice,
	notice.NewLowRouteUsageNotice,
	notice.NewLowServiceUsageNotice,
	notice.NewLowStopClusteringNotice,
	notice.NewLowTimepointCoverageNotice,
	notice.NewLowTransferOpportunityNotice,
	notice.NewLowTripVolumeNext7DaysNotice,
	notice.NewMajorTransferPointNotice,
	notice.NewMalformedJSONNotice,
	notice.NewMissingAgencyIdNotice,
	notice.NewMissingArrivalTimeNotice,
	notice.NewMissingAttributionContactNotice,
	notice.NewMissingAttributionRoleNotice,
	notice.NewMissingBikesAllowedForFerryNotice,
	notice.NewMissingCalendarAndCalendarDateFilesNotice,
	notice.NewMissingCoordinatesNotice,
	notice.NewMissingDepartureTimeNotice,
	notice.NewMissingFareAttributesNotice,
	notice.NewMissingFeedInfoNotice,
	notice.NewMissingLevelsNotice,
	notice.NewMissingMinTransferTimeNotice,
	notice.NewMissingParentStationNotice,
	notice.NewMissingPickupDropOffBookingRuleIDNotice,
	notice.NewMissingRecommendedFieldNotice,
	notice.NewMissingRequiredColumnNotice,
	notice.NewMissingRequiredElementNotice,
	notice.NewMissingRequiredFieldNotice,
	notice.NewMissingRequiredFileNotice,
	notice.NewMissingRequiredStopNameNotice,
	notice.NewMissingRouteAgencyIdNotice,
	notice.NewMissingRouteNameNotice,
	notice.NewMissingTripFirstTimeNotice,
	notice.NewMissingTripLastTimeNotice,
	notice.NewMostlyCalendarDatesServicesNotice,
	notice.NewMultipleAttributionScopesNotice,
	notice.NewMultipleDefaultRiderCategoriesNotice,
	notice.NewMultipleFeedInfoEntriesNotice,
	notice.NewMultipleRecordsInSingleRecordFileNotice,
	notice.NewNegativeMinTransferTimeNotice,
	notice.NewNegativeShapeDistanceNotice,
	notice.NewNegativeShapeSequenceNotice,
	notice.NewNegativeStopSequenceNotice,
	notice.NewNetworkHubIdentifiedNotice,
	notice.NewNetworkTopologySummaryNotice,
	notice.NewNoServiceDateFoundNotice,
	notice.NewNoServiceDefinedNotice,
	notice.NewNoServiceNext7DaysNotice,
	notice.NewNoTripsNext7DaysNotice,
	notice.NewNonIncreasingShapeSequenceNotice,
	notice.NewNonIncreasingStopSequenceNotice,
	notice.NewOrphanedStationNotice,
	notice.NewOverlappingFrequencyNotice,
	notice.NewOverlappingRoutesNotice,
	notice.NewOverlappingZoneAndPickupDropOffWindowNotice,
	notice.NewPathwayToSameStopNotice,
	notice.NewPoorColorContrastNotice,
	notice.NewRedGreenColorCombinationNotice,
	notice.NewRouteColorContrastNotice,
	notice.NewRouteLongNameTooLongNotice,
	notice.NewRouteNetworkSummaryNotice,
	notice.NewRouteShortNameTooLongNotice,
	notice.NewRouteTypeNameMismatchNotice,
	notice.NewRouteWithoutTripsNotice,
	notice.NewSameNameAndDescriptionNotice,
	notice.NewSameOriginDestinationNotice,
	notice.NewSchedulingSummaryNotice,
	notice.NewServiceExpiredNotice,
	notice.NewServiceExpiresWithin30DaysNotice,
	notice.NewServiceExpiresWithin7DaysNotice,
	notice.NewServiceNeverActiveNotice,
	notice.NewServicePatternSummaryNotice,
	notice.NewServiceWithoutActiveDaysNotice,
	notice.NewServiceWithoutDefinitionNotice,
	notice.NewShapeDistanceDecreasingNotice,
	notice.NewShapeDistanceInconsistentWithGeographyNotice,
	notice.NewShapeDistanceNotIncreasingNotice,
	notice.NewShapeDistanceNotStartingFromZeroNotice,
	notice.NewShapePointOutsideFeedBoundsNotice,
	notice.NewShortServiceSpanNotice,
	notice.NewShortTripPatternNotice,
	notice.NewSimilarColorsNotice,
	notice.NewSingleDayServiceNotice,
	notice.NewSingleRouteTypeInFeedNotice,
	notice.NewSingleStopZoneNotice,
	notice.NewSingleTripBlockNotice,
	notice.NewSingleTripPatternNotice,
	notice.NewSingleTripServiceNotice,
	notice.NewSmallFrequencyGapNotice,
	notice.NewSmallNetworkComponentNotice,
	notice.NewStationWithParentStationNotice,
	notice.NewStopNameAllCapsNotice,
	notice.NewStopNameContainsControlCharacterNotice,
	notice.NewStopNameContainsHTMLNotice,
	notice.NewStopNameContainsURLNotice,
	notice.NewStopNameDescriptionDuplicateNotice,
	notice.NewStopNameMissingButInheritedNotice,
	notice.NewStopNameRepeatedWordNotice,
	notice.NewStopNameTooLongNotice,
	notice.NewStopSequenceGapNotice,
	notice.NewStopTimeArrivalAfterDepartureNotice,
	notice.NewStopTimeDecreasingTimeNotice,
	notice.NewStopTripHeadsignMismatchNotice,
	notice.NewStopWithoutServiceNotice,
	notice.NewSuspiciousCoordinateNotice,
	notice.NewSuspiciousHeadsignPatternNotice,
	notice.NewTimeframeOnlyStartOrEndTimeSpecifiedNotice,
	notice.NewTimeframeOverlapNotice,
	notice.NewTimeframeTimeGreaterThanTwentyFourHoursNotice,
	notice.NewTimepointWithoutTimesNotice,
	notice.NewTooManyHeadsignsInTripNotice,
	notice.NewTrailingWhitespaceNotice,
	notice.NewTransferToSameStopNotice,
	notice.NewTranslationForbiddenValueCombinationNotice,
	notice.NewTripPatternSummaryNotice,
	notice.NewTripUsabilityNotice,
	notice.NewUnbalancedDirectionTripsNotice,
	notice.NewUncommonRouteTypeNotice,
	notice.NewUndefinedServiceNotice,
	notice.NewUndefinedZoneNotice,
	notice.NewUnexpectedBidirectionalGateNotice,
	notice.NewUnknownColumnNotice,
	notice.NewUnknownFileNotice,
	notice.NewUnknownTableNameNotice,
	notice.NewUnnecessaryMinTransferTimeNotice,
	notice.NewUnnecessaryTransferDurationNotice,
	notice.NewUnrealisticShapeDistanceNotice,
	notice.NewUnrealisticTransferTimeNotice,
	notice.NewUnreasonableHeadwayNotice,
	notice.NewUnreasonableLevelIndexNotice,
	notice.NewUnreasonableMaxSlopeNotice,
	notice.NewUnreasonableMinTransferTimeNotice,
	notice.NewUnreasonablyLongShapeSegmentNotice,
	notice.NewUnsupportedFeatureTypeNotice,
	notice.NewUnsupportedGeoJSONTypeNotice,
	notice.NewUnsupportedGeometryTypeNotice,
	notice.NewUnusedFareAttributeNotice,
	notice.NewUnusedLevelNotice,
	notice.NewUnusedServiceNotice,
	notice.NewUnusedShapeNotice,
	notice.NewUnusedZoneNotice,
	notice.NewUnusualBikeAllowanceNotice,
	notice.NewUnusualRouteTypeCombinationNotice,
	notice.NewUnusualServicePatternNotice,
	notice.NewUnusualTransferValueNotice,
	notice.NewValidationSummaryNotice,
	notice.NewValidatorErrorNotice,
	notice.NewVeryCloseStopsNotice,
	notice.NewVeryFutureCalendarDateNotice,
	notice.NewVeryFutureServiceNotice,
	notice.NewVeryLargeFeedCoverageNotice,
	notice.NewVeryLongFrequencyPeriodNotice,
	notice.NewVeryLongHeadsignNotice,
	notice.NewVeryLongHeadwayNotice,
	notice.NewVeryLongRouteNotice,
	notice.NewVeryLongServicePeriodNotice,
	notice.NewVeryLongTransferTimeNotice,
	notice.NewVeryLongTripNotice,
	notice.NewVeryOldCalendarDateNotice,
	notice.NewVeryOldServiceNotice,
	notice.NewVeryShortHeadsignNotice,
	notice.NewVeryShortHeadwayNotice,
	notice.NewVeryShortRouteNotice,
	notice.NewVeryShortTransferTimeNotice,
	notice.NewVeryShortTripNotice,
	notice.NewVerySmallFeedCoverageNotice,
	notice.NewWeekendOnlyServiceNotice,
	notice.NewWhitespaceOnlyFieldNotice,
	notice.NewWrongNumberOfFieldsNotice,
	notice.NewZoneIDSameAsStopIDNotice,
}

// NoticeSchemaCatalog returns the static schema for every notice code the
// engine can emit, sorted by code. It satisfies the notice_schema() contract:
// a run-independent catalog, not one derived from a single run's samples.
func NoticeSchemaCatalog() []NoticeSchema {
	schemas := make([]NoticeSchema, 0, len(noticeConstructors))
	for _, ctor := range noticeConstructors {
		n := invokeWithZeroArgs(ctor)
		if n == nil {
			continue
		}
		schemas = append(schemas, NoticeSchemaFor(n.Code(), n, ""))
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Code < schemas[j].Code })
	return schemas
}

// invokeWithZeroArgs calls a notice constructor function value with a
// zero value for each of its parameters and returns the resulting notice.
// Every constructor in this codebase only assembles a context map from its
// arguments, so a zero value never triggers a panic.
func invokeWithZeroArgs(ctor interface{}) notice.Notice {
	fnVal := reflect.ValueOf(ctor)
	fnType := fnVal.Type()

	args := make([]reflect.Value, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		args[i] = reflect.Zero(fnType.In(i))
	}

	results := fnVal.Call(args)
	if len(results) == 0 {
		return nil
	}

	n, ok := results[0].Interface().(notice.Notice)
	if !ok {
		return nil
	}
	return n
}
