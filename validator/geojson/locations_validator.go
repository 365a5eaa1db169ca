// Package geojson validates locations.geojson, the GTFS-Flex extension
// that carries zone geometries referenced by stop_times.txt rows instead
// of plain stops.txt stops.
package geojson

import (
	"encoding/json"
	"io"

	goGeoJSON "github.com/paulmach/go.geojson"

	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/parser"
	"github.com/transitlint/gtfs-validator/validator"
)

// LocationsValidator parses and validates locations.geojson.
type LocationsValidator struct{}

// NewLocationsValidator creates a new locations.geojson validator.
func NewLocationsValidator() *LocationsValidator {
	return &LocationsValidator{}
}

// geographyIDsSeen is rebuilt on every Validate call; the validator holds
// no state across runs.
func (v *LocationsValidator) Validate(loader *parser.FeedLoader, container *notice.NoticeContainer, config validator.Config) {
	reader, err := loader.GetFile("locations.geojson")
	if err != nil {
		return // optional file
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		container.AddNotice(notice.NewMalformedJSONNotice(err.Error()))
		return
	}

	// First check the object is a well-formed FeatureCollection at all;
	// go.geojson panics on some malformed inputs, so validate the envelope
	// with encoding/json before handing off.
	var envelope struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		container.AddNotice(notice.NewMalformedJSONNotice(err.Error()))
		return
	}
	if envelope.Type != "FeatureCollection" {
		container.AddNotice(notice.NewUnsupportedGeoJSONTypeNotice(envelope.Type))
		return
	}

	fc, err := goGeoJSON.UnmarshalFeatureCollection(data)
	if err != nil {
		container.AddNotice(notice.NewMalformedJSONNotice(err.Error()))
		return
	}

	seenIDs := make(map[string]bool)

	for i, feature := range fc.Features {
		v.validateFeature(container, envelope.Features, i, feature, seenIDs)
	}
}

func (v *LocationsValidator) validateFeature(container *notice.NoticeContainer, raw []json.RawMessage, index int, feature *goGeoJSON.Feature, seenIDs map[string]bool) {
	if index < len(raw) {
		var rawType struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw[index], &rawType); err == nil && rawType.Type != "" && rawType.Type != "Feature" {
			container.AddNotice(notice.NewUnsupportedFeatureTypeNotice(rawType.Type, index))
			return
		}
	}

	geographyID := featureID(feature)
	if geographyID == "" {
		container.AddNotice(notice.NewMissingRequiredElementNotice("id", index))
		return
	}

	if seenIDs[geographyID] {
		container.AddNotice(notice.NewDuplicateGeographyIDNotice(geographyID))
	}
	seenIDs[geographyID] = true

	if feature.Geometry == nil {
		container.AddNotice(notice.NewMissingRequiredElementNotice("geometry", index))
		return
	}

	switch {
	case feature.Geometry.IsPolygon():
		v.validatePolygonRings(container, geographyID, feature.Geometry.Polygon)
	case feature.Geometry.IsMultiPolygon():
		for _, polygon := range feature.Geometry.MultiPolygon {
			v.validatePolygonRings(container, geographyID, polygon)
		}
	default:
		container.AddNotice(notice.NewUnsupportedGeometryTypeNotice(geographyID, string(feature.Geometry.Type)))
	}
}

// validatePolygonRings checks that every ring of a polygon has at least
// four positions and is closed (first position equals last), per the
// GeoJSON and GTFS-Flex polygon requirements.
func (v *LocationsValidator) validatePolygonRings(container *notice.NoticeContainer, geographyID string, rings [][][]float64) {
	for _, ring := range rings {
		if len(ring) < 4 {
			container.AddNotice(notice.NewInvalidGeometryNotice(geographyID, "polygon ring has fewer than 4 positions"))
			continue
		}
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			container.AddNotice(notice.NewInvalidGeometryNotice(geographyID, "polygon ring is not closed"))
		}
	}
}

func featureID(feature *goGeoJSON.Feature) string {
	if feature.ID != nil {
		if s, ok := feature.ID.(string); ok {
			return s
		}
	}
	return ""
}
