package fare

import (
	"testing"

	"github.com/transitlint/gtfs-validator/notice"
	"github.com/transitlint/gtfs-validator/testutil"
	gtfsvalidator "github.com/transitlint/gtfs-validator/validator"
)

func TestFaresV2Validator_Validate(t *testing.T) {
	files := map[string]string{
		"rider_categories.txt": "rider_category_id,rider_category_name,is_default_fare_category\n" +
			"adult,Adult,1\n" +
			"senior,Senior,1\n", // two defaults: error
		"fare_media.txt": "fare_media_id,fare_media_name,fare_media_type\n" +
			"smartcard,Smart Card,1\n" +
			"smartcard,Smart Card Dup,1\n", // duplicate id: error
		"fare_products.txt": "fare_product_id,fare_product_name,rider_category_id,fare_media_id,amount,currency\n" +
			"single,Single Fare,unknownCat,smartcard,2.50,USD\n", // bad rider_category_id FK
		"fare_transfer_rules.txt": "from_leg_group_id,to_leg_group_id,transfer_count,duration_limit,duration_limit_type,fare_transfer_type,fare_product_id\n" +
			"legA,legA,,90,,0,single\n" + // self-referencing but no transfer_count: mismatch
			"legA,legB,2,,,0,single\n" + // non-self-referencing but transfer_count set: mismatch
			"legB,legC,,60,,0,single\n", // duration_limit without duration_limit_type: mismatch
		"areas.txt": "area_id,area_name\ndowntown,Downtown\n",
		"stop_areas.txt": "area_id,stop_id\n" +
			"uptown,S1\n", // bad area_id FK
		"networks.txt": "network_id,network_name\nbus,Bus\n",
		"route_networks.txt": "network_id,route_id\n" +
			"rail,R1\n", // bad network_id FK
	}

	loader := testutil.CreateTestFeedLoader(t, files)
	container := notice.NewNoticeContainer()

	v := NewFaresV2Validator()
	v.Validate(loader, container, gtfsvalidator.Config{})

	codes := map[string]int{}
	for _, n := range container.GetNotices() {
		codes[n.Code()]++
	}

	if codes["multiple_default_rider_categories"] == 0 {
		t.Errorf("expected multiple_default_rider_categories notice")
	}
	if codes["duplicate_fare_media_id"] == 0 {
		t.Errorf("expected duplicate_fare_media_id notice")
	}
	if codes["fare_transfer_rule_transfer_count_mismatch"] < 2 {
		t.Errorf("expected at least 2 fare_transfer_rule_transfer_count_mismatch notices, got %d", codes["fare_transfer_rule_transfer_count_mismatch"])
	}
	if codes["fare_transfer_rule_duration_limit_type_mismatch"] == 0 {
		t.Errorf("expected fare_transfer_rule_duration_limit_type_mismatch notice")
	}
	if codes["foreign_key_violation"] < 3 {
		t.Errorf("expected at least 3 foreign_key_violation notices (rider_category, stop_area, route_network), got %d", codes["foreign_key_violation"])
	}
}
