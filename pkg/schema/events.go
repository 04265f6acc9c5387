package schema

import "time"

const BrowseEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "browse_event",
	"fields": [
		{"name": "category", "type": "string"},
		{"name": "min_price", "type": ["null", "double"], "default": null},
		{"name": "max_price", "type": ["null", "double"], "default": null},
		{"name": "sort_attribute", "type": "string"},
		{"name": "sort_direction", "type": "string"},
		{"name": "matched", "type": "long"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

const CatalogChangeSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "catalog_change",
	"fields": [
		{"name": "kind", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type BrowseEventV1 struct {
	Category      string    `avro:"category"`
	MinPrice      *float64  `avro:"min_price"`
	MaxPrice      *float64  `avro:"max_price"`
	SortAttribute string    `avro:"sort_attribute"`
	SortDirection string    `avro:"sort_direction"`
	Matched       int64     `avro:"matched"`
	OccurredAt    time.Time `avro:"occurred_at"`
}

type CatalogChangeV1 struct {
	Kind       string    `avro:"kind"`
	ProductID  string    `avro:"product_id"`
	OccurredAt time.Time `avro:"occurred_at"`
}
