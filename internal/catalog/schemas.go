package catalog

import "github.com/catcheck/catcheck/internal/schema"

// Schema trees for the catalog API payloads. Built once at startup and
// shared read-only across all cases.

var WeightSchema = schema.Object([]string{"imperial", "metric"},
	schema.Prop("imperial", schema.String()),
	schema.Prop("metric", schema.String()),
)

var BreedSchema = schema.Object([]string{"id", "name"},
	schema.Prop("id", schema.String()),
	schema.Prop("name", schema.String()),
	schema.Prop("temperament", schema.String()),
	schema.Prop("origin", schema.String()),
	schema.Prop("description", schema.String()),
	schema.Prop("life_span", schema.String()),
	schema.Prop("weight", WeightSchema),
	schema.Prop("adaptability", schema.Integer()),
	schema.Prop("intelligence", schema.Integer()),
)

var ImageSchema = schema.Object([]string{"id", "url", "width", "height"},
	schema.Prop("id", schema.String()),
	schema.Prop("url", schema.String()),
	schema.Prop("width", schema.Integer()),
	schema.Prop("height", schema.Integer()),
	schema.Prop("breeds", schema.Array(BreedSchema)),
)

var CategorySchema = schema.Object([]string{"id", "name"},
	schema.Prop("id", schema.Integer()),
	schema.Prop("name", schema.String()),
)

var FavouriteSchema = schema.Object([]string{"id", "image_id"},
	schema.Prop("id", schema.Integer()),
	schema.Prop("image_id", schema.String()),
	schema.Prop("sub_id", schema.String()),
	schema.Prop("created_at", schema.String()),
)

var VoteSchema = schema.Object([]string{"id", "image_id", "value"},
	schema.Prop("id", schema.Integer()),
	schema.Prop("image_id", schema.String()),
	schema.Prop("value", schema.Integer()),
)
