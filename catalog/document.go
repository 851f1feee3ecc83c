package catalog

// KindDocument models the JSON contract for designer-authored obstacle kinds.
// It is shared with the schema generator so editors can validate the catalog
// file before the server ever loads it.
type KindDocument struct {
	ID           string  `json:"id" jsonschema:"title=Obstacle kind id,pattern=^[a-z0-9\\-]+$,description=Designer facing identifier for the obstacle kind"`
	Weight       float64 `json:"weight" jsonschema:"title=Selection weight,minimum=0,description=Relative likelihood of this kind being chosen for a placement"`
	MaxInstances int     `json:"maxInstances,omitempty" jsonschema:"minimum=0,description=Hard cap on placements of this kind per generation. Zero means unlimited"`
	Width        float64 `json:"width,omitempty" jsonschema:"minimum=0,description=Footprint width hint forwarded to the client"`
	Height       float64 `json:"height,omitempty" jsonschema:"minimum=0,description=Visual height hint forwarded to the client"`
	Prefab       string  `json:"prefab,omitempty" jsonschema:"description=Path to the client visual implementation"`
}

// FileDefinitions represents the contents of config/catalog/kinds.json.
// The loader accepts the canonical array format authored by designers.
type FileDefinitions []KindDocument
