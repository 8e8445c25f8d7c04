package postgres

import "encoding/json"

// mergeFieldsJSON marshals a partial field-set into a JSON object suitable
// for `doc || $N::jsonb`, the merge operator Postgres uses to patch
// top-level JSONB keys without reading the row first. This is what backs
// every repository's UpdateFields: callers pass a flat map of the exact
// top-level doc fields they touched, never the full entity.
func mergeFieldsJSON(fields map[string]any) ([]byte, error) {
	return json.Marshal(fields)
}
