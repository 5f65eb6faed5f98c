package scenario

import _ "embed"

//go:embed scenario.schema.json
var schemaJSON []byte

// SchemaJSON returns the embedded scenario schema document.
func SchemaJSON() []byte {
	return schemaJSON
}
