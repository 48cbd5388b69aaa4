package verifier

import "github.com/santhosh-tekuri/jsonschema/v5"

// recordSchemaSource constrains per-version release records. A record that
// violates it is structural damage to the durable proof of a publish, so
// schema findings are errors rather than warnings.
const recordSchemaSource = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["version", "channel", "release_date", "artifacts"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"channel": {"enum": ["stable", "development"]},
		"release_date": {
			"type": "string",
			"pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}Z$"
		},
		"artifacts": {
			"type": "object",
			"required": ["windows-x64", "linux-x64", "macos-x64"],
			"additionalProperties": {
				"type": "object",
				"required": ["filename", "sha256"],
				"properties": {
					"filename": {"type": "string", "minLength": 1},
					"sha256": {"type": "string", "pattern": "^[a-f0-9]{64}$"}
				}
			}
		}
	}
}`

// recordSchema is compiled once at startup; the source is a constant.
//
//nolint:gochecknoglobals // Compiled schema is immutable shared state.
var recordSchema = jsonschema.MustCompileString("release-record.schema.json", recordSchemaSource)
