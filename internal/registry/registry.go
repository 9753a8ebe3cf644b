// Package registry holds the closed table of supplemental-data actions and
// composes the schema governing per-asset advanced-features configuration.
//
// The table is fixed at compile time: adding an action means appending its
// definition to the list in New. No reflection, no discovery — the set of
// actions is small and closed, and the table is a value passed explicitly
// to consumers rather than module-level state.
package registry

import (
	"sort"

	"github.com/kobocore/supplemental/internal/action"
	"github.com/kobocore/supplemental/internal/schema"
)

// SchemaVersion is the single configuration format version this code
// understands. Both the asset configuration and inbound edit payloads pin
// it with a const check; a mismatch is a hard failure, never a soft
// warning. Migrating older documents is an external concern.
const SchemaVersion = "1"

// Reserved top-level keys of an advanced-features configuration document.
const (
	VersionKey = "_version"
	SchemaKey  = "_schema"
)

// XPathPattern matches a slash-delimited path of XML tag names mirroring
// the survey's group hierarchy, e.g. "group_intro/recording".
const XPathPattern = `^[a-zA-Z_][a-zA-Z0-9_.-]*(/[a-zA-Z_][a-zA-Z0-9_.-]*)*$`

// Registry maps action identifiers to their definitions.
type Registry struct {
	defs map[string]action.Definition
}

// New builds the registry from the fixed definition list.
func New() *Registry {
	defs := []action.Definition{
		action.ManualTranscription(),
		action.ManualTranslation(),
	}
	byID := make(map[string]action.Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Registry{defs: byID}
}

// Lookup resolves an action identifier to its definition.
func (r *Registry) Lookup(id string) (action.Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns the registered action identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AdvancedFeaturesSchema composes the schema an asset's advanced-features
// document must satisfy:
//
//	{
//	  "_version": "1",
//	  "_schema": {
//	    "<question xpath>": {
//	      "<action id>": [ <params>, ... ]
//	    }
//	  }
//	}
//
// Question keys are constrained by XPathPattern; the legal action keys
// under a question are exactly the registered identifiers, each mapped to
// a non-empty array of that action's params entries. _version is pinned to
// SchemaVersion with a const check.
func (r *Registry) AdvancedFeaturesSchema() schema.Schema {
	perQuestion := make(map[string]any, len(r.defs))
	for id, def := range r.defs {
		perQuestion[id] = map[string]any{
			"type":     "array",
			"items":    map[string]any(def.ParamsSchema()),
			"minItems": 1,
		}
	}
	return schema.Schema{
		"type": "object",
		"properties": map[string]any{
			VersionKey: map[string]any{"const": SchemaVersion},
			SchemaKey: map[string]any{
				"type": "object",
				"patternProperties": map[string]any{
					XPathPattern: map[string]any{
						"type":                 "object",
						"properties":           perQuestion,
						"additionalProperties": false,
					},
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{VersionKey, SchemaKey},
		"additionalProperties": false,
	}
}

// ValidateConfig checks a full advanced-features document against the
// composed schema.
func (r *Registry) ValidateConfig(config map[string]any) error {
	return schema.Validate(r.AdvancedFeaturesSchema(), config)
}
