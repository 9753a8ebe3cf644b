// Package action defines the contract every supplemental-data action
// implements, the shared revision algorithm, and the two reference actions
// (manual transcription and manual translation).
//
// An action is one enrichment behavior attachable to a survey question. It
// owns three JSON Schemas:
//
//   - params schema: one entry of the per-question configuration array
//   - data schema: an inbound edit, derived from the resolved params
//   - result schema: the merged stored value produced by ReviseField
//
// Actions are pure: ReviseField performs no I/O and touches no shared state.
// Persistence and dispatch live in the router and store packages.
package action

import (
	"github.com/kobocore/supplemental/internal/schema"
)

// Reserved metadata keys on stored records. No other leading-underscore key
// may appear in a record, and none of these may appear in an edit.
const (
	DateCreatedKey  = "_dateCreated"
	DateModifiedKey = "_dateModified"
	RevisionsKey    = "_revisions"
)

// DeleteSentinel is the display value a client submits to discard a record
// outright, history included. Distinct from an empty edit, which clears the
// visible payload but keeps accumulating history.
const DeleteSentinel = "⌫"

// Action is one configured enrichment behavior bound to a single question.
//
// Instances are built by a Definition's New with the question xpath and the
// resolved configuration for that question (the array pulled from the
// asset's advanced-features document). All methods are safe to call from a
// single goroutine; instances are cheap and not reused across requests.
type Action interface {
	// ID returns the action's stable identifier (a configuration map key).
	ID() string

	// XPath returns the question this instance is bound to.
	XPath() string

	// DataSchema describes a legal inbound edit for this question.
	DataSchema() schema.Schema

	// ResultSchema describes the merged stored value ReviseField returns.
	ResultSchema() schema.Schema

	// ValidateData checks an inbound edit against DataSchema.
	ValidateData(data map[string]any) error

	// ValidateResult checks a merged record against ResultSchema.
	ValidateResult(result map[string]any) error

	// RecordRepr extracts the display value of a record, used to recognize
	// the delete sentinel. Returns "" when the record has no display value.
	RecordRepr(record map[string]any) string

	// ReviseField merges a validated edit into the current stored value and
	// returns the new value. Pure: neither argument is mutated.
	ReviseField(current, edit map[string]any) (map[string]any, error)
}

// Definition is one entry of the closed action table: everything the
// registry needs to validate configuration for an action and construct
// instances of it. The set of definitions is fixed at compile time; adding
// an action means appending to the registry's definition list.
type Definition struct {
	// ID is the action identifier, unique across the table.
	ID string

	// ParamsSchema returns the schema for ONE entry of the per-question
	// configuration array (the array itself is composed by the registry).
	ParamsSchema func() schema.Schema

	// New builds an instance bound to a question. params is the resolved
	// configuration array for that question and action.
	New func(xpath string, params []map[string]any, clock Clock) (Action, error)
}

// ValidateParams checks one configuration entry against the definition's
// params schema. Pure validation, no side effects.
func (d Definition) ValidateParams(params any) error {
	return schema.Validate(d.ParamsSchema(), params)
}

// ResultSchema synthesizes a result schema from a data schema.
//
// The result shape is the data payload plus required _dateCreated and
// _dateModified stamps, plus an optional _revisions array whose items carry
// the payload fields and a required _dateCreated only — a revision is a
// flattened historical leaf, never recursive. A dependentRequired clause on
// the data schema is carried over so cleared records (payload absent)
// remain valid while partial payloads do not.
func ResultSchema(dataSchema schema.Schema) schema.Schema {
	dataProps, _ := dataSchema["properties"].(map[string]any)

	props := make(map[string]any, len(dataProps)+3)
	revProps := make(map[string]any, len(dataProps)+1)
	for k, v := range dataProps {
		props[k] = v
		revProps[k] = v
	}
	revProps[DateCreatedKey] = map[string]any{"type": "string"}
	props[DateCreatedKey] = map[string]any{"type": "string"}
	props[DateModifiedKey] = map[string]any{"type": "string"}
	props[RevisionsKey] = map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"properties":           revProps,
			"required":             []any{DateCreatedKey},
			"additionalProperties": false,
		},
	}

	result := schema.Schema{
		"type":                 "object",
		"properties":           props,
		"required":             []any{DateCreatedKey, DateModifiedKey},
		"additionalProperties": false,
	}
	if dep, ok := dataSchema["dependentRequired"]; ok {
		result["dependentRequired"] = dep
	}
	return result
}
