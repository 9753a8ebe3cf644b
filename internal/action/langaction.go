package action

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/kobocore/supplemental/internal/schema"
)

// langAction is the shared implementation behind the transcription and
// translation actions: a language-keyed text payload. The two actions
// differ only in identifier and payload field name.
type langAction struct {
	id           string
	xpath        string
	field        string
	clock        Clock
	dataSchema   schema.Schema
	resultSchema schema.Schema
}

// newLangAction resolves the configured languages and derives the data and
// result schemas for one question. The legal language values of an edit are
// exactly the languages configured on the question, in configuration order.
func newLangAction(id, xpath, field string, params []map[string]any, clock Clock) (*langAction, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%s at %s: no languages configured", id, xpath)
	}
	langs, err := languageCodes(params)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", id, xpath, err)
	}
	data := languageDataSchema(field, langs)
	return &langAction{
		id:           id,
		xpath:        xpath,
		field:        field,
		clock:        clock,
		dataSchema:   data,
		resultSchema: ResultSchema(data),
	}, nil
}

func (a *langAction) ID() string    { return a.id }
func (a *langAction) XPath() string { return a.xpath }

func (a *langAction) DataSchema() schema.Schema   { return a.dataSchema }
func (a *langAction) ResultSchema() schema.Schema { return a.resultSchema }

func (a *langAction) ValidateData(data map[string]any) error {
	return schema.Validate(a.dataSchema, data)
}

func (a *langAction) ValidateResult(result map[string]any) error {
	return schema.Validate(a.resultSchema, result)
}

// RecordRepr returns the record's text payload, or "" when cleared.
func (a *langAction) RecordRepr(record map[string]any) string {
	s, _ := record[a.field].(string)
	return s
}

// ReviseField applies one edit. Submitting the delete sentinel as the text
// payload discards the record outright, accumulated history included; any
// other edit (the empty edit included) goes through the shared revision
// merge and extends history.
func (a *langAction) ReviseField(current, edit map[string]any) (map[string]any, error) {
	if a.RecordRepr(edit) == DeleteSentinel {
		return map[string]any{}, nil
	}
	return Revise(current, edit, a.clock.Now())
}

// languageDataSchema builds the edit schema for a language-keyed text
// payload. dependentRequired pairs the two fields: an edit carries both
// language and text, or neither (the clearing edit). additionalProperties
// is false, so leading-underscore keys fail here before the merge's
// defensive check ever sees them.
func languageDataSchema(field string, langs []string) schema.Schema {
	enum := make([]any, len(langs))
	for i, l := range langs {
		enum[i] = l
	}
	return schema.Schema{
		"type": "object",
		"properties": map[string]any{
			"language": map[string]any{"type": "string", "enum": enum},
			field:      map[string]any{"type": "string"},
		},
		"dependentRequired": map[string]any{
			"language": []any{field},
			field:      []any{"language"},
		},
		"additionalProperties": false,
	}
}

// languageCodes extracts the configured language codes in configuration
// order, dropping duplicates. Codes must be well-formed BCP 47 tags;
// unknown-but-well-formed tags are accepted since survey teams routinely
// configure private or minority languages.
func languageCodes(params []map[string]any) ([]string, error) {
	codes := make([]string, 0, len(params))
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		code, ok := p["language"].(string)
		if !ok || code == "" {
			return nil, fmt.Errorf("params[%d]: missing language", i)
		}
		if _, err := language.Parse(code); err != nil {
			var verr language.ValueError
			if !errors.As(err, &verr) {
				return nil, fmt.Errorf("params[%d]: malformed language tag %q: %w", i, code, err)
			}
		}
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// languageParamsSchema is the params schema shared by the transcription and
// translation actions: one configuration entry selects one language.
func languageParamsSchema() schema.Schema {
	return schema.Schema{
		"type": "object",
		"properties": map[string]any{
			"language": map[string]any{"type": "string"},
		},
		"required":             []any{"language"},
		"additionalProperties": false,
	}
}
