package action

// ManualTranslationID identifies the manual translation action in
// configuration documents and stored data.
const ManualTranslationID = "manual_translation"

// ManualTranslation is the definition for human-entered translations of a
// response (or of its transcript). The payload field is named value rather
// than transcript; the shape is otherwise identical to transcription.
func ManualTranslation() Definition {
	return Definition{
		ID:           ManualTranslationID,
		ParamsSchema: languageParamsSchema,
		New: func(xpath string, params []map[string]any, clock Clock) (Action, error) {
			return newLangAction(ManualTranslationID, xpath, "value", params, clock)
		},
	}
}
