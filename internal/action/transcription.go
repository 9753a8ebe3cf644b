package action

// ManualTranscriptionID identifies the manual transcription action in
// configuration documents and stored data. Stable for the life of the
// system.
const ManualTranscriptionID = "manual_transcription"

// ManualTranscription is the definition for human-entered transcripts of
// audio/video responses. The payload is a transcript in one of the
// configured languages.
func ManualTranscription() Definition {
	return Definition{
		ID:           ManualTranscriptionID,
		ParamsSchema: languageParamsSchema,
		New: func(xpath string, params []map[string]any, clock Clock) (Action, error) {
			return newLangAction(ManualTranscriptionID, xpath, "transcript", params, clock)
		},
	}
}
