package domain

import "fmt"

const recognizedFormatMessage = "%s is recognized, let me fetch it to you\n\nRaw Text Output:\n%s"
const notRecognizedMessage = "sorry, I cannot locate it\n\nRaw Text Output:\n0 | 0 | 0"
const modelResponseFormatMessage = "%s\n\nModel Response:\n%s"

// ResponseFormatter turns a validated detection set into the text shown (and spoken) to the user.
// Pure and deterministic given its inputs.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// Format renders the one-line recognition statement followed by the canonical coordinate table.
// If `rawResponse` is non-empty, the raw model text is echoed below for audit/debugging.
func (r *ResponseFormatter) Format(objectPhrase string, detectionSet DetectionSet, rawResponse string) string {
	var summary string
	if detectionSet.Recognized {
		summary = fmt.Sprintf(recognizedFormatMessage, objectPhrase, detectionSet.CoordinateString())
	} else {
		summary = notRecognizedMessage
	}
	if rawResponse != "" {
		summary = fmt.Sprintf(modelResponseFormatMessage, summary, rawResponse)
	}
	return summary
}

// SpeechText is the degraded rendering for TTS: coordinate tables sound terrible when read aloud,
// so speech only announces whether the object was found.
func (r *ResponseFormatter) SpeechText(objectPhrase string, detectionSet DetectionSet) string {
	if detectionSet.Recognized {
		return objectPhrase + " found"
	}
	return "Object not found"
}
