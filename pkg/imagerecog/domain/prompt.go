package domain

import "fmt"

// PromptBuilder renders the instruction sent to a vision model together with the image.
// Providers respond best to slightly different wording, so there is one template per provider tag;
// the units never change (always pixel coordinates in the processed frame), and every template
// states the negative-result convention so that "nothing found" is machine-recognizable.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const grokPromptTemplate = "Please read the image provided, which has been resized to a resolution of %dx%d pixels, " +
	"and locate every instance of the object of interest '%s'. For each instance, compute the exact center point " +
	"of the object, not a bounding box or corners. Summarize the coordinates in a concise markdown table with " +
	"columns 'H', 'V' and 'ID' (1-based instance number), using pixel values within the %dx%d frame. " +
	"If no such object is found, return a table with 'H', 'V', 'ID' values of 0, 0, 0."

const qwenPromptTemplate = "Analyze this %dx%d pixel image and find all instances of '%s'. " +
	"Report the exact center point of each instance in a markdown table:\n\n| H | V | ID |\n|---|---|----|\n\n" +
	"H and V are pixel coordinates of the object's center within the %dx%d frame, ID is the 1-based instance " +
	"number. Report centers only, never bounding boxes. If the object is not found, answer with a single row: " +
	"| 0 | 0 | 0 |."

const llavaPromptTemplate = "Look at this image (%dx%d pixels) and find every '%s'. " +
	"For each one, answer with the center point of the object as (H, V) in pixel coordinates of the %dx%d frame, " +
	"for example: Center point: (120, 80). Do not describe corners or bounding boxes. " +
	"If you cannot find it, answer exactly: 0, 0, 0 not found."

var promptTemplates = map[string]string{
	"grok":  grokPromptTemplate,
	"qwen":  qwenPromptTemplate,
	"llava": llavaPromptTemplate,
}

// Build renders the provider-specific prompt for the given object phrase and processed resolution.
// Unknown provider tags get the grok wording, which all tested models understand.
func (p *PromptBuilder) Build(objectPhrase string, width, height int, provider string) string {
	template, ok := promptTemplates[provider]
	if !ok {
		template = grokPromptTemplate
	}
	return fmt.Sprintf(template, width, height, objectPhrase, width, height)
}
