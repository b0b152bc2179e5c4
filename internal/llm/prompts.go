package llm

import (
	"fmt"
	"strings"
)

// ExtractionSystemPrompt instructs the model to emit a strict JSON
// preference map over the closed key vocabulary.
const ExtractionSystemPrompt = `You are a car shopping assistant that extracts structured preferences from user messages.

Return ONLY a JSON object. Allowed keys (include a key only when the message mentions it):
- "brand": manufacturer name (string)
- "model": car model or commercial name (string)
- "price_range": one of "budget", "mid", "luxury"
- "year": a four digit year (number), or "recent", or "old"
- "fuel_type": one of "gasoline", "ethanol", "flex", "diesel", "electric", "hybrid"
- "transmission": one of "manual", "automatic", "cvt", "semi_automatic", "dual_clutch"
- "color": color name (string)
- "doors": number of doors (number)
- "mileage": maximum acceptable mileage in km (number)
- "usage": intended use, e.g. "family", "work", "city", "travel"

Do not invent values. Do not add keys outside this list. Return {} when nothing matches.`

// ExtractionPrompt builds the user prompt for preference extraction,
// optionally carrying accumulated preferences and the cars currently shown
// so refinements resolve against them.
func ExtractionPrompt(message string, accumulated map[string]any, shown []string) string {
	var b strings.Builder
	if len(accumulated) > 0 {
		b.WriteString("Known preferences so far:\n")
		for k, v := range accumulated {
			fmt.Fprintf(&b, "- %s: %v\n", k, v)
		}
		b.WriteString("\n")
	}
	if len(shown) > 0 {
		b.WriteString("Cars currently shown to the user (the message may narrow these down):\n")
		for _, line := range shown {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User message: %s\n\nJSON:", message)
	return b.String()
}

// QuestionPrompt builds the prompt for generating one clarifying question
// about the single most useful missing attribute.
func QuestionPrompt(known map[string]any, missing string) string {
	var b strings.Builder
	b.WriteString("You help people find cars. Ask ONE short, friendly question about the attribute below. Do not ask about anything else.\n\n")
	if len(known) > 0 {
		b.WriteString("Already known:\n")
		for k, v := range known {
			fmt.Fprintf(&b, "- %s: %v\n", k, v)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Missing attribute: %s\n\nQuestion:", missing)
	return b.String()
}
