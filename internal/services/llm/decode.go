package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeJSON parses model output into target. Markdown code fences are
// removed and, when the remaining text is not valid JSON on its own, the
// span from the first "{" to the last "}" is tried.
func DecodeJSON(content string, target any) error {
	cleaned := StripFences(content)
	if cleaned == "" {
		return errors.New("empty payload")
	}
	directErr := json.Unmarshal([]byte(cleaned), target)
	if directErr == nil {
		return nil
	}

	object, ok := ExtractObject(cleaned)
	if !ok || object == cleaned {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, snippet(cleaned))
	}
	if err := json.Unmarshal([]byte(object), target); err != nil {
		return fmt.Errorf("%w (extracted payload snippet: %s)", err, snippet(object))
	}
	return nil
}

// StripFences removes every ```json and ``` marker and trims the result.
func StripFences(content string) string {
	replacer := strings.NewReplacer("```json", "", "```JSON", "", "```", "")
	return strings.TrimSpace(replacer.Replace(content))
}

// ExtractObject returns the text between the first "{" and the last "}".
func ExtractObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
