package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errNotObject = errors.New("content is not a JSON object")

// DecodeJSON unmarshals the JSON object in model output into v. When strict
// parsing fails it runs exactly one repair pass and parses again. repaired
// reports whether the repair pass was used.
func DecodeJSON(content string, v any) (repaired bool, err error) {
	cleaned := cleanJSONResponse(content)

	if err := unmarshalObject(cleaned, v); err == nil {
		return false, nil
	}

	fixed, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return true, fmt.Errorf("%w: repair failed: %v", ErrFormat, err)
	}

	if err := unmarshalObject(fixed, v); err != nil {
		return true, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return true, nil
}

func unmarshalObject(content string, v any) error {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "{") {
		return errNotObject
	}
	return json.Unmarshal([]byte(content), v)
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
