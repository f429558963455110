package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format renders a row value as display text. Lists are joined with "; " and objects show
// their name when they have one.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case []string:
		return strings.Join(val, "; ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Format(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
