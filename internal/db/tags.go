package db

import "encoding/json"

// encodeTags serializes tags for the tags_json column
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeTags reads a tags_json value. Anything that is not a JSON list
// decodes to no tags so a corrupt row never hides its task.
func decodeTags(s string) []string {
	if s == "" {
		return []string{}
	}
	var raw []any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return []string{}
	}
	tags := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			tags = append(tags, v)
		case nil:
		default:
			b, _ := json.Marshal(v)
			tags = append(tags, string(b))
		}
	}
	return tags
}
