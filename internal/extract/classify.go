package extract

import (
	"encoding/json"
	"strings"
)

// Parse decodes one fenced body and classifies it. Bodies that are not a
// JSON object, or that match no known shape, return false.
func Parse(raw string) (Record, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &obj); err != nil || obj == nil {
		return nil, false
	}
	return Classify(obj)
}

// Classify maps a decoded object to a record by key presence.
// Precedence: company+role, then a string title, then any profile key.
// A profile with no usable value after type checks is dropped.
func Classify(obj map[string]any) (Record, bool) {
	if has(obj, "company") && has(obj, "role") {
		return WorkExperience{
			Company:          str(obj, "company"),
			Role:             str(obj, "role"),
			StartDate:        optStr(obj, "start_date"),
			EndDate:          optStr(obj, "end_date"),
			Responsibilities: strList(obj, "responsibilities"),
			Achievements:     strList(obj, "achievements"),
		}, true
	}

	if title, ok := obj["title"].(string); ok {
		return Project{
			Title:        title,
			Description:  optStr(obj, "description"),
			Impact:       optStr(obj, "impact"),
			Technologies: strList(obj, "technologies"),
		}, true
	}

	if has(obj, "bio") || has(obj, "current_job_role") || has(obj, "career_summary") || has(obj, "skills") {
		p := Profile{
			Bio:            optStr(obj, "bio"),
			CurrentJobRole: optStr(obj, "current_job_role"),
			CareerSummary:  optStr(obj, "career_summary"),
		}
		if _, ok := obj["skills"].([]any); ok {
			p.Skills = strList(obj, "skills")
		}
		if p.Bio == nil && p.CurrentJobRole == nil && p.CareerSummary == nil && len(p.Skills) == 0 {
			return nil, false
		}
		return p, true
	}

	return nil, false
}

func has(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// optStr returns nil for absent, null or non-string values.
func optStr(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// strList keeps the string elements of an array value; anything else
// yields an empty, non-nil list.
func strList(obj map[string]any, key string) []string {
	out := []string{}
	arr, ok := obj[key].([]any)
	if !ok {
		return out
	}
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
