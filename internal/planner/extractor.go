package planner

import (
	"encoding/json"
	"strings"
)

// payloadEnvelope accepts both {"itinerary": {"days": [...]}} and a bare {"days": [...]}.
type payloadEnvelope struct {
	Itinerary *struct {
		Days []PayloadDay `json:"days"`
	} `json:"itinerary"`
	Days []PayloadDay `json:"days"`
}

// Extract pulls the structured plan out of a free-text generation response.
// It tries the span from the first '{' to the last '}', then each balanced
// top-level object in order, and returns FallbackPayload when none parses.
func Extract(raw string) Payload {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return FallbackPayload()
	}

	if p, ok := parsePayload(raw[start : end+1]); ok {
		return p
	}

	for _, obj := range balancedObjects(raw[start:]) {
		if p, ok := parsePayload(obj); ok {
			return p
		}
	}

	return FallbackPayload()
}

func parsePayload(s string) (Payload, bool) {
	var env payloadEnvelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return Payload{}, false
	}

	switch {
	case env.Itinerary != nil && env.Itinerary.Days != nil:
		return Payload{Days: env.Itinerary.Days}, true
	case env.Days != nil:
		return Payload{Days: env.Days}, true
	default:
		return Payload{}, false
	}
}

// balancedObjects returns every complete top-level {...} span in s,
// skipping braces that appear inside JSON string literals.
func balancedObjects(s string) []string {
	var (
		objects  []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, s[start:i+1])
				start = -1
			}
		}
	}
	return objects
}
