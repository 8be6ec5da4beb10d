package llm

import "strings"

// ExtractJSON returns the first complete JSON object in a model reply.
// Markdown code fences, preamble and trailing prose are dropped.
// It returns "" when the reply holds no complete object.
func ExtractJSON(text string) string {
	text = stripFence(strings.TrimSpace(text))

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	return balancedObject(text[start:])
}

// stripFence removes a ```lang ... ``` wrapper.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		lang := text[:nl]
		if !strings.ContainsAny(lang, " {") {
			text = text[nl+1:]
		}
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// balancedObject returns the prefix of s, which starts with '{', up to its matching '}'.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
