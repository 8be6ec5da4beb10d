package report

import "strings"

// EscapeMarkdown escapes characters that Markdown would treat as syntax
// Special characters: \ ` * _ [ ] < > # | ! &
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '#', '|', '!', '&':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '\r':
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// inline escapes text and folds it onto one line, for headings and table cells.
func inline(text string) string {
	return strings.Join(strings.Fields(EscapeMarkdown(text)), " ")
}
