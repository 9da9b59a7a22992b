package ai

import "strings"

// cleanModelJSON strips the Markdown fences and surrounding prose that models
// sometimes emit despite instructions, keeping only the outermost JSON value
// delimited by open/close (e.g. "{"/"}" or "["/"]"). The result may still be
// invalid JSON; callers decide whether that is an error or an empty reading.
func cleanModelJSON(raw, open, closing string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, open); start != -1 {
		if end := strings.LastIndex(s, closing); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
