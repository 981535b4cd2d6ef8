package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reControl    = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	reSpaces     = regexp.MustCompile(`[ \t]+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

func stripControl(s string) string {
	return reControl.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reSpaces.ReplaceAllString(s, " ")
}

func limitBlankLines(s string) string {
	return reBlankLines.ReplaceAllString(s, "\n\n")
}

// SanitizeFreeText cleans multi-line user text such as special requests and
// room descriptions. Line breaks survive, control characters do not.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		limitBlankLines,
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeLabel normalizes short single-line values such as room types and
// amenity names.
func SanitizeLabel(input string) string {
	p := Pipeline{
		stripControl,
		func(s string) string { return reWhitespace.ReplaceAllString(s, " ") },
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to each value, dropping empties and
// duplicates while preserving order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
