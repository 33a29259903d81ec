package sources

import (
	"fmt"
	"regexp"
	"strings"
)

var interpolationPattern = regexp.MustCompile(`\$\{[^}]*\}`)

// ExtractTaggedTemplates returns the contents of every tag`...` literal in the text,
// with ${...} interpolations removed. Interpolated fragments are expected to be
// defined in their own literal.
func ExtractTaggedTemplates(text string, tag string) []string {
	if tag == "" {
		return nil
	}

	pattern := regexp.MustCompile(fmt.Sprintf("\\b%s\\s*`([^`]*)`", regexp.QuoteMeta(tag)))

	var literals []string
	for _, match := range pattern.FindAllStringSubmatch(text, -1) {
		literal := interpolationPattern.ReplaceAllString(match[1], "")
		if strings.TrimSpace(literal) == "" {
			continue
		}
		literals = append(literals, literal)
	}
	return literals
}
