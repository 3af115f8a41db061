package crawler

import "regexp"

// hrefPattern matches double-quoted href attributes. Matching is
// case-sensitive and entities are not decoded.
var hrefPattern = regexp.MustCompile(`href="([^"]*)"`)

// ExtractLinks returns every href="..." value in body, in document order.
// Duplicates are kept so that frequently linked targets are picked more often.
func ExtractLinks(body []byte) []string {
	matches := hrefPattern.FindAllSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]string, 0, len(matches))
	for _, m := range matches {
		links = append(links, string(m[1]))
	}
	return links
}
