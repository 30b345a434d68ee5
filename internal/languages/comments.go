package languages

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// competitive-verifier: KEY value  (also accepts the older verify-helper: prefix)
	specialCommentRe = regexp.MustCompile(`(?m)(?:competitive-verifier|verify-helper):[ \t]*([A-Z_][A-Z0-9_]*)(?:[ \t]+(.*?))?[ \t]*(?:\*/)?[ \t]*\r?$`)
	// #define PROBLEM "https://..."
	defineRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+([A-Z_][A-Z0-9_]*)[ \t]+"([^"]*)"`)
	urlRe    = regexp.MustCompile(`https?://[^\s"'<>()\[\]{}]+`)
)

// defineKeys are the #define names read as attributes.
var defineKeys = map[string]bool{
	"PROBLEM": true,
	"ERROR":   true,
	"TLE":     true,
	"MLE":     true,
	"IGNORE":  true,
}

// listSpecialComments collects KEY value pairs. Later occurrences win.
func listSpecialComments(src []byte, withDefines bool) map[string]any {
	attrs := map[string]any{}
	if withDefines {
		for _, m := range defineRe.FindAllSubmatch(src, -1) {
			key := string(m[1])
			if defineKeys[key] {
				attrs[key] = string(m[2])
			}
		}
	}
	for _, m := range specialCommentRe.FindAllSubmatch(src, -1) {
		attrs[string(m[1])] = strings.TrimSpace(string(m[2]))
	}
	return attrs
}

// listEmbeddedURLs returns the unique URLs in src, sorted.
func listEmbeddedURLs(src []byte) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range urlRe.FindAll(src, -1) {
		u := strings.TrimRight(string(m), ".,;:")
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	sort.Strings(out)
	return out
}

func attributes(src []byte, withDefines bool) map[string]any {
	attrs := listSpecialComments(src, withDefines)
	links := listEmbeddedURLs(src)
	if links == nil {
		links = []string{}
	}
	attrs["links"] = links
	return attrs
}
