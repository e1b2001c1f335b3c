package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Items are trimmed and empty items dropped:
//
//	?region=Κρήτη,Αττική          → ["Κρήτη","Αττική"]
//	?region=Κρήτη&region=Αττική   → ["Κρήτη","Αττική"]
func ParseQueryList(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
