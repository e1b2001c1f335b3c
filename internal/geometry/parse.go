package geometry

import (
	"strings"
	"unicode"
)

// Skip reasons reported in SkippedLine.
const (
	ReasonTooFewTokens     = "fewer than two tokens"
	ReasonGluedNumbers     = "token mixes separators and is not a single number"
	ReasonInvalidLongitude = "longitude is not a number"
	ReasonInvalidLatitude  = "latitude is not a number"
	ReasonAmbiguousCommas  = "commas are both decimal marks and separators"
)

// SkippedLine describes an input line that did not yield a coordinate.
type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParseResult is the outcome of ParseReport.
type ParseResult struct {
	Coordinates   []Coordinate  `json:"coordinates"`
	Skipped       []SkippedLine `json:"skipped"`
	HeaderSkipped bool          `json:"header_skipped"`
}

// Parse extracts (longitude, latitude) pairs from free text, one pair per
// line. Lines that cannot be parsed are dropped.
func Parse(text string) []Coordinate {
	return ParseReport(text).Coordinates
}

// ParseReport is Parse plus the list of dropped lines.
//
// Blank lines are ignored. The first non-blank line is skipped when it looks
// like a header (a "lon"/"lng" word and a "lat" word). Ordinates are split on
// whitespace and ';'. A comma separates ordinates only when it touches a
// delimiter or when the line has no other delimiter; otherwise it is a decimal
// or group mark inside the number.
func ParseReport(text string) ParseResult {
	res := ParseResult{Coordinates: []Coordinate{}, Skipped: []SkippedLine{}}

	lines := strings.Split(strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text), "\n")
	seenContent := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !seenContent {
			seenContent = true
			if isHeader(line) {
				res.HeaderSkipped = true
				continue
			}
		}

		tokens, ambiguous := splitOrdinates(line)
		if ambiguous {
			res.Skipped = append(res.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: ReasonAmbiguousCommas})
			continue
		}
		if len(tokens) < 2 {
			res.Skipped = append(res.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: ReasonTooFewTokens})
			continue
		}
		lonRaw, latRaw := tokens[0], tokens[1]
		if !singleNumber(lonRaw) || !singleNumber(latRaw) {
			res.Skipped = append(res.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: ReasonGluedNumbers})
			continue
		}

		c := NewCoordinate(lonRaw, latRaw)
		switch {
		case !isFinite(c.Lon):
			res.Skipped = append(res.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: ReasonInvalidLongitude})
		case !isFinite(c.Lat):
			res.Skipped = append(res.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: ReasonInvalidLatitude})
		default:
			res.Coordinates = append(res.Coordinates, c)
		}
	}
	return res
}

func isHeader(line string) bool {
	words := strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var lon, lat bool
	for _, w := range words {
		switch {
		case strings.HasPrefix(w, "lon"), strings.HasPrefix(w, "lng"):
			lon = true
		case strings.HasPrefix(w, "lat"):
			lat = true
		}
	}
	return lon && lat
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == ';'
}

// splitOrdinates reports ambiguous for comma-only lines without a '.' that
// split into more than four parts: "21,5,40,3,0" may be comma decimals plus
// an altitude or five integers, and no reading is safe.
func splitOrdinates(line string) ([]string, bool) {
	// A comma next to a delimiter or at either end of the line is itself a
	// delimiter ("21.5, 40.3", "21,5;40,3,").
	runes := []rune(line)
	for i, r := range runes {
		if r != ',' {
			continue
		}
		before := i == 0 || isDelimiter(runes[i-1]) || runes[i-1] == ','
		after := i == len(runes)-1 || isDelimiter(runes[i+1])
		if before || after {
			runes[i] = ' '
		}
	}
	line = string(runes)

	if tokens := strings.FieldsFunc(line, isDelimiter); len(tokens) != 1 {
		return tokens, false
	}

	// Only commas are left: "21.770,40.350" or "21,770,40,350".
	parts := strings.Split(strings.TrimSpace(line), ",")
	if !strings.Contains(line, ".") {
		switch {
		case len(parts) == 4:
			return []string{parts[0] + "," + parts[1], parts[2] + "," + parts[3]}, false
		case len(parts) > 4:
			return nil, true
		}
	}
	return parts, false
}

// singleNumber rejects tokens that use both ',' and '.' unless they form a
// plain grouped number such as "1.234.567,89". "21.770,40.350" is two numbers
// glued together and is refused.
func singleNumber(tok string) bool {
	if !strings.Contains(tok, ",") || !strings.Contains(tok, ".") {
		return true
	}
	d := strings.LastIndexAny(tok, ",.")
	decimal := tok[d]
	group := byte(',')
	if decimal == ',' {
		group = '.'
	}
	intPart := strings.TrimLeft(tok[:d], "+-")
	if strings.IndexByte(intPart, decimal) >= 0 {
		return false
	}
	groups := strings.Split(intPart, string(group))
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
