package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names the validation rule a submission broke.
type Rule string

const (
	RuleCodeRequired        Rule = "code_required"
	RulePowerNotNumeric     Rule = "power_not_numeric"
	RuleTooFewCoordinates   Rule = "too_few_coordinates"
	RuleCoordinateNotFinite Rule = "coordinate_not_finite"
	RuleLongitudeOutOfRange Rule = "longitude_out_of_range"
	RuleLatitudeOutOfRange  Rule = "latitude_out_of_range"
)

// MinRingVertices is the smallest vertex count of a polygon ring, not
// counting the closing duplicate.
const MinRingVertices = 3

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports one broken rule. Row is the 1-based coordinate
// index for per-coordinate rules and 0 otherwise.
type ValidationError struct {
	Rule  Rule   `json:"rule"`
	Field string `json:"field,omitempty"`
	Row   int    `json:"row,omitempty"`
	Value string `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleCodeRequired:
		return "installation code is required"
	case RulePowerNotNumeric:
		return fmt.Sprintf("%s %q is not a number", e.Field, e.Value)
	case RuleTooFewCoordinates:
		return fmt.Sprintf("at least %d valid coordinates are required, got %s", MinRingVertices, e.Value)
	case RuleCoordinateNotFinite:
		return fmt.Sprintf("row %d: %s %q is not a number", e.Row, e.Field, e.Value)
	case RuleLongitudeOutOfRange:
		return fmt.Sprintf("row %d: longitude %s is outside [-180, 180]", e.Row, e.Value)
	case RuleLatitudeOutOfRange:
		return fmt.Sprintf("row %d: latitude %s is outside [-90, 90]", e.Row, e.Value)
	}
	return string(e.Rule)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidGeometry is a submission that passed every rule. Ring is closed.
type ValidGeometry struct {
	Code     string
	PowerMax float64
	PowerAvg float64
	Ring     Ring
}

// WKT renders the ring as a POLYGON.
func (v ValidGeometry) WKT() string {
	return ToWKT(v.Ring)
}

// Validate checks a submission and returns the first failure. Rules run in
// order: code, power_max, power_avg, coordinate count, then each coordinate.
// Empty power fields count as zero.
func Validate(code, powerMax, powerAvg string, coords []Coordinate) (ValidGeometry, error) {
	if errs := ValidateAll(code, powerMax, powerAvg, coords); len(errs) > 0 {
		return ValidGeometry{}, errs[0]
	}
	pmax, _ := powerValue(powerMax)
	pavg, _ := powerValue(powerAvg)
	return ValidGeometry{
		Code:     strings.TrimSpace(code),
		PowerMax: pmax,
		PowerAvg: pavg,
		Ring:     Close(coords),
	}, nil
}

// ValidateAll evaluates every rule independently and returns all failures in
// rule order.
func ValidateAll(code, powerMax, powerAvg string, coords []Coordinate) []*ValidationError {
	var errs []*ValidationError
	if strings.TrimSpace(code) == "" {
		errs = append(errs, &ValidationError{Rule: RuleCodeRequired, Field: "code"})
	}
	if _, ok := powerValue(powerMax); !ok {
		errs = append(errs, &ValidationError{Rule: RulePowerNotNumeric, Field: "power_max", Value: powerMax})
	}
	if _, ok := powerValue(powerAvg); !ok {
		errs = append(errs, &ValidationError{Rule: RulePowerNotNumeric, Field: "power_avg", Value: powerAvg})
	}
	return append(errs, ValidateCoordinates(coords)...)
}

// ValidateCoordinates applies the count and per-coordinate rules only.
func ValidateCoordinates(coords []Coordinate) []*ValidationError {
	var errs []*ValidationError
	if n := Ring(coords).Vertices(); n < MinRingVertices {
		errs = append(errs, &ValidationError{Rule: RuleTooFewCoordinates, Value: fmt.Sprint(n)})
	}
	for i, c := range coords {
		if err := checkCoordinate(i+1, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ValidatePoint checks a single marker coordinate.
func ValidatePoint(c Coordinate) error {
	if err := checkCoordinate(1, c); err != nil {
		return err
	}
	return nil
}

func checkCoordinate(row int, c Coordinate) *ValidationError {
	switch {
	case !isFinite(c.Lon):
		return &ValidationError{Rule: RuleCoordinateNotFinite, Field: "longitude", Row: row, Value: c.LonRaw}
	case !isFinite(c.Lat):
		return &ValidationError{Rule: RuleCoordinateNotFinite, Field: "latitude", Row: row, Value: c.LatRaw}
	case c.Lon < -180 || c.Lon > 180:
		return &ValidationError{Rule: RuleLongitudeOutOfRange, Field: "longitude", Row: row, Value: formatOrdinate(c.Lon)}
	case c.Lat < -90 || c.Lat > 90:
		return &ValidationError{Rule: RuleLatitudeOutOfRange, Field: "latitude", Row: row, Value: formatOrdinate(c.Lat)}
	}
	return nil
}

func powerValue(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	return NumberFromText(raw)
}
