// Package catalog provides the read-only module, weapon, and dropsuit
// definitions that fittings are built from.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Value is a catalog property value: either a number or free text.
//
// The zero Value is the number 0.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{num: f}
}

// Text returns a textual Value.
func Text(s string) Value {
	return Value{text: s, isText: true}
}

// Float returns the numeric value and true, or 0 and false for text.
func (v Value) Float() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// IsText reports whether v holds text.
func (v Value) IsText() bool {
	return v.isText
}

// String renders v for display.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// decimal matches plain decimal literals. Spellings such as inf, nan, and
// hex floats stay text.
var decimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// UnmarshalYAML decodes a scalar node. Decimal literals with a finite value
// become numbers; every other scalar is kept as text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: property value must be a scalar", node.Line)
	}
	if !decimal.MatchString(node.Value) {
		*v = Text(node.Value)
		return nil
	}
	if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
		*v = Number(f)
		return nil
	}
	*v = Text(node.Value)
	return nil
}

// MarshalYAML encodes v as a plain scalar.
func (v Value) MarshalYAML() (interface{}, error) {
	if v.isText {
		return v.text, nil
	}
	return v.num, nil
}
