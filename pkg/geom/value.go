package geom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is a single raw geometry component: either a concrete amount in
// pixels or a symbolic expression resolved later against a reference box.
// The zero Value is the concrete amount 0.
type Value struct {
	amount float64
	expr   string
}

// Px returns a concrete Value of n pixels.
func Px(n float64) Value { return Value{amount: n} }

// Expr returns a symbolic Value. The expression is stored verbatim; use
// [ParseValue] to turn numeric strings into concrete values.
func Expr(s string) Value { return Value{expr: s} }

// ParseValue interprets s as a number when possible and as an expression
// otherwise. Whitespace around a number is ignored; expressions are kept
// verbatim, so " 100% " is not the token "100%".
func ParseValue(s string) Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Px(f)
	}
	return Expr(s)
}

// IsExpr reports whether v is symbolic.
func (v Value) IsExpr() bool { return v.expr != "" }

// Float returns the concrete amount and true, or 0 and false for expressions.
func (v Value) Float() (float64, bool) {
	if v.IsExpr() {
		return 0, false
	}
	return v.amount, true
}

// Expression returns the symbolic token, or "" for concrete values.
func (v Value) Expression() string { return v.expr }

// String formats v the way it would be authored.
func (v Value) String() string {
	if v.IsExpr() {
		return v.expr
	}
	return strconv.FormatFloat(v.amount, 'f', -1, 64)
}

// MarshalJSON encodes concrete values as numbers and expressions as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsExpr() {
		return json.Marshal(v.expr)
	}
	return json.Marshal(v.amount)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ParseValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("geometry value must be a number or string: %w", err)
	}
	*v = Px(f)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler. TOML integers arrive as int64.
func (v *Value) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case int64:
		*v = Px(float64(d))
	case float64:
		*v = Px(d)
	case string:
		*v = ParseValue(d)
	default:
		return fmt.Errorf("geometry value must be a number or string, got %T", data)
	}
	return nil
}

// MarshalTOML implements toml.Marshaler.
func (v Value) MarshalTOML() ([]byte, error) {
	if v.IsExpr() {
		return []byte(strconv.Quote(v.expr)), nil
	}
	return []byte(strconv.FormatFloat(v.amount, 'f', -1, 64)), nil
}

// MarshalYAML encodes concrete values as numbers and expressions as strings.
func (v Value) MarshalYAML() (any, error) {
	if v.IsExpr() {
		return v.expr, nil
	}
	return v.amount, nil
}

// UnmarshalYAML accepts a YAML scalar.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: geometry value must be a scalar", node.Line)
	}
	*v = ParseValue(node.Value)
	return nil
}
