package value

import (
	"strconv"
	"strings"

	"github.com/go-drift/motion/pkg/errors"
)

// Parse reads a value from its CSS-like text form:
//
//	0.5                  Number
//	12px  50%  1.5rem    Length
//	90deg 1rad 0.25turn  Angle
//	#ff0000 rgba(...) red
//	translate(10px, 0) rotate(45deg) scale(1.2)  Transform ("none" is identity)
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &errors.ParseError{Input: s, Want: "value"}
	}
	lower := strings.ToLower(s)
	switch {
	case lower == "none":
		return Identity(), nil
	case strings.HasPrefix(lower, "#"), strings.HasPrefix(lower, "rgb"):
		return ParseColor(s)
	case strings.Contains(lower, "("):
		return ParseTransform(s)
	}
	if num, unit, ok := splitNumber(lower); ok {
		return scalarWithUnit(s, num, unit)
	}
	return ParseColor(s)
}

func scalarWithUnit(input string, num float64, unit string) (Value, error) {
	switch unit {
	case "":
		return Number(num), nil
	case string(Px), string(Percent), string(Em), string(Rem), string(Vw), string(Vh):
		return Length{V: num, Unit: Unit(unit)}, nil
	case string(Deg), string(Rad), string(Turn):
		return Angle{V: num, Unit: AngleUnit(unit)}, nil
	}
	return nil, &errors.ParseError{Input: input, Want: "value"}
}

// splitNumber splits "12.5px" into 12.5 and "px".
func splitNumber(s string) (float64, string, bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == start {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(s[i:]), true
}

// ParseTransform reads a whitespace-separated list of CSS transform
// functions. Later functions overwrite the components set by earlier ones.
func ParseTransform(s string) (Transform, error) {
	t := Identity()
	rest := strings.TrimSpace(s)
	if strings.EqualFold(rest, "none") {
		return t, nil
	}
	for rest != "" {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return Transform{}, &errors.ParseError{Input: s, Want: "transform"}
		}
		name, args, ok := splitCall(rest[:end+1])
		if !ok {
			return Transform{}, &errors.ParseError{Input: s, Want: "transform"}
		}
		if err := t.applyFunc(name, args); err != nil {
			return Transform{}, &errors.ParseError{Input: s, Want: "transform"}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	return t, nil
}

func (t *Transform) applyFunc(name string, args []string) error {
	lengths := func(n int) ([]float64, error) {
		out := make([]float64, len(args))
		if len(args) == 0 || len(args) > n {
			return nil, errBadArgs
		}
		for i, a := range args {
			num, unit, ok := splitNumber(a)
			if !ok || (unit != "" && unit != string(Px)) {
				return nil, errBadArgs
			}
			out[i] = num
		}
		return out, nil
	}
	angles := func(n int) ([]float64, error) {
		out := make([]float64, len(args))
		if len(args) == 0 || len(args) > n {
			return nil, errBadArgs
		}
		for i, a := range args {
			num, unit, ok := splitNumber(a)
			if !ok {
				return nil, errBadArgs
			}
			if unit == "" {
				unit = string(Deg)
			}
			switch AngleUnit(unit) {
			case Deg, Rad, Turn:
				out[i] = Angle{V: num, Unit: AngleUnit(unit)}.Deg()
			default:
				return nil, errBadArgs
			}
		}
		return out, nil
	}
	numbers := func(n int) ([]float64, error) {
		out := make([]float64, len(args))
		if len(args) == 0 || len(args) > n {
			return nil, errBadArgs
		}
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, errBadArgs
			}
			out[i] = v
		}
		return out, nil
	}

	switch strings.ToLower(name) {
	case "translate", "translate3d":
		v, err := lengths(3)
		if err != nil {
			return err
		}
		t.X = v[0]
		if len(v) > 1 {
			t.Y = v[1]
		}
		if len(v) > 2 {
			t.Z = v[2]
		}
	case "translatex", "translatey", "translatez":
		v, err := lengths(1)
		if err != nil {
			return err
		}
		switch name[len(name)-1] {
		case 'x', 'X':
			t.X = v[0]
		case 'y', 'Y':
			t.Y = v[0]
		default:
			t.Z = v[0]
		}
	case "rotate", "rotatez":
		v, err := angles(1)
		if err != nil {
			return err
		}
		t.Rotate = v[0]
	case "rotatex":
		v, err := angles(1)
		if err != nil {
			return err
		}
		t.RotateX = v[0]
	case "rotatey":
		v, err := angles(1)
		if err != nil {
			return err
		}
		t.RotateY = v[0]
	case "scale":
		v, err := numbers(2)
		if err != nil {
			return err
		}
		t.ScaleX, t.ScaleY = v[0], v[0]
		if len(v) > 1 {
			t.ScaleY = v[1]
		}
	case "scalex":
		v, err := numbers(1)
		if err != nil {
			return err
		}
		t.ScaleX = v[0]
	case "scaley":
		v, err := numbers(1)
		if err != nil {
			return err
		}
		t.ScaleY = v[0]
	case "skew":
		v, err := angles(2)
		if err != nil {
			return err
		}
		t.SkewX = v[0]
		if len(v) > 1 {
			t.SkewY = v[1]
		}
	case "skewx":
		v, err := angles(1)
		if err != nil {
			return err
		}
		t.SkewX = v[0]
	case "skewy":
		v, err := angles(1)
		if err != nil {
			return err
		}
		t.SkewY = v[0]
	default:
		return errBadArgs
	}
	return nil
}

var errBadArgs = &errors.ParseError{Want: "transform function"}

// splitCall splits "name(a, b)" into name and trimmed arguments.
func splitCall(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(s[:open])
	body := strings.TrimSpace(s[open+1 : len(s)-1])
	if body == "" {
		return name, nil, true
	}
	parts := strings.Split(body, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return name, parts, true
}
