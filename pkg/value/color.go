package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/motion/pkg/errors"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an sRGB color with straight alpha in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

// RGBA returns an opaque-or-translucent color from 8-bit channels.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, A: a}
}

// Hex parses a #rgb, #rrggbb or #rrggbbaa color.
func Hex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, &errors.ParseError{Input: s, Want: "color"}
		}
		return Color{Color: c, A: 1}, nil
	case 9:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, &errors.ParseError{Input: s, Want: "color"}
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, &errors.ParseError{Input: s, Want: "color"}
		}
		return Color{Color: c, A: float64(a) / 255}, nil
	}
	return Color{}, &errors.ParseError{Input: s, Want: "color"}
}

// Kind implements Value.
func (Color) Kind() Kind { return KindColor }

// String renders the color as #rrggbb when opaque and rgba() otherwise.
func (c Color) String() string {
	if c.A >= 1 {
		return c.Clamped().Hex()
	}
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatFloat(c.A))
}

// ParseColor parses a hex color, rgb()/rgba(), a CSS color name or
// "transparent".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return Hex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	case s == "transparent":
		return Color{A: 0}, nil
	}
	if named, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(named)
		return Color{Color: c, A: 1}, nil
	}
	return Color{}, &errors.ParseError{Input: s, Want: "color"}
}

func parseRGBFunc(s string) (Color, error) {
	name, args, ok := splitCall(s)
	if !ok || (name != "rgb" && name != "rgba") {
		return Color{}, &errors.ParseError{Input: s, Want: "color"}
	}
	if len(args) != 3 && len(args) != 4 {
		return Color{}, &errors.ParseError{Input: s, Want: "color"}
	}
	var ch [3]float64
	for i := range ch {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return Color{}, &errors.ParseError{Input: s, Want: "color"}
		}
		ch[i] = v / 255
	}
	alpha := 1.0
	if len(args) == 4 {
		a, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return Color{}, &errors.ParseError{Input: s, Want: "color"}
		}
		alpha = a
	}
	return Color{Color: colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped(), A: clamp01(alpha)}, nil
}

// ColorSpace selects the space colors are blended in.
type ColorSpace int

const (
	// SpaceRGB blends gamma-encoded sRGB channels, as browsers do.
	SpaceRGB ColorSpace = iota
	// SpaceLinearRGB blends linear-light channels.
	SpaceLinearRGB
	// SpaceLab blends in CIE L*a*b*.
	SpaceLab
	// SpaceHCL blends in polar L*a*b* along the shortest hue path.
	SpaceHCL
	// SpaceLuv blends in CIE L*u*v*.
	SpaceLuv
)

func (s ColorSpace) String() string {
	switch s {
	case SpaceLinearRGB:
		return "linear"
	case SpaceLab:
		return "lab"
	case SpaceHCL:
		return "hcl"
	case SpaceLuv:
		return "luv"
	default:
		return "rgb"
	}
}

// ParseColorSpace maps a name produced by String back to a ColorSpace.
// The empty string selects SpaceRGB.
func ParseColorSpace(name string) (ColorSpace, error) {
	switch strings.ToLower(name) {
	case "", "rgb", "srgb":
		return SpaceRGB, nil
	case "linear", "linearrgb":
		return SpaceLinearRGB, nil
	case "lab":
		return SpaceLab, nil
	case "hcl":
		return SpaceHCL, nil
	case "luv":
		return SpaceLuv, nil
	}
	return SpaceRGB, errors.New("value.ParseColorSpace", errors.KindConfig,
		fmt.Errorf("%w: unknown color space %q", errors.ErrInvalidConfig, name))
}

// Blend mixes a and b at t in space s. Alpha is always blended linearly.
func (s ColorSpace) Blend(a, b Color, t float64) Color {
	var c colorful.Color
	switch s {
	case SpaceLinearRGB:
		r1, g1, b1 := a.LinearRgb()
		r2, g2, b2 := b.LinearRgb()
		c = colorful.LinearRgb(Lerp(r1, r2, t), Lerp(g1, g2, t), Lerp(b1, b2, t))
	case SpaceLab:
		c = a.BlendLab(b.Color, t)
	case SpaceHCL:
		c = a.BlendHcl(b.Color, t)
	case SpaceLuv:
		c = a.BlendLuv(b.Color, t)
	default:
		c = a.BlendRgb(b.Color, t)
	}
	if !c.IsValid() {
		c = c.Clamped()
	}
	return Color{Color: c, A: Lerp(a.A, b.A, t)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
