package reveal

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Prop names an animatable property.
type Prop string

const (
	Opacity Prop = "opacity"
	X       Prop = "x"
	Y       Prop = "y"
	Scale   Prop = "scale"
	RotateY Prop = "rotateY"
)

// Style is what a target renders. X and Y are pixel offsets, RotateY is in
// degrees.
type Style struct {
	Opacity float64 `json:"opacity"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	RotateY float64 `json:"rotateY"`
}

// Rest is the resting state every reveal ends in.
var Rest = Style{Opacity: 1, Scale: 1}

// Props is a partial style, the starting values of a reveal.
type Props map[Prop]float64

func (p Props) validate() error {
	for k := range p {
		switch k {
		case Opacity, X, Y, Scale, RotateY:
		default:
			return fmt.Errorf("unknown property %q", k)
		}
	}
	return nil
}

// over returns s with p applied on top.
func (p Props) over(s Style) Style {
	for k, v := range p {
		switch k {
		case Opacity:
			s.Opacity = v
		case X:
			s.X = v
		case Y:
			s.Y = v
		case Scale:
			s.Scale = v
		case RotateY:
			s.RotateY = v
		}
	}
	return s
}

// lerp mixes from and to; t=0 is from.
func lerp(from, to Style, t float64) Style {
	mix := func(a, b float64) float64 { return a + (b-a)*t }
	return Style{
		Opacity: mix(from.Opacity, to.Opacity),
		X:       mix(from.X, to.X),
		Y:       mix(from.Y, to.Y),
		Scale:   mix(from.Scale, to.Scale),
		RotateY: mix(from.RotateY, to.RotateY),
	}
}

var eases = map[string]ease.TweenFunc{
	"none":   ease.Linear,
	"linear": ease.Linear,

	"power1.in":    ease.InQuad,
	"power1.out":   ease.OutQuad,
	"power1.inOut": ease.InOutQuad,
	"power2.in":    ease.InCubic,
	"power2.out":   ease.OutCubic,
	"power2.inOut": ease.InOutCubic,
	"power3.in":    ease.InQuart,
	"power3.out":   ease.OutQuart,
	"power3.inOut": ease.InOutQuart,
	"power4.in":    ease.InQuint,
	"power4.out":   ease.OutQuint,
	"power4.inOut": ease.InOutQuint,

	"sine.in":    ease.InSine,
	"sine.out":   ease.OutSine,
	"sine.inOut": ease.InOutSine,
	"expo.out":   ease.OutExpo,
	"circ.out":   ease.OutCirc,
	"back.out":   ease.OutBack,

	"elastic.out": ease.OutElastic,
	"bounce.out":  ease.OutBounce,
}

// Ease resolves an easing name such as "power3.out". "power3" alone means
// the out variant.
func Ease(name string) (ease.TweenFunc, error) {
	if name == "" {
		name = DefaultEase
	}
	fn, ok := eases[name]
	if !ok && !strings.Contains(name, ".") {
		fn, ok = eases[name+".out"]
	}
	if !ok {
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	return fn, nil
}
