package minimap

import (
	"fmt"
	"math"
	"strings"
)

// Easing maps normalised primary zoom in [0, 1] onto [0, 1]. Every easing fixes
// both endpoints.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Log eases quickly at first: log(1+k·t) / log(1+k).
func Log(k float64) Easing {
	if k <= 0 {
		k = 9
	}
	d := math.Log1p(k)
	return func(t float64) float64 { return math.Log1p(k*t) / d }
}

// Pow is t^p.
func Pow(p float64) Easing {
	if p <= 0 {
		p = 2
	}
	return func(t float64) float64 { return math.Pow(t, p) }
}

// ParseEasing resolves a configured easing name. param feeds the log base and
// pow exponent and is ignored by the others.
func ParseEasing(name string, param float64) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "ease-out-quad", "easeoutquad":
		return EaseOutQuad, nil
	case "ease-in-out-cubic", "easeinoutcubic":
		return EaseInOutCubic, nil
	case "log":
		return Log(param), nil
	case "pow":
		return Pow(param), nil
	default:
		return nil, fmt.Errorf("minimap: unknown easing %q", name)
	}
}
