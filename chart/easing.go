package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// Easing maps linear progress in [0, 1] to eased progress.
// Overshooting curves (back, bounce) may leave [0, 1]; the engine clamps values
// to the series range afterwards.
type Easing func(t float64) float64

var defaultEasing Easing = ease.Linear

var easings = map[string]Easing{
	"linear":      ease.Linear,
	"inquad":      ease.InQuad,
	"outquad":     ease.OutQuad,
	"inoutquad":   ease.InOutQuad,
	"incubic":     ease.InCubic,
	"outcubic":    ease.OutCubic,
	"inoutcubic":  ease.InOutCubic,
	"inquart":     ease.InQuart,
	"outquart":    ease.OutQuart,
	"inoutquart":  ease.InOutQuart,
	"insine":      ease.InSine,
	"outsine":     ease.OutSine,
	"inoutsine":   ease.InOutSine,
	"inexpo":      ease.InExpo,
	"outexpo":     ease.OutExpo,
	"inoutexpo":   ease.InOutExpo,
	"incirc":      ease.InCirc,
	"outcirc":     ease.OutCirc,
	"inoutcirc":   ease.InOutCirc,
	"inback":      ease.InBack,
	"outback":     ease.OutBack,
	"inoutback":   ease.InOutBack,
	"inbounce":    ease.InBounce,
	"outbounce":   ease.OutBounce,
	"inoutbounce": ease.InOutBounce,
}

// Aliases for the interpolator names used by markup-driven configs.
var easingAliases = map[string]string{
	"accelerate":           "inquad",
	"decelerate":           "outquad",
	"acceleratedecelerate": "inoutsine",
	"overshoot":            "outback",
	"anticipate":           "inback",
	"bounce":               "outbounce",
}

// EasingByName looks up an easing function. Names are case-insensitive and
// ignore '-' and '_', so "in-out-quad", "InOutQuad" and "in_out_quad" all match.
func EasingByName(name string) (Easing, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	if key == "" {
		return ease.Linear, nil
	}
	if alias, ok := easingAliases[key]; ok {
		key = alias
	}
	e, ok := easings[key]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return e, nil
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
