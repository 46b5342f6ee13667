package genome

import "math"

// RGB is a display color derived from a genome.
type RGB struct {
	R, G, B uint8
}

// Color derives a display color from trait values. Pure: equal genome and
// base hue inputs always produce equal colors. The archetype's base hue
// anchors the color family; hue-affecting traits shift within it.
func Color(g Genome, baseHue float64) RGB {
	// Speed and intelligence rotate the hue; size and resilience set
	// saturation and value. Absent traits read as the 0.5 midpoint so
	// archetypes without a trait stay at the family anchor.
	hue := baseHue + (g.Trait("speed")-0.5)*60 + (g.Trait("intelligence")-0.5)*40
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}

	sat := 0.4 + 0.5*g.Trait("resilience")
	val := 0.5 + 0.4*g.Trait("size")

	r, gr, b := hsvToRGB(hue, sat, val)
	return RGB{R: r, G: gr, B: b}
}

// hsvToRGB converts HSV to RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
