package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// RichnessField maps world positions to producer richness in [floor, 1].
// Producers draw energy proportional to local richness, so the noise field
// shapes where plant populations thrive and where grazers follow.
type RichnessField struct {
	noise opensimplex.Noise
	scale float64
	floor float64
}

// NewRichnessField creates a seeded richness field. Scale is the noise
// frequency; floor is the minimum richness anywhere in the world.
func NewRichnessField(seed int64, scale, floor float64) *RichnessField {
	if scale <= 0 {
		scale = 0.004
	}
	if floor < 0 {
		floor = 0
	} else if floor > 1 {
		floor = 1
	}
	return &RichnessField{
		noise: opensimplex.NewNormalized(seed),
		scale: scale,
		floor: floor,
	}
}

// Sample returns the richness at a world position.
func (f *RichnessField) Sample(x, y float64) float64 {
	n := f.noise.Eval2(x*f.scale, y*f.scale)
	return f.floor + (1-f.floor)*n
}
