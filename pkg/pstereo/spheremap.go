package pstereo

import "math"

// GenerateSphereNormals returns the normal field of the front hemisphere
// of a unit sphere, sampled on a d x d grid over [-1,1]x[-1,1]. The y axis
// is negated so the sphere reads the right way up in raster order. Grid
// points outside the sphere get the zero vector.
//
// This is a diagnostic, not part of reconstruction: it gives the
// colorizers a reference input with a known answer. The center pixel is
// (0,0,1), which ColorizeComponents must turn into (0.5, 0.5, 1.0).
func GenerateSphereNormals(d int) *NormalField {
	nf := NewNormalField(d, d)
	for j:=0; j<d; j++ {
		for i:=0; i<d; i++ {
			x := linspace(i, d)
			y := -linspace(j, d)
			zsq := 1 - x*x - y*y
			if zsq < 0 {
				continue
			}
			nf.Set(i, j, x, y, math.Sqrt(zsq))
		}
	}
	return nf
}

// linspace maps index i of d evenly spaced samples onto [-1,1].
func linspace(i, d int) float64 {
	if d < 2 {
		return 0
	}
	return -1.0 + 2.0*float64(i)/float64(d-1)
}
