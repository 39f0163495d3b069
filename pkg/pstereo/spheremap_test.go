package pstereo

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereCenterFacesViewer(t *testing.T) {
	d := 101
	nf := GenerateSphereNormals(d)

	nx, ny, nz := nf.At(d/2, d/2)
	require.InDelta(t, 0.0, nx, 1e-12)
	require.InDelta(t, 0.0, ny, 1e-12)
	require.InDelta(t, 1.0, nz, 1e-12)
}

func TestSphereCornersAreInvalid(t *testing.T) {
	d := 50
	nf := GenerateSphereNormals(d)

	for _, pt := range [][2]int{{0, 0}, {d - 1, 0}, {0, d - 1}, {d - 1, d - 1}} {
		nx, ny, nz := nf.At(pt[0], pt[1])
		assert.Zero(t, nx)
		assert.Zero(t, ny)
		assert.Zero(t, nz)
	}
}

func TestSphereNormalsAreUnitOrZero(t *testing.T) {
	d := 33
	nf := GenerateSphereNormals(d)

	for y:=0; y<d; y++ {
		for x:=0; x<d; x++ {
			nx, ny, nz := nf.At(x, y)
			norm := math.Sqrt(nx*nx + ny*ny + nz*nz)
			if norm != 0 {
				assert.InDelta(t, 1.0, norm, 1e-12)
			}
		}
	}
}

func TestSphereYAxisPointsUp(t *testing.T) {
	// raster y grows downward, so a pixel above the center must have a
	// normal tilted toward +y
	d := 101
	nf := GenerateSphereNormals(d)

	_, ny, _ := nf.At(d/2, d/4)
	assert.Greater(t, ny, 0.0)

	_, ny, _ = nf.At(d/2, 3*d/4)
	assert.Less(t, ny, 0.0)
}
