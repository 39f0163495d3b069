package pstereo

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleVectorField(nx, ny, nz float64) *NormalField {
	nf := NewNormalField(1, 1)
	nf.Set(0, 0, nx, ny, nz)
	return nf
}

func TestColorizeComponentsScaleInvariant(t *testing.T) {
	for _, k := range []float64{0.001, 0.5, 1, 42} {
		a := ColorizeComponents(singleVectorField(1, 2, 3))
		b := ColorizeComponents(singleVectorField(k*1, k*2, k*3))

		ar, ag, ab := a.At(0, 0)
		br, bg, bb := b.At(0, 0)
		assert.InDelta(t, ar, br, 1e-12, "k=%f", k)
		assert.InDelta(t, ag, bg, 1e-12, "k=%f", k)
		assert.InDelta(t, ab, bb, 1e-12, "k=%f", k)
	}
}

func TestColorizeComponentsZeroVector(t *testing.T) {
	cf := ColorizeComponents(singleVectorField(0, 0, 0))
	r, g, b := cf.At(0, 0)
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.False(t, math.IsNaN(r))
}

func TestColorizeComponentsRange(t *testing.T) {
	nf := GenerateSphereNormals(21)
	cf := ColorizeComponents(nf)
	for _, v := range cf.Vals {
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestColorizeComponentsDoesNotMutateInput(t *testing.T) {
	nf := singleVectorField(3, 4, 0)
	ColorizeComponents(nf)
	nx, ny, nz := nf.At(0, 0)
	assert.Equal(t, 3.0, nx)
	assert.Equal(t, 4.0, ny)
	assert.Equal(t, 0.0, nz)
}

func TestColorizeSphereCenter(t *testing.T) {
	d := 101
	nf := GenerateSphereNormals(d)
	cf := ColorizeComponents(nf)

	r, g, b := cf.At(d/2, d/2)
	require.InDelta(t, 0.5, r, 1e-12)
	require.InDelta(t, 0.5, g, 1e-12)
	require.InDelta(t, 1.0, b, 1e-12)
}

func TestColorizeHue(t *testing.T) {
	// zero stays black
	cf := ColorizeHue(singleVectorField(0, 0, 0))
	r, g, b := cf.At(0, 0)
	assert.Zero(t, r+g+b)

	// the center of the sphere faces the viewer: zero saturation, so all
	// channels equal
	cf = ColorizeHue(singleVectorField(0, 0, 1))
	r, g, b = cf.At(0, 0)
	assert.InDelta(t, r, g, 1e-12)
	assert.InDelta(t, g, b, 1e-12)

	// scale invariant too
	a := ColorizeHue(singleVectorField(1, 1, 0.5))
	c := ColorizeHue(singleVectorField(7, 7, 3.5))
	ar, ag, ab := a.At(0, 0)
	cr, cg, cb := c.At(0, 0)
	assert.InDelta(t, ar, cr, 1e-12)
	assert.InDelta(t, ag, cg, 1e-12)
	assert.InDelta(t, ab, cb, 1e-12)
}

func TestColorFieldToImage(t *testing.T) {
	cf := NewColorField(2, 1)
	cf.Set(0, 0, 0, 0.5, 1)
	cf.Set(1, 0, 1, 0, 0)

	img := cf.ToImage()
	require.Equal(t, 2, img.Bounds().Dx())

	c := img.RGBA64At(0, 0)
	assert.Equal(t, uint16(0), c.R)
	assert.InDelta(t, 32767, int(c.G), 1)
	assert.Equal(t, uint16(65535), c.B)
	assert.Equal(t, uint16(65535), c.A)
}
