package pstereo

import(
	"fmt"
	"math"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

// A NormalField holds one surface-orientation vector per pixel. Vectors
// are unit length wherever the pixel was valid, and exactly zero where it
// was not (shadowed, zero albedo, off the object). Storage is raster
// order per pmath.FlatIndex, 3 floats per pixel.
type NormalField struct {
	Width  int
	Height int
	Vecs   []float64
}

func NewNormalField(w, h int) *NormalField {
	return &NormalField{
		Width:  w,
		Height: h,
		Vecs:   make([]float64, w*h*3),
	}
}

func (nf *NormalField)At(x, y int) (float64, float64, float64) {
	i := pmath.FlatIndex(x, y, nf.Width) * 3
	return nf.Vecs[i], nf.Vecs[i+1], nf.Vecs[i+2]
}

func (nf *NormalField)Set(x, y int, nx, ny, nz float64) {
	i := pmath.FlatIndex(x, y, nf.Width) * 3
	nf.Vecs[i], nf.Vecs[i+1], nf.Vecs[i+2] = nx, ny, nz
}

func (nf *NormalField)String() string {
	return fmt.Sprintf("NormalField[%dx%d]", nf.Width, nf.Height)
}

// normalizeOrZero scales v to unit length, or returns the zero vector when
// its norm is zero.
func normalizeOrZero(nx, ny, nz float64) (float64, float64, float64) {
	n := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if n == 0 {
		return 0, 0, 0
	}
	return nx / n, ny / n, nz / n
}
