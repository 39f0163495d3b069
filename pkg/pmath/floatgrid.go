package pmath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// A FloatGrid is a 2D grid of floats, with some operations. It stores the
// grid row-major, so Flatten() agrees with FlatIndex.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[FlatIndex(x, y, fg.stride)] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[FlatIndex(x, y, fg.stride)] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int                 { return len(fg.values) / fg.stride }

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Flatten returns a copy of the grid as a flat pixel vector, in FlatIndex
// order.
func (fg *FloatGrid)Flatten() []float64 {
	out := make([]float64, len(fg.values))
	copy(out, fg.values)
	return out
}

// NewFloatGridFromFlat is the inverse of Flatten.
func NewFloatGridFromFlat(w, h int, vals []float64) FloatGrid {
	fg := NewFloatGrid(w, h)
	copy(fg.values, vals)
	return fg
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid,
// with a title drawn in the corner.
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max := fg.MinMax()
	spread := max - min
	if spread == 0 {
		spread = 1
	}

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := (fg.Get(x, y) - min) / spread
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 20, 20)
	return dc.SavePNG(filename)
}
