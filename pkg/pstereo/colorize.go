package pstereo

import(
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

// A ColorField is a raster of RGB triples in [0,1], raster order per
// pmath.FlatIndex. It is what a NormalField looks like once colorized,
// ready for a sink to encode.
type ColorField struct {
	Width  int
	Height int
	Vals   []float64
}

func NewColorField(w, h int) *ColorField {
	return &ColorField{
		Width:  w,
		Height: h,
		Vals:   make([]float64, w*h*3),
	}
}

func (cf *ColorField)At(x, y int) (float64, float64, float64) {
	i := pmath.FlatIndex(x, y, cf.Width) * 3
	return cf.Vals[i], cf.Vals[i+1], cf.Vals[i+2]
}

func (cf *ColorField)Set(x, y int, r, g, b float64) {
	i := pmath.FlatIndex(x, y, cf.Width) * 3
	cf.Vals[i], cf.Vals[i+1], cf.Vals[i+2] = r, g, b
}

// A ColorizerFunc maps a normal field to a displayable color field. These
// are pure functions; they never touch the input.
type ColorizerFunc func(*NormalField) *ColorField

// ColorizeComponents maps each normal component from [-1,1] to [0,1], the
// classic lilac-blue normal-map look. Vectors are normalized first, so the
// result only depends on direction; zero vectors stay exactly zero rather
// than dividing by their own norm.
func ColorizeComponents(nf *NormalField) *ColorField {
	cf := NewColorField(nf.Width, nf.Height)
	for y:=0; y<nf.Height; y++ {
		for x:=0; x<nf.Width; x++ {
			nx, ny, nz := normalizeOrZero(nf.At(x, y))
			if nx == 0 && ny == 0 && nz == 0 {
				continue
			}
			cf.Set(x, y, (nx+1)/2, (ny+1)/2, (nz+1)/2)
		}
	}
	return cf
}

// ColorizeHue maps the normal's azimuth to hue and its tilt away from the
// viewer to saturation, with brightness following the z component. Handy
// when the component mapping makes two nearby orientations hard to tell
// apart. Zero vectors come out black.
func ColorizeHue(nf *NormalField) *ColorField {
	cf := NewColorField(nf.Width, nf.Height)
	for y:=0; y<nf.Height; y++ {
		for x:=0; x<nf.Width; x++ {
			nx, ny, nz := normalizeOrZero(nf.At(x, y))
			if nx == 0 && ny == 0 && nz == 0 {
				continue
			}

			hue := math.Atan2(ny, nx) * 180.0 / math.Pi
			if hue < 0 {
				hue += 360.0
			}
			sat := math.Sqrt(nx*nx + ny*ny) // in-plane magnitude: 0 facing the viewer
			val := (nz + 1) / 2

			c := colorful.Hsv(hue, sat, val)
			cf.Set(x, y, c.R, c.G, c.B)
		}
	}
	return cf
}

// ToImage renders the color field as a 16-bit RGBA image.
func (cf *ColorField)ToImage() *image.RGBA64 {
	img := image.NewRGBA64(image.Rectangle{Max: image.Point{cf.Width, cf.Height}})
	for y:=0; y<cf.Height; y++ {
		for x:=0; x<cf.Width; x++ {
			r, g, b := cf.At(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(clamp01(r) * 65535.0),
				G: uint16(clamp01(g) * 65535.0),
				B: uint16(clamp01(b) * 65535.0),
				A: 0xFFFF,
			})
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 { return 0 }
	if v > 1 { return 1 }
	return v
}
