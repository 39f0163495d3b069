package pstereo

import(
	"fmt"
	"path/filepath"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

// A Layer holds the intensity grid loaded from one input photo, plus the
// light direction for that photo once the lighting file has been applied.
type Layer struct {
	LoadFilename string
	Grid         pmath.FloatGrid

	Light    [3]float64 // Direction of the light when this photo was taken
	HasLight bool

	// EXIF exposure triple, when the file carried one. Photometric stereo
	// assumes the only thing changing between photos is the light, so a
	// stack mixing exposures is suspect.
	Exposure string
}

func (l Layer)Filename() string {
	return filepath.Base(l.LoadFilename)
}

func (l Layer)String() string {
	light := "no light"
	if l.HasLight {
		light = fmt.Sprintf("light[%.3f, %.3f, %.3f]", l.Light[0], l.Light[1], l.Light[2])
	}
	exp := l.Exposure
	if exp == "" {
		exp = "no exif"
	}
	return fmt.Sprintf("%s: %dx%d, %s, %s", l.Filename(), l.Grid.Dx(), l.Grid.Dy(), light, exp)
}
