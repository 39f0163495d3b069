package pstereo

import(
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

func (s *Stack)LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default: // is a file, load it
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

func (s *Stack)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".png":
		img, err := loadPNG(filename)
		if err != nil {
			return fmt.Errorf("loading %s as PNG failed: %v", filename, err)
		}
		return s.AddLayer(Layer{LoadFilename: filename, Grid: toIntensityGrid(img)})

	case ".tif", ".tiff":
		layer, err := loadTIFF(filename, s.Verbosity)
		if err != nil {
			return fmt.Errorf("loading %s as TIFF failed: %v", filename, err)
		}
		return s.AddLayer(layer)

	case ".hdr":
		grid, err := loadHDR(filename)
		if err != nil {
			return fmt.Errorf("loading %s as RGBE failed: %v", filename, err)
		}
		return s.AddLayer(Layer{LoadFilename: filename, Grid: grid})

	case ".json":
		lights, err := loadLighting(filename)
		if err != nil {
			return fmt.Errorf("loading %s as lighting JSON failed: %v", filename, err)
		}
		s.Lights = lights
		s.applyLighting()
		log.Printf("Loaded lighting data for %d images from %s\n", len(lights), filename)

	case ".yaml":
		contents, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("config read %s: %v", filename, err)
		}
		cfg, err := newConfigFromYaml(contents)
		if err != nil {
			return fmt.Errorf("loading %s as config YAML failed: %v", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

// loadLighting reads the lighting file: a JSON object mapping image
// basename to a 3-component light direction.
func loadLighting(filename string) (map[string][3]float64, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("lighting read %s: %v", filename, err)
	}

	raw := map[string][]float64{}
	if err := json.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("lighting parse %s: %v", filename, err)
	}

	lights := map[string][3]float64{}
	for name, vec := range raw {
		if len(vec) != 3 {
			return nil, fmt.Errorf("lighting %s: '%s' has %d components, want 3", filename, name, len(vec))
		}
		lights[filepath.Base(name)] = [3]float64{vec[0], vec[1], vec[2]}
	}
	return lights, nil
}

func loadPNG(filename string) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()
	return png.Decode(reader)
}

func loadTIFF(filename string, verbosity int) (Layer, error) {
	l := Layer{LoadFilename: filename}

	// EXIF first: the exposure triple lets us warn when the stack mixes
	// exposures. Not all TIFFs carry EXIF, so failure here is non-fatal.
	if reader, err := os.Open(filename); err != nil {
		return l, fmt.Errorf("open+r exif '%s': %v", filename, err)
	} else if ex, err := exif.Decode(reader); err != nil {
		if verbosity > 0 {
			log.Printf("no exif in %s: %v\n", filename, err)
		}
	} else {
		l.Exposure = exposureString(ex)
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return l, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else if img, err := tiff.Decode(reader); err != nil {
		return l, fmt.Errorf("tiff loading '%s': %v", filename, err)
	} else {
		l.Grid = toIntensityGrid(img)
	}

	return l, nil
}

// exposureString condenses the EXIF exposure triple into a comparable
// string, e.g. "ISO800 f56/10 1/250".
func exposureString(ex *exif.Exif) string {
	iso := int64(0)
	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		iso, _ = tag.Int64(0)
	}

	fnum, fden := int64(0), int64(1)
	if tag, err := ex.Get(exif.FNumber); err == nil {
		fnum, fden, _ = tag.Rat2(0)
	}

	ssnum, ssden := int64(0), int64(1)
	if tag, err := ex.Get(exif.ExposureTime); err == nil {
		ssnum, ssden, _ = tag.Rat2(0)
	}

	return fmt.Sprintf("ISO%d f%d/%d %d/%ds", iso, fnum, fden, ssnum, ssden)
}

// loadHDR decodes a Radiance RGBE file to a luminance grid. HDR input is
// the best case for a Lambertian model: the pixel values are linear
// radiance, with no display gamma baked in.
func loadHDR(filename string) (pmath.FloatGrid, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return pmath.FloatGrid{}, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := rgbe.Decode(reader)
	if err != nil {
		return pmath.FloatGrid{}, fmt.Errorf("rgbe decode '%s': %v", filename, err)
	}

	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return pmath.FloatGrid{}, fmt.Errorf("rgbe decode '%s': not an HDR image", filename)
	}

	b := hdrImg.Bounds()
	grid := pmath.NewFloatGrid(b.Dx(), b.Dy())
	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			_, lum, _, _ := hdrImg.HDRAt(x+b.Min.X, y+b.Min.Y).HDRXYZA()
			grid.Set(x, y, lum)
		}
	}
	return grid, nil
}

// toIntensityGrid flattens an LDR image to grayscale intensity in [0,1],
// using Rec.709 luma weights.
func toIntensityGrid(img image.Image) pmath.FloatGrid {
	b := img.Bounds()
	grid := pmath.NewFloatGrid(b.Dx(), b.Dy())
	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bb, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			lum := (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bb)) / 65535.0
			grid.Set(x, y, lum)
		}
	}
	return grid
}
