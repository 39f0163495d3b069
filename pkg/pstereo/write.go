package pstereo

// A couple of helper routines for persisting results

import(
	"fmt"
	"image"
	"image/png"
	"os"
)

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// SaveNormalMap colorizes a normal field and writes it out as a PNG.
func SaveNormalMap(nf *NormalField, colorize ColorizerFunc, filename string) error {
	return WritePNG(colorize(nf).ToImage(), filename)
}
