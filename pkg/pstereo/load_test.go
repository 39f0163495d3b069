package pstereo

import(
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewGray(image.Rectangle{Max: image.Point{w, h}})
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(255 * x / w)})
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, WritePNG(img, path))
	return path
}

func TestLoadPNGLayer(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a.png", 4, 3)

	s := NewStack()
	require.NoError(t, s.LoadFilesAndDirs(path))
	require.Len(t, s.Layers, 1)

	l := s.Layers[0]
	assert.Equal(t, "a.png", l.Filename())
	assert.Equal(t, 4, l.Grid.Dx())
	assert.Equal(t, 3, l.Grid.Dy())

	// intensity grows with x, normalized to [0,1]
	assert.Equal(t, 0.0, l.Grid.Get(0, 0))
	assert.Greater(t, l.Grid.Get(3, 0), l.Grid.Get(1, 0))
	assert.LessOrEqual(t, l.Grid.Get(3, 0), 1.0)
}

func TestLoadDirRecursesAndRejectsMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 4, 3)
	writeTestPNG(t, dir, "b.png", 5, 3)

	s := NewStack()
	err := s.LoadFilesAndDirs(dir)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestLoadLightingJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.json")
	contents := `{"a.png": [0, 0, 1], "shots/b.png": [0.5, 0.5, 0.7071]}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	s := NewStack()
	require.NoError(t, s.LoadFilesAndDirs(path))

	require.Len(t, s.Lights, 2)
	assert.Equal(t, [3]float64{0, 0, 1}, s.Lights["a.png"])
	// keys reduce to basenames
	assert.Equal(t, 0.5, s.Lights["b.png"][0])
}

func TestLoadLightingJSONRejectsBadVector(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a.png": [0, 1]}`), 0644))

	s := NewStack()
	err := s.LoadFilesAndDirs(path)
	require.Error(t, err)
}

func TestLoadYamlConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver: uncalibrated\nverbosity: 2\n"), 0644))

	s := NewStack()
	require.NoError(t, s.LoadFilesAndDirs(path))
	assert.Equal(t, "uncalibrated", s.Config.Solver)
	assert.Equal(t, 2, s.Config.Verbosity)
	// untouched fields keep their defaults
	assert.Equal(t, "components", s.Config.Colorizer)
}

func TestLightingAppliedToLayersInEitherOrder(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestPNG(t, dir, "a.png", 2, 2)
	jsonPath := filepath.Join(dir, "lights.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"a.png": [0, 0, 1]}`), 0644))

	// image first, lighting second
	s := NewStack()
	require.NoError(t, s.LoadFilesAndDirs(imgPath, jsonPath))
	require.True(t, s.Layers[0].HasLight)

	// lighting first, image second
	s = NewStack()
	require.NoError(t, s.LoadFilesAndDirs(jsonPath, imgPath))
	require.True(t, s.Layers[0].HasLight)
	assert.Equal(t, [3]float64{0, 0, 1}, s.Layers[0].Light)
}
