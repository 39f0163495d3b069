package pstereo

import(
	"fmt"
	"log"

	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/mat"
)

// A Stack holds the input photos of one scene under different lights,
// plus whatever lighting data has been loaded. One reconstruction run
// consumes one Stack; nothing here is shared or mutated after loading.
type Stack struct {
	Layers []Layer
	Lights map[string][3]float64 // keyed by image basename
	Config
}

// A SolverFunc runs one of the reconstruction algorithms over a loaded
// stack.
type SolverFunc func(*Stack) (*NormalField, error)

func NewStack() *Stack {
	return &Stack{
		Layers: []Layer{},
		Lights: map[string][3]float64{},
		Config: NewConfig(),
	}
}

func (s *Stack)String() string {
	str := fmt.Sprintf("Stack %dx%d [\n", s.Width(), s.Height())
	for _, l := range s.Layers {
		str += fmt.Sprintf("  %s\n", l)
	}
	return str + "]\n"
}

func (s *Stack)Width() int {
	if len(s.Layers) == 0 {
		return 0
	}
	return s.Layers[0].Grid.Dx()
}

func (s *Stack)Height() int {
	if len(s.Layers) == 0 {
		return 0
	}
	return s.Layers[0].Grid.Dy()
}

// AddLayer appends a photo to the stack. Every photo must share the
// dimensions of the first one.
func (s *Stack)AddLayer(l Layer) error {
	if len(s.Layers) > 0 {
		if l.Grid.Dx() != s.Width() || l.Grid.Dy() != s.Height() {
			return fmt.Errorf("%w: %s is %dx%d, stack is %dx%d",
				ErrDimensionMismatch, l.Filename(), l.Grid.Dx(), l.Grid.Dy(), s.Width(), s.Height())
		}
	}
	s.Layers = append(s.Layers, l)
	s.applyLighting()
	return nil
}

// applyLighting copies loaded light directions onto the layers they
// belong to. Called whenever either side changes; layers a calibrated
// solve cannot use simply stay HasLight=false until (unless) lighting
// data covering them arrives.
func (s *Stack)applyLighting() {
	for i := range s.Layers {
		if light, exists := s.Lights[s.Layers[i].Filename()]; exists {
			s.Layers[i].Light = light
			s.Layers[i].HasLight = true
		}
	}
}

// IntensityMatrix builds the n x p matrix the solvers consume: row i is
// layer i flattened per pmath.FlatIndex.
func (s *Stack)IntensityMatrix() *mat.Dense {
	n := len(s.Layers)
	p := s.Width() * s.Height()
	m := mat.NewDense(n, p, nil)
	for i, l := range s.Layers {
		m.SetRow(i, l.Grid.Flatten())
	}
	return m
}

// LightingMatrix builds the n x 3 matrix of light directions, in the same
// row order as IntensityMatrix. Every layer must be covered by the loaded
// lighting data.
func (s *Stack)LightingMatrix() (*mat.Dense, error) {
	n := len(s.Layers)
	m := mat.NewDense(n, 3, nil)
	for i, l := range s.Layers {
		if !l.HasLight {
			return nil, fmt.Errorf("%w: %s", ErrMissingLightingData, l.Filename())
		}
		m.SetRow(i, []float64{l.Light[0], l.Light[1], l.Light[2]})
	}
	return m, nil
}

// checkExposureConsistency warns when the stack mixes exposure settings;
// the model assumes the light direction is the only thing changing
// between photos.
func (s *Stack)checkExposureConsistency() {
	seen := map[string]bool{}
	for _, l := range s.Layers {
		if l.Exposure != "" {
			seen[l.Exposure] = true
		}
	}
	if len(seen) > 1 {
		log.Printf("WARNING: stack mixes %d different exposure settings; intensities will not be comparable", len(seen))
		for _, l := range s.Layers {
			log.Printf("  %s\n", l)
		}
	}
}

// Solve runs the configured solver, consulting the cache first when one
// is supplied. A solver failure is always surfaced; it is never papered
// over with a stale cached result.
func (s *Stack)Solve(cache ResultCache) (*NormalField, error) {
	s.checkExposureConsistency()

	key := s.CacheKey()
	if cache != nil {
		if nf, hit := cache.Lookup(key); hit {
			log.Printf("Reusing cached normal field for this input set")
			return nf, nil
		}
	}

	solver := s.Config.GetSolver()
	nf, err := solver(s)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Store(key, nf); err != nil {
			log.Printf("could not cache result: %v\n", err)
		}
	}
	return nf, nil
}

// SolveStackCalibrated runs the known-lights reconstruction over the
// stack.
func SolveStackCalibrated(s *Stack) (*NormalField, error) {
	log.Printf("Solving calibrated photometric stereo over %d layers", len(s.Layers))

	lights, err := s.LightingMatrix()
	if err != nil {
		return nil, err
	}

	nf, albedo, err := SolveCalibrated(lights, s.IntensityMatrix(), s.Width(), s.Height())
	if err != nil {
		return nil, err
	}

	if s.Verbosity > 0 {
		logAlbedoHistogram(albedo.Flatten())
	}
	if s.Verbosity > 1 {
		if err := albedo.ToImg("albedo", "albedo-debug.png"); err != nil {
			log.Printf("albedo debug image: %v\n", err)
		}
	}

	return nf, nil
}

// SolveStackUncalibrated runs the factorization reconstruction; no
// lighting file needed.
func SolveStackUncalibrated(s *Stack) (*NormalField, error) {
	log.Printf("Solving uncalibrated photometric stereo over %d layers", len(s.Layers))

	nf, sig, err := SolveUncalibrated(s.IntensityMatrix(), s.Width(), s.Height())
	if err != nil {
		return nil, err
	}

	log.Printf("Ambiguity resolved via %s eigenvalue signature", sig)
	return nf, nil
}

func logAlbedoHistogram(rho []float64) {
	max := 0.0
	for _, v := range rho {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}

	h := histogram.Histogram{NumBuckets: 20, ValMin: 0, ValMax: 100}
	for _, v := range rho {
		if v > 0 {
			h.Add(histogram.ScalarVal(int(v / max * 100)))
		}
	}
	log.Printf("albedo distribution (%% of max): %v\n", h)
}
