package pstereo

import(
	"log"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Verbosity  int

	Solver     string  // which reconstruction to run
	Colorizer  string  // how to render the normals

	OutputFile string
	CacheDir   string  // empty means no result caching
	MapSize    int     // resolution of the -generatemap sphere
}

func NewConfig() Config {
	return Config{
		Solver:     "calibrated",
		Colorizer:  "components",
		OutputFile: "normals.png",
		MapSize:    600,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)GetSolver() SolverFunc {
	switch c.Solver {
	case "calibrated":   return SolveStackCalibrated
	case "uncalibrated": return SolveStackUncalibrated
	default:
		log.Fatalf("no solver named '%s'", c.Solver)
		return nil
	}
}

func (c Config)GetColorizer() ColorizerFunc {
	switch c.Colorizer {
	case "components": return ColorizeComponents
	case "hue":        return ColorizeHue
	default:
		log.Fatalf("no colorizer named '%s'", c.Colorizer)
		return nil
	}
}
