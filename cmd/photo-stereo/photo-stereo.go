package main

import(
	"flag"
	"log"

	"github.com/jmorel/photo-stereo/pkg/pstereo"
)

var(
	fVerbosity int
	fSolver string
	fColorizer string
	fOutputFile string
	fCacheDir string
	fGenerateMap bool
	fMapSize int
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")

	flag.StringVar(&fSolver, "solver", "calibrated", "how to reconstruct normals: calibrated (needs a lighting JSON) or uncalibrated")
	flag.StringVar(&fColorizer, "colorizer", "components", "how to render the normals: components or hue")
	flag.StringVar(&fOutputFile, "o", "normals.png", "where to write the colorized normal map")
	flag.StringVar(&fCacheDir, "cachedir", "", "cache computed normal fields here (empty disables caching)")

	flag.BoolVar(&fGenerateMap, "generatemap", false, "just write the reference sphere normal map and exit")
	flag.IntVar(&fMapSize, "mapsize", 600, "resolution of the -generatemap sphere")
	flag.Parse()

	log.Printf("photo-stereo starting\n")
}

func main() {
	s := pstereo.NewStack()
	if err := s.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}

	s.Config.Verbosity = fVerbosity
	s.Config.Solver = fSolver
	s.Config.Colorizer = fColorizer
	s.Config.OutputFile = fOutputFile
	s.Config.CacheDir = fCacheDir
	s.Config.MapSize = fMapSize

	if s.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", s.Config.AsYaml())
	}

	if fGenerateMap {
		nf := pstereo.GenerateSphereNormals(s.Config.MapSize)
		if err := pstereo.SaveNormalMap(nf, s.Config.GetColorizer(), s.Config.OutputFile); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote reference sphere map to %s", s.Config.OutputFile)
		return
	}

	if len(s.Layers) == 0 {
		log.Fatal("no input images; pass image files (and a lighting JSON for -solver=calibrated)")
	}

	var cache pstereo.ResultCache
	if s.Config.CacheDir != "" {
		cache = pstereo.NewFileCache(s.Config.CacheDir)
	}

	nf, err := s.Solve(cache)
	if err != nil {
		log.Fatal(err)
	}

	if err := pstereo.SaveNormalMap(nf, s.Config.GetColorizer(), s.Config.OutputFile); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote normal map to %s", s.Config.OutputFile)
}
