package pstereo

import(
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// A ResultCache can remember the normal field computed for a given input
// set. It is purely an optimization: a nil cache (or a cache that never
// hits) changes nothing about the results.
type ResultCache interface {
	Lookup(key string) (*NormalField, bool)
	Store(key string, nf *NormalField) error
}

// CacheKey fingerprints everything the solver's answer depends on: the
// solver name, and each layer's filename, light direction and pixel
// contents. Two stacks with the same key would reconstruct identically.
func (s *Stack)CacheKey() string {
	h := sha256.New()
	fmt.Fprintf(h, "solver=%s\n", s.Config.Solver)
	for _, l := range s.Layers {
		fmt.Fprintf(h, "layer=%s light=%v/%t\n", l.Filename(), l.Light, l.HasLight)
		for _, v := range l.Grid.Flatten() {
			binary.Write(h, binary.LittleEndian, math.Float64bits(v))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// FileCache stores gob-encoded normal fields under a directory, one file
// per key.
type FileCache struct {
	Dir string
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

func (fc *FileCache)path(key string) string {
	return filepath.Join(fc.Dir, key+".gob")
}

func (fc *FileCache)Lookup(key string) (*NormalField, bool) {
	reader, err := os.Open(fc.path(key))
	if err != nil {
		return nil, false
	}
	defer reader.Close()

	nf := NormalField{}
	if err := gob.NewDecoder(reader).Decode(&nf); err != nil {
		return nil, false
	}
	return &nf, true
}

func (fc *FileCache)Store(key string, nf *NormalField) error {
	if err := os.MkdirAll(fc.Dir, 0755); err != nil {
		return fmt.Errorf("cache mkdir '%s': %v", fc.Dir, err)
	}

	writer, err := os.Create(fc.path(key))
	if err != nil {
		return fmt.Errorf("cache open+w '%s': %v", fc.path(key), err)
	}
	defer writer.Close()

	return gob.NewEncoder(writer).Encode(nf)
}
