package pstereo

import(
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

// SolveCalibrated recovers a normal field and per-pixel albedo from an
// intensity stack with known light directions, following Woodham '79.
//
// lights is n x 3 (row i = direction of the light in image i), intensities
// is n x p (row i = image i flattened per pmath.FlatIndex), with p equal
// to width*height. The rows of the two matrices must be in the same image
// order.
//
// Pixels whose albedo comes out as zero get the zero vector; everything
// else comes back unit length.
func SolveCalibrated(lights, intensities *mat.Dense, width, height int) (*NormalField, pmath.FloatGrid, error) {
	albedo := pmath.NewFloatGrid(width, height)

	n, c := lights.Dims()
	ni, p := intensities.Dims()
	if c != 3 {
		return nil, albedo, fmt.Errorf("%w: lighting matrix is %dx%d, want nx3", ErrDegenerateLighting, n, c)
	}
	if n < 3 {
		return nil, albedo, fmt.Errorf("%w: have %d images, need at least 3", ErrDegenerateLighting, n)
	}
	if ni != n {
		return nil, albedo, fmt.Errorf("%w: %d lighting rows vs %d image rows", ErrDegenerateLighting, n, ni)
	}
	if p != width*height {
		return nil, albedo, fmt.Errorf("%w: %d pixels vs %dx%d raster", ErrDimensionMismatch, p, width, height)
	}

	// The pseudoinverse copes with n>3 and noisy lights, but not with
	// directions that fail to span 3D space.
	pinv, rank, err := pmath.Pinv(lights)
	if err != nil {
		return nil, albedo, fmt.Errorf("calibrated solve: %v", err)
	}
	if rank < 3 {
		return nil, albedo, fmt.Errorf("%w: lighting matrix has rank %d", ErrDegenerateLighting, rank)
	}

	// Albedo of pixel j is the norm of column j of pinv(N).I.
	var g mat.Dense
	g.Mul(pinv, intensities)
	rho := pmath.ColNorms(&g)

	// Divide the albedo back out of each valid pixel's intensity column,
	// so the least-squares solve below only has to find an orientation.
	// Invalid columns are left zero; their solution is zero too.
	normed := mat.NewDense(n, p, nil)
	for j:=0; j<p; j++ {
		if rho[j] == 0 {
			continue
		}
		for i:=0; i<n; i++ {
			normed.Set(i, j, intensities.At(i, j)/rho[j])
		}
	}

	// Least squares N.X = I, tolerant of n>3 and noise.
	var x mat.Dense
	if err := x.Solve(lights, normed); err != nil {
		return nil, albedo, fmt.Errorf("%w: least squares failed: %v", ErrDegenerateLighting, err)
	}

	nf := NewNormalField(width, height)
	for j:=0; j<p; j++ {
		px, py := pmath.FlatCoords(j, width)
		albedo.Set(px, py, rho[j])
		if rho[j] == 0 {
			continue
		}
		nx, ny, nz := normalizeOrZero(x.At(0, j), x.At(1, j), x.At(2, j))
		nf.Set(px, py, nx, ny, nz)
	}

	return nf, albedo, nil
}
