package pstereo

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jmorel/photo-stereo/pkg/pmath"
)

// Eigenvalues of the ambiguity matrix within this fraction of the largest
// magnitude are treated as zero when classifying its signature.
const ambiguityEigTol = 1e-9

// Signature says how the eigenvalue signs of the 4x4 ambiguity matrix
// split, which selects how the factorization ambiguity gets resolved.
type Signature int

const (
	// SignatureSeparable: exactly one eigenvalue of one sign and three of
	// the other. The ambiguity transform comes from the eigendecomposition.
	SignatureSeparable Signature = iota
	// SignatureNonSeparable: any other split. The transform falls back to
	// the orthogonal factor minimizing the Frobenius-norm residual.
	SignatureNonSeparable
)

func (s Signature)String() string {
	switch s {
	case SignatureSeparable:    return "separable"
	case SignatureNonSeparable: return "non-separable"
	}
	return fmt.Sprintf("signature(%d)", int(s))
}

// A factorization holds the rank-4 factors of the intensity stack,
// M ~ PseudoLight.PseudoShape. These are only meaningful up to a linear
// ambiguity; they are not lights or normals until the ambiguity is
// resolved.
type factorization struct {
	pseudoLight *mat.Dense // f x 4
	pseudoShape *mat.Dense // 4 x p
}

// SolveUncalibrated recovers a normal field from an intensity stack alone,
// with no lighting data, following Basri & Jacobs 2006: factorize the
// stack to rank 4 by SVD, then pin down the linear ambiguity with the
// integrability constraint.
//
// The result is still subject to the generalized bas-relief ambiguity;
// that is inherent to uncalibrated photometric stereo, and no further
// disambiguation is attempted here.
func SolveUncalibrated(intensities *mat.Dense, width, height int) (*NormalField, Signature, error) {
	_, p := intensities.Dims()
	if p != width*height {
		return nil, 0, fmt.Errorf("%w: %d pixels vs %dx%d raster", ErrDimensionMismatch, p, width, height)
	}

	fac, err := factorizeStack(intensities)
	if err != nil {
		return nil, 0, err
	}

	q := buildConstraintMatrix(fac.pseudoShape)
	b, err := constraintNullVector(q)
	if err != nil {
		return nil, 0, err
	}

	a, sig, err := resolveAmbiguity(unpackSymmetric(b))
	if err != nil {
		return nil, sig, err
	}

	// Scene structure, up to a scaled Lorentz transform. The first row is
	// the homogeneous component; the rest are the normals.
	var structure mat.Dense
	structure.Mul(a, fac.pseudoShape)

	// A pixel that was dark in every image has a (numerically) zero
	// structure column; round-off from the SVD leaves it at ~1e-16 rather
	// than exact zero, so cut on a relative tolerance before normalizing.
	norms := make([]float64, p)
	maxNorm := 0.0
	for j:=0; j<p; j++ {
		nx, ny, nz := structure.At(1, j), structure.At(2, j), structure.At(3, j)
		norms[j] = math.Sqrt(nx*nx + ny*ny + nz*nz)
		if norms[j] > maxNorm {
			maxNorm = norms[j]
		}
	}

	nf := NewNormalField(width, height)
	for j:=0; j<p; j++ {
		if norms[j] <= pmath.DefaultRankTol*maxNorm {
			continue
		}
		x, y := pmath.FlatCoords(j, width)
		nf.Set(x, y, structure.At(1, j)/norms[j], structure.At(2, j)/norms[j], structure.At(3, j)/norms[j])
	}

	return nf, sig, nil
}

// factorizeStack computes the rank-4 SVD factors of the f x p intensity
// stack, and rescales the first pseudo-shape row so all four rows carry
// comparable norms. The quadratic fit below is very sensitive to that
// scale asymmetry.
func factorizeStack(m *mat.Dense) (*factorization, error) {
	f, p := m.Dims()
	if f < 4 {
		return nil, fmt.Errorf("%w: have %d images, need at least 4", ErrInsufficientImages, f)
	}
	if p < 10 {
		return nil, fmt.Errorf("%w: have %d pixels, need at least 10 for the quadratic fit", ErrInsufficientImages, p)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD of intensity stack failed", ErrInsufficientImages)
	}

	svals := svd.Values(nil)
	if rank := pmath.Rank(svals, pmath.DefaultRankTol); rank < 4 {
		return nil, fmt.Errorf("%w: intensity stack has effective rank %d, need 4", ErrInsufficientImages, rank)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// M = U.S.Vt, split the truncated S evenly: L = U.sqrt(S), S~ = sqrt(S).Vt
	light := mat.NewDense(f, 4, nil)
	shape := mat.NewDense(4, p, nil)
	for k:=0; k<4; k++ {
		sq := math.Sqrt(svals[k])
		for i:=0; i<f; i++ {
			light.Set(i, k, u.At(i, k)*sq)
		}
		for j:=0; j<p; j++ {
			shape.Set(k, j, sq*v.At(j, k))
		}
	}

	norms := pmath.RowNorms(shape)
	if norms[0] == 0 {
		return nil, fmt.Errorf("%w: degenerate pseudo-shape factor", ErrInsufficientImages)
	}
	scale := (norms[1] + norms[2] + norms[3]) / 3.0 / norms[0]
	for j:=0; j<p; j++ {
		shape.Set(0, j, shape.At(0, j)*scale)
	}

	return &factorization{pseudoLight: light, pseudoShape: shape}, nil
}

// The 10 independent entries of the symmetric outer product q.qt of a
// 4-vector q, as index pairs into q. The first 4 are the diagonal.
var(
	quadIdxA = [10]int{0, 1, 2, 3, 0, 0, 0, 1, 1, 2}
	quadIdxB = [10]int{0, 1, 2, 3, 1, 2, 3, 2, 3, 3}
)

// buildConstraintMatrix turns the 4 x p pseudo-shape into the p x 10
// quadratic constraint matrix: pixel j contributes the row
// (q1^2 .. q4^2, 2.q1q2, .. 2.q3q4) built from its shape column. The
// off-diagonal doubling matches the symmetric-matrix inner product, so
// Q.b = 0 expresses qt.B.q = 0 for every pixel.
func buildConstraintMatrix(shape *mat.Dense) *mat.Dense {
	_, p := shape.Dims()
	q := mat.NewDense(p, 10, nil)
	for j:=0; j<p; j++ {
		for k:=0; k<10; k++ {
			val := shape.At(quadIdxA[k], j) * shape.At(quadIdxB[k], j)
			if k >= 4 {
				val *= 2
			}
			q.Set(j, k, val)
		}
	}
	return q
}

// constraintNullVector approximates the null space of Q: the right
// singular vector belonging to the smallest singular value.
func constraintNullVector(q *mat.Dense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(q, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD of constraint matrix failed", ErrInsufficientImages)
	}

	var v mat.Dense
	svd.VTo(&v)
	_, cols := v.Dims()

	b := make([]float64, 10)
	for i:=0; i<10; i++ {
		b[i] = v.At(i, cols-1) // singular values come back descending
	}
	return b, nil
}

// Where each of the 10 null-vector entries lands in the symmetric 4x4
// ambiguity matrix, row-major.
var symIdx = [16]int{
	0, 4, 5, 6,
	4, 1, 7, 8,
	5, 7, 2, 9,
	6, 8, 9, 3,
}

func unpackSymmetric(b []float64) *mat.SymDense {
	vals := make([]float64, 16)
	for i, idx := range symIdx {
		vals[i] = b[idx]
	}
	return mat.NewSymDense(4, vals)
}

// resolveAmbiguity turns the symmetric ambiguity matrix B into the 4x4
// transform A that maps the pseudo-shape onto the scene structure. The
// eigenvalue signature of B decides how, and the chosen branch is
// returned so callers can audit (and tests can force) both paths.
func resolveAmbiguity(b *mat.SymDense) (*mat.Dense, Signature, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(b, true); !ok {
		return nil, SignatureNonSeparable, fmt.Errorf("%w: eigendecomposition failed", ErrAmbiguityResolution)
	}
	vals := eig.Values(nil)

	sig := classifySignature(vals)
	if sig != SignatureSeparable {
		return frobeniusFactor(b), sig, nil
	}

	// Flip B so the singleton eigenvalue is the negative one.
	if positiveCount(vals) == 1 {
		for i := range vals {
			vals[i] = -vals[i]
		}
	}

	var w mat.Dense
	eig.VectorsTo(&w)
	a, err := separableFactor(vals, &w)
	if err != nil {
		return nil, sig, err
	}
	return a, sig, nil
}

// classifySignature buckets the eigenvalue signs of the ambiguity matrix.
// Near-zero eigenvalues count for neither sign.
func classifySignature(vals []float64) Signature {
	pos := positiveCount(vals)
	neg := negativeCount(vals)
	if pos == 1 || neg == 1 {
		return SignatureSeparable
	}
	return SignatureNonSeparable
}

func eigCutoff(vals []float64) float64 {
	maxAbs := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return ambiguityEigTol * maxAbs
}

func positiveCount(vals []float64) int {
	cutoff := eigCutoff(vals)
	n := 0
	for _, v := range vals {
		if v > cutoff {
			n++
		}
	}
	return n
}

func negativeCount(vals []float64) int {
	cutoff := eigCutoff(vals)
	n := 0
	for _, v := range vals {
		if v < -cutoff {
			n++
		}
	}
	return n
}

// separableFactor builds A = sqrt(|Lambda|).Wt from an eigendecomposition
// whose singleton eigenvalue has already been flipped negative. At most
// that one eigenvalue may be negative; more than one means the signature
// was misread and the factor would be meaningless.
func separableFactor(vals []float64, w *mat.Dense) (*mat.Dense, error) {
	cutoff := eigCutoff(vals)
	negatives := 0
	for _, v := range vals {
		if v < -cutoff {
			negatives++
		}
	}
	if negatives > 1 {
		return nil, fmt.Errorf("%w: %d negative eigenvalues after sign flip", ErrAmbiguityResolution, negatives)
	}

	a := mat.NewDense(4, 4, nil)
	for i:=0; i<4; i++ {
		sq := math.Sqrt(math.Abs(vals[i]))
		for j:=0; j<4; j++ {
			a.Set(i, j, sq*w.At(j, i))
		}
	}
	return a, nil
}

// frobeniusFactor is the fallback for non-separable signatures: the
// orthogonal polar factor U.Vt of B, which minimizes the Frobenius-norm
// residual.
func frobeniusFactor(b *mat.SymDense) *mat.Dense {
	var svd mat.SVD
	svd.Factorize(b, mat.SVDThin)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var a mat.Dense
	a.Mul(&u, v.T())
	return &a
}
