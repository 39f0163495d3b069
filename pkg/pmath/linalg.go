package pmath

import(
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultRankTol is the relative cutoff under which a singular value is
// treated as zero when estimating rank.
const DefaultRankTol = 1e-10

// Rank counts the singular values above rtol relative to the largest one.
func Rank(svals []float64, rtol float64) int {
	if len(svals) == 0 {
		return 0
	}
	cutoff := rtol * svals[0]
	rank := 0
	for _, s := range svals {
		if s > cutoff {
			rank++
		}
	}
	return rank
}

// Pinv computes the Moore-Penrose pseudoinverse of a via its thin SVD,
// A+ = V.inv(S).Ut, zeroing the reciprocal of any singular value below the
// rank cutoff. It also reports the effective rank, so callers can reject
// degenerate systems. Never requires a to be square.
func Pinv(a mat.Matrix) (*mat.Dense, int, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("pinv: SVD factorization failed")
	}

	svals := svd.Values(nil)
	rank := Rank(svals, DefaultRankTol)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	k := len(svals)
	sinv := mat.NewDense(k, k, nil)
	for i:=0; i<rank; i++ {
		sinv.Set(i, i, 1.0/svals[i])
	}

	var vs, pinv mat.Dense
	vs.Mul(&v, sinv)
	pinv.Mul(&vs, u.T())
	return &pinv, rank, nil
}

// ColNorms returns the Euclidean norm of each column of m.
func ColNorms(m *mat.Dense) []float64 {
	_, c := m.Dims()
	norms := make([]float64, c)
	for j:=0; j<c; j++ {
		norms[j] = mat.Norm(m.ColView(j), 2)
	}
	return norms
}

// RowNorms returns the Euclidean norm of each row of m.
func RowNorms(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	norms := make([]float64, r)
	for i:=0; i<r; i++ {
		norms[i] = mat.Norm(m.RowView(i), 2)
	}
	return norms
}
