package pstereo

import "errors"

// Structural and numeric degeneracies abort a reconstruction before any
// output is produced. Check with errors.Is. Per-pixel problems (shadowed
// pixels, zero albedo, off-hemisphere points) are not errors; they come
// out of the solvers as zero vectors in the normal field.
var(
	// ErrDegenerateLighting means the lighting matrix cannot constrain a
	// surface orientation: fewer than 3 images, or light directions that
	// do not span 3D space.
	ErrDegenerateLighting = errors.New("lighting directions are degenerate")

	// ErrInsufficientImages means the intensity stack cannot support the
	// rank-4 factorization: fewer than 4 images, too few pixels, or an
	// effective rank below 4.
	ErrInsufficientImages = errors.New("not enough independent images")

	// ErrAmbiguityResolution means the eigenvalue structure of the
	// ambiguity matrix was unusable on the separable branch.
	ErrAmbiguityResolution = errors.New("cannot resolve factorization ambiguity")

	// ErrDimensionMismatch means the input images do not all share the
	// same width and height.
	ErrDimensionMismatch = errors.New("image dimensions do not match")

	// ErrMissingLightingData means the lighting file does not cover every
	// image in the stack.
	ErrMissingLightingData = errors.New("no lighting data for image")
)
