package pmath

// Every component that crosses between a flat pixel vector and a 2D raster
// uses this one convention: pixels are row-major, so pixel (x,y) of a
// width-w image lives at flat index y*w + x. Keep the mapping here and
// nowhere else; it is very easy to invert it wrong in one place and not
// the others.

func FlatIndex(x, y, width int) int {
	return y*width + x
}

func FlatCoords(i, width int) (int, int) {
	return i % width, i / width
}
