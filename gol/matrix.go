package gol

// Matrix is a fixed size field of cells stored row by row in one buffer
type Matrix struct {
	width  int
	height int
	cells  []bool
}

// Largest number of cells a field may hold
const MAX_CELLS = 1 << 30

func validSize(height, width int) bool {
	return height >= 1 && width >= 1 && height <= MAX_CELLS/width
}

// Make matrix object with empty data
func MakeMatrix(height, width int) (Matrix, error) {
	if !validSize(height, width) {
		return Matrix{}, ErrInvalidSize
	}
	return Matrix{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}, nil
}

// Make matrix object by providing cell array
// Ownership of cell array is transferred to matrix object
func MakeMatrixFromData(height, width int, cells []bool) (Matrix, error) {
	if !validSize(height, width) {
		return Matrix{}, ErrInvalidSize
	}
	if len(cells) != width*height {
		return Matrix{}, ErrInvalidSize
	}
	return Matrix{width: width, height: height, cells: cells}, nil
}

func (matrix Matrix) Width() int  { return matrix.width }
func (matrix Matrix) Height() int { return matrix.height }

func (matrix Matrix) Get(y, x int) bool {
	return matrix.cells[y*matrix.width+x]
}

func (matrix Matrix) Set(y, x int, alive bool) {
	matrix.cells[y*matrix.width+x] = alive
}

// Row returns a view of row y
func (matrix Matrix) Row(y int) []bool {
	return matrix.cells[y*matrix.width : (y+1)*matrix.width]
}

// Rows returns a view of the contiguous rows [from, to)
func (matrix Matrix) Rows(from, to int) []bool {
	return matrix.cells[from*matrix.width : to*matrix.width]
}

func (matrix Matrix) Clone() Matrix {
	cells := make([]bool, len(matrix.cells))
	copy(cells, matrix.cells)
	return Matrix{width: matrix.width, height: matrix.height, cells: cells}
}

func (matrix Matrix) Equal(other Matrix) bool {
	if matrix.width != other.width || matrix.height != other.height {
		return false
	}
	for i := range matrix.cells {
		if matrix.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// AliveCount returns the number of live cells
func (matrix Matrix) AliveCount() int {
	count := 0
	for _, alive := range matrix.cells {
		if alive {
			count++
		}
	}
	return count
}

// Life rule: survive on 2 or 3, born on exactly 3
func nextState(alive bool, surrounding int) bool {
	if alive {
		return surrounding == 2 || surrounding == 3
	}
	return surrounding == 3
}

func countRow(row []bool, left, x, right int) int {
	count := 0
	if row[left] {
		count++
	}
	if row[x] {
		count++
	}
	if row[right] {
		count++
	}
	return count
}

// Evaluate one generation of a block of rows
// top and bottom are the halo rows just outside the block, block holds rows*width cells
// and the result is written to next (same shape as block).
// Columns wrap around; a wrapped offset landing on the cell itself still counts as a neighbour.
func stepBlock(top, block, bottom, next []bool, rows, width int) {
	for y := 0; y != rows; y++ {
		above := top
		if y > 0 {
			above = block[(y-1)*width : y*width]
		}
		below := bottom
		if y < rows-1 {
			below = block[(y+1)*width : (y+2)*width]
		}
		row := block[y*width : (y+1)*width]
		out := next[y*width : (y+1)*width]
		for x := 0; x != width; x++ {
			left := (x - 1 + width) % width
			right := (x + 1) % width
			surrounding := countRow(above, left, x, right) + countRow(row, left, x, right) +
				countRow(below, left, x, right)
			if row[x] {
				surrounding-- // the cell itself
			}
			out[x] = nextState(row[x], surrounding)
		}
	}
}

// Evaluate rows [from, to) of the whole toroidal matrix into next_matrix
func (matrix Matrix) stepRange(next_matrix Matrix, from, to int) {
	top := matrix.Row((from - 1 + matrix.height) % matrix.height)
	bottom := matrix.Row(to % matrix.height)
	stepBlock(top, matrix.Rows(from, to), bottom, next_matrix.Rows(from, to), to-from, matrix.width)
}
