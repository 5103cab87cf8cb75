package gol

// Number of bytes needed to pack count cells
func compressedSize(count int) int {
	return (count + 7) / 8
}

// Pack cells into bits (least significant bit first) and write them to dest
func compressCellsTo(cells []bool, dest []byte) {
	for i := range dest[:compressedSize(len(cells))] {
		dest[i] = 0
	}
	for i, alive := range cells {
		if alive {
			dest[i/8] |= 1 << (i % 8)
		}
	}
}

// Unpack count cells from packed bits
func decompressCells(data []byte, count int) []bool {
	cells := make([]bool, count)
	for i := range cells {
		cells[i] = data[i/8]&(1<<(i%8)) != 0
	}
	return cells
}
