package gol

type Block struct {
	Start int // First row of block
	End   int // Last row of block (not inclusive)
}

func (block Block) Rows() int { return block.End - block.Start }

type Partition []Block // Row-blocks in ring order

// Divide rows into contiguous blocks, one per worker
// Never more blocks than rows; the last block absorbs the remainder
func divideToBlocks(height, threads int) Partition {
	nthread := threads
	if nthread > height {
		nthread = height
	}
	if nthread < 1 {
		nthread = 1
	}
	block_size := height / nthread
	blocks := make(Partition, nthread)
	for i := 0; i != nthread; i++ {
		blocks[i] = Block{Start: i * block_size, End: (i + 1) * block_size}
	}
	blocks[nthread-1].End = height
	return blocks
}

// Neighbours of block i in the ring
func (partition Partition) neighbours(i int) (prev, next int) {
	n := len(partition)
	return (i - 1 + n) % n, (i + 1) % n
}
