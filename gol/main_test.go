package gol

import (
	"log"
	"math/rand"
	"os"
	"testing"
)

// Eat all incoming bytes
type null_writer struct{}

func (w null_writer) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func TestMain(m *testing.M) {
	log.SetOutput(null_writer{}) // Disable log
	os.Exit(m.Run())
}

// Straightforward single threaded evolution used as the expected result
func referenceStep(matrix Matrix) Matrix {
	height, width := matrix.Height(), matrix.Width()
	next, _ := MakeMatrix(height, width)
	for y := 0; y != height; y++ {
		for x := 0; x != width; x++ {
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dy == 0 && dx == 0 {
						continue
					}
					if matrix.Get((y+dy+height)%height, (x+dx+width)%width) {
						count++
					}
				}
			}
			alive := matrix.Get(y, x)
			next.Set(y, x, count == 3 || (alive && count == 2))
		}
	}
	return next
}

func referenceRun(matrix Matrix, generations int) Matrix {
	for i := 0; i != generations; i++ {
		matrix = referenceStep(matrix)
	}
	return matrix
}

func seededMatrix(t testing.TB, seed int64, height, width int) Matrix {
	t.Helper()
	matrix, err := randomMatrix(rand.New(rand.NewSource(seed)), height, width)
	if err != nil {
		t.Fatal(err)
	}
	return matrix
}

func mustParse(t testing.TB, source string) Matrix {
	t.Helper()
	matrix, err := parseSource(source)
	if err != nil {
		t.Fatal(err)
	}
	return matrix
}
