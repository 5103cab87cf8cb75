package gol

import (
	"fmt"
	"math/rand"
	"os"
	"testing"
)

func benchmarkEngine(b *testing.B, size, turns int) {

	os.Stdout = nil // Disable all program output apart from benchmark results

	matrix, _ := randomMatrix(rand.New(rand.NewSource(1)), size, size)
	for _, mode := range []string{MODE_SHARED, MODE_RING} {
		for threads := 1; threads <= 16; threads *= 2 {
			p := Params{Threads: threads, Mode: mode}
			name := fmt.Sprintf("%dx%dx%d-%d-%s", size, size, turns, threads, mode)
			b.Run(name, func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					engine, err := newEngine(p, matrix)
					if err != nil {
						b.Fatal(err)
					}
					engine.Run(uint64(turns))
					for {
						if _, ready, _ := engine.Status(); ready {
							break
						}
					}
					engine.Quit()
				}
			})
		}
	}
}

func Benchmark_128_1000(b *testing.B) {
	benchmarkEngine(b, 128, 1000)
}

func Benchmark_512_100(b *testing.B) {
	benchmarkEngine(b, 512, 100)
}

// Boundary row exchange over each transport
func Benchmark_Transport(b *testing.B) {
	matrix, _ := randomMatrix(rand.New(rand.NewSource(1)), 256, 256)
	for _, transport := range []string{TRANSPORT_CHAN, TRANSPORT_PIPE, TRANSPORT_TCP} {
		p := Params{Threads: 8, Mode: MODE_RING, Transport: transport}
		b.Run(transport, func(b *testing.B) {
			engine, err := newEngine(p, matrix)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			engine.Run(uint64(b.N))
			for {
				if _, ready, _ := engine.Status(); ready {
					break
				}
			}
			b.StopTimer()
			engine.Quit()
		})
	}
}
