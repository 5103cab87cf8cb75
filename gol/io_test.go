package gol

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCompactRows(t *testing.T) {
	matrix := mustParse(t, "0110\n1000\n")
	if matrix.Height() != 2 || matrix.Width() != 4 {
		t.Fatalf("size %dx%d", matrix.Height(), matrix.Width())
	}
	if !matrix.Get(0, 1) || !matrix.Get(0, 2) || !matrix.Get(1, 0) || matrix.Get(1, 3) {
		t.Fatalf("cells %v", matrix.cells)
	}
}

func TestParseSeparatedRows(t *testing.T) {
	compact := mustParse(t, "101\n010\n")
	separated := mustParse(t, "1,0,1\n0;1;0\n")
	if !separated.Equal(compact) {
		t.Fatalf("separated rows %v, want %v", separated.cells, compact.cells)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, source := range []string{"", "   \n", "0110\n011\n", "01x0\n", "1,1,,\n", "2\n"} {
		if _, err := parseSource(source); !errors.Is(err, ErrMalformedSource) {
			t.Errorf("parseSource(%q) = %v, want ErrMalformedSource", source, err)
		}
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	_, err := readSource(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("err = %v", err)
	}
}

func TestReadSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.txt")
	if err := os.WriteFile(path, []byte("010\n010\n010\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	matrix, err := readSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if matrix.AliveCount() != 3 || matrix.Height() != 3 {
		t.Fatalf("read %dx%d with %d alive", matrix.Height(), matrix.Width(), matrix.AliveCount())
	}
}

func TestWriteMatrixGlyphs(t *testing.T) {
	matrix := mustParse(t, "10\n01\n")
	var out strings.Builder
	if err := writeMatrix(&out, matrix, Glyphs{Alive: '#', Dead: '.'}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "#.\n.#\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestParseGlyphs(t *testing.T) {
	glyphs, err := ParseGlyphs("█·")
	if err != nil || glyphs.Alive != '█' || glyphs.Dead != '·' {
		t.Fatalf("ParseGlyphs = %+v, %v", glyphs, err)
	}
	if _, err := ParseGlyphs("1"); !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("single glyph accepted: %v", err)
	}
}

func TestRandomMatrixIsSeeded(t *testing.T) {
	a, _ := randomMatrix(rand.New(rand.NewSource(3)), 8, 8)
	b, _ := randomMatrix(rand.New(rand.NewSource(3)), 8, 8)
	if !a.Equal(b) {
		t.Fatal("same seed gave different fields")
	}
	if _, err := randomMatrix(rand.New(rand.NewSource(3)), 0, 8); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("empty field: %v", err)
	}
}
