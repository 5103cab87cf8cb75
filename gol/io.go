package gol

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"unicode/utf8"
)

// Glyphs used to print live and dead cells
type Glyphs struct {
	Alive rune
	Dead  rune
}

var DefaultGlyphs = Glyphs{Alive: '1', Dead: '0'}

// ParseGlyphs reads a two character string, live glyph first
func ParseGlyphs(text string) (Glyphs, error) {
	if utf8.RuneCountInString(text) != 2 {
		return Glyphs{}, fmt.Errorf("%w: glyphs %q must be two characters", ErrInvalidArguments, text)
	}
	runes := []rune(text)
	return Glyphs{Alive: runes[0], Dead: runes[1]}, nil
}

// readSource loads a field from a file
func readSource(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matrix{}, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	return parseSource(string(data))
}

// parseSource reads whitespace separated rows of '1' and '0'.
// A row may also carry one separator after every cell ("1,0,1"), in which case
// only the characters at even positions are cells.
func parseSource(data string) (Matrix, error) {

	fields := strings.Fields(data)
	if len(fields) == 0 {
		return Matrix{}, fmt.Errorf("%w: no rows", ErrMalformedSource)
	}

	rows := make([][]bool, len(fields))
	for y, field := range fields {
		row, err := parseRow(field)
		if err != nil {
			return Matrix{}, fmt.Errorf("%w: row %d: %v", ErrMalformedSource, y+1, err)
		}
		if y > 0 && len(row) != len(rows[0]) {
			return Matrix{}, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedSource,
				y+1, len(row), len(rows[0]))
		}
		rows[y] = row
	}

	matrix, _ := MakeMatrix(len(rows), len(rows[0]))
	for y, row := range rows {
		copy(matrix.Row(y), row)
	}
	return matrix, nil
}

func isCell(char byte) bool {
	return char == '0' || char == '1'
}

func parseRow(field string) ([]bool, error) {
	stride := 1
	if len(field) > 1 && !isCell(field[1]) {
		stride = 2
	}
	row := make([]bool, 0, (len(field)+stride-1)/stride)
	for i := 0; i < len(field); i++ {
		if i%stride != 0 {
			if isCell(field[i]) {
				return nil, fmt.Errorf("cell %q where a separator was expected", field[i])
			}
			continue
		}
		if !isCell(field[i]) {
			return nil, fmt.Errorf("unexpected character %q", field[i])
		}
		row = append(row, field[i] == '1')
	}
	return row, nil
}

// randomMatrix fills every cell with an independent fair coin
func randomMatrix(random *rand.Rand, height, width int) (Matrix, error) {
	matrix, err := MakeMatrix(height, width)
	if err != nil {
		return matrix, err
	}
	for i := range matrix.cells {
		matrix.cells[i] = random.Intn(2) == 1
	}
	return matrix, nil
}

// writeMatrix prints one row per line without separators
func writeMatrix(out io.Writer, matrix Matrix, glyphs Glyphs) error {
	writer := bufio.NewWriter(out)
	for y := 0; y != matrix.Height(); y++ {
		for _, alive := range matrix.Row(y) {
			if alive {
				writer.WriteRune(glyphs.Alive)
			} else {
				writer.WriteRune(glyphs.Dead)
			}
		}
		writer.WriteByte('\n')
	}
	return writer.Flush()
}

func writeStatus(out io.Writer, snapshot Snapshot, glyphs Glyphs) error {
	if _, err := fmt.Fprintf(out, "Done %d iteration(s). Current field:\n", snapshot.Turn); err != nil {
		return err
	}
	return writeMatrix(out, snapshot.Field, glyphs)
}
