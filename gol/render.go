package gol

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Renderer draws snapshots on a terminal screen, two columns per cell
type Renderer struct {
	screen tcell.Screen
	alive  tcell.Style
	dead   tcell.Style
	header tcell.Style
}

const (
	GLYPH_ALIVE = '█'
	GLYPH_DEAD  = ' '
)

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		alive:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		dead:   tcell.StyleDefault,
		header: tcell.StyleDefault.Bold(true),
	}
}

// DrawSnapshot draws the header line followed by the field, clipped to the screen
func (renderer *Renderer) DrawSnapshot(snapshot Snapshot) {
	renderer.screen.Clear()
	field := snapshot.Field
	renderer.drawText(0, fmt.Sprintf("generation %d, %d alive (%dx%d)", snapshot.Turn,
		field.AliveCount(), field.Width(), field.Height()))

	width, height := renderer.screen.Size()
	for y := 0; y < field.Height() && y+1 < height; y++ {
		for x := 0; x < field.Width() && 2*x+1 < width; x++ {
			glyph, style := GLYPH_DEAD, renderer.dead
			if field.Get(y, x) {
				glyph, style = GLYPH_ALIVE, renderer.alive
			}
			renderer.screen.SetContent(2*x, y+1, glyph, nil, style)
			renderer.screen.SetContent(2*x+1, y+1, glyph, nil, style)
		}
	}
	renderer.screen.Show()
}

// DrawMessage replaces the screen contents with a single line
func (renderer *Renderer) DrawMessage(text string) {
	renderer.screen.Clear()
	renderer.drawText(0, text)
	renderer.screen.Show()
}

func (renderer *Renderer) drawText(y int, text string) {
	width, _ := renderer.screen.Size()
	x := 0
	for _, char := range text {
		if x >= width {
			return
		}
		renderer.screen.SetContent(x, y, char, nil, renderer.header)
		x++
	}
}
