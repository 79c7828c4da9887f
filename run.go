package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS overlays the measured FPS and TPS in the top-right corner.
	ShowFPS bool
}

// runGame adds the window chrome around an Engine.
type runGame struct {
	*Engine
	showFPS bool
}

func (g *runGame) Draw(screen *ebiten.Image) {
	g.Engine.Draw(screen)
	if g.showFPS {
		w := screen.Bounds().Dx()
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), w-100, 0)
	}
}

// Run opens a resizable window and runs e until the window closes. The
// engine reads the real mouse while running and is closed on return.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	e.live = true
	defer e.Close()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&runGame{Engine: e, showFPS: cfg.ShowFPS})
}
