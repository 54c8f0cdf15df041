package scenes

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/gridbag/pkg/config"
)

var outlineColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}

// Draw 绘制背景、网格和物品、文字
func (s *GridScene) Draw(screen *ebiten.Image) {
	screen.Fill(s.palette.Background)

	// 网格外框，按最大尺寸画出可扩展区域
	maxW, maxH := s.maxContainerScreenSize()
	vector.StrokeRect(screen,
		float32(s.transform.OriginX-4), float32(s.transform.OriginY-4),
		float32(maxW+8), float32(maxH+8),
		1, outlineColor, false)

	s.renderSystem.Draw(screen)

	ebitenutil.DebugPrintAt(screen, s.title(), int(s.transform.OriginX), int(s.transform.OriginY)-40)
	ebitenutil.DebugPrintAt(screen, "tray", int(config.TrayOriginX), int(config.TrayOriginY)-20)
	ebitenutil.DebugPrintAt(screen, helpText(), 10, config.StatusLineY-20)
	ebitenutil.DebugPrintAt(screen, s.status, 10, config.StatusLineY)
}

func (s *GridScene) title() string {
	_, maxWidth, maxHeight := s.engine.Limits()
	return fmt.Sprintf("grid %dx%d (max %dx%d)  occupied %d/%d",
		s.engine.Width(), s.engine.Height(), maxWidth, maxHeight,
		s.engine.OccupiedCount(), s.engine.Width()*s.engine.Height())
}

// maxContainerScreenSize 网格扩展到最大尺寸时在屏幕上的大小
func (s *GridScene) maxContainerScreenSize() (w, h float64) {
	_, maxWidth, maxHeight := s.engine.Limits()
	fw, fh := s.engine.FootprintSize(maxWidth, maxHeight)
	return fw * s.transform.Scale, fh * s.transform.Scale
}

// helpText 按键说明，如 "Right +col  Left -col ..."
func helpText() string {
	parts := make([]string, 0, len(keyBindings))
	for _, b := range keyBindings {
		parts = append(parts, b.label+" "+b.help)
	}
	return strings.Join(parts, "  ")
}
