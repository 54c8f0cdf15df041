package systems

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/render"
	"github.com/decker502/gridbag/pkg/utils"
)

// GridRenderSystem 用 ebiten 绘制网格和物品
//
// 绘制顺序：格子（按高亮状态着色）→ 托盘和网格上的物品 → 拖拽中的物品（半透明）
type GridRenderSystem struct {
	entityManager *ecs.EntityManager
	engine        *grid.Engine
	highlights    *render.HighlightMap
	palette       render.Palette
	transform     utils.ScreenTransform
}

// NewGridRenderSystem 创建渲染系统
func NewGridRenderSystem(em *ecs.EntityManager, engine *grid.Engine, highlights *render.HighlightMap, palette render.Palette, transform utils.ScreenTransform) *GridRenderSystem {
	return &GridRenderSystem{
		entityManager: em,
		engine:        engine,
		highlights:    highlights,
		palette:       palette,
		transform:     transform,
	}
}

// SetTransform 网格在屏幕上的位置变化时更新
func (s *GridRenderSystem) SetTransform(t utils.ScreenTransform) {
	s.transform = t
}

// Draw 绘制一帧
func (s *GridRenderSystem) Draw(screen *ebiten.Image) {
	for y := 0; y < s.engine.Height(); y++ {
		for x := 0; x < s.engine.Width(); x++ {
			sx, sy, size := s.transform.CellScreenRect(s.engine, x, y)
			clr := s.palette.CellColor(s.highlights.State(x, y))
			vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(size), float32(size), clr, false)
		}
	}

	for _, id := range s.DrawOrder() {
		s.drawItem(screen, id)
	}
}

// DrawOrder 物品实体的绘制顺序：按实体 ID，拖拽中的放在最后
func (s *GridRenderSystem) DrawOrder() []ecs.EntityID {
	entities := ecs.GetEntitiesWith2[*components.GridItemComponent, *components.PositionComponent](s.entityManager)
	order := make([]ecs.EntityID, 0, len(entities))
	var dragging []ecs.EntityID
	for _, id := range entities {
		if ecs.HasComponent[*components.DraggingComponent](s.entityManager, id) {
			dragging = append(dragging, id)
			continue
		}
		order = append(order, id)
	}
	return append(order, dragging...)
}

// ItemRect 物品实体的屏幕矩形
// 托盘中的物品缩小显示，其余（网格上、拖拽中）按网格尺寸
func (s *GridRenderSystem) ItemRect(id ecs.EntityID) (x, y, w, h float64, ok bool) {
	gi, ok1 := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)
	pos, ok2 := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok1 || !ok2 {
		return 0, 0, 0, 0, false
	}

	dragging := ecs.HasComponent[*components.DraggingComponent](s.entityManager, id)
	if gi.Item.IsPlaced() || dragging {
		w, h = s.transform.FootprintScreenSize(s.engine, gi.Item.Width(), gi.Item.Height())
	} else {
		w, h = TrayFootprint(gi.Item.Width(), gi.Item.Height())
	}
	return pos.X, pos.Y, w, h, true
}

func (s *GridRenderSystem) drawItem(screen *ebiten.Image, id ecs.EntityID) {
	x, y, w, h, ok := s.ItemRect(id)
	if !ok {
		return
	}
	gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)

	clr := gi.Color
	if ecs.HasComponent[*components.DraggingComponent](s.entityManager, id) {
		clr = scaleAlpha(clr, config.DragAlpha)
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)

	if hover, ok := ecs.GetComponent[*components.HoverHighlightComponent](s.entityManager, id); ok && hover.IsActive {
		outline := scaleAlpha(color.RGBA{R: 255, G: 255, B: 255, A: 255}, hover.Intensity)
		vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 3, outline, false)
	}

	ebitenutil.DebugPrintAt(screen, shortLabel(gi.Item), int(x)+4, int(y)+2)
}

// scaleAlpha 按比例缩放预乘 alpha 颜色的不透明度
func scaleAlpha(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// shortLabel 物品标签：尺寸加截断的 ID
func shortLabel(item *grid.Item) string {
	id := string(item.ID())
	if len(id) > 6 {
		id = id[:6]
	}
	return fmt.Sprintf("%dx%d %s", item.Width(), item.Height(), id)
}
