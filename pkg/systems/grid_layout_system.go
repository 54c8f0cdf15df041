package systems

import (
	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/utils"
)

// GridLayoutSystem 根据引擎状态摆放物品实体
//
// 职责：
//   - 已放置的物品对齐到锚点格子，点击区域为完整占地
//   - 未放置的物品排进托盘，按实体 ID 顺序，缩小显示
//   - 拖拽中的物品由 GridInputSystem 负责，这里跳过
type GridLayoutSystem struct {
	entityManager *ecs.EntityManager
	engine        *grid.Engine
	transform     utils.ScreenTransform
}

// NewGridLayoutSystem 创建布局系统
func NewGridLayoutSystem(em *ecs.EntityManager, engine *grid.Engine, transform utils.ScreenTransform) *GridLayoutSystem {
	return &GridLayoutSystem{
		entityManager: em,
		engine:        engine,
		transform:     transform,
	}
}

// TrayFootprint 物品在托盘中的显示尺寸
func TrayFootprint(w, h int) (width, height float64) {
	return float64(w) * config.TrayCellSize, float64(h) * config.TrayCellSize
}

// Update 更新所有物品实体的位置和点击区域
func (s *GridLayoutSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[
		*components.GridItemComponent,
		*components.PositionComponent,
		*components.ClickableComponent,
	](s.entityManager)

	tray := make([]ecs.EntityID, 0, len(entities))
	heights := make([]int, 0, len(entities))

	for _, id := range entities {
		if ecs.HasComponent[*components.DraggingComponent](s.entityManager, id) {
			continue
		}
		gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)
		if !gi.Item.IsPlaced() {
			tray = append(tray, id)
			heights = append(heights, gi.Item.Height())
			continue
		}

		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		click, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		pos.X, pos.Y = s.transform.ContainerToScreen(s.engine.CellOrigin(gi.Item.GridX(), gi.Item.GridY()))
		click.Width, click.Height = s.transform.FootprintScreenSize(s.engine, gi.Item.Width(), gi.Item.Height())
	}

	for i, id := range tray {
		gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		click, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)

		gi.TrayX, gi.TrayY = config.GetTraySlot(heights, i)
		pos.X, pos.Y = gi.TrayX, gi.TrayY
		click.Width, click.Height = TrayFootprint(gi.Item.Width(), gi.Item.Height())
	}
}

// SetTransform 网格在屏幕上的位置变化时更新
func (s *GridLayoutSystem) SetTransform(t utils.ScreenTransform) {
	s.transform = t
}
