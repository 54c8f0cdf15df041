package systems

import (
	"log"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/utils"
)

// PointerInput 指针输入接口
// 用于依赖注入，支持测试时 mock
type PointerInput interface {
	Sample() utils.PointerSample
}

// ebitenPointerInput Ebitengine 默认实现
type ebitenPointerInput struct{}

func (ebitenPointerInput) Sample() utils.PointerSample {
	return utils.SamplePointer()
}

// GridInputSystem 把指针拖拽转换为 grid.DragSession 调用
//
// 职责：
//   - 按下时命中测试物品实体，开始拖拽并记录抓取偏移
//   - 拖拽中移动实体并刷新放置预览（高亮）
//   - 释放时放下物品，失败按会话策略回退
//   - 空闲时更新悬停高亮
//
// 传给会话的点是物品左上角加半个格距，锚点因此吸附到最近的格子。
type GridInputSystem struct {
	entityManager *ecs.EntityManager
	engine        *grid.Engine
	session       *grid.DragSession
	transform     utils.ScreenTransform
	input         PointerInput
	tracker       *utils.PointerTracker

	dragged ecs.EntityID // 0 表示没有拖拽

	// OnDrop 每次拖拽结束（放下或回退）后调用，可为 nil
	OnDrop func(item *grid.Item, result grid.DragResult)
}

// NewGridInputSystem 创建输入系统
func NewGridInputSystem(em *ecs.EntityManager, engine *grid.Engine, session *grid.DragSession, transform utils.ScreenTransform) *GridInputSystem {
	return NewGridInputSystemWithInput(em, engine, session, transform, ebitenPointerInput{})
}

// NewGridInputSystemWithInput 创建带自定义指针输入的输入系统（用于测试）
func NewGridInputSystemWithInput(em *ecs.EntityManager, engine *grid.Engine, session *grid.DragSession, transform utils.ScreenTransform, input PointerInput) *GridInputSystem {
	return &GridInputSystem{
		entityManager: em,
		engine:        engine,
		session:       session,
		transform:     transform,
		input:         input,
		tracker:       utils.NewPointerTracker(),
	}
}

// Update 处理一帧指针输入
func (s *GridInputSystem) Update(deltaTime float64) {
	info := s.tracker.Feed(s.input.Sample())
	x, y := float64(info.CurrentX), float64(info.CurrentY)

	switch info.Phase {
	case utils.PointerPressed:
		s.beginDrag(x, y)
	case utils.PointerDragging:
		s.moveDrag(x, y)
	case utils.PointerReleased:
		s.endDrag(x, y)
	}

	s.updateHover(x, y)
}

// Dragged 当前被拖拽的实体
func (s *GridInputSystem) Dragged() (ecs.EntityID, bool) {
	return s.dragged, s.dragged != 0
}

// CancelDrag 放弃当前拖拽，物品按会话策略回退
func (s *GridInputSystem) CancelDrag() {
	if s.dragged == 0 {
		return
	}
	gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, s.dragged)
	result := s.session.Cancel()
	s.finish(gi, result)
}

// SetTransform 网格在屏幕上的位置变化时更新
func (s *GridInputSystem) SetTransform(t utils.ScreenTransform) {
	s.transform = t
}

// DropPoint 物品左上角的屏幕坐标 → 传给拖拽会话的容器坐标
func (s *GridInputSystem) DropPoint(sx, sy float64) (px, py float64) {
	px, py = s.transform.ScreenToContainer(sx, sy)
	half := (s.engine.CellSize() + s.engine.Spacing()) / 2
	return px + half, py - half
}

// HitTest 返回位于 (x, y) 的最上层物品实体
// 绘制按实体 ID 升序，所以倒序查找
func (s *GridInputSystem) HitTest(x, y float64) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith3[
		*components.GridItemComponent,
		*components.PositionComponent,
		*components.ClickableComponent,
	](s.entityManager)

	for i := len(entities) - 1; i >= 0; i-- {
		id := entities[i]
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		click, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if click.Contains(pos.X, pos.Y, x, y) {
			return id, true
		}
	}
	return 0, false
}

func (s *GridInputSystem) beginDrag(x, y float64) {
	if s.dragged != 0 {
		return
	}
	id, ok := s.HitTest(x, y)
	if !ok {
		return
	}

	gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	click, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)

	offX, offY := x-pos.X, y-pos.Y
	if !gi.Item.IsPlaced() {
		// 托盘中的物品是缩小显示的，按网格尺寸换算抓取点
		ratio := s.engine.CellSize() * s.transform.Scale / config.TrayCellSize
		offX, offY = offX*ratio, offY*ratio
	}

	pos.X, pos.Y = x-offX, y-offY
	click.Width, click.Height = s.transform.FootprintScreenSize(s.engine, gi.Item.Width(), gi.Item.Height())

	px, py := s.DropPoint(pos.X, pos.Y)
	if err := s.session.Begin(gi.Item, px, py); err != nil {
		log.Printf("[GridInputSystem] Cannot drag %s: %v", gi.Item.ID(), err)
		return
	}

	s.entityManager.AddComponent(id, &components.DraggingComponent{GrabOffsetX: offX, GrabOffsetY: offY})
	s.dragged = id
}

func (s *GridInputSystem) moveDrag(x, y float64) {
	if s.dragged == 0 {
		return
	}
	pos := s.follow(x, y)
	s.session.Move(s.DropPoint(pos.X, pos.Y))
}

func (s *GridInputSystem) endDrag(x, y float64) {
	if s.dragged == 0 {
		return
	}
	gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, s.dragged)
	pos := s.follow(x, y)
	result := s.session.End(s.DropPoint(pos.X, pos.Y))
	s.finish(gi, result)
}

// follow 拖拽中的实体跟随指针
func (s *GridInputSystem) follow(x, y float64) *components.PositionComponent {
	drag, _ := ecs.GetComponent[*components.DraggingComponent](s.entityManager, s.dragged)
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.dragged)
	pos.X, pos.Y = x-drag.GrabOffsetX, y-drag.GrabOffsetY
	return pos
}

func (s *GridInputSystem) finish(gi *components.GridItemComponent, result grid.DragResult) {
	ecs.RemoveComponent[*components.DraggingComponent](s.entityManager, s.dragged)
	s.dragged = 0

	switch result.State {
	case grid.DragCommitted:
		log.Printf("[GridInputSystem] %s placed at (%d,%d)", gi.Item.ID(), result.X, result.Y)
	case grid.DragReverted:
		log.Printf("[GridInputSystem] %s reverted (restored=%v)", gi.Item.ID(), result.Restored)
	}

	if s.OnDrop != nil {
		s.OnDrop(gi.Item, result)
	}
}

func (s *GridInputSystem) updateHover(x, y float64) {
	hovered, ok := ecs.EntityID(0), false
	if s.dragged == 0 {
		hovered, ok = s.HitTest(x, y)
	}

	for _, id := range ecs.GetEntitiesWith1[*components.HoverHighlightComponent](s.entityManager) {
		hover, _ := ecs.GetComponent[*components.HoverHighlightComponent](s.entityManager, id)
		hover.IsActive = ok && id == hovered
		if hover.IsActive {
			hover.Intensity = 1
		} else {
			hover.Intensity = 0
		}
	}
}
