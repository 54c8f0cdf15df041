package grid

import "fmt"

// DragState 拖拽交互状态
//
//	DragIdle → DragDragging → DragCommitted
//	                        → DragReverted
//
// 终止状态（Committed/Reverted）在 Reset 或下一次 Begin 时回到 Idle
type DragState int

const (
	// DragIdle 无拖拽
	DragIdle DragState = iota
	// DragDragging 拖拽中，物品已从网格拿下
	DragDragging
	// DragCommitted 放下成功
	DragCommitted
	// DragReverted 放下失败或被取消
	DragReverted
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragCommitted:
		return "committed"
	case DragReverted:
		return "reverted"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// RevertPolicy 放下失败后的处理策略
type RevertPolicy int

const (
	// RevertRestore 尝试放回拖拽开始前的位置
	RevertRestore RevertPolicy = iota
	// RevertLeaveUnplaced 保持未放置，由调用方自行处理
	RevertLeaveUnplaced
)

// DragPreview 拖拽过程中某一帧的放置预览
type DragPreview struct {
	X, Y     int  // 映射到的格子坐标（可能越界）
	InBounds bool // 锚点是否在网格内
	Valid    bool // 能否放在这里
}

// DragResult 一次拖拽的结局
type DragResult struct {
	State DragState
	// X, Y 物品最终所在的锚点，未放置时为 Unplaced
	X, Y int
	// Restored 回退时是否成功放回原位
	// RevertRestore 下原位置可能已被其他物品占用，此时为 false，物品保持未放置
	Restored bool
}

// DragSession 由调用方驱动的拖拽状态机
//
// 与具体的输入事件类型解耦：调用方把指针位置换算到容器坐标
// （物品左上角所在的点，已减去抓取偏移）后传入即可。
type DragSession struct {
	engine *Engine
	policy RevertPolicy

	state   DragState
	item    *Item
	originX int
	originY int
	preview DragPreview
}

// NewDragSession 创建拖拽状态机
func NewDragSession(engine *Engine, policy RevertPolicy) *DragSession {
	return &DragSession{
		engine:  engine,
		policy:  policy,
		originX: Unplaced,
		originY: Unplaced,
	}
}

// State 当前状态
func (d *DragSession) State() DragState { return d.state }

// Item 正在（或最近一次）拖拽的物品
func (d *DragSession) Item() *Item { return d.item }

// Origin 拖拽开始前物品的锚点
func (d *DragSession) Origin() (x, y int) { return d.originX, d.originY }

// Preview 最近一次 Move 的预览
func (d *DragSession) Preview() DragPreview { return d.preview }

// Begin 开始拖拽 item
// 记录原锚点并把物品从网格拿下；已在拖拽中返回 ErrDragInProgress
func (d *DragSession) Begin(item *Item, px, py float64) error {
	if item == nil {
		return ErrNilItem
	}
	if d.state == DragDragging {
		return ErrDragInProgress
	}

	d.state = DragDragging
	d.item = item
	d.originX, d.originY = item.GridX(), item.GridY()
	d.engine.Remove(item)
	d.Move(px, py)
	return nil
}

// Move 更新拖拽位置并刷新高亮
// 锚点越界时清除高亮；非拖拽状态下返回零值
func (d *DragSession) Move(px, py float64) DragPreview {
	if d.state != DragDragging {
		return DragPreview{}
	}

	x, y, inBounds := d.engine.MapPointToCell(px, py)
	preview := DragPreview{X: x, Y: y, InBounds: inBounds}
	if inBounds {
		preview.Valid = d.engine.CanPlace(x, y, d.item.Width(), d.item.Height(), d.item)
		d.engine.Highlight(x, y, d.item.Width(), d.item.Height(), preview.Valid)
	} else {
		d.engine.ClearHighlight()
	}
	d.preview = preview
	return preview
}

// End 在 (px, py) 放下物品
func (d *DragSession) End(px, py float64) DragResult {
	if d.state != DragDragging {
		return d.result(false)
	}

	d.engine.ClearHighlight()

	x, y, inBounds := d.engine.MapPointToCell(px, py)
	if inBounds && d.engine.Place(d.item, x, y) {
		d.state = DragCommitted
		return d.result(false)
	}
	return d.revert()
}

// Cancel 放弃拖拽，按策略回退
func (d *DragSession) Cancel() DragResult {
	if d.state != DragDragging {
		return d.result(false)
	}
	d.engine.ClearHighlight()
	return d.revert()
}

// Reset 回到 Idle，拖拽中调用等同于 Cancel
func (d *DragSession) Reset() {
	if d.state == DragDragging {
		d.Cancel()
	}
	d.state = DragIdle
	d.item = nil
	d.originX, d.originY = Unplaced, Unplaced
	d.preview = DragPreview{}
}

func (d *DragSession) revert() DragResult {
	d.state = DragReverted

	restored := false
	hadOrigin := d.originX != Unplaced && d.originY != Unplaced
	if d.policy == RevertRestore && hadOrigin {
		restored = d.engine.Place(d.item, d.originX, d.originY)
		if !restored {
			d.engine.logger.Printf("[DragSession] Restore %s to (%d,%d) failed, item left unplaced", d.item.ID(), d.originX, d.originY)
		}
	}
	return d.result(restored)
}

func (d *DragSession) result(restored bool) DragResult {
	res := DragResult{State: d.state, X: Unplaced, Y: Unplaced, Restored: restored}
	if d.item != nil {
		res.X, res.Y = d.item.GridX(), d.item.GridY()
	}
	return res
}
