package grid

import (
	"fmt"

	"github.com/google/uuid"
)

// Unplaced 未放置物品的锚点坐标（X 和 Y 都是 -1）
const Unplaced = -1

// ItemID 物品的稳定标识，用于持久化和渲染
type ItemID string

// Item 可放置在网格上的矩形物品
//
// 宽高在整个生命周期内不变；锚点（左上角格子）由 Engine 维护，
// 未放置时为 (Unplaced, Unplaced)。物品由外部创建和持有，
// Engine 只保存一个非持有的引用。
type Item struct {
	id     ItemID
	width  int
	height int
	gridX  int
	gridY  int
}

// NewItem 创建一个新物品并分配随机 ID
//
// 参数:
//   - width, height: 占地尺寸（格子数），必须 >= 1
//
// 返回:
//   - *Item: 未放置的物品
//   - error: 尺寸非法时返回 ErrInvalidFootprint
func NewItem(width, height int) (*Item, error) {
	return NewItemWithID(ItemID(uuid.NewString()), width, height)
}

// NewItemWithID 使用指定 ID 创建物品（用于从存档恢复）
// id 为空时自动生成
func NewItemWithID(id ItemID, width, height int) (*Item, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFootprint, width, height)
	}
	if id == "" {
		id = ItemID(uuid.NewString())
	}
	return &Item{
		id:     id,
		width:  width,
		height: height,
		gridX:  Unplaced,
		gridY:  Unplaced,
	}, nil
}

// ID 返回物品标识
func (it *Item) ID() ItemID { return it.id }

// Width 占地宽度（列数）
func (it *Item) Width() int { return it.width }

// Height 占地高度（行数）
func (it *Item) Height() int { return it.height }

// GridX 锚点列索引，未放置时为 Unplaced
func (it *Item) GridX() int { return it.gridX }

// GridY 锚点行索引，未放置时为 Unplaced
func (it *Item) GridY() int { return it.gridY }

// SetGridPosition 设置锚点，(-1,-1) 表示未放置
// 不做校验，正确性由 Engine 负责
func (it *Item) SetGridPosition(x, y int) {
	it.gridX = x
	it.gridY = y
}

// IsPlaced 物品当前是否放置在网格上
func (it *Item) IsPlaced() bool {
	return it.gridX != Unplaced && it.gridY != Unplaced
}

func (it *Item) String() string {
	return fmt.Sprintf("Item(%s %dx%d @%d,%d)", it.id, it.width, it.height, it.gridX, it.gridY)
}
