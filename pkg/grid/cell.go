package grid

// Cell 网格中的单个格子
//
// 只是一个可变记录，不做任何校验；
// 占地一致性由 Engine 在调用 SetOccupied/SetFree 之前保证。
// 不变式：occupied == (item != nil)
type Cell struct {
	x, y     int
	occupied bool
	item     *Item
}

func newCell(x, y int) Cell {
	return Cell{x: x, y: y}
}

// SetOccupied 标记格子被 item 占用
func (c *Cell) SetOccupied(item *Item) {
	c.occupied = true
	c.item = item
}

// SetFree 清空占用状态
func (c *Cell) SetFree() {
	c.occupied = false
	c.item = nil
}

// IsOccupied 格子是否被占用
func (c *Cell) IsOccupied() bool {
	return c.occupied
}

// OccupyingItem 返回占用该格子的物品，空格子返回 nil
func (c *Cell) OccupyingItem() *Item {
	return c.item
}

// X 列索引
func (c *Cell) X() int { return c.x }

// Y 行索引
func (c *Cell) Y() int { return c.y }
