// Package grid 实现格子占用与物品放置引擎
//
// 网格由 W x H 个等大的格子组成，物品占据一个矩形区域（占地），
// 以左上角格子为锚点。引擎是占用状态的唯一数据源：
// Cell 与 Item 只是被动的数据记录，由引擎负责修改。
//
// # 坐标约定
//
//   - 格子坐标：(x, y)，x 为列，y 为行，原点在左上角，y 向下增长
//   - 容器坐标：网格容器的局部坐标，原点在左上角，Y 轴向上（向下为负）
//
// # 失败语义
//
// 所有操作都是同步的，要么完整生效，要么完全拒绝（先校验后修改）。
// 预期内的失败（越界、格子冲突、尺寸超限、缩小到被占用区域）
// 一律通过 bool 返回值报告，不会 panic。需要具体原因时使用 Check* 方法。
//
// 引擎不是并发安全的，多 goroutine 访问需要外部同步。
package grid

import (
	"fmt"
	"log"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Config 引擎构造参数
type Config struct {
	Width     int     // 初始列数
	Height    int     // 初始行数
	CellSize  float64 // 格子边长（容器坐标单位）
	Spacing   float64 // 格子间距
	MinSize   int     // 宽高的最小值
	MaxWidth  int     // 最大列数
	MaxHeight int     // 最大行数
}

// DefaultConfig 返回默认参数：3x3，格子 100，间距 5，尺寸范围 [1, 10]
func DefaultConfig() Config {
	return Config{
		Width:     3,
		Height:    3,
		CellSize:  100,
		Spacing:   5,
		MinSize:   1,
		MaxWidth:  10,
		MaxHeight: 10,
	}
}

// Validate 检查参数是否自洽
func (c Config) Validate() error {
	if c.MinSize < 1 {
		return fmt.Errorf("%w: minSize must be >= 1, got %d", ErrInvalidConfig, c.MinSize)
	}
	if c.MaxWidth < c.MinSize || c.MaxHeight < c.MinSize {
		return fmt.Errorf("%w: max size %dx%d below minSize %d", ErrInvalidConfig, c.MaxWidth, c.MaxHeight, c.MinSize)
	}
	if c.Width < c.MinSize || c.Width > c.MaxWidth {
		return fmt.Errorf("%w: width %d outside [%d, %d]", ErrInvalidConfig, c.Width, c.MinSize, c.MaxWidth)
	}
	if c.Height < c.MinSize || c.Height > c.MaxHeight {
		return fmt.Errorf("%w: height %d outside [%d, %d]", ErrInvalidConfig, c.Height, c.MinSize, c.MaxHeight)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cellSize must be > 0, got %v", ErrInvalidConfig, c.CellSize)
	}
	if c.Spacing < 0 {
		return fmt.Errorf("%w: spacing must be >= 0, got %v", ErrInvalidConfig, c.Spacing)
	}
	return nil
}

// CellRenderer 渲染协作者
// 引擎只写不读：高亮只影响显示，不参与占用模型
type CellRenderer interface {
	HighlightCell(x, y int, valid bool)
	ClearCellHighlight(x, y int)
}

type noopRenderer struct{}

func (noopRenderer) HighlightCell(x, y int, valid bool) {}
func (noopRenderer) ClearCellHighlight(x, y int)        {}

// Option 配置引擎的可选项
type Option func(*Engine)

// WithRenderer 设置渲染协作者
func WithRenderer(r CellRenderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithLogger 设置日志输出，默认使用 log.Default()
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine 网格占用引擎
type Engine struct {
	width    int
	height   int
	cellSize float64
	spacing  float64

	minSize   int
	maxWidth  int
	maxHeight int

	// cells 扁平缓冲区，索引 = y*width + x，每次成功 resize 整体替换
	cells []Cell

	// placed 已登记的物品（非持有引用）
	// 登记表示"网格认识这个物品"，不代表当前占有格子；只有 Clear 会清空
	placed mapset.Set[*Item]

	renderer CellRenderer
	logger   *log.Logger
}

// Initialize 根据配置创建一个就绪的引擎
//
// 参数:
//   - cfg: 构造参数，非法时返回包装了 ErrInvalidConfig 的错误
//   - opts: 可选项（渲染协作者、日志）
//
// 返回:
//   - *Engine: 所有格子为空的引擎
//   - error: 配置错误
func Initialize(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		width:     cfg.Width,
		height:    cfg.Height,
		cellSize:  cfg.CellSize,
		spacing:   cfg.Spacing,
		minSize:   cfg.MinSize,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		placed:    mapset.New[*Item](),
		renderer:  noopRenderer{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.cells = make([]Cell, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			e.cells[e.index(x, y)] = newCell(x, y)
		}
	}
	return e, nil
}

func (e *Engine) index(x, y int) int {
	return y*e.width + x
}

func (e *Engine) inBounds(x, y int) bool {
	return x >= 0 && x < e.width && y >= 0 && y < e.height
}

func (e *Engine) cellAt(x, y int) *Cell {
	return &e.cells[e.index(x, y)]
}

// SetRenderer 替换渲染协作者，nil 表示不渲染
func (e *Engine) SetRenderer(r CellRenderer) {
	if r == nil {
		r = noopRenderer{}
	}
	e.renderer = r
}

// Width 当前列数
func (e *Engine) Width() int { return e.width }

// Height 当前行数
func (e *Engine) Height() int { return e.height }

// CellSize 格子边长
func (e *Engine) CellSize() float64 { return e.cellSize }

// Spacing 格子间距
func (e *Engine) Spacing() float64 { return e.spacing }

// Limits 返回尺寸限制 (minSize, maxWidth, maxHeight)
func (e *Engine) Limits() (minSize, maxWidth, maxHeight int) {
	return e.minSize, e.maxWidth, e.maxHeight
}

// Cell 返回格子的副本
// 返回副本是为了避免调用方跨 resize 持有格子引用
func (e *Engine) Cell(x, y int) (Cell, bool) {
	if !e.inBounds(x, y) {
		return Cell{}, false
	}
	return *e.cellAt(x, y), true
}

// ItemAt 返回占用 (x, y) 的物品，空格子或越界返回 nil
func (e *Engine) ItemAt(x, y int) *Item {
	if !e.inBounds(x, y) {
		return nil
	}
	return e.cellAt(x, y).OccupyingItem()
}

// OccupiedCount 被占用的格子数
func (e *Engine) OccupiedCount() int {
	n := 0
	for i := range e.cells {
		if e.cells[i].IsOccupied() {
			n++
		}
	}
	return n
}

// CheckPlacement 检查占地矩形能否放置，返回拒绝原因
//
// 参数:
//   - startX, startY: 锚点
//   - width, height: 占地尺寸
//   - ignore: 视为空闲的物品（用于物品在自身当前位置附近重新放置），可为 nil
//
// 返回:
//   - nil: 可以放置
//   - ErrOutOfBounds / ErrCellOccupied（带坐标信息）
func (e *Engine) CheckPlacement(startX, startY, width, height int, ignore *Item) error {
	// 用减法比较，避免 startX+width 溢出后绕过边界检查
	if width < 1 || height < 1 || startX < 0 || startY < 0 ||
		width > e.width-startX || height > e.height-startY {
		return fmt.Errorf("%w: (%d,%d) %dx%d on %dx%d grid", ErrOutOfBounds, startX, startY, width, height, e.width, e.height)
	}

	for y := startY; y < startY+height; y++ {
		for x := startX; x < startX+width; x++ {
			cell := e.cellAt(x, y)
			if cell.IsOccupied() && cell.OccupyingItem() != ignore {
				return fmt.Errorf("%w: cell (%d,%d)", ErrCellOccupied, x, y)
			}
		}
	}
	return nil
}

// CanPlace 占地矩形 [startX, startX+width) x [startY, startY+height) 能否放置
// 无副作用
func (e *Engine) CanPlace(startX, startY, width, height int, ignore *Item) bool {
	return e.CheckPlacement(startX, startY, width, height, ignore) == nil
}

// Place 把物品放到 (startX, startY)
//
// 以物品自身为 ignore 校验，失败时不修改任何状态。
// 成功时先移除旧的放置（未放置则无操作），再占用新区域、
// 记录锚点并登记物品。因此可以原子地从一个位置移动到
// 与之重叠的另一个位置，调用方无需手动清理。
func (e *Engine) Place(item *Item, startX, startY int) bool {
	if item == nil {
		return false
	}
	if !e.CanPlace(startX, startY, item.Width(), item.Height(), item) {
		return false
	}

	e.Remove(item)

	for y := startY; y < startY+item.Height(); y++ {
		for x := startX; x < startX+item.Width(); x++ {
			e.cellAt(x, y).SetOccupied(item)
		}
	}
	item.SetGridPosition(startX, startY)

	if !e.placed.Has(item) {
		e.placed.Put(item)
	}
	return true
}

// Remove 把物品从网格上拿下
//
// 未放置时无操作。释放物品最后记录的占地（按当前边界裁剪，
// 以容忍缩小之后的移除），并把锚点重置为未放置。
// 不会从登记表中删除物品。
//
// 只释放占用者是 item 的格子。已放置物品的占地必然全部由它自己占用，
// 所以这与释放整个占地矩形的结果相同。
func (e *Engine) Remove(item *Item) {
	if item == nil || item.GridX() == Unplaced || item.GridY() == Unplaced {
		return
	}

	x0, y0, x1, y1 := e.clip(item.GridX(), item.GridY(), item.Width(), item.Height())
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cell := e.cellAt(x, y)
			if cell.OccupyingItem() == item {
				cell.SetFree()
			}
		}
	}

	item.SetGridPosition(Unplaced, Unplaced)
}

// Clear 移除所有登记的物品并清空登记表
func (e *Engine) Clear() {
	items := e.RegisteredItems()
	for _, item := range items {
		e.Remove(item)
	}
	e.placed = mapset.New[*Item]()
}

// IsRegistered 物品是否在登记表中
func (e *Engine) IsRegistered(item *Item) bool {
	return e.placed.Has(item)
}

// RegisteredItems 登记表中的所有物品（包括已被 Remove 的）
// 顺序：已放置的按锚点（行优先）排序，未放置的排在最后，同位置按 ID
func (e *Engine) RegisteredItems() []*Item {
	items := make([]*Item, 0, e.placed.Size())
	e.placed.Each(func(item *Item) {
		items = append(items, item)
	})
	sortItems(items)
	return items
}

// PlacedItems 当前占有格子的物品，按锚点排序
func (e *Engine) PlacedItems() []*Item {
	all := e.RegisteredItems()
	items := all[:0]
	for _, item := range all {
		if item.IsPlaced() {
			items = append(items, item)
		}
	}
	return items
}

func sortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsPlaced() != b.IsPlaced() {
			return a.IsPlaced()
		}
		if a.GridY() != b.GridY() {
			return a.GridY() < b.GridY()
		}
		if a.GridX() != b.GridX() {
			return a.GridX() < b.GridX()
		}
		return a.ID() < b.ID()
	})
}

// FindFreeSpot 按行优先顺序查找第一个能容纳 width x height 的锚点
func (e *Engine) FindFreeSpot(width, height int) (x, y int, ok bool) {
	if width < 1 || height < 1 || width > e.width || height > e.height {
		return Unplaced, Unplaced, false
	}
	for y = 0; y <= e.height-height; y++ {
		for x = 0; x <= e.width-width; x++ {
			if e.CanPlace(x, y, width, height, nil) {
				return x, y, true
			}
		}
	}
	return Unplaced, Unplaced, false
}

// Highlight 高亮占地矩形内的格子
// 先清除已有高亮；越界的格子直接跳过。只影响显示。
func (e *Engine) Highlight(startX, startY, width, height int, valid bool) {
	e.ClearHighlight()

	x0, y0, x1, y1 := e.clip(startX, startY, width, height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			e.renderer.HighlightCell(x, y, valid)
		}
	}
}

// clip 把矩形裁剪到 [0,W)x[0,H)，返回半开区间 [x0,x1)x[y0,y1)
// 不与网格相交时 x0 >= x1 或 y0 >= y1
func (e *Engine) clip(startX, startY, width, height int) (x0, y0, x1, y1 int) {
	x0, x1 = clipSpan(startX, width, e.width)
	y0, y1 = clipSpan(startY, height, e.height)
	return x0, y0, x1, y1
}

// clipSpan 把 [start, start+length) 裁剪到 [0, limit)，不做可能溢出的加法
func clipSpan(start, length, limit int) (lo, hi int) {
	if length < 1 || start >= limit {
		return 0, 0
	}
	if start < 0 {
		// 负数加正数不会溢出
		return 0, min(start+length, limit)
	}
	if length > limit-start {
		return start, limit
	}
	return start, start + length
}
