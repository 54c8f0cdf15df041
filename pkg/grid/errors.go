package grid

import "errors"

// 引擎的拒绝原因
// 主 API（CanPlace/Place/Resize 等）只返回 bool，
// Check* 系列方法返回下列哨兵错误，调用方可使用 errors.Is 判断具体原因
var (
	// ErrInvalidConfig 构造参数非法（尺寸、上下限、格子大小）
	ErrInvalidConfig = errors.New("invalid grid config")

	// ErrInvalidFootprint 物品宽或高小于 1
	ErrInvalidFootprint = errors.New("invalid item footprint")

	// ErrOutOfBounds 占地矩形超出网格边界
	ErrOutOfBounds = errors.New("footprint out of grid bounds")

	// ErrCellOccupied 占地矩形与其他物品占用的格子重叠
	ErrCellOccupied = errors.New("cell occupied by another item")

	// ErrSizeLimit 目标尺寸低于最小值或超过最大值
	ErrSizeLimit = errors.New("grid size out of limits")

	// ErrShrinkOccupied 缩小网格会移除被占用的格子
	ErrShrinkOccupied = errors.New("shrink would remove occupied cells")

	// ErrNilItem 传入的物品为 nil
	ErrNilItem = errors.New("nil item")

	// ErrDragInProgress 已有拖拽进行中
	ErrDragInProgress = errors.New("drag already in progress")
)
