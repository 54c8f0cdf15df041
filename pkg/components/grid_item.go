package components

import (
	"image/color"

	"github.com/decker502/gridbag/pkg/grid"
)

// GridItemComponent 把实体绑定到网格物品
//
// 物品放在网格上时，位置由引擎锚点决定；
// 未放置时回到托盘位置 (TrayX, TrayY)。
type GridItemComponent struct {
	Item  *grid.Item
	Color color.RGBA

	// 托盘中的屏幕位置
	TrayX, TrayY float64
}
