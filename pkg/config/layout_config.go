package config

// 布局配置常量
// 本文件定义了演示窗口的布局参数：窗口尺寸、托盘（未放置物品区域）位置等
// 网格容器本身的位置来自 GridConfig.Screen

const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 1024

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 768

	// TrayOriginX 托盘左上角X坐标
	// 未放置的物品按顺序排列在托盘中，位于网格最大宽度的右侧
	TrayOriginX = 720.0

	// TrayOriginY 托盘左上角Y坐标
	TrayOriginY = 60.0

	// TrayCellSize 托盘中每个格子的显示边长
	// 托盘里的物品按比例缩小显示，避免占满屏幕
	TrayCellSize = 40.0

	// TrayItemGap 托盘中物品之间的间距
	TrayItemGap = 12.0

	// DragAlpha 拖拽中物品的透明度
	DragAlpha = 0.6

	// StatusLineY 底部状态文本的Y坐标
	StatusLineY = GameWindowHeight - 24
)

// GetTraySlot 返回托盘中第 index 个物品的左上角屏幕坐标
// 托盘为单列，每个物品占据 height*TrayCellSize + TrayItemGap 的高度
//
// 参数：
//   - heights: 托盘中物品的高度（格子数），按排列顺序
//   - index: 物品序号
//
// 返回：
//   - x, y: 屏幕坐标
func GetTraySlot(heights []int, index int) (x, y float64) {
	y = TrayOriginY
	for i := 0; i < index && i < len(heights); i++ {
		y += float64(heights[i])*TrayCellSize + TrayItemGap
	}
	return TrayOriginX, y
}
