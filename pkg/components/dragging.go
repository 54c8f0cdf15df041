package components

// DraggingComponent 正在被拖拽的实体才有此组件
type DraggingComponent struct {
	// 按下时指针相对物品左上角的偏移，保持抓取点不变
	GrabOffsetX, GrabOffsetY float64
}
