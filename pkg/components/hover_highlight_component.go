package components

// HoverHighlightComponent 悬停高亮组件
// 指针悬停在可抓取的物品上时激活，用于绘制描边
type HoverHighlightComponent struct {
	// Intensity 高亮强度（0.0 - 1.0）
	Intensity float64

	// IsActive 是否激活
	IsActive bool
}
