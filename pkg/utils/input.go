// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerSample 一帧的指针状态
// 同时支持鼠标和触摸输入，触摸优先
type PointerSample struct {
	Pressed bool
	X, Y    int
	IsTouch bool
}

// 保存最后一次触摸位置（触摸释放的那一帧已经读不到位置）
var lastTouchX, lastTouchY int

// SamplePointer 读取当前帧的指针状态
func SamplePointer() PointerSample {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		lastTouchX, lastTouchY = ebiten.TouchPosition(touchIDs[0])
		return PointerSample{Pressed: true, X: lastTouchX, Y: lastTouchY, IsTouch: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		X:       x,
		Y:       y,
	}
}

// ============================================================================
// 指针拖拽跟踪
// ============================================================================

// PointerPhase 指针拖拽阶段
type PointerPhase int

const (
	// PointerIdle 无按下
	PointerIdle PointerPhase = iota
	// PointerPressed 本帧刚按下
	PointerPressed
	// PointerDragging 按住移动
	PointerDragging
	// PointerReleased 本帧刚释放，只持续一帧
	PointerReleased
)

// PointerInfo 拖拽信息（屏幕坐标）
type PointerInfo struct {
	Phase              PointerPhase
	StartX, StartY     int
	CurrentX, CurrentY int
	IsTouch            bool
}

// PointerTracker 把逐帧采样转换为 按下/拖拽/释放 三个阶段
// Feed 不依赖 ebiten，可以直接用采样序列测试
type PointerTracker struct {
	info PointerInfo
}

// NewPointerTracker 创建跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Update 采样并推进一帧（每帧调用一次）
func (pt *PointerTracker) Update() PointerInfo {
	return pt.Feed(SamplePointer())
}

// Feed 用一帧采样推进状态
func (pt *PointerTracker) Feed(s PointerSample) PointerInfo {
	switch pt.info.Phase {
	case PointerIdle, PointerReleased:
		if s.Pressed {
			pt.info = PointerInfo{
				Phase:    PointerPressed,
				StartX:   s.X,
				StartY:   s.Y,
				CurrentX: s.X,
				CurrentY: s.Y,
				IsTouch:  s.IsTouch,
			}
		} else {
			pt.info = PointerInfo{Phase: PointerIdle, CurrentX: s.X, CurrentY: s.Y}
		}

	case PointerPressed, PointerDragging:
		if s.Pressed {
			pt.info.Phase = PointerDragging
			pt.info.CurrentX, pt.info.CurrentY = s.X, s.Y
		} else {
			pt.info.Phase = PointerReleased
			// 鼠标释放时位置仍有效；触摸沿用最后位置
			if !pt.info.IsTouch {
				pt.info.CurrentX, pt.info.CurrentY = s.X, s.Y
			}
		}
	}
	return pt.info
}

// Info 当前拖拽信息
func (pt *PointerTracker) Info() PointerInfo {
	return pt.info
}

// Reset 重置为空闲
func (pt *PointerTracker) Reset() {
	pt.info = PointerInfo{}
}
