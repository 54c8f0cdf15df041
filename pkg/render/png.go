package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/decker502/gridbag/pkg/grid"
)

// PNGRenderer 用 gg 把网格画成图片
// 引擎容器坐标的 y 轴向下为负，这里翻转为图片坐标
type PNGRenderer struct {
	palette    Palette
	highlights *HighlightMap

	Scale  float64 // 容器坐标到像素的缩放，默认 1
	Margin float64 // 四周留白（像素），默认 10
}

// NewPNGRenderer 创建 PNG 渲染器，highlights 可为 nil
func NewPNGRenderer(palette Palette, highlights *HighlightMap) *PNGRenderer {
	if highlights == nil {
		highlights = NewHighlightMap()
	}
	return &PNGRenderer{
		palette:    palette,
		highlights: highlights,
		Scale:      1,
		Margin:     10,
	}
}

// ImageSize 输出图片尺寸
func (r *PNGRenderer) ImageSize(e *grid.Engine) (w, h int) {
	cw, ch := e.ContainerSize()
	return int(cw*r.Scale + 2*r.Margin), int(ch*r.Scale + 2*r.Margin)
}

// CellRect 格子 (x, y) 在图片中的矩形（左上角和边长）
func (r *PNGRenderer) CellRect(e *grid.Engine, x, y int) (px, py, size float64) {
	ox, oy := e.CellOrigin(x, y)
	return r.Margin + ox*r.Scale, r.Margin - oy*r.Scale, e.CellSize() * r.Scale
}

// Render 绘制格子、高亮和已放置的物品
func (r *PNGRenderer) Render(e *grid.Engine) image.Image {
	w, h := r.ImageSize(e)
	dc := gg.NewContext(w, h)
	dc.SetColor(r.palette.Background)
	dc.Clear()

	for y := 0; y < e.Height(); y++ {
		for x := 0; x < e.Width(); x++ {
			px, py, size := r.CellRect(e, x, y)
			dc.SetColor(r.palette.CellColor(r.highlights.State(x, y)))
			dc.DrawRectangle(px, py, size, size)
			dc.Fill()
		}
	}

	for _, item := range e.PlacedItems() {
		px, py, _ := r.CellRect(e, item.GridX(), item.GridY())
		iw, ih := e.FootprintSize(item.Width(), item.Height())
		iw, ih = iw*r.Scale, ih*r.Scale

		dc.SetColor(r.palette.ItemColor(item.ID()))
		dc.DrawRectangle(px, py, iw, ih)
		dc.Fill()

		dc.SetRGBA(0, 0, 0, 0.8)
		dc.SetLineWidth(2)
		dc.DrawRectangle(px+1, py+1, iw-2, ih-2)
		dc.Stroke()
		dc.DrawStringAnchored(shortID(item.ID()), px+6, py+6, 0, 1)
	}

	return dc.Image()
}

// SavePNG 渲染并写入 PNG 文件
func (r *PNGRenderer) SavePNG(e *grid.Engine, path string) error {
	img := r.Render(e)
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save png %s: %w", path, err)
	}
	return nil
}

// shortID 截断 UUID 之类的长 ID
func shortID(id grid.ItemID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
