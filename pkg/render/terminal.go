package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/gridbag/pkg/grid"
)

// TerminalRenderer 在 tcell 屏幕上绘制网格
//
// 每个格子占 CellCols x CellRows 个字符，格子之间空一列/一行。
// 拖拽坐标换算见 ContainerPoint。
type TerminalRenderer struct {
	screen     tcell.Screen
	palette    Palette
	highlights *HighlightMap

	CellCols int // 每个格子的字符宽度，默认 4
	CellRows int // 每个格子的字符高度，默认 2
	OriginX  int // 网格左上角所在列
	OriginY  int // 网格左上角所在行
}

// NewTerminalRenderer 创建终端渲染器
func NewTerminalRenderer(screen tcell.Screen, palette Palette, highlights *HighlightMap) *TerminalRenderer {
	return &TerminalRenderer{
		screen:     screen,
		palette:    palette,
		highlights: highlights,
		CellCols:   4,
		CellRows:   2,
		OriginX:    2,
		OriginY:    2,
	}
}

func (r *TerminalRenderer) pitchCols() int { return r.CellCols + 1 }
func (r *TerminalRenderer) pitchRows() int { return r.CellRows + 1 }

// CellScreenPos 格子 (x, y) 左上角的屏幕位置
func (r *TerminalRenderer) CellScreenPos(x, y int) (col, row int) {
	return r.OriginX + x*r.pitchCols(), r.OriginY + y*r.pitchRows()
}

// ContainerPoint 把屏幕位置换算为引擎容器坐标
// 结果可以直接传给 grid.DragSession；屏幕上的一个格子步长对应引擎的 cellSize+spacing
func (r *TerminalRenderer) ContainerPoint(e *grid.Engine, col, row int) (px, py float64) {
	pitch := e.CellSize() + e.Spacing()
	gx := float64(col-r.OriginX) / float64(r.pitchCols())
	gy := float64(row-r.OriginY) / float64(r.pitchRows())
	return gx * pitch, -gy * pitch
}

// CellAt 屏幕位置对应的格子，落在间隔或网格外时 ok 为 false
func (r *TerminalRenderer) CellAt(e *grid.Engine, col, row int) (x, y int, ok bool) {
	dc, dr := col-r.OriginX, row-r.OriginY
	if dc < 0 || dr < 0 {
		return 0, 0, false
	}
	x, y = dc/r.pitchCols(), dr/r.pitchRows()
	if dc%r.pitchCols() >= r.CellCols || dr%r.pitchRows() >= r.CellRows {
		return x, y, false
	}
	return x, y, x < e.Width() && y < e.Height()
}

// Size 网格在屏幕上占用的字符数
func (r *TerminalRenderer) Size(e *grid.Engine) (cols, rows int) {
	return e.Width()*r.pitchCols() - 1, e.Height()*r.pitchRows() - 1
}

// Draw 清屏并绘制格子和已放置的物品，不调用 Show
func (r *TerminalRenderer) Draw(e *grid.Engine) {
	bg := toTCell(r.palette.Background)
	r.screen.SetStyle(tcell.StyleDefault.Background(bg))
	r.screen.Clear()

	for y := 0; y < e.Height(); y++ {
		for x := 0; x < e.Width(); x++ {
			c := Blend(r.palette.CellColor(r.highlights.State(x, y)), r.palette.Background)
			col, row := r.CellScreenPos(x, y)
			r.fill(col, row, r.CellCols, r.CellRows, tcell.StyleDefault.Background(toTCell(c)))
		}
	}

	for _, item := range e.PlacedItems() {
		r.drawItem(e, item, item.GridX(), item.GridY())
	}
}

// DrawFloating 在任意屏幕位置绘制被拖拽的物品
func (r *TerminalRenderer) DrawFloating(item *grid.Item, col, row int) {
	w := item.Width()*r.pitchCols() - 1
	h := item.Height()*r.pitchRows() - 1
	style := tcell.StyleDefault.Background(toTCell(r.palette.ItemColor(item.ID()))).Foreground(tcell.ColorBlack)
	r.fill(col, row, w, h, style)
	r.label(col, row, w, item, style)
}

// DrawText 绘制一行文字
func (r *TerminalRenderer) DrawText(col, row int, text string) {
	style := tcell.StyleDefault.Background(toTCell(r.palette.Background)).Foreground(tcell.ColorWhite)
	for i, ch := range []rune(text) {
		r.screen.SetContent(col+i, row, ch, nil, style)
	}
}

func (r *TerminalRenderer) drawItem(e *grid.Engine, item *grid.Item, x, y int) {
	// 缩小后物品可能部分越界，只画网格内的部分
	w := min(item.Width(), e.Width()-x)*r.pitchCols() - 1
	h := min(item.Height(), e.Height()-y)*r.pitchRows() - 1
	if w <= 0 || h <= 0 {
		return
	}
	col, row := r.CellScreenPos(x, y)
	style := tcell.StyleDefault.Background(toTCell(r.palette.ItemColor(item.ID()))).Foreground(tcell.ColorBlack)
	r.fill(col, row, w, h, style)
	r.label(col, row, w, item, style)
}

func (r *TerminalRenderer) label(col, row, width int, item *grid.Item, style tcell.Style) {
	text := []rune(string(item.ID()))
	if len(text) > width {
		text = text[:width]
	}
	for i, ch := range text {
		r.screen.SetContent(col+i, row, ch, nil, style)
	}
}

func (r *TerminalRenderer) fill(col, row, w, h int, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			r.screen.SetContent(col+dx, row+dy, ' ', nil, style)
		}
	}
}

func toTCell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
