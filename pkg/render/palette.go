package render

import (
	"hash/fnv"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/grid"
)

// Palette 渲染用颜色
// 颜色均为预乘 alpha 的 color.RGBA
type Palette struct {
	Normal     color.RGBA
	Valid      color.RGBA
	Invalid    color.RGBA
	Background color.RGBA

	items map[grid.ItemID]color.RGBA
}

// PaletteFromConfig 从网格配置生成调色板
// 配置了 ID 的演示物品直接登记颜色
func PaletteFromConfig(cfg *config.GridConfig) Palette {
	p := Palette{
		Normal:     cfg.Colors.Normal.RGBA(),
		Valid:      cfg.Colors.Valid.RGBA(),
		Invalid:    cfg.Colors.Invalid.RGBA(),
		Background: cfg.Colors.Background.RGBA(),
		items:      make(map[grid.ItemID]color.RGBA),
	}
	for _, spec := range cfg.Items {
		if spec.ID != "" {
			p.items[grid.ItemID(spec.ID)] = spec.Color.RGBA()
		}
	}
	return p
}

// SetItemColor 为物品指定颜色
func (p *Palette) SetItemColor(id grid.ItemID, c color.RGBA) {
	if p.items == nil {
		p.items = make(map[grid.ItemID]color.RGBA)
	}
	p.items[id] = c
}

// ItemColor 物品颜色，未指定时按 ID 散列出一个稳定的色相
func (p Palette) ItemColor(id grid.ItemID) color.RGBA {
	if c, ok := p.items[id]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	hue := float64(h.Sum32() % 360)
	r, g, b := colorful.Hsv(hue, 0.55, 0.9).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// CellColor 格子按高亮状态选择颜色
func (p Palette) CellColor(state HighlightState) color.RGBA {
	switch state {
	case HighlightValid:
		return p.Valid
	case HighlightInvalid:
		return p.Invalid
	default:
		return p.Normal
	}
}

// Blend 把预乘 alpha 的 c 叠加到不透明的 bg 上
func Blend(c, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(c.A)
	mix := func(fg, back uint8) uint8 {
		return uint8(uint32(fg) + uint32(back)*inv/255)
	}
	return color.RGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 255}
}
