package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/decker502/gridbag/pkg/grid"
)

// GridConfig 网格配置文件（YAML）
//
// 示例：
//
//	grid:
//	  width: 3
//	  height: 3
//	  cellSize: 100
//	  spacing: 5
//	colors:
//	  valid: {hex: "#80FF80", alpha: 0.7}
//	items:
//	  - {width: 2, height: 2, color: {hex: "#FFFF00"}}
type GridConfig struct {
	Grid    GridSection    `yaml:"grid"`    // 引擎构造参数
	Screen  ScreenSection  `yaml:"screen"`  // 网格容器在窗口中的位置
	Colors  ColorSection   `yaml:"colors"`  // 格子颜色
	Items   []ItemSpec     `yaml:"items"`   // 演示用物品
	Storage StorageSection `yaml:"storage"` // 布局存储
}

// GridSection 引擎构造参数，与 grid.Config 一一对应
type GridSection struct {
	Width     int     `yaml:"width"`     // 初始列数，默认 3
	Height    int     `yaml:"height"`    // 初始行数，默认 3
	CellSize  float64 `yaml:"cellSize"`  // 格子边长，默认 100
	Spacing   float64 `yaml:"spacing"`   // 格子间距，默认 5（设为负数表示 0）
	MinSize   int     `yaml:"minSize"`   // 最小尺寸，默认 1
	MaxWidth  int     `yaml:"maxWidth"`  // 最大列数，默认 10
	MaxHeight int     `yaml:"maxHeight"` // 最大行数，默认 10
}

// ScreenSection 网格容器左上角的屏幕坐标，以及格子的显示缩放
type ScreenSection struct {
	OriginX float64 `yaml:"originX"` // 默认 40
	OriginY float64 `yaml:"originY"` // 默认 60
	Scale   float64 `yaml:"scale"`   // 容器坐标到屏幕像素的缩放，默认 1
}

// ColorSpec 颜色：十六进制 RGB + 透明度
type ColorSpec struct {
	Hex   string  `yaml:"hex"`   // 如 "#CCCCCC"
	Alpha float64 `yaml:"alpha"` // 0.0 ~ 1.0，0 表示使用默认值
}

// ColorSection 格子和背景颜色
type ColorSection struct {
	Normal     ColorSpec `yaml:"normal"`     // 普通格子
	Valid      ColorSpec `yaml:"valid"`      // 可放置高亮
	Invalid    ColorSpec `yaml:"invalid"`    // 不可放置高亮
	Background ColorSpec `yaml:"background"` // 窗口背景
}

// ItemSpec 演示物品
// X/Y 为空时物品放在托盘里（未放置）
type ItemSpec struct {
	ID     string    `yaml:"id"`
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
	Color  ColorSpec `yaml:"color"`
	X      *int      `yaml:"x"`
	Y      *int      `yaml:"y"`
}

// StorageSection 布局存储配置
type StorageSection struct {
	Backend    string `yaml:"backend"`    // "gdata"（默认）、"sqlite" 或 "memory"
	AppName    string `yaml:"appName"`    // gdata 应用名，默认 "gridbag"
	SQLitePath string `yaml:"sqlitePath"` // sqlite 数据库路径，默认 "gridbag.db"
	Slot       string `yaml:"slot"`       // 快捷保存/读取使用的布局名，默认 "quicksave"
}

// 存储后端
const (
	StorageGData  = "gdata"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// DefaultGridConfig 返回默认配置
// 3x3 网格，演示物品为 1x1、2x1、1x2、2x2 四个
func DefaultGridConfig() *GridConfig {
	cfg := &GridConfig{}
	applyGridDefaults(cfg)
	cfg.Items = []ItemSpec{
		{ID: "red", Width: 1, Height: 1, Color: ColorSpec{Hex: "#FF0000", Alpha: 1}},
		{ID: "blue", Width: 2, Height: 1, Color: ColorSpec{Hex: "#0000FF", Alpha: 1}},
		{ID: "green", Width: 1, Height: 2, Color: ColorSpec{Hex: "#00FF00", Alpha: 1}},
		{ID: "yellow", Width: 2, Height: 2, Color: ColorSpec{Hex: "#FFFF00", Alpha: 1}},
	}
	return cfg
}

// LoadGridConfig 从 YAML 文件加载网格配置
//
// 参数：
//
//	path - 配置文件路径
//
// 返回：
//
//	*GridConfig - 应用默认值并通过校验的配置
//	error - 读取、解析或校验失败
func LoadGridConfig(path string) (*GridConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid config file %s: %w", path, err)
	}
	return ParseGridConfig(data, path)
}

// ParseGridConfig 解析 YAML 数据，source 仅用于错误信息
func ParseGridConfig(data []byte, source string) (*GridConfig, error) {
	var cfg GridConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse grid config YAML from %s: %w", source, err)
	}

	applyGridDefaults(&cfg)

	if err := validateGridConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid grid config in %s: %w", source, err)
	}
	return &cfg, nil
}

// applyGridDefaults 为缺失字段设置默认值
func applyGridDefaults(cfg *GridConfig) {
	g := &cfg.Grid
	if g.Width == 0 {
		g.Width = 3
	}
	if g.Height == 0 {
		g.Height = 3
	}
	if g.CellSize == 0 {
		g.CellSize = 100
	}
	// 0 是合法间距，无法与"未配置"区分：约定负数表示 0
	if g.Spacing == 0 {
		g.Spacing = 5
	} else if g.Spacing < 0 {
		g.Spacing = 0
	}
	if g.MinSize == 0 {
		g.MinSize = 1
	}
	if g.MaxWidth == 0 {
		g.MaxWidth = 10
	}
	if g.MaxHeight == 0 {
		g.MaxHeight = 10
	}

	if cfg.Screen.OriginX == 0 && cfg.Screen.OriginY == 0 {
		cfg.Screen.OriginX = 40
		cfg.Screen.OriginY = 60
	}
	if cfg.Screen.Scale == 0 {
		cfg.Screen.Scale = 1
	}

	// 格子默认配色
	defaultColor(&cfg.Colors.Normal, "#CCCCCC", 0.5)
	defaultColor(&cfg.Colors.Valid, "#80FF80", 0.7)
	defaultColor(&cfg.Colors.Invalid, "#FF8080", 0.7)
	defaultColor(&cfg.Colors.Background, "#303030", 1)
	for i := range cfg.Items {
		defaultColor(&cfg.Items[i].Color, "#FFFFFF", 1)
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageGData
	}
	if cfg.Storage.AppName == "" {
		cfg.Storage.AppName = "gridbag"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "gridbag.db"
	}
	if cfg.Storage.Slot == "" {
		cfg.Storage.Slot = "quicksave"
	}
}

func defaultColor(c *ColorSpec, hex string, alpha float64) {
	if c.Hex == "" {
		c.Hex = hex
	}
	if c.Alpha == 0 {
		c.Alpha = alpha
	}
}

// validateGridConfig 校验配置的合法性
func validateGridConfig(cfg *GridConfig) error {
	if err := cfg.EngineConfig().Validate(); err != nil {
		return err
	}

	if cfg.Screen.Scale < 0 {
		return fmt.Errorf("screen scale must be > 0, got %v", cfg.Screen.Scale)
	}

	colors := map[string]ColorSpec{
		"normal":     cfg.Colors.Normal,
		"valid":      cfg.Colors.Valid,
		"invalid":    cfg.Colors.Invalid,
		"background": cfg.Colors.Background,
	}
	for name, c := range colors {
		if err := c.validate(); err != nil {
			return fmt.Errorf("color %s: %w", name, err)
		}
	}

	seen := make(map[string]bool, len(cfg.Items))
	for i, item := range cfg.Items {
		if item.ID != "" {
			if seen[item.ID] {
				return fmt.Errorf("item %d: duplicate id %q", i, item.ID)
			}
			seen[item.ID] = true
		}
		if item.Width < 1 || item.Height < 1 {
			return fmt.Errorf("item %d: footprint %dx%d must be at least 1x1", i, item.Width, item.Height)
		}
		if (item.X == nil) != (item.Y == nil) {
			return fmt.Errorf("item %d: x and y must be set together", i)
		}
		if err := item.Color.validate(); err != nil {
			return fmt.Errorf("item %d color: %w", i, err)
		}
	}

	switch cfg.Storage.Backend {
	case StorageGData, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return nil
}

// EngineConfig 转换为引擎构造参数
func (cfg *GridConfig) EngineConfig() grid.Config {
	return grid.Config{
		Width:     cfg.Grid.Width,
		Height:    cfg.Grid.Height,
		CellSize:  cfg.Grid.CellSize,
		Spacing:   cfg.Grid.Spacing,
		MinSize:   cfg.Grid.MinSize,
		MaxWidth:  cfg.Grid.MaxWidth,
		MaxHeight: cfg.Grid.MaxHeight,
	}
}

func (c ColorSpec) validate() error {
	if _, err := colorful.Hex(c.Hex); err != nil {
		return fmt.Errorf("invalid hex color %q: %w", c.Hex, err)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %v outside [0, 1]", c.Alpha)
	}
	return nil
}

// RGBA 转换为预乘 alpha 的 color.RGBA
// 十六进制非法时返回品红色，便于在画面上发现配置错误
func (c ColorSpec) RGBA() color.RGBA {
	parsed, err := colorful.Hex(c.Hex)
	if err != nil {
		return color.RGBA{R: 255, B: 255, A: 255}
	}
	alpha := c.Alpha
	if alpha == 0 {
		alpha = 1
	}
	r, g, b := parsed.RGB255()
	return color.RGBA{
		R: uint8(float64(r) * alpha),
		G: uint8(float64(g) * alpha),
		B: uint8(float64(b) * alpha),
		A: uint8(255 * alpha),
	}
}
