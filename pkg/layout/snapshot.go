// Package layout 保存与恢复网格布局
//
// 引擎本身不做持久化，本包在引擎之外把网格尺寸和已放置物品
// 抓取成 Snapshot，并提供编解码与存储后端。
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/decker502/gridbag/pkg/grid"
)

// SnapshotVersion 当前快照格式版本
const SnapshotVersion = 1

var (
	// ErrInvalidSnapshot 快照结构非法
	ErrInvalidSnapshot = errors.New("invalid layout snapshot")
	// ErrRestoreResize 快照尺寸超出引擎的尺寸限制
	ErrRestoreResize = errors.New("layout size outside engine limits")
	// ErrRestorePlacement 部分物品无法放回
	ErrRestorePlacement = errors.New("layout items could not be placed")
	// ErrLayoutNotFound 存储中没有该名称的布局
	ErrLayoutNotFound = errors.New("layout not found")
)

// ItemRecord 一个已放置物品
type ItemRecord struct {
	ID     string `json:"id" yaml:"id"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Snapshot 网格布局快照
type Snapshot struct {
	Version int          `json:"version" yaml:"version"`
	Width   int          `json:"width" yaml:"width"`
	Height  int          `json:"height" yaml:"height"`
	Items   []ItemRecord `json:"items" yaml:"items"`
}

// Capture 抓取引擎当前的尺寸和已放置物品
// 物品按锚点行优先排序，相同布局得到相同快照
func Capture(e *grid.Engine) Snapshot {
	placed := e.PlacedItems()
	s := Snapshot{
		Version: SnapshotVersion,
		Width:   e.Width(),
		Height:  e.Height(),
		Items:   make([]ItemRecord, 0, len(placed)),
	}
	for _, item := range placed {
		s.Items = append(s.Items, ItemRecord{
			ID:     string(item.ID()),
			X:      item.GridX(),
			Y:      item.GridY(),
			Width:  item.Width(),
			Height: item.Height(),
		})
	}
	return s
}

// Validate 检查快照的结构
// 越界与重叠不在这里判断，它们属于放置失败，由 Restore 处理
func (s Snapshot) Validate() error {
	if s.Version < 1 || s.Version > SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSnapshot, s.Width, s.Height)
	}

	seen := make(map[string]bool, len(s.Items))
	for i, rec := range s.Items {
		if rec.ID == "" {
			return fmt.Errorf("%w: item %d has empty id", ErrInvalidSnapshot, i)
		}
		if seen[rec.ID] {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidSnapshot, rec.ID)
		}
		seen[rec.ID] = true
		if rec.Width < 1 || rec.Height < 1 {
			return fmt.Errorf("%w: item %q footprint %dx%d", ErrInvalidSnapshot, rec.ID, rec.Width, rec.Height)
		}
	}
	return nil
}

// RestoreOptions 恢复选项
type RestoreOptions struct {
	// Repack 为真时，放不回原锚点的物品改放到第一个空位
	Repack bool
	// Lookup 按 ID 复用调用方已有的物品（尺寸需一致），为 nil 或返回 nil 时新建
	Lookup func(id grid.ItemID) *grid.Item
}

// Restore 用快照替换引擎的内容
//
// 参数：
//
//	e - 目标引擎
//	s - 快照
//	opts - 恢复选项
//
// 返回：
//
//	[]*grid.Item - 按快照顺序的物品，放置失败的保持未放置
//	error - ErrInvalidSnapshot / ErrRestoreResize 时引擎未被修改
//	        （包括物品占地超过最大网格尺寸）；
//	        ErrRestorePlacement 时其余物品已放好
func Restore(e *grid.Engine, s Snapshot, opts RestoreOptions) ([]*grid.Item, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := checkLimits(e, s); err != nil {
		return nil, err
	}

	items := make([]*grid.Item, 0, len(s.Items))
	for _, rec := range s.Items {
		item, err := resolveItem(rec, opts.Lookup)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	e.Clear()
	e.SetGridSize(s.Width, s.Height)

	var failed []string
	for i, rec := range s.Items {
		item := items[i]
		if e.Place(item, rec.X, rec.Y) {
			continue
		}
		if opts.Repack {
			if x, y, ok := e.FindFreeSpot(item.Width(), item.Height()); ok && e.Place(item, x, y) {
				continue
			}
		}
		failed = append(failed, rec.ID)
	}

	if len(failed) > 0 {
		return items, fmt.Errorf("%w: %s", ErrRestorePlacement, strings.Join(failed, ", "))
	}
	return items, nil
}

func checkLimits(e *grid.Engine, s Snapshot) error {
	minSize, maxWidth, maxHeight := e.Limits()
	if s.Width < minSize || s.Width > maxWidth || s.Height < minSize || s.Height > maxHeight {
		return fmt.Errorf("%w: %dx%d not within [%d, %dx%d]", ErrRestoreResize, s.Width, s.Height, minSize, maxWidth, maxHeight)
	}
	// 比最大网格还大的物品永远放不下
	for _, rec := range s.Items {
		if rec.Width > maxWidth || rec.Height > maxHeight {
			return fmt.Errorf("%w: item %q footprint %dx%d exceeds maximum grid %dx%d",
				ErrInvalidSnapshot, rec.ID, rec.Width, rec.Height, maxWidth, maxHeight)
		}
	}
	return nil
}

func resolveItem(rec ItemRecord, lookup func(grid.ItemID) *grid.Item) (*grid.Item, error) {
	id := grid.ItemID(rec.ID)
	if lookup != nil {
		if item := lookup(id); item != nil {
			if item.Width() != rec.Width || item.Height() != rec.Height {
				return nil, fmt.Errorf("%w: item %q is %dx%d, snapshot says %dx%d",
					ErrInvalidSnapshot, rec.ID, item.Width(), item.Height(), rec.Width, rec.Height)
			}
			return item, nil
		}
	}
	return grid.NewItemWithID(id, rec.Width, rec.Height)
}
