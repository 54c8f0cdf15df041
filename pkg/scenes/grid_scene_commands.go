package scenes

import (
	"errors"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/gridbag/pkg/entities"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/render"
)

// Command 网格场景的键盘命令
type Command int

const (
	CmdNone Command = iota
	CmdAddColumn
	CmdRemoveColumn
	CmdAddRow
	CmdRemoveRow
	CmdSave
	CmdLoad
	CmdLoadAutosave
	CmdClear
	CmdPack
	CmdCancelDrag
	CmdExport
	CmdReset
)

// keyBinding 按键与命令的对应关系，同时用于生成帮助文本
type keyBinding struct {
	key   ebiten.Key
	label string
	cmd   Command
	help  string
}

var keyBindings = []keyBinding{
	{ebiten.KeyArrowRight, "Right", CmdAddColumn, "+col"},
	{ebiten.KeyArrowLeft, "Left", CmdRemoveColumn, "-col"},
	{ebiten.KeyArrowDown, "Down", CmdAddRow, "+row"},
	{ebiten.KeyArrowUp, "Up", CmdRemoveRow, "-row"},
	{ebiten.KeyS, "S", CmdSave, "save"},
	{ebiten.KeyL, "L", CmdLoad, "load"},
	{ebiten.KeyA, "A", CmdLoadAutosave, "autosave"},
	{ebiten.KeyC, "C", CmdClear, "clear"},
	{ebiten.KeyP, "P", CmdPack, "pack"},
	{ebiten.KeyE, "E", CmdExport, "export"},
	{ebiten.KeyR, "R", CmdReset, "reset"},
	{ebiten.KeyEscape, "Esc", CmdCancelDrag, "cancel"},
}

// pressedCommands 本帧刚按下的按键对应的命令
func pressedCommands() []Command {
	var cmds []Command
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}

// HandleCommand 执行一条命令，结果写入状态栏
// 返回 false 表示命令被拒绝或失败
func (s *GridScene) HandleCommand(cmd Command) bool {
	switch cmd {
	case CmdAddColumn:
		return s.resize(s.engine.Width()+1, s.engine.Height())
	case CmdRemoveColumn:
		return s.resize(s.engine.Width()-1, s.engine.Height())
	case CmdAddRow:
		return s.resize(s.engine.Width(), s.engine.Height()+1)
	case CmdRemoveRow:
		return s.resize(s.engine.Width(), s.engine.Height()-1)
	case CmdSave:
		return s.save(s.cfg.Storage.Slot)
	case CmdLoad:
		return s.load(s.cfg.Storage.Slot)
	case CmdLoadAutosave:
		return s.load(layout.AutosaveSlot)
	case CmdClear:
		s.inputSystem.CancelDrag()
		s.engine.Clear()
		s.setStatus("grid cleared")
		return true
	case CmdPack:
		return s.pack()
	case CmdCancelDrag:
		if _, ok := s.inputSystem.Dragged(); !ok {
			return false
		}
		s.inputSystem.CancelDrag()
		return true
	case CmdExport:
		return s.export(s.cfg.Storage.Slot)
	case CmdReset:
		if s.sceneManager == nil || !s.sceneManager.Reload() {
			s.setStatus("reset unavailable")
			return false
		}
		return true
	default:
		return false
	}
}

// resize 先用 CheckResize 取得拒绝原因，再调整尺寸
func (s *GridScene) resize(width, height int) bool {
	if err := s.engine.CheckResize(width, height); err != nil {
		s.setStatus("resize rejected: %v", err)
		return false
	}
	s.engine.SetGridSize(width, height)
	s.setStatus("grid resized to %dx%d", width, height)
	return true
}

func (s *GridScene) save(name string) bool {
	if s.store == nil {
		s.setStatus("no layout store")
		return false
	}
	snap := layout.Capture(s.engine)
	if err := s.store.Save(name, snap); err != nil {
		s.setStatus("save %q failed: %v", name, err)
		return false
	}
	s.setStatus("saved %d items to %q", len(snap.Items), name)
	return true
}

// load 读取布局并恢复到引擎
// 快照里的物品优先复用场景中已有的同 ID 物品，其余新建实体；
// 不在快照里的物品回到托盘
func (s *GridScene) load(name string) bool {
	if s.store == nil {
		s.setStatus("no layout store")
		return false
	}
	snap, err := s.store.Load(name)
	if err != nil {
		s.setStatus("load %q failed: %v", name, err)
		return false
	}

	s.inputSystem.CancelDrag()
	items, err := layout.Restore(s.engine, snap, layout.RestoreOptions{
		Repack: true,
		Lookup: entities.ItemLookup(s.entityManager),
	})
	s.adoptItems(items)

	switch {
	case errors.Is(err, layout.ErrRestorePlacement):
		s.setStatus("loaded %q with misplaced items: %v", name, err)
		return false
	case err != nil:
		s.setStatus("load %q failed: %v", name, err)
		return false
	}
	s.setStatus("loaded %q (%dx%d, %d items)", name, snap.Width, snap.Height, len(items))
	return true
}

// pack 把托盘里的物品依次放到第一个空位
func (s *GridScene) pack() bool {
	placed, left := 0, 0
	for _, item := range s.trayItems() {
		x, y, ok := s.engine.FindFreeSpot(item.Width(), item.Height())
		if ok && s.engine.Place(item, x, y) {
			placed++
			continue
		}
		left++
	}
	s.setStatus("packed %d items, %d left in tray", placed, left)
	return left == 0
}

// export 把当前布局写成 <name>.gridz 和 <name>.png
func (s *GridScene) export(name string) bool {
	snap := layout.Capture(s.engine)
	base := filepath.Join(s.ExportDir, name)

	if err := layout.WriteFile(base+layout.FileExt, snap); err != nil {
		s.setStatus("export failed: %v", err)
		return false
	}
	if err := render.NewPNGRenderer(s.palette, nil).SavePNG(s.engine, base+".png"); err != nil {
		s.setStatus("export failed: %v", err)
		return false
	}
	s.setStatus("exported %s%s and %s.png", name, layout.FileExt, name)
	return true
}
