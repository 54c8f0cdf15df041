package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/render"
)

// trayEntry 托盘中一个物品的屏幕矩形
type trayEntry struct {
	item         *grid.Item
	col, row     int
	width, depth int
}

func (t trayEntry) contains(col, row int) bool {
	return col >= t.col && col < t.col+t.width && row >= t.row && row < t.row+t.depth
}

// gridTUI 终端版网格编辑器
//
// 鼠标左键拖拽物品，方向键增删行列，s/l 保存读取，q 退出。
// 未放置的物品排在网格最大宽度右侧的托盘里。
type gridTUI struct {
	screen     tcell.Screen
	engine     *grid.Engine
	session    *grid.DragSession
	highlights *render.HighlightMap
	palette    render.Palette
	renderer   *render.TerminalRenderer
	store      layout.Store
	slot       string

	items []*grid.Item // 按创建顺序

	dragging         bool
	grabCol, grabRow int
	mouseCol         int
	mouseRow         int

	status string
}

func newGridTUI(screen tcell.Screen, cfg *config.GridConfig, store layout.Store) (*gridTUI, error) {
	highlights := render.NewHighlightMap()
	engine, err := grid.Initialize(cfg.EngineConfig(), grid.WithRenderer(highlights))
	if err != nil {
		return nil, fmt.Errorf("failed to create grid engine: %w", err)
	}

	t := &gridTUI{
		screen:     screen,
		engine:     engine,
		session:    grid.NewDragSession(engine, grid.RevertRestore),
		highlights: highlights,
		palette:    render.PaletteFromConfig(cfg),
		store:      store,
		slot:       cfg.Storage.Slot,
	}
	t.renderer = render.NewTerminalRenderer(screen, t.palette, highlights)

	for i, spec := range cfg.Items {
		item, err := grid.NewItemWithID(grid.ItemID(spec.ID), spec.Width, spec.Height)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		t.palette.SetItemColor(item.ID(), spec.Color.RGBA())
		t.items = append(t.items, item)
		if spec.X != nil && spec.Y != nil {
			engine.Place(item, *spec.X, *spec.Y)
		}
	}

	t.setStatus("%dx%d grid, drag items with the mouse", engine.Width(), engine.Height())
	return t, nil
}

// footprint 物品在终端上占用的字符数
func (t *gridTUI) footprint(item *grid.Item) (cols, rows int) {
	return item.Width()*(t.renderer.CellCols+1) - 1, item.Height()*(t.renderer.CellRows+1) - 1
}

// trayLayout 托盘中的物品（不含正在拖拽的），自上而下排列
func (t *gridTUI) trayLayout() []trayEntry {
	_, maxWidth, _ := t.engine.Limits()
	col, row := t.renderer.CellScreenPos(maxWidth, 0)
	col += 2

	var entries []trayEntry
	for _, item := range t.items {
		if item.IsPlaced() || (t.dragging && item == t.session.Item()) {
			continue
		}
		w, h := t.footprint(item)
		entries = append(entries, trayEntry{item: item, col: col, row: row, width: w, depth: h})
		row += h + 1
	}
	return entries
}

// hitTest 屏幕位置上的物品：先查网格，再查托盘
func (t *gridTUI) hitTest(col, row int) (item *grid.Item, topCol, topRow int) {
	if x, y, ok := t.renderer.CellAt(t.engine, col, row); ok {
		if item := t.engine.ItemAt(x, y); item != nil {
			topCol, topRow = t.renderer.CellScreenPos(item.GridX(), item.GridY())
			return item, topCol, topRow
		}
	}
	for _, entry := range t.trayLayout() {
		if entry.contains(col, row) {
			return entry.item, entry.col, entry.row
		}
	}
	return nil, 0, 0
}

// dropPoint 物品左上角的屏幕位置 → 容器坐标，加半个格距吸附到最近的格子
func (t *gridTUI) dropPoint(col, row int) (px, py float64) {
	px, py = t.renderer.ContainerPoint(t.engine, col, row)
	half := (t.engine.CellSize() + t.engine.Spacing()) / 2
	return px + half, py - half
}

// handleEvent 处理一个事件，返回 false 表示退出
func (t *gridTUI) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		t.handleMouse(ev)
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *gridTUI) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	t.mouseCol, t.mouseRow = col, row

	if ev.Buttons()&tcell.Button1 != 0 {
		if t.dragging {
			t.session.Move(t.dropPoint(col-t.grabCol, row-t.grabRow))
			return
		}
		t.beginDrag(col, row)
		return
	}

	if t.dragging {
		t.finish(t.session.End(t.dropPoint(col-t.grabCol, row-t.grabRow)))
	}
}

func (t *gridTUI) beginDrag(col, row int) {
	item, topCol, topRow := t.hitTest(col, row)
	if item == nil {
		return
	}
	t.grabCol, t.grabRow = col-topCol, row-topRow
	if err := t.session.Begin(item, t.dropPoint(topCol, topRow)); err != nil {
		t.setStatus("cannot drag %s: %v", item.ID(), err)
		return
	}
	t.dragging = true
}

func (t *gridTUI) finish(result grid.DragResult) {
	t.dragging = false
	item := t.session.Item()
	switch {
	case result.State == grid.DragCommitted:
		t.setStatus("%s placed at (%d,%d)", item.ID(), result.X, result.Y)
	case result.Restored:
		t.setStatus("%s returned to (%d,%d)", item.ID(), result.X, result.Y)
	default:
		t.setStatus("%s moved to tray", item.ID())
	}
}

func (t *gridTUI) cancelDrag() {
	if t.dragging {
		t.finish(t.session.Cancel())
	}
}

func (t *gridTUI) handleKey(ev *tcell.EventKey) bool {
	w, h := t.engine.Width(), t.engine.Height()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if !t.dragging {
			return false
		}
		t.cancelDrag()
	case tcell.KeyRight:
		t.resize(w+1, h)
	case tcell.KeyLeft:
		t.resize(w-1, h)
	case tcell.KeyDown:
		t.resize(w, h+1)
	case tcell.KeyUp:
		t.resize(w, h-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			t.save(t.slot)
		case 'l':
			t.load(t.slot)
		case 'a':
			t.load(layout.AutosaveSlot)
		case 'c':
			t.cancelDrag()
			t.engine.Clear()
			t.setStatus("grid cleared")
		case 'p':
			t.pack()
		}
	}
	return true
}

func (t *gridTUI) resize(width, height int) {
	if err := t.engine.CheckResize(width, height); err != nil {
		t.setStatus("resize rejected: %v", err)
		return
	}
	t.engine.SetGridSize(width, height)
	t.setStatus("grid resized to %dx%d", width, height)
}

func (t *gridTUI) save(name string) error {
	if t.dragging {
		t.cancelDrag()
	}
	snap := layout.Capture(t.engine)
	if err := t.store.Save(name, snap); err != nil {
		t.setStatus("save %q failed: %v", name, err)
		return err
	}
	t.setStatus("saved %d items to %q", len(snap.Items), name)
	return nil
}

func (t *gridTUI) load(name string) {
	snap, err := t.store.Load(name)
	if err != nil {
		t.setStatus("load %q failed: %v", name, err)
		return
	}

	t.cancelDrag()
	items, err := layout.Restore(t.engine, snap, layout.RestoreOptions{Repack: true, Lookup: t.lookup})
	for _, item := range items {
		if t.lookup(item.ID()) == nil {
			t.items = append(t.items, item)
		}
	}

	switch {
	case errors.Is(err, layout.ErrRestorePlacement):
		t.setStatus("loaded %q with misplaced items: %v", name, err)
	case err != nil:
		t.setStatus("load %q failed: %v", name, err)
	default:
		t.setStatus("loaded %q (%dx%d, %d items)", name, snap.Width, snap.Height, len(items))
	}
}

func (t *gridTUI) lookup(id grid.ItemID) *grid.Item {
	for _, item := range t.items {
		if item.ID() == id {
			return item
		}
	}
	return nil
}

func (t *gridTUI) pack() {
	placed, left := 0, 0
	for _, entry := range t.trayLayout() {
		x, y, ok := t.engine.FindFreeSpot(entry.item.Width(), entry.item.Height())
		if ok && t.engine.Place(entry.item, x, y) {
			placed++
			continue
		}
		left++
	}
	t.setStatus("packed %d items, %d left in tray", placed, left)
}

// draw 重绘整个屏幕
func (t *gridTUI) draw() {
	t.renderer.Draw(t.engine)

	for _, entry := range t.trayLayout() {
		t.renderer.DrawFloating(entry.item, entry.col, entry.row)
	}
	if t.dragging {
		t.renderer.DrawFloating(t.session.Item(), t.mouseCol-t.grabCol, t.mouseRow-t.grabRow)
	}

	_, rows := t.screen.Size()
	t.renderer.DrawText(t.renderer.OriginX, 0, fmt.Sprintf("grid %dx%d  occupied %d",
		t.engine.Width(), t.engine.Height(), t.engine.OccupiedCount()))
	t.renderer.DrawText(0, rows-2, "arrows resize  s save  l load  a autosave  c clear  p pack  Esc cancel  q quit")
	t.renderer.DrawText(0, rows-1, t.status)
	t.screen.Show()
}

func (t *gridTUI) setStatus(format string, args ...any) {
	t.status = fmt.Sprintf(format, args...)
	log.Printf("[GridTUI] %s", t.status)
}
