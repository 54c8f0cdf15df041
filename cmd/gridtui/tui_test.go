package main

import (
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/render"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestTUI(t *testing.T) (*gridTUI, *layout.MemoryStore) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)

	store := layout.NewMemoryStore()
	tui, err := newGridTUI(screen, config.DefaultGridConfig(), store)
	if err != nil {
		t.Fatalf("newGridTUI() error: %v", err)
	}
	return tui, store
}

func mouse(col, row int, btn tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(col, row, btn, tcell.ModNone)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTrayLayout(t *testing.T) {
	tui, _ := newTestTUI(t)
	entries := tui.trayLayout()
	if len(entries) != 4 {
		t.Fatalf("tray entries = %d, want 4", len(entries))
	}

	// 最大宽度 10 列，每列 5 个字符，托盘从第 54 列开始
	if entries[0].col != 54 || entries[0].row != 2 {
		t.Errorf("first entry at (%d,%d), want (54,2)", entries[0].col, entries[0].row)
	}
	if entries[0].width != 4 || entries[0].depth != 2 {
		t.Errorf("1x1 footprint = %dx%d, want 4x2", entries[0].width, entries[0].depth)
	}
	// 下一个物品紧跟在上一个下面，空一行
	if entries[1].row != 5 {
		t.Errorf("second entry row = %d, want 5", entries[1].row)
	}
}

func TestDragFromTrayToCell(t *testing.T) {
	tui, _ := newTestTUI(t)
	red := tui.lookup("red")

	tui.handleEvent(mouse(55, 3, tcell.Button1))
	if !tui.dragging || tui.session.Item() != red {
		t.Fatal("press on red should start dragging it")
	}

	// 抓取点偏移 (1,1)，左上角到 (7,5) 即格子 (1,1)
	tui.handleEvent(mouse(8, 6, tcell.Button1))
	if got := tui.highlights.State(1, 1); got != render.HighlightValid {
		t.Errorf("preview at (1,1) = %v, want valid", got)
	}

	tui.handleEvent(mouse(8, 6, tcell.ButtonNone))
	if tui.dragging {
		t.Error("release should end the drag")
	}
	if red.GridX() != 1 || red.GridY() != 1 {
		t.Errorf("red anchor = (%d,%d), want (1,1)", red.GridX(), red.GridY())
	}
	if tui.highlights.Len() != 0 {
		t.Error("highlights should be cleared after the drop")
	}
}

func TestDragPlacedItemOntoOccupiedCellReverts(t *testing.T) {
	tui, _ := newTestTUI(t)
	red, blue := tui.lookup("red"), tui.lookup("blue")
	tui.engine.Place(red, 0, 0)
	tui.engine.Place(blue, 1, 0)

	tui.handleEvent(mouse(2, 2, tcell.Button1))
	tui.handleEvent(mouse(7, 2, tcell.Button1))
	tui.handleEvent(mouse(7, 2, tcell.ButtonNone))

	if red.GridX() != 0 || red.GridY() != 0 {
		t.Errorf("red = (%d,%d), want restored to (0,0)", red.GridX(), red.GridY())
	}
	if !strings.Contains(tui.status, "returned") {
		t.Errorf("status = %q", tui.status)
	}
}

func TestEscapeCancelsDragThenQuits(t *testing.T) {
	tui, _ := newTestTUI(t)
	tui.handleEvent(mouse(55, 3, tcell.Button1))

	esc := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	if !tui.handleEvent(esc) {
		t.Fatal("Esc during a drag should only cancel it")
	}
	if tui.dragging {
		t.Error("drag should be cancelled")
	}
	if tui.handleEvent(esc) {
		t.Error("Esc without a drag should quit")
	}
	if tui.handleEvent(key('q')) {
		t.Error("q should quit")
	}
}

func TestResizeKeys(t *testing.T) {
	tui, _ := newTestTUI(t)
	tui.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	tui.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if tui.engine.Width() != 4 || tui.engine.Height() != 4 {
		t.Errorf("grid = %dx%d, want 4x4", tui.engine.Width(), tui.engine.Height())
	}

	tui.engine.Place(tui.lookup("red"), 3, 0)
	tui.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if tui.engine.Width() != 4 {
		t.Error("removing an occupied column should be rejected")
	}
	if !strings.Contains(tui.status, "resize rejected") {
		t.Errorf("status = %q", tui.status)
	}
}

func TestSaveLoadPackKeys(t *testing.T) {
	tui, store := newTestTUI(t)

	tui.handleEvent(key('p'))
	if tui.engine.OccupiedCount() != 9 {
		t.Fatalf("OccupiedCount() = %d, want 9 after pack", tui.engine.OccupiedCount())
	}

	tui.handleEvent(key('s'))
	if names, _ := store.Names(); len(names) != 1 || names[0] != "quicksave" {
		t.Errorf("store names = %v", names)
	}

	tui.handleEvent(key('c'))
	if tui.engine.OccupiedCount() != 0 {
		t.Fatal("c should clear the grid")
	}

	tui.handleEvent(key('l'))
	if tui.engine.OccupiedCount() != 9 {
		t.Errorf("OccupiedCount() = %d, want 9 after load", tui.engine.OccupiedCount())
	}
	if len(tui.items) != 4 {
		t.Errorf("items = %d, want 4 (reused)", len(tui.items))
	}
}

func TestLoadAddsUnknownItems(t *testing.T) {
	tui, store := newTestTUI(t)
	store.Save(layout.AutosaveSlot, layout.Snapshot{
		Version: layout.SnapshotVersion,
		Width:   3,
		Height:  3,
		Items:   []layout.ItemRecord{{ID: "crate", X: 2, Y: 2, Width: 1, Height: 1}},
	})

	tui.handleEvent(key('a'))
	crate := tui.lookup("crate")
	if crate == nil || crate.GridX() != 2 {
		t.Fatalf("crate should be added and placed, status %q", tui.status)
	}
	if len(tui.trayLayout()) != 4 {
		t.Errorf("tray = %d, want the 4 demo items", len(tui.trayLayout()))
	}
}

func TestDrawShowsGridAndStatus(t *testing.T) {
	tui, _ := newTestTUI(t)
	tui.engine.Place(tui.lookup("red"), 0, 0)
	tui.draw()

	screen := tui.screen.(tcell.SimulationScreen)
	mainc, _, _, _ := screen.GetContent(2, 2)
	if mainc != 'r' {
		t.Errorf("cell (2,2) = %q, want item label 'r'", mainc)
	}

	_, rows := screen.Size()
	var line []rune
	for col := 0; col < len(tui.status); col++ {
		r, _, _, _ := screen.GetContent(col, rows-1)
		line = append(line, r)
	}
	if string(line) != tui.status {
		t.Errorf("status line = %q, want %q", string(line), tui.status)
	}
}

func TestHitTestGap(t *testing.T) {
	tui, _ := newTestTUI(t)
	item, _, _ := tui.hitTest(6, 2) // 格子间隔
	if item != nil {
		t.Errorf("gap hit %v", item)
	}
}
