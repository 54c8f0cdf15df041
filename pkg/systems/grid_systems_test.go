package systems

import (
	"image/color"
	"io"
	"log"
	"os"
	"slices"
	"testing"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/entities"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/render"
	"github.com/decker502/gridbag/pkg/utils"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// scriptedInput 返回测试设置的当前采样
type scriptedInput struct {
	current utils.PointerSample
}

func (in *scriptedInput) push(pressed bool, x, y int) {
	in.current = utils.PointerSample{Pressed: pressed, X: x, Y: y}
}

func (in *scriptedInput) Sample() utils.PointerSample {
	return in.current
}

type fixture struct {
	em        *ecs.EntityManager
	engine    *grid.Engine
	hl        *render.HighlightMap
	input     *scriptedInput
	layout    *GridLayoutSystem
	inputSys  *GridInputSystem
	renderSys *GridRenderSystem
	drops     []grid.DragResult
}

func newFixture(t *testing.T, policy grid.RevertPolicy) *fixture {
	t.Helper()
	hl := render.NewHighlightMap()
	engine, err := grid.Initialize(grid.DefaultConfig(),
		grid.WithRenderer(hl),
		grid.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	f := &fixture{
		em:     ecs.NewEntityManager(),
		engine: engine,
		hl:     hl,
		input:  &scriptedInput{},
	}
	tr := utils.ScreenTransform{OriginX: 40, OriginY: 60, Scale: 1}
	f.layout = NewGridLayoutSystem(f.em, engine, tr)
	f.inputSys = NewGridInputSystemWithInput(f.em, engine, grid.NewDragSession(engine, policy), tr, f.input)
	f.inputSys.OnDrop = func(_ *grid.Item, res grid.DragResult) { f.drops = append(f.drops, res) }
	f.renderSys = NewGridRenderSystem(f.em, engine, hl, render.PaletteFromConfig(config.DefaultGridConfig()), tr)
	return f
}

func (f *fixture) addItem(t *testing.T, id string, w, h, x, y int) (*grid.Item, ecs.EntityID) {
	t.Helper()
	item, err := grid.NewItemWithID(grid.ItemID(id), w, h)
	if err != nil {
		t.Fatal(err)
	}
	if x != grid.Unplaced && !f.engine.Place(item, x, y) {
		t.Fatalf("Place(%s) failed", id)
	}
	return item, entities.NewGridItemEntity(f.em, item, color.RGBA{R: 200, A: 255})
}

// step 推进一帧：输入，然后布局
func (f *fixture) step(pressed bool, x, y int) {
	f.input.push(pressed, x, y)
	f.inputSys.Update(1.0 / 60)
	f.layout.Update(1.0 / 60)
}

func position(em *ecs.EntityManager, id ecs.EntityID) (float64, float64) {
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	return pos.X, pos.Y
}

func TestLayoutPlacesGridAndTrayItems(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	_, placed := f.addItem(t, "a", 1, 1, 2, 1)
	_, tray1 := f.addItem(t, "b", 1, 2, grid.Unplaced, 0)
	_, tray2 := f.addItem(t, "c", 2, 1, grid.Unplaced, 0)

	f.layout.Update(0)

	if x, y := position(f.em, placed); x != 40+210 || y != 60+105 {
		t.Errorf("placed item at (%v,%v), want (250,165)", x, y)
	}
	click, _ := ecs.GetComponent[*components.ClickableComponent](f.em, placed)
	if click.Width != 100 || click.Height != 100 {
		t.Errorf("placed clickable = %vx%v", click.Width, click.Height)
	}

	if x, y := position(f.em, tray1); x != config.TrayOriginX || y != config.TrayOriginY {
		t.Errorf("first tray item at (%v,%v)", x, y)
	}
	wantY := config.TrayOriginY + 2*config.TrayCellSize + config.TrayItemGap
	if _, y := position(f.em, tray2); y != wantY {
		t.Errorf("second tray item y = %v, want %v", y, wantY)
	}
	click, _ = ecs.GetComponent[*components.ClickableComponent](f.em, tray2)
	if click.Width != 2*config.TrayCellSize || click.Height != config.TrayCellSize {
		t.Errorf("tray clickable = %vx%v", click.Width, click.Height)
	}
}

func TestDragPlacedItemToEmptyCell(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	item, id := f.addItem(t, "a", 1, 1, 0, 0)
	f.layout.Update(0)

	f.step(true, 50, 70)
	if got, ok := f.inputSys.Dragged(); !ok || got != id {
		t.Fatalf("Dragged() = %d, %v", got, ok)
	}
	if item.IsPlaced() {
		t.Error("dragged item should be lifted off the grid")
	}

	f.step(true, 260, 280)
	if f.hl.State(2, 2) != render.HighlightValid {
		t.Errorf("preview at (2,2) = %v, want valid", f.hl.State(2, 2))
	}
	if x, y := position(f.em, id); x != 250 || y != 270 {
		t.Errorf("dragged entity at (%v,%v), want (250,270)", x, y)
	}

	f.step(false, 260, 280)
	if item.GridX() != 2 || item.GridY() != 2 {
		t.Errorf("item anchor = (%d,%d), want (2,2)", item.GridX(), item.GridY())
	}
	if ecs.HasComponent[*components.DraggingComponent](f.em, id) {
		t.Error("DraggingComponent should be removed after drop")
	}
	if len(f.drops) != 1 || f.drops[0].State != grid.DragCommitted {
		t.Errorf("drops = %+v", f.drops)
	}
	if f.hl.Len() != 0 {
		t.Error("highlight should be cleared after drop")
	}
	if x, y := position(f.em, id); x != 250 || y != 270 {
		t.Errorf("entity snapped to (%v,%v), want (250,270)", x, y)
	}
}

func TestDragSnapsToNearestCell(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	item, _ := f.addItem(t, "a", 1, 1, 0, 0)
	f.layout.Update(0)

	// 左上角停在 (1,0) 格子左侧 30 像素，吸附到 (1,0)
	f.step(true, 50, 70)
	f.step(false, 50+75, 70+20)
	if item.GridX() != 1 || item.GridY() != 0 {
		t.Errorf("anchor = (%d,%d), want (1,0)", item.GridX(), item.GridY())
	}
}

func TestDragFromTray(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	item, id := f.addItem(t, "b", 2, 1, grid.Unplaced, 0)
	f.layout.Update(0)

	f.step(true, 730, 70)
	drag, ok := ecs.GetComponent[*components.DraggingComponent](f.em, id)
	if !ok || drag.GrabOffsetX != 25 || drag.GrabOffsetY != 25 {
		t.Fatalf("grab offset = %+v, want scaled (25,25)", drag)
	}

	f.step(false, 65, 190)
	if item.GridX() != 0 || item.GridY() != 1 {
		t.Errorf("anchor = (%d,%d), want (0,1)", item.GridX(), item.GridY())
	}
}

func TestDropOnOccupiedCellReverts(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	a, _ := f.addItem(t, "a", 1, 1, 0, 0)
	b, _ := f.addItem(t, "b", 1, 1, 1, 0)
	f.layout.Update(0)

	f.step(true, 50, 70)
	f.step(true, 155, 70)
	if f.hl.State(1, 0) != render.HighlightInvalid {
		t.Errorf("preview over b = %v, want invalid", f.hl.State(1, 0))
	}
	f.step(false, 155, 70)

	if a.GridX() != 0 || a.GridY() != 0 || b.GridX() != 1 {
		t.Errorf("a=(%d,%d) b=(%d,%d), want a back at origin", a.GridX(), a.GridY(), b.GridX(), b.GridY())
	}
	if len(f.drops) != 1 || f.drops[0].State != grid.DragReverted || !f.drops[0].Restored {
		t.Errorf("drops = %+v", f.drops)
	}
}

func TestDropOutsideLeavesUnplaced(t *testing.T) {
	f := newFixture(t, grid.RevertLeaveUnplaced)
	a, id := f.addItem(t, "a", 1, 1, 0, 0)
	f.layout.Update(0)

	f.step(true, 50, 70)
	f.step(false, 600, 600)

	if a.IsPlaced() {
		t.Error("item should stay unplaced under RevertLeaveUnplaced")
	}
	if x, y := position(f.em, id); x != config.TrayOriginX || y != config.TrayOriginY {
		t.Errorf("unplaced item should return to the tray, at (%v,%v)", x, y)
	}
}

func TestCancelDrag(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	a, id := f.addItem(t, "a", 1, 1, 1, 1)
	f.layout.Update(0)

	f.step(true, 40+105+5, 60+105+5)
	f.inputSys.CancelDrag()

	if a.GridX() != 1 || a.GridY() != 1 {
		t.Errorf("cancelled item at (%d,%d), want (1,1)", a.GridX(), a.GridY())
	}
	if _, ok := f.inputSys.Dragged(); ok || ecs.HasComponent[*components.DraggingComponent](f.em, id) {
		t.Error("cancel should end the drag")
	}

	// 仍按住的指针不会重新开始拖拽
	f.step(true, 300, 300)
	f.step(false, 300, 300)
	if a.GridX() != 1 || len(f.drops) != 1 {
		t.Errorf("release after cancel moved the item: (%d,%d), drops=%d", a.GridX(), a.GridY(), len(f.drops))
	}
}

func TestHoverHighlight(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	_, a := f.addItem(t, "a", 1, 1, 0, 0)
	_, b := f.addItem(t, "b", 1, 1, 2, 2)
	f.layout.Update(0)

	f.step(false, 50, 70)
	ha, _ := ecs.GetComponent[*components.HoverHighlightComponent](f.em, a)
	hb, _ := ecs.GetComponent[*components.HoverHighlightComponent](f.em, b)
	if !ha.IsActive || hb.IsActive {
		t.Errorf("hover a=%v b=%v, want only a", ha.IsActive, hb.IsActive)
	}

	f.step(false, 5, 5)
	if ha.IsActive {
		t.Error("hover should clear when the pointer leaves")
	}
}

func TestRenderOrderAndRects(t *testing.T) {
	f := newFixture(t, grid.RevertRestore)
	_, a := f.addItem(t, "a", 2, 1, 0, 0)
	_, b := f.addItem(t, "b", 1, 1, 2, 2)
	_, c := f.addItem(t, "c", 1, 2, grid.Unplaced, 0)
	f.layout.Update(0)

	if order := f.renderSys.DrawOrder(); !slices.Equal(order, []ecs.EntityID{a, b, c}) {
		t.Errorf("DrawOrder() = %v", order)
	}

	if x, y, w, h, ok := f.renderSys.ItemRect(a); !ok || x != 40 || y != 60 || w != 205 || h != 100 {
		t.Errorf("ItemRect(a) = %v %v %v %v %v", x, y, w, h, ok)
	}
	if _, _, w, h, _ := f.renderSys.ItemRect(c); w != config.TrayCellSize || h != 2*config.TrayCellSize {
		t.Errorf("tray ItemRect(c) size = %vx%v", w, h)
	}

	// 拖拽中的物品最后绘制，并按网格尺寸显示
	f.step(true, 50, 70)
	if order := f.renderSys.DrawOrder(); !slices.Equal(order, []ecs.EntityID{b, c, a}) {
		t.Errorf("DrawOrder() while dragging = %v", order)
	}
	if _, _, w, _, _ := f.renderSys.ItemRect(a); w != 205 {
		t.Errorf("dragged width = %v, want 205", w)
	}
}

func TestScaleAlpha(t *testing.T) {
	got := scaleAlpha(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	if got != (color.RGBA{R: 100, G: 50, B: 25, A: 127}) {
		t.Errorf("scaleAlpha() = %v", got)
	}
}
