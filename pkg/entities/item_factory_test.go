package entities

import (
	"image/color"
	"testing"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/grid"
)

func TestNewGridItemEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	item, _ := grid.NewItemWithID("gem", 1, 2)
	id := NewGridItemEntity(em, item, color.RGBA{R: 1, A: 255})

	gi, ok := ecs.GetComponent[*components.GridItemComponent](em, id)
	if !ok || gi.Item != item || gi.Color.R != 1 {
		t.Fatalf("GridItemComponent = %+v, %v", gi, ok)
	}
	if !ecs.HasComponent[*components.PositionComponent](em, id) ||
		!ecs.HasComponent[*components.ClickableComponent](em, id) ||
		!ecs.HasComponent[*components.HoverHighlightComponent](em, id) {
		t.Error("item entity is missing components")
	}
	if ecs.HasComponent[*components.DraggingComponent](em, id) {
		t.Error("new item entity must not be dragging")
	}
}

func TestFindItemEntityAndLookup(t *testing.T) {
	em := ecs.NewEntityManager()
	a, _ := grid.NewItemWithID("a", 1, 1)
	b, _ := grid.NewItemWithID("b", 2, 1)
	NewGridItemEntity(em, a, color.RGBA{})
	idB := NewGridItemEntity(em, b, color.RGBA{})

	if got, ok := FindItemEntity(em, "b"); !ok || got != idB {
		t.Errorf("FindItemEntity(b) = %d, %v", got, ok)
	}
	if _, ok := FindItemEntity(em, "missing"); ok {
		t.Error("FindItemEntity(missing) should fail")
	}

	lookup := ItemLookup(em)
	if lookup("a") != a || lookup("missing") != nil {
		t.Error("ItemLookup returned the wrong item")
	}
}
