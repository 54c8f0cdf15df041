package entities

import (
	"image/color"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/grid"
)

// NewGridItemEntity 为网格物品创建实体
//
// 参数:
//   - em: 实体管理器
//   - item: 网格物品（可以已放置，也可以在托盘中）
//   - tint: 物品颜色
//
// 返回:
//   - ecs.EntityID: 新实体，位置和点击区域由布局系统每帧更新
func NewGridItemEntity(em *ecs.EntityManager, item *grid.Item, tint color.RGBA) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.GridItemComponent{Item: item, Color: tint})
	em.AddComponent(id, &components.PositionComponent{})
	em.AddComponent(id, &components.ClickableComponent{IsEnabled: true})
	em.AddComponent(id, &components.HoverHighlightComponent{})
	return id
}

// FindItemEntity 按物品 ID 查找实体
func FindItemEntity(em *ecs.EntityManager, itemID grid.ItemID) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.GridItemComponent](em) {
		gi, _ := ecs.GetComponent[*components.GridItemComponent](em, id)
		if gi.Item != nil && gi.Item.ID() == itemID {
			return id, true
		}
	}
	return 0, false
}

// ItemLookup 把实体管理器包装成按 ID 查找物品的函数（用于恢复布局时复用物品）
func ItemLookup(em *ecs.EntityManager) func(grid.ItemID) *grid.Item {
	return func(itemID grid.ItemID) *grid.Item {
		id, ok := FindItemEntity(em, itemID)
		if !ok {
			return nil
		}
		gi, _ := ecs.GetComponent[*components.GridItemComponent](em, id)
		return gi.Item
	}
}
