package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/gridbag/pkg/components"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/ecs"
	"github.com/decker502/gridbag/pkg/entities"
	"github.com/decker502/gridbag/pkg/game"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/render"
	"github.com/decker502/gridbag/pkg/systems"
	"github.com/decker502/gridbag/pkg/utils"
)

// GridSceneName 网格场景在 SceneManager 中的名字
const GridSceneName = "grid"

// GridScene 网格编辑场景
//
// 把网格引擎、物品实体、输入/布局/渲染系统和布局存储组装在一起：
//   - 鼠标拖拽物品在托盘和网格之间移动
//   - 方向键增删行列
//   - S/L 保存和读取快捷存档，E 导出 .gridz 和 PNG
type GridScene struct {
	cfg          *config.GridConfig
	sceneManager *game.SceneManager
	store        layout.Store

	engine     *grid.Engine
	highlights *render.HighlightMap
	palette    render.Palette
	session    *grid.DragSession
	transform  utils.ScreenTransform

	entityManager *ecs.EntityManager
	layoutSystem  *systems.GridLayoutSystem
	inputSystem   *systems.GridInputSystem
	renderSystem  *systems.GridRenderSystem

	// ExportDir E 键导出文件的目录，默认当前目录
	ExportDir string

	status string
}

// NewGridScene 创建网格场景
//
// 参数：
//   - cfg: 网格配置（已应用默认值）
//   - store: 布局存储，可为 nil（此时保存/读取不可用）
//   - sm: 场景管理器，用于 R 键重建场景，可为 nil
//
// 返回：
//   - *GridScene: 场景，配置中带坐标的物品已放到网格上
//   - error: 引擎参数非法
func NewGridScene(cfg *config.GridConfig, store layout.Store, sm *game.SceneManager) (*GridScene, error) {
	return newGridScene(cfg, store, sm, nil)
}

// newGridScene input 为 nil 时使用 ebiten 指针输入
func newGridScene(cfg *config.GridConfig, store layout.Store, sm *game.SceneManager, input systems.PointerInput) (*GridScene, error) {
	highlights := render.NewHighlightMap()
	engine, err := grid.Initialize(cfg.EngineConfig(), grid.WithRenderer(highlights))
	if err != nil {
		return nil, fmt.Errorf("failed to create grid engine: %w", err)
	}

	s := &GridScene{
		cfg:           cfg,
		sceneManager:  sm,
		store:         store,
		engine:        engine,
		highlights:    highlights,
		palette:       render.PaletteFromConfig(cfg),
		session:       grid.NewDragSession(engine, grid.RevertRestore),
		entityManager: ecs.NewEntityManager(),
		ExportDir:     ".",
		transform: utils.ScreenTransform{
			OriginX: cfg.Screen.OriginX,
			OriginY: cfg.Screen.OriginY,
			Scale:   cfg.Screen.Scale,
		},
	}

	if err := s.spawnItems(); err != nil {
		return nil, err
	}

	s.layoutSystem = systems.NewGridLayoutSystem(s.entityManager, engine, s.transform)
	if input == nil {
		s.inputSystem = systems.NewGridInputSystem(s.entityManager, engine, s.session, s.transform)
	} else {
		s.inputSystem = systems.NewGridInputSystemWithInput(s.entityManager, engine, s.session, s.transform, input)
	}
	s.inputSystem.OnDrop = s.onDrop
	s.renderSystem = systems.NewGridRenderSystem(s.entityManager, engine, highlights, s.palette, s.transform)

	// 先排一次版，第一帧的命中测试才有正确的点击区域
	s.layoutSystem.Update(0)
	s.setStatus("%dx%d grid, %d items", engine.Width(), engine.Height(), len(cfg.Items))
	return s, nil
}

// spawnItems 按配置创建演示物品，带坐标的直接放上网格
func (s *GridScene) spawnItems() error {
	for i, spec := range s.cfg.Items {
		item, err := grid.NewItemWithID(grid.ItemID(spec.ID), spec.Width, spec.Height)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		tint := spec.Color.RGBA()
		s.palette.SetItemColor(item.ID(), tint)
		entities.NewGridItemEntity(s.entityManager, item, tint)

		if spec.X != nil && spec.Y != nil && !s.engine.Place(item, *spec.X, *spec.Y) {
			log.Printf("[GridScene] Warning: item %s does not fit at (%d,%d), left in tray", item.ID(), *spec.X, *spec.Y)
		}
	}
	return nil
}

// Update 推进一帧：键盘命令 → 指针拖拽 → 摆放实体
func (s *GridScene) Update(deltaTime float64) {
	s.update(deltaTime, pressedCommands())
}

func (s *GridScene) update(deltaTime float64, cmds []Command) {
	for _, cmd := range cmds {
		s.HandleCommand(cmd)
	}
	s.inputSystem.Update(deltaTime)
	s.layoutSystem.Update(deltaTime)
}

// Engine 场景使用的网格引擎
func (s *GridScene) Engine() *grid.Engine {
	return s.engine
}

// Status 底部状态栏文本
func (s *GridScene) Status() string {
	return s.status
}

// SaveOnExit 把当前布局保存到自动存档
func (s *GridScene) SaveOnExit() bool {
	if s.store == nil {
		return true
	}
	s.inputSystem.CancelDrag()
	if err := s.store.Save(layout.AutosaveSlot, layout.Capture(s.engine)); err != nil {
		log.Printf("[GridScene] Autosave failed: %v", err)
		return false
	}
	log.Printf("[GridScene] Autosaved layout to %q", layout.AutosaveSlot)
	return true
}

// trayItems 在托盘中（未放置且没有被拖拽）的物品，按实体 ID 排序
func (s *GridScene) trayItems() []*grid.Item {
	var items []*grid.Item
	for _, id := range ecs.GetEntitiesWith1[*components.GridItemComponent](s.entityManager) {
		if ecs.HasComponent[*components.DraggingComponent](s.entityManager, id) {
			continue
		}
		gi, _ := ecs.GetComponent[*components.GridItemComponent](s.entityManager, id)
		if !gi.Item.IsPlaced() {
			items = append(items, gi.Item)
		}
	}
	return items
}

// adoptItems 为恢复布局时新建的物品补建实体
func (s *GridScene) adoptItems(items []*grid.Item) {
	for _, item := range items {
		if _, ok := entities.FindItemEntity(s.entityManager, item.ID()); ok {
			continue
		}
		entities.NewGridItemEntity(s.entityManager, item, s.palette.ItemColor(item.ID()))
	}
}

func (s *GridScene) onDrop(item *grid.Item, result grid.DragResult) {
	switch {
	case result.State == grid.DragCommitted:
		s.setStatus("%s placed at (%d,%d)", shortID(item), result.X, result.Y)
	case result.Restored:
		s.setStatus("%s returned to (%d,%d)", shortID(item), result.X, result.Y)
	default:
		s.setStatus("%s moved to tray", shortID(item))
	}
}

func (s *GridScene) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
	log.Printf("[GridScene] %s", s.status)
}

func shortID(item *grid.Item) string {
	id := string(item.ID())
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	_ game.Scene    = (*GridScene)(nil)
	_ game.Saveable = (*GridScene)(nil)
)
