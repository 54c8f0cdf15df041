// Package app 提供网格演示应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载配置、打开布局存储、创建场景。
// 桌面端通过 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/embedded"
	"github.com/decker502/gridbag/pkg/game"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/scenes"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 网格配置文件路径，为空则使用嵌入的 data/grid.yaml
	ConfigPath string
	// Backend 覆盖配置文件中的存储后端（gdata/sqlite/memory），为空不覆盖
	Backend string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	store                    layout.Store
	gridConfig               *config.GridConfig
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gridConfig, err := LoadGridConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != "" {
		gridConfig.Storage.Backend = cfg.Backend
	}

	store, err := layout.OpenStore(gridConfig.Storage)
	if err != nil {
		return nil, fmt.Errorf("布局存储打开失败: %w", err)
	}
	log.Printf("[App] Layout store: %s", gridConfig.Storage.Backend)

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	var sceneErr error
	sceneManager.SetSceneFactory(func(name string) game.Scene {
		if name != scenes.GridSceneName {
			return nil
		}
		scene, err := scenes.NewGridScene(gridConfig, store, sceneManager)
		if err != nil {
			sceneErr = err
			log.Printf("[App] Failed to create grid scene: %v", err)
			return nil
		}
		return scene
	})

	if !sceneManager.Load(scenes.GridSceneName) {
		layout.CloseStore(store)
		return nil, fmt.Errorf("网格场景创建失败: %w", sceneErr)
	}

	return &App{
		sceneManager: sceneManager,
		store:        store,
		gridConfig:   gridConfig,
		verbose:      cfg.Verbose,
	}, nil
}

// LoadGridConfig 读取网格配置
// path 为空时读取嵌入的默认配置；嵌入资源未初始化时使用内置默认值
func LoadGridConfig(path string) (*config.GridConfig, error) {
	if path != "" {
		gridConfig, err := config.LoadGridConfig(path)
		if err != nil {
			return nil, fmt.Errorf("网格配置加载失败: %w", err)
		}
		log.Printf("[Config] 加载网格配置: %s", path)
		return gridConfig, nil
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] 嵌入资源未初始化，使用内置默认配置")
		return config.DefaultGridConfig(), nil
	}

	data, err := embedded.ReadFile(embedded.GridConfigPath)
	if err != nil {
		return nil, fmt.Errorf("嵌入配置读取失败: %w", err)
	}
	gridConfig, err := config.ParseGridConfig(data, embedded.GridConfigPath)
	if err != nil {
		return nil, fmt.Errorf("网格配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载嵌入网格配置: %s", embedded.GridConfigPath)
	return gridConfig, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// GridConfig 返回生效的网格配置
func (a *App) GridConfig() *config.GridConfig {
	return a.gridConfig
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Close 保存当前场景并关闭布局存储
// 窗口关闭后由 main 调用
func (a *App) Close() error {
	if !a.sceneManager.SaveCurrent() {
		log.Printf("[App] Warning: scene state was not saved")
	}
	if err := layout.CloseStore(a.store); err != nil {
		return fmt.Errorf("布局存储关闭失败: %w", err)
	}
	return nil
}
