package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/gridbag/pkg/app"
	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	configPath = flag.String("config", "", "网格配置文件（YAML），为空使用内置配置")
	backend    = flag.String("backend", "", "布局存储后端：gdata / sqlite / memory，为空使用配置文件中的设置")
)

func main() {
	flag.Parse()

	// 嵌入资源在 embed.go 中声明
	embedded.Init(dataFS)

	gridApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Backend:    *backend,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("GridBag - 网格放置演示")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(gridApp)

	// 窗口关闭后自动保存当前布局
	if err := gridApp.Close(); err != nil {
		log.Printf("[Main] %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
