// gridtui 终端版网格编辑器
//
// 用法：
//
//	go run ./cmd/gridtui [-config grid.yaml] [-backend sqlite] [-log gridtui.log]
//
// 与桌面版共用布局存储，退出时自动保存到 "autosave"。
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/layout"
)

var (
	configPath = flag.String("config", "", "网格配置文件（YAML），为空使用内置默认配置")
	backend    = flag.String("backend", "", "布局存储后端：gdata / sqlite / memory")
	logPath    = flag.String("log", "", "日志文件，为空不输出日志（终端被界面占用）")
)

func main() {
	flag.Parse()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("无法打开日志文件: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultGridConfig()
	if *configPath != "" {
		loaded, err := config.LoadGridConfig(*configPath)
		if err != nil {
			log.Fatalf("配置加载失败: %v", err)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}

	store, err := layout.OpenStore(cfg.Storage)
	if err != nil {
		log.Fatalf("布局存储打开失败: %v", err)
	}
	defer layout.CloseStore(store)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("终端初始化失败: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("终端初始化失败: %v", err)
	}
	screen.EnableMouse()

	tui, err := newGridTUI(screen, cfg, store)
	if err != nil {
		screen.Fini()
		log.Fatalf("编辑器创建失败: %v", err)
	}

	run(tui)
	screen.Fini()

	if err := tui.save(layout.AutosaveSlot); err != nil {
		log.Printf("[GridTUI] Autosave failed: %v", err)
	}
}

// run 事件循环：每个事件之后重绘
func run(tui *gridTUI) {
	tui.draw()
	for {
		ev := tui.screen.PollEvent()
		if ev == nil {
			return
		}
		if !tui.handleEvent(ev) {
			return
		}
		tui.draw()
	}
}
