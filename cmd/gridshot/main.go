// gridshot 把保存的布局渲染成 PNG
//
// 用法：
//
//	go run ./cmd/gridshot -in quicksave.gridz -out quicksave.png
//	go run ./cmd/gridshot -layout autosave -backend sqlite -out autosave.png
//
// -in 支持 .gridz（zstd 压缩 JSON）、.json 和 .yaml/.yml。
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/grid"
	"github.com/decker502/gridbag/pkg/layout"
	"github.com/decker502/gridbag/pkg/render"
)

var (
	inPath     = flag.String("in", "", "布局文件（.gridz / .json / .yaml）")
	layoutName = flag.String("layout", "", "从布局存储读取的布局名（与 -in 二选一）")
	outPath    = flag.String("out", "layout.png", "输出 PNG 路径")
	configPath = flag.String("config", "", "网格配置文件（颜色、格子尺寸、存储），为空使用内置默认配置")
	backend    = flag.String("backend", "", "布局存储后端：gdata / sqlite / memory")
	scale      = flag.Float64("scale", 1, "容器坐标到像素的缩放")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetFlags(0)
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

	var (
		snap layout.Snapshot
		err  error
	)
	switch {
	case *inPath != "" && *layoutName != "":
		log.Fatalf("-in 和 -layout 只能指定一个")
	case *inPath != "":
		snap, err = readSnapshot(*inPath)
	case *layoutName != "":
		snap, err = loadFromStore(cfg.Storage, *layoutName)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("读取布局失败: %v", err)
	}

	if err := renderSnapshot(cfg, snap, *outPath, *scale); err != nil {
		log.Fatalf("渲染失败: %v", err)
	}
	fmt.Printf("%s: %dx%d, %d items\n", *outPath, snap.Width, snap.Height, len(snap.Items))
}

// readSnapshot 按扩展名选择解码方式
func readSnapshot(path string) (layout.Snapshot, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == layout.FileExt {
		return layout.ReadFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Snapshot{}, err
	}
	switch ext {
	case ".json":
		return layout.DecodeJSON(data)
	case ".yaml", ".yml":
		return layout.DecodeYAML(data)
	default:
		return layout.Snapshot{}, fmt.Errorf("unsupported layout file extension %q", ext)
	}
}

func loadFromStore(cfg config.StorageSection, name string) (layout.Snapshot, error) {
	store, err := layout.OpenStore(cfg)
	if err != nil {
		return layout.Snapshot{}, err
	}
	defer layout.CloseStore(store)
	return store.Load(name)
}

// renderSnapshot 把快照恢复到新引擎上再画成 PNG
// 格子尺寸、尺寸上限和颜色来自配置；放置失败的物品不会出现在图片里
func renderSnapshot(cfg *config.GridConfig, snap layout.Snapshot, out string, scale float64) error {
	engine, err := grid.Initialize(cfg.EngineConfig())
	if err != nil {
		return err
	}
	if _, err := layout.Restore(engine, snap, layout.RestoreOptions{}); err != nil {
		if !errors.Is(err, layout.ErrRestorePlacement) {
			return err
		}
		log.Printf("[GridShot] Warning: %v", err)
	}

	renderer := render.NewPNGRenderer(render.PaletteFromConfig(cfg), nil)
	if scale > 0 {
		renderer.Scale = scale
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return renderer.SavePNG(engine, out)
}
