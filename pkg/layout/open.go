package layout

import (
	"fmt"
	"io"
	"log"

	"github.com/decker502/gridbag/pkg/config"
)

// OpenStore 按配置打开存储后端
//
// gdata 打开失败不是致命错误：记录日志后返回降级的内存存储。
// 返回的存储如果实现了 io.Closer，调用方需要用 CloseStore 关闭。
func OpenStore(cfg config.StorageSection) (Store, error) {
	switch cfg.Backend {
	case config.StorageGData:
		s, err := OpenGDataStore(cfg.AppName)
		if err != nil {
			log.Printf("[LayoutStore] Warning: %v (falling back to memory)", err)
		}
		return s, nil
	case config.StorageSQLite:
		return OpenSQLiteStore(cfg.SQLitePath)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// CloseStore 关闭持有资源的存储，其余存储直接返回 nil
func CloseStore(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
