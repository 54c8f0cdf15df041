package layout

import (
	"fmt"
	"log"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// gdata 存储路径
const (
	layoutsObject = "layouts"
	indexProperty = "_index"
)

// GDataStore 基于 gdata 的跨平台布局存储
//
// 每个布局是 layouts 对象下的一个 YAML 属性，另有一个 _index 属性
// 记录所有布局名。gdataManager 为 nil 时降级为内存存储。
type GDataStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	fallback     *MemoryStore
}

// NewGDataStore 创建布局存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewGDataStore(gdataManager *gdata.Manager) *GDataStore {
	s := &GDataStore{gdataManager: gdataManager}
	if gdataManager == nil {
		log.Printf("[LayoutStore] gdata unavailable, layouts are kept in memory only")
		s.fallback = NewMemoryStore()
	}
	return s
}

// OpenGDataStore 按应用名打开 gdata 存储
// 打开失败时返回降级的内存存储和错误，调用方可以只记录错误继续运行
func OpenGDataStore(appName string) (*GDataStore, error) {
	if err := ensureStorageDir(); err != nil {
		return NewGDataStore(nil), err
	}
	if path := storagePath(); path != "" {
		log.Printf("[LayoutStore] gdata storage path: %s", path)
	}

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewGDataStore(nil), fmt.Errorf("failed to open gdata for %s: %w", appName, err)
	}
	return NewGDataStore(m), nil
}

// Persistent 是否真正写入磁盘
func (s *GDataStore) Persistent() bool {
	return s.gdataManager != nil
}

func (s *GDataStore) Save(name string, snap Snapshot) error {
	if s.fallback != nil {
		return s.fallback.Save(name, snap)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := EncodeYAML(snap)
	if err != nil {
		return err
	}
	if err := s.gdataManager.SaveObjectProp(layoutsObject, name, data); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", name, err)
	}

	names, err := s.Names()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		if err := s.saveIndex(append(names, name)); err != nil {
			return err
		}
	}

	log.Printf("[LayoutStore] Layout %s saved (%dx%d, %d items)", name, snap.Width, snap.Height, len(snap.Items))
	return nil
}

func (s *GDataStore) Load(name string) (Snapshot, error) {
	if s.fallback != nil {
		return s.fallback.Load(name)
	}
	if err := ValidateName(name); err != nil {
		return Snapshot{}, err
	}
	if !s.gdataManager.ObjectPropExists(layoutsObject, name) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}

	data, err := s.gdataManager.LoadObjectProp(layoutsObject, name)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load layout %s: %w", name, err)
	}
	snap, err := DecodeYAML(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("layout %s: %w", name, err)
	}
	return snap, nil
}

func (s *GDataStore) Names() ([]string, error) {
	if s.fallback != nil {
		return s.fallback.Names()
	}
	if !s.gdataManager.ObjectPropExists(layoutsObject, indexProperty) {
		return []string{}, nil
	}

	data, err := s.gdataManager.LoadObjectProp(layoutsObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout index: %w", err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout index: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

func (s *GDataStore) Delete(name string) error {
	if s.fallback != nil {
		return s.fallback.Delete(name)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if !s.gdataManager.ObjectPropExists(layoutsObject, name) {
		return fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	if err := s.gdataManager.DeleteObjectProp(layoutsObject, name); err != nil {
		return fmt.Errorf("failed to delete layout %s: %w", name, err)
	}

	names, err := s.Names()
	if err != nil {
		return err
	}
	names = slices.DeleteFunc(names, func(n string) bool { return n == name })
	if err := s.saveIndex(names); err != nil {
		return err
	}

	log.Printf("[LayoutStore] Layout %s deleted", name)
	return nil
}

func (s *GDataStore) saveIndex(names []string) error {
	slices.Sort(names)
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal layout index: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(layoutsObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to save layout index: %w", err)
	}
	return nil
}
