package layout

import (
	"fmt"
	"regexp"
	"sort"
)

// Store 按名称保存布局快照
type Store interface {
	// Save 保存（覆盖）名为 name 的布局
	Save(name string, s Snapshot) error
	// Load 读取布局，不存在时返回 ErrLayoutNotFound
	Load(name string) (Snapshot, error)
	// Names 所有已保存的布局名，按字典序
	Names() ([]string, error)
	// Delete 删除布局，不存在时返回 ErrLayoutNotFound
	Delete(name string) error
}

// AutosaveSlot 程序退出时自动保存使用的布局名
const AutosaveSlot = "autosave"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateName 布局名只允许字母、数字、下划线和连字符，且以字母或数字开头
// 名称会直接成为文件名或数据库主键
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid layout name %q", name)
	}
	return nil
}

// MemoryStore 进程内存储，用于测试和无持久化的降级模式
type MemoryStore struct {
	layouts map[string]Snapshot
}

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(name string, s Snapshot) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.Items = append([]ItemRecord(nil), s.Items...)
	m.layouts[name] = s
	return nil
}

func (m *MemoryStore) Load(name string) (Snapshot, error) {
	s, ok := m.layouts[name]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	s.Items = append([]ItemRecord(nil), s.Items...)
	return s, nil
}

func (m *MemoryStore) Names() ([]string, error) {
	names := make([]string, 0, len(m.layouts))
	for name := range m.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) Delete(name string) error {
	if _, ok := m.layouts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	delete(m.layouts, name)
	return nil
}
