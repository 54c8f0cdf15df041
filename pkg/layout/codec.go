package layout

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// FileExt 压缩布局文件的扩展名
const FileExt = ".gridz"

const schemaURL = "layout.schema.json"

//go:embed layout.schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// layoutSchema 编译并缓存内嵌的 JSON Schema
func layoutSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, schemaSource)
	})
	return compiledSchema, schemaErr
}

// EncodeYAML 序列化为 YAML
func EncodeYAML(s Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout: %w", err)
	}
	return data, nil
}

// DecodeYAML 解析 YAML 并检查快照结构
func DecodeYAML(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// EncodeJSON 序列化为带缩进的 JSON
func EncodeJSON(s Snapshot) ([]byte, error) {
	if s.Items == nil {
		s.Items = []ItemRecord{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout: %w", err)
	}
	return data, nil
}

// DecodeJSON 解析 JSON
// 先用内嵌的 JSON Schema 校验原始文档，再检查快照结构
func DecodeJSON(data []byte) (Snapshot, error) {
	schema, err := layoutSchema()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to compile layout schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Write 把快照以 zstd 压缩的 JSON 写入 w
func Write(w io.Writer, s Snapshot) error {
	data, err := EncodeJSON(s)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress layout: %w", err)
	}
	return enc.Close()
}

// Read 从 r 读取 zstd 压缩的 JSON 快照
func Read(r io.Reader) (Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Snapshot{}, err
	}
	defer dec.Close()

	data, err := io.ReadAll(bufio.NewReader(dec))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to decompress layout: %w", err)
	}
	return DecodeJSON(data)
}

// WriteFile 写入压缩布局文件，必要时创建父目录
func WriteFile(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write layout file %s: %w", path, err)
	}
	return nil
}

// ReadFile 读取压缩布局文件
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open layout file %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("layout file %s: %w", path, err)
	}
	return s, nil
}
