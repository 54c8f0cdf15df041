package layout

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func assertSameSnapshot(t *testing.T, got, want Snapshot) {
	t.Helper()
	if got.Version != want.Version || got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("header = %d %dx%d, want %d %dx%d", got.Version, got.Width, got.Height, want.Version, want.Width, want.Height)
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("items = %+v, want %+v", got.Items, want.Items)
	}
	for i := range want.Items {
		if got.Items[i] != want.Items[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, got.Items[i], want.Items[i])
		}
	}
}

func TestYAMLCodec(t *testing.T) {
	data, err := EncodeYAML(sampleSnapshot())
	if err != nil {
		t.Fatalf("EncodeYAML() error: %v", err)
	}
	got, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML() error: %v", err)
	}
	assertSameSnapshot(t, got, sampleSnapshot())

	if _, err := DecodeYAML([]byte("version: 1\nwidth: 0\nheight: 2\n")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("DecodeYAML(width 0) error = %v, want ErrInvalidSnapshot", err)
	}
}

func TestJSONCodec(t *testing.T) {
	data, err := EncodeJSON(sampleSnapshot())
	if err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error: %v", err)
	}
	assertSameSnapshot(t, got, sampleSnapshot())
}

func TestEncodeJSONEmptyItems(t *testing.T) {
	data, err := EncodeJSON(Snapshot{Version: 1, Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}
	if !bytes.Contains(data, []byte(`"items": []`)) {
		t.Errorf("empty items should encode as [], got %s", data)
	}
	if _, err := DecodeJSON(data); err != nil {
		t.Errorf("DecodeJSON() error: %v", err)
	}
}

// TestDecodeJSONSchema 测试 JSON Schema 拒绝的文档
func TestDecodeJSONSchema(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"不是JSON", `{`},
		{"缺少items", `{"version":1,"width":2,"height":2}`},
		{"未知字段", `{"version":1,"width":2,"height":2,"items":[],"extra":true}`},
		{"负坐标", `{"version":1,"width":2,"height":2,"items":[{"id":"a","x":-1,"y":0,"width":1,"height":1}]}`},
		{"宽度为字符串", `{"version":1,"width":"2","height":2,"items":[]}`},
		{"空ID", `{"version":1,"width":2,"height":2,"items":[{"id":"","x":0,"y":0,"width":1,"height":1}]}`},
		{"重复ID", `{"version":1,"width":2,"height":2,"items":[{"id":"a","x":0,"y":0,"width":1,"height":1},{"id":"a","x":1,"y":0,"width":1,"height":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeJSON([]byte(tt.doc)); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("DecodeJSON() error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestCompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bag"+FileExt)
	if err := WriteFile(path, sampleSnapshot()); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// zstd 帧魔数
	if !bytes.HasPrefix(raw, []byte{0x28, 0xB5, 0x2F, 0xFD}) {
		t.Errorf("file does not start with a zstd frame: % x", raw[:4])
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	assertSameSnapshot(t, got, sampleSnapshot())
}

func TestReadRejectsPlainJSON(t *testing.T) {
	data, _ := EncodeJSON(sampleSnapshot())
	if _, err := Read(bytes.NewReader(data)); err == nil {
		t.Error("Read() should reject uncompressed input")
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing"+FileExt)); err == nil {
		t.Error("ReadFile() should fail for a missing file")
	}
}
