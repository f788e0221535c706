package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectEncoding(t *testing.T) {
	h := NewEncodingHandler()

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"plain UTF-8", []byte("Let $x$ be given."), EncodingUTF8},
		{"UTF-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, []byte("text")...), EncodingUTF8BOM},
		{"UTF-16LE BOM", []byte{0xFF, 0xFE, 0x74, 0x00}, EncodingUTF16LE},
		{"UTF-16BE BOM", []byte{0xFE, 0xFF, 0x00, 0x74}, EncodingUTF16BE},
		// GBK for 中文 (D6D0 CEC4), not valid UTF-8
		{"GBK text", []byte{0xD6, 0xD0, 0xCE, 0xC4}, EncodingGBK},
		{"empty", []byte{}, EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.DetectEncoding(tt.data); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := NewEncodingHandler()
	content := "Let $x$ be given. 中文注释。"

	encodings := []string{
		EncodingUTF8,
		EncodingUTF8BOM,
		EncodingGBK,
		EncodingUTF16LE,
		EncodingUTF16BE,
	}

	for _, enc := range encodings {
		t.Run(enc, func(t *testing.T) {
			data, err := h.Encode(content, enc)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := h.Decode(data, enc)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if decoded != content {
				t.Errorf("round trip mismatch: %q != %q", decoded, content)
			}
		})
	}
}

func TestEncode_UnsupportedEncoding(t *testing.T) {
	h := NewEncodingHandler()

	if _, err := h.Encode("text", "EBCDIC"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
	if _, err := h.Decode([]byte("text"), "EBCDIC"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestReadWriteFileWithEncoding(t *testing.T) {
	h := NewEncodingHandler()
	tmpDir := t.TempDir()

	t.Run("plain UTF-8 file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "plain.md")
		if err := os.WriteFile(path, []byte("# Title\n$x$\n"), 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		content, encoding, err := h.ReadFileWithEncoding(path)
		if err != nil {
			t.Fatalf("ReadFileWithEncoding failed: %v", err)
		}
		if encoding != EncodingUTF8 {
			t.Errorf("expected UTF-8, got %s", encoding)
		}
		if content != "# Title\n$x$\n" {
			t.Errorf("unexpected content: %q", content)
		}
	})

	t.Run("BOM preserved across write-back", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bom.md")
		raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
		if err := os.WriteFile(path, raw, 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		content, encoding, err := h.ReadFileWithEncoding(path)
		if err != nil {
			t.Fatalf("ReadFileWithEncoding failed: %v", err)
		}
		if encoding != EncodingUTF8BOM {
			t.Fatalf("expected UTF-8-BOM, got %s", encoding)
		}
		if content != "hello" {
			t.Errorf("BOM should be stripped from content, got %q", content)
		}

		if err := h.WriteFileWithEncoding(path, "changed", encoding); err != nil {
			t.Fatalf("WriteFileWithEncoding failed: %v", err)
		}

		written, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read-back failed: %v", err)
		}
		if !bytes.HasPrefix(written, []byte{0xEF, 0xBB, 0xBF}) {
			t.Error("BOM was not preserved on write-back")
		}
		if string(written[3:]) != "changed" {
			t.Errorf("unexpected written content: %q", written[3:])
		}
	})

	t.Run("GBK file round trip", func(t *testing.T) {
		path := filepath.Join(tmpDir, "gbk.md")
		gbkData, err := h.Encode("中文内容", EncodingGBK)
		if err != nil {
			t.Fatalf("setup encode failed: %v", err)
		}
		if err := os.WriteFile(path, gbkData, 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		content, encoding, err := h.ReadFileWithEncoding(path)
		if err != nil {
			t.Fatalf("ReadFileWithEncoding failed: %v", err)
		}
		if encoding != EncodingGBK {
			t.Errorf("expected GBK, got %s", encoding)
		}
		if content != "中文内容" {
			t.Errorf("unexpected content: %q", content)
		}
	})
}
