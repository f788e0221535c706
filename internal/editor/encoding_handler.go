package editor

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/Gongzihang6/md-math-fixer/internal/logger"
)

// Encoding names understood by the handler.
const (
	EncodingUTF8    = "UTF-8"
	EncodingUTF8BOM = "UTF-8-BOM"
	EncodingGBK     = "GBK"
	EncodingUTF16LE = "UTF-16LE"
	EncodingUTF16BE = "UTF-16BE"
	EncodingUnknown = "UNKNOWN"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodingHandler detects file encodings and converts content so the
// transform engine always works on UTF-8 strings. Write-back preserves
// the encoding the file was read with.
type EncodingHandler struct{}

// NewEncodingHandler creates a new EncodingHandler
func NewEncodingHandler() *EncodingHandler {
	return &EncodingHandler{}
}

// DetectEncoding detects the encoding of raw file data.
// Returns one of the Encoding* constants.
func (h *EncodingHandler) DetectEncoding(data []byte) string {
	// BOM markers first
	if len(data) >= 3 && bytes.Equal(data[:3], utf8BOM) {
		return EncodingUTF8BOM
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}) {
		return EncodingUTF16LE
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}) {
		return EncodingUTF16BE
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}

	if h.isValidGBK(data) {
		return EncodingGBK
	}

	return EncodingUnknown
}

// isValidGBK checks if data is valid GBK encoding
func (h *EncodingHandler) isValidGBK(data []byte) bool {
	decoder := simplifiedchinese.GBK.NewDecoder()
	decoded, err := decoder.Bytes(data)
	if err != nil {
		return false
	}
	return utf8.Valid(decoded)
}

// Decode converts raw data in the named encoding to a UTF-8 string.
func (h *EncodingHandler) Decode(data []byte, encoding string) (string, error) {
	switch encoding {
	case EncodingUTF8:
		return string(data), nil
	case EncodingUTF8BOM:
		if len(data) >= 3 {
			return string(data[3:]), nil
		}
		return string(data), nil
	case EncodingGBK:
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode GBK: %w", err)
		}
		return string(decoded), nil
	case EncodingUTF16LE:
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16LE: %w", err)
		}
		return string(decoded), nil
	case EncodingUTF16BE:
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16BE: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

// Encode converts a UTF-8 string to raw data in the named encoding.
func (h *EncodingHandler) Encode(content string, encoding string) ([]byte, error) {
	switch encoding {
	case EncodingUTF8:
		return []byte(content), nil
	case EncodingUTF8BOM:
		return append(append([]byte{}, utf8BOM...), content...), nil
	case EncodingGBK:
		data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("failed to encode to GBK: %w", err)
		}
		return data, nil
	case EncodingUTF16LE:
		data, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("failed to encode to UTF-16LE: %w", err)
		}
		return data, nil
	case EncodingUTF16BE:
		data, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("failed to encode to UTF-16BE: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

// ReadFileWithEncoding reads a file and returns its content as a UTF-8
// string along with the detected encoding name.
func (h *EncodingHandler) ReadFileWithEncoding(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}

	encoding := h.DetectEncoding(data)
	logger.Debug("detected file encoding",
		logger.String("path", path),
		logger.String("encoding", encoding))

	if encoding == EncodingUnknown {
		return "", encoding, fmt.Errorf("unsupported encoding in file: %s", path)
	}

	content, err := h.Decode(data, encoding)
	if err != nil {
		return "", encoding, err
	}
	return content, encoding, nil
}

// WriteFileWithEncoding writes content to a file in the specified encoding
func (h *EncodingHandler) WriteFileWithEncoding(path string, content string, encoding string) error {
	data, err := h.Encode(content, encoding)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
