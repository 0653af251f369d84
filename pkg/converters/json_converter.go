package converters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feichai0017/ocr-review/internal/models"
)

// ExportDocument 定义导出文件的结构
type ExportDocument struct {
	Filename string            `json:"filename"`
	Fields   map[string]string `json:"fields"`
	RawText  string            `json:"raw_text"`
}

// DocumentConverter 定义导出转换器接口
type DocumentConverter interface {
	Convert(result models.ExtractionResult) ([]byte, error)
}

// JSONConverter renders an extraction result as a pretty-printed JSON document.
type JSONConverter struct {
	indent string
}

func NewJSONConverter() *JSONConverter {
	return &JSONConverter{indent: "  "}
}

// Convert encodes {filename, fields, raw_text} with two-space indentation. HTML
// characters are kept literal and no trailing newline is written.
func (c *JSONConverter) Convert(result models.ExtractionResult) ([]byte, error) {
	doc := ExportDocument{
		Filename: result.Filename,
		Fields:   result.Fields,
		RawText:  result.RawText,
	}
	if doc.Fields == nil {
		doc.Fields = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", c.indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode export document: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ExportFilename drops a trailing ".pdf" from name and appends ".json".
func ExportFilename(name string) string {
	return strings.TrimSuffix(name, ".pdf") + ".json"
}
