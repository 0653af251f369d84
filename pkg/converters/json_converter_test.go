package converters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/ocr-review/internal/models"
)

func TestJSONConverter_RoundTrip(t *testing.T) {
	src := models.ExtractionResult{
		Filename: "invoice.pdf",
		Fields:   map[string]string{"Name": "Jane", "Total": "<42 & change>"},
		RawText:  "Jane Doe\nTotal: <42 & change>",
	}

	data, err := NewJSONConverter().Convert(src)
	require.NoError(t, err)

	var back ExportDocument
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, src.Filename, back.Filename)
	assert.Equal(t, src.Fields, back.Fields)
	assert.Equal(t, src.RawText, back.RawText)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Len(t, keys, 3)
}

func TestJSONConverter_Layout(t *testing.T) {
	data, err := NewJSONConverter().Convert(models.ExtractionResult{
		Filename: "a.pdf",
		Fields:   map[string]string{"Name": "Jane"},
		RawText:  "x",
	})
	require.NoError(t, err)

	want := "{\n" +
		"  \"filename\": \"a.pdf\",\n" +
		"  \"fields\": {\n" +
		"    \"Name\": \"Jane\"\n" +
		"  },\n" +
		"  \"raw_text\": \"x\"\n" +
		"}"
	assert.Equal(t, want, string(data))
}

func TestJSONConverter_NilFields(t *testing.T) {
	data, err := NewJSONConverter().Convert(models.ExtractionResult{Filename: "b.pdf"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fields": {}`)
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a.pdf", "a.json"},
		{"scan.pdf.pdf", "scan.pdf.json"},
		{"my.pdfs.pdf", "my.pdfs.json"},
		{"notes.pdf.txt", "notes.pdf.txt.json"},
		{"report", "report.json"},
		{"REPORT.PDF", "REPORT.PDF.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename(tt.in))
		})
	}
}
