package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/internal/review"
)

const refreshTag = `<meta http-equiv="refresh" content="2">`

func render(t *testing.T, view review.View) string {
	t.Helper()
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "index.html", map[string]interface{}{
		"Notifications": []models.Notification(nil),
		"View":          view,
	}))
	return buf.String()
}

func TestIndex_RefreshesWhileInFlight(t *testing.T) {
	page := render(t, review.View{
		State:     models.SubmissionInFlight,
		InFlight:  true,
		OpenIndex: review.NoneOpen,
	})
	assert.Contains(t, page, refreshTag)
	assert.Contains(t, page, "disabled>Uploading...</button>")
}

func TestIndex_NoRefreshWhenSettled(t *testing.T) {
	for _, state := range []models.SubmissionState{models.SubmissionIdle, models.SubmissionDone} {
		page := render(t, review.View{State: state, OpenIndex: review.NoneOpen})
		assert.NotContains(t, page, refreshTag)
	}
}

func TestPlural(t *testing.T) {
	plural := Funcs["plural"].(func(int, string) string)
	assert.Equal(t, "document", plural(0, "document"))
	assert.Equal(t, "document", plural(1, "document"))
	assert.Equal(t, "documents", plural(2, "document"))
}
