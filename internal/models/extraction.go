package models

// SelectedFile 用户在文件选择器中选中的文件
type SelectedFile struct {
	Name     string `json:"name"`
	Content  []byte `json:"-"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
	// Pages is zero when the page count could not be read.
	Pages int `json:"pages,omitempty"`
}

// ExtractionResult OCR 服务返回的单个文档结果
type ExtractionResult struct {
	Filename string            `json:"filename"`
	Fields   map[string]string `json:"fields"`
	RawText  string            `json:"raw_text"`
}

// HasFields reports whether any structured field was extracted.
func (r ExtractionResult) HasFields() bool {
	return len(r.Fields) > 0
}

// SubmissionState 提交状态
type SubmissionState string

const (
	SubmissionIdle     SubmissionState = "idle"
	SubmissionInFlight SubmissionState = "in_flight"
	SubmissionDone     SubmissionState = "done"
)

// NotificationKind 通知类型
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a one-shot message shown to the user (a toast).
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}
