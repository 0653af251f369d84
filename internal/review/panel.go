// Package review holds the upload-and-review panel: the selected files, the
// last extraction results, which result panel is open and whether a
// submission is in flight.
package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/pkg/converters"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

const (
	// NoneOpen is the expansion index when every panel is collapsed.
	NoneOpen = -1

	MessageExtracted    = "Extraction completed!"
	MessageUploadFailed = "Upload failed. Please try again."
)

var (
	// ErrSubmitUnavailable is returned when submit is disabled: nothing is
	// selected or a submission is already in flight.
	ErrSubmitUnavailable = errors.New("submit is not available")
	// ErrNoSuchResult is returned for an index outside the current result set.
	ErrNoSuchResult = errors.New("no such result")
)

// Extractor sends the selected files to the OCR service.
type Extractor interface {
	Extract(ctx context.Context, files []models.SelectedFile) ([]models.ExtractionResult, error)
}

// Panel is safe for concurrent use.
type Panel struct {
	mu            sync.Mutex
	extractor     Extractor
	converter     converters.DocumentConverter
	logger        logger.Logger
	selection     []models.SelectedFile
	results       []models.ExtractionResult
	hasResults    bool
	open          int
	state         models.SubmissionState
	notifications []models.Notification
}

func NewPanel(extractor Extractor, log logger.Logger) *Panel {
	return &Panel{
		extractor: extractor,
		converter: converters.NewJSONConverter(),
		logger:    log.Named("panel"),
		open:      NoneOpen,
		state:     models.SubmissionIdle,
	}
}

// SelectFiles replaces the current selection. An empty slice clears it.
func (p *Panel) SelectFiles(files []models.SelectedFile) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.selection = append([]models.SelectedFile(nil), files...)
}

// CanSubmit reports whether the submit trigger is enabled.
func (p *Panel) CanSubmit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canSubmitLocked()
}

func (p *Panel) canSubmitLocked() bool {
	return len(p.selection) > 0 && p.state != models.SubmissionInFlight
}

// Submit sends the whole selection in one request. It returns
// ErrSubmitUnavailable without side effects when the trigger is disabled.
// Any extraction failure is turned into an error notification and logged; it
// is not returned.
func (p *Panel) Submit(ctx context.Context) error {
	p.mu.Lock()
	if !p.canSubmitLocked() {
		p.mu.Unlock()
		return ErrSubmitUnavailable
	}
	p.state = models.SubmissionInFlight
	files := append([]models.SelectedFile(nil), p.selection...)
	p.mu.Unlock()

	log := logger.FromContext(ctx, p.logger)
	results, err := p.extractor.Extract(ctx, files)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = models.SubmissionDone

	if err != nil {
		log.Error("Extraction failed",
			logger.Int("files", len(files)),
			logger.Error(err),
		)
		p.notify(models.NotificationError, MessageUploadFailed)
		return nil
	}

	p.results = results
	p.hasResults = true
	p.open = NoneOpen
	p.notify(models.NotificationSuccess, MessageExtracted)
	log.Info("Extraction stored",
		logger.Int("files", len(files)),
		logger.Int("documents", len(results)),
	)
	return nil
}

// Toggle closes panel index if it is open, otherwise opens it and closes any
// other.
func (p *Panel) Toggle(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.results) {
		return fmt.Errorf("%w: %d", ErrNoSuchResult, index)
	}
	if p.open == index {
		p.open = NoneOpen
	} else {
		p.open = index
	}
	return nil
}

// ExportJSON renders result index as a downloadable JSON document. It never
// touches the network.
func (p *Panel) ExportJSON(index int) (string, []byte, error) {
	p.mu.Lock()
	if index < 0 || index >= len(p.results) {
		p.mu.Unlock()
		return "", nil, fmt.Errorf("%w: %d", ErrNoSuchResult, index)
	}
	result := p.results[index]
	p.mu.Unlock()

	data, err := p.converter.Convert(result)
	if err != nil {
		return "", nil, err
	}
	return converters.ExportFilename(result.Filename), data, nil
}

// DrainNotifications returns the queued notifications and clears the queue.
func (p *Panel) DrainNotifications() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.notifications
	p.notifications = nil
	return out
}

func (p *Panel) notify(kind models.NotificationKind, msg string) {
	p.notifications = append(p.notifications, models.Notification{Kind: kind, Message: msg})
}

// FieldEntry is one extracted field, for rendering.
type FieldEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ResultView is one document panel.
type ResultView struct {
	Index    int          `json:"index"`
	Filename string       `json:"filename"`
	Fields   []FieldEntry `json:"fields"`
	RawText  string       `json:"raw_text"`
	Open     bool         `json:"open"`
	// Exportable mirrors the export affordance: only offered when fields exist.
	Exportable bool `json:"exportable"`
}

// View is a point-in-time copy of the panel state.
type View struct {
	Selection  []models.SelectedFile  `json:"selection"`
	State      models.SubmissionState `json:"state"`
	CanSubmit  bool                   `json:"canSubmit"`
	InFlight   bool                   `json:"inFlight"`
	HasResults bool                   `json:"hasResults"`
	Results    []ResultView           `json:"results"`
	OpenIndex  int                    `json:"openIndex"`
}

// Snapshot copies the state for rendering. Field entries are sorted by key.
func (p *Panel) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Selection:  append([]models.SelectedFile{}, p.selection...),
		State:      p.state,
		CanSubmit:  p.canSubmitLocked(),
		InFlight:   p.state == models.SubmissionInFlight,
		HasResults: p.hasResults,
		Results:    make([]ResultView, 0, len(p.results)),
		OpenIndex:  p.open,
	}

	for i, r := range p.results {
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]FieldEntry, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, FieldEntry{Key: k, Value: r.Fields[k]})
		}

		v.Results = append(v.Results, ResultView{
			Index:      i,
			Filename:   r.Filename,
			Fields:     fields,
			RawText:    r.RawText,
			Open:       i == p.open,
			Exportable: r.HasFields(),
		})
	}
	return v
}
