package handlers

import (
	"github.com/feichai0017/ocr-review/internal/document"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

type Handlers struct {
	Review *ReviewHandler
}

func NewHandlers(
	inspector *document.Inspector,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Review: NewReviewHandler(inspector, logger),
	}
}
