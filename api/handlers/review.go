package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/ocr-review/api/middleware"
	"github.com/feichai0017/ocr-review/internal/document"
	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

const filesField = "files"

type ReviewHandler struct {
	inspector *document.Inspector
	logger    logger.Logger
}

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// PanelResponse is the JSON form of the panel plus the notifications raised
// since the previous response.
type PanelResponse struct {
	Panel         review.View           `json:"panel"`
	Notifications []models.Notification `json:"notifications"`
}

func NewReviewHandler(inspector *document.Inspector, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		inspector: inspector,
		logger:    logger,
	}
}

// Index 渲染上传与结果页面
func (h *ReviewHandler) Index(c *gin.Context) {
	panel := middleware.Panel(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Notifications": panel.DrainNotifications(),
		"View":          panel.Snapshot(),
	})
}

// Select 替换当前选中的文件
func (h *ReviewHandler) Select(c *gin.Context) {
	if err := h.selectFiles(c); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file selection", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Submit 提交选中的文件进行识别
//
// A disabled trigger (nothing selected, or already in flight) is a no-op.
func (h *ReviewHandler) Submit(c *gin.Context) {
	if err := h.submit(c); err != nil && !errors.Is(err, review.ErrSubmitUnavailable) {
		h.handleError(c, http.StatusInternalServerError, "Failed to submit", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Toggle 展开或收起单个文档面板
func (h *ReviewHandler) Toggle(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	if err := middleware.Panel(c).Toggle(index); err != nil {
		h.handleError(c, http.StatusNotFound, "Result not found", err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/#panel-%d", index))
}

// Export 下载单个文档的 JSON
func (h *ReviewHandler) Export(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	filename, data, err := middleware.Panel(c).ExportJSON(index)
	if err != nil {
		if errors.Is(err, review.ErrNoSuchResult) {
			h.handleError(c, http.StatusNotFound, "Result not found", err)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to export result", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/json", data)
}

// GetPanel 返回面板状态
func (h *ReviewHandler) GetPanel(c *gin.Context) {
	h.respondPanel(c)
}

func (h *ReviewHandler) PostFiles(c *gin.Context) {
	if err := h.selectFiles(c); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file selection", err)
		return
	}
	h.respondPanel(c)
}

func (h *ReviewHandler) PostSubmit(c *gin.Context) {
	if err := h.submit(c); err != nil {
		if errors.Is(err, review.ErrSubmitUnavailable) {
			h.handleError(c, http.StatusConflict, "Submit is disabled", err)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to submit", err)
		return
	}
	h.respondPanel(c)
}

func (h *ReviewHandler) PostToggle(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	if err := middleware.Panel(c).Toggle(index); err != nil {
		h.handleError(c, http.StatusNotFound, "Result not found", err)
		return
	}
	h.respondPanel(c)
}

func (h *ReviewHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ReviewHandler) selectFiles(c *gin.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}

	files, err := h.inspector.InspectHeaders(c.Request.Context(), form.File[filesField])
	if err != nil {
		return err
	}
	middleware.Panel(c).SelectFiles(files)

	names := make([]string, 0, len(files))
	var total int64
	for _, f := range files {
		names = append(names, f.Name)
		total += f.Size
	}
	logger.FromContext(c.Request.Context(), h.logger).Info("Selection replaced",
		logger.Strings("files", names),
		logger.Int64("bytes", total),
	)
	return nil
}

// submit runs the extraction detached from the browser request: once sent it
// completes even if the client goes away.
func (h *ReviewHandler) submit(c *gin.Context) error {
	return middleware.Panel(c).Submit(context.WithoutCancel(c.Request.Context()))
}

func (h *ReviewHandler) respondPanel(c *gin.Context) {
	panel := middleware.Panel(c)
	notifications := panel.DrainNotifications()
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, PanelResponse{
		Panel:         panel.Snapshot(),
		Notifications: notifications,
	})
}

func (h *ReviewHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid result index", err)
		return 0, false
	}
	return index, true
}

// handleError 统一错误处理
func (h *ReviewHandler) handleError(c *gin.Context, status int, message string, err error) {
	logger.FromContext(c.Request.Context(), h.logger).Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message:   message,
		RequestID: logger.RequestID(c.Request.Context()),
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.AbortWithStatusJSON(status, response)
}
