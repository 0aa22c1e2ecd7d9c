package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/usecase"
)

const serviceVersion = "1.0.0"

// HandlerOptions holds presentation settings for the handlers
type HandlerOptions struct {
	Currency             string
	MaxUploadBytes       int64
	ExtractionConfigured bool
	Logger               zerolog.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	session  *usecase.Session
	scanner  *usecase.ScanService
	renderer domain.ReportRenderer
	opts     HandlerOptions
	now      func() time.Time
}

// NewHandler creates a new HTTP handler. scanner and renderer may be nil, in
// which case their endpoints answer 503.
func NewHandler(session *usecase.Session, scanner *usecase.ScanService, renderer domain.ReportRenderer, opts HandlerOptions) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	return &Handler{
		session:  session,
		scanner:  scanner,
		renderer: renderer,
		opts:     opts,
		now:      time.Now,
	}
}

// numericInput accepts a JSON number or a JSON string and keeps the raw text,
// so manual-entry values are validated by the usecase parsers.
type numericInput string

func (n *numericInput) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numericInput(s)
		return nil
	}
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = numericInput(b)
	return nil
}

type addItemRequest struct {
	Name         string       `json:"name" binding:"required"`
	Price        numericInput `json:"price" binding:"required"`
	Category     string       `json:"category"`
	MeasureValue numericInput `json:"measureValue"`
	MeasureUnit  string       `json:"measureUnit" binding:"omitempty,measure_unit"`
	Quantity     int          `json:"quantity" binding:"omitempty,min=1"`
}

type updateItemRequest struct {
	Name         *string       `json:"name" binding:"omitempty,min=1"`
	Price        *numericInput `json:"price"`
	Category     *string       `json:"category"`
	MeasureValue *numericInput `json:"measureValue"`
	MeasureUnit  *string       `json:"measureUnit"`
	Quantity     *int          `json:"quantity" binding:"omitempty,min=1"`
}

type budgetRequest struct {
	Amount numericInput `json:"amount" binding:"required"`
}

type listItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	extraction := "configured"
	if !h.opts.ExtractionConfigured {
		extraction = "missing_api_key"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "smartcart-backend",
		"version":    serviceVersion,
		"extraction": extraction,
	})
}

// GetCart returns the cart with totals and budget usage
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Cart())
}

// AddItem adds a manually entered product to the cart
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := usecase.ManualEntry{
		Name:         req.Name,
		Price:        string(req.Price),
		Category:     req.Category,
		MeasureValue: string(req.MeasureValue),
		MeasureUnit:  req.MeasureUnit,
	}.ToRecord()
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry := h.session.AddProduct(record, req.Quantity)
	c.JSON(http.StatusCreated, entry)
}

// UpdateItem merges the given fields into a cart entry
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := domain.EntryPatch{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
	}
	if req.Price != nil {
		price, err := usecase.ParsePrice(string(*req.Price))
		if err != nil {
			h.respondError(c, err)
			return
		}
		patch.Price = &price
	}
	// an empty measure value or unit clears it
	if req.MeasureValue != nil {
		if strings.TrimSpace(string(*req.MeasureValue)) == "" {
			patch.ClearMeasureValue = true
		} else {
			v, err := usecase.ParseMeasureValue(string(*req.MeasureValue))
			if err != nil {
				h.respondError(c, err)
				return
			}
			patch.MeasureValue = &v
		}
	}
	if req.MeasureUnit != nil {
		var unit domain.MeasureUnit
		if strings.TrimSpace(*req.MeasureUnit) != "" {
			parsed, ok := domain.ParseMeasureUnit(*req.MeasureUnit)
			if !ok {
				h.respondError(c, fmt.Errorf("%w: measure unit %q", domain.ErrInvalidRequest, *req.MeasureUnit))
				return
			}
			unit = parsed
		}
		patch.MeasureUnit = &unit
	}

	entry, err := h.session.UpdateEntry(c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// IncrementItem raises the quantity of a cart entry by one
func (h *Handler) IncrementItem(c *gin.Context) {
	entry, err := h.session.IncrementEntry(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DecrementItem lowers the quantity of a cart entry, removing it at zero
func (h *Handler) DecrementItem(c *gin.Context) {
	entry, removed, err := h.session.DecrementEntry(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "removed": removed})
}

// RemoveItem deletes a cart entry
func (h *Handler) RemoveItem(c *gin.Context) {
	if err := h.session.RemoveEntry(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCart empties the cart once the client confirms
func (h *Handler) ClearCart(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusConflict, gin.H{"error": "clearing the cart requires confirm=true"})
		return
	}
	h.session.ClearCart()
	c.Status(http.StatusNoContent)
}

// Comparison returns the cart grouped by category and ranked by unit price
func (h *Handler) Comparison(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": h.session.Comparison()})
}

// ShareText returns the plain-text cart summary
func (h *Handler) ShareText(c *gin.Context) {
	c.String(http.StatusOK, h.session.ShareText(h.opts.Currency))
}

// ExportReport renders the cart report as a downloadable file
func (h *Handler) ExportReport(c *gin.Context) {
	if h.renderer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report export not configured"})
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, h.session.Report(h.opts.Currency)); err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("smartcart-%s.pdf", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, h.renderer.ContentType(), buf.Bytes())
}

// GetBudget returns the budget summary
func (h *Handler) GetBudget(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Budget())
}

// SetBudget sets the process-wide budget
func (h *Handler) SetBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := usecase.ParsePrice(string(req.Amount))
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	summary, err := h.session.SetBudget(amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearBudget removes the budget
func (h *Handler) ClearBudget(c *gin.Context) {
	h.session.ClearBudget()
	c.Status(http.StatusNoContent)
}

// Scan analyzes the uploaded product photos one by one
func (h *Handler) Scan(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanning not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form with files: " + err.Error()})
		return
	}

	uploads, err := readUploads(form.File["files"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scanner.AnalyzeBatch(c.Request.Context(), uploads)
	if err != nil {
		if result != nil && len(result.Added) > 0 {
			c.JSON(statusForError(err), gin.H{"error": err.Error(), "added": result.Added})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetList returns the shopping list with fulfilled flags
func (h *Handler) GetList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.session.List()})
}

// AddListItem adds an item to the shopping list
func (h *Handler) AddListItem(c *gin.Context) {
	var req listItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.session.AddListItem(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ImportList reads a photographed shopping list into the list
func (h *Handler) ImportList(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanning not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form with file: " + err.Error()})
		return
	}
	uploads, err := readUploads([]*multipart.FileHeader{fh})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.scanner.ImportList(c.Request.Context(), uploads[0])
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// ToggleListItem flips the checked flag of a list item
func (h *Handler) ToggleListItem(c *gin.Context) {
	entry, err := h.session.ToggleListItem(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// RemoveListItem deletes a list item
func (h *Handler) RemoveListItem(c *gin.Context) {
	if err := h.session.RemoveListItem(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearList empties the shopping list once the client confirms
func (h *Handler) ClearList(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusConflict, gin.H{"error": "clearing the list requires confirm=true"})
		return
	}
	h.session.ClearList()
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.opts.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrEntryNotFound), errors.Is(err, domain.ErrListItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnsupportedContentType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrAnalysisFailed), errors.Is(err, domain.ErrListReadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func readUploads(headers []*multipart.FileHeader) ([]domain.Upload, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no files submitted", domain.ErrInvalidRequest)
	}
	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
