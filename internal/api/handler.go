package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/normalize"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/search"
	"github.com/insightdelivered/statement-parser/internal/statement"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxUploadSize   = 32 << 20
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	RequestID    string               `json:"requestId,omitempty"`
	Bank         string               `json:"bank,omitempty"`
	Count        int                  `json:"count"`
	Columns      []string             `json:"columns,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	CSV          string               `json:"csv,omitempty"`
	Version      string               `json:"version,omitempty"`
}

// SearchRequest is the body of /api/search.
type SearchRequest struct {
	Wildcards    []string             `json:"wildcards"`
	Transactions []models.Transaction `json:"transactions"`
}

// SearchResponse is the JSON response from the /api/search endpoint.
type SearchResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Count        int                  `json:"count"`
	Transactions []models.Transaction `json:"transactions"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	// Source extracts uploaded PDFs; text uploads are always read directly.
	Source  extractor.Source
	Logger  logger.Logger
	Version string
	// Columns is the preferred CSV column order.
	Columns   []string
	FirstPage int
	LastPage  int
}

// New builds the fiber app serving h.
func New(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-parser",
		BodyLimit:             maxUploadSize,
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(recover.New())
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the API routes.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	api := r.Group("/api", h.requestID, cors)
	api.Get("/health", h.HandleHealth)
	api.Post("/convert", h.HandleConvert)
	api.Post("/search", h.HandleSearch)
	api.Options("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
}

func (h *Handler) log(c *fiber.Ctx) logger.Logger {
	log := h.Logger
	if log == nil {
		log = logger.Nop()
	}
	if id, ok := c.Locals(requestIDKey).(string); ok {
		log = log.WithField(requestIDKey, id)
	}
	return log
}

func (h *Handler) requestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

func cors(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST, GET, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, "+requestIDHeader)
	return c.Next()
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
	})
}

// HandleConvert parses an uploaded statement (multipart field "file") or
// pre-extracted text (form field "extractedText") and returns its
// transactions as JSON and CSV. Optional fields: "bank" names the layout,
// "search" is a comma-separated wildcard list.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	log := h.log(c)

	var kind models.BankType
	if bank := c.FormValue("bank"); bank != "" {
		k, err := parser.ParseBankType(bank)
		if err != nil {
			return err
		}
		kind = k
	}

	var (
		stmt *models.Statement
		err  error
	)
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		stmt, err = parseText(kind, text)
	} else {
		stmt, err = h.parseUpload(c, kind, log)
	}
	if err != nil {
		return err
	}

	txns := stmt.Transactions
	if wildcards := splitList(c.FormValue("search")); len(wildcards) > 0 {
		txns, err = search.Search(wildcards, txns)
		if err != nil {
			return err
		}
	}

	rows := models.Rows(txns)
	cols := writer.Columns(rows, h.Columns)
	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{}).Write(&csvBuf, rows, cols); err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"bank":         stmt.Bank,
		"pages":        stmt.PageCount,
		"transactions": len(txns),
	}).Infof("converted statement")

	return c.JSON(ConvertResponse{
		Success:      true,
		RequestID:    requestIDOf(c),
		Bank:         string(stmt.Bank),
		Count:        len(txns),
		Columns:      cols,
		Transactions: txns,
		CSV:          csvBuf.String(),
		Version:      h.Version,
	})
}

func (h *Handler) parseUpload(c *fiber.Ctx, kind models.BankType, log logger.Logger) (*models.Statement, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'.")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF and TXT files are supported.")
	}

	dir, err := os.MkdirTemp("", "statement-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "upload"+ext)
	if err := c.SaveFile(header, path); err != nil {
		return nil, err
	}
	log.Debugf("saved upload %q (%d bytes)", header.Filename, header.Size)

	p := statement.NewProcessor(extractor.ByExtension{PDF: h.Source}, log)
	p.FirstPage, p.LastPage = h.FirstPage, h.LastPage
	return p.ParseFile(c.UserContext(), kind, path)
}

func parseText(kind models.BankType, text string) (*models.Statement, error) {
	lines := normalize.SplitLines(text)
	if kind == "" {
		k, err := parser.AutoDetectSource("extractedText", lines)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	prs, err := parser.New(kind)
	if err != nil {
		return nil, err
	}
	return parser.Parse(prs, "extractedText", lines)
}

// HandleSearch filters posted transactions by wildcard.
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body: "+err.Error())
	}
	txns, err := search.Search(req.Wildcards, req.Transactions)
	if err != nil {
		return err
	}
	h.log(c).Debugf("search %v matched %d of %d", req.Wildcards, len(txns), len(req.Transactions))
	return c.JSON(SearchResponse{Success: true, Count: len(txns), Transactions: txns})
}

// handleError writes every failure as {"success": false, "error": ...}.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	log := h.log(c).WithError(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("request failed")
	} else {
		log.Warnf("request rejected")
	}
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        err.Error(),
		RequestID:    requestIDOf(c),
		Transactions: []models.Transaction{},
	})
}

func statusFor(err error) int {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	if se, ok := apperrors.As(err); ok {
		switch se.Category {
		case apperrors.CategoryConfiguration:
			return fiber.StatusBadRequest
		case apperrors.CategorySource, apperrors.CategoryParse:
			return fiber.StatusUnprocessableEntity
		}
	}
	return fiber.StatusInternalServerError
}

func requestIDOf(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
