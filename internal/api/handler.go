// Package api exposes the conversion pipeline over HTTP as a multipart
// upload endpoint.
package api

import (
	"bytes"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/pipeline"
	"github.com/insightdelivered/statement-normalizer/internal/writer"
)

const version = "1.0.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                       `json:"success"`
	Error        string                     `json:"error,omitempty"`
	BankCode     string                     `json:"bankCode,omitempty"`
	Transactions []models.TransactionRecord `json:"transactions"`
	CSV          string                     `json:"csv,omitempty"`
	Count        int                        `json:"count"`
	Version      string                     `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Logger   *log.Logger
}

func NewHandler(p *pipeline.Pipeline, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{Pipeline: p, Logger: logger}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/convert", h.handleConvert)
	app.Get("/api/health", h.handleHealth)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) handleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to open uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}

	password := c.FormValue("password")

	records, err := h.Pipeline.Process(data, fileHeader.Filename, password)
	if err != nil {
		h.Logger.Warn("conversion failed", "file", fileHeader.Filename, "err", err)
		return writeError(c, statusFor(err), err.Error())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{}
	if err := csvWriter.Write(&csvBuf, records); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "CSV generation failed.")
	}

	// nil marshals to JSON null, not []
	if records == nil {
		records = []models.TransactionRecord{}
	}

	bankCode := ""
	if len(records) > 0 {
		bankCode = records[0].BankCode
	}

	return c.JSON(ConvertResponse{
		Success:      true,
		BankCode:     bankCode,
		Transactions: records,
		CSV:          csvBuf.String(),
		Count:        len(records),
		Version:      version,
	})
}

// statusFor maps the pipeline's terminal error kinds onto HTTP status
// codes: unsupported extension, missing or wrong password, and no
// extractable content each get their own.
func statusFor(err error) int {
	var noContent *models.NoContentError
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrPasswordRequired), errors.Is(err, models.ErrIncorrectPassword):
		return fiber.StatusUnauthorized
	case errors.As(err, &noContent):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.TransactionRecord{},
	})
}
