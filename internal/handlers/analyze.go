// analyze.go handles the invoice analysis endpoint.
//
// POST /analyze: upload a PDF invoice, get back the Thingamajig total
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/finsight-api/internal/logger"
	"github.com/Shimizu-Technology/finsight-api/internal/models"
)

// uploadField is the multipart field carrying the PDF.
const uploadField = "file"

// documentErrorPrefix starts every document failure message.
const documentErrorPrefix = "Failed to process PDF: "

// Analyze handles PDF upload and summation.
// POST /analyze
//
// Accepts multipart file upload with field name "file". Processing is
// synchronous. A document that cannot be processed still answers 200, with
// {"error": "Failed to process PDF: ..."} in place of {"sum": ...}.
func (h *Handler) Analyze(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error: fmt.Sprintf("Upload exceeds the %d byte limit.", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: fmt.Sprintf("No file provided. Upload a PDF with the field name '%s'.", uploadField),
		})
		return
	}
	defer file.Close()

	// Read the entire file into memory for the PDF library
	data, err := io.ReadAll(file)
	if err != nil {
		h.documentError(c, header.Filename, err)
		return
	}

	total, err := h.Analyzer.Analyze(c.Request.Context(), data)
	if err != nil {
		h.documentError(c, header.Filename, err)
		return
	}

	log.Info().Str("filename", header.Filename).Int("bytes", len(data)).Float64("sum", total).Msg("invoice analyzed")
	c.JSON(http.StatusOK, models.AnalyzeResponse{Sum: total})
}

// documentError reports a failed document in the public error shape.
func (h *Handler) documentError(c *gin.Context, filename string, err error) {
	log := logger.FromContext(c.Request.Context())
	log.Warn().
		Err(err).
		Str("filename", filename).
		Msg("PDF processing failed")

	c.JSON(http.StatusOK, models.ErrorResponse{
		Error: documentErrorPrefix + err.Error(),
	})
}
