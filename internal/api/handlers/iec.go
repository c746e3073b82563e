package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/iec-api/internal/models"
	"github.com/nexconsult/iec-api/internal/services"
	"github.com/nexconsult/iec-api/internal/utils"
)

// Responses the API contract fixes verbatim.
const (
	msgMissingParams  = "Missing required parameters: iec_code and name"
	msgCaptchaFailure = "Failed to solve captcha"
)

// IECHandler handles IEC lookup requests
type IECHandler struct {
	iecService services.IECServiceInterface
	logger     *logrus.Logger
}

// NewIECHandler creates a new IEC handler
func NewIECHandler(iecService services.IECServiceInterface, logger *logrus.Logger) *IECHandler {
	return &IECHandler{
		iecService: iecService,
		logger:     logger,
	}
}

// Lookup handles a single IEC lookup
// @Summary Look up an IEC registration
// @Description Retrieve registration details and branch list for an IEC code from the DGFT portal
// @Tags IEC
// @Accept json
// @Produce json
// @Param request body models.IECRequest true "IEC code and registered entity name"
// @Success 200 {object} models.IECResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /iec/lookup [post]
func (h *IECHandler) Lookup(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.IECRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Missing lookup parameters")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   msgMissingParams,
		})
		return
	}

	// Both fields are required as non-blank before any browser work
	if strings.TrimSpace(request.IECCode) == "" || strings.TrimSpace(request.EntityName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   msgMissingParams,
		})
		return
	}

	iecCode, valid := utils.NormalizeIEC(request.IECCode)
	if !valid {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"iec":        request.IECCode,
			"cleaned":    iecCode,
		}).Warn("Invalid IEC format")

		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Invalid IEC format",
			Message:   "iec_code must contain exactly 10 alphanumeric characters",
			Code:      models.ErrCodeInvalidInput,
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"iec":        iecCode,
	}).Info("Processing IEC lookup")

	result, err := h.iecService.GetIEC(c.Request.Context(), iecCode, request.EntityName)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"iec":        iecCode,
			"error":      err.Error(),
			"duration":   time.Since(start),
		}).Error("IEC lookup failed")

		h.writeError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"iec":        iecCode,
		"duration":   time.Since(start),
		"cache":      result.Cache,
	}).Info("IEC lookup completed successfully")

	if result.Cache {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps pipeline failures to HTTP responses by error code.
func (h *IECHandler) writeError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "An unexpected error occurred while processing your request",
			Code:      models.ErrCodeInternal,
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	switch scrapeErr.Code {
	case models.ErrCodeCaptchaExhausted:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   msgCaptchaFailure,
		})
	case models.ErrCodeScrapingFailed, models.ErrCodeSolverFailure:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:     "Portal scraping failed",
			Message:   scrapeErr.Message,
			Code:      scrapeErr.Code,
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   scrapeErr.Message,
			Code:      scrapeErr.Code,
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	}
}
