package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// DefaultTotalsYear is used when monthlyTotals gets no usable year.
const DefaultTotalsYear = 2025

// maxIdempotencyKeyLen bounds the Idempotency-Key header.
const maxIdempotencyKeyLen = 255

// RecordHandler handles financial-record requests.
type RecordHandler struct {
	recordService services.RecordServicer
	storeTimeout  time.Duration
}

// NewRecordHandler creates a new RecordHandler. Every store call it makes is
// bounded by storeTimeout.
func NewRecordHandler(recordService services.RecordServicer, storeTimeout time.Duration) *RecordHandler {
	return &RecordHandler{recordService: recordService, storeTimeout: storeTimeout}
}

// CreateRecordRequest represents the request payload for creating a record
type CreateRecordRequest struct {
	UserID        string           `json:"userId" binding:"max=255"`
	Date          *string          `json:"date" example:"2025-03-14"`
	Description   string           `json:"description" binding:"required,notblank,max=500"`
	Amount        *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number" example:"-42.5"`
	Category      string           `json:"category" binding:"required,notblank,max=100"`
	PaymentMethod string           `json:"paymentMethod" binding:"required,notblank,max=100"`
}

// UpdateRecordRequest represents the request payload for updating a record.
// Omitted fields keep their stored value. The owner cannot be changed.
type UpdateRecordRequest struct {
	Date          *string          `json:"date"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	Amount        *decimal.Decimal `json:"amount" swaggertype:"number"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	PaymentMethod *string          `json:"paymentMethod" binding:"omitempty,max=100"`
}

// DeleteRecordResponse represents the response of a delete
type DeleteRecordResponse struct {
	Message string        `json:"message"`
	Record  models.Record `json:"record"`
}

// RecordOptionsResponse lists the values offered by the record form
type RecordOptionsResponse struct {
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"paymentMethods"`
}

// resolveUserID picks the owner a request acts on: the requested id, else the
// verified caller, else the default user.
func resolveUserID(c *gin.Context, requested string) (string, error) {
	userID := strings.TrimSpace(requested)
	if userID == "" {
		if identity, ok := getIdentity(c); ok {
			userID = identity
		} else {
			userID = models.DefaultUserID
		}
	}
	if err := authorizeOwner(c, userID); err != nil {
		return "", err
	}
	return userID, nil
}

// GetAllRecords handles the administrative listing across users
// @Summary     List records
// @Description List records across users, newest first, capped at 100 unless a limit is given
// @Tags        financial-records
// @Produce     json
// @Param       limit query int    false "Maximum records to return (default 100, max 1000)"
// @Param       sort  query string false "Sort order: date or -date (default -date)"
// @Success     200 {array}  models.Record "Records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "Database unreachable"
// @Failure     504 {object} ErrorResponse "Database timeout"
// @Router      /financial-records/all [get]
func (h *RecordHandler) GetAllRecords(c *gin.Context) {
	var list pagination.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	records, err := h.recordService.GetAllRecords(ctx, list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetUserRecords handles listing one user's records
// @Summary     List a user's records
// @Description List every record owned by a user. No limit applies unless one is given.
// @Tags        financial-records
// @Produce     json
// @Security    BearerAuth
// @Param       userId path  string true  "User ID"
// @Param       limit  query int    false "Maximum records to return"
// @Param       sort   query string false "Sort order: date or -date"
// @Success     200 {array}  models.Record "Records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Another user's records"
// @Failure     504 {object} ErrorResponse "Database timeout"
// @Router      /financial-records/getAllByUserID/{userId} [get]
func (h *RecordHandler) GetUserRecords(c *gin.Context) {
	userID, err := resolveUserID(c, c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var list pagination.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	records, err := h.recordService.GetUserRecords(ctx, userID, list)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetMonthlyTotals handles the per-month aggregation
// @Summary     Monthly totals
// @Description Sum and count of a user's records for each month of a year. Always twelve entries, Jan to Dec.
// @Tags        financial-records
// @Produce     json
// @Security    BearerAuth
// @Param       userId query string false "User ID (default: caller or default-user)"
// @Param       year   query int    false "Calendar year (default 2025)"
// @Success     200 {array}  models.MonthlyTotal "Twelve monthly totals"
// @Failure     403 {object} ErrorResponse "Another user's records"
// @Failure     504 {object} ErrorResponse "Database timeout"
// @Router      /financial-records/monthlyTotals [get]
func (h *RecordHandler) GetMonthlyTotals(c *gin.Context) {
	userID, err := resolveUserID(c, c.Query("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = DefaultTotalsYear
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	totals, err := h.recordService.MonthlyTotals(ctx, userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// GetRecordOptions handles the form value listing
// @Summary     Record form options
// @Description Categories and payment methods offered by the record form
// @Tags        financial-records
// @Produce     json
// @Success     200 {object} RecordOptionsResponse "Options"
// @Router      /financial-records/options [get]
func (h *RecordHandler) GetRecordOptions(c *gin.Context) {
	c.JSON(http.StatusOK, RecordOptionsResponse{
		Categories:     models.Categories,
		PaymentMethods: models.PaymentMethods,
	})
}

// ExportRecordsRequest holds the export query parameters
type ExportRecordsRequest struct {
	UserID string `form:"userId" binding:"max=255"`
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// ExportRecords handles downloading a user's records as a spreadsheet
// @Summary     Export a user's records
// @Description Download every record of a user, oldest first, as CSV or XLSX
// @Tags        financial-records
// @Produce     text/csv
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       userId query string false "User ID (default: caller or default-user)"
// @Param       format query string false "csv or xlsx (default csv)"
// @Success     200 {file}   file "Spreadsheet"
// @Failure     400 {object} ErrorResponse "Invalid format"
// @Failure     403 {object} ErrorResponse "Another user's records"
// @Failure     504 {object} ErrorResponse "Database timeout"
// @Router      /financial-records/export [get]
func (h *RecordHandler) ExportRecords(c *gin.Context) {
	var req ExportRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Format == "" {
		req.Format = export.FormatCSV
	}

	userID, err := resolveUserID(c, req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	records, err := h.recordService.GetUserRecords(ctx, userID, pagination.ListRequest{Sort: pagination.SortDateAsc})
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Format, records); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	filename := fmt.Sprintf("records_%s_%s.%s", userID, time.Now().UTC().Format("20060102"), req.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType(req.Format), buf.Bytes())
}

// GetRecordByID handles fetching a single record
// @Summary     Get a record
// @Tags        financial-records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} models.Record "Record"
// @Failure     403 {object} ErrorResponse "Another user's record"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /financial-records/{id} [get]
func (h *RecordHandler) GetRecordByID(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	record, err := h.recordService.GetRecordByID(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := authorizeOwner(c, record.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// CreateRecord handles the creation of a new record
// @Summary     Create a record
// @Description Create a record. userId defaults to the caller or default-user, date to now.
// @Description Repeating a request with the same Idempotency-Key returns the first record with 200.
// @Tags        financial-records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header string              false "Collapses retries into one record"
// @Param       request         body   CreateRecordRequest true  "Record details"
// @Success     201 {object} models.Record "Record created"
// @Success     200 {object} models.Record "Replayed create"
// @Failure     400 {object} ErrorResponse "Invalid input or zero amount"
// @Failure     403 {object} ErrorResponse "Another user's records"
// @Failure     504 {object} ErrorResponse "Database timeout"
// @Router      /financial-records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userID, err := resolveUserID(c, req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(key) > maxIdempotencyKeyLen {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Idempotency-Key is too long"))
		return
	}

	input := services.RecordInput{
		UserID:         userID,
		Description:    req.Description,
		Amount:         req.Amount,
		Category:       req.Category,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: key,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		input.Date = &parsed
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	record, created, err := h.recordService.CreateRecord(ctx, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, record)
}

// UpdateRecord handles a partial update
// @Summary     Update a record
// @Description Overwrite the supplied fields of a record. Omitted fields are unchanged.
// @Tags        financial-records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Record ID"
// @Param       request body UpdateRecordRequest true "Fields to change"
// @Success     200 {object} models.Record "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input or zero amount"
// @Failure     403 {object} ErrorResponse "Another user's record"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /financial-records/{id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.RecordPatch{
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		patch.Date = &parsed
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	if err := h.checkOwner(ctx, c, id); err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.UpdateRecord(ctx, id, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord handles a hard delete
// @Summary     Delete a record
// @Tags        financial-records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} DeleteRecordResponse "Record deleted"
// @Failure     403 {object} ErrorResponse "Another user's record"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /financial-records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	if err := h.checkOwner(ctx, c, id); err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.DeleteRecord(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteRecordResponse{
		Message: "Record deleted successfully",
		Record:  *record,
	})
}

// checkOwner loads the record only when a verified caller must be matched
// against its owner.
func (h *RecordHandler) checkOwner(ctx context.Context, c *gin.Context, id string) error {
	if _, ok := getIdentity(c); !ok {
		return nil
	}
	record, err := h.recordService.GetRecordByID(ctx, id)
	if err != nil {
		return err
	}
	return authorizeOwner(c, record.UserID)
}
