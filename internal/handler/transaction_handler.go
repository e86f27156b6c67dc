package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/Athulraj10/qashio-api-assignment/internal/middleware"
	"github.com/Athulraj10/qashio-api-assignment/internal/service"
	"github.com/Athulraj10/qashio-api-assignment/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	receiptService     *service.ReceiptService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, receiptService *service.ReceiptService, publisher websocket.EventPublisher) *TransactionHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionHandler{
		transactionService: transactionService,
		receiptService:     receiptService,
		publisher:          publisher,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        *string `json:"date,omitempty"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.CreateTransactionInput{
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		Type:        domain.TransactionType(req.Type),
		Description: req.Description,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Str("category", transaction.Category).Msg("Transaction created")
	h.publisher.Publish(userID, websocket.TransactionCreated(transaction))

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /api/v1/transactions
// Supports type, category, startDate, endDate and search query filters.
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if v := c.QueryParam("type"); v != "" {
		t := domain.TransactionType(v)
		if !t.IsValid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Must be income or expense"},
			})
		}
		filters.Type = &t
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := parseDate(&v)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := parseDate(&v)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = end
	}
	if v := c.QueryParam("search"); v != "" {
		filters.Search = &v
	}

	transactions, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if req.Date != nil {
		date, err := parseDate(req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Date = date
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		input.Type = &t
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	h.publisher.Publish(userID, websocket.TransactionUpdated(transaction))

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
// Any attached receipt is removed from storage as well.
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	deleted, err := h.transactionService.DeleteTransaction(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	if deleted.ReceiptID != nil && h.receiptService != nil && h.receiptService.IsEnabled() {
		if err := h.receiptService.Remove(c.Request().Context(), userID, *deleted.ReceiptID); err != nil {
			log.Warn().Err(err).Str("receipt_id", *deleted.ReceiptID).Msg("Failed to remove receipt for deleted transaction")
		}
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")
	h.publisher.Publish(userID, websocket.TransactionDeleted(map[string]string{"id": id.String()}))

	return c.NoContent(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/transactions/summary
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := service.SummaryFilters{}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := parseDate(&v)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := parseDate(&v)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = end
	}
	if v := c.QueryParam("type"); v != "" {
		t := domain.TransactionType(v)
		if !t.IsValid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Must be income or expense"},
			})
		}
		filters.Type = &t
	}

	summary, err := h.transactionService.GetSummary(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get summary")
		return NewInternalError(c, "Failed to get summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// UploadReceipt handles POST /api/v1/transactions/:id/receipt
func (h *TransactionHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	// Receipt replaces any previously attached one
	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}
	previousReceiptID := transaction.ReceiptID

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	metadata, err := h.receiptService.Upload(c.Request().Context(), userID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrReceiptInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrReceiptInvalidData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload receipt")
			return NewInternalError(c, "Failed to upload receipt")
		}
	}

	updated, err := h.transactionService.AttachReceipt(userID, id, metadata.ID)
	if err != nil {
		// The transaction disappeared between the lookup and the attach,
		// clean up the orphaned objects
		if cleanupErr := h.receiptService.Remove(c.Request().Context(), userID, metadata.ID); cleanupErr != nil {
			log.Warn().Err(cleanupErr).Str("receipt_id", metadata.ID).Msg("Failed to clean up orphaned receipt")
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to attach receipt")
		return NewInternalError(c, "Failed to attach receipt")
	}

	if previousReceiptID != nil {
		if err := h.receiptService.Remove(c.Request().Context(), userID, *previousReceiptID); err != nil {
			log.Warn().Err(err).Str("receipt_id", *previousReceiptID).Msg("Failed to remove replaced receipt")
		}
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Str("receipt_id", metadata.ID).Msg("Receipt uploaded")
	h.publisher.Publish(userID, websocket.TransactionUpdated(updated))

	return c.JSON(http.StatusCreated, metadata)
}

// GetReceipt handles GET /api/v1/transactions/:id/receipt
// Responds with short-lived presigned URLs for the receipt variants.
func (h *TransactionHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	if transaction.ReceiptID == nil {
		return NewNotFoundError(c, "Transaction has no receipt")
	}

	metadata, err := h.receiptService.URLs(c.Request().Context(), userID, *transaction.ReceiptID)
	if err != nil {
		log.Error().Err(err).Str("receipt_id", *transaction.ReceiptID).Msg("Failed to generate receipt URLs")
		return NewInternalError(c, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, metadata)
}

// DeleteReceipt handles DELETE /api/v1/transactions/:id/receipt
func (h *TransactionHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	if transaction.ReceiptID == nil {
		return NewNotFoundError(c, "Transaction has no receipt")
	}
	receiptID := *transaction.ReceiptID

	updated, err := h.transactionService.DetachReceipt(userID, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to detach receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	if err := h.receiptService.Remove(c.Request().Context(), userID, receiptID); err != nil {
		log.Warn().Err(err).Str("receipt_id", receiptID).Msg("Failed to remove receipt objects")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Str("receipt_id", receiptID).Msg("Receipt deleted")
	h.publisher.Publish(userID, websocket.TransactionUpdated(updated))

	return c.NoContent(http.StatusNoContent)
}

// transactionValidationResponse maps transaction validation errors to
// responses. Returns nil when the error is not a validation error.
func transactionValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must not be negative"},
		})
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be income or expense"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 500 characters or less"},
		})
	}
	return nil
}
