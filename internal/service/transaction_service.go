package service

import (
	"sort"
	"strings"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Amount      decimal.Decimal
	Category    string
	Date        *time.Time
	Type        domain.TransactionType
	Description *string
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	// Amounts are magnitudes; the sign is carried by the type
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			if len(trimmed) > domain.MaxDescriptionLength {
				return nil, domain.ErrDescriptionTooLong
			}
			description = &trimmed
		}
	}

	transaction := &domain.Transaction{
		UserID:      userID,
		Amount:      input.Amount,
		Category:    category,
		Date:        date,
		Type:        input.Type,
		Description: description,
	}

	return s.transactionRepo.Create(transaction)
}

// GetTransactions retrieves transactions for a user with optional filters
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if userID == uuid.Nil {
		return []*domain.Transaction{}, nil
	}
	return s.transactionRepo.GetAllByUser(userID, filters)
}

// GetTransactionByID retrieves a transaction by ID, scoped to the owner
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrTransactionNotFound
	}
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransactionInput holds a partial transaction update. Nil fields are unchanged.
type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
	Type        *domain.TransactionType
	Description *string
}

// UpdateTransaction merges the supplied fields over the existing transaction
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, domain.ErrCategoryRequired
		}
		if len(category) > domain.MaxCategoryNameLength {
			return nil, domain.ErrNameTooLong
		}
		transaction.Category = category
	}

	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		transaction.Amount = *input.Amount
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, domain.ErrInvalidTransactionType
		}
		transaction.Type = *input.Type
	}

	if input.Date != nil {
		transaction.Date = *input.Date
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			transaction.Description = nil
		} else {
			if len(trimmed) > domain.MaxDescriptionLength {
				return nil, domain.ErrDescriptionTooLong
			}
			transaction.Description = &trimmed
		}
	}

	return s.transactionRepo.Update(transaction)
}

// DeleteTransaction removes a transaction and returns the deleted record so
// callers can clean up attachments and publish events
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return nil, err
	}
	return transaction, nil
}

// AttachReceipt links an uploaded receipt to a transaction
func (s *TransactionService) AttachReceipt(userID uuid.UUID, id uuid.UUID, receiptID string) (*domain.Transaction, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrTransactionNotFound
	}
	return s.transactionRepo.SetReceiptID(userID, id, &receiptID)
}

// DetachReceipt removes the receipt link from a transaction
func (s *TransactionService) DetachReceipt(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrTransactionNotFound
	}
	return s.transactionRepo.SetReceiptID(userID, id, nil)
}

// SummaryFilters narrows the summary computation. Nil fields are ignored.
type SummaryFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *domain.TransactionType
}

// CategorySummary aggregates transactions for one category
type CategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthSummary aggregates income and expenses for one calendar month
type MonthSummary struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Summary is an aggregate view over a user's transactions
type Summary struct {
	TotalIncome      decimal.Decimal   `json:"totalIncome"`
	TotalExpenses    decimal.Decimal   `json:"totalExpenses"`
	Balance          decimal.Decimal   `json:"balance"`
	TransactionCount int               `json:"transactionCount"`
	ByCategory       []CategorySummary `json:"byCategory"`
	ByMonth          []MonthSummary    `json:"byMonth"`
}

// GetSummary computes income/expense totals with per-category and per-month
// breakdowns over the user's transactions
func (s *TransactionService) GetSummary(userID uuid.UUID, filters SummaryFilters) (*Summary, error) {
	listFilters := &domain.TransactionFilters{
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
		Type:      filters.Type,
	}

	transactions, err := s.GetTransactions(userID, listFilters)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TransactionCount: len(transactions),
		ByCategory:       []CategorySummary{},
		ByMonth:          []MonthSummary{},
	}

	type categoryAgg struct {
		total decimal.Decimal
		count int
	}
	type monthAgg struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}
	byCategory := make(map[string]categoryAgg)
	byMonth := make(map[string]monthAgg)

	for _, t := range transactions {
		amount := t.Amount.Abs()

		if t.Type == domain.TransactionTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		} else {
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		}

		cat := byCategory[t.Category]
		if cat.count == 0 {
			cat.total = decimal.Zero
		}
		cat.total = cat.total.Add(amount)
		cat.count++
		byCategory[t.Category] = cat

		month := t.Date.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = monthAgg{income: decimal.Zero, expenses: decimal.Zero}
		}
		if t.Type == domain.TransactionTypeIncome {
			m.income = m.income.Add(amount)
		} else {
			m.expenses = m.expenses.Add(amount)
		}
		byMonth[month] = m
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)

	for category, agg := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategorySummary{
			Category: category,
			Total:    agg.total,
			Count:    agg.count,
		})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total.GreaterThan(summary.ByCategory[j].Total)
	})

	for month, agg := range byMonth {
		summary.ByMonth = append(summary.ByMonth, MonthSummary{
			Month:    month,
			Income:   agg.income,
			Expenses: agg.expenses,
		})
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	return summary, nil
}
