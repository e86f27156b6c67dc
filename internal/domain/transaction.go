package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	Description *string         `json:"description,omitempty"`
	ReceiptID   *string         `json:"receiptId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows a transaction listing. Nil fields are ignored.
type TransactionFilters struct {
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Search    *string
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Transaction, error)
	GetAllByUser(userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	SetReceiptID(userID uuid.UUID, id uuid.UUID, receiptID *string) (*Transaction, error)
	ExpensesInRange(userID uuid.UUID, category string, start, end time.Time) ([]*Transaction, error)
}

// SpendingLedger is the ledger-query capability budget projection depends on.
// ExpensesInRange returns every expense transaction whose category equals
// category exactly (case-sensitive) and whose date falls in [start, end],
// both ends inclusive. The full transaction repository satisfies it.
type SpendingLedger interface {
	ExpensesInRange(userID uuid.UUID, category string, start, end time.Time) ([]*Transaction, error)
}
