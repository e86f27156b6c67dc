package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimePeriod is the recurrence granularity used to infer a budget's end date
// when none is given explicitly.
type TimePeriod string

const (
	TimePeriodDaily   TimePeriod = "daily"
	TimePeriodWeekly  TimePeriod = "weekly"
	TimePeriodMonthly TimePeriod = "monthly"
	TimePeriodYearly  TimePeriod = "yearly"
)

// IsValid reports whether p is one of the known time periods.
func (p TimePeriod) IsValid() bool {
	switch p {
	case TimePeriodDaily, TimePeriodWeekly, TimePeriodMonthly, TimePeriodYearly:
		return true
	}
	return false
}

// Budget is a per-category spending cap over a period.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	TimePeriod TimePeriod      `json:"timePeriod"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    *time.Time      `json:"endDate,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// BudgetProjection is a Budget combined with live ledger data. It is derived
// on every read and never persisted.
type BudgetProjection struct {
	Budget
	CurrentSpending decimal.Decimal `json:"currentSpending"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentageUsed  float64         `json:"percentageUsed"`
}

// BudgetChanges holds a partial update. Nil fields are left unchanged.
type BudgetChanges struct {
	Category   *string
	Amount     *decimal.Decimal
	TimePeriod *TimePeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// BudgetRepository defines the interface for budget persistence operations.
// Every operation is scoped to the owning user.
type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Budget, error)
	GetAllByUser(userID uuid.UUID) ([]*Budget, error)
	Update(userID uuid.UUID, id uuid.UUID, changes BudgetChanges) (*Budget, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}

// PeriodEnd resolves the end of a budget period. An explicit end date always
// wins; otherwise one unit of the period is added to start. Calendar overflow
// follows time.AddDate normalization (Jan 31 + 1 month lands in early March),
// which mirrors how the dates behave everywhere else in the system.
func PeriodEnd(start time.Time, period TimePeriod, explicitEnd *time.Time) time.Time {
	if explicitEnd != nil {
		return *explicitEnd
	}

	switch period {
	case TimePeriodDaily:
		return start.AddDate(0, 0, 1)
	case TimePeriodWeekly:
		return start.AddDate(0, 0, 7)
	case TimePeriodMonthly:
		return start.AddDate(0, 1, 0)
	case TimePeriodYearly:
		return start.AddDate(1, 0, 0)
	}
	// Unreachable for validated budgets; period kinds are checked upstream.
	return start
}

// SumExpenseAmounts folds a selection of ledger entries into total spending,
// taking the absolute value of each amount. An empty selection sums to zero.
func SumExpenseAmounts(transactions []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount.Abs())
	}
	return total
}
