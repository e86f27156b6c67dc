package service

import (
	"strings"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget business logic, including the spending
// projection over the transaction ledger.
type BudgetService struct {
	budgetRepo domain.BudgetRepository
	ledger     domain.SpendingLedger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, ledger domain.SpendingLedger) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		ledger:     ledger,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category   string
	Amount     decimal.Decimal
	TimePeriod domain.TimePeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// CreateBudget creates a new budget with validation
func (s *BudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
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

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if !input.TimePeriod.IsValid() {
		return nil, domain.ErrInvalidTimePeriod
	}

	// Default start date to creation time if not supplied
	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	if input.EndDate != nil && input.EndDate.Before(startDate) {
		return nil, domain.ErrInvalidDateRange
	}

	budget := &domain.Budget{
		UserID:     userID,
		Category:   category,
		Amount:     input.Amount,
		TimePeriod: input.TimePeriod,
		StartDate:  startDate,
		EndDate:    input.EndDate,
	}

	return s.budgetRepo.Create(budget)
}

// GetBudgets retrieves all budgets owned by the user. A missing owner yields
// an empty result set, never an unscoped one.
func (s *BudgetService) GetBudgets(userID uuid.UUID) ([]*domain.Budget, error) {
	if userID == uuid.Nil {
		return []*domain.Budget{}, nil
	}
	return s.budgetRepo.GetAllByUser(userID)
}

// GetBudget retrieves a single budget by ID, scoped to the owner
func (s *BudgetService) GetBudget(userID uuid.UUID, id uuid.UUID) (*domain.Budget, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrBudgetNotFound
	}
	return s.budgetRepo.GetByID(userID, id)
}

// GetBudgetsWithSpending retrieves all budgets with their spending projection
func (s *BudgetService) GetBudgetsWithSpending(userID uuid.UUID) ([]*domain.BudgetProjection, error) {
	budgets, err := s.GetBudgets(userID)
	if err != nil {
		return nil, err
	}

	projections := make([]*domain.BudgetProjection, len(budgets))
	for i, budget := range budgets {
		projection, err := s.calculateSpending(budget)
		if err != nil {
			return nil, err
		}
		projections[i] = projection
	}
	return projections, nil
}

// GetBudgetWithSpending retrieves a single budget with its spending projection
func (s *BudgetService) GetBudgetWithSpending(userID uuid.UUID, id uuid.UUID) (*domain.BudgetProjection, error) {
	budget, err := s.GetBudget(userID, id)
	if err != nil {
		return nil, err
	}
	return s.calculateSpending(budget)
}

// UpdateBudgetInput holds a partial budget update. Nil fields are unchanged.
type UpdateBudgetInput struct {
	Category   *string
	Amount     *decimal.Decimal
	TimePeriod *domain.TimePeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// UpdateBudget merges the supplied fields over the existing budget
func (s *BudgetService) UpdateBudget(userID uuid.UUID, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrBudgetNotFound
	}

	changes := domain.BudgetChanges{
		Amount:     input.Amount,
		TimePeriod: input.TimePeriod,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}

	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, domain.ErrCategoryRequired
		}
		if len(category) > domain.MaxCategoryNameLength {
			return nil, domain.ErrNameTooLong
		}
		changes.Category = &category
	}

	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if input.TimePeriod != nil && !input.TimePeriod.IsValid() {
		return nil, domain.ErrInvalidTimePeriod
	}

	return s.budgetRepo.Update(userID, id, changes)
}

// DeleteBudget removes a budget, enforcing ownership via the scoped lookup
func (s *BudgetService) DeleteBudget(userID uuid.UUID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrBudgetNotFound
	}
	if _, err := s.budgetRepo.GetByID(userID, id); err != nil {
		return err
	}
	return s.budgetRepo.Delete(userID, id)
}

// calculateSpending projects a budget against the ledger: it resolves the
// active period window, sums matching expenses and derives the remaining
// balance and percentage used. Recomputed on every read, never cached.
func (s *BudgetService) calculateSpending(budget *domain.Budget) (*domain.BudgetProjection, error) {
	end := domain.PeriodEnd(budget.StartDate, budget.TimePeriod, budget.EndDate)

	expenses, err := s.ledger.ExpensesInRange(budget.UserID, budget.Category, budget.StartDate, end)
	if err != nil {
		return nil, err
	}

	spending := domain.SumExpenseAmounts(expenses)
	remaining := budget.Amount.Sub(spending)

	percentageUsed := 0.0
	if budget.Amount.IsPositive() {
		percentageUsed, _ = spending.
			Div(budget.Amount).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	return &domain.BudgetProjection{
		Budget:          *budget,
		CurrentSpending: spending,
		Remaining:       remaining,
		PercentageUsed:  percentageUsed,
	}, nil
}
