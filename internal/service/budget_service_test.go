package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/Athulraj10/qashio-api-assignment/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func expense(userID uuid.UUID, category string, amount string, day time.Time) *domain.Transaction {
	return &domain.Transaction{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     day,
		Type:     domain.TransactionTypeExpense,
	}
}

func income(userID uuid.UUID, category string, amount string, day time.Time) *domain.Transaction {
	return &domain.Transaction{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     day,
		Type:     domain.TransactionTypeIncome,
	}
}

func newBudgetService() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	return NewBudgetService(budgetRepo, transactionRepo), budgetRepo, transactionRepo
}

func TestCreateBudget_Success(t *testing.T) {
	svc, _, _ := newBudgetService()
	userID := uuid.New()

	start := date(2024, 1, 1)
	budget, err := svc.CreateBudget(userID, CreateBudgetInput{
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  &start,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if budget.Category != "Food" {
		t.Errorf("Expected category 'Food', got %s", budget.Category)
	}
	if !budget.Amount.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Expected amount 200, got %s", budget.Amount)
	}
	if budget.TimePeriod != domain.TimePeriodMonthly {
		t.Errorf("Expected monthly period, got %s", budget.TimePeriod)
	}
	if !budget.StartDate.Equal(start) {
		t.Errorf("Expected start date %s, got %s", start, budget.StartDate)
	}
	if budget.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, budget.UserID)
	}
}

func TestCreateBudget_DefaultsStartDate(t *testing.T) {
	svc, _, _ := newBudgetService()

	before := time.Now().UTC().Truncate(24 * time.Hour)
	budget, err := svc.CreateBudget(uuid.New(), CreateBudgetInput{
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodWeekly,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if budget.StartDate.Before(before) {
		t.Errorf("Expected start date defaulted to today, got %s", budget.StartDate)
	}
}

func TestCreateBudget_ValidationErrors(t *testing.T) {
	svc, _, _ := newBudgetService()
	userID := uuid.New()

	tests := []struct {
		name    string
		input   CreateBudgetInput
		wantErr error
	}{
		{
			name:    "empty category",
			input:   CreateBudgetInput{Category: "  ", Amount: decimal.NewFromInt(10), TimePeriod: domain.TimePeriodMonthly},
			wantErr: domain.ErrCategoryRequired,
		},
		{
			name:    "negative amount",
			input:   CreateBudgetInput{Category: "Food", Amount: decimal.NewFromInt(-1), TimePeriod: domain.TimePeriodMonthly},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "invalid period",
			input:   CreateBudgetInput{Category: "Food", Amount: decimal.NewFromInt(10), TimePeriod: "fortnightly"},
			wantErr: domain.ErrInvalidTimePeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBudget(userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateBudget_EndDateBeforeStart(t *testing.T) {
	svc, _, _ := newBudgetService()

	start := date(2024, 5, 1)
	end := date(2024, 4, 1)
	_, err := svc.CreateBudget(uuid.New(), CreateBudgetInput{
		Category:   "Food",
		Amount:     decimal.NewFromInt(100),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  &start,
		EndDate:    &end,
	})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetBudgets_NilUserIDReturnsEmpty(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	budgetRepo.AddBudget(&domain.Budget{ID: uuid.New(), UserID: uuid.New(), Category: "Food"})

	budgets, err := svc.GetBudgets(uuid.Nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(budgets) != 0 {
		t.Errorf("Expected empty result for nil user, got %d budgets", len(budgets))
	}
}

func TestGetBudgets_ScopedToOwner(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	owner := uuid.New()
	other := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{ID: uuid.New(), UserID: owner, Category: "Food"})
	budgetRepo.AddBudget(&domain.Budget{ID: uuid.New(), UserID: other, Category: "Rent"})

	budgets, err := svc.GetBudgets(owner)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("Expected 1 budget, got %d", len(budgets))
	}
	if budgets[0].Category != "Food" {
		t.Errorf("Expected owner's budget, got %s", budgets[0].Category)
	}
}

func TestGetBudget_OtherUsersBudgetNotFound(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	owner := uuid.New()

	budget := &domain.Budget{ID: uuid.New(), UserID: owner, Category: "Food"}
	budgetRepo.AddBudget(budget)

	_, err := svc.GetBudget(uuid.New(), budget.ID)
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("Expected ErrBudgetNotFound, got %v", err)
	}
}

func TestGetBudgetWithSpending_MonthlyWindow(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	// In window
	transactionRepo.AddTransaction(expense(userID, "Food", "50", date(2024, 1, 15)))
	// Outside window
	transactionRepo.AddTransaction(expense(userID, "Food", "30", date(2024, 2, 15)))
	// Income never counts toward spending
	transactionRepo.AddTransaction(income(userID, "Food", "1000", date(2024, 1, 10)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.Equal(decimal.RequireFromString("50")) {
		t.Errorf("Expected spending 50, got %s", projection.CurrentSpending)
	}
	if !projection.Remaining.Equal(decimal.RequireFromString("150")) {
		t.Errorf("Expected remaining 150, got %s", projection.Remaining)
	}
	if projection.PercentageUsed != 25.0 {
		t.Errorf("Expected 25%% used, got %v", projection.PercentageUsed)
	}
}

func TestGetBudgetWithSpending_InclusiveBounds(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	// Monthly budget starting 2024-01-01 runs through 2024-02-01 inclusive
	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "Food", "10", date(2024, 1, 1)))
	transactionRepo.AddTransaction(expense(userID, "Food", "20", date(2024, 2, 1)))
	transactionRepo.AddTransaction(expense(userID, "Food", "40", date(2024, 2, 2)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.Equal(decimal.RequireFromString("30")) {
		t.Errorf("Expected spending 30 (both boundary days), got %s", projection.CurrentSpending)
	}
}

func TestGetBudgetWithSpending_ExplicitEndDateWins(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	end := date(2024, 1, 10)
	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
		EndDate:    &end,
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "Food", "10", date(2024, 1, 5)))
	// After the explicit end, inside what the monthly window would have been
	transactionRepo.AddTransaction(expense(userID, "Food", "25", date(2024, 1, 20)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.Equal(decimal.RequireFromString("10")) {
		t.Errorf("Expected spending 10, got %s", projection.CurrentSpending)
	}
}

func TestGetBudgetWithSpending_CategoryMatchIsExact(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "food", "10", date(2024, 1, 5)))
	transactionRepo.AddTransaction(expense(userID, "Food ", "20", date(2024, 1, 5)))
	transactionRepo.AddTransaction(expense(userID, "Food", "5", date(2024, 1, 5)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.Equal(decimal.RequireFromString("5")) {
		t.Errorf("Expected only the exact category match, got %s", projection.CurrentSpending)
	}
}

func TestGetBudgetWithSpending_ScopedToOwner(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()
	other := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	// Another user's spending in the same category and window
	transactionRepo.AddTransaction(expense(other, "Food", "99", date(2024, 1, 5)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.IsZero() {
		t.Errorf("Expected zero spending, got %s", projection.CurrentSpending)
	}
}

func TestGetBudgetWithSpending_NoMatchesIsZero(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.IsZero() {
		t.Errorf("Expected zero spending, got %s", projection.CurrentSpending)
	}
	if !projection.Remaining.Equal(decimal.RequireFromString("100")) {
		t.Errorf("Expected remaining 100, got %s", projection.Remaining)
	}
	if projection.PercentageUsed != 0 {
		t.Errorf("Expected 0%% used, got %v", projection.PercentageUsed)
	}
}

func TestGetBudgetWithSpending_ZeroAmountBudget(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.Zero,
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "Food", "50", date(2024, 1, 5)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// No division by zero, percentage pinned to 0
	if projection.PercentageUsed != 0 {
		t.Errorf("Expected 0%% for zero-amount budget, got %v", projection.PercentageUsed)
	}
	if !projection.Remaining.Equal(decimal.RequireFromString("-50")) {
		t.Errorf("Expected remaining -50, got %s", projection.Remaining)
	}
}

func TestGetBudgetWithSpending_OverspentGoesNegative(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "Food", "150", date(2024, 1, 5)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.Remaining.Equal(decimal.RequireFromString("-50")) {
		t.Errorf("Expected remaining -50, got %s", projection.Remaining)
	}
	if projection.PercentageUsed != 150.0 {
		t.Errorf("Expected 150%% used, got %v", projection.PercentageUsed)
	}
}

func TestGetBudgetWithSpending_NegativeExpenseAmountsCountAbsolute(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	transactionRepo.AddTransaction(expense(userID, "Food", "-25", date(2024, 1, 5)))
	transactionRepo.AddTransaction(expense(userID, "Food", "25", date(2024, 1, 6)))

	projection, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !projection.CurrentSpending.Equal(decimal.RequireFromString("50")) {
		t.Errorf("Expected spending 50, got %s", projection.CurrentSpending)
	}
}

func TestGetBudgetWithSpending_Idempotent(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)
	transactionRepo.AddTransaction(expense(userID, "Food", "33.33", date(2024, 1, 5)))

	first, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := svc.GetBudgetWithSpending(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !first.CurrentSpending.Equal(second.CurrentSpending) ||
		!first.Remaining.Equal(second.Remaining) ||
		first.PercentageUsed != second.PercentageUsed {
		t.Error("Expected repeated reads to produce identical projections")
	}
}

func TestGetBudgetsWithSpending_ProjectsEachBudget(t *testing.T) {
	svc, budgetRepo, transactionRepo := newBudgetService()
	userID := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: userID, Category: "Food",
		Amount: decimal.RequireFromString("200"), TimePeriod: domain.TimePeriodMonthly, StartDate: date(2024, 1, 1),
	})
	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: userID, Category: "Rent",
		Amount: decimal.RequireFromString("1000"), TimePeriod: domain.TimePeriodMonthly, StartDate: date(2024, 1, 1),
	})
	transactionRepo.AddTransaction(expense(userID, "Food", "50", date(2024, 1, 15)))

	projections, err := svc.GetBudgetsWithSpending(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(projections) != 2 {
		t.Fatalf("Expected 2 projections, got %d", len(projections))
	}

	byCategory := map[string]decimal.Decimal{}
	for _, p := range projections {
		byCategory[p.Category] = p.CurrentSpending
	}
	if !byCategory["Food"].Equal(decimal.RequireFromString("50")) {
		t.Errorf("Expected Food spending 50, got %s", byCategory["Food"])
	}
	if !byCategory["Rent"].IsZero() {
		t.Errorf("Expected Rent spending 0, got %s", byCategory["Rent"])
	}
}

func TestUpdateBudget_PartialMerge(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("100"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	newAmount := decimal.RequireFromString("250")
	updated, err := svc.UpdateBudget(userID, budget.ID, UpdateBudgetInput{Amount: &newAmount})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Amount.Equal(newAmount) {
		t.Errorf("Expected amount 250, got %s", updated.Amount)
	}
	if updated.Category != "Food" {
		t.Errorf("Expected category unchanged, got %s", updated.Category)
	}
	if updated.TimePeriod != domain.TimePeriodMonthly {
		t.Errorf("Expected period unchanged, got %s", updated.TimePeriod)
	}
}

func TestUpdateBudget_ValidationErrors(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID: uuid.New(), UserID: userID, Category: "Food",
		Amount: decimal.NewFromInt(100), TimePeriod: domain.TimePeriodMonthly, StartDate: date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	empty := "  "
	if _, err := svc.UpdateBudget(userID, budget.ID, UpdateBudgetInput{Category: &empty}); !errors.Is(err, domain.ErrCategoryRequired) {
		t.Errorf("Expected ErrCategoryRequired, got %v", err)
	}

	negative := decimal.NewFromInt(-5)
	if _, err := svc.UpdateBudget(userID, budget.ID, UpdateBudgetInput{Amount: &negative}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	bad := domain.TimePeriod("hourly")
	if _, err := svc.UpdateBudget(userID, budget.ID, UpdateBudgetInput{TimePeriod: &bad}); !errors.Is(err, domain.ErrInvalidTimePeriod) {
		t.Errorf("Expected ErrInvalidTimePeriod, got %v", err)
	}
}

func TestUpdateBudget_OtherUsersBudgetNotFound(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()

	budget := &domain.Budget{
		ID: uuid.New(), UserID: uuid.New(), Category: "Food",
		Amount: decimal.NewFromInt(100), TimePeriod: domain.TimePeriodMonthly, StartDate: date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	amount := decimal.NewFromInt(1)
	_, err := svc.UpdateBudget(uuid.New(), budget.ID, UpdateBudgetInput{Amount: &amount})
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("Expected ErrBudgetNotFound, got %v", err)
	}
}

func TestDeleteBudget(t *testing.T) {
	svc, budgetRepo, _ := newBudgetService()
	userID := uuid.New()

	budget := &domain.Budget{
		ID: uuid.New(), UserID: userID, Category: "Food",
		Amount: decimal.NewFromInt(100), TimePeriod: domain.TimePeriodMonthly, StartDate: date(2024, 1, 1),
	}
	budgetRepo.AddBudget(budget)

	if err := svc.DeleteBudget(userID, budget.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.GetBudget(userID, budget.ID); !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("Expected budget gone, got %v", err)
	}

	if err := svc.DeleteBudget(userID, budget.ID); !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("Expected ErrBudgetNotFound for repeat delete, got %v", err)
	}
}
