package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/Athulraj10/qashio-api-assignment/internal/service"
	"github.com/Athulraj10/qashio-api-assignment/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newBudgetHandler() (*BudgetHandler, *testutil.MockBudgetRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo)
	return NewBudgetHandler(budgetService, nil), budgetRepo, transactionRepo
}

func TestCreateBudgetHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()
	userID := uuid.New()

	reqBody := `{"category": "Food", "amount": "300.00", "timePeriod": "monthly", "startDate": "2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, userID, "test@example.com")

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Category != "Food" {
		t.Errorf("Expected category 'Food', got %s", response.Category)
	}
	if !response.Amount.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("Expected amount 300.00, got %s", response.Amount)
	}
	if response.TimePeriod != domain.TimePeriodMonthly {
		t.Errorf("Expected monthly period, got %s", response.TimePeriod)
	}
	if response.UserID != userID {
		t.Errorf("Expected userID %s, got %s", userID, response.UserID)
	}
}

func TestCreateBudgetHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()

	reqBody := `{"category": "Food", "amount": "300.00", "timePeriod": "monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateBudgetHandler_ValidationErrors(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()
	userID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"bad amount", `{"category": "Food", "amount": "not-a-number", "timePeriod": "monthly"}`},
		{"negative amount", `{"category": "Food", "amount": "-10", "timePeriod": "monthly"}`},
		{"missing category", `{"category": "", "amount": "100", "timePeriod": "monthly"}`},
		{"bad period", `{"category": "Food", "amount": "100", "timePeriod": "fortnightly"}`},
		{"bad start date", `{"category": "Food", "amount": "100", "timePeriod": "monthly", "startDate": "01/01/2024"}`},
		{"end before start", `{"category": "Food", "amount": "100", "timePeriod": "monthly", "startDate": "2024-02-01", "endDate": "2024-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, userID, "test@example.com")

			if err := handler.CreateBudget(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetBudgetsHandler(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, _ := newBudgetHandler()
	userID := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	budgetRepo.AddBudget(&domain.Budget{
		UserID:     uuid.New(),
		Category:   "Rent",
		Amount:     decimal.RequireFromString("900"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "test@example.com")

	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 budget, got %d", len(response))
	}
	if response[0].Category != "Food" {
		t.Errorf("Expected category 'Food', got %s", response[0].Category)
	}
}

func TestGetBudgetsHandler_WithSpending(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, transactionRepo := newBudgetHandler()
	userID := uuid.New()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:   userID,
		Amount:   decimal.RequireFromString("50"),
		Category: "Food",
		Date:     time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Type:     domain.TransactionTypeExpense,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets?withSpending=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "test@example.com")

	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []domain.BudgetProjection
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 projection, got %d", len(response))
	}
	if !response[0].CurrentSpending.Equal(decimal.RequireFromString("50")) {
		t.Errorf("Expected current spending 50, got %s", response[0].CurrentSpending)
	}
	if !response[0].Remaining.Equal(decimal.RequireFromString("150")) {
		t.Errorf("Expected remaining 150, got %s", response[0].Remaining)
	}
	if response[0].PercentageUsed != 25 {
		t.Errorf("Expected 25%% used, got %f", response[0].PercentageUsed)
	}
}

func TestGetBudgetHandler_IncludesProjection(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, _ := newBudgetHandler()
	userID := uuid.New()

	budget := &domain.Budget{
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	budgetRepo.AddBudget(budget)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/"+budget.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(budget.ID.String())
	setupAuthContext(c, userID, "test@example.com")

	if err := handler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response domain.BudgetProjection
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.CurrentSpending.Equal(decimal.Zero) {
		t.Errorf("Expected zero spending, got %s", response.CurrentSpending)
	}
	if !response.Remaining.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Expected remaining 200, got %s", response.Remaining)
	}
}

func TestGetBudgetHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	setupAuthContext(c, uuid.New(), "test@example.com")

	if err := handler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetBudgetHandler_InvalidID(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	setupAuthContext(c, uuid.New(), "test@example.com")

	if err := handler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateBudgetHandler_PartialUpdate(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, _ := newBudgetHandler()
	userID := uuid.New()

	budget := &domain.Budget{
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	budgetRepo.AddBudget(budget)

	reqBody := `{"amount": "250.00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/"+budget.ID.String(), strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(budget.ID.String())
	setupAuthContext(c, userID, "test@example.com")

	if err := handler.UpdateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.Amount.Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("Expected amount 250.00, got %s", response.Amount)
	}
	if response.Category != "Food" {
		t.Errorf("Expected category unchanged, got %s", response.Category)
	}
}

func TestUpdateBudgetHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBudgetHandler()

	id := uuid.New()
	reqBody := `{"amount": "250.00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/"+id.String(), strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	setupAuthContext(c, uuid.New(), "test@example.com")

	if err := handler.UpdateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteBudgetHandler(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, _ := newBudgetHandler()
	userID := uuid.New()

	budget := &domain.Budget{
		UserID:     userID,
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	budgetRepo.AddBudget(budget)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/"+budget.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(budget.ID.String())
	setupAuthContext(c, userID, "test@example.com")

	if err := handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(budgetRepo.Budgets) != 0 {
		t.Errorf("Expected budget removed, %d remain", len(budgetRepo.Budgets))
	}
}

func TestDeleteBudgetHandler_OtherUsersBudget(t *testing.T) {
	e := echo.New()
	handler, budgetRepo, _ := newBudgetHandler()

	budget := &domain.Budget{
		UserID:     uuid.New(),
		Category:   "Food",
		Amount:     decimal.RequireFromString("200"),
		TimePeriod: domain.TimePeriodMonthly,
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	budgetRepo.AddBudget(budget)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/"+budget.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(budget.ID.String())
	setupAuthContext(c, uuid.New(), "test@example.com")

	if err := handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if len(budgetRepo.Budgets) != 1 {
		t.Errorf("Expected budget untouched, %d remain", len(budgetRepo.Budgets))
	}
}
