package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID     map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	CreateFn   func(category *domain.Category) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	for _, c := range m.Categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID within a user's scope
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetByName retrieves a category by name within a user's scope
func (m *MockCategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all categories for a user sorted by name
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.Categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	if categories == nil {
		return []*domain.Category{}, nil
	}
	return categories, nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	GetAllFn     func(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	DeleteFn     func(userID uuid.UUID, id uuid.UUID) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID within a user's scope
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// GetAllByUser retrieves all transactions for a user matching the filters,
// newest first
func (m *MockTransactionRepository) GetAllByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID, filters)
	}
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	var transactions []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters.Type != nil && t.Type != *filters.Type {
			continue
		}
		if filters.Category != nil && t.Category != *filters.Category {
			continue
		}
		if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
			continue
		}
		if filters.Search != nil {
			needle := strings.ToLower(*filters.Search)
			desc := ""
			if t.Description != nil {
				desc = strings.ToLower(*t.Description)
			}
			if !strings.Contains(strings.ToLower(t.Category), needle) && !strings.Contains(desc, needle) {
				continue
			}
		}
		transactions = append(transactions, t)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if transactions == nil {
		return []*domain.Transaction{}, nil
	}
	return transactions, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete deletes a transaction within a user's scope
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// SetReceiptID updates the receipt reference on a transaction
func (m *MockTransactionRepository) SetReceiptID(userID uuid.UUID, id uuid.UUID, receiptID *string) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.ReceiptID = receiptID
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

// ExpensesInRange retrieves the user's expense transactions for an exact
// category within an inclusive date range
func (m *MockTransactionRepository) ExpensesInRange(userID uuid.UUID, category string, start time.Time, end time.Time) ([]*domain.Transaction, error) {
	var expenses []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if t.Type != domain.TransactionTypeExpense {
			continue
		}
		if t.Category != category {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		expenses = append(expenses, t)
	}
	if expenses == nil {
		return []*domain.Transaction{}, nil
	}
	return expenses, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets  map[uuid.UUID]*domain.Budget
	CreateFn func(budget *domain.Budget) (*domain.Budget, error)
	UpdateFn func(userID uuid.UUID, id uuid.UUID, changes domain.BudgetChanges) (*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID within a user's scope
func (m *MockBudgetRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetAllByUser retrieves all budgets for a user, newest first
func (m *MockBudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.After(budgets[j].CreatedAt)
	})
	if budgets == nil {
		return []*domain.Budget{}, nil
	}
	return budgets, nil
}

// Update merges the supplied changes over the stored budget
func (m *MockBudgetRepository) Update(userID uuid.UUID, id uuid.UUID, changes domain.BudgetChanges) (*domain.Budget, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(userID, id, changes)
	}
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	if changes.Category != nil {
		budget.Category = *changes.Category
	}
	if changes.Amount != nil {
		budget.Amount = *changes.Amount
	}
	if changes.TimePeriod != nil {
		budget.TimePeriod = *changes.TimePeriod
	}
	if changes.StartDate != nil {
		budget.StartDate = *changes.StartDate
	}
	if changes.EndDate != nil {
		budget.EndDate = changes.EndDate
	}
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// Delete deletes a budget within a user's scope
func (m *MockBudgetRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	m.Budgets[budget.ID] = budget
}
