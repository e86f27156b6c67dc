package postgres

import (
	"context"
	"errors"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category, amount, time_period, start_date, end_date, created_at, updated_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category, amount, time_period, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+budgetColumns,
		budget.UserID,
		budget.Category,
		budget.Amount,
		budget.TimePeriod,
		budget.StartDate,
		budget.EndDate,
	)
	return scanBudget(row)
}

// GetByID retrieves a budget by ID, scoped to the owning user
func (r *BudgetRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetAllByUser retrieves all budgets owned by a user, newest first
func (r *BudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update merges the supplied changes over the stored budget. The
// read-modify-write runs inside a transaction with the row locked so
// concurrent updates to the same budget cannot lose writes.
func (r *BudgetRepository) Update(userID uuid.UUID, id uuid.UUID, changes domain.BudgetChanges) (*domain.Budget, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
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

	row = tx.QueryRow(ctx,
		`UPDATE budgets
		 SET category = $3, amount = $4, time_period = $5, start_date = $6, end_date = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+budgetColumns,
		id, userID,
		budget.Category,
		budget.Amount,
		budget.TimePeriod,
		budget.StartDate,
		budget.EndDate,
	)
	updated, err := scanBudget(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget, scoped to the owning user
func (r *BudgetRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var budget domain.Budget
	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Category,
		&budget.Amount,
		&budget.TimePeriod,
		&budget.StartDate,
		&budget.EndDate,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &budget, nil
}
