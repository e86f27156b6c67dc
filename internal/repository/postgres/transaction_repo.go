package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL.
// It also satisfies domain.SpendingLedger for budget projection.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, amount, category, date, type, description, receipt_id, created_at, updated_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, amount, category, date, type, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+transactionColumns,
		transaction.UserID,
		transaction.Amount,
		transaction.Category,
		transaction.Date,
		transaction.Type,
		transaction.Description,
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID, scoped to the owning user
func (r *TransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetAllByUser retrieves the user's transactions with optional filters,
// newest first
func (r *TransactionRepository) GetAllByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, *filters.Type)
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, *filters.Category)
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
		if filters.Search != nil && *filters.Search != "" {
			args = append(args, "%"+*filters.Search+"%")
			query += fmt.Sprintf(" AND (category ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
		}
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update rewrites a transaction's mutable fields
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET amount = $3, category = $4, date = $5, type = $6, description = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+transactionColumns,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		transaction.Category,
		transaction.Date,
		transaction.Type,
		transaction.Description,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction, scoped to the owning user
func (r *TransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SetReceiptID links (or unlinks, with nil) a receipt to a transaction
func (r *TransactionRepository) SetReceiptID(userID uuid.UUID, id uuid.UUID, receiptID *string) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET receipt_id = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+transactionColumns,
		id, userID, receiptID,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ExpensesInRange returns expense transactions matching the category exactly
// with dates in [start, end], both ends inclusive. Implements domain.SpendingLedger.
func (r *TransactionRepository) ExpensesInRange(userID uuid.UUID, category string, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE user_id = $1
		   AND category = $2
		   AND type = 'expense'
		   AND date >= $3
		   AND date <= $4`,
		userID, category, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Amount,
		&transaction.Category,
		&transaction.Date,
		&transaction.Type,
		&transaction.Description,
		&transaction.ReceiptID,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}
