package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Expense is the row shape of the expenses table.
type Expense struct {
	Seq          int64
	ID           string
	Title        string
	Category     string
	Amount       string
	DateUnixNano int64
}

const createExpense = `INSERT INTO expenses (id, title, category, amount, date_unix_nano)
VALUES (?, ?, ?, ?, ?)`

type CreateExpenseParams struct {
	ID           string
	Title        string
	Category     string
	Amount       string
	DateUnixNano int64
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) error {
	_, err := q.db.ExecContext(ctx, createExpense,
		arg.ID,
		arg.Title,
		arg.Category,
		arg.Amount,
		arg.DateUnixNano,
	)
	return err
}

const updateExpense = `UPDATE expenses
SET title = ?, category = ?, amount = ?, date_unix_nano = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

type UpdateExpenseParams struct {
	Title        string
	Category     string
	Amount       string
	DateUnixNano int64
	ID           string
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense,
		arg.Title,
		arg.Category,
		arg.Amount,
		arg.DateUnixNano,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getExpense = `SELECT seq, id, title, category, amount, date_unix_nano
FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id string) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.Title,
		&i.Category,
		&i.Amount,
		&i.DateUnixNano,
	)
	return i, err
}

const listExpenses = `SELECT seq, id, title, category, amount, date_unix_nano
FROM expenses ORDER BY seq ASC`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.Title,
			&i.Category,
			&i.Amount,
			&i.DateUnixNano,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

