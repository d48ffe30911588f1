package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"employee-bot/internal/domain"
)

// EmployeeStore keeps one encoded record per row of the employees table.
type EmployeeStore struct {
	db *sql.DB
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func (s *EmployeeStore) Insert(ctx context.Context, blob string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO employees (data_json) VALUES (?)`, blob)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *EmployeeStore) Put(ctx context.Context, id int64, blob string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO employees (id, data_json) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET data_json = excluded.data_json`, id, blob)
	return err
}

func (s *EmployeeStore) Get(ctx context.Context, id int64) (domain.StoredRow, error) {
	row := domain.StoredRow{}
	err := s.db.QueryRowContext(ctx, `SELECT id, data_json FROM employees WHERE id = ?`, id).Scan(&row.ID, &row.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return row, domain.ErrRowNotFound
	}
	return row, err
}

func (s *EmployeeStore) List(ctx context.Context) ([]domain.StoredRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data_json FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.StoredRow
	for rows.Next() {
		var r domain.StoredRow
		if err := rows.Scan(&r.ID, &r.Blob); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *EmployeeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	return err
}

func (s *EmployeeStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
