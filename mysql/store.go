package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"github.com/velmie/mqrelay"
)

// Executor runs a single statement.
type Executor interface {
	// ExecContext executes a statement with the provided context.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store writes message bodies into a MySQL table.
type Store struct {
	db      *sql.DB
	exec    Executor
	cfg     Config
	queries queries
	table   string
}

var _ mqrelay.Handler = (*Store)(nil)

// NewStore constructs a MySQL store with validated configuration.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	table, err := sanitizeTableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	column, err := sanitizeColumnName(cfg.Column)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		exec:    db,
		cfg:     cfg,
		queries: newQueries(table, column),
		table:   table,
	}, nil
}

// Insert writes one row holding body. The body is always a bound parameter.
func (s *Store) Insert(ctx context.Context, body string) error {
	if _, err := s.exec.ExecContext(ctx, s.queries.insert, body); err != nil {
		return fmt.Errorf("mqrelay mysql: insert into %s failed: %w", s.table, err)
	}

	return nil
}

// Handle implements mqrelay.Handler by inserting body.
func (s *Store) Handle(ctx context.Context, body string) error {
	return s.Insert(ctx, body)
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, s.queries.count).Scan(&count); err != nil {
		return 0, fmt.Errorf("mqrelay mysql: count failed: %w", err)
	}

	return count, nil
}

// Table returns the sanitized target table name.
func (s *Store) Table() string {
	return s.table
}

// MySQL server error numbers reported for rejected rows.
const (
	errBadNull         = 1048
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errDataTooLong     = 1406
	errCheckConstraint = 3819
)

// IsConstraintViolation reports whether err is a MySQL error caused by the row itself
// (duplicate key, foreign key, NOT NULL, CHECK or length violation).
func IsConstraintViolation(err error) bool {
	var myErr *driver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	switch myErr.Number {
	case errBadNull, errDupEntry, errRowIsReferenced, errNoReferencedRow, errDataTooLong, errCheckConstraint:
		return true
	default:
		return false
	}
}
