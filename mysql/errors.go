package mysql

import "errors"

var (
	// ErrDBRequired is returned when a nil *sql.DB is provided.
	ErrDBRequired = errors.New("mqrelay mysql: db is required")
	// ErrURLRequired is returned when the connection URL is empty.
	ErrURLRequired = errors.New("mqrelay mysql: connection url is required")
	// ErrInvalidURL is returned when the connection URL cannot be parsed.
	ErrInvalidURL = errors.New("mqrelay mysql: invalid connection url")
	// ErrTableNameRequired is returned when the table name is empty.
	ErrTableNameRequired = errors.New("mqrelay mysql: table name is required")
	// ErrInvalidTableName is returned when the table name has disallowed characters.
	ErrInvalidTableName = errors.New("mqrelay mysql: invalid table name")
	// ErrColumnNameRequired is returned when the column name is empty.
	ErrColumnNameRequired = errors.New("mqrelay mysql: column name is required")
	// ErrInvalidColumnName is returned when the column name has disallowed characters.
	ErrInvalidColumnName = errors.New("mqrelay mysql: invalid column name")
)
