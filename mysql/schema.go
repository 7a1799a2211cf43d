package mysql

import "fmt"

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	%s TEXT NOT NULL,
	created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	PRIMARY KEY (id)
) DEFAULT CHARSET = utf8mb4;`

// Schema returns the table definition the store expects.
func Schema(table, column string) (string, error) {
	name, err := sanitizeTableName(table)
	if err != nil {
		return "", err
	}
	col, err := sanitizeColumnName(column)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(schemaTemplate, name, col), nil
}

// DefaultSchema returns the definition of messages(body).
func DefaultSchema() string {
	schema, err := Schema(defaultTable, defaultColumn)
	if err != nil {
		panic(err)
	}

	return schema
}
