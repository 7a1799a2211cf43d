package mysql

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()
	if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS messages") {
		t.Fatalf("expected messages table in schema")
	}
	if !strings.Contains(schema, "body TEXT NOT NULL") {
		t.Fatalf("expected TEXT body column in schema")
	}
}

func TestSchemaRejectsInvalidNames(t *testing.T) {
	if _, err := Schema("messages;", "body"); !errors.Is(err, ErrInvalidTableName) {
		t.Fatalf("expected invalid table error, got %v", err)
	}
	if _, err := Schema("messages", ""); !errors.Is(err, ErrColumnNameRequired) {
		t.Fatalf("expected column required error, got %v", err)
	}
}
