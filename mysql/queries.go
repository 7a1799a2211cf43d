package mysql

import "fmt"

type queries struct {
	insert string
	count  string
}

func newQueries(table, column string) queries {
	return queries{
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, column),
		count:  fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}
}
