// Package repository holds the SQL-backed stores for users and posts. Every
// error leaving this package wraps one of the database sentinels when the
// driver error could be classified.
package repository

import (
	"database/sql"
	"fmt"

	"blog-service/database"
)

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return fmt.Errorf("db error: %w", database.ErrNotFound)
	}
	return nil
}
