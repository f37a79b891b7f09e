package database

import (
	"context"
	"database/sql"

	"github.com/jask/jaskmods/internal/database/repository"
	"github.com/jask/jaskmods/internal/testdata"
)

// SeedDefaults ensures a sample catalog exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewAddonRepo(db)
	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, a := range testdata.Catalog() {
		if err := repo.Insert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
