package repository

import (
	"context"
	"database/sql"
	"strings"
)

// AddonFilters defines list filters.
type AddonFilters struct {
	Installed *bool
	Featured  *bool
	Category  string
}

// AddonRepo handles addons and their versions.
type AddonRepo struct {
	db *sql.DB
}

func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{db: db} }

func (r *AddonRepo) Insert(ctx context.Context, a Addon) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO addons(id, name, summary, author, category, installs, installed, featured, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, a.ID, a.Name, a.Summary, a.Author, a.Category, a.Installs, a.Installed, a.Featured)
	if err != nil {
		return err
	}
	for _, v := range a.Versions {
		if err := r.InsertVersion(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *AddonRepo) InsertVersion(ctx context.Context, v Version) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO addon_versions(id, addon_id, label, channel, position)
	VALUES(?, ?, ?, ?, ?);
	`, v.ID, v.AddonID, v.Label, v.Channel, v.Position)
	return err
}

func (r *AddonRepo) SetInstalled(ctx context.Context, id string, installed bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE addons SET installed = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, installed, id)
	return err
}

func (r *AddonRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM addons WHERE id = ?`, id)
	return err
}

// Get resolves one addon by identity. Returns nil when the identity is unknown.
func (r *AddonRepo) Get(ctx context.Context, id string) (*Addon, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, summary, author, category, installs, installed, featured, updated_at
	FROM addons WHERE id = ?`, id)
	a, err := scanAddon(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Versions, err = r.fetchVersions(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddonRepo) List(ctx context.Context, f AddonFilters) ([]Addon, error) {
	var where []string
	var args []interface{}

	if f.Installed != nil {
		where = append(where, "installed = ?")
		args = append(args, *f.Installed)
	}
	if f.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}

	query := "SELECT id, name, summary, author, category, installs, installed, featured, updated_at FROM addons"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY installs DESC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Addon
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		versions, err := r.fetchVersions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Versions = versions
	}
	return out, nil
}

func (r *AddonRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addons`).Scan(&n)
	return n, err
}

func (r *AddonRepo) fetchVersions(ctx context.Context, addonID string) ([]Version, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, addon_id, label, channel, position
	FROM addon_versions WHERE addon_id = ? ORDER BY position ASC`, addonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.AddonID, &v.Label, &v.Channel, &v.Position); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAddon(row rowScanner) (Addon, error) {
	var a Addon
	err := row.Scan(&a.ID, &a.Name, &a.Summary, &a.Author, &a.Category, &a.Installs, &a.Installed, &a.Featured, &a.UpdatedAt)
	return a, err
}
