package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v8"

	"github.com/texman/texman"
)

// InstalledPackage is one row of the installed_packages table.
type InstalledPackage struct {
	Profile  string
	Name     string
	Revision string
}

// Upsert inserts or updates the (profile, name) row with revision.
func (s *Store) Upsert(ctx context.Context, profile, name, revision string) error {
	sel, _, err := dialect.From("installed_packages").
		Select(goqu.L("1")).
		Where(goqu.Ex{"profile": profile, "name": name}).
		ToSQL()
	if err != nil {
		return texman.Database(err)
	}
	q := newQuery("upsert_installed_select")
	var exists int
	err = s.db.QueryRowContext(ctx, sel).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		q.observe(nil)
	} else {
		q.observe(err)
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ins, _, err := dialect.Insert("installed_packages").
			Rows(goqu.Record{"profile": profile, "name": name, "revision": revision}).
			ToSQL()
		if err != nil {
			return texman.Database(err)
		}
		_, err = s.timedExec(ctx, "upsert_installed_insert", ins)
		return wrap(err)
	case err != nil:
		return texman.Database(err)
	default:
		upd, _, err := dialect.Update("installed_packages").
			Set(goqu.Record{"revision": revision}).
			Where(goqu.Ex{"profile": profile, "name": name}).
			ToSQL()
		if err != nil {
			return texman.Database(err)
		}
		_, err = s.timedExec(ctx, "upsert_installed_update", upd)
		return wrap(err)
	}
}

// Get returns the installed revision of name in profile, and whether a
// row exists.
func (s *Store) Get(ctx context.Context, profile, name string) (string, bool, error) {
	q, _, err := dialect.From("installed_packages").
		Select("revision").
		Where(goqu.Ex{"profile": profile, "name": name}).
		ToSQL()
	if err != nil {
		return "", false, texman.Database(err)
	}
	rows, err := s.timedQuery(ctx, "get_installed", q)
	if err != nil {
		return "", false, wrap(err)
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, nil
	}
	var revision string
	if err := rows.Scan(&revision); err != nil {
		return "", false, texman.Database(err)
	}
	return revision, true, nil
}

// List returns every installed package in profile, ordered by name.
func (s *Store) List(ctx context.Context, profile string) ([]InstalledPackage, error) {
	q, _, err := dialect.From("installed_packages").
		Select("profile", "name", "revision").
		Where(goqu.Ex{"profile": profile}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, texman.Database(err)
	}
	rows, err := s.timedQuery(ctx, "list_installed", q)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []InstalledPackage
	for rows.Next() {
		var p InstalledPackage
		if err := rows.Scan(&p.Profile, &p.Name, &p.Revision); err != nil {
			return nil, texman.Database(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Remove deletes the (profile, name) row.
func (s *Store) Remove(ctx context.Context, profile, name string) error {
	q, _, err := dialect.Delete("installed_packages").
		Where(goqu.Ex{"profile": profile, "name": name}).
		ToSQL()
	if err != nil {
		return texman.Database(err)
	}
	_, err = s.timedExec(ctx, "remove_installed", q)
	return wrap(err)
}

// RemoveProfile deletes every installed_packages row for profile.
func (s *Store) RemoveProfile(ctx context.Context, profile string) error {
	q, _, err := dialect.Delete("installed_packages").
		Where(goqu.Ex{"profile": profile}).
		ToSQL()
	if err != nil {
		return texman.Database(err)
	}
	_, err = s.timedExec(ctx, "remove_profile_installed", q)
	return wrap(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return texman.Database(err)
}
