package store

import (
	"context"

	"github.com/doug-martin/goqu/v8"
)

// BackupRow is one row of the backups table.
type BackupRow struct {
	BackupName string
	Profile    string
	Name       string
	Revision   string
	CreatedAt  int64
}

// BackupSummary is an aggregate over one backup's rows, as returned by
// "backup list".
type BackupSummary struct {
	Name      string
	CreatedAt int64
	Packages  int
}

// InsertBackupRows inserts one backups row per entry in installed, all
// stamped with createdAt. An empty installed list inserts nothing.
func (s *Store) InsertBackupRows(ctx context.Context, backupName, profile string, installed []InstalledPackage, createdAt int64) error {
	if len(installed) == 0 {
		return nil
	}
	recs := make([]any, 0, len(installed))
	for _, p := range installed {
		recs = append(recs, goqu.Record{
			"backup_name": backupName,
			"profile":     profile,
			"name":        p.Name,
			"revision":    p.Revision,
			"created_at":  createdAt,
		})
	}
	q, _, err := dialect.Insert("backups").Rows(recs...).ToSQL()
	if err != nil {
		return wrap(err)
	}
	_, err = s.timedExec(ctx, "insert_backup_rows", q)
	return wrap(err)
}

// BackupRows returns every row for the named backup.
func (s *Store) BackupRows(ctx context.Context, backupName string) ([]BackupRow, error) {
	q, _, err := dialect.From("backups").
		Select("backup_name", "profile", "name", "revision", "created_at").
		Where(goqu.Ex{"backup_name": backupName}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, wrap(err)
	}
	rows, err := s.timedQuery(ctx, "backup_rows", q)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []BackupRow
	for rows.Next() {
		var r BackupRow
		if err := rows.Scan(&r.BackupName, &r.Profile, &r.Name, &r.Revision, &r.CreatedAt); err != nil {
			return nil, wrap(err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListBackups reports one summary per distinct backup name, ordered by
// name: (name, min(created_at), count(packages)).
func (s *Store) ListBackups(ctx context.Context) ([]BackupSummary, error) {
	q, _, err := dialect.From("backups").
		Select(
			goqu.I("backup_name"),
			goqu.MIN("created_at").As("min_created_at"),
			goqu.COUNT("name").As("package_count"),
		).
		GroupBy("backup_name").
		Order(goqu.I("backup_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, wrap(err)
	}
	rows, err := s.timedQuery(ctx, "list_backups", q)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []BackupSummary
	for rows.Next() {
		var b BackupSummary
		if err := rows.Scan(&b.Name, &b.CreatedAt, &b.Packages); err != nil {
			return nil, wrap(err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RemoveBackup deletes every row for the named backup.
func (s *Store) RemoveBackup(ctx context.Context, backupName string) error {
	q, _, err := dialect.Delete("backups").
		Where(goqu.Ex{"backup_name": backupName}).
		ToSQL()
	if err != nil {
		return wrap(err)
	}
	_, err = s.timedExec(ctx, "remove_backup", q)
	return wrap(err)
}

// TruncateBackups deletes every row from the backups table, for
// "clean --backups".
func (s *Store) TruncateBackups(ctx context.Context) error {
	q, _, err := dialect.Delete("backups").ToSQL()
	if err != nil {
		return wrap(err)
	}
	_, err = s.timedExec(ctx, "truncate_backups", q)
	return wrap(err)
}

// BackupExists reports whether any row exists for the named backup.
func (s *Store) BackupExists(ctx context.Context, backupName string) (bool, error) {
	q, _, err := dialect.From("backups").
		Select(goqu.L("1")).
		Where(goqu.Ex{"backup_name": backupName}).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, wrap(err)
	}
	rows, err := s.timedQuery(ctx, "backup_exists", q)
	if err != nil {
		return false, wrap(err)
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}
