package storage

import (
	"context"
	"database/sql"
	"sort"

	pq "github.com/lib/pq"
)

// PublicationRepo remembers the fingerprint of every command last published
// per scope, so an unchanged set is not pushed again.
type PublicationRepo struct{ db *sql.DB }

func NewPublicationRepo(db *sql.DB) *PublicationRepo { return &PublicationRepo{db: db} }

// Hashes devuelve name -> hash para el scope.
func (r *PublicationRepo) Hashes(ctx context.Context, scope string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT name, hash
  FROM command_publications
 WHERE scope = $1
`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, err
		}
		out[name] = hash
	}
	return out, rows.Err()
}

// Replace stores hashes as the full published set for scope: rows are
// upserted and names no longer present are deleted, in one transaction.
func (r *PublicationRepo) Replace(ctx context.Context, scope string, hashes map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO command_publications (scope, name, hash, published_at)
VALUES ($1,$2,$3,now())
ON CONFLICT (scope, name) DO UPDATE SET
  hash         = EXCLUDED.hash,
  published_at = now()
`, scope, name, hashes[name]); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM command_publications
 WHERE scope = $1
   AND NOT (name = ANY($2))
`, scope, pq.Array(names)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PublicationRepo) List(ctx context.Context, scope string) ([]Publication, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT scope, name, hash, published_at
  FROM command_publications
 WHERE scope = $1
 ORDER BY name
`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Publication
	for rows.Next() {
		var p Publication
		if err := rows.Scan(&p.Scope, &p.Name, &p.Hash, &p.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
