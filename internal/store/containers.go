package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/schema"
)

// ErrObjectNotFound is returned by GetContainer for an unknown object.
var ErrObjectNotFound = errors.New("object not found")

// SchemaUsage summarizes how many objects carry a schema name.
type SchemaUsage struct {
	Name    string
	Objects int
	Bytes   int64
}

// PutContainer stores c as the auxiliary data of objectID, replacing
// whatever the object held before. The write is a single transaction.
func (s *Store) PutContainer(ctx context.Context, objectID uuid.UUID, c *auxdata.Container) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put container: %w", err)
	}
	defer tx.Rollback()

	if err := putContainerTx(ctx, tx, objectID, c); err != nil {
		return fmt.Errorf("put container %s: %w", objectID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put container: commit: %w", err)
	}
	return nil
}

// PutContainers stores several containers in one transaction, as by
// PutContainer for each pair.
func (s *Store) PutContainers(ctx context.Context, ids []uuid.UUID, cs []*auxdata.Container) error {
	if len(ids) != len(cs) {
		return fmt.Errorf("put containers: %d ids for %d containers", len(ids), len(cs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put containers: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if err := putContainerTx(ctx, tx, id, cs[i]); err != nil {
			return fmt.Errorf("put container %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put containers: commit: %w", err)
	}
	return nil
}

func putContainerTx(ctx context.Context, tx *sql.Tx, objectID uuid.UUID, c *auxdata.Container) error {
	id := objectID.String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO objects (id, revision) VALUES (?, 1)
		ON CONFLICT(id) DO UPDATE SET revision = revision + 1
	`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE object_id = ?`, id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (object_id, position, name, data)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range c.RawEntries() {
		if _, err := stmt.ExecContext(ctx, id, i, e.Name, e.Data); err != nil {
			return fmt.Errorf("entry %q: %w", e.Name, err)
		}
	}
	return nil
}

// GetContainer rebuilds the container of objectID with its entries in
// their original order. Names resolve against reg.
// Returns ErrObjectNotFound if the object was never stored.
func (s *Store) GetContainer(ctx context.Context, objectID uuid.UUID, reg *schema.Registry) (*auxdata.Container, error) {
	id := objectID.String()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM objects WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", objectID, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, data FROM entries
		WHERE object_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}
	defer rows.Close()

	c := auxdata.New(reg)
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("get container: scan: %w", err)
		}
		c.SetRaw(name, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}
	return c, nil
}

// ObjectsWithSchema lists the ids of objects holding an entry under
// name, in ascending id order.
func (s *Store) ObjectsWithSchema(ctx context.Context, name string) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id FROM entries
		WHERE name = ?
		ORDER BY object_id COLLATE BINARY ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("objects with schema: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Objects lists every stored object id in ascending order.
func (s *Store) Objects(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM objects ORDER BY id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan object id: %w", err)
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("stored object id %q: %w", text, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SchemaUsage reports, per entry name, how many objects carry it and
// the total encoded size, ordered by name.
func (s *Store) SchemaUsage(ctx context.Context) ([]SchemaUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*), COALESCE(SUM(length(data)), 0)
		FROM entries
		GROUP BY name
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("schema usage: %w", err)
	}
	defer rows.Close()

	var out []SchemaUsage
	for rows.Next() {
		var u SchemaUsage
		if err := rows.Scan(&u.Name, &u.Objects, &u.Bytes); err != nil {
			return nil, fmt.Errorf("schema usage: scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema usage: %w", err)
	}
	return out, nil
}

// DeleteObject removes an object and its entries. Deleting an object
// that does not exist is not an error.
func (s *Store) DeleteObject(ctx context.Context, objectID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM objects WHERE id = ?`, objectID.String()); err != nil {
		return fmt.Errorf("delete object %s: %w", objectID, err)
	}
	return nil
}

// Revision returns how many times objectID has been written, or 0 if it
// was never stored.
func (s *Store) Revision(ctx context.Context, objectID uuid.UUID) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM objects WHERE id = ?`, objectID.String()).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("revision: %w", err)
	}
	return rev, nil
}
