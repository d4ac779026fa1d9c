package fraud

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when no flag exists for an entity.
var ErrNotFound = errors.New("fraud flag not found")

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a fraud flag record. The ordered flag list is stored as a
// JSON array.
func (r *PGRepo) Create(ctx context.Context, flag Flag) error {
	const query = `
INSERT INTO fraud_flags (id, entity_type, entity_id, flags, severity, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	flags := flag.Flags
	if flags == nil {
		flags = []string{}
	}
	payload, err := json.Marshal(flags)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		flag.ID,
		flag.EntityType,
		flag.EntityID,
		payload,
		string(flag.Severity),
		flag.CreatedAt,
	)
	return err
}

// GetByEntity returns the most recent flag for an entity.
func (r *PGRepo) GetByEntity(ctx context.Context, entityType, entityID string) (Flag, error) {
	const query = `
SELECT id, entity_type, entity_id, flags, severity, created_at
FROM fraud_flags
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC
LIMIT 1`

	var flag Flag
	var payload []byte
	var severity string
	err := r.DB.QueryRowContext(ctx, query, entityType, entityID).Scan(
		&flag.ID,
		&flag.EntityType,
		&flag.EntityID,
		&payload,
		&severity,
		&flag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Flag{}, ErrNotFound
		}
		return Flag{}, err
	}
	if err := json.Unmarshal(payload, &flag.Flags); err != nil {
		return Flag{}, err
	}
	flag.Severity = Severity(severity)
	return flag, nil
}

var _ Repo = (*PGRepo)(nil)
