// Package accountrepo manages repository layer of account records.
//
// Each user owns exactly one record, persisted as a single json document
// that is replaced in full on every mutation.
package accountrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/pkg/dbpkg"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (username, record)
VALUES
    ($1, $2)
`

// Create persists a fresh record for the user. It fails with
// domain.ErrAccountExists if the user already has one.
func (r *RepoPGS) Create(ctx context.Context, username string, record domain.AccountRecord) error {
	l := zerolog.Ctx(ctx)

	data, err := json.Marshal(record)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	_, err = r.db.ExecContext(ctx, createQuery, username, data)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_pkey":
				return domain.ErrAccountExists
			case "accounts_username_fkey":
				return domain.ErrUserNotFound
			}
		}

		return errorspkg.ErrInternal
	}

	return nil
}

const getQuery = `
SELECT record
FROM accounts
WHERE username = $1
`

// Get returns the user's record. A record that cannot be parsed surfaces as
// domain.ErrAccountCorrupt and is left untouched.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.AccountRecord, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, username)

	var (
		record domain.AccountRecord
		data   []byte
	)

	if err := row.Scan(&data); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return record, domain.ErrAccountNotFound
		}

		return record, errorspkg.ErrInternal
	}

	if err := json.Unmarshal(data, &record); err != nil {
		l.Error().Err(err).Str("username", username).Msg("unparseable account record")
		return record, domain.ErrAccountCorrupt
	}

	return record, nil
}

const setQuery = `
UPDATE accounts
SET record = $2
WHERE username = $1
`

// Set replaces the user's record in full.
func (r *RepoPGS) Set(ctx context.Context, username string, record domain.AccountRecord) error {
	l := zerolog.Ctx(ctx)

	data, err := json.Marshal(record)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	res, err := r.db.ExecContext(ctx, setQuery, username, data)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	rows, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
