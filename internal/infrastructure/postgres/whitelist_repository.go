package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/presale-api/internal/domain/repository"
)

var _ repository.WhitelistRepository = (*WhitelistRepo)(nil)

// WhitelistRepo implementación de WhitelistRepository sobre PostgreSQL (usable con pool o tx).
type WhitelistRepo struct {
	q Querier
}

// NewWhitelistRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWhitelistRepository(q Querier) *WhitelistRepo {
	return &WhitelistRepo{q: q}
}

func (r *WhitelistRepo) IsWhitelisted(ctx context.Context, a common.Address) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT whitelisted FROM whitelist WHERE account = $1`, accountKey(a)).Scan(&ok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get whitelist: %w", err)
	}
	return ok, nil
}

func (r *WhitelistRepo) Set(ctx context.Context, a common.Address, whitelisted bool, updatedBy string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO whitelist (account, whitelisted, updated_by, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (account)
		DO UPDATE SET whitelisted = EXCLUDED.whitelisted, updated_by = EXCLUDED.updated_by, updated_at = now()`,
		accountKey(a), whitelisted, updatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert whitelist: %w", err)
	}
	return nil
}

func (r *WhitelistRepo) List(ctx context.Context, limit, offset int) ([]common.Address, error) {
	rows, err := r.q.Query(ctx, `
		SELECT account FROM whitelist WHERE whitelisted
		ORDER BY account LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}
	defer rows.Close()
	var out []common.Address
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, common.HexToAddress(s))
	}
	return out, rows.Err()
}
