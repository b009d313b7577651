package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nokhba/academy-backend/internal/model"
)

var (
	ErrCodeNotFound    = errors.New("recharge code does not exist")
	ErrCodeAlreadyUsed = errors.New("recharge code already redeemed")
	ErrDuplicateCode   = errors.New("recharge code collision")
)

// CodeRepository handles recharge code data access.
type CodeRepository struct {
	pool *pgxpool.Pool
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

// Create inserts a freshly minted code.
func (r *CodeRepository) Create(ctx context.Context, c *model.RechargeCode) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO recharge_codes (code, value, used)
		 VALUES ($1, $2, false)
		 RETURNING id, created_at`,
		c.Code, c.Value,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// Redeem consumes a code and credits the student's wallet in one transaction.
// The used flag is flipped by a conditional UPDATE, so under concurrent
// redemption of the same code exactly one caller succeeds; the rest see
// ErrCodeAlreadyUsed. Returns the code value and the new wallet balance.
func (r *CodeRepository) Redeem(ctx context.Context, code string, studentID int) (int, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	var value int
	err = tx.QueryRow(ctx,
		`UPDATE recharge_codes
		 SET used = true, used_by = $2, used_at = NOW()
		 WHERE code = $1 AND used = false
		 RETURNING value`,
		code, studentID,
	).Scan(&value)
	if err == pgx.ErrNoRows {
		// Distinguish a spent code from one that never existed.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM recharge_codes WHERE code = $1)`, code,
		).Scan(&exists); err != nil {
			return 0, 0, err
		}
		if exists {
			return 0, 0, ErrCodeAlreadyUsed
		}
		return 0, 0, ErrCodeNotFound
	}
	if err != nil {
		return 0, 0, err
	}

	var balance int
	err = tx.QueryRow(ctx,
		`UPDATE students SET wallet_balance = wallet_balance + $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING wallet_balance`,
		value, studentID,
	).Scan(&balance)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return value, balance, nil
}

// ListPaginated retrieves codes for the admin catalogue, newest first,
// with an optional used filter.
func (r *CodeRepository) ListPaginated(ctx context.Context, used *bool, limit, offset int) ([]model.RechargeCode, int, error) {
	countQuery := `SELECT COUNT(*) FROM recharge_codes`
	var countArgs []interface{}
	if used != nil {
		countQuery += ` WHERE used = $1`
		countArgs = append(countArgs, *used)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, code, value, used, used_by, used_at, created_at FROM recharge_codes`
	var args []interface{}
	argIdx := 1

	if used != nil {
		query += ` WHERE used = $1`
		args = append(args, *used)
		argIdx++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var codes []model.RechargeCode
	for rows.Next() {
		var c model.RechargeCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Value, &c.Used, &c.UsedBy, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		codes = append(codes, c)
	}
	return codes, total, rows.Err()
}
