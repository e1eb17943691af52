package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) GetLink(ctx context.Context, provider, providerAccountID string) (*entity.AccountLink, error) {
	l := &entity.AccountLink{}
	row := r.pool.QueryRow(ctx, `
		SELECT provider, provider_account_id, user_id, type,
		       refresh_token, access_token, expires_at, token_type, scope, id_token
		FROM accounts
		WHERE provider = $1 AND provider_account_id = $2
	`, provider, providerAccountID)
	if err := row.Scan(&l.Provider, &l.ProviderAccountID, &l.UserID, &l.Type,
		&l.RefreshToken, &l.AccessToken, &l.ExpiresAt, &l.TokenType, &l.Scope, &l.IDToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// CreateUserWithLink creates the user row and its account link atomically.
// A rollback on any failure keeps partial creation unobservable.
func (r *AccountRepository) CreateUserWithLink(ctx context.Context, u *entity.User, link *entity.AccountLink) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role, image, email_verified)
		VALUES ($1, $2, NULL, $3, $4, now())
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Role, u.Image)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return repository.ErrDuplicateEmail
		}
		return err
	}

	link.UserID = u.ID
	if _, err := tx.Exec(ctx, `
		INSERT INTO accounts (provider, provider_account_id, user_id, type,
		                      refresh_token, access_token, expires_at, token_type, scope, id_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, link.Provider, link.ProviderAccountID, link.UserID, link.Type,
		link.RefreshToken, link.AccessToken, link.ExpiresAt, link.TokenType, link.Scope, link.IDToken); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) UpdateLinkTokens(ctx context.Context, link *entity.AccountLink) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET refresh_token = $1, access_token = $2, expires_at = $3, token_type = $4, scope = $5, id_token = $6
		WHERE provider = $7 AND provider_account_id = $8
	`, link.RefreshToken, link.AccessToken, link.ExpiresAt, link.TokenType, link.Scope, link.IDToken,
		link.Provider, link.ProviderAccountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
