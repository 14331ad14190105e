package postgres

import (
	"context"
	"database/sql"

	"vet-hospital/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	return mapErr(err)
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *AccountsRepo) get(ctx context.Context, where string, arg any) (accounts.Account, error) {
	var a accounts.Account
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts `+where, arg,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return accounts.Account{}, mapErr(err)
	}
	return a, nil
}
