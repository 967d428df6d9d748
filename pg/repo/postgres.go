package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"veltahq.com/accounts/pg/model"
)

// PostgresDB implements model.DB on top of a pgx connection pool.
type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(pool *pgxpool.Pool) *PostgresDB {
	return &PostgresDB{pool: pool}
}

const userColumns = `id, email, username, role, password_hash, is_active`

func (p *PostgresDB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return p.getUser(ctx, `SELECT `+userColumns+` FROM account WHERE id = $1`, id)
}

func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return p.getUser(ctx, `SELECT `+userColumns+` FROM account WHERE email = $1`, email)
}

func (p *PostgresDB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	user := &model.User{}
	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.Role,
		&user.PasswordHash, &user.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return user, nil
}

func (p *PostgresDB) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO account (id, email, username, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.pool.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.Role,
		user.PasswordHash, user.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (p *PostgresDB) SetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE account SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
