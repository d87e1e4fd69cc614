package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements UserStore on a pgx connection pool.
type PostgresStore struct {
	DB *pgxpool.Pool
}

const usersSchema = `
        CREATE TABLE IF NOT EXISTS users (
                id BIGSERIAL PRIMARY KEY,
                name TEXT NOT NULL,
                email TEXT NOT NULL,
                password_hash TEXT NOT NULL,
                created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
`

// NewPostgresStore connects to Postgres and ensures the users table exists.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := db.Exec(ctx, usersSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (ps *PostgresStore) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := ps.DB.QueryRow(ctx, `
                INSERT INTO users (name, email, password_hash)
                VALUES ($1, $2, $3)
                RETURNING id;
        `, name, email, passwordHash).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (ps *PostgresStore) Find(ctx context.Context, id int64) (User, error) {
	var u User
	err := ps.DB.QueryRow(ctx, `
                SELECT id, name, email, password_hash, created_at
                FROM users WHERE id = $1;
        `, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (ps *PostgresStore) Save(ctx context.Context, u User) error {
	tag, err := ps.DB.Exec(ctx, `
                UPDATE users SET name = $2, email = $3, password_hash = $4
                WHERE id = $1;
        `, u.ID, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := ps.DB.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (ps *PostgresStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := ps.DB.QueryRow(ctx, `SELECT count(*) FROM users;`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (ps *PostgresStore) Paginate(ctx context.Context, page, perPage int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total, err := ps.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	rows, err := ps.DB.Query(ctx, `
                SELECT id, name, email, password_hash, created_at
                FROM users
                ORDER BY id
                LIMIT $1 OFFSET $2;
        `, perPage, (page-1)*perPage)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	items, err := scanUsers(rows)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage(total, perPage),
	}, nil
}

func (ps *PostgresStore) ListRecent(ctx context.Context, n int) ([]User, error) {
	if n < 0 {
		n = 0
	}
	rows, err := ps.DB.Query(ctx, `
                SELECT id, name, email, password_hash, created_at
                FROM users
                ORDER BY created_at DESC, id DESC
                LIMIT $1;
        `, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Close releases the underlying pool.
func (ps *PostgresStore) Close() {
	if ps != nil && ps.DB != nil {
		ps.DB.Close()
	}
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var items []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

var _ UserStore = (*PostgresStore)(nil)
