package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/savlagood/friendgraph/internal/db"
	"github.com/savlagood/friendgraph/internal/models"
)

// querier is satisfied by both pooled connections and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore provides PostgreSQL-backed persistence for users and friend requests.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore constructs a store backed by PostgreSQL (or CockroachDB).
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Atomic runs fn inside a serializable transaction. Serialization failures are
// retried from the start, so fn must not have side effects outside q.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(q Queries) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		return fn(pgQueries{q: tx})
	})
}

func (s *PostgresStore) withConn(ctx context.Context, fn func(q pgQueries) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(pgQueries{q: conn})
}

// CreateUser persists a new user record.
func (s *PostgresStore) CreateUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		user, err = q.CreateUser(ctx, username)
		return err
	})
	return user, err
}

// GetUser fetches a user by identifier.
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		user, err = q.GetUser(ctx, id)
		return err
	})
	return user, err
}

// ListUsers returns all users ordered by creation.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		users, err = q.ListUsers(ctx)
		return err
	})
	return users, err
}

// DeleteUser removes a user; friend requests are removed by the ON DELETE CASCADE constraints.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	return s.withConn(ctx, func(q pgQueries) error {
		return q.DeleteUser(ctx, id)
	})
}

// CreateRequest persists a new directed friend request.
func (s *PostgresStore) CreateRequest(ctx context.Context, fromUser, toUser int64) (models.FriendRequest, error) {
	var request models.FriendRequest
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		request, err = q.CreateRequest(ctx, fromUser, toUser)
		return err
	})
	return request, err
}

// GetRequest fetches a friend request by identifier.
func (s *PostgresStore) GetRequest(ctx context.Context, id int64) (models.FriendRequest, error) {
	var request models.FriendRequest
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		request, err = q.GetRequest(ctx, id)
		return err
	})
	return request, err
}

// FindRequests returns the friend requests matching filter ordered by creation.
func (s *PostgresStore) FindRequests(ctx context.Context, filter RequestFilter) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.withConn(ctx, func(q pgQueries) error {
		var err error
		requests, err = q.FindRequests(ctx, filter)
		return err
	})
	return requests, err
}

// DeleteRequest removes a friend request.
func (s *PostgresStore) DeleteRequest(ctx context.Context, id int64) error {
	return s.withConn(ctx, func(q pgQueries) error {
		return q.DeleteRequest(ctx, id)
	})
}

type pgQueries struct {
	q querier
}

func (p pgQueries) CreateUser(ctx context.Context, username string) (models.User, error) {
	row := p.q.QueryRow(ctx, `
        INSERT INTO users (username)
        VALUES ($1)
        RETURNING id, username, created_at
    `, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (p pgQueries) GetUser(ctx context.Context, id int64) (models.User, error) {
	row := p.q.QueryRow(ctx, `
        SELECT id, username, created_at
        FROM users
        WHERE id = $1
    `, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (p pgQueries) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.q.Query(ctx, `
        SELECT id, username, created_at
        FROM users
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (p pgQueries) DeleteUser(ctx context.Context, id int64) error {
	tag, err := p.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p pgQueries) CreateRequest(ctx context.Context, fromUser, toUser int64) (models.FriendRequest, error) {
	row := p.q.QueryRow(ctx, `
        INSERT INTO friend_requests (from_user_id, to_user_id)
        VALUES ($1, $2)
        RETURNING id, from_user_id, to_user_id, created_at
    `, fromUser, toUser)

	var request models.FriendRequest
	if err := row.Scan(&request.ID, &request.FromUser, &request.ToUser, &request.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.FriendRequest{}, ErrNotFound
		}
		return models.FriendRequest{}, fmt.Errorf("insert friend request: %w", err)
	}
	return request, nil
}

func (p pgQueries) GetRequest(ctx context.Context, id int64) (models.FriendRequest, error) {
	row := p.q.QueryRow(ctx, `
        SELECT id, from_user_id, to_user_id, created_at
        FROM friend_requests
        WHERE id = $1
    `, id)

	var request models.FriendRequest
	if err := row.Scan(&request.ID, &request.FromUser, &request.ToUser, &request.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FriendRequest{}, ErrNotFound
		}
		return models.FriendRequest{}, fmt.Errorf("select friend request: %w", err)
	}
	return request, nil
}

func (p pgQueries) FindRequests(ctx context.Context, filter RequestFilter) ([]models.FriendRequest, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.FromUser != 0 {
		args = append(args, filter.FromUser)
		conditions = append(conditions, fmt.Sprintf("from_user_id = $%d", len(args)))
	}
	if filter.ToUser != 0 {
		args = append(args, filter.ToUser)
		conditions = append(conditions, fmt.Sprintf("to_user_id = $%d", len(args)))
	}

	query := `SELECT id, from_user_id, to_user_id, created_at FROM friend_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query friend requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		var request models.FriendRequest
		if err := rows.Scan(&request.ID, &request.FromUser, &request.ToUser, &request.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend requests: %w", err)
	}

	return requests, nil
}

func (p pgQueries) DeleteRequest(ctx context.Context, id int64) error {
	tag, err := p.q.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ Store = (*PostgresStore)(nil)
var _ Queries = pgQueries{}
