// Package postgres содержит реализацию репозитория пользователей поверх Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/repositories"
	"userhub/pkg/logger"
)

// Код ошибки Postgres для нарушения уникального ограничения.
const uniqueViolationCode = "23505"

// PgxPoolInterface описывает методы пула, используемые репозиторием.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "id, fname, lname, username, password_hash, age, url, gender, is_active, budget, created_at"

// scanUser читает одну строку результата в сущность пользователя.
func scanUser(row pgx.Row, user *entities.User) error {
	return row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.PasswordHash,
		&user.Age,
		&user.URL,
		&user.Gender,
		&user.IsActive,
		&user.Budget,
		&user.CreatedAt,
	)
}

// isUniqueViolation сообщает, вызвана ли ошибка нарушением уникального индекса.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Find возвращает страницу пользователей в естественном порядке хранилища.
func (r *UserRepository) Find(ctx context.Context, limit, offset int) ([]entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Find"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		log.Error(ctx, "error querying users page", zap.Error(err))
		return nil, fmt.Errorf("error querying users page: %w", err)
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		var user entities.User
		if err := scanUser(rows, &user); err != nil {
			log.Error(ctx, "error scanning user row", zap.Error(err))
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating user rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Count возвращает общее количество пользователей.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Count"))

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	if err != nil {
		log.Error(ctx, "error counting users", zap.Error(err))
		return 0, fmt.Errorf("error counting users: %w", err)
	}

	return total, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	var user entities.User
	err := scanUser(r.pool.QueryRow(ctx, query, id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return &user, nil
}

// FindByUsername находит пользователя по имени пользователя.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsername"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = $1
    `

	var user entities.User
	err := scanUser(r.pool.QueryRow(ctx, query, username), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("username", username))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by username", zap.Error(err))
		return nil, fmt.Errorf("error querying user by username: %w", err)
	}

	return &user, nil
}

// Create создает нового пользователя. Нарушение уникальности username
// возвращается как entities.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (fname, lname, username, password_hash, age, url, gender, is_active, budget)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + userColumns + `
    `

	var createdUser entities.User
	err := scanUser(r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Username,
		user.PasswordHash,
		user.Age,
		user.URL,
		user.Gender,
		user.IsActive,
		user.Budget,
	), &createdUser)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "username already taken", zap.String("username", user.Username))
			return nil, entities.ErrUsernameTaken
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &createdUser, nil
}

// Replace полностью заменяет документ пользователя по ID.
func (r *UserRepository) Replace(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Replace"))

	query := `
        UPDATE users
        SET fname = $2, lname = $3, username = $4, password_hash = $5,
            age = $6, url = $7, gender = $8, is_active = $9, budget = $10
        WHERE id = $1
        RETURNING ` + userColumns + `
    `

	var updatedUser entities.User
	err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.PasswordHash,
		user.Age,
		user.URL,
		user.Gender,
		user.IsActive,
		user.Budget,
	), &updatedUser)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for replace", zap.String("id", user.ID))
			return nil, entities.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			log.Debug(ctx, "username already taken", zap.String("username", user.Username))
			return nil, entities.ErrUsernameTaken
		}
		log.Error(ctx, "error replacing user", zap.Error(err))
		return nil, fmt.Errorf("error replacing user: %w", err)
	}

	return &updatedUser, nil
}

// Delete удаляет пользователя по ID и возвращает прежнее содержимое документа.
func (r *UserRepository) Delete(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	query := `
        DELETE FROM users
        WHERE id = $1
        RETURNING ` + userColumns + `
    `

	var deletedUser entities.User
	err := scanUser(r.pool.QueryRow(ctx, query, id), &deletedUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for deletion", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error deleting user", zap.Error(err))
		return nil, fmt.Errorf("error deleting user: %w", err)
	}

	return &deletedUser, nil
}
