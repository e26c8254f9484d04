package repository

import (
	"context"
	"database/sql"
	"time"

	"todo_api/internal/filter"
	"todo_api/internal/models"
	"todo_api/internal/repository/db"
)

type Authorization interface {
	CreateUser(name, email, passwordHash string) (int, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	UpdatePassword(email, passwordHash string) error

	RevokeToken(jti string, revokedAt time.Time) error
	IsTokenRevoked(jti string) (bool, error)

	SavePasswordReset(reset models.PasswordReset) error
	GetPasswordReset(email string) (*models.PasswordReset, error)
	DeletePasswordReset(email string) error
}

type TodoRepo interface {
	Create(ctx context.Context, todo models.Todo) (models.Todo, error)
	GetByID(ctx context.Context, userID, id int) (*models.Todo, error)
	List(ctx context.Context, userID int, params filter.Params, limit, offset int) ([]models.Todo, error)
	Count(ctx context.Context, userID int, params filter.Params) (int, error)
	Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int) (bool, error)
}

type Repository struct {
	Todos TodoRepo
	Auth  Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Todos: NewTodoSQLite(sqlDB),
		Auth:  NewUserRepository(sqlDB),
	}
}

// InitDB opens the SQLite file and bootstraps the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
