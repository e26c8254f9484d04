package service

import (
	"context"

	"todo_api/internal/models"
	"todo_api/internal/repository"
)

type Authorization interface {
	Register(name, email, password string) (models.User, string, error)
	Login(email, password string) (models.User, string, error)
	ParseToken(accessToken string) (int, error)
	Logout(accessToken string) error
	GetUser(id int) (*models.User, error)
	ForgotPassword(email string) (string, error)
	ResetPassword(email, token, password string) error
}

// Todos exposes owner-scoped CRUD plus the filtered, paginated listing.
type Todos interface {
	List(ctx context.Context, userID int, q ListQuery) ([]models.Todo, Pagination, error)
	Create(ctx context.Context, userID int, in CreateTodoInput) (models.Todo, error)
	Get(ctx context.Context, userID, id int) (*models.Todo, error)
	Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int) (bool, error)
}

// Root Service aggregates all sub-services.
type Service struct {
	Todos
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		Todos:         NewTodoService(repos.Todos),
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
