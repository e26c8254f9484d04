package handlers

import (
	"context"
	"net/http"

	"todo_api/internal/models"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser  models.User
	registerToken string
	registerErr   error
	loginUser     models.User
	loginToken    string
	loginErr      error
	parseID       int
	parseErr      error
	logoutErr     error
	profileUser   *models.User
	profileErr    error
	forgotToken   string
	forgotErr     error
	resetErr      error

	lastParseToken  string
	lastLogoutToken string
	lastForgotEmail string
	lastResetEmail  string
	lastResetToken  string
}

func (m *mockAuth) Register(name, email, password string) (models.User, string, error) {
	return m.registerUser, m.registerToken, m.registerErr
}

func (m *mockAuth) Login(email, password string) (models.User, string, error) {
	return m.loginUser, m.loginToken, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) Logout(token string) error {
	m.lastLogoutToken = token
	return m.logoutErr
}

func (m *mockAuth) GetUser(id int) (*models.User, error) {
	return m.profileUser, m.profileErr
}

func (m *mockAuth) ForgotPassword(email string) (string, error) {
	m.lastForgotEmail = email
	return m.forgotToken, m.forgotErr
}

func (m *mockAuth) ResetPassword(email, token, password string) error {
	m.lastResetEmail = email
	m.lastResetToken = token
	return m.resetErr
}

type mockTodos struct {
	listItems []models.Todo
	listMeta  service.Pagination
	listErr   error
	created   models.Todo
	createErr error
	got       *models.Todo
	getErr    error
	updated   *models.Todo
	updateErr error
	deleted   bool
	deleteErr error

	lastUserID int
	lastQuery  service.ListQuery
	lastCreate service.CreateTodoInput
	lastUpdate models.TodoUpdate
	lastID     int
}

func (m *mockTodos) List(ctx context.Context, userID int, q service.ListQuery) ([]models.Todo, service.Pagination, error) {
	m.lastUserID = userID
	m.lastQuery = q
	return m.listItems, m.listMeta, m.listErr
}

func (m *mockTodos) Create(ctx context.Context, userID int, in service.CreateTodoInput) (models.Todo, error) {
	m.lastUserID = userID
	m.lastCreate = in
	return m.created, m.createErr
}

func (m *mockTodos) Get(ctx context.Context, userID, id int) (*models.Todo, error) {
	m.lastUserID = userID
	m.lastID = id
	return m.got, m.getErr
}

func (m *mockTodos) Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error) {
	m.lastUserID = userID
	m.lastID = id
	m.lastUpdate = upd
	return m.updated, m.updateErr
}

func (m *mockTodos) Delete(ctx context.Context, userID, id int) (bool, error) {
	m.lastUserID = userID
	m.lastID = id
	return m.deleted, m.deleteErr
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
