package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"todo_api/internal/filter"
	"todo_api/internal/models"
	"todo_api/internal/repository"
)

const (
	defaultPerPage = 10
	defaultPage    = 1
)

// ListQuery carries one listing request: the raw filter parameters, the
// requested paging, and the request URL for building page links.
type ListQuery struct {
	Filters filter.Params
	PerPage int // <= 0 means default
	Page    int // <= 0 means first page
	URL     *url.URL
}

// CreateTodoInput is the validated create payload.
type CreateTodoInput struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
}

// PageLinks point at the first/last page and, when they exist, the
// neighbouring pages.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Pagination is the listing metadata block of the response envelope.
type Pagination struct {
	Total       int       `json:"total"`
	Count       int       `json:"count"`
	PerPage     int       `json:"per_page"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	Links       PageLinks `json:"links"`
}

type TodoService struct {
	todoRepo repository.TodoRepo
}

func NewTodoService(todoRepo repository.TodoRepo) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

var _ Todos = (*TodoService)(nil)

// List executes the filtered query plus its count and assembles the
// pagination metadata.
func (s *TodoService) List(ctx context.Context, userID int, q ListQuery) ([]models.Todo, Pagination, error) {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := q.Page
	if page <= 0 {
		page = defaultPage
	}
	offset := (page - 1) * perPage

	params := q.Filters
	if params == nil {
		params = filter.Params{}
	}

	items, err := s.todoRepo.List(ctx, userID, params, perPage, offset)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.todoRepo.Count(ctx, userID, params)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	meta := Pagination{
		Total:       total,
		Count:       len(items),
		PerPage:     perPage,
		CurrentPage: page,
		TotalPages:  totalPages,
		Links: PageLinks{
			First: pageURL(q.URL, 1, perPage),
			Last:  pageURL(q.URL, totalPages, perPage),
		},
	}
	if page > 1 {
		prev := pageURL(q.URL, page-1, perPage)
		meta.Links.Prev = &prev
	}
	if page < totalPages {
		next := pageURL(q.URL, page+1, perPage)
		meta.Links.Next = &next
	}
	return items, meta, nil
}

// pageURL rebuilds the request path pointing at the given page, keeping all
// other query parameters intact.
func pageURL(u *url.URL, page, perPage int) string {
	path := "/api/todos"
	values := url.Values{}
	if u != nil {
		path = u.Path
		values = u.Query()
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	return path + "?" + values.Encode()
}

func (s *TodoService) Create(ctx context.Context, userID int, in CreateTodoInput) (models.Todo, error) {
	return s.todoRepo.Create(ctx, models.Todo{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
	})
}

func (s *TodoService) Get(ctx context.Context, userID, id int) (*models.Todo, error) {
	return s.todoRepo.GetByID(ctx, userID, id)
}

func (s *TodoService) Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error) {
	return s.todoRepo.Update(ctx, userID, id, upd)
}

func (s *TodoService) Delete(ctx context.Context, userID, id int) (bool, error) {
	return s.todoRepo.Delete(ctx, userID, id)
}
