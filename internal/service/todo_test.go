package service

import (
	"context"
	"net/url"
	"testing"

	"todo_api/internal/filter"
	"todo_api/internal/models"
)

type listCall struct {
	limit  int
	offset int
}

// mockTodoRepo is a lightweight in-test mock for repository.TodoRepo.
type mockTodoRepo struct {
	items []models.Todo
	total int

	listCalls  []listCall
	lastParams filter.Params
}

func (m *mockTodoRepo) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	todo.ID = 1
	return todo, nil
}

func (m *mockTodoRepo) GetByID(ctx context.Context, userID, id int) (*models.Todo, error) {
	return nil, nil
}

func (m *mockTodoRepo) List(ctx context.Context, userID int, params filter.Params, limit, offset int) ([]models.Todo, error) {
	m.listCalls = append(m.listCalls, listCall{limit: limit, offset: offset})
	m.lastParams = params
	lo := offset
	if lo > len(m.items) {
		lo = len(m.items)
	}
	hi := lo + limit
	if hi > len(m.items) {
		hi = len(m.items)
	}
	return m.items[lo:hi], nil
}

func (m *mockTodoRepo) Count(ctx context.Context, userID int, params filter.Params) (int, error) {
	return m.total, nil
}

func (m *mockTodoRepo) Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error) {
	return nil, nil
}

func (m *mockTodoRepo) Delete(ctx context.Context, userID, id int) (bool, error) {
	return false, nil
}

func manyTodos(n int) []models.Todo {
	out := make([]models.Todo, n)
	for i := range out {
		out[i] = models.Todo{ID: i + 1, UserID: 7, Title: "task"}
	}
	return out
}

func TestTodoService_List_Defaults(t *testing.T) {
	repo := &mockTodoRepo{items: manyTodos(3), total: 3}
	svc := NewTodoService(repo)

	items, meta, err := svc.List(context.Background(), 7, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(repo.listCalls) != 1 {
		t.Fatalf("expected 1 repo call, got %d", len(repo.listCalls))
	}
	if call := repo.listCalls[0]; call.limit != 10 || call.offset != 0 {
		t.Fatalf("expected limit=10 offset=0, got %+v", call)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if meta.PerPage != 10 || meta.CurrentPage != 1 || meta.Total != 3 || meta.Count != 3 || meta.TotalPages != 1 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Links.Prev != nil || meta.Links.Next != nil {
		t.Fatalf("single page must not link neighbours: %+v", meta.Links)
	}
}

func TestTodoService_List_InvalidPagingFallsBack(t *testing.T) {
	repo := &mockTodoRepo{items: manyTodos(1), total: 1}
	svc := NewTodoService(repo)

	_, meta, err := svc.List(context.Background(), 7, ListQuery{PerPage: -5, Page: -2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if call := repo.listCalls[0]; call.limit != 10 || call.offset != 0 {
		t.Fatalf("expected default paging, got %+v", call)
	}
	if meta.PerPage != 10 || meta.CurrentPage != 1 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestTodoService_List_MiddlePage(t *testing.T) {
	repo := &mockTodoRepo{items: manyTodos(15), total: 15}
	svc := NewTodoService(repo)

	u, _ := url.Parse("/api/todos?search=report&page=2&per_page=5")
	items, meta, err := svc.List(context.Background(), 7, ListQuery{PerPage: 5, Page: 2, URL: u})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if call := repo.listCalls[0]; call.limit != 5 || call.offset != 5 {
		t.Fatalf("expected limit=5 offset=5, got %+v", call)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	if meta.Total != 15 || meta.TotalPages != 3 || meta.CurrentPage != 2 || meta.Count != 5 {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	if meta.Links.Prev == nil || meta.Links.Next == nil {
		t.Fatalf("middle page must link both neighbours: %+v", meta.Links)
	}
	checks := map[string]string{
		"first": meta.Links.First,
		"last":  meta.Links.Last,
		"prev":  *meta.Links.Prev,
		"next":  *meta.Links.Next,
	}
	wantPages := map[string]string{"first": "1", "last": "3", "prev": "1", "next": "3"}
	for name, link := range checks {
		parsed, err := url.Parse(link)
		if err != nil {
			t.Fatalf("link %s is not a URL: %q", name, link)
		}
		q := parsed.Query()
		if q.Get("page") != wantPages[name] {
			t.Errorf("link %s points at page %q, want %q (%s)", name, q.Get("page"), wantPages[name], link)
		}
		if q.Get("per_page") != "5" {
			t.Errorf("link %s lost per_page: %s", name, link)
		}
		if q.Get("search") != "report" {
			t.Errorf("link %s lost the search parameter: %s", name, link)
		}
	}
}

func TestTodoService_List_LastPageAndEmptySet(t *testing.T) {
	repo := &mockTodoRepo{items: manyTodos(12), total: 12}
	svc := NewTodoService(repo)

	_, meta, err := svc.List(context.Background(), 7, ListQuery{PerPage: 5, Page: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if meta.TotalPages != 3 || meta.Count != 2 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Links.Next != nil {
		t.Fatalf("last page must not link next: %+v", meta.Links)
	}
	if meta.Links.Prev == nil {
		t.Fatal("last page must link prev")
	}

	empty := &mockTodoRepo{}
	_, meta, err = NewTodoService(empty).List(context.Background(), 7, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if meta.Total != 0 || meta.TotalPages != 1 || meta.Count != 0 {
		t.Fatalf("unexpected empty-set meta: %+v", meta)
	}
}

func TestTodoService_List_PassesFiltersThrough(t *testing.T) {
	repo := &mockTodoRepo{}
	svc := NewTodoService(repo)

	params := filter.Params{"search": "urgent", "completed": "1"}
	if _, _, err := svc.List(context.Background(), 7, ListQuery{Filters: params}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastParams["search"] != "urgent" || repo.lastParams["completed"] != "1" {
		t.Fatalf("filters not passed through: %v", repo.lastParams)
	}
}
