package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/webscaffold/webapp/internal/api/metrics"
	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
)

type stubExampleService struct {
	listFn   func(ctx context.Context, in ports.ListExamplesInput) (*domain.Page[*domain.Example], error)
	getFn    func(ctx context.Context, id int64) (*domain.Example, error)
	createFn func(ctx context.Context, actor *domain.User, in domain.ExampleInput) (*domain.Example, error)
	updateFn func(ctx context.Context, actor *domain.User, id int64, in domain.ExampleInput) (*domain.Example, error)
	deleteFn func(ctx context.Context, actor *domain.User, id int64) error
}

func (s *stubExampleService) List(ctx context.Context, in ports.ListExamplesInput) (*domain.Page[*domain.Example], error) {
	return s.listFn(ctx, in)
}

func (s *stubExampleService) Get(ctx context.Context, id int64) (*domain.Example, error) {
	return s.getFn(ctx, id)
}

func (s *stubExampleService) Create(ctx context.Context, actor *domain.User, in domain.ExampleInput) (*domain.Example, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubExampleService) Update(ctx context.Context, actor *domain.User, id int64, in domain.ExampleInput) (*domain.Example, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubExampleService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

var demoUser = &domain.User{ID: "1", Username: "demo", Roles: []string{domain.RoleUser}}

func TestExampleHandler_List(t *testing.T) {
	e := newEcho()
	var got ports.ListExamplesInput
	h := NewExampleHandler(&stubExampleService{
		listFn: func(ctx context.Context, in ports.ListExamplesInput) (*domain.Page[*domain.Example], error) {
			got = in
			return &domain.Page[*domain.Example]{
				Items:  []*domain.Example{{ID: 3, Title: "third", Owner: "demo"}},
				Limit:  in.Limit,
				Offset: in.Offset,
				Total:  3,
			}, nil
		},
	}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/examples?limit=1&offset=2", nil, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Limit != 1 || got.Offset != 2 {
		t.Fatalf("unexpected window: %+v", got)
	}

	var resp exampleListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 1 || resp.Items[0].Title != "third" {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestExampleHandler_List_Defaults(t *testing.T) {
	e := newEcho()
	h := NewExampleHandler(&stubExampleService{
		listFn: func(ctx context.Context, in ports.ListExamplesInput) (*domain.Page[*domain.Example], error) {
			if in.Limit != 20 || in.Offset != 0 {
				t.Fatalf("unexpected defaults: %+v", in)
			}
			return &domain.Page[*domain.Example]{Limit: in.Limit}, nil
		},
	}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/examples", nil, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rec.Body.String())
	}
}

func TestExampleHandler_List_BadQuery(t *testing.T) {
	e := newEcho()
	h := NewExampleHandler(&stubExampleService{}, nil)

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1"} {
		c, _ := newContext(e, http.MethodGet, "/api/examples?"+q, nil, "")
		appErr := requireStatus(t, h.List(c), http.StatusUnprocessableEntity)
		if appErr.Fields[0].Loc[0] != "query" {
			t.Fatalf("%s: unexpected loc %v", q, appErr.Fields[0].Loc)
		}
	}
}

func TestExampleHandler_Get(t *testing.T) {
	e := newEcho()
	h := NewExampleHandler(&stubExampleService{
		getFn: func(ctx context.Context, id int64) (*domain.Example, error) {
			if id == 1 {
				return &domain.Example{ID: 1, Title: "first", Owner: "demo", CreatedAt: time.Now()}, nil
			}
			return nil, domain.ErrExampleNotFound
		},
	}, nil)

	c, rec := newContext(e, http.MethodGet, "/", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp exampleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 1 || resp.Owner != "demo" || resp.UpdatedAt != nil {
		t.Fatalf("unexpected example: %+v", resp)
	}

	c, _ = newContext(e, http.MethodGet, "/", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.Get(c); !errors.Is(err, domain.ErrExampleNotFound) {
		t.Fatalf("expected ErrExampleNotFound, got %v", err)
	}

	c, _ = newContext(e, http.MethodGet, "/", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	appErr := requireStatus(t, h.Get(c), http.StatusUnprocessableEntity)
	if appErr.Fields[0].Loc[1] != "id" {
		t.Fatalf("unexpected loc %v", appErr.Fields[0].Loc)
	}
}

func TestExampleHandler_Create(t *testing.T) {
	e := newEcho()
	m := metrics.New(prometheus.NewRegistry())
	h := NewExampleHandler(&stubExampleService{
		createFn: func(ctx context.Context, actor *domain.User, in domain.ExampleInput) (*domain.Example, error) {
			if actor.Username != "demo" || in.Title != "hello" {
				t.Fatalf("unexpected args: %v %+v", actor, in)
			}
			return &domain.Example{ID: 1, Title: in.Title, Description: in.Description, Owner: actor.Username}, nil
		},
	}, m)

	c, rec := newContext(e, http.MethodPost, "/api/examples",
		strings.NewReader(`{"title":"hello","description":"world"}`), echo.MIMEApplicationJSON)
	withUser(c, demoUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if v := testutil.ToFloat64(m.ExampleMutations.WithLabelValues("create")); v != 1 {
		t.Fatalf("expected one create, got %v", v)
	}
}

func TestExampleHandler_Create_Rejects(t *testing.T) {
	e := newEcho()
	h := NewExampleHandler(&stubExampleService{
		createFn: func(ctx context.Context, actor *domain.User, in domain.ExampleInput) (*domain.Example, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}, nil)

	c, _ := newContext(e, http.MethodPost, "/api/examples", strings.NewReader(`{"title":"x"}`), echo.MIMEApplicationJSON)
	requireStatus(t, h.Create(c), http.StatusUnauthorized)

	c, _ = newContext(e, http.MethodPost, "/api/examples", strings.NewReader(`{"title":""}`), echo.MIMEApplicationJSON)
	withUser(c, demoUser)
	appErr := requireStatus(t, h.Create(c), http.StatusUnprocessableEntity)
	if appErr.Fields[0].Loc[1] != "title" {
		t.Fatalf("unexpected loc %v", appErr.Fields[0].Loc)
	}

	c, _ = newContext(e, http.MethodPost, "/api/examples", strings.NewReader(`{"title":`), echo.MIMEApplicationJSON)
	withUser(c, demoUser)
	requireStatus(t, h.Create(c), http.StatusBadRequest)
}

func TestExampleHandler_Update_Forbidden(t *testing.T) {
	e := newEcho()
	h := NewExampleHandler(&stubExampleService{
		updateFn: func(ctx context.Context, actor *domain.User, id int64, in domain.ExampleInput) (*domain.Example, error) {
			return nil, domain.ErrForbidden
		},
	}, nil)

	c, _ := newContext(e, http.MethodPut, "/", strings.NewReader(`{"title":"mine now"}`), echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("5")
	withUser(c, demoUser)

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestExampleHandler_Delete(t *testing.T) {
	e := newEcho()
	var deleted int64
	h := NewExampleHandler(&stubExampleService{
		deleteFn: func(ctx context.Context, actor *domain.User, id int64) error {
			deleted = id
			return nil
		},
	}, nil)

	c, rec := newContext(e, http.MethodDelete, "/", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	withUser(c, demoUser)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 4 {
		t.Fatalf("expected 204 for id 4, got %d for id %d", rec.Code, deleted)
	}
}
