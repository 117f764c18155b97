package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

type stubOrderService struct {
	findFn   func(ctx context.Context, id int64) (*ports.OrderView, error)
	insertFn func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error)
	inserts  atomic.Int32
}

func (s *stubOrderService) FindByID(ctx context.Context, id int64) (*ports.OrderView, error) {
	return s.findFn(ctx, id)
}

func (s *stubOrderService) Insert(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
	s.inserts.Add(1)
	return s.insertFn(ctx, in)
}

// memIdempotency stores 0 for a pending key and the order id once completed.
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]int64
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: make(map[string]int64)}
}

func (m *memIdempotency) Reserve(_ context.Context, key string) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.keys[key]; ok {
		return false, id, nil
	}
	m.keys[key] = 0
	return true, 0, nil
}

func (m *memIdempotency) Complete(_ context.Context, key string, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = orderID
	return nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func (m *memIdempotency) value(key string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok
}

func createWithKey(e *echo.Echo, h *OrderHandler, key string) (int, error) {
	req := jsonRequest(http.MethodPost, "/orders", `{"items":[{"product_id":1,"quantity":2,"price":10}]}`)
	req.Header.Set(idempotencyHeader, key)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "bob@gmail.com")

	err := h.Create(c)
	return rec.Code, err
}

func sampleView(id int64) *ports.OrderView {
	return &ports.OrderView{
		ID:        id,
		CreatedAt: time.Date(2022, 7, 25, 13, 0, 0, 0, time.UTC),
		Status:    "WAITING_PAYMENT",
		Client:    ports.ClientView{ID: 2, Name: "Bob"},
		Items: []ports.OrderItemView{
			{ProductID: 1, Name: "Playstation 5", Price: 10, Quantity: 2, SubTotal: 20},
		},
		Total: 20,
	}
}

func TestOrderHandler_Get_Success(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		findFn: func(ctx context.Context, id int64) (*ports.OrderView, error) {
			if id != 1 {
				t.Fatalf("unexpected id %d", id)
			}
			return sampleView(1), nil
		},
	}
	handler := NewOrderHandler(stub, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/orders/1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 1 || resp.Client.Name != "Bob" || resp.Links.Self != "/orders/1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].SubTotal != 20 {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestOrderHandler_Get_PropagatesServiceErrors(t *testing.T) {
	for _, want := range []error{domain.ErrForbidden, domain.ErrOrderNotFound, domain.ErrUnauthenticated} {
		t.Run(want.Error(), func(t *testing.T) {
			e := newEcho()
			stub := &stubOrderService{
				findFn: func(ctx context.Context, id int64) (*ports.OrderView, error) { return nil, want },
			}
			handler := NewOrderHandler(stub, nil, zerolog.Nop())

			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/orders/1", nil), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues("1")

			if err := handler.Get(c); !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		})
	}
}

func TestOrderHandler_Get_InvalidID(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		findFn: func(ctx context.Context, id int64) (*ports.OrderView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub, nil, zerolog.Nop())

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/orders/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	var he *echo.HTTPError
	if err := handler.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestOrderHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		insertFn: func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
			if len(in.Items) != 2 || in.Items[1].ProductID != 2 || in.Items[1].Price != 50 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleView(7), nil
		},
	}
	handler := NewOrderHandler(stub, nil, zerolog.Nop())

	body := `{"items":[{"product_id":1,"quantity":2,"price":10},{"product_id":2,"quantity":1,"price":50}]}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/orders", body), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestOrderHandler_Create_ValidationErrors(t *testing.T) {
	tests := map[string]struct {
		body string
		code int
	}{
		"not json":      {body: "{", code: http.StatusBadRequest},
		"no items":      {body: `{"items":[]}`, code: http.StatusUnprocessableEntity},
		"zero quantity": {body: `{"items":[{"product_id":1,"quantity":0,"price":10}]}`, code: http.StatusUnprocessableEntity},
		"negative price": {body: `{"items":[{"product_id":1,"quantity":1,"price":-1}]}`, code: http.StatusUnprocessableEntity},
		"missing product": {body: `{"items":[{"quantity":1,"price":1}]}`, code: http.StatusUnprocessableEntity},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			stub := &stubOrderService{}
			handler := NewOrderHandler(stub, nil, zerolog.Nop())

			c := e.NewContext(jsonRequest(http.MethodPost, "/orders", tt.body), httptest.NewRecorder())

			var he *echo.HTTPError
			if err := handler.Create(c); !errors.As(err, &he) || he.Code != tt.code {
				t.Fatalf("expected %d, got %v", tt.code, err)
			}
			if stub.inserts.Load() != 0 {
				t.Fatalf("service must not be called on invalid payload")
			}
		})
	}
}

func TestOrderHandler_Create_PropagatesEntityNotFound(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		insertFn: func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
			return nil, domain.ErrEntityNotFound
		},
	}
	handler := NewOrderHandler(stub, nil, zerolog.Nop())

	c := e.NewContext(jsonRequest(http.MethodPost, "/orders", `{"items":[{"product_id":999,"quantity":1,"price":1}]}`), httptest.NewRecorder())

	if err := handler.Create(c); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestOrderHandler_Create_IdempotentReplay(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		insertFn: func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
			return sampleView(7), nil
		},
		findFn: func(ctx context.Context, id int64) (*ports.OrderView, error) {
			if id != 7 {
				t.Fatalf("replay looked up %d", id)
			}
			return sampleView(7), nil
		},
	}
	idem := newMemIdempotency()
	handler := NewOrderHandler(stub, idem, zerolog.Nop())

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		code, err := createWithKey(e, handler, "abc-123")
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		codes = append(codes, code)
	}

	if codes[0] != http.StatusCreated || codes[1] != http.StatusOK {
		t.Fatalf("expected 201 then 200, got %v", codes)
	}
	if n := stub.inserts.Load(); n != 1 {
		t.Fatalf("expected a single insert, got %d", n)
	}
	if id, ok := idem.value("bob@gmail.com:abc-123"); !ok || id != 7 {
		t.Fatalf("key not scoped by caller or not completed: %v", idem.keys)
	}
}

func TestOrderHandler_Create_ConcurrentSameKeyInsertsOnce(t *testing.T) {
	e := newEcho()
	started := make(chan struct{})
	release := make(chan struct{})
	stub := &stubOrderService{
		insertFn: func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
			close(started)
			<-release
			return sampleView(7), nil
		},
	}
	handler := NewOrderHandler(stub, newMemIdempotency(), zerolog.Nop())

	type result struct {
		code int
		err  error
	}
	first := make(chan result, 1)
	go func() {
		code, err := createWithKey(e, handler, "same")
		first <- result{code, err}
	}()

	<-started
	_, err := createWithKey(e, handler, "same")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("expected 409 while the first request is in flight, got %v", err)
	}

	close(release)
	res := <-first
	if res.err != nil || res.code != http.StatusCreated {
		t.Fatalf("expected first request to create, got %d %v", res.code, res.err)
	}
	if n := stub.inserts.Load(); n != 1 {
		t.Fatalf("expected a single insert, got %d", n)
	}
}

func TestOrderHandler_Create_FailedInsertReleasesKey(t *testing.T) {
	e := newEcho()
	fail := true
	stub := &stubOrderService{
		insertFn: func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderView, error) {
			if fail {
				return nil, domain.ErrEntityNotFound
			}
			return sampleView(8), nil
		},
	}
	idem := newMemIdempotency()
	handler := NewOrderHandler(stub, idem, zerolog.Nop())

	if _, err := createWithKey(e, handler, "retry-me"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
	if _, ok := idem.value("bob@gmail.com:retry-me"); ok {
		t.Fatalf("failed insert must release the key")
	}

	fail = false
	code, err := createWithKey(e, handler, "retry-me")
	if err != nil || code != http.StatusCreated {
		t.Fatalf("expected retry to create, got %d %v", code, err)
	}
}
