package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/pkg/validator"
)

type widgetStore struct {
	widgets map[int]string
}

type widgetController struct {
	store *widgetStore
}

func newWidgetController(store *widgetStore) *widgetController {
	return &widgetController{store: store}
}

func (*widgetController) Prefix() string { return "/widgets" }

func (*widgetController) Routes() []RouteDef {
	return []RouteDef{
		GET("/special", "Special"),
		GET("/raw", "Raw"),
		GET("/plain", "Plain"),
		GET("/boom", "Boom"),
		GET("/{id}", "Show", Path("id")),
		GET("", "List", Query("page").Default("1"), Query("q")),
		POST("", "Create"),
		DELETE("/{id}", "Delete", Path("id")),
	}
}

func (ctrl *widgetController) Special() *Outcome {
	return OK("special")
}

func (ctrl *widgetController) Show(id int) (*Outcome, error) {
	name, ok := ctrl.store.widgets[id]
	if !ok {
		return nil, ErrNotFound("widget not found", WithErrorCode("widget_missing"))
	}
	return OK(name), nil
}

func (ctrl *widgetController) List(page int, q string) *Outcome {
	return OK(map[string]any{"page": page, "q": q})
}

type createWidgetRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (createWidgetRequest) Rules() []validator.FieldRules {
	return []validator.FieldRules{
		validator.Field("name", validator.Required(), validator.MinLen(3)),
		validator.Field("count", validator.Required(), validator.Min(1)),
	}
}

func (ctrl *widgetController) Create(req *createWidgetRequest) *Outcome {
	return OK(map[string]any{"name": req.Name, "count": req.Count}).WithStatus(http.StatusCreated)
}

func (ctrl *widgetController) Delete(id int) error {
	if _, ok := ctrl.store.widgets[id]; !ok {
		return ErrNotFound("widget not found")
	}
	delete(ctrl.store.widgets, id)
	return nil
}

func (ctrl *widgetController) Raw() *Response {
	return NewResponse(http.StatusTeapot, map[string]string{"kind": "raw"})
}

func (ctrl *widgetController) Plain() map[string]string {
	return map[string]string{"kind": "plain"}
}

func (ctrl *widgetController) Boom() error {
	return errors.New("kaput")
}

func newWidgetApp(t *testing.T, opts ...Option) *App {
	t.Helper()

	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	app := NewApp(opts...)
	app.Register(&widgetStore{widgets: map[int]string{1: "anvil", 2: "spring"}})
	require.NoError(t, app.Provide(newWidgetController))
	require.NoError(t, app.Controllers(&widgetController{}))
	return app
}

func getReq(path string) *Request {
	u, _ := url.Parse(path)
	return &Request{Method: "GET", Path: u.Path, Query: u.Query()}
}

func TestDispatchMatching(t *testing.T) {
	t.Parallel()

	app := newWidgetApp(t)

	t.Run("first structural match wins", func(t *testing.T) {
		t.Parallel()

		// /widgets/special is registered before /widgets/{id}.
		resp := app.Dispatch(context.Background(), getReq("/widgets/special"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "special", resp.Body.(*Outcome).Data)
	})

	t.Run("path parameter binds and coerces", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/1"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "anvil", resp.Body.(*Outcome).Data)
	})

	t.Run("coercion failure is a routing miss", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/anvil"))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown path is not found", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/gadgets"))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("method mismatch is not found", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), &Request{Method: "PUT", Path: "/widgets/1"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("trailing slash matches", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/1/"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("dispatch is repeatable", func(t *testing.T) {
		t.Parallel()

		req := getReq("/widgets/2")
		first := app.Dispatch(context.Background(), req)
		second := app.Dispatch(context.Background(), req)
		assert.Equal(t, first.StatusCode, second.StatusCode)
		assert.Equal(t, first.Body.(*Outcome).Data, second.Body.(*Outcome).Data)
	})
}

func TestDispatchQueryBinding(t *testing.T) {
	t.Parallel()

	app := newWidgetApp(t)

	t.Run("default fills the absent key", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets?q=anvil"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := resp.Body.(*Outcome).Data.(map[string]any)
		assert.Equal(t, 1, data["page"])
		assert.Equal(t, "anvil", data["q"])
	})

	t.Run("missing required key is unprocessable", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets"))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.NotEmpty(t, resp.Body.(*Outcome).Errors["q"])
	})

	t.Run("uncoercible value is unprocessable", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets?page=x&q=a"))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.NotEmpty(t, resp.Body.(*Outcome).Errors["page"])
	})
}

func TestDispatchBody(t *testing.T) {
	t.Parallel()

	app := newWidgetApp(t)

	t.Run("valid body hydrates the target shape", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), &Request{
			Method: "POST",
			Path:   "/widgets",
			Body:   map[string]any{"name": "anvil", "count": float64(3)},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		data := resp.Body.(*Outcome).Data.(map[string]any)
		assert.Equal(t, "anvil", data["name"])
		assert.Equal(t, 3, data["count"])
	})

	t.Run("all failures aggregate into one response", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), &Request{
			Method: "POST",
			Path:   "/widgets",
			Body:   map[string]any{"name": "ab"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		o := resp.Body.(*Outcome)
		assert.False(t, o.Success)
		assert.NotEmpty(t, o.Errors["name"])
		assert.NotEmpty(t, o.Errors["count"])
	})
}

func TestDispatchReturnShapes(t *testing.T) {
	t.Parallel()

	app := newWidgetApp(t)

	t.Run("raw response passes through", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/raw"))
		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
		assert.Equal(t, map[string]string{"kind": "raw"}, resp.Body)
	})

	t.Run("plain value wraps as success payload", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/plain"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		o := resp.Body.(*Outcome)
		assert.True(t, o.Success)
		assert.Equal(t, map[string]string{"kind": "plain"}, o.Data)
	})

	t.Run("error-only success is an empty 200", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), &Request{Method: "DELETE", Path: "/widgets/2"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, resp.Body.(*Outcome).Success)
	})

	t.Run("http error carries status and error code", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/99"))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		o := resp.Body.(*Outcome)
		assert.Equal(t, "widget not found", o.Message)
		assert.Equal(t, "widget_missing", o.Meta["error_code"])
	})

	t.Run("unclassified error is an internal error", func(t *testing.T) {
		t.Parallel()

		resp := app.Dispatch(context.Background(), getReq("/widgets/boom"))
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "internal server error", resp.Body.(*Outcome).Message)
	})
}

type orderedController struct{}

func newOrderedController() *orderedController { return &orderedController{} }

func (*orderedController) Routes() []RouteDef {
	return []RouteDef{
		GET("/ordered", "Get").Use(recordMW("route")),
		GET("/blocked", "Get").Use(blockMW()),
	}
}

func (*orderedController) Middleware() []Middleware {
	return []Middleware{recordMW("controller")}
}

func (ctrl *orderedController) Get(c Context) *Outcome {
	order, _ := c.Get(orderKey{}).([]string)
	return OK(append(order, "handler"))
}

type orderKey struct{}

func recordMW(name string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) (*Response, error) {
			order, _ := c.Get(orderKey{}).([]string)
			c.Set(orderKey{}, append(order, name))
			return next(c)
		}
	}
}

func blockMW() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) (*Response, error) {
			return NewResponse(http.StatusForbidden, nil), nil
		}
	}
}

func TestMiddlewareChain(t *testing.T) {
	t.Parallel()

	newApp := func(t *testing.T) *App {
		t.Helper()
		app := NewApp(
			WithLogger(slog.New(slog.DiscardHandler)),
			WithMiddleware(recordMW("global")),
		)
		require.NoError(t, app.Provide(newOrderedController))
		require.NoError(t, app.Controllers(&orderedController{}))
		return app
	}

	t.Run("global then controller then route then handler", func(t *testing.T) {
		t.Parallel()

		resp := newApp(t).Dispatch(context.Background(), getReq("/ordered"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []string{"global", "controller", "route", "handler"},
			resp.Body.(*Outcome).Data)
	})

	t.Run("middleware can short-circuit before the handler", func(t *testing.T) {
		t.Parallel()

		resp := newApp(t).Dispatch(context.Background(), getReq("/blocked"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestRegistrationErrors(t *testing.T) {
	t.Parallel()

	newApp := func() *App {
		return NewApp(WithLogger(slog.New(slog.DiscardHandler)))
	}

	t.Run("duplicate structural pattern is rejected", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(&dupRouteController{})
		assert.ErrorIs(t, err, ErrDuplicateRoute)
	})

	t.Run("unknown handler method is rejected", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(&badHandlerController{})
		assert.ErrorIs(t, err, ErrUnknownHandler)
	})

	t.Run("scalar without binding is rejected", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(&unboundController{})
		assert.ErrorIs(t, err, ErrUnboundParameter)
	})

	t.Run("path binding must name a pattern parameter", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(&unmatchedBindingController{})
		assert.ErrorIs(t, err, ErrUnmatchedBinding)
	})

	t.Run("unsupported return shape is rejected", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(&badSignatureController{})
		assert.ErrorIs(t, err, ErrInvalidHandlerSig)
	})

	t.Run("value controller is rejected", func(t *testing.T) {
		t.Parallel()

		app := newApp()
		err := app.Controllers(valueController{})
		assert.Error(t, err)
	})
}

type dupRouteController struct{}

func (*dupRouteController) Routes() []RouteDef {
	// Same structure, different parameter names.
	return []RouteDef{
		GET("/users/{id}", "Get", Path("id")),
		GET("/users/{uid}", "Get", Path("uid")),
	}
}

func (*dupRouteController) Get(id int) *Outcome { return OK(id) }

type badHandlerController struct{}

func (*badHandlerController) Routes() []RouteDef {
	return []RouteDef{GET("/x", "Missing")}
}

type unboundController struct{}

func (*unboundController) Routes() []RouteDef {
	return []RouteDef{GET("/x", "Get")}
}

func (*unboundController) Get(limit int) *Outcome { return OK(limit) }

type unmatchedBindingController struct{}

func (*unmatchedBindingController) Routes() []RouteDef {
	return []RouteDef{GET("/users/{id}", "Get", Path("user_id"))}
}

func (*unmatchedBindingController) Get(id int) *Outcome { return OK(id) }

type badSignatureController struct{}

func (*badSignatureController) Routes() []RouteDef {
	return []RouteDef{GET("/x", "Get")}
}

func (*badSignatureController) Get() (*Outcome, *Outcome, error) { return nil, nil, nil }

type valueController struct{}

func (valueController) Routes() []RouteDef {
	return []RouteDef{GET("/x", "Get")}
}

func (valueController) Get() *Outcome { return OK(nil) }

type orphanController struct{}

func (*orphanController) Routes() []RouteDef {
	return []RouteDef{GET("/orphan", "Get")}
}

func (*orphanController) Get() *Outcome { return OK(nil) }

func TestDispatchContainerFailure(t *testing.T) {
	t.Parallel()

	// Controller registered for routing but no constructor provided.
	app := NewApp(WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, app.Controllers(&orphanController{}))

	resp := app.Dispatch(context.Background(), getReq("/orphan"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
