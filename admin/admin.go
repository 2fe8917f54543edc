package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/caddyserver/caddy/v2"

	"github.com/imgk/caddy-cstring/app"
	"github.com/imgk/caddy-cstring/arena"
	"github.com/imgk/caddy-cstring/cstring"
)

func init() {
	caddy.RegisterModule(Admin{})
}

// Store is the part of app.App the admin API drives.
type Store interface {
	Create() arena.ID
	Use(arena.ID) (string, error)
	Destroy(arena.ID) error
	List() []app.Entry
	Stats() cstring.Stats
}

// Admin is ...
type Admin struct {
	// Store is ...
	Store Store
}

// CaddyModule returns the Caddy module information.
func (Admin) CaddyModule() caddy.ModuleInfo {
	return caddy.ModuleInfo{
		ID:  "admin.api.cstring",
		New: func() caddy.Module { return new(Admin) },
	}
}

// Provision is ...
func (al *Admin) Provision(ctx caddy.Context) error {
	mod, err := ctx.AppIfConfigured(app.CaddyAppID)
	if err != nil {
		return nil
	}
	al.Store = mod.(*app.App)
	return nil
}

// Routes returns a route for the /cstring/* endpoint.
func (al *Admin) Routes() []caddy.AdminRoute {
	return []caddy.AdminRoute{
		{
			Pattern: "/cstring/handles",
			Handler: caddy.AdminHandlerFunc(al.GetHandles),
		},
		{
			Pattern: "/cstring/stats",
			Handler: caddy.AdminHandlerFunc(al.GetStats),
		},
		{
			Pattern: "/cstring/handles/create",
			Handler: caddy.AdminHandlerFunc(al.CreateHandle),
		},
		{
			Pattern: "/cstring/handles/print",
			Handler: caddy.AdminHandlerFunc(al.PrintHandle),
		},
		{
			Pattern: "/cstring/handles/destroy",
			Handler: caddy.AdminHandlerFunc(al.DestroyHandle),
		},
	}
}

type request struct {
	ID arena.ID `json:"id"`
}

func (al *Admin) check(r *http.Request, method string) error {
	if al.Store == nil {
		return caddy.APIError{
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        errors.New("cstring app is not configured"),
		}
	}
	if r.Method != method {
		return caddy.APIError{
			HTTPStatus: http.StatusMethodNotAllowed,
			Err:        fmt.Errorf("method not allowed: %s", r.Method),
		}
	}
	return nil
}

func readRequest(r *http.Request) (request, error) {
	req := request{}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, caddy.APIError{
			HTTPStatus: http.StatusBadRequest,
			Err:        fmt.Errorf("decode request body error: %w", err),
		}
	}
	return req, nil
}

func storeError(err error) error {
	if errors.Is(err, app.ErrUnknownHandle) {
		return caddy.APIError{HTTPStatus: http.StatusNotFound, Err: err}
	}
	return err
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(v)
}

// GetHandles lists live handles.
func (al *Admin) GetHandles(w http.ResponseWriter, r *http.Request) error {
	if err := al.check(r, http.MethodGet); err != nil {
		return err
	}
	return writeJSON(w, al.Store.List())
}

// GetStats is ...
func (al *Admin) GetStats(w http.ResponseWriter, r *http.Request) error {
	if err := al.check(r, http.MethodGet); err != nil {
		return err
	}
	return writeJSON(w, al.Store.Stats())
}

// CreateHandle is ...
func (al *Admin) CreateHandle(w http.ResponseWriter, r *http.Request) error {
	if err := al.check(r, http.MethodPost); err != nil {
		return err
	}
	return writeJSON(w, request{ID: al.Store.Create()})
}

// PrintHandle prints the handle and echoes its content.
func (al *Admin) PrintHandle(w http.ResponseWriter, r *http.Request) error {
	if err := al.check(r, http.MethodPost); err != nil {
		return err
	}
	req, err := readRequest(r)
	if err != nil {
		return err
	}
	content, err := al.Store.Use(req.ID)
	if err != nil {
		return storeError(err)
	}
	return writeJSON(w, app.Entry{ID: req.ID, Content: content})
}

// DestroyHandle is ...
func (al *Admin) DestroyHandle(w http.ResponseWriter, r *http.Request) error {
	if err := al.check(r, http.MethodDelete); err != nil {
		return err
	}
	req, err := readRequest(r)
	if err != nil {
		return err
	}
	if err := al.Store.Destroy(req.ID); err != nil {
		return storeError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// Interface guards
var (
	_ caddy.AdminRouter = (*Admin)(nil)
	_ caddy.Provisioner = (*Admin)(nil)
	_ Store             = (*app.App)(nil)
)
