package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	culturelog "github.com/w-h-a/culturelog"
	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/internal/service/records"
	"github.com/w-h-a/culturelog/media"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type userKey struct{}

// Server is the presentation boundary: it resolves the caller's identity,
// hosts the delete confirmation gate, and maps the error taxonomy to status
// codes. All record logic stays in the services behind the App.
type Server struct {
	options Options
	app     *culturelog.App
	handler http.Handler
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	slog.InfoContext(s.options.Context, "http server listening", "address", s.options.Address)
	return http.ListenAndServe(s.options.Address, s.handler)
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Handle("/session", http.HandlerFunc(s.handleSignIn)).Methods(http.MethodPost)
	api.Handle("/session", s.authenticated(s.handleSignOut)).Methods(http.MethodDelete)

	api.Handle("/logs", s.authenticated(s.handleList)).Methods(http.MethodGet)
	api.Handle("/logs", s.authenticated(s.handleCreate)).Methods(http.MethodPost)
	api.Handle("/logs/{id}", s.authenticated(s.handleUpdate)).Methods(http.MethodPut)
	api.Handle("/logs/{id}", s.authenticated(s.handleDelete)).Methods(http.MethodDelete)

	var handler http.Handler = router
	for i := len(s.options.Middleware) - 1; i >= 0; i-- {
		handler = s.options.Middleware[i](handler)
	}

	return otelhttp.NewHandler(handler, "culturelog")
}

// authenticated resolves the bearer token before any store call; requests
// with no resolvable user are rejected with 401.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if len(token) == 0 {
			writeError(w, r, culture.ErrAuthRequired)
			return
		}

		user, err := s.app.VerifyToken(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		next(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) culture.User {
	user, _ := ctx.Value(userKey{}).(culture.User)
	return user
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return ""
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.SignIn(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.app.SignOut(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := s.app.Load(r.Context(), user.Id); err != nil {
		writeError(w, r, err)
		return
	}

	recs := s.app.Filter(user.Id, r.URL.Query().Get("q"))
	if recs == nil {
		recs = []culture.Record{}
	}

	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	input, file, err := s.readForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.app.Create(r.Context(), user.Id, input, file); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.app.Logs(user.Id))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := mux.Vars(r)["id"]

	if !s.owns(r.Context(), user, id) {
		writeError(w, r, culture.ErrNotFound)
		return
	}

	input, file, err := s.readForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.app.Update(r.Context(), id, input, file); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.app.Logs(user.Id))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := mux.Vars(r)["id"]

	if !s.owns(r.Context(), user, id) {
		writeError(w, r, culture.ErrNotFound)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		// the yes/no gate: nothing is deleted without it
		writeError(w, r, culture.ErrNotConfirmed)
		return
	}

	if err := s.app.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// owns reports whether the id is in the caller's snapshot, loading it when
// the cache is cold.
func (s *Server) owns(ctx context.Context, user culture.User, id string) bool {
	for _, rec := range s.app.Logs(user.Id) {
		if rec.Id == id {
			return true
		}
	}

	if err := s.app.Load(ctx, user.Id); err != nil {
		return false
	}

	for _, rec := range s.app.Logs(user.Id) {
		if rec.Id == id {
			return true
		}
	}

	return false
}

func (s *Server) readForm(w http.ResponseWriter, r *http.Request) (records.Input, *media.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxBodyBytes)

	if err := r.ParseMultipartForm(s.options.MaxBodyBytes); err != nil {
		return records.Input{}, nil, errors.Join(culture.ErrValidation, err)
	}

	input := records.Input{
		Note:     r.FormValue("note"),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	if raw := r.FormValue("tags"); len(raw) > 0 {
		if err := json.Unmarshal([]byte(raw), &input.Tags); err != nil {
			return records.Input{}, nil, errors.Join(culture.ErrValidation, err)
		}
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil, nil
	}
	if err != nil {
		return records.Input{}, nil, errors.Join(culture.ErrValidation, err)
	}
	defer file.Close()

	selected, err := readFile(file, header)
	if err != nil {
		return records.Input{}, nil, errors.Join(culture.ErrValidation, err)
	}

	return input, selected, nil
}

func readFile(file multipart.File, header *multipart.FileHeader) (*media.File, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &media.File{
		Name: header.Filename,
		MIME: header.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, culture.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, culture.ErrAuthRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, culture.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, culture.ErrNotConfirmed):
		status = http.StatusPreconditionRequired
	case errors.Is(err, culture.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func NewServer(app *culturelog.App, opts ...Option) *Server {
	if app == nil {
		panic("app is required")
	}

	options := NewOptions(opts...)

	s := &Server{
		options: options,
		app:     app,
	}

	s.handler = s.routes()

	return s
}
