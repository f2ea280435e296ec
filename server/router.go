package server

import (
	"context"
	"net/http"

	"blog-service/apperror"
	"blog-service/handlers"
	"blog-service/logging"
	"blog-service/repository"
	"blog-service/services"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
)

const apiPrefix = "/api"

// HandlerFunc is the handler shape used by the route table. ctx carries the
// matched route and the request id.
type HandlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request)

// Route describes one endpoint.
type Route struct {
	Name   string
	Method string
	Path   string
}

type registration struct {
	Route
	Handler HandlerFunc
}

func routes(users *handlers.UserHandler, posts *handlers.PostHandler) []registration {
	return []registration{
		{Route{"HealthCheck", http.MethodGet, "/health"}, healthCheck},

		{Route{"ListUsers", http.MethodGet, apiPrefix + "/users"}, users.GetUsers},
		{Route{"GetUser", http.MethodGet, apiPrefix + "/users/{id}"}, users.GetUser},
		{Route{"CreateUser", http.MethodPost, apiPrefix + "/users"}, users.CreateUser},
		{Route{"UpdateUser", http.MethodPut, apiPrefix + "/users/{id}"}, users.UpdateUser},
		{Route{"DeleteUser", http.MethodDelete, apiPrefix + "/users/{id}"}, users.DeleteUser},

		{Route{"ListPosts", http.MethodGet, apiPrefix + "/posts"}, posts.GetPosts},
		{Route{"ListPostsByUser", http.MethodGet, apiPrefix + "/posts/user/{userId}"}, posts.GetPostsByUser},
		{Route{"ListPostsByTag", http.MethodGet, apiPrefix + "/posts/tag/{tag}"}, posts.GetPostsByTag},
		{Route{"GetPost", http.MethodGet, apiPrefix + "/posts/{id}"}, posts.GetPost},
		{Route{"CreatePost", http.MethodPost, apiPrefix + "/posts"}, posts.CreatePost},
		{Route{"UpdatePost", http.MethodPut, apiPrefix + "/posts/{id}"}, posts.UpdatePost},
		{Route{"DeletePost", http.MethodDelete, apiPrefix + "/posts/{id}"}, posts.DeletePost},
	}
}

// NewHandler wires repositories, services and handlers over dbConn and
// returns the complete HTTP handler including middleware.
func NewHandler(dbConn *sqlx.DB, bcryptCost int, log logging.Logger) http.Handler {
	userRepo := repository.NewUserRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)

	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo, log, bcryptCost), log)
	postHandler := handlers.NewPostHandler(services.NewPostService(postRepo, userRepo, log), log)

	return Chain(newRouter(routes(userHandler, postHandler)), log)
}

// newRouter registers every route on a gorilla/mux router. Unmatched paths
// and methods answer with the 404 envelope.
func newRouter(table []registration) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(pageNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(pageNotFound)

	for _, reg := range table {
		router.Handle(reg.Path, withRoute(reg.Route, reg.Handler)).
			Methods(reg.Method).
			Name(reg.Name)
	}
	return router
}

func withRoute(route Route, h HandlerFunc) http.Handler {
	info := handlers.RouteInfo{Name: route.Name, Method: route.Method, Path: route.Path}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := handlers.WithRoute(r.Context(), info)
		h(ctx, w, r.WithContext(ctx))
	})
}

func pageNotFound(w http.ResponseWriter, _ *http.Request) {
	handlers.WriteError(w, apperror.New(apperror.NotFound, apperror.MsgPageNotFound), apperror.MsgPageNotFound)
}

func healthCheck(_ context.Context, w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"blog-service"}`))
}
