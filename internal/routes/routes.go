package routes

import (
	"net/http"

	"github.com/oakmill/taskman/internal/app"
	"github.com/oakmill/taskman/internal/handler"
	"github.com/oakmill/taskman/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	users := handler.NewUserHandler(app.AuthService, app.UserService, app.AvatarService)
	tasks := handler.NewTaskHandler(app.TaskService)

	mux := http.NewServeMux()

	rateLimiter := middleware.RateLimitAuth()
	requireAuth := middleware.RequireAuth(app.AuthService)

	// Users
	mux.HandleFunc("POST /users", rateLimiter(users.Signup))
	mux.HandleFunc("POST /users/login", rateLimiter(users.Login))
	mux.HandleFunc("POST /users/logout", requireAuth(users.Logout))
	mux.HandleFunc("POST /users/logoutAll", requireAuth(users.LogoutAll))
	mux.HandleFunc("GET /users/me", requireAuth(users.Me))
	mux.HandleFunc("PATCH /users/me", requireAuth(users.UpdateMe))
	mux.HandleFunc("DELETE /users/me", requireAuth(users.DeleteMe))

	// Avatars (fetch is public, mutation requires auth)
	mux.HandleFunc("POST /users/me/avatar", requireAuth(users.UploadAvatar))
	mux.HandleFunc("DELETE /users/me/avatar", requireAuth(users.DeleteAvatar))
	mux.HandleFunc("GET /users/{id}/avatar", users.Avatar)

	// Tasks
	mux.HandleFunc("POST /tasks", requireAuth(tasks.Create))
	mux.HandleFunc("GET /tasks", requireAuth(tasks.List))
	mux.HandleFunc("GET /tasks/{id}", requireAuth(tasks.ByID))
	mux.HandleFunc("PATCH /tasks/{id}", requireAuth(tasks.Update))
	mux.HandleFunc("DELETE /tasks/{id}", requireAuth(tasks.Delete))

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
