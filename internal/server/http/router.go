package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/token"
)

// NewRouter constructs the API handler.
//
// Routes:
//
//	GET    /health                                  → liveness probe
//	POST   /auth/login                              → AuthHandler.Login
//	POST   /auth/register                           → AuthHandler.Register
//	PUT    /auth/update                             → AuthHandler.Update (bearer)
//	POST   /theoretical-machine/save-machine        → MachineHandler.Save (bearer)
//	GET    /theoretical-machine/get-all-machines    → MachineHandler.GetAll (bearer)
//	DELETE /theoretical-machine/delete-machine/{id} → MachineHandler.Delete (bearer)
//	PUT    /theoretical-machine/update-machine/{id} → MachineHandler.Update (bearer)
func NewRouter(
	authHandler *AuthHandler,
	machineHandler *MachineHandler,
	tokens *token.Manager,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(Recover(logger))
	r.Use(WithRequestLogging(logger))
	// Only allow requests with Content-Type: application/json
	r.Use(RequireJSON)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success[any]("Service is healthy", nil, http.StatusOK).Write(w)
	})

	r.Route("/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)

		// Protected group: requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))
			r.Put("/update", authHandler.Update)
		})
	})

	r.Route("/theoretical-machine", func(r chi.Router) {
		r.Use(Authenticate(tokens))
		r.Post("/save-machine", machineHandler.Save)
		r.Get("/get-all-machines", machineHandler.GetAll)
		r.Delete("/delete-machine/{id}", machineHandler.Delete)
		r.Put("/update-machine/{id}", machineHandler.Update)
	})

	return r
}
