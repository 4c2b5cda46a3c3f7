package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kmalygin/machine-vault/internal/model"
	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/service"
)

// MachineHandler handles theoretical machine CRUD requests. All routes sit
// behind the authentication gate.
type MachineHandler struct {
	Machines service.MachineService
}

// Save handles POST /theoretical-machine/save-machine.
func (h *MachineHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
		return
	}
	var m model.TheoreticalMachine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.Failure[any]("Invalid request body", http.StatusBadRequest).Write(w)
		return
	}
	if msg := machineBodyError(m); msg != "" {
		response.Failure[any](msg, http.StatusBadRequest).Write(w)
		return
	}
	h.Machines.Save(r.Context(), id.Email, m).Write(w)
}

// GetAll handles GET /theoretical-machine/get-all-machines.
func (h *MachineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
		return
	}
	h.Machines.GetAll(r.Context(), id.Email).Write(w)
}

// Delete handles DELETE /theoretical-machine/delete-machine/{id}.
func (h *MachineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
		return
	}
	machineID, ok := machineIDParam(w, r)
	if !ok {
		return
	}
	h.Machines.Delete(r.Context(), id.Email, machineID).Write(w)
}

// Update handles PUT /theoretical-machine/update-machine/{id}.
func (h *MachineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
		return
	}
	machineID, ok := machineIDParam(w, r)
	if !ok {
		return
	}
	var m model.TheoreticalMachine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.Failure[any]("Invalid request body", http.StatusBadRequest).Write(w)
		return
	}
	if msg := machineBodyError(m); msg != "" {
		response.Failure[any](msg, http.StatusBadRequest).Write(w)
		return
	}
	h.Machines.Update(r.Context(), id.Email, machineID, m).Write(w)
}

// machineBodyError validates a decoded machine body. Every recorder must
// carry at least one functionality and a delimiter-free name; the compact
// storage form has no representation for anything else, so such a record
// could never be read back. Returns "" when the body is valid.
func machineBodyError(m model.TheoreticalMachine) string {
	if m.Name == "" || len(m.Machine.Recorders) == 0 {
		return "Machine name and recorders are required"
	}
	for _, rec := range m.Machine.Recorders {
		if strings.ContainsAny(rec.Name, "@|") {
			return "Recorder names must not contain '@' or '|'"
		}
		if len(rec.Functionalities) == 0 {
			return "Each recorder must have at least one functionality"
		}
	}
	return ""
}

// machineIDParam parses and validates the {id} path parameter. On failure it
// writes the error envelope and returns ok=false.
func machineIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Failure[any]("ID must be a numeric value", http.StatusBadRequest).Write(w)
		return 0, false
	}
	if id <= 0 {
		response.Failure[any]("ID must be a positive number", http.StatusBadRequest).Write(w)
		return 0, false
	}
	return id, true
}
