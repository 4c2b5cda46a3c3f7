package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/errs"
	"github.com/kmalygin/machine-vault/internal/machine"
	"github.com/kmalygin/machine-vault/internal/model"
	"github.com/kmalygin/machine-vault/internal/repository"
	"github.com/kmalygin/machine-vault/internal/response"
)

// MachineService defines owner-scoped CRUD over theoretical machines. email
// is always the identity resolved from the verified session token.
type MachineService interface {
	// Save stores a new machine and returns its record id.
	Save(ctx context.Context, email string, m model.TheoreticalMachine) response.Envelope[*model.SavedMachine]
	// GetAll returns every machine of the user in structured form.
	GetAll(ctx context.Context, email string) response.Envelope[[]model.TheoreticalMachine]
	// Delete removes the machine with the given id.
	Delete(ctx context.Context, email string, id int64) response.Envelope[any]
	// Update replaces the machine with the given id.
	Update(ctx context.Context, email string, id int64, m model.TheoreticalMachine) response.Envelope[any]
}

type MachineServiceImpl struct {
	users    repository.UserRepository
	machines repository.MachineRepository
	logger   *zap.Logger
}

// NewMachineService constructs MachineService with required dependencies.
func NewMachineService(users repository.UserRepository, machines repository.MachineRepository, logger *zap.Logger) *MachineServiceImpl {
	return &MachineServiceImpl{users: users, machines: machines, logger: logger}
}

// resolveOwner maps the authenticated email to the owning user id. Every
// operation starts here; an unknown user fails before anything else runs.
func (s *MachineServiceImpl) resolveOwner(ctx context.Context, email string) (uuid.UUID, error) {
	return s.users.GetIDByEmail(ctx, email)
}

// Save encodes the recorders to compact form and persists the machine.
func (s *MachineServiceImpl) Save(ctx context.Context, email string, m model.TheoreticalMachine) response.Envelope[*model.SavedMachine] {
	userID, err := s.resolveOwner(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[*model.SavedMachine](MsgUserNotFound, http.StatusNotFound)
		}
		return s.internalSave("Error saving machine: "+err.Error(), err)
	}
	id, err := s.machines.Create(ctx, userID, m.Name, machine.Minify(m.Machine))
	if err != nil || id == 0 {
		if err == nil {
			err = errors.New(MsgMachineSaveFailed)
		}
		return s.internalSave("Error saving machine: "+err.Error(), err)
	}
	return response.Success(MsgMachineSaveSuccessful, &model.SavedMachine{ID: id}, http.StatusOK)
}

func (s *MachineServiceImpl) internalSave(msg string, err error) response.Envelope[*model.SavedMachine] {
	s.logger.Error(msg, zap.Error(err))
	return response.Failure[*model.SavedMachine](msg, http.StatusInternalServerError)
}

// GetAll fetches the user's machines and reconstructs each compact string.
// A decode failure on any record fails the whole call; a partial list is
// never returned.
func (s *MachineServiceImpl) GetAll(ctx context.Context, email string) response.Envelope[[]model.TheoreticalMachine] {
	userID, err := s.resolveOwner(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[[]model.TheoreticalMachine](MsgUserNotFound, http.StatusNotFound)
		}
		return s.internalGetAll("Error getting all machines: "+err.Error(), err)
	}
	stored, err := s.machines.GetAllByUser(ctx, userID)
	if err != nil {
		return s.internalGetAll("Error getting all machines: "+err.Error(), err)
	}
	machines := make([]model.TheoreticalMachine, 0, len(stored))
	for _, sm := range stored {
		layout, err := machine.Maximize(sm.Machine)
		if err != nil {
			return s.internalGetAll("Error getting all machines: "+err.Error(), err)
		}
		machines = append(machines, model.TheoreticalMachine{ID: sm.ID, Name: sm.Name, Machine: layout})
	}
	return response.Success(MsgMachineGetAllSuccessful, machines, http.StatusOK)
}

func (s *MachineServiceImpl) internalGetAll(msg string, err error) response.Envelope[[]model.TheoreticalMachine] {
	s.logger.Error(msg, zap.Error(err))
	return response.Failure[[]model.TheoreticalMachine](msg, http.StatusInternalServerError)
}

func (s *MachineServiceImpl) internal(msg string, err error) response.Envelope[any] {
	s.logger.Error(msg, zap.Error(err))
	return response.Failure[any](msg, http.StatusInternalServerError)
}

// Delete checks the record exists for this owner, then removes it. The
// check-then-delete pair is not atomic against a concurrent delete by the
// same user; the loser of that race reports an internal error.
func (s *MachineServiceImpl) Delete(ctx context.Context, email string, id int64) response.Envelope[any] {
	userID, err := s.resolveOwner(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[any](MsgUserNotFound, http.StatusNotFound)
		}
		return s.internal("Error deleting machine: "+err.Error(), err)
	}
	exists, err := s.machines.Exists(ctx, userID, id)
	if err != nil {
		return s.internal("Error deleting machine: "+err.Error(), err)
	}
	if !exists {
		return response.Failure[any](MsgMachineNotFound, http.StatusNotFound)
	}
	if err := s.machines.Delete(ctx, userID, id); err != nil {
		return s.internal("Error deleting machine: "+err.Error(), err)
	}
	return response.Success[any](MsgMachineDeleteSuccessful, nil, http.StatusOK)
}

// Update mirrors Delete's existence check, then persists the re-encoded
// machine under the same id.
func (s *MachineServiceImpl) Update(ctx context.Context, email string, id int64, m model.TheoreticalMachine) response.Envelope[any] {
	userID, err := s.resolveOwner(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[any](MsgUserNotFound, http.StatusNotFound)
		}
		return s.internal("Error updating machine: "+err.Error(), err)
	}
	exists, err := s.machines.Exists(ctx, userID, id)
	if err != nil {
		return s.internal("Error updating machine: "+err.Error(), err)
	}
	if !exists {
		return response.Failure[any](MsgMachineNotFound, http.StatusNotFound)
	}
	if err := s.machines.Update(ctx, userID, id, m.Name, machine.Minify(m.Machine)); err != nil {
		return s.internal("Error updating machine: "+err.Error(), err)
	}
	return response.Success[any](MsgMachineUpdateSuccessful, nil, http.StatusOK)
}
