// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account stored on the server. The password is kept only
// as a salted one-way representation, never in plaintext.
type User struct {
	ID           uuid.UUID // PK
	Name         string
	Email        string // unique
	PasswordHash string // Argon2id, "base64(salt)$base64(key)"
	CreatedAt    time.Time
}

// Auth carries login credentials for the duration of a login call.
type Auth struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the transient payload of a register call.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// CredentialUpdate is the transient payload of an update call. Password is
// the current password and must re-prove the caller before NewPassword is
// even looked at.
type CredentialUpdate struct {
	Name                    string `json:"name"`
	Password                string `json:"password"`
	NewPassword             string `json:"newPassword"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation"`
}

// Recorder is a named, order-preserving set of integer functionality ids
// within a theoretical machine.
type Recorder struct {
	Name            string `json:"name"`
	Functionalities []int  `json:"functionalities"`
}

// MachineLayout is the structured form of a machine's recorders.
type MachineLayout struct {
	Recorders []Recorder `json:"recorders"`
}

// TheoreticalMachine is the structured entity exchanged with clients.
type TheoreticalMachine struct {
	ID      int64         `json:"id,omitempty"`
	Name    string        `json:"name"`
	Machine MachineLayout `json:"machine"`
}

// StoredMachine is the persisted row: the layout serialized to the compact
// string format. Derived via the machine codec, never hand-edited.
type StoredMachine struct {
	ID      int64
	Name    string
	Machine string // compact form, e.g. "A@1,2|B@3"
}

// TokenPayload is the success payload of a login call.
type TokenPayload struct {
	Token string `json:"token"`
}

// SavedMachine is the success payload of a save call.
type SavedMachine struct {
	ID int64 `json:"id"`
}
