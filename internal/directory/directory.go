// Package directory is the simulated user database: the multi-user list
// persisted under one collection key, with registration, credential checks
// and update-by-id.
package directory

import (
	"errors"

	"github.com/google/uuid"

	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/internal/session"
	"github.com/nexushq/nexus-core/pkg/schema"
)

var (
	// ErrDuplicateEmail is returned when registering an email already present.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when no user matches an email+password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Directory is the sole writer of the user list. Session updates flow
// through the injected Manager so write ownership stays explicit.
type Directory struct {
	store    kvstore.Store
	sessions *session.Manager
}

func New(s kvstore.Store, sessions *session.Manager) *Directory {
	return &Directory{store: s, sessions: sessions}
}

// All returns every registered user in insertion order.
func (d *Directory) All() ([]schema.User, error) {
	var users []schema.User
	if _, err := d.store.Get(kvstore.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Register appends u to the directory, failing with ErrDuplicateEmail when
// the email is already taken (exact, case-sensitive match). Registration
// implies login: the new user becomes the current session.
func (d *Directory) Register(u schema.User) (schema.User, error) {
	users, err := d.All()
	if err != nil {
		return schema.User{}, err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return schema.User{}, ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Plan == "" {
		u.Plan = schema.PlanFree
	}
	users = append(users, u)
	if err := d.store.Put(kvstore.KeyUsers, users); err != nil {
		return schema.User{}, err
	}
	if err := d.sessions.Set(u); err != nil {
		return schema.User{}, err
	}
	return u, nil
}

// Login scans the directory for an exact email+password match and, on
// success, makes that user the current session. A failed login leaves any
// prior session untouched.
func (d *Directory) Login(email, password string) (schema.User, error) {
	users, err := d.All()
	if err != nil {
		return schema.User{}, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := d.sessions.Set(u); err != nil {
				return schema.User{}, err
			}
			return u, nil
		}
	}
	return schema.User{}, ErrInvalidCredentials
}

// UpdateByID replaces the directory entry whose id matches u. The session
// copy is refreshed only when the updated id is the session user's id:
// updating an unrelated directory entry must never swap out the session.
func (d *Directory) UpdateByID(u schema.User) error {
	users, err := d.All()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
		}
	}
	if err := d.store.Put(kvstore.KeyUsers, users); err != nil {
		return err
	}
	current, ok, err := d.sessions.Current()
	if err != nil {
		return err
	}
	if ok && current.ID == u.ID {
		return d.sessions.Set(u)
	}
	return nil
}
