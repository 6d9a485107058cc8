package auth

import (
	"errors"
	"strings"

	"github.com/subo-hems/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// User is a static account. Usernames are stored lower-case.
type User struct {
	Username     string
	Role         string
	PasswordHash []byte
}

// Directory is a fixed username → user table.
type Directory struct {
	users map[string]User
	dummy []byte
}

// NewDirectory hashes the given plain-text passwords with bcrypt.
// Keys are usernames; each username also serves as the role.
func NewDirectory(passwords map[string]string) (*Directory, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("unused"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	d := &Directory{users: make(map[string]User, len(passwords)), dummy: dummy}
	for name, pw := range passwords {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		name = strings.ToLower(name)
		d.users[name] = User{Username: name, Role: name, PasswordHash: hash}
	}
	return d, nil
}

// DefaultDirectory holds the three house accounts, all with password "1234".
func DefaultDirectory() (*Directory, error) {
	return NewDirectory(map[string]string{
		enum.RoleKitchen:    "1234",
		enum.RoleDining:     "1234",
		enum.RoleManagement: "1234",
	})
}

// Authenticate checks credentials. Usernames are case-insensitive.
func (d *Directory) Authenticate(username, password string) (User, error) {
	u, ok := d.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		// Burn comparable time on unknown users.
		_ = bcrypt.CompareHashAndPassword(d.dummy, []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup returns the user by name.
func (d *Directory) Lookup(username string) (User, bool) {
	u, ok := d.users[strings.ToLower(username)]
	return u, ok
}

// Surfaces lists the views a role may open, landing view first.
func Surfaces(role string) []string {
	switch role {
	case enum.RoleDining:
		return []string{enum.SurfaceOrders}
	case enum.RoleKitchen:
		return []string{enum.SurfaceKitchen}
	case enum.RoleManagement:
		return []string{enum.SurfaceDashboard, enum.SurfaceOrders, enum.SurfaceKitchen}
	}
	return []string{}
}

// CanOpen reports whether role may open surface.
func CanOpen(role, surface string) bool {
	for _, s := range Surfaces(role) {
		if s == surface {
			return true
		}
	}
	return false
}
