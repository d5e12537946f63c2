// Package auth implements the user registry: account creation and
// credential checks against a JSON-backed store with bcrypt hashes.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 4
)

var (
	// ErrInvalidCredentials wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

type userRecord struct {
	PasswordHash string    `json:"password_hash"`
	Created      time.Time `json:"created"`
}

// Registry stores user accounts in a JSON file. All operations are
// serialized; the registry is safe for concurrent use.
type Registry struct {
	path string
	mu   sync.Mutex
}

// NewRegistry creates a registry persisting to the given file path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Register creates a new account. Usernames must be at least 3 characters
// and passwords at least 4.
func (r *Registry) Register(username, password string) error {
	if len(username) < minUsernameLen {
		return errors.Errorf("username must be at least %d characters", minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return errors.Errorf("password must be at least %d characters", minPasswordLen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}

	if _, ok := users[username]; ok {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	users[username] = userRecord{
		PasswordHash: string(hash),
		Created:      time.Now(),
	}

	return r.save(users)
}

// Authenticate checks the username/password pair.
func (r *Registry) Authenticate(username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}

	user, ok := users[username]
	if !ok {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Exists reports whether the username is registered.
func (r *Registry) Exists(username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return false, err
	}
	_, ok := users[username]
	return ok, nil
}

func (r *Registry) load() (map[string]userRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]userRecord), nil
		}
		return nil, errors.Wrap(err, "read users file")
	}

	users := make(map[string]userRecord)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(err, "decode users file")
	}
	return users, nil
}

func (r *Registry) save(users map[string]userRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode users")
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create users dir")
		}
	}

	return os.WriteFile(r.path, data, 0o600)
}
