package sessions

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jamcha/go-admin-client/users"
)

// fileState is the on-disk shape of the four session slots.
type fileState struct {
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
	Role         string          `json:"role,omitempty"`
}

// FileRepo persists the session to a single state file. Writes go through a
// temp file and rename so readers of the file never see a half-written
// session. With an encryption key configured the file is sealed with
// secretbox (random nonce prefixed to the ciphertext); bearer and refresh
// tokens are credentials and should not sit on disk in the clear.
type FileRepo struct {
	mu    sync.RWMutex
	path  string
	key   *[32]byte
	state fileState
}

var _ Repo = (*FileRepo)(nil)

// FileRepoOption configures a FileRepo.
type FileRepoOption func(*FileRepo)

// WithEncryptionKey seals the state file with the given secretbox key.
func WithEncryptionKey(key [32]byte) FileRepoOption {
	return func(r *FileRepo) {
		k := key
		r.key = &k
	}
}

// NewFileRepo opens (or initializes) the session state file at path. A
// missing, corrupt, or undecryptable file starts an empty session; corruption
// is equivalent to being logged out.
func NewFileRepo(path string, options ...FileRepoOption) (*FileRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("[NewFileRepo] path is required")
	}

	r := &FileRepo{path: path}
	for _, opt := range options {
		opt(r)
	}
	r.state = r.load()
	return r, nil
}

func (r *FileRepo) AccessToken() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.AccessToken, r.state.AccessToken != ""
}

func (r *FileRepo) RefreshToken() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.RefreshToken, r.state.RefreshToken != ""
}

func (r *FileRepo) User() (*users.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return decodeProfile(r.state.User)
}

func (r *FileRepo) Role() (users.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return users.Role(r.state.Role), r.state.Role != ""
}

func (r *FileRepo) SetSession(s Session) error {
	userData, err := json.Marshal(s.User)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = fileState{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         userData,
		Role:         string(s.Role),
	}
	return r.save()
}

func (r *FileRepo) SetTokens(accessToken, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.AccessToken = accessToken
	if refreshToken != "" {
		r.state.RefreshToken = refreshToken
	}
	return r.save()
}

func (r *FileRepo) SetUser(u *users.Profile) error {
	userData, err := json.Marshal(u)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.User = userData
	return r.save()
}

func (r *FileRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = fileState{}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// load reads and decodes the state file. Any failure yields an empty session.
func (r *FileRepo) load() fileState {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fileState{}
	}
	if r.key != nil {
		data, err = r.open(data)
		if err != nil {
			return fileState{}
		}
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fileState{}
	}
	return state
}

// save writes the state atomically. Callers hold the write lock.
func (r *FileRepo) save() error {
	data, err := json.Marshal(r.state)
	if err != nil {
		return err
	}
	if r.key != nil {
		data, err = r.seal(data)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, r.path)
}

func (r *FileRepo) seal(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, r.key), nil
}

func (r *FileRepo) open(sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, fmt.Errorf("sealed session too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, r.key)
	if !ok {
		return nil, fmt.Errorf("session file failed to decrypt")
	}
	return plaintext, nil
}
