// Package auth stores credentials for authenticated package indexes.
//
// Credentials are keyed by index host and persisted as a single JSON file in
// the user's config directory with owner-only permissions. The store is safe
// for concurrent use within one process; cross-process writers last-write-win
// at file granularity.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotFound is returned when no credential is stored for a host.
var ErrNotFound = errors.New("no credential stored")

// Credential authenticates requests against one index host. Either Token or
// the Username/Password pair is set, not both.
type Credential struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Apply decorates a request with the credential's authorization header.
func (c Credential) Apply(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return
	}
	if c.Username != "" {
		basic := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		req.Header.Set("Authorization", "Basic "+basic)
	}
}

// Store is a file-backed credential store keyed by index host.
type Store struct {
	mu   sync.RWMutex
	path string
}

// DefaultStorePath returns the credential file location in the user config
// directory, e.g. ~/.config/marmot/credentials.json.
func DefaultStorePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(base, "marmot", "credentials.json"), nil
}

// NewStore opens a credential store at path. An empty path selects the
// default location. The file is created lazily on the first write.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultStorePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string { return s.path }

// Get returns the credential stored for host.
func (s *Store) Get(host string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, err := s.load()
	if err != nil {
		return Credential{}, err
	}
	c, ok := creds[host]
	if !ok {
		return Credential{}, fmt.Errorf("%w for %s", ErrNotFound, host)
	}
	return c, nil
}

// Set stores the credential for host, replacing any existing one.
func (s *Store) Set(host string, c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return err
	}
	creds[host] = c
	return s.save(creds)
}

// Delete removes the credential for host. Deleting an absent host is not an
// error.
func (s *Store) Delete(host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := creds[host]; !ok {
		return nil
	}
	delete(creds, host)
	return s.save(creds)
}

// Hosts returns the sorted hosts with stored credentials.
func (s *Store) Hosts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, err := s.load()
	if err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(creds))
	for h := range creds {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts, nil
}

func (s *Store) load() (map[string]Credential, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Credential{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var creds map[string]Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials at %s: %w", s.path, err)
	}
	if creds == nil {
		creds = map[string]Credential{}
	}
	return creds, nil
}

func (s *Store) save(creds map[string]Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	// Credentials are secrets; keep the file owner-only.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
