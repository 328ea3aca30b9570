package auth

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("pypi.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	want := Credential{Token: "secret-token"}
	if err := s.Set("pypi.example.com", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("pypi.example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	// Replace overwrites.
	if err := s.Set("pypi.example.com", Credential{Username: "u", Password: "p"}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get("pypi.example.com")
	if got.Token != "" || got.Username != "u" {
		t.Errorf("after replace = %+v", got)
	}
}

func TestStoreDeleteAndHosts(t *testing.T) {
	s := newTestStore(t)

	s.Set("b.example.com", Credential{Token: "b"})
	s.Set("a.example.com", Credential{Token: "a"})

	hosts, err := s.Hosts()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(hosts, []string{"a.example.com", "b.example.com"}) {
		t.Errorf("Hosts = %v", hosts)
	}

	if err := s.Delete("a.example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("never-stored.example.com"); err != nil {
		t.Errorf("Delete of absent host = %v, want nil", err)
	}
	if _, err := s.Get("a.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	s := newTestStore(t)
	if err := s.Set("pypi.example.com", Credential{Token: "x"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("credential file mode = %o, want 600", info.Mode().Perm())
	}
}

func TestCredentialApply(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://pypi.example.com/pkg/json", nil)
	Credential{Token: "tok"}.Apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("token auth = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "https://pypi.example.com/pkg/json", nil)
	Credential{Username: "user", Password: "pass"}.Apply(req)
	// base64("user:pass")
	if got := req.Header.Get("Authorization"); got != "Basic dXNlcjpwYXNz" {
		t.Errorf("basic auth = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "https://pypi.example.com/pkg/json", nil)
	Credential{}.Apply(req)
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("empty credential set Authorization = %q", got)
	}
}
