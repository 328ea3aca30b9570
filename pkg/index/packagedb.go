// Package index implements the PyPI package metadata database: a cached
// view of per-package registry metadata, constructed once per project and
// shared by everything that needs PyPI information.
//
// Constructing a PackageDB only sets up the cache directory and HTTP
// client; no network traffic happens until a metadata lookup.
package index

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/marmot-dev/marmot/pkg/auth"
	"github.com/marmot-dev/marmot/pkg/cache"
	"github.com/marmot-dev/marmot/pkg/httputil"
	"github.com/marmot-dev/marmot/pkg/manifest"
)

// DefaultIndexURL is the index used when a project declares none.
const DefaultIndexURL = "https://pypi.org/simple/"

const (
	jsonAPIBase = "https://pypi.org/pypi"
	metadataTTL = 24 * time.Hour
)

// ErrPackageNotFound is returned when the registry has no such package.
var ErrPackageNotFound = errors.New("package not found")

// DefaultCacheDir returns the root directory for marmot's caches,
// derived from the platform cache directory.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not determine default cache directory: %w", err)
	}
	return filepath.Join(base, "marmot"), nil
}

// NormalizeIndexURL validates an index URL and ensures it ends with a
// trailing slash, so relative lookups join cleanly.
func NormalizeIndexURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid index URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid index URL %q: scheme must be http or https", raw)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	return u.String(), nil
}

// Metadata is the registry's description of one package release.
type Metadata struct {
	Name         string   // normalized package name
	Version      string   // latest version on the index
	Summary      string   // short description
	Requirements []string // normalized runtime dependency names
}

// PackageDB looks up and caches PyPI package metadata.
// Safe for concurrent use.
type PackageDB struct {
	client    *httputil.Client
	indexURLs []string
	cacheDir  string
	apiBase   string
}

// NewPackageDB builds a package database over the given index URLs. The
// metadata cache backend comes from the environment, defaulting to files
// under cacheDir. URL validation and backend setup are the only failure
// modes; no registry traffic happens here.
func NewPackageDB(ctx context.Context, hc *http.Client, indexURLs []string, cacheDir string) (*PackageDB, error) {
	if len(indexURLs) == 0 {
		return nil, fmt.Errorf("package database needs at least one index URL")
	}
	normalized := make([]string, len(indexURLs))
	for i, raw := range indexURLs {
		u, err := NormalizeIndexURL(raw)
		if err != nil {
			return nil, err
		}
		normalized[i] = u
	}

	backend, err := cache.FromEnv(ctx, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("create package cache: %w", err)
	}

	return &PackageDB{
		client:    httputil.NewClient(hc, cache.NewScoped(backend, "pypi:"), metadataTTL),
		indexURLs: normalized,
		cacheDir:  cacheDir,
		apiBase:   jsonAPIBase,
	}, nil
}

// SetCredentials attaches a credential store; requests to hosts with stored
// credentials carry the matching authorization header. Call before the
// database is shared across goroutines.
func (db *PackageDB) SetCredentials(store *auth.Store) {
	if store == nil {
		return
	}
	db.client.SetAuth(func(req *http.Request) {
		cred, err := store.Get(req.URL.Host)
		if err != nil {
			return
		}
		cred.Apply(req)
	})
}

// IndexURLs returns the normalized index URLs the database resolves from.
func (db *PackageDB) IndexURLs() []string { return db.indexURLs }

// CacheDir returns the directory metadata responses are cached in.
func (db *PackageDB) CacheDir() string { return db.cacheDir }

// Metadata fetches metadata for a package, serving repeat lookups from the
// cache. With refresh true the cache is bypassed.
func (db *PackageDB) Metadata(ctx context.Context, name string, refresh bool) (*Metadata, error) {
	name = manifest.NormalizePyPiName(name)

	var resp apiResponse
	url := fmt.Sprintf("%s/%s/json", db.apiBase, name)
	if err := db.client.CachedJSON(ctx, name, url, refresh, &resp); err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
		}
		return nil, fmt.Errorf("fetch metadata for %s: %w", name, err)
	}

	return &Metadata{
		Name:         manifest.NormalizePyPiName(resp.Info.Name),
		Version:      resp.Info.Version,
		Summary:      resp.Info.Summary,
		Requirements: runtimeRequirements(resp.Info.RequiresDist),
	}, nil
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Summary      string   `json:"summary"`
	RequiresDist []string `json:"requires_dist"`
}

var (
	depNameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+`)
	markerRE  = regexp.MustCompile(`;\s*(.+)$`)
	skipRE    = regexp.MustCompile(`extra|dev|test`)
)

// runtimeRequirements extracts normalized dependency names from
// requires_dist entries, skipping extras and dev/test markers.
func runtimeRequirements(requires []string) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, req := range requires {
		if m := markerRE.FindStringSubmatch(req); len(m) > 1 && skipRE.MatchString(m[1]) {
			continue
		}
		m := depNameRE.FindString(req)
		if m == "" {
			continue
		}
		dep := manifest.NormalizePyPiName(m)
		if !seen[dep] {
			seen[dep] = true
			deps = append(deps, dep)
		}
	}
	return deps
}
