package project

import (
	"context"
	"path/filepath"

	"github.com/marmot-dev/marmot/pkg/auth"
	"github.com/marmot-dev/marmot/pkg/httputil"
	"github.com/marmot-dev/marmot/pkg/index"
)

// PyPiIndexURLs returns the normalized index URLs used to build the
// package database for this project.
func (p *Project) PyPiIndexURLs() []string {
	return []string{index.DefaultIndexURL}
}

// PyPiPackageDB returns the project's package metadata database,
// constructing it on first use and sharing the handle with all later
// callers. Concurrent first calls are serialized; exactly one
// initialization wins. A failed initialization is surfaced to the caller
// and not remembered, so a later call gets a fresh attempt.
func (p *Project) PyPiPackageDB() (*index.PackageDB, error) {
	p.dbMu.Lock()
	defer p.dbMu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	cacheDir, err := index.DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	db, err := index.NewPackageDB(context.Background(), httputil.NewHTTPClient(), p.PyPiIndexURLs(), filepath.Join(cacheDir, "pypi"))
	if err != nil {
		return nil, err
	}
	// Stored index credentials are optional; without a store the database
	// talks to the indexes anonymously.
	if store, err := auth.NewStore(""); err == nil {
		db.SetCredentials(store)
	} else {
		p.logger.Debug("no credential store available", "err", err)
	}
	p.db = db
	return p.db, nil
}
