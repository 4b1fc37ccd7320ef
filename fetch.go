package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const listCacheKey = "listing"

// Dataset is one fetched file, parsed. A failed fetch leaves Table empty and
// carries a user-facing warning instead of an error: a broken file degrades to
// "no data for this file" rather than aborting the aggregation.
type Dataset struct {
	Name         string
	Table        Table
	Warning      string
	FromSnapshot bool
}

// DataSource resolves file listings and file contents through a process-level
// cache, with the snapshot store as a fallback when the remote is unreachable.
// Cached entries are returned as-is until the TTL lapses or Invalidate is
// called; remote content changes are invisible until then.
type DataSource struct {
	cfg   Config
	db    *sql.DB
	cache *gocache.Cache
}

func NewDataSource(cfg Config, db *sql.DB) *DataSource {
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &DataSource{
		cfg:   cfg,
		db:    db,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Files returns the .csv names under the configured folder. On a listing
// failure it falls back to snapshot names; the returned warning is non-empty
// whenever the listing did not come fresh from the remote.
func (s *DataSource) Files() ([]string, string) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]string), ""
	}

	names, err := ListResultFiles(s.cfg)
	if err != nil {
		log.Printf("listing failed: %v", err)
		if s.db != nil {
			stored, dbErr := ListSnapshotNames(s.db)
			if dbErr == nil && len(stored) > 0 {
				return stored, fmt.Sprintf("Failed to fetch files from GitHub; showing %d snapshotted files.", len(stored))
			}
		}
		return nil, "Failed to fetch files from GitHub."
	}

	s.cache.Set(listCacheKey, names, gocache.DefaultExpiration)
	return names, ""
}

// Dataset fetches and parses one file. Results are cached by name: repeated
// calls within the TTL return the identical parsed table without a network
// call, whatever the first outcome was.
func (s *DataSource) Dataset(name string) Dataset {
	if cached, ok := s.cache.Get(fileCacheKey(name)); ok {
		return cached.(Dataset)
	}

	ds := s.fetchDataset(name)
	s.cache.Set(fileCacheKey(name), ds, gocache.DefaultExpiration)
	return ds
}

func (s *DataSource) fetchDataset(name string) Dataset {
	ds := Dataset{Name: name}

	content, err := FetchFileContent(s.cfg, name)
	if err != nil {
		log.Printf("fetch failed file=%s err=%v", name, err)
		if s.db != nil {
			stored, fetchedAt, dbErr := LoadSnapshot(s.db, name)
			if dbErr == nil {
				table, parseErr := ParseCSVTable(stored)
				if parseErr == nil {
					ds.Table = table
					ds.FromSnapshot = true
					ds.Warning = fmt.Sprintf("Failed to fetch %s; showing snapshot from %s.", name, fetchedAt.Format("2006-01-02 15:04"))
					return ds
				}
			}
		}
		ds.Warning = fmt.Sprintf("Failed to fetch the file: %s", name)
		return ds
	}

	table, err := ParseCSVTable(content)
	if err != nil {
		log.Printf("parse failed file=%s err=%v", name, err)
		ds.Warning = fmt.Sprintf("Failed to parse the file: %s", name)
		return ds
	}
	ds.Table = table

	if s.db != nil {
		if err := SaveSnapshot(s.db, name, content); err != nil {
			log.Printf("snapshot save failed file=%s err=%v", name, err)
		}
	}
	return ds
}

// Invalidate drops every cached listing and dataset.
func (s *DataSource) Invalidate() {
	s.cache.Flush()
}

func fileCacheKey(name string) string {
	return "file:" + name
}
