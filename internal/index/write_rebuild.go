package index

import (
	"archivist/internal/domain/issue"
	"encoding/json"
	"errors"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"strings"
	"time"
)

// Rebuild replaces the whole index with records. Like the JSON snapshot it is
// never merged incrementally.
func (s *Store) Rebuild(records []issue.Record, builtAt time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bIssues, bIdxDate, bIdxYear, bMeta} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}

		issuesB, err := tx.CreateBucket(bIssues)
		if err != nil {
			return err
		}
		dateB, err := tx.CreateBucket(bIdxDate)
		if err != nil {
			return err
		}
		yearB, err := tx.CreateBucket(bIdxYear)
		if err != nil {
			return err
		}
		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}

		for _, r := range records {
			if strings.TrimSpace(r.Slug) == "" {
				continue
			}
			rb, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := issuesB.Put([]byte(r.Slug), rb); err != nil {
				return err
			}

			published, dated := r.Published()
			key := makeDateSlugKey(published, dated, r.Slug)
			if err := dateB.Put(key, []byte(r.Slug)); err != nil {
				return err
			}

			sb, err := yearB.CreateBucketIfNotExists([]byte(r.GroupKey()))
			if err != nil {
				return fmt.Errorf("year bucket %s: %w", r.GroupKey(), err)
			}
			if err := sb.Put(key, []byte(r.Slug)); err != nil {
				return err
			}
		}

		ts, err := builtAt.UTC().MarshalText()
		if err != nil {
			return err
		}
		return metaB.Put(kBuiltAt, ts)
	})
}
