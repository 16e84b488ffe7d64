// Package report persists completed probe runs to a local SQLite
// archive, strictly after the evidence engine has derived its verdict.
// The archive is read-only from the engine's perspective — no detector
// and no orchestration step ever consults a past run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is a single completed probe invocation, as stored in the
// archive.
type Run struct {
	ID              string `gorm:"primaryKey"`
	StartedAt       int64  `gorm:"autoCreateTime"`
	Hostname        string
	Verdict         string
	Score           uint64
	EnvironmentJSON string `gorm:"type:text"`
	EvidenceJSON    string `gorm:"type:text"`
	Fingerprint     string
}

// BeforeCreate generates the run's ID if the caller left it empty.
func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

var (
	dbInstance *gorm.DB
	dbOnce     sync.Once
	dbErr      error
)

// getDB returns the archive's database handle, opening and migrating
// it on first use. path overrides the default location when non-empty.
func getDB(path string) (*gorm.DB, error) {
	dbOnce.Do(func() {
		if path == "" {
			path = defaultPath()
		}

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			dbErr = fmt.Errorf("failed to create report directory: %w", err)
			return
		}

		dbInstance, dbErr = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if dbErr != nil {
			dbErr = fmt.Errorf("failed to open report store: %w", dbErr)
			return
		}

		if err := dbInstance.AutoMigrate(&Run{}); err != nil {
			dbErr = fmt.Errorf("failed to migrate report store: %w", err)
		}
	})
	return dbInstance, dbErr
}

func defaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".antidebug", "runs.db")
}

// Store persists a completed Run. Failure to open or write the store
// is returned to the caller, who is expected to log it and continue —
// a probe that cannot write its history still reports its verdict.
func Store(path string, run *Run) error {
	db, err := getDB(path)
	if err != nil {
		return err
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().Unix()
	}
	return db.Create(run).Error
}

// Recent returns the last n runs ordered by StartedAt descending.
func Recent(path string, n int) ([]Run, error) {
	db, err := getDB(path)
	if err != nil {
		return nil, err
	}
	var runs []Run
	err = db.Order("started_at DESC").Limit(n).Find(&runs).Error
	return runs, err
}
