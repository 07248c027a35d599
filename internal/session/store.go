// Package session persists per-output workspace assignments across
// restarts: which workspace ordinal a given output was last showing. It
// persists only this shape, never live surface or frame-geometry state,
// which remains process-local for the lifetime of the Coordinator.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/darkelement/perceptia/internal/perceptron"
)

// Store is a gorm-backed CRUD store over OutputAssignment.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) a sqlite database at path, configured
// with WAL journaling and a busy timeout for concurrent access, and runs
// AutoMigrate for every model in AllModels.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to run session database migration: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetAssignment records that output last showed the workspace at
// workspaceIndex, overwriting any prior assignment for that output.
func (s *Store) SetAssignment(output perceptron.OutputId, workspaceIndex int) error {
	assignment := OutputAssignment{
		OutputID:       uint32(output),
		WorkspaceIndex: workspaceIndex,
	}
	return s.db.Save(&assignment).Error
}

// Assignment returns the last-recorded workspace ordinal for output, and
// whether an assignment exists at all (a freshly seen output has none).
func (s *Store) Assignment(output perceptron.OutputId) (workspaceIndex int, ok bool, err error) {
	var assignment OutputAssignment
	result := s.db.First(&assignment, "output_id = ?", uint32(output))
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up assignment for output %d: %w", output, result.Error)
	}
	return assignment.WorkspaceIndex, true, nil
}

// All returns every recorded assignment, for rebuilding the Display/
// Workspace skeleton at startup.
func (s *Store) All() ([]OutputAssignment, error) {
	var assignments []OutputAssignment
	if err := s.db.Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Forget removes any recorded assignment for output.
func (s *Store) Forget(output perceptron.OutputId) error {
	return s.db.Delete(&OutputAssignment{}, "output_id = ?", uint32(output)).Error
}
