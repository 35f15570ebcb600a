package measurestore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
)

// MeasureStoreManager guards the global MeasureStore instance.
type MeasureStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.MeasureStore
}

// GetStore returns the measure MeasureStore.
func (mgr *MeasureStoreManager) GetStore() contract.MeasureStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// Global Manager instance for main logic.
var (
	Manager   = &MeasureStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global measure store manager.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewMeasureStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize measure store: %w", err)
			return
		}
		Manager.store = store
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearMeasures clears the measure data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the measure tables.
// For NoneBackend, it does nothing.
func ClearMeasures(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropMeasureTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropMeasureTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported measure backend for clearing: %s", backend)
	}
}

// dropMeasureTables connects to the SQL database and drops the measure tables
// if they exist.
func dropMeasureTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{importRunsTable, fileMeasuresTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
