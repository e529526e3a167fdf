package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/archivo/internal/conversation"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Ensure TablesStore implements the interface.
var _ driven.TablesStore = (*TablesStore)(nil)

// DefaultReloadDelay coalesces the burst of events editors produce on save.
const DefaultReloadDelay = 250 * time.Millisecond

// TablesStore reads the data tables from a TOML file. Sections missing
// from the file use the built-in tables.
type TablesStore struct {
	path  string
	delay time.Duration
}

// NewTablesStore creates a tables store. An empty path serves the built-in
// tables and never reports changes.
func NewTablesStore(path string) *TablesStore {
	return &TablesStore{path: path, delay: DefaultReloadDelay}
}

// SetReloadDelay overrides how long Watch waits for events to settle.
func (s *TablesStore) SetReloadDelay(d time.Duration) {
	s.delay = d
}

// Path returns the tables file path.
func (s *TablesStore) Path() string {
	return s.path
}

// Load reads and validates the tables. Unknown keys and patterns that do
// not compile are rejected with domain.ErrInvalidTables.
func (s *TablesStore) Load() (domain.Tables, error) {
	var tables domain.Tables
	if s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return domain.Tables{}, fmt.Errorf("read tables: %w", err)
		}
		tables, err = DecodeTables(data)
		if err != nil {
			return domain.Tables{}, fmt.Errorf("%s: %w", s.path, err)
		}
	}

	tables = textproc.WithDefaults(tables)
	tables.Intent = conversation.WithDefaultIntent(tables.Intent)
	if err := validateIntent(tables.Intent); err != nil {
		return domain.Tables{}, err
	}
	return tables, nil
}

// DecodeTables parses a TOML tables document.
func DecodeTables(data []byte) (domain.Tables, error) {
	var tables domain.Tables
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tables); err != nil {
		return domain.Tables{}, fmt.Errorf("%w: %w", domain.ErrInvalidTables, err)
	}
	return tables, nil
}

func validateIntent(t domain.IntentTables) error {
	if _, err := conversation.NewClassifier(t); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidTables, err)
	}
	if _, err := conversation.NewDetector(t, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidTables, err)
	}
	return nil
}

// Watch reloads the tables whenever the file is written, created or
// renamed into place, and passes every successful load to onChange.
// The parent directory is watched so editors that replace the file on
// save are followed. Watch returns once the watcher is running.
func (s *TablesStore) Watch(ctx context.Context, onChange func(domain.Tables)) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, watcher, onChange)
	logger.Debug("Watching tables file %s", s.path)
	return nil
}

func (s *TablesStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(domain.Tables)) {
	defer watcher.Close()

	target := filepath.Clean(s.path)
	timer := time.NewTimer(s.delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || !isContentChange(event.Op) {
				continue
			}
			timer.Reset(s.delay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("tables watcher: %v", err)

		case <-timer.C:
			tables, err := s.Load()
			if err != nil {
				logger.Warn("Keeping previous tables: %v", err)
				continue
			}
			logger.Info("Tables file %s changed, reloading", s.path)
			onChange(tables)
		}
	}
}

func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
