package driven

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// TablesStore loads the swappable data tables.
type TablesStore interface {
	// Load reads the tables. Missing sections are filled with the built-in defaults.
	Load() (domain.Tables, error)

	// Watch calls onChange with freshly loaded tables whenever the source
	// changes, until ctx is cancelled. Load failures are logged and skipped.
	Watch(ctx context.Context, onChange func(domain.Tables)) error

	// Path returns the tables file path, or "" when only defaults are used.
	Path() string
}
