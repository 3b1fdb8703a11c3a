package preset

import "fmt"

// NewStore builds the backend named by kind. The empty kind defaults to the
// in-memory store.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported preset store: %s", kind)
	}
}

// CloseStore closes backends that hold external resources.
func CloseStore(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
