//go:build sqlite

package preset

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
