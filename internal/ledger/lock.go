package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireLock takes an exclusive advisory lock on the ledger, guarding the
// read-modify-write cycle against a concurrently running job. The lock file
// sits next to the ledger so the override path is covered too.
func acquireLock() (func(), error) {
	dir := filepath.Dir(Path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".ledger.lock"))

	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock ledger: %w", err)
	}
	return func() { _ = lock.Unlock() }, nil
}
