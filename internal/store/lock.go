package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// pathLocks serializes writers to the same path within the process.
var pathLocks sync.Map // map[string]*sync.Mutex

func pathMutex(path string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// lock takes the in-process mutex for the store's path and, when enabled, an
// exclusive advisory flock on "<file>.lock". The returned func releases both.
func (s *Store) lock(ctx context.Context) (func(), error) {
	mu := pathMutex(s.path)
	mu.Lock()

	if err := ctx.Err(); err != nil {
		mu.Unlock()
		return nil, err
	}
	if !s.fileLock {
		return mu.Unlock, nil
	}

	lf, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	for {
		err = unix.Flock(int(lf.Fd()), unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		lf.Close()
		mu.Unlock()
		return nil, err
	}

	return func() {
		_ = unix.Flock(int(lf.Fd()), unix.LOCK_UN)
		lf.Close()
		mu.Unlock()
	}, nil
}
