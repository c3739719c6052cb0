package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"chaptermux/internal/services"
)

type videoLock struct {
	path string
	lock *flock.Flock
}

func lockPath(video string) string {
	return filepath.Join(filepath.Dir(video), "."+filepath.Base(video)+".chaptermux.lock")
}

// metadataDocPath names the ffmetadata document after the video so that runs
// on sibling videos, each holding only its own lock, never touch the same file.
func metadataDocPath(video, name string) string {
	return filepath.Join(filepath.Dir(video), "."+filepath.Base(video)+"."+name)
}

// acquireLock takes an exclusive advisory lock for video without blocking.
func acquireLock(video string) (*videoLock, error) {
	path := lockPath(video)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, StageLock, "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrIO, StageLock, "acquire lock",
			fmt.Sprintf("another chaptermux run is processing %s", video), nil)
	}
	return &videoLock{path: path, lock: lock}, nil
}

// release unlocks but leaves the lock file in place. Unlinking it would let a
// waiter lock the orphaned inode while a newcomer locks a fresh file.
func (l *videoLock) release() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}
