package dms

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// renameFile is swappable so tests can inject a failure between the temp
// write and the rename and assert the destination keeps its prior bytes.
var renameFile = os.Rename

// writeFileAtomic replaces path with data using temp-write-then-rename. The
// temp file lives in the target directory so the rename stays on one
// filesystem and is atomic. An advisory flock on path+".lock" is held for the
// whole sequence so concurrent writers cannot tear or reorder a replacement
// of the same file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return err
	}
	defer lock.release()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	// CreateTemp opens 0600; the mail stack reads these as a different user.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	if err := renameFile(tmpName, path); err != nil {
		return fmt.Errorf("rename %s over %s: %w", tmpName, path, err)
	}
	return nil
}

type fileLock struct {
	f *os.File
}

func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) release() {
	unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	l.f.Close()
}

// checkOutputDir fails fast when the output directory is absent or not
// writable, before any file I/O begins. The directory is never created here;
// a missing directory usually means a missing bind mount, and silently
// creating a wrong-location tree would hide that.
func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &ConfigurationError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Dir: dir, Err: fmt.Errorf("not a directory")}
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return &ConfigurationError{Dir: dir, Err: fmt.Errorf("not writable: %w", err)}
	}
	return nil
}

// readFileOrEmpty treats a missing file as empty content, matching a fresh
// deployment where nothing has been exported yet.
func readFileOrEmpty(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}
