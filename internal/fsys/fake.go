package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	_ FS = (*Fake)(nil)
	_ FS = OSFS{}

	_ os.FileInfo = fakeInfo{}
)

// Fake is an in-memory [FS]. Populate Dirs, Files, and Errors before use;
// inspect Files, Modes, and Calls afterwards. An entry in Errors fails
// every operation on that path. Safe for concurrent use.
type Fake struct {
	mu     sync.Mutex
	Dirs   map[string]bool
	Files  map[string][]byte
	Modes  map[string]os.FileMode // permission passed to the last WriteFile
	Errors map[string]error
	Calls  []Call
}

// Call is one logged operation on a [Fake].
type Call struct {
	Method string // MkdirAll, ReadFile, WriteFile, Rename, or Stat
	Path   string // for Rename, the destination
}

// NewFake returns an empty [Fake].
func NewFake() *Fake {
	return &Fake{
		Dirs:   make(map[string]bool),
		Files:  make(map[string][]byte),
		Modes:  make(map[string]os.FileMode),
		Errors: make(map[string]error),
	}
}

// begin logs the call and returns the injected error for path, if any.
// The caller must hold f.mu.
func (f *Fake) begin(method, path string) error {
	f.Calls = append(f.Calls, Call{Method: method, Path: path})
	return f.Errors[path]
}

// MkdirAll adds path and its parents to Dirs.
func (f *Fake) MkdirAll(path string, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("MkdirAll", path); err != nil {
		return err
	}
	for p := filepath.Clean(path); p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		f.Dirs[p] = true
	}
	return nil
}

// ReadFile returns a copy of Files[name].
func (f *Fake) ReadFile(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("ReadFile", name); err != nil {
		return nil, err
	}
	data, ok := f.Files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data in Files[name].
func (f *Fake) WriteFile(name string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("WriteFile", name); err != nil {
		return err
	}
	f.Files[name] = append([]byte(nil), data...)
	f.Modes[name] = perm
	return nil
}

// Rename moves Files[oldpath] to Files[newpath]. Errors injected for
// either path apply.
func (f *Fake) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Rename", newpath); err != nil {
		return err
	}
	if err := f.Errors[oldpath]; err != nil {
		return err
	}
	data, ok := f.Files[oldpath]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	f.Files[newpath] = data
	f.Modes[newpath] = f.Modes[oldpath]
	delete(f.Files, oldpath)
	delete(f.Modes, oldpath)
	return nil
}

// Stat describes a directory in Dirs or a file in Files.
func (f *Fake) Stat(name string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Stat", name); err != nil {
		return nil, err
	}
	if f.Dirs[name] {
		return fakeInfo{name: filepath.Base(name), mode: fs.ModeDir | 0o755}, nil
	}
	if data, ok := f.Files[name]; ok {
		mode := f.Modes[name]
		if mode == 0 {
			mode = 0o644
		}
		return fakeInfo{name: filepath.Base(name), size: int64(len(data)), mode: mode}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

type fakeInfo struct {
	name string
	size int64
	mode os.FileMode
}

func (fi fakeInfo) Name() string       { return fi.name }
func (fi fakeInfo) Size() int64        { return fi.size }
func (fi fakeInfo) Mode() os.FileMode  { return fi.mode }
func (fi fakeInfo) ModTime() time.Time { return time.Time{} }
func (fi fakeInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fakeInfo) Sys() any           { return nil }
