package shaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gen-engine/glshader/logging"
)

// Watcher tracks changes to the source files of a library's shaders so they can be
// hot reloaded. File events arrive on a background goroutine but shaders are only
// rebuilt inside ReloadChanged, which must be called on the graphics thread.
type Watcher struct {
	lib *Library
	fsw *fsnotify.Watcher
	wg  sync.WaitGroup

	// Directories are watched instead of files because editors often replace files on save
	watchedDirs map[string]struct{}

	changedLock sync.Mutex
	changed     map[string]struct{}
}

// NewWatcher starts watching the files of every shader currently in lib.
// Shaders added to lib later need a call to Watch.
func NewWatcher(lib *Library) (*Watcher, error) {

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher. Err: %w", err)
	}

	w := &Watcher{
		lib:         lib,
		fsw:         fsw,
		watchedDirs: make(map[string]struct{}),
		changed:     make(map[string]struct{}),
	}

	for _, name := range lib.Names() {
		if err := w.Watch(lib.Get(name)); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch starts watching the files s was loaded from. Shaders built from in-memory
// sources are ignored.
func (w *Watcher) Watch(s *Shader) error {

	for _, p := range s.Paths() {

		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}

		dir := filepath.Dir(absPath)
		if _, ok := w.watchedDirs[dir]; ok {
			continue
		}

		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch shader directory '%s'. Err: %w", dir, err)
		}
		w.watchedDirs[dir] = struct{}{}
	}

	return nil
}

func (w *Watcher) run() {

	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			w.changedLock.Lock()
			w.changed[filepath.Clean(ev.Name)] = struct{}{}
			w.changedLock.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.ErrLog.Println("Shader file watcher error. Err: ", err)
		}
	}
}

// ReloadChanged reloads the shaders whose files changed since the last call and returns
// how many were reloaded successfully. Reload errors are joined into the returned error.
func (w *Watcher) ReloadChanged() (int, error) {

	w.changedLock.Lock()
	if len(w.changed) == 0 {
		w.changedLock.Unlock()
		return 0, nil
	}
	changed := w.changed
	w.changed = make(map[string]struct{})
	w.changedLock.Unlock()

	var errs []error
	reloadedCount := 0
	visited := make(map[*Shader]struct{})
	for _, name := range w.lib.Names() {

		s := w.lib.Get(name)
		if _, ok := visited[s]; ok {
			continue
		}
		visited[s] = struct{}{}

		if !pathsChanged(s.Paths(), changed) {
			continue
		}

		if err := s.Reload(); err != nil {
			errs = append(errs, err)
			continue
		}
		reloadedCount++
	}

	return reloadedCount, errors.Join(errs...)
}

func pathsChanged(paths []string, changed map[string]struct{}) bool {

	for _, p := range paths {

		absPath, err := filepath.Abs(p)
		if err != nil {
			continue
		}

		if _, ok := changed[absPath]; ok {
			return true
		}
	}

	return false
}

func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
