package shaders

import (
	"errors"
	"slices"

	"github.com/gen-engine/glshader/logging"
)

// Library is a name keyed store of shaders shared by the parts of a renderer.
// It's not safe for concurrent use.
type Library struct {
	shaders map[string]*Shader
}

func NewLibrary() *Library {
	return &Library{
		shaders: make(map[string]*Shader),
	}
}

// Add stores the shader under name, replacing any shader already using that name
func (l *Library) Add(name string, s *Shader) {

	if old, ok := l.shaders[name]; ok && old != s {
		logging.WarnLog.Printf("Shader library entry '%s' replaced\n", name)
	}

	l.shaders[name] = s
}

// AddShader stores the shader under its own name
func (l *Library) AddShader(s *Shader) {
	l.Add(s.GetName(), s)
}

// Load creates a shader from a combined shader file and adds it under the name
// derived from the file name.
func (l *Library) Load(shaderPath string) *Shader {
	s := NewShader(shaderPath)
	l.AddShader(s)
	return s
}

// LoadNamed is like Load but stores the shader under name instead of its derived name
func (l *Library) LoadNamed(name, shaderPath string) *Shader {
	s := NewShader(shaderPath)
	l.Add(name, s)
	return s
}

// Get returns the shader stored under name, or nil if there is none
func (l *Library) Get(name string) *Shader {
	return l.shaders[name]
}

func (l *Library) Exists(name string) bool {
	_, ok := l.shaders[name]
	return ok
}

// Names returns the names of all entries in sorted order
func (l *Library) Names() []string {

	names := make([]string, 0, len(l.shaders))
	for name := range l.shaders {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// ReloadAll reloads every shader that was loaded from files. Shaders that fail to
// reload keep their previous program. A shader stored under multiple names is only reloaded once.
func (l *Library) ReloadAll() error {

	var errs []error
	reloaded := make(map[*Shader]struct{}, len(l.shaders))
	for _, name := range l.Names() {

		s := l.shaders[name]
		if _, ok := reloaded[s]; ok || len(s.Paths()) == 0 {
			continue
		}

		reloaded[s] = struct{}{}
		if err := s.Reload(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Delete releases the programs of all shaders and empties the library.
// Shaders obtained from the library must not be used afterwards.
func (l *Library) Delete() {

	deleted := make(map[*Shader]struct{}, len(l.shaders))
	for _, s := range l.shaders {

		if _, ok := deleted[s]; ok {
			continue
		}

		deleted[s] = struct{}{}
		s.Delete()
	}

	clear(l.shaders)
}
