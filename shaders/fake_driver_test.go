package shaders

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bloeys/gglm/gglm"
)

var _ Driver = &fakeDriver{}

// fakeDriver stands in for the graphics API. It records calls and keeps just enough
// state to check compile/link flows and uniform uploads.
type fakeDriver struct {
	calls []string

	lastId uint32

	shaderTypes map[uint32]ShaderType
	sources     map[uint32]string
	attached    map[uint32][]uint32

	// A stage whose source contains failCompileOn fails to compile
	failCompileOn string
	failLink      bool

	liveShaders  map[uint32]struct{}
	livePrograms map[uint32]struct{}
	boundProg    uint32

	// Uniform name to location. Names not in the map resolve to -1.
	unifLocs      map[string]int32
	unifLocLookup int
	unifVals      map[int32]any

	blocks        map[string]uint32
	blockBindings map[uint32]uint32
}

func newFakeDriver(t *testing.T) *fakeDriver {

	fd := &fakeDriver{
		shaderTypes:   make(map[uint32]ShaderType),
		sources:       make(map[uint32]string),
		attached:      make(map[uint32][]uint32),
		liveShaders:   make(map[uint32]struct{}),
		livePrograms:  make(map[uint32]struct{}),
		unifLocs:      make(map[string]int32),
		unifVals:      make(map[int32]any),
		blocks:        make(map[string]uint32),
		blockBindings: make(map[uint32]uint32),
	}

	prev := SetDriver(fd)
	t.Cleanup(func() { SetDriver(prev) })
	return fd
}

func (fd *fakeDriver) record(format string, args ...any) {
	fd.calls = append(fd.calls, fmt.Sprintf(format, args...))
}

func (fd *fakeDriver) countCalls(prefix string) int {

	count := 0
	for _, c := range fd.calls {
		if strings.HasPrefix(c, prefix) {
			count++
		}
	}

	return count
}

func (fd *fakeDriver) CreateShader(shaderType ShaderType) uint32 {
	fd.lastId++
	fd.shaderTypes[fd.lastId] = shaderType
	fd.liveShaders[fd.lastId] = struct{}{}
	fd.record("CreateShader %s", shaderType)
	return fd.lastId
}

func (fd *fakeDriver) ShaderSource(shaderId uint32, src string) {
	fd.sources[shaderId] = src
	fd.record("ShaderSource %d", shaderId)
}

func (fd *fakeDriver) CompileShader(shaderId uint32) {
	fd.record("CompileShader %d", shaderId)
}

func (fd *fakeDriver) ShaderCompiled(shaderId uint32) bool {
	return fd.failCompileOn == "" || !strings.Contains(fd.sources[shaderId], fd.failCompileOn)
}

func (fd *fakeDriver) ShaderInfoLog(shaderId uint32) string {
	return fmt.Sprintf("0:1(1): error: syntax error in %s shader", fd.shaderTypes[shaderId])
}

func (fd *fakeDriver) DeleteShader(shaderId uint32) {
	delete(fd.liveShaders, shaderId)
	fd.record("DeleteShader %d", shaderId)
}

func (fd *fakeDriver) CreateProgram() uint32 {
	fd.lastId++
	fd.livePrograms[fd.lastId] = struct{}{}
	fd.record("CreateProgram")
	return fd.lastId
}

func (fd *fakeDriver) AttachShader(progId, shaderId uint32) {
	fd.attached[progId] = append(fd.attached[progId], shaderId)
	fd.record("AttachShader %d %d", progId, shaderId)
}

func (fd *fakeDriver) DetachShader(progId, shaderId uint32) {
	fd.record("DetachShader %d %d", progId, shaderId)
}

func (fd *fakeDriver) LinkProgram(progId uint32) {
	fd.record("LinkProgram %d", progId)
}

func (fd *fakeDriver) ProgramLinked(progId uint32) bool {
	return !fd.failLink
}

func (fd *fakeDriver) ProgramInfoLog(progId uint32) string {
	return "error: vertex output 'vUv' not read by fragment shader"
}

func (fd *fakeDriver) DeleteProgram(progId uint32) {
	delete(fd.livePrograms, progId)
	fd.record("DeleteProgram %d", progId)
}

func (fd *fakeDriver) UseProgram(progId uint32) {
	fd.boundProg = progId
	fd.record("UseProgram %d", progId)
}

func (fd *fakeDriver) GetUniformLocation(progId uint32, name string) int32 {

	fd.unifLocLookup++
	loc, ok := fd.unifLocs[name]
	if !ok {
		return -1
	}

	return loc
}

func (fd *fakeDriver) GetUniformBlockIndex(progId uint32, name string) uint32 {

	index, ok := fd.blocks[name]
	if !ok {
		return InvalidIndex
	}

	return index
}

func (fd *fakeDriver) UniformBlockBinding(progId, blockIndex, bindPointIndex uint32) {
	fd.blockBindings[blockIndex] = bindPointIndex
}

func (fd *fakeDriver) ProgramUniform1i(progId uint32, loc int32, val int32) {
	fd.unifVals[loc] = val
}

func (fd *fakeDriver) ProgramUniform1iv(progId uint32, loc int32, vals []int32) {
	fd.unifVals[loc] = append([]int32(nil), vals...)
}

func (fd *fakeDriver) ProgramUniform1f(progId uint32, loc int32, val float32) {
	fd.unifVals[loc] = val
}

func (fd *fakeDriver) ProgramUniform2fv(progId uint32, loc int32, vec2 *gglm.Vec2) {
	fd.unifVals[loc] = vec2.Data
}

func (fd *fakeDriver) ProgramUniform3fv(progId uint32, loc int32, vec3 *gglm.Vec3) {
	fd.unifVals[loc] = vec3.Data
}

func (fd *fakeDriver) ProgramUniform4fv(progId uint32, loc int32, vec4 *gglm.Vec4) {
	fd.unifVals[loc] = vec4.Data
}

func (fd *fakeDriver) ProgramUniformMatrix3fv(progId uint32, loc int32, mat3 *gglm.Mat3) {
	fd.unifVals[loc] = mat3.Data
}

func (fd *fakeDriver) ProgramUniformMatrix4fv(progId uint32, loc int32, mat4 *gglm.Mat4) {
	fd.unifVals[loc] = mat4.Data
}
