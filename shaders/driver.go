package shaders

import (
	"math"

	"github.com/bloeys/gglm/gglm"
)

// InvalidIndex is returned by GetUniformBlockIndex when the block doesn't exist (GL_INVALID_INDEX)
const InvalidIndex uint32 = math.MaxUint32

// Driver is the subset of the graphics API this package compiles, links and
// feeds shader programs with. All calls are expected on the thread that owns the
// current graphics context.
type Driver interface {
	CreateShader(shaderType ShaderType) uint32
	ShaderSource(shaderId uint32, src string)
	CompileShader(shaderId uint32)
	ShaderCompiled(shaderId uint32) bool
	ShaderInfoLog(shaderId uint32) string
	DeleteShader(shaderId uint32)

	CreateProgram() uint32
	AttachShader(progId, shaderId uint32)
	DetachShader(progId, shaderId uint32)
	LinkProgram(progId uint32)
	ProgramLinked(progId uint32) bool
	ProgramInfoLog(progId uint32) string
	DeleteProgram(progId uint32)
	UseProgram(progId uint32)

	GetUniformLocation(progId uint32, name string) int32
	GetUniformBlockIndex(progId uint32, name string) uint32
	UniformBlockBinding(progId, blockIndex, bindPointIndex uint32)

	ProgramUniform1i(progId uint32, loc int32, val int32)
	ProgramUniform1iv(progId uint32, loc int32, vals []int32)
	ProgramUniform1f(progId uint32, loc int32, val float32)
	ProgramUniform2fv(progId uint32, loc int32, vec2 *gglm.Vec2)
	ProgramUniform3fv(progId uint32, loc int32, vec3 *gglm.Vec3)
	ProgramUniform4fv(progId uint32, loc int32, vec4 *gglm.Vec4)
	ProgramUniformMatrix3fv(progId uint32, loc int32, mat3 *gglm.Mat3)
	ProgramUniformMatrix4fv(progId uint32, loc int32, mat4 *gglm.Mat4)
}

var drv Driver = GlDriver{}

// SetDriver replaces the driver used by all shaders and returns the previous one.
// It must be called before any shader is created.
func SetDriver(d Driver) (prev Driver) {
	prev = drv
	drv = d
	return prev
}
