package shaders

import (
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ Driver = GlDriver{}

// GlDriver implements Driver on top of OpenGL 4.1 core. gl.Init must have been
// called on a current context before use.
type GlDriver struct{}

func (GlDriver) CreateShader(shaderType ShaderType) uint32 {
	return gl.CreateShader(shaderType.ToGl())
}

func (GlDriver) ShaderSource(shaderId uint32, src string) {
	shaderCStr, shaderFree := gl.Strs(src + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)
}

func (GlDriver) CompileShader(shaderId uint32) {
	gl.CompileShader(shaderId)
}

func (GlDriver) ShaderCompiled(shaderId uint32) bool {
	var compiledSuccessfully int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &compiledSuccessfully)
	return compiledSuccessfully == gl.TRUE
}

func (GlDriver) ShaderInfoLog(shaderId uint32) string {

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}

	log := gl.Str(strings.Repeat("\x00", int(logLength)))
	gl.GetShaderInfoLog(shaderId, logLength, nil, log)
	return gl.GoStr(log)
}

func (GlDriver) DeleteShader(shaderId uint32) {
	gl.DeleteShader(shaderId)
}

func (GlDriver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (GlDriver) AttachShader(progId, shaderId uint32) {
	gl.AttachShader(progId, shaderId)
}

func (GlDriver) DetachShader(progId, shaderId uint32) {
	gl.DetachShader(progId, shaderId)
}

func (GlDriver) LinkProgram(progId uint32) {
	gl.LinkProgram(progId)
}

func (GlDriver) ProgramLinked(progId uint32) bool {
	var linkedSuccessfully int32
	gl.GetProgramiv(progId, gl.LINK_STATUS, &linkedSuccessfully)
	return linkedSuccessfully == gl.TRUE
}

func (GlDriver) ProgramInfoLog(progId uint32) string {

	var logLength int32
	gl.GetProgramiv(progId, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}

	log := gl.Str(strings.Repeat("\x00", int(logLength)))
	gl.GetProgramInfoLog(progId, logLength, nil, log)
	return gl.GoStr(log)
}

func (GlDriver) DeleteProgram(progId uint32) {
	gl.DeleteProgram(progId)
}

func (GlDriver) UseProgram(progId uint32) {
	gl.UseProgram(progId)
}

func (GlDriver) GetUniformLocation(progId uint32, name string) int32 {
	return gl.GetUniformLocation(progId, gl.Str(name+"\x00"))
}

func (GlDriver) GetUniformBlockIndex(progId uint32, name string) uint32 {
	return gl.GetUniformBlockIndex(progId, gl.Str(name+"\x00"))
}

func (GlDriver) UniformBlockBinding(progId, blockIndex, bindPointIndex uint32) {
	gl.UniformBlockBinding(progId, blockIndex, bindPointIndex)
}

// The ProgramUniform family writes to the given program whether or not it's bound

func (GlDriver) ProgramUniform1i(progId uint32, loc int32, val int32) {
	gl.ProgramUniform1i(progId, loc, val)
}

func (GlDriver) ProgramUniform1iv(progId uint32, loc int32, vals []int32) {

	if len(vals) == 0 {
		return
	}

	gl.ProgramUniform1iv(progId, loc, int32(len(vals)), &vals[0])
}

func (GlDriver) ProgramUniform1f(progId uint32, loc int32, val float32) {
	gl.ProgramUniform1f(progId, loc, val)
}

func (GlDriver) ProgramUniform2fv(progId uint32, loc int32, vec2 *gglm.Vec2) {
	gl.ProgramUniform2fv(progId, loc, 1, &vec2.Data[0])
}

func (GlDriver) ProgramUniform3fv(progId uint32, loc int32, vec3 *gglm.Vec3) {
	gl.ProgramUniform3fv(progId, loc, 1, &vec3.Data[0])
}

func (GlDriver) ProgramUniform4fv(progId uint32, loc int32, vec4 *gglm.Vec4) {
	gl.ProgramUniform4fv(progId, loc, 1, &vec4.Data[0])
}

func (GlDriver) ProgramUniformMatrix3fv(progId uint32, loc int32, mat3 *gglm.Mat3) {
	gl.ProgramUniformMatrix3fv(progId, loc, 1, false, &mat3.Data[0][0])
}

func (GlDriver) ProgramUniformMatrix4fv(progId uint32, loc int32, mat4 *gglm.Mat4) {
	gl.ProgramUniformMatrix4fv(progId, loc, 1, false, &mat4.Data[0][0])
}
