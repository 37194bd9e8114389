package shaders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/gen-engine/glshader/assert"
	"github.com/gen-engine/glshader/logging"
)

var ErrNotFileBacked = errors.New("shader was not loaded from files")

// Shader owns a linked shader program. The program lives until Delete is called.
type Shader struct {
	Name      string
	ProgramId uint32

	// Uniform locations looked up so far. Names that don't exist are stored as -1.
	UnifLocs map[string]int32

	// Files the shader was built from. Either CombinedPath or VertPath+FragPath is set,
	// or none for shaders built from in-memory sources.
	CombinedPath string
	VertPath     string
	FragPath     string
}

// NewShader loads a combined shader file containing '#type vertex' and '#type fragment'
// sections. The shader name is the file name without its directory and extension.
func NewShader(shaderPath string) *Shader {

	shaderSources := PreProcess(ReadFile(shaderPath))
	assert.T(len(shaderSources) > 0, "Shader file '%s' has no '%s' sections", shaderPath, typeToken)

	s := newShader(NameFromPath(shaderPath), Compile(shaderSources))
	s.CombinedPath = shaderPath
	return s
}

// NewShaderFromFiles loads a vertex and a fragment shader from separate files.
// The shader is named after the vertex file.
func NewShaderFromFiles(vertPath, fragPath string) *Shader {

	progId := Compile(map[ShaderType]string{
		ShaderType_Vertex:   ReadFile(vertPath),
		ShaderType_Fragment: ReadFile(fragPath),
	})

	s := newShader(NameFromPath(vertPath), progId)
	s.VertPath = vertPath
	s.FragPath = fragPath
	return s
}

func NewShaderSrc(name, vertSrc, fragSrc string) *Shader {

	progId := Compile(map[ShaderType]string{
		ShaderType_Vertex:   vertSrc,
		ShaderType_Fragment: fragSrc,
	})

	return newShader(name, progId)
}

func newShader(name string, progId uint32) *Shader {
	return &Shader{
		Name:      name,
		ProgramId: progId,
		UnifLocs:  make(map[string]int32),
	}
}

// NameFromPath strips everything up to and including the last path separator ('/' or '\'),
// then everything from the last '.' onwards. 'shaders/Basic.glsl' gives 'Basic'.
func NameFromPath(path string) string {

	lastSlash := strings.LastIndexAny(path, "/\\")
	name := path[lastSlash+1:]

	if lastDot := strings.LastIndexByte(name, '.'); lastDot != -1 {
		name = name[:lastDot]
	}

	return name
}

func (s *Shader) GetName() string {
	return s.Name
}

func (s *Shader) Bind() {
	drv.UseProgram(s.ProgramId)
}

// UnBind clears the active program. This isn't tied to s, any bound program is cleared.
func (s *Shader) UnBind() {
	drv.UseProgram(0)
}

func (s *Shader) Delete() {
	drv.DeleteProgram(s.ProgramId)
	s.ProgramId = 0
}

// Paths returns the files this shader was loaded from
func (s *Shader) Paths() []string {

	if s.CombinedPath != "" {
		return []string{s.CombinedPath}
	}

	if s.VertPath != "" {
		return []string{s.VertPath, s.FragPath}
	}

	return nil
}

// Reload rebuilds the program from the files the shader was loaded from.
// Unlike the constructors, failures don't assert: the error is logged and returned,
// and the shader keeps its old program.
//
// The old program is deleted, so a shader that was bound must be bound again.
func (s *Shader) Reload() error {

	shaderSources, err := s.loadSources()
	if err != nil {
		logging.ErrLog.Printf("Failed to reload shader '%s'. Err: %v\n", s.Name, err)
		return err
	}

	progId, err := compile(shaderSources)
	if err != nil {
		logging.ErrLog.Printf("Failed to reload shader '%s'. Err: %v\n", s.Name, err)
		return err
	}

	drv.DeleteProgram(s.ProgramId)
	s.ProgramId = progId
	clear(s.UnifLocs)

	logging.InfoLog.Printf("Reloaded shader '%s' (programId=%d)\n", s.Name, progId)
	return nil
}

func (s *Shader) loadSources() (map[ShaderType]string, error) {

	if s.CombinedPath != "" {

		src, err := readFile(s.CombinedPath)
		if err != nil {
			return nil, err
		}

		shaderSources, err := preProcess(src)
		if err != nil {
			return nil, err
		}

		if len(shaderSources) == 0 {
			return nil, fmt.Errorf("%w: file '%s' has no '%s' sections", ErrSyntax, s.CombinedPath, typeToken)
		}

		return shaderSources, nil
	}

	if s.VertPath == "" {
		return nil, ErrNotFileBacked
	}

	vertSrc, err := readFile(s.VertPath)
	if err != nil {
		return nil, err
	}

	fragSrc, err := readFile(s.FragPath)
	if err != nil {
		return nil, err
	}

	return map[ShaderType]string{
		ShaderType_Vertex:   vertSrc,
		ShaderType_Fragment: fragSrc,
	}, nil
}

// GetUnifLoc returns the location of a uniform, querying the driver the first time a name is seen.
// Unknown names give -1, which the driver ignores on upload.
func (s *Shader) GetUnifLoc(uniformName string) int32 {

	loc, ok := s.UnifLocs[uniformName]
	if ok {
		return loc
	}

	loc = drv.GetUniformLocation(s.ProgramId, uniformName)
	s.UnifLocs[uniformName] = loc
	return loc
}

func (s *Shader) SetUniformBlockBindingPoint(uniformBlockName string, bindPointIndex uint32) {

	index := drv.GetUniformBlockIndex(s.ProgramId, uniformBlockName)
	assert.T(
		index != InvalidIndex,
		"SetUniformBlockBindingPoint for shader=%s (programId=%d) failed because the uniform block=%s wasn't found",
		s.Name,
		s.ProgramId,
		uniformBlockName,
	)
	drv.UniformBlockBinding(s.ProgramId, index, bindPointIndex)
}

func (s *Shader) SetUnifInt32(uniformName string, val int32) {
	drv.ProgramUniform1i(s.ProgramId, s.GetUnifLoc(uniformName), val)
}

func (s *Shader) SetUnifInt32Array(uniformName string, vals []int32) {
	drv.ProgramUniform1iv(s.ProgramId, s.GetUnifLoc(uniformName), vals)
}

func (s *Shader) SetUnifFloat32(uniformName string, val float32) {
	drv.ProgramUniform1f(s.ProgramId, s.GetUnifLoc(uniformName), val)
}

func (s *Shader) SetUnifVec2(uniformName string, vec2 *gglm.Vec2) {
	drv.ProgramUniform2fv(s.ProgramId, s.GetUnifLoc(uniformName), vec2)
}

func (s *Shader) SetUnifVec3(uniformName string, vec3 *gglm.Vec3) {
	drv.ProgramUniform3fv(s.ProgramId, s.GetUnifLoc(uniformName), vec3)
}

func (s *Shader) SetUnifVec4(uniformName string, vec4 *gglm.Vec4) {
	drv.ProgramUniform4fv(s.ProgramId, s.GetUnifLoc(uniformName), vec4)
}

func (s *Shader) SetUnifMat3(uniformName string, mat3 *gglm.Mat3) {
	drv.ProgramUniformMatrix3fv(s.ProgramId, s.GetUnifLoc(uniformName), mat3)
}

func (s *Shader) SetUnifMat4(uniformName string, mat4 *gglm.Mat4) {
	drv.ProgramUniformMatrix4fv(s.ProgramId, s.GetUnifLoc(uniformName), mat4)
}
