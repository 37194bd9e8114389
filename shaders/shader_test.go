package shaders

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCombinedSrc = "#type vertex\n" + testVertSrc + "#type fragment\n" + testFragSrc

func TestNameFromPath(t *testing.T) {

	tests := []struct {
		path string
		name string
	}{
		{path: "shaders/Basic.glsl", name: "Basic"},
		{path: "Basic.glsl", name: "Basic"},
		{path: "shaders/Basic", name: "Basic"},
		{path: "Basic", name: "Basic"},
		{path: `C:\res\shaders\Basic.glsl`, name: "Basic"},
		{path: "./res/shaders/Basic", name: "Basic"},
		{path: "res/shaders/Basic.v2.glsl", name: "Basic.v2"},
		{path: "shaders/", name: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, NameFromPath(tt.path), "path=%s", tt.path)
	}
}

func TestNewShader(t *testing.T) {

	fd := newFakeDriver(t)
	p := writeFile(t, t.TempDir(), "Basic.glsl", testCombinedSrc)

	s := NewShader(p)
	assert.Equal(t, "Basic", s.GetName())
	assert.Equal(t, p, s.CombinedPath)
	assert.Equal(t, []string{p}, s.Paths())
	assert.Contains(t, fd.livePrograms, s.ProgramId)

	assert.Equal(t, testVertSrc, fd.sources[2])
	assert.Equal(t, testFragSrc, fd.sources[3])
}

func TestNewShaderBadSource(t *testing.T) {

	fd := newFakeDriver(t)
	dir := t.TempDir()

	p := writeFile(t, dir, "three.glsl", "#type vertex\nA\n#type fragment\nB\n#type vertex\nC\n")
	assert.Panics(t, func() { NewShader(p) })
	assert.Empty(t, fd.calls)

	p = writeFile(t, dir, "compute.glsl", "#type compute\nA\n")
	assert.Panics(t, func() { NewShader(p) })
	assert.Empty(t, fd.calls)

	// Missing files are logged and produce an empty source, which then fails
	assert.Panics(t, func() { NewShader(dir + "/missing.glsl") })
	assert.Empty(t, fd.calls)
}

func TestNewShaderFromFiles(t *testing.T) {

	fd := newFakeDriver(t)
	dir := t.TempDir()
	vertPath := writeFile(t, dir, "Sprite.vert", testVertSrc)
	fragPath := writeFile(t, dir, "Sprite.frag", testFragSrc)

	s := NewShaderFromFiles(vertPath, fragPath)
	assert.Equal(t, "Sprite", s.GetName())
	assert.Equal(t, []string{vertPath, fragPath}, s.Paths())
	assert.Equal(t, testVertSrc, fd.sources[2])
	assert.Equal(t, testFragSrc, fd.sources[3])
}

func TestNewShaderSrc(t *testing.T) {

	fd := newFakeDriver(t)

	s := NewShaderSrc("FlatColor", testVertSrc, testFragSrc)
	assert.Equal(t, "FlatColor", s.GetName())
	assert.Nil(t, s.Paths())
	assert.ErrorIs(t, s.Reload(), ErrNotFileBacked)

	fd.failCompileOn = "gl_Position"
	assert.Panics(t, func() { NewShaderSrc("Broken", testVertSrc, testFragSrc) })
}

func TestShaderBindDelete(t *testing.T) {

	fd := newFakeDriver(t)
	s := NewShaderSrc("FlatColor", testVertSrc, testFragSrc)
	progId := s.ProgramId

	s.Bind()
	assert.Equal(t, progId, fd.boundProg)

	s.UnBind()
	assert.Zero(t, fd.boundProg)

	s.Delete()
	assert.Zero(t, s.ProgramId)
	assert.NotContains(t, fd.livePrograms, progId)
}

func TestShaderUniforms(t *testing.T) {

	fd := newFakeDriver(t)
	fd.unifLocs = map[string]int32{
		"diffuseTex": 0,
		"lightCount": 1,
		"exposure":   2,
		"uvScale":    3,
		"lightPos":   4,
		"tint":       5,
		"normalMat":  6,
		"modelMat":   7,
		"texSlots":   8,
	}

	s := NewShaderSrc("Lit", testVertSrc, testFragSrc)

	s.SetUnifInt32("diffuseTex", 0)
	s.SetUnifInt32("lightCount", 4)
	s.SetUnifInt32Array("texSlots", []int32{0, 1, 2})
	s.SetUnifFloat32("exposure", 1.5)
	s.SetUnifVec2("uvScale", &gglm.Vec2{Data: [2]float32{2, 3}})
	s.SetUnifVec3("lightPos", &gglm.Vec3{Data: [3]float32{1, 2, 3}})
	s.SetUnifVec4("tint", &gglm.Vec4{Data: [4]float32{1, 0, 0, 1}})
	s.SetUnifMat3("normalMat", &gglm.Mat3{Data: [3][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}})
	s.SetUnifMat4("modelMat", &gglm.Mat4{Data: [4][4]float32{{2, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 1}}})

	assert.Equal(t, int32(0), fd.unifVals[0])
	assert.Equal(t, int32(4), fd.unifVals[1])
	assert.Equal(t, float32(1.5), fd.unifVals[2])
	assert.Equal(t, [2]float32{2, 3}, fd.unifVals[3])
	assert.Equal(t, [3]float32{1, 2, 3}, fd.unifVals[4])
	assert.Equal(t, [4]float32{1, 0, 0, 1}, fd.unifVals[5])
	assert.Equal(t, [3][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, fd.unifVals[6])
	assert.Equal(t, [4][4]float32{{2, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 1}}, fd.unifVals[7])
	assert.Equal(t, []int32{0, 1, 2}, fd.unifVals[8])
}

func TestShaderUniformLocations(t *testing.T) {

	fd := newFakeDriver(t)
	fd.unifLocs = map[string]int32{"exposure": 3}
	s := NewShaderSrc("Lit", testVertSrc, testFragSrc)

	s.SetUnifFloat32("exposure", 1)
	s.SetUnifFloat32("exposure", 2)
	assert.Equal(t, 1, fd.unifLocLookup)
	assert.Equal(t, float32(2), fd.unifVals[3])

	// Unknown uniforms aren't an error, the invalid location goes to the driver as is
	assert.NotPanics(t, func() { s.SetUnifFloat32("doesNotExist", 5) })
	assert.Equal(t, float32(5), fd.unifVals[-1])
	assert.Equal(t, int32(-1), s.GetUnifLoc("doesNotExist"))
}

func TestShaderUniformBlock(t *testing.T) {

	fd := newFakeDriver(t)
	fd.blocks = map[string]uint32{"Globals": 2}
	s := NewShaderSrc("Lit", testVertSrc, testFragSrc)

	s.SetUniformBlockBindingPoint("Globals", 5)
	assert.Equal(t, uint32(5), fd.blockBindings[2])

	assert.Panics(t, func() { s.SetUniformBlockBindingPoint("Lights", 1) })
}

func TestShaderReload(t *testing.T) {

	fd := newFakeDriver(t)
	fd.unifLocs = map[string]int32{"exposure": 3}
	p := writeFile(t, t.TempDir(), "Basic.glsl", testCombinedSrc)

	s := NewShader(p)
	oldProgId := s.ProgramId
	s.GetUnifLoc("exposure")

	newFragSrc := "void main() {}\n"
	require.NoError(t, writeAndReload(t, s, p, "#type vertex\n"+testVertSrc+"#type pixel\n"+newFragSrc))

	assert.NotEqual(t, oldProgId, s.ProgramId)
	assert.NotContains(t, fd.livePrograms, oldProgId)
	assert.Contains(t, fd.livePrograms, s.ProgramId)
	assert.Empty(t, s.UnifLocs)

	// Failed reloads keep the working program
	progId := s.ProgramId
	fd.failCompileOn = "BROKEN"
	err := writeAndReload(t, s, p, "#type vertex\nBROKEN\n#type fragment\n"+newFragSrc)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Equal(t, progId, s.ProgramId)
	assert.Contains(t, fd.livePrograms, progId)

	err = writeAndReload(t, s, p, "#type geometry\nA\n")
	assert.ErrorIs(t, err, ErrUnknownStage)

	err = writeAndReload(t, s, p, "no sections")
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, progId, s.ProgramId)
}

func writeAndReload(t *testing.T, s *Shader, path, content string) error {
	t.Helper()

	writeFile(t, "", path, content)
	return s.Reload()
}
