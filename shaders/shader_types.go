package shaders

import (
	"fmt"

	"github.com/gen-engine/glshader/assert"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type ShaderType int32

func (s ShaderType) ToGl() uint32 {

	switch s {
	case ShaderType_Vertex:
		return gl.VERTEX_SHADER
	case ShaderType_Fragment:
		return gl.FRAGMENT_SHADER
	}

	assert.T(false, "Unknown shader type '%d'", s)
	return 0
}

func (s ShaderType) String() string {

	switch s {
	case ShaderType_Vertex:
		return "vertex"
	case ShaderType_Fragment:
		return "fragment"
	}

	return fmt.Sprintf("unknown(%d)", int32(s))
}

func (s ShaderType) IsValid() bool {
	return s == ShaderType_Vertex || s == ShaderType_Fragment
}

// ShaderTypeFromString maps the stage name used in '#type <name>' tags to a shader type.
// 'pixel' is accepted as an alias of 'fragment'. Unrecognized names return ShaderType_Unknown.
func ShaderTypeFromString(name string) ShaderType {

	switch name {
	case "vertex":
		return ShaderType_Vertex
	case "fragment", "pixel":
		return ShaderType_Fragment
	}

	return ShaderType_Unknown
}

const (
	ShaderType_Unknown ShaderType = iota
	ShaderType_Vertex
	ShaderType_Fragment
)

// Programs are made of at most a vertex and a fragment stage
const maxStages = 2
