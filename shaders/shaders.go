package shaders

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gen-engine/glshader/assert"
	"github.com/gen-engine/glshader/logging"
)

// typeToken starts a stage section in a combined shader file, e.g. '#type vertex'
const typeToken = "#type"

var (
	ErrSyntax         = errors.New("shader syntax error")
	ErrUnknownStage   = errors.New("invalid shader type specified")
	ErrDuplicateStage = errors.New("shader stage defined more than once")
	ErrTooManyStages  = errors.New("only 2 shader stages (vertex and fragment) are supported")
	ErrCompile        = errors.New("shader compilation failed")
	ErrLink           = errors.New("shader link failure")
)

// ReadFile returns the contents of the file at path. If the file can't be read
// the error is logged and an empty string is returned.
func ReadFile(path string) string {

	src, err := readFile(path)
	if err != nil {
		logging.ErrLog.Printf("Could not open file '%s'. Err: %v\n", path, err)
		return ""
	}

	return src
}

func readFile(path string) (string, error) {

	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(src), nil
}

// PreProcess splits a combined shader source into its stages. Every stage starts
// with a line of the form '#type <stage>' and runs until the next such line or the
// end of the source. Malformed sources fail an assert.
//
// A source without any '#type' lines produces an empty map.
func PreProcess(src string) map[ShaderType]string {

	shaderSources, err := preProcess(src)
	assert.T(err == nil, "Failed to preprocess shader. Err: %v", err)
	return shaderSources
}

func preProcess(src string) (map[ShaderType]string, error) {

	shaderSources := make(map[ShaderType]string, maxStages)

	sectionCount := 0
	pos := strings.Index(src, typeToken)
	for pos != -1 {

		// End of the '#type <stage>' line
		eol := strings.IndexAny(src[pos:], "\r\n")
		if eol == -1 {
			return nil, fmt.Errorf("%w: '%s' at offset %d is not followed by a line break", ErrSyntax, typeToken, pos)
		}
		eol += pos

		nameStart := min(pos+len(typeToken)+1, eol)
		stageName := strings.TrimSpace(src[nameStart:eol])
		shdrType := ShaderTypeFromString(stageName)
		if shdrType == ShaderType_Unknown {
			return nil, fmt.Errorf("%w: '%s' at offset %d. Must be one of 'vertex', 'fragment' or 'pixel'", ErrUnknownStage, stageName, pos)
		}

		sectionCount++
		if sectionCount > maxStages {
			return nil, fmt.Errorf("%w: found a section number %d ('%s')", ErrTooManyStages, sectionCount, stageName)
		}

		if _, ok := shaderSources[shdrType]; ok {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateStage, stageName)
		}

		bodyStart := strings.IndexFunc(src[eol:], func(r rune) bool { return r != '\r' && r != '\n' })
		if bodyStart == -1 {
			return nil, fmt.Errorf("%w: '%s' section at offset %d has no body", ErrSyntax, stageName, pos)
		}
		bodyStart += eol

		pos = strings.Index(src[bodyStart:], typeToken)
		if pos == -1 {
			shaderSources[shdrType] = src[bodyStart:]
			break
		}

		pos += bodyStart
		shaderSources[shdrType] = src[bodyStart:pos]
	}

	return shaderSources, nil
}

// Compile compiles every stage in shaderSources and links them into a new program,
// returning the program id. Compile and link failures fail an assert that carries the
// driver's log.
func Compile(shaderSources map[ShaderType]string) (progId uint32) {

	progId, err := compile(shaderSources)
	assert.T(err == nil, "%v", err)
	return progId
}

func compile(shaderSources map[ShaderType]string) (uint32, error) {

	if len(shaderSources) > maxStages {
		return 0, fmt.Errorf("%w: got %d stages", ErrTooManyStages, len(shaderSources))
	}

	// Map order is random, so always go vertex then fragment
	shdrTypes := make([]ShaderType, 0, len(shaderSources))
	for shdrType := range shaderSources {
		if !shdrType.IsValid() {
			return 0, fmt.Errorf("%w: %s", ErrUnknownStage, shdrType)
		}
		shdrTypes = append(shdrTypes, shdrType)
	}
	slices.Sort(shdrTypes)

	progId := drv.CreateProgram()
	if progId == 0 {
		return 0, errors.New("failed to create shader program")
	}

	shaderIds := make([]uint32, 0, len(shdrTypes))
	deleteAll := func() {
		drv.DeleteProgram(progId)
		for _, id := range shaderIds {
			drv.DeleteShader(id)
		}
	}

	for _, shdrType := range shdrTypes {

		shaderId, err := compileShaderOfType(shaderSources[shdrType], shdrType)
		if err != nil {
			deleteAll()
			return 0, err
		}

		shaderIds = append(shaderIds, shaderId)
	}

	for _, id := range shaderIds {
		drv.AttachShader(progId, id)
	}

	drv.LinkProgram(progId)
	if !drv.ProgramLinked(progId) {

		errMsg := drv.ProgramInfoLog(progId)
		logging.ErrLog.Println("Linking of shader program with id ", progId, " failed. Err: ", errMsg)

		deleteAll()
		return 0, fmt.Errorf("%w: %s", ErrLink, errMsg)
	}

	// The linked program keeps the compiled code
	for _, id := range shaderIds {
		drv.DetachShader(progId, id)
		drv.DeleteShader(id)
	}

	return progId, nil
}

func compileShaderOfType(shaderSource string, shaderType ShaderType) (uint32, error) {

	shaderId := drv.CreateShader(shaderType)
	if shaderId == 0 {
		return 0, fmt.Errorf("failed to create %s shader", shaderType)
	}

	drv.ShaderSource(shaderId, shaderSource)
	drv.CompileShader(shaderId)
	if drv.ShaderCompiled(shaderId) {
		return shaderId, nil
	}

	errMsg := drv.ShaderInfoLog(shaderId)
	logging.ErrLog.Println("Compilation of ", shaderType, " shader with id ", shaderId, " failed. Err: ", errMsg)

	drv.DeleteShader(shaderId)
	return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, shaderType, errMsg)
}
