package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderPipeline combines separable vertex and fragment programs.
type ShaderPipeline struct {
	glId      uint32
	vertStage *ShaderProgram
	fragStage *ShaderProgram
}

// NewPipeline compiles both stages and attaches them to a new pipeline.
func NewPipeline(name, vertSource, fragSource string) (*ShaderPipeline, error) {
	vert := NewShader(name+".vert", vertSource, gl.VERTEX_SHADER)
	if err := vert.Compile(); err != nil {
		return nil, err
	}
	frag := NewShader(name+".frag", fragSource, gl.FRAGMENT_SHADER)
	if err := frag.Compile(); err != nil {
		vert.Destroy()
		return nil, err
	}

	var id uint32
	gl.CreateProgramPipelines(1, &id)
	gl.UseProgramStages(id, gl.VERTEX_SHADER_BIT, vert.Id())
	gl.UseProgramStages(id, gl.FRAGMENT_SHADER_BIT, frag.Id())

	return &ShaderPipeline{
		glId:      id,
		vertStage: vert,
		fragStage: frag,
	}, nil
}

func (pipeline *ShaderPipeline) Get(stage int) *ShaderProgram {
	switch stage {
	case gl.VERTEX_SHADER:
		return pipeline.vertStage
	case gl.FRAGMENT_SHADER:
		return pipeline.fragStage
	}
	log.Panicf("%d is not a valid shader stage\n", stage)
	return nil
}

func (pipeline *ShaderPipeline) Bind() {
	gl.UseProgram(0)
	gl.BindProgramPipeline(pipeline.glId)
}

func (pipeline *ShaderPipeline) Destroy() {
	pipeline.vertStage.Destroy()
	pipeline.fragStage.Destroy()
	gl.DeleteProgramPipelines(1, &pipeline.glId)
	pipeline.glId = 0
}

type ShaderProgram struct {
	glId             uint32
	name             string
	stage            int
	source           string
	uniformLocations map[string]int32
}

func NewShader(name, source string, stage int) *ShaderProgram {
	return &ShaderProgram{
		name:   name,
		stage:  stage,
		source: source,
	}
}

func (prog *ShaderProgram) Compile() error {
	cStrs, free := gl.Strs(prog.source + "\x00")
	id := gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
	free()

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		err := fmt.Errorf("failed to link %v shader, log: %v", prog.name, readProgramInfoLog(id))
		gl.DeleteProgram(id)
		return err
	}

	prog.glId = id
	prog.uniformLocations = map[string]int32{}
	return nil
}

func (prog *ShaderProgram) Id() uint32 {
	return prog.glId
}

func (prog *ShaderProgram) Destroy() {
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

func readProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (prog *ShaderProgram) GetUniformLocation(name string) int32 {
	if location, ok := prog.uniformLocations[name]; ok {
		return location
	}

	location := gl.GetUniformLocation(prog.glId, gl.Str(name+"\x00"))
	prog.uniformLocations[name] = location

	if location == -1 {
		log.Printf("%v shader: could not get location of %q\n", prog.name, name)
	}

	return location
}

func (prog *ShaderProgram) SetUniform(name string, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}

	switch v := value.(type) {
	case float32:
		gl.ProgramUniform1f(prog.glId, location, v)
	case int:
		gl.ProgramUniform1i(prog.glId, location, int32(v))
	case int32:
		gl.ProgramUniform1i(prog.glId, location, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.ProgramUniform1i(prog.glId, location, i)
	case mgl32.Vec2:
		gl.ProgramUniform2f(prog.glId, location, v.X(), v.Y())
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog.glId, location, 1, false, &v[0])
	default:
		log.Panicf("%v shader: unsupported uniform type %T for %q\n", prog.name, value, name)
	}
}
