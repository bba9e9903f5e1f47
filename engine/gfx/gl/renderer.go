package glbackend

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/isomap/engine/core"
)

type pipeline struct {
	program  uint32
	desc     core.PipelineDesc
	uniforms map[string]int32
}

func (p *pipeline) PipelineID() uint32 { return p.program }

// location caches glGetUniformLocation; -1 means the program has no such uniform
// (or the compiler optimised it away) and uploads are skipped.
func (p *pipeline) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

type mesh struct {
	vao, vbo, ebo uint32
	indexCount    int
	vboBytes      int
	eboBytes      int
}

func (m *mesh) MeshID() uint32 { return m.vao }

type texture struct {
	id   uint32
	w, h int
}

func (t *texture) TextureID() uint32 { return t.id }
func (t *texture) Size() (int, int)  { return t.w, t.h }

type RendererGL struct {
	win       core.Window
	pipelines []*pipeline
	meshes    []*mesh
	textures  []*texture
}

func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	log.Printf("GL: %s (%s, %s)", r.GPUVersion(), r.GPUVendor(), r.GPURenderer())
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

func (r *RendererGL) Shutdown() {
	for _, m := range r.meshes {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.id)
	}
	for _, p := range r.pipelines {
		gl.DeleteProgram(p.program)
	}
	r.meshes, r.textures, r.pipelines = nil, nil, nil
}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) GPUVendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (r *RendererGL) GPURenderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }
func (r *RendererGL) GPUVersion() string  { return gl.GoStr(gl.GetString(gl.VERSION)) }

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(terminate(desc.VertexSource), terminate(desc.FragmentSource))
	if err != nil {
		return nil, err
	}
	p := &pipeline{program: prog, desc: desc, uniforms: make(map[string]int32)}
	r.pipelines = append(r.pipelines, p)
	return p, nil
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m := &mesh{indexCount: len(desc.Indices)}
	usage := uint32(gl.STATIC_DRAW)
	if desc.Dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	m.vboBytes = len(desc.Vertices) * 4
	gl.BufferData(gl.ARRAY_BUFFER, m.vboBytes, ptrF32(desc.Vertices), usage)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	m.eboBytes = len(desc.Indices) * 4
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, m.eboBytes, ptrU32(desc.Indices), usage)

	for _, a := range desc.Layout.Attributes {
		if a.Type != core.AttribFloat32 {
			gl.BindVertexArray(0)
			return nil, fmt.Errorf("mesh: unsupported attribute type %d at location %d", a.Type, a.Location)
		}
		gl.EnableVertexAttribArray(uint32(a.Location))
		gl.VertexAttribPointerWithOffset(uint32(a.Location), int32(a.Size), gl.FLOAT, false, int32(desc.Layout.Stride), uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.meshes = append(r.meshes, m)
	return m, nil
}

// UpdateMesh replaces the mesh contents, growing the buffers when needed.
func (r *RendererGL) UpdateMesh(h core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := h.(*mesh)
	if !ok {
		return fmt.Errorf("mesh: foreign handle %T", h)
	}
	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if n := len(vertices) * 4; n > m.vboBytes {
		m.vboBytes = n
		gl.BufferData(gl.ARRAY_BUFFER, n, ptrF32(vertices), gl.DYNAMIC_DRAW)
	} else if n > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n, ptrF32(vertices))
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if n := len(indices) * 4; n > m.eboBytes {
		m.eboBytes = n
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, n, ptrU32(indices), gl.DYNAMIC_DRAW)
	} else if n > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n, ptrU32(indices))
	}
	m.indexCount = len(indices)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("texture: unsupported format %d", desc.Format)
	}
	if want := desc.Width * desc.Height * 4; desc.Pixels != nil && len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture: %dx%d needs %d bytes, got %d", desc.Width, desc.Height, want, len(desc.Pixels))
	}
	t := &texture{w: desc.Width, h: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(desc.WrapV))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var pix unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pix = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures = append(r.textures, t)
	return t, nil
}

func (r *RendererGL) UpdateTexture(h core.Texture, pixels []byte) error {
	t, ok := h.(*texture)
	if !ok {
		return fmt.Errorf("texture: foreign handle %T", h)
	}
	if len(pixels) != t.w*t.h*4 {
		return fmt.Errorf("texture: %dx%d needs %d bytes, got %d", t.w, t.h, t.w*t.h*4, len(pixels))
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.w), int32(t.h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// DeleteTexture frees t. Handles from another renderer are ignored.
func (r *RendererGL) DeleteTexture(h core.Texture) {
	for i, t := range r.textures {
		if core.Texture(t) == h {
			gl.DeleteTextures(1, &t.id)
			r.textures = append(r.textures[:i], r.textures[i+1:]...)
			return
		}
	}
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	p := cmd.Pipe.(*pipeline)
	m := cmd.Mesh.(*mesh)

	if p.desc.Blend {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
	if p.desc.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	gl.UseProgram(p.program)
	for name, v := range cmd.Uniforms {
		setUniform(p.location(name), v)
	}
	unit := int32(0)
	for name, t := range cmd.Samplers {
		loc := p.location(name)
		if loc < 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, t.TextureID())
		gl.Uniform1i(loc, unit)
		unit++
	}

	n := cmd.IndexCount
	if n <= 0 || n > m.indexCount {
		n = m.indexCount
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	switch u := v.(type) {
	case float32:
		gl.Uniform1f(loc, u)
	case int32:
		gl.Uniform1i(loc, u)
	case [2]float32:
		gl.Uniform2f(loc, u[0], u[1])
	case [4]float32:
		gl.Uniform4f(loc, u[0], u[1], u[2], u[3])
	case [9]float32:
		gl.UniformMatrix3fv(loc, 1, false, &u[0])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &u[0])
	case core.Vec4Array:
		if len(u) > 0 {
			gl.Uniform4fv(loc, int32(len(u)), &u[0][0])
		}
	default:
		log.Printf("GL: unsupported uniform type %T", v)
	}
}

func filter(s string) int32 {
	if s == "linear" {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func wrap(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func ptrF32(s []float32) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return gl.Ptr(s)
}

func ptrU32(s []uint32) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return gl.Ptr(s)
}

// terminate appends the NUL gl.Strs expects when the loader did not.
func terminate(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
