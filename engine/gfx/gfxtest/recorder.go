// Package gfxtest provides a recording core.Renderer for tests that exercise GPU
// code paths without a GL context.
package gfxtest

import (
	"errors"
	"maps"

	"github.com/hubastard/isomap/engine/core"
)

type Pipeline struct {
	ID   uint32
	Desc core.PipelineDesc
}

func (p *Pipeline) PipelineID() uint32 { return p.ID }

type Mesh struct {
	ID       uint32
	Layout   core.VertexLayout
	Vertices []float32
	Indices  []uint32
}

func (m *Mesh) MeshID() uint32 { return m.ID }

type Texture struct {
	ID     uint32
	Desc   core.TextureDesc
	Pixels []byte
}

func (t *Texture) TextureID() uint32 { return t.ID }
func (t *Texture) Size() (int, int)  { return t.Desc.Width, t.Desc.Height }

// Draw is one recorded draw call with copies of everything it referenced.
type Draw struct {
	Pipe     uint32
	Mesh     uint32
	Vertices []float32
	Indices  []uint32
	Uniforms map[string]any
	Samplers map[string]uint32
}

// Recorder implements core.Renderer by remembering every call.
type Recorder struct {
	// PipelineErr, when set, is returned by CreatePipeline as a compile failure.
	PipelineErr error

	Pipelines []*Pipeline
	Meshes    []*Mesh
	Textures  []*Texture
	Draws     []Draw
	Clears    int
	Width     int
	Height    int

	next uint32
}

var ErrUnknownHandle = errors.New("gfxtest: handle not created by this recorder")

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) Init() error              { return nil }
func (r *Recorder) Resize(w, h int)          { r.Width, r.Height = w, h }
func (r *Recorder) Clear(_, _, _, _ float32) { r.Clears++ }
func (r *Recorder) GPUVendor() string        { return "gfxtest" }
func (r *Recorder) GPURenderer() string      { return "recorder" }
func (r *Recorder) GPUVersion() string       { return "0" }
func (r *Recorder) Shutdown()                {}

func (r *Recorder) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	if r.PipelineErr != nil {
		return nil, r.PipelineErr
	}
	p := &Pipeline{ID: r.id(), Desc: desc}
	r.Pipelines = append(r.Pipelines, p)
	return p, nil
}

func (r *Recorder) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m := &Mesh{
		ID:       r.id(),
		Layout:   desc.Layout,
		Vertices: append([]float32(nil), desc.Vertices...),
		Indices:  append([]uint32(nil), desc.Indices...),
	}
	r.Meshes = append(r.Meshes, m)
	return m, nil
}

func (r *Recorder) UpdateMesh(mesh core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := mesh.(*Mesh)
	if !ok {
		return ErrUnknownHandle
	}
	m.Vertices = append(m.Vertices[:0], vertices...)
	m.Indices = append(m.Indices[:0], indices...)
	return nil
}

func (r *Recorder) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	t := &Texture{ID: r.id(), Desc: desc, Pixels: append([]byte(nil), desc.Pixels...)}
	r.Textures = append(r.Textures, t)
	return t, nil
}

func (r *Recorder) UpdateTexture(tex core.Texture, pixels []byte) error {
	t, ok := tex.(*Texture)
	if !ok {
		return ErrUnknownHandle
	}
	t.Pixels = append(t.Pixels[:0], pixels...)
	return nil
}

// DeleteTexture drops tex from Textures.
func (r *Recorder) DeleteTexture(tex core.Texture) {
	for i, t := range r.Textures {
		if core.Texture(t) == tex {
			r.Textures = append(r.Textures[:i], r.Textures[i+1:]...)
			return
		}
	}
}

func (r *Recorder) Draw(cmd core.DrawCmd) {
	m := cmd.Mesh.(*Mesh)
	n := cmd.IndexCount
	if n <= 0 || n > len(m.Indices) {
		n = len(m.Indices)
	}
	d := Draw{
		Pipe:     cmd.Pipe.PipelineID(),
		Mesh:     m.ID,
		Vertices: append([]float32(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices[:n]...),
		Uniforms: maps.Clone(cmd.Uniforms),
		Samplers: make(map[string]uint32, len(cmd.Samplers)),
	}
	for name, t := range cmd.Samplers {
		d.Samplers[name] = t.TextureID()
	}
	r.Draws = append(r.Draws, d)
}

// Reset forgets recorded draws but keeps created resources.
func (r *Recorder) Reset() {
	r.Draws = r.Draws[:0]
	r.Clears = 0
}

// Quads is the number of quads in a draw, assuming six indices per quad.
func (d Draw) Quads() int { return len(d.Indices) / 6 }

// Vertex returns the floats of vertex i given the stride in floats.
func (d Draw) Vertex(i, stride int) []float32 { return d.Vertices[i*stride : (i+1)*stride] }
