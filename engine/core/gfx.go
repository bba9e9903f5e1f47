package core

// Renderer is the GPU device abstraction. Resources are opaque handles; the GL
// backend implements it and tests substitute a recording fake.
type Renderer interface {
	Init() error
	Resize(w, h int)
	Clear(r, g, b, a float32)

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error
	CreateTexture(desc TextureDesc) (Texture, error)
	UpdateTexture(t Texture, pixels []byte) error
	DeleteTexture(t Texture)
	Draw(cmd DrawCmd)

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
	Shutdown()
}

type Pipeline interface{ PipelineID() uint32 }

type Mesh interface{ MeshID() uint32 }

type Texture interface {
	TextureID() uint32
	Size() (w, h int)
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location int
	Size     int // components
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int // bytes
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	Dynamic  bool
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // tightly packed rows, top row first
	MinFilter     string // "nearest" | "linear"
	MagFilter     string
	WrapU, WrapV  string // "clamp" | "repeat"
}

// Vec4Array uploads as a GLSL vec4[] uniform.
type Vec4Array [][4]float32

// DrawCmd draws the first IndexCount indices of Mesh with Pipe. Uniform values may
// be float32, int32, [2]float32, [4]float32, [9]float32 (mat3), [16]float32 (mat4)
// or Vec4Array.
type DrawCmd struct {
	Pipe       Pipeline
	Mesh       Mesh
	IndexCount int
	Uniforms   map[string]any
	Samplers   map[string]Texture
}
