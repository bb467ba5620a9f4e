package glbackend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/gymblocks/engine/core"
)

type glPipeline struct {
	program   uint32
	depthTest bool
	blend     bool
	locs      map[string]int32
}

type glMesh struct {
	vao, vbo, ebo uint32
	vcap, icap    int // capacity in elements
	count         int
}

type glTexture struct {
	id   uint32
	w, h int
}

func (t *glTexture) Width() int  { return t.w }
func (t *glTexture) Height() int { return t.h }

// RendererGL implements core.Renderer on OpenGL 3.3 core.
type RendererGL struct {
	win    core.Window
	fbH    int
	names  []string // sampler name scratch
	pipes  []*glPipeline
	meshes []*glMesh
	texs   map[*glTexture]struct{}
}

// NewRendererGL expects the window's GL context to be current and loaded.
func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win, texs: make(map[*glTexture]struct{})}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return r, nil
}

func (r *RendererGL) Shutdown() {
	for t := range r.texs {
		gl.DeleteTextures(1, &t.id)
	}
	for _, m := range r.meshes {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, p := range r.pipes {
		gl.DeleteProgram(p.program)
	}
	r.texs, r.meshes, r.pipes = nil, nil, nil
}

func (r *RendererGL) Resize(w, h int) {
	r.fbH = h
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) GPUVendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (r *RendererGL) GPURenderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(cstr(desc.VertexSource), cstr(desc.FragmentSource))
	if err != nil {
		return nil, err
	}
	p := &glPipeline{program: prog, depthTest: desc.DepthTest, blend: desc.Blend, locs: map[string]int32{}}
	r.pipes = append(r.pipes, p)
	return p, nil
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("texture format %d unsupported", desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 || len(desc.Pixels) < desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("texture %dx%d: got %d bytes", desc.Width, desc.Height, len(desc.Pixels))
	}
	t := &glTexture{w: desc.Width, h: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(desc.WrapV))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.texs[t] = struct{}{}
	return t, nil
}

func (r *RendererGL) DeleteTexture(tex core.Texture) {
	t, ok := tex.(*glTexture)
	if !ok {
		return
	}
	if _, live := r.texs[t]; !live {
		return
	}
	gl.DeleteTextures(1, &t.id)
	delete(r.texs, t)
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return nil, errors.New("mesh needs vertices and indices")
	}
	m := &glMesh{vcap: len(desc.Vertices), icap: len(desc.Indices), count: len(desc.Indices)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*4, gl.Ptr(desc.Vertices), gl.DYNAMIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), gl.DYNAMIC_DRAW)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Size, gl.FLOAT, false, desc.Layout.Stride, unsafe.Pointer(uintptr(a.Offset)))
	}

	// the EBO binding is part of the VAO state, so unbind the VAO first
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.meshes = append(r.meshes, m)
	return m, nil
}

// UpdateMesh overwrites the buffers in place, or reallocates them when the data outgrew them.
func (r *RendererGL) UpdateMesh(mesh core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := mesh.(*glMesh)
	if !ok {
		return fmt.Errorf("mesh %T is not a GL mesh", mesh)
	}
	if len(vertices) == 0 || len(indices) == 0 {
		m.count = 0
		return nil
	}
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) > m.vcap {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		m.vcap = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(indices) > m.icap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.DYNAMIC_DRAW)
		m.icap = len(indices)
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.count = len(indices)
	return nil
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	p, ok := cmd.Pipe.(*glPipeline)
	if !ok {
		return
	}
	m, ok := cmd.Mesh.(*glMesh)
	if !ok {
		return
	}
	n := cmd.IndexCount
	if n <= 0 || n > m.count {
		n = m.count
	}
	if n == 0 {
		return
	}

	if p.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if p.blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(p.program)
	for name, v := range cmd.Uniforms {
		r.setUniform(p, name, v)
	}

	// bind samplers in name order so units are stable between frames
	r.names = r.names[:0]
	for name := range cmd.Samplers {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	for unit, name := range r.names {
		t, ok := cmd.Samplers[name].(*glTexture)
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		if loc := p.location(name); loc >= 0 {
			gl.Uniform1i(loc, int32(unit))
		}
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// SetScissor takes a top-left origin rect; GL counts rows from the bottom.
func (r *RendererGL) SetScissor(x, y, w, h int, enabled bool) {
	if !enabled {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(x), int32(r.fbH-y-h), int32(max(w, 0)), int32(max(h, 0)))
}

func (p *glPipeline) location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.locs[name] = loc
	return loc
}

func (r *RendererGL) setUniform(p *glPipeline, name string, v any) {
	loc := p.location(name)
	if loc < 0 {
		return
	}
	switch u := v.(type) {
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &u[0])
	case [4]float32:
		gl.Uniform4f(loc, u[0], u[1], u[2], u[3])
	case float32:
		gl.Uniform1f(loc, u)
	case int32:
		gl.Uniform1i(loc, u)
	case int:
		gl.Uniform1i(loc, int32(u))
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

// cstr null-terminates GLSL sources for gl.Strs.
func cstr(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
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
