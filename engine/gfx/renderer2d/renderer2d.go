package renderer2d

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/core"
)

// Max textures per batch (common GL limit is 16)
const maxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats
const vStride = 9
const vertsPerQuad = 4
const indsPerQuad = 6

var quadVertexLayout = core.VertexLayout{
	Stride: vStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},     // pos
		{Location: 1, Size: 4, Type: core.AttribFloat32, Offset: 2 * 4}, // color
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4}, // uv
		{Location: 3, Size: 1, Type: core.AttribFloat32, Offset: 8 * 4}, // texIndex
	},
}

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// Renderer2D batches axis-aligned quads and flushes when the batch or the texture slots
// fill up, or when the scissor changes.
type Renderer2D struct {
	r      core.Renderer
	pipe   core.Pipeline
	white  core.Texture // 1x1 white (slot 0)
	texArr [maxTexSlots]core.Texture
	texCnt int

	verts     []float32
	inds      []uint32
	quadCount int
	maxQuads  int

	mesh     core.Mesh
	samplers map[string]core.Texture
	uniforms map[string]any
	texNames [maxTexSlots]string

	vp    [16]float32
	stats Statistics
}

// New creates renderer and compiles the shader pipeline.
func New(r core.Renderer, vertSrc, fragSrc string, maxQuads int) (*Renderer2D, error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vertSrc,
		FragmentSource: fragSrc,
		Blend:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d pipeline: %w", err)
	}

	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: "nearest", MagFilter: "nearest",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d white texture: %w", err)
	}

	// One mesh sized for the biggest batch; flush overwrites it in place.
	mesh, err := r.CreateMesh(core.MeshDesc{
		Vertices: make([]float32, maxQuads*vertsPerQuad*vStride),
		Indices:  make([]uint32, maxQuads*indsPerQuad),
		Layout:   quadVertexLayout,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d mesh: %w", err)
	}

	rd := &Renderer2D{
		r: r, pipe: pipe, white: white, mesh: mesh, maxQuads: maxQuads,
		verts:    make([]float32, 0, maxQuads*vertsPerQuad*vStride),
		inds:     make([]uint32, 0, maxQuads*indsPerQuad),
		samplers: make(map[string]core.Texture, maxTexSlots),
		uniforms: make(map[string]any, 1),
	}
	for i := range rd.texNames {
		rd.texNames[i] = "uTex[" + strconv.Itoa(i) + "]"
	}
	return rd, nil
}

func (rd *Renderer2D) BeginScene(vp [16]float32) {
	rd.vp = vp
	rd.stats = Statistics{}
	rd.resetBatch()
}

func (rd *Renderer2D) EndScene() { rd.flush() }

// Stats returns the current frame statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// FillRect draws a solid rect from its top-left corner.
func (rd *Renderer2D) FillRect(x, y, w, h float32, color colors.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rd.quad(x, y, w, h, color, rd.texSlot(rd.white), 0, 0, 1, 1)
}

// FillRoundRect draws a rect with circular corners of radius r. Each corner row becomes
// one horizontal strip, so the cost grows with r.
func (rd *Renderer2D) FillRoundRect(x, y, w, h, r float32, color colors.Color) {
	r = min(r, w*0.5, h*0.5)
	if r < 1 {
		rd.FillRect(x, y, w, h, color)
		return
	}
	rows := int(math.Ceil(float64(r)))
	step := r / float32(rows)
	for i := 0; i < rows; i++ {
		// distance from the corner circle's center to this strip's middle
		dy := r - (float32(i)+0.5)*step
		inset := r - float32(math.Sqrt(float64(r*r-dy*dy)))
		rd.FillRect(x+inset, y+float32(i)*step, w-2*inset, step, color)
		rd.FillRect(x+inset, y+h-float32(i+1)*step, w-2*inset, step, color)
	}
	rd.FillRect(x, y+r, w, h-2*r, color)
}

// DrawTexture stretches the whole texture over the rect (tint multiplies).
func (rd *Renderer2D) DrawTexture(x, y, w, h float32, tex core.Texture, tint colors.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rd.quad(x, y, w, h, tint, rd.texSlot(tex), 0, 0, 1, 1)
}

// DrawSubTexture draws the UV sub-rect of an atlas over the rect.
func (rd *Renderer2D) DrawSubTexture(x, y, w, h float32, sub SubTexture2D, tint colors.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rd.quad(x, y, w, h, tint, rd.texSlot(sub.Texture), sub.U0, sub.V0, sub.U1, sub.V1)
}

// SetScissor flushes pending quads and restricts later draws to a framebuffer rect.
func (rd *Renderer2D) SetScissor(x, y, w, h int, enabled bool) {
	rd.flush()
	rd.r.SetScissor(x, y, w, h, enabled)
}

// --- internals ---

func (rd *Renderer2D) texSlot(t core.Texture) float32 {
	for i := 0; i < rd.texCnt; i++ {
		if rd.texArr[i] == t {
			return float32(i)
		}
	}
	if rd.texCnt >= maxTexSlots {
		rd.flush()
	}
	rd.texArr[rd.texCnt] = t
	rd.texCnt++
	rd.stats.TextureCount = max(rd.stats.TextureCount, rd.texCnt)
	return float32(rd.texCnt - 1)
}

func (rd *Renderer2D) quad(x, y, w, h float32, color colors.Color, texIndex float32, u0, v0, u1, v1 float32) {
	if rd.quadCount >= rd.maxQuads {
		// keep the texture bound by texSlot in the next batch
		tex := rd.texArr[int(texIndex)]
		rd.flush()
		texIndex = rd.texSlot(tex)
	}

	// TL, TR, BL, BR; Y grows downward.
	corners := [4][4]float32{
		{x, y, u0, v0},
		{x + w, y, u1, v0},
		{x, y + h, u0, v1},
		{x + w, y + h, u1, v1},
	}
	start := uint32(len(rd.verts) / vStride)
	for _, p := range corners {
		rd.verts = append(rd.verts,
			p[0], p[1],
			color[0], color[1], color[2], color[3],
			p[2], p[3],
			texIndex,
		)
	}
	rd.inds = append(rd.inds,
		start+0, start+2, start+1,
		start+1, start+2, start+3,
	)
	rd.quadCount++
	rd.stats.QuadCount++
}

func (rd *Renderer2D) flush() {
	if rd.quadCount == 0 {
		return
	}

	if err := rd.r.UpdateMesh(rd.mesh, rd.verts, rd.inds); err != nil {
		panic(err)
	}

	clear(rd.samplers)
	for i := 0; i < rd.texCnt; i++ {
		rd.samplers[rd.texNames[i]] = rd.texArr[i]
	}
	rd.uniforms["uVP"] = rd.vp

	rd.r.Draw(core.DrawCmd{
		Pipe:       rd.pipe,
		Mesh:       rd.mesh,
		IndexCount: len(rd.inds),
		Uniforms:   rd.uniforms,
		Samplers:   rd.samplers,
	})
	rd.stats.DrawCalls++

	rd.resetBatch()
}

func (rd *Renderer2D) resetBatch() {
	rd.verts = rd.verts[:0]
	rd.inds = rd.inds[:0]
	rd.quadCount = 0
	clear(rd.texArr[:])
	rd.texArr[0] = rd.white
	rd.texCnt = 1
}
