package debug

import (
	"fmt"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// Vertex is the debug mesh vertex layout. The texture coordinate never
// samples anything; a coordinate at the split marker tells the wireframe
// shader to draw that edge as a visible segment boundary.
type Vertex struct {
	Position math.Vec3
	Texcoord math.Vec2
}

var (
	uvInterior = math.NewVec2(0.5, 0.5)
	uvSplit    = math.NewVec2(1.0, 1.0)
)

func markSplit(v Vertex) Vertex {
	v.Texcoord = uvSplit
	return v
}

/**
 * @brief Builds a triangle fan approximating a circle of the given radius in
 * the XZ plane, translated by yOffset on Y.
 *
 * Vertex 0 is the fan center. When uvSplits > 0, vertex 1 is a duplicate of
 * the center carrying the split marker, and every (tessellations/uvSplits)-th
 * rim segment appends a marked duplicate of its rim vertex plus one extra
 * "spoke" triangle against the marked center. The fan is closed by an
 * explicit final triangle wrapping back onto the first rim vertex.
 *
 * Output sizes: tessellations+1 vertices (+1+uvSplits when splits are
 * requested) and 3*tessellations+3 indices (+3*uvSplits).
 */
func GenerateCircle(radius float32, tessellations, uvSplits int, yOffset float32) ([]Vertex, []uint32, error) {
	if tessellations < 3 {
		return nil, nil, fmt.Errorf("%w: circle needs at least 3 tessellations, got %d", core.ErrInvalidArgument, tessellations)
	}
	hasSplits := 0
	if uvSplits > 0 {
		if tessellations%uvSplits != 0 {
			return nil, nil, fmt.Errorf("%w: %d tessellations not evenly divisible by %d uv splits", core.ErrInvalidArgument, tessellations, uvSplits)
		}
		hasSplits = 1
	}

	vertices := make([]Vertex, tessellations+1+hasSplits+uvSplits)
	indices := make([]uint32, 0, tessellations*3+3+uvSplits*3)

	vertices[0] = Vertex{Position: math.NewVec3(0, yOffset, 0), Texcoord: uvInterior}
	if hasSplits > 0 {
		vertices[1] = markSplit(vertices[0])
	}

	base := 1 + hasSplits
	step := math.K_PI_2 / float32(tessellations)
	for i := 0; i < tessellations; i++ {
		angle := float32(i) * step
		vertices[base+i] = Vertex{
			Position: math.NewVec3(math.Cos(angle)*radius, yOffset, math.Sin(angle)*radius),
			Texcoord: uvInterior,
		}
	}

	// Rim clones for the spokes go after the rim itself.
	cursor := base + tessellations
	for i := 0; i < tessellations; i++ {
		next := base + (i+1)%tessellations
		if uvSplits > 0 && i%(tessellations/uvSplits) == 0 {
			vertices[cursor] = markSplit(vertices[base+i])
			indices = append(indices, 1, uint32(cursor), uint32(next))
			cursor++
		}
		indices = append(indices, 0, uint32(base+i), uint32(next))
	}
	// Close the fan explicitly back onto the first rim vertex.
	indices = append(indices, 0, uint32(base+tessellations-1), uint32(base))

	return vertices, indices, nil
}

/**
 * @brief Builds a quad of the given size in the XZ plane, centered on the
 * origin.
 */
func GenerateQuad(width, height float32) ([]Vertex, []uint32) {
	hw := width * 0.5
	hh := height * 0.5

	vertices := []Vertex{
		{Position: math.NewVec3(-hw, 0, -hh), Texcoord: math.NewVec2(0.0, 0.0)},
		{Position: math.NewVec3(hw, 0, hh), Texcoord: math.NewVec2(1.0, 1.0)},
		{Position: math.NewVec3(-hw, 0, hh), Texcoord: math.NewVec2(0.0, 1.0)},
		{Position: math.NewVec3(hw, 0, -hh), Texcoord: math.NewVec2(1.0, 0.0)},
	}
	indices := []uint32{0, 1, 2, 0, 3, 1}

	return vertices, indices
}

/**
 * @brief Builds an axis-aligned box centered on the origin. Each face keeps
 * its own four vertices so face edges stay crisp in wireframe fill.
 */
func GenerateCube(width, height, depth float32) ([]Vertex, []uint32) {
	hw := width * 0.5
	hh := height * 0.5
	hd := depth * 0.5

	// Four corners per face: front, back, left, right, bottom, top.
	faces := [6][4]math.Vec3{
		{{X: -hw, Y: -hh, Z: hd}, {X: hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: hd}, {X: hw, Y: -hh, Z: hd}},
		{{X: hw, Y: -hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: -hd}, {X: -hw, Y: -hh, Z: -hd}},
		{{X: -hw, Y: -hh, Z: -hd}, {X: -hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: -hd}, {X: -hw, Y: -hh, Z: hd}},
		{{X: hw, Y: -hh, Z: hd}, {X: hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: hd}, {X: hw, Y: -hh, Z: -hd}},
		{{X: hw, Y: -hh, Z: hd}, {X: -hw, Y: -hh, Z: -hd}, {X: hw, Y: -hh, Z: -hd}, {X: -hw, Y: -hh, Z: hd}},
		{{X: -hw, Y: hh, Z: hd}, {X: hw, Y: hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: hd}},
	}
	uvs := [4]math.Vec2{{X: 0.0, Y: 0.0}, {X: 1.0, Y: 1.0}, {X: 0.0, Y: 1.0}, {X: 1.0, Y: 0.0}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for f := 0; f < 6; f++ {
		v := uint32(f * 4)
		for c := 0; c < 4; c++ {
			vertices = append(vertices, Vertex{Position: faces[f][c], Texcoord: uvs[c]})
		}
		indices = append(indices, v+0, v+1, v+2, v+0, v+3, v+1)
	}

	return vertices, indices
}

/**
 * @brief Builds a cylinder from two circle caps offset to +/- height/2 and a
 * band of side quads. The side rings carry their own vertices so split
 * markers on the sides never disturb cap topology; at every
 * (tessellations/uvSplits)-th rim index the quad's leading edge is cloned
 * with the split marker.
 */
func GenerateCylinder(radius, height float32, tessellations, uvSplits int) ([]Vertex, []uint32, error) {
	topVerts, topIdx, err := GenerateCircle(radius, tessellations, uvSplits, height*0.5)
	if err != nil {
		return nil, nil, err
	}
	bottomVerts, bottomIdx, err := GenerateCircle(radius, tessellations, uvSplits, -height*0.5)
	if err != nil {
		return nil, nil, err
	}

	vertices := make([]Vertex, 0, len(topVerts)+len(bottomVerts)+2*tessellations+2*uvSplits)
	indices := make([]uint32, 0, len(topIdx)+len(bottomIdx)+6*tessellations)

	vertices = append(vertices, topVerts...)
	indices = append(indices, topIdx...)

	offset := uint32(len(vertices))
	vertices = append(vertices, bottomVerts...)
	for _, idx := range bottomIdx {
		indices = append(indices, idx+offset)
	}

	// Side rings: top_i = ringStart + 2i, bottom_i = ringStart + 2i + 1.
	ringStart := uint32(len(vertices))
	step := math.K_PI_2 / float32(tessellations)
	for i := 0; i < tessellations; i++ {
		angle := float32(i) * step
		x := math.Cos(angle) * radius
		z := math.Sin(angle) * radius
		vertices = append(vertices,
			Vertex{Position: math.NewVec3(x, height*0.5, z), Texcoord: uvInterior},
			Vertex{Position: math.NewVec3(x, -height*0.5, z), Texcoord: uvInterior})
	}

	splitEvery := 0
	if uvSplits > 0 {
		splitEvery = tessellations / uvSplits
	}
	for i := 0; i < tessellations; i++ {
		top := ringStart + uint32(2*i)
		bottom := top + 1
		nextTop := ringStart + uint32(2*((i+1)%tessellations))
		nextBottom := nextTop + 1
		if splitEvery > 0 && i%splitEvery == 0 {
			c := uint32(len(vertices))
			vertices = append(vertices, markSplit(vertices[top]), markSplit(vertices[bottom]))
			top, bottom = c, c+1
		}
		indices = append(indices, top, bottom, nextTop, nextTop, bottom, nextBottom)
	}

	return vertices, indices, nil
}

/**
 * @brief Builds a cone centered on the origin: a base cap circle at
 * -height/2 plus a second circle fan whose center vertices are raised to the
 * apex at +height/2. uvSplits controls the side spokes, uvSplitsBottom the
 * base cap spokes.
 */
func GenerateCone(radius, height float32, tessellations, uvSplits, uvSplitsBottom int) ([]Vertex, []uint32, error) {
	capVerts, capIdx, err := GenerateCircle(radius, tessellations, uvSplitsBottom, -height*0.5)
	if err != nil {
		return nil, nil, err
	}
	sideVerts, sideIdx, err := GenerateCircle(radius, tessellations, uvSplits, -height*0.5)
	if err != nil {
		return nil, nil, err
	}

	// Raising the fan centers turns the second disc into the cone sides.
	sideVerts[0].Position.Y = height * 0.5
	if uvSplits > 0 {
		sideVerts[1].Position.Y = height * 0.5
	}

	vertices := make([]Vertex, 0, len(capVerts)+len(sideVerts))
	indices := make([]uint32, 0, len(capIdx)+len(sideIdx))

	vertices = append(vertices, capVerts...)
	indices = append(indices, capIdx...)

	offset := uint32(len(vertices))
	vertices = append(vertices, sideVerts...)
	for _, idx := range sideIdx {
		indices = append(indices, idx+offset)
	}

	return vertices, indices, nil
}

// ringDef describes one latitude ring of a lat/long grid: its height and
// radius.
type ringDef struct {
	y float32
	r float32
}

// countGridSplitVertices enumerates the extra split vertices a ring grid
// needs. There is no known closed form for this count; the fill loop in
// generateRingGrid must walk the exact same (row, column) pairs with the
// exact same boundary conditions, consuming 2 clones on a single boundary
// and 4 when a row and a column boundary coincide.
func countGridSplitVertices(rows, horizontalSegments, splitEveryV, splitEveryH int) int {
	extra := 0
	for v := 0; v < rows; v++ {
		for h := 0; h < horizontalSegments; h++ {
			onV := splitEveryV > 0 && v%splitEveryV == 0
			onH := splitEveryH > 0 && h%splitEveryH == 0
			switch {
			case onV && onH:
				extra += 4
			case onV || onH:
				extra += 2
			}
		}
	}
	return extra
}

// generateRingGrid stitches consecutive latitude rings into quads, two
// triangles each. Each ring stores horizontalSegments+1 vertices with the
// seam duplicated. Quads whose row or column index lands on a split
// boundary get their leading edge cloned with the split marker.
func generateRingGrid(rings []ringDef, horizontalSegments, splitEveryV, splitEveryH int) ([]Vertex, []uint32) {
	rows := len(rings) - 1
	stride := horizontalSegments + 1

	extra := countGridSplitVertices(rows, horizontalSegments, splitEveryV, splitEveryH)
	vertices := make([]Vertex, 0, len(rings)*stride+extra)
	indices := make([]uint32, 0, rows*horizontalSegments*6)

	step := math.K_PI_2 / float32(horizontalSegments)
	for _, ring := range rings {
		for h := 0; h <= horizontalSegments; h++ {
			lon := float32(h) * step
			vertices = append(vertices, Vertex{
				Position: math.NewVec3(math.Cos(lon)*ring.r, ring.y, math.Sin(lon)*ring.r),
				Texcoord: uvInterior,
			})
		}
	}

	for v := 0; v < rows; v++ {
		for h := 0; h < horizontalSegments; h++ {
			i00 := uint32(v*stride + h)
			i01 := i00 + 1
			i10 := uint32((v+1)*stride + h)
			i11 := i10 + 1

			onV := splitEveryV > 0 && v%splitEveryV == 0
			onH := splitEveryH > 0 && h%splitEveryH == 0
			if onV {
				c := uint32(len(vertices))
				vertices = append(vertices, markSplit(vertices[i00]), markSplit(vertices[i01]))
				i00, i01 = c, c+1
			}
			if onH {
				c := uint32(len(vertices))
				vertices = append(vertices, markSplit(vertices[i00]), markSplit(vertices[i10]))
				i00, i10 = c, c+1
			}
			indices = append(indices, i00, i10, i01, i01, i10, i11)
		}
	}

	return vertices, indices
}

/**
 * @brief Builds a lat/long sphere with tessellations vertical segments and
 * twice as many horizontal segments. uvSplits inserts marked boundary edges
 * in both angular dimensions and must evenly divide the segment counts.
 */
func GenerateSphere(radius float32, tessellations, uvSplits int) ([]Vertex, []uint32, error) {
	if tessellations < 3 {
		return nil, nil, fmt.Errorf("%w: sphere needs at least 3 tessellations, got %d", core.ErrInvalidArgument, tessellations)
	}
	verticalSegments := tessellations
	horizontalSegments := tessellations * 2

	splitEveryV, splitEveryH := 0, 0
	if uvSplits > 0 {
		if verticalSegments%uvSplits != 0 || horizontalSegments%uvSplits != 0 {
			return nil, nil, fmt.Errorf("%w: sphere segment counts (%d, %d) not evenly divisible by %d uv splits", core.ErrInvalidArgument, verticalSegments, horizontalSegments, uvSplits)
		}
		splitEveryV = verticalSegments / uvSplits
		splitEveryH = horizontalSegments / uvSplits
	}

	rings := make([]ringDef, 0, verticalSegments+1)
	for v := 0; v <= verticalSegments; v++ {
		lat := (float32(v)/float32(verticalSegments))*math.K_PI - math.K_HALF_PI
		rings = append(rings, ringDef{y: math.Sin(lat) * radius, r: math.Cos(lat) * radius})
	}

	vertices, indices := generateRingGrid(rings, horizontalSegments, splitEveryV, splitEveryH)
	return vertices, indices, nil
}

/**
 * @brief Builds a capsule: two hemisphere ring stacks whose centers sit at
 * +/- height/2, with the equator ring duplicated at both offsets to form
 * the cylindrical middle band. tessellations must be even so the equator
 * falls on a ring boundary.
 */
func GenerateCapsule(radius, height float32, tessellations, uvSplits int) ([]Vertex, []uint32, error) {
	if tessellations < 4 || tessellations%2 != 0 {
		return nil, nil, fmt.Errorf("%w: capsule needs an even tessellation count >= 4, got %d", core.ErrInvalidArgument, tessellations)
	}
	verticalSegments := tessellations
	horizontalSegments := tessellations * 2

	splitEveryV, splitEveryH := 0, 0
	if uvSplits > 0 {
		if verticalSegments%uvSplits != 0 || horizontalSegments%uvSplits != 0 {
			return nil, nil, fmt.Errorf("%w: capsule segment counts (%d, %d) not evenly divisible by %d uv splits", core.ErrInvalidArgument, verticalSegments, horizontalSegments, uvSplits)
		}
		splitEveryV = verticalSegments / uvSplits
		splitEveryH = horizontalSegments / uvSplits
	}

	half := verticalSegments / 2
	halfHeight := height * 0.5

	rings := make([]ringDef, 0, verticalSegments+2)
	// Bottom hemisphere, pole to equator.
	for v := 0; v <= half; v++ {
		lat := (float32(v)/float32(half))*math.K_HALF_PI - math.K_HALF_PI
		rings = append(rings, ringDef{y: math.Sin(lat)*radius - halfHeight, r: math.Cos(lat) * radius})
	}
	// Top hemisphere, equator to pole. The equator appears twice, once per
	// offset, which forms the cylinder band between the two.
	for v := 0; v <= half; v++ {
		lat := (float32(v) / float32(half)) * math.K_HALF_PI
		rings = append(rings, ringDef{y: math.Sin(lat)*radius + halfHeight, r: math.Cos(lat) * radius})
	}

	vertices, indices := generateRingGrid(rings, horizontalSegments, splitEveryV, splitEveryH)
	return vertices, indices, nil
}

// Mesh holds one canonical unit shape plus the offsets of its data within
// the cache's shared buffers, in elements. Immutable once built.
type Mesh struct {
	Name         string
	Kind         ShapeKind
	Vertices     []Vertex
	Indices      []uint32
	VertexOffset uint32
	IndexOffset  uint32
}

// MeshCache owns the canonical unit meshes for every instanced shape kind.
// It is built once at startup and read-only afterwards, so it may be shared
// freely between the batcher and the renderer.
type MeshCache struct {
	meshes   [InstancedKindCount]*Mesh
	vertices []Vertex
	indices  []uint32
}

// NewMeshCache generates all canonical meshes with the configured
// tessellation and split counts. Invalid combinations abort construction;
// nothing is cached partially.
func NewMeshCache(cfg *Config) (*MeshCache, error) {
	mc := &MeshCache{}

	add := func(kind ShapeKind, verts []Vertex, idx []uint32, err error) error {
		if err != nil {
			return fmt.Errorf("generate %s mesh: %w", kind, err)
		}
		mc.meshes[kind] = &Mesh{
			Name:         core.GenerateName("debug-" + kind.String()),
			Kind:         kind,
			Vertices:     verts,
			Indices:      idx,
			VertexOffset: uint32(len(mc.vertices)),
			IndexOffset:  uint32(len(mc.indices)),
		}
		mc.vertices = append(mc.vertices, verts...)
		mc.indices = append(mc.indices, idx...)
		return nil
	}

	t := cfg.Tessellation
	s := cfg.UVSplits

	qv, qi := GenerateQuad(1, 1)
	if err := add(KindQuad, qv, qi, nil); err != nil {
		return nil, err
	}
	cv, ci, err := GenerateCircle(0.5, t, s, 0)
	if err := add(KindCircle, cv, ci, err); err != nil {
		return nil, err
	}
	sv, si, err := GenerateSphere(0.5, t, s)
	if err := add(KindSphere, sv, si, err); err != nil {
		return nil, err
	}
	bv, bi := GenerateCube(1, 1, 1)
	if err := add(KindCube, bv, bi, nil); err != nil {
		return nil, err
	}
	av, ai, err := GenerateCapsule(0.5, 1, t, s)
	if err := add(KindCapsule, av, ai, err); err != nil {
		return nil, err
	}
	yv, yi, err := GenerateCylinder(0.5, 1, t, s)
	if err := add(KindCylinder, yv, yi, err); err != nil {
		return nil, err
	}
	nv, ni, err := GenerateCone(0.5, 1, t, s, s)
	if err := add(KindCone, nv, ni, err); err != nil {
		return nil, err
	}

	for _, m := range mc.meshes {
		core.LogDebug("cached %s: %d vertices, %d indices", m.Name, len(m.Vertices), len(m.Indices))
	}

	return mc, nil
}

// Mesh returns the cached mesh for an instanced shape kind.
func (mc *MeshCache) Mesh(kind ShapeKind) *Mesh {
	return mc.meshes[kind]
}

// Vertices returns the shared vertex buffer holding every cached mesh.
func (mc *MeshCache) Vertices() []Vertex {
	return mc.vertices
}

// Indices returns the shared index buffer holding every cached mesh.
func (mc *MeshCache) Indices() []uint32 {
	return mc.indices
}
