package export

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

// boxFaces are the six faces of a unit box as four corners each, counter
// clockwise seen from outside, plus the face normal.
var boxFaces = [6]struct {
	corners [4][3]float32
	normal  [3]float32
}{
	{[4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, [3]float32{0, 0, 1}},
	{[4][3]float32{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}, [3]float32{0, 0, -1}},
	{[4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, [3]float32{-1, 0, 0}},
	{[4][3]float32{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}, [3]float32{1, 0, 0}},
	{[4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, [3]float32{0, -1, 0}},
	{[4][3]float32{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}}, [3]float32{0, 1, 0}},
}

type meshBuffers struct {
	positions [][3]float32
	normals   [][3]float32
	colors    [][4]float32
	indices   []uint32
}

// VoxelBoxes returns one box per occupied voxel, coloured from blue (one
// triangle) to red (the longest list).
func VoxelBoxes(data *voxel.VoxelData) (positions, normals [][3]float32, colors [][4]float32, indices []uint32, err error) {
	part, err := data.Partition()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	maxLen := data.Stats().MaxListLength

	var mb meshBuffers
	data.Each(func(cell voxel.CellCoord, triangles []uint32) {
		box := part.CellBox(cell)
		size := box.Size()
		heat := float32(1)
		if maxLen > 1 {
			heat = float32(len(triangles)-1) / float32(maxLen-1)
		}
		colour := [4]float32{heat, 0.2, 1 - heat, 1}
		for _, f := range boxFaces {
			base := uint32(len(mb.positions))
			for _, c := range f.corners {
				p := box.Min.Add(size.Mul(math.NewVec3(c[0], c[1], c[2])))
				mb.positions = append(mb.positions, [3]float32{p.X, p.Y, p.Z})
				mb.normals = append(mb.normals, f.normal)
				mb.colors = append(mb.colors, colour)
			}
			mb.indices = append(mb.indices, base, base+1, base+2, base, base+2, base+3)
		}
	})
	return mb.positions, mb.normals, mb.colors, mb.indices, nil
}

/**
 * @brief Builds a glTF document holding the occupied voxels and, when given,
 * the source mesh.
 *
 * @param name The name of the grid.
 * @param data The voxel grid.
 * @param source The mesh the grid was built from. Optional.
 * @return The document.
 */
func Document(name string, data *voxel.VoxelData, source *metadata.GeometryConfig) (*gltf.Document, error) {
	positions, normals, colors, indices, err := VoxelBoxes(data)
	if err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxgrid"
	doc.Materials = []*gltf.Material{
		{
			Name: "voxels",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 1, 1, 0.35},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaBlend,
		},
		{
			Name: "mesh",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{0.8, 0.8, 0.8, 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		},
	}

	if len(indices) > 0 {
		prim := &gltf.Primitive{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
				gltf.COLOR_0:  modeler.WriteColor(doc, colors),
			},
			Indices:  gltf.Index(modeler.WriteIndices(doc, indices)),
			Material: gltf.Index(0),
		}
		addMesh(doc, fmt.Sprintf("%s_voxels", name), prim)
	}

	if source != nil && len(source.Indices) > 0 {
		pos := make([][3]float32, len(source.Vertices))
		nrm := make([][3]float32, len(source.Vertices))
		for i, v := range source.Vertices {
			pos[i] = [3]float32{v.Position.X, v.Position.Y, v.Position.Z}
			nrm[i] = [3]float32{v.Normal.X, v.Normal.Y, v.Normal.Z}
		}
		idx := make([]uint32, len(source.Indices)-len(source.Indices)%3)
		copy(idx, source.Indices)
		prim := &gltf.Primitive{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, pos),
				gltf.NORMAL:   modeler.WriteNormal(doc, nrm),
			},
			Indices:  gltf.Index(modeler.WriteIndices(doc, idx)),
			Material: gltf.Index(1),
		}
		addMesh(doc, fmt.Sprintf("%s_mesh", name), prim)
	}
	return doc, nil
}

func addMesh(doc *gltf.Document, name string, prim *gltf.Primitive) {
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}

// WriteGLB saves Document as a binary glTF file.
func WriteGLB(path, name string, data *voxel.VoxelData, source *metadata.GeometryConfig) error {
	doc, err := Document(name, data, source)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
