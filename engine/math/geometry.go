package math

// GeometryGenerateNormals assigns flat face normals to every vertex referenced by indices.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 2; i < len(indices); i += 3 {
		i0 := indices[i-2]
		i1 := indices[i-1]
		i2 := indices[i]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2).Normalized()

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryExtents returns the tight extents of the vertex positions.
// An empty vertex list yields zero extents at the origin.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	out := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := 1; i < len(vertices); i++ {
		out.Min = out.Min.Min(vertices[i].Position)
		out.Max = out.Max.Max(vertices[i].Position)
	}
	return out
}
