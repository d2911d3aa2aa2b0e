// Package encode implements the mesh/volume interchange formats the
// pipeline reads and writes, grounded on original_source/third-party's
// mini{ply,obj,tiff,nrrd,ppm,vcps}.h headers.
package encode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/superoptimizer/volcano/internal/mesh"
)

// WritePLY writes an ASCII PLY, grounded on
// original_source/third-party/miniply.h's write_ply (here always
// without normals, matching volcano.h's own write_mesh_to_ply).
func WritePLY(path string, m mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ply\n")
	fmt.Fprintf(w, "format ascii 1.0\n")
	fmt.Fprintf(w, "comment Created by volcano mesh writer\n")
	fmt.Fprintf(w, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintf(w, "property float x\n")
	fmt.Fprintf(w, "property float y\n")
	fmt.Fprintf(w, "property float z\n")
	fmt.Fprintf(w, "element face %d\n", len(m.Indices)/3)
	fmt.Fprintf(w, "property list uchar int vertex_indices\n")
	fmt.Fprintf(w, "end_header\n")

	for _, v := range m.Vertices {
		fmt.Fprintf(w, "%.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		fmt.Fprintf(w, "3 %d %d %d\n", m.Indices[i], m.Indices[i+1], m.Indices[i+2])
	}
	return w.Flush()
}

// ReadPLY reads the ASCII PLY subset WritePLY produces: a vertex
// element of x,y,z floats and an optional face list of triangles.
func ReadPLY(path string) (mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return mesh.Mesh{}, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() || !strings.HasPrefix(sc.Text(), "ply") {
		return mesh.Mesh{}, fmt.Errorf("encode: not a ply file")
	}

	vertexCount, faceCount := 0, 0
	for sc.Scan() {
		line := sc.Text()
		if line == "end_header" {
			break
		}
		if strings.HasPrefix(line, "element vertex") {
			fmt.Sscanf(line, "element vertex %d", &vertexCount)
		} else if strings.HasPrefix(line, "element face") {
			fmt.Sscanf(line, "element face %d", &faceCount)
		}
	}

	m := mesh.Mesh{
		Vertices: make([]mesh.Vertex, 0, vertexCount),
		Indices:  make([]int32, 0, faceCount*3),
	}
	for i := 0; i < vertexCount; i++ {
		if !sc.Scan() {
			return mesh.Mesh{}, io.ErrUnexpectedEOF
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			return mesh.Mesh{}, fmt.Errorf("encode: malformed ply vertex line %q", sc.Text())
		}
		x, _ := strconv.ParseFloat(fields[0], 32)
		y, _ := strconv.ParseFloat(fields[1], 32)
		z, _ := strconv.ParseFloat(fields[2], 32)
		m.Vertices = append(m.Vertices, mesh.Vertex{X: float32(x), Y: float32(y), Z: float32(z)})
	}
	for i := 0; i < faceCount; i++ {
		if !sc.Scan() {
			return mesh.Mesh{}, io.ErrUnexpectedEOF
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "3" {
			return mesh.Mesh{}, fmt.Errorf("encode: only triangular ply faces are supported, got %q", sc.Text())
		}
		for _, fv := range fields[1:4] {
			idx, err := strconv.Atoi(fv)
			if err != nil {
				return mesh.Mesh{}, err
			}
			m.Indices = append(m.Indices, int32(idx))
		}
	}
	return m, nil
}
