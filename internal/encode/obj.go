package encode

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/superoptimizer/volcano/internal/mesh"
)

// WriteOBJ writes a Wavefront OBJ, grounded on
// original_source/third-party/miniobj.h's write_obj.
func WriteOBJ(path string, m mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# OBJ file created by volcano mesh writer\n")
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fmt.Fprintf(w, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}
	return w.Flush()
}

// ReadOBJ parses the "v x y z" and "f a b c" subset of Wavefront OBJ
// that WriteOBJ produces, tolerating "a/b/c"-style face indices by
// taking only the leading vertex index of each triple, grounded on
// original_source/third-party/miniobj.h's read_obj.
func ReadOBJ(path string) (mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return mesh.Mesh{}, err
	}
	defer f.Close()

	var m mesh.Mesh
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "v "):
			fields := strings.Fields(line[2:])
			if len(fields) < 3 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[0], 32)
			y, _ := strconv.ParseFloat(fields[1], 32)
			z, _ := strconv.ParseFloat(fields[2], 32)
			m.Vertices = append(m.Vertices, mesh.Vertex{X: float32(x), Y: float32(y), Z: float32(z)})
		case strings.HasPrefix(line, "f "):
			fields := strings.Fields(line[2:])
			if len(fields) < 3 {
				continue
			}
			for _, tok := range fields[:3] {
				idxStr := strings.SplitN(tok, "/", 2)[0]
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					continue
				}
				m.Indices = append(m.Indices, int32(idx-1))
			}
		}
	}
	return m, sc.Err()
}
