package encode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// VCPS is a "volume cartesian point set": a width*height grid of
// dim-component float32 points (typically dim=3 for x,y,z), the
// format used for segmentation/flattening point clouds. Grounded on
// original_source/third-party/minivcps.h's read_vcps/write_vcps.
type VCPS struct {
	Width, Height, Dim int
	Data               []float32
}

// WriteVCPS writes the text header followed by raw little-endian
// float32 data, mirroring write_vcps's two-phase (text header, binary
// append) structure.
func WriteVCPS(path string, v VCPS) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "width: %d\n", v.Width)
	fmt.Fprintf(w, "height: %d\n", v.Height)
	fmt.Fprintf(w, "dim: %d\n", v.Dim)
	fmt.Fprintf(w, "ordered: true\n")
	fmt.Fprintf(w, "type: float\n")
	fmt.Fprintf(w, "version: 1\n")
	fmt.Fprintf(w, "<>\n")
	if err := w.Flush(); err != nil {
		return err
	}

	buf := make([]byte, 4*len(v.Data))
	for i, val := range v.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(val))
	}
	_, err = f.Write(buf)
	return err
}

// ReadVCPS parses the header then reads width*height*dim float32
// values, grounded on minivcps.h's read_vcps (float destination type
// only; double-typed files are not produced by this pipeline).
func ReadVCPS(path string) (VCPS, error) {
	f, err := os.Open(path)
	if err != nil {
		return VCPS{}, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var v VCPS
	headerComplete := false
	ordered := false
	srcType := ""
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "<>" {
			headerComplete = true
			break
		}
		if line != "" {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				val := strings.TrimSpace(parts[1])
				switch key {
				case "width":
					v.Width, _ = strconv.Atoi(val)
				case "height":
					v.Height, _ = strconv.Atoi(val)
				case "dim":
					v.Dim, _ = strconv.Atoi(val)
				case "type":
					srcType = val
				case "ordered":
					ordered = val == "true"
				}
			}
		}
		if err != nil {
			break
		}
	}
	if !headerComplete || v.Width == 0 || v.Height == 0 || v.Dim == 0 || !ordered {
		return VCPS{}, fmt.Errorf("encode: invalid vcps header (w=%d h=%d d=%d ordered=%v)", v.Width, v.Height, v.Dim, ordered)
	}
	if srcType != "float" && srcType != "double" {
		return VCPS{}, fmt.Errorf("encode: unsupported vcps type %q", srcType)
	}

	total := v.Width * v.Height * v.Dim
	v.Data = make([]float32, total)
	if srcType == "float" {
		buf := make([]byte, 4*total)
		if _, err := readFull(r, buf); err != nil {
			return VCPS{}, err
		}
		for i := range v.Data {
			v.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	} else {
		buf := make([]byte, 8*total)
		if _, err := readFull(r, buf); err != nil {
			return VCPS{}, err
		}
		for i := range v.Data {
			bits := binary.LittleEndian.Uint64(buf[i*8:])
			v.Data[i] = float32(math.Float64frombits(bits))
		}
	}
	return v, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
