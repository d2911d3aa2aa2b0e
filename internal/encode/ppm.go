package encode

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Image is a width*height*3 (RGB) u8 raster, grounded on
// original_source/third-party/minippm.h's ppm_image.
type Image struct {
	Width, Height uint32
	MaxVal        uint8
	Data          []uint8
}

// NewImage allocates a zeroed RGB image.
func NewImage(width, height uint32) *Image {
	return &Image{Width: width, Height: height, MaxVal: 255, Data: make([]uint8, width*height*3)}
}

// SetPixel writes an RGB triple, a no-op out of bounds.
func (img *Image) SetPixel(x, y uint32, r, g, b uint8) {
	if x >= img.Width || y >= img.Height {
		return
	}
	idx := (y*img.Width + x) * 3
	img.Data[idx], img.Data[idx+1], img.Data[idx+2] = r, g, b
}

// WritePPM writes a binary (P6) or ASCII (P3) PPM, grounded on
// original_source/third-party/minippm.h's write_ppm.
func WritePPM(path string, img *Image, ascii bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	magic := "P6"
	if ascii {
		magic = "P3"
	}
	fmt.Fprintf(w, "%s\n%d %d\n%d\n", magic, img.Width, img.Height, img.MaxVal)

	if ascii {
		for i, v := range img.Data {
			fmt.Fprintf(w, "%d", v)
			if (i+1)%3 == 0 {
				fmt.Fprint(w, "\n")
			} else {
				fmt.Fprint(w, " ")
			}
		}
	} else {
		if _, err := w.Write(img.Data); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadPPM reads a binary or ASCII PPM, grounded on
// original_source/third-party/minippm.h's read_ppm.
func ReadPPM(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic string
	var width, height int
	var maxVal int
	if _, err := fmt.Fscan(r, &magic); err != nil {
		return nil, err
	}
	if magic != "P3" && magic != "P6" {
		return nil, fmt.Errorf("encode: unsupported ppm magic %q", magic)
	}
	if _, err := fmt.Fscan(r, &width, &height, &maxVal); err != nil {
		return nil, err
	}
	// Consume the single whitespace byte separating the header from
	// binary pixel data.
	if magic == "P6" {
		if _, err := r.ReadByte(); err != nil {
			return nil, err
		}
	}

	img := NewImage(uint32(width), uint32(height))
	img.MaxVal = uint8(maxVal)
	n := width * height * 3

	if magic == "P6" {
		if _, err := io.ReadFull(r, img.Data); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			var v int
			if _, err := fmt.Fscan(r, &v); err != nil {
				return nil, err
			}
			img.Data[i] = uint8(v)
		}
	}
	return img, nil
}
