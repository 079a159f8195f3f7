// Package niftitest writes minimal NIfTI-1 files for tests. Data is stored
// as float32 with a 348-byte header, a 4-byte extension pad and a 352-byte
// voxel offset, gzip-compressed when the target name ends in .gz.
package niftitest

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

const (
	headerSize    = 348
	voxOffset     = 352
	dtFloat32     = 16
	bitpixFloat32 = 32
)

// WriteFile writes a float32 NIfTI-1 volume of the given extents to path.
// voxel supplies the intensity for each (x, y, z, t); a nil voxel writes
// zeros. A t extent of 1 produces a 3D header, larger values a 4D one.
func WriteFile(path string, nx, ny, nz, nt int, voxel func(x, y, z, t int) float32) error {
	if nx <= 0 || ny <= 0 || nz <= 0 || nt <= 0 {
		return fmt.Errorf("invalid extents %dx%dx%dx%d", nx, ny, nz, nt)
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, nx, ny, nz, nt); err != nil {
		return err
	}

	data := make([]float32, 0, nx*ny*nz*nt)
	for t := 0; t < nt; t++ {
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					var v float32
					if voxel != nil {
						v = voxel(x, y, z, t)
					}
					data = append(data, v)
				}
			}
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, nx, ny, nz, nt int) error {
	hdr := make([]byte, voxOffset)
	le := binary.LittleEndian

	le.PutUint32(hdr[0:], headerSize)

	ndim := int16(3)
	if nt > 1 {
		ndim = 4
	}
	dims := []int16{ndim, int16(nx), int16(ny), int16(nz), int16(nt), 1, 1, 1}
	for i, d := range dims {
		le.PutUint16(hdr[40+2*i:], uint16(d))
	}

	le.PutUint16(hdr[70:], dtFloat32)
	le.PutUint16(hdr[72:], bitpixFloat32)

	// pixdim: qfac plus unit spacing on every axis.
	for i := 0; i < 8; i++ {
		le.PutUint32(hdr[76+4*i:], floatBits(1))
	}

	le.PutUint32(hdr[108:], floatBits(voxOffset)) // vox_offset
	le.PutUint32(hdr[112:], floatBits(1))         // scl_slope

	// Identity sform so readers that insist on orientation are satisfied.
	le.PutUint16(hdr[254:], 1) // sform_code
	le.PutUint32(hdr[280:], floatBits(1))
	le.PutUint32(hdr[300:], floatBits(1))
	le.PutUint32(hdr[320:], floatBits(1))

	copy(hdr[344:], "n+1\x00")

	_, err := buf.Write(hdr)
	return err
}

func floatBits(v float32) uint32 {
	return math.Float32bits(v)
}
