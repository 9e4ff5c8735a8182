package pnm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Encode writes m to w at its normalized depth, so the maximum value in the
// header is 255 for 8-bit samples and 65535 for 16-bit samples. 16-bit
// samples are written using the byte order in opts.
func Encode(w io.Writer, m *Image, opts Options) error {
	if m.Magic != Gray && m.Magic != RGB {
		return errors.New("pnm: unknown magic number")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return errors.New("pnm: image has no pixels")
	}

	maxVal, n := maxVal8, len(m.Pix8)
	if m.Pix16 != nil {
		maxVal, n = maxVal16, len(m.Pix16)
	}
	if n != m.Samples() {
		return fmt.Errorf("pnm: have %d samples, want %d", n, m.Samples())
	}

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", m.Magic, m.Width, m.Height, maxVal); err != nil {
		return err
	}

	if m.Pix16 == nil {
		if _, err := bw.Write(m.Pix8); err != nil {
			return err
		}
		return bw.Flush()
	}

	order := opts.byteOrder()
	var tmp [2]byte
	for _, v := range m.Pix16 {
		order.PutUint16(tmp[:], v)
		if _, err := bw.Write(tmp[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
