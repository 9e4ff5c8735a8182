package pnm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

var (
	// ErrUnsupportedMagic is returned when the file does not start with P5
	// or P6.
	ErrUnsupportedMagic = errors.New("pnm: unsupported magic number")
	// ErrMalformedHeader is returned when a header field is missing, not a
	// number or out of range.
	ErrMalformedHeader = errors.New("pnm: malformed header")
	// ErrTruncatedData is returned when there are fewer sample bytes than
	// the header dimensions require.
	ErrTruncatedData = errors.New("pnm: truncated sample data")
)

// Longest header token worth reading, anything longer can't be a valid field
const maxTokenLength = 16

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

type decoder struct {
	r    *bufio.Reader
	opts Options

	header Header
	image  *Image
}

// readToken reads the remainder of a whitespace delimited token that starts
// with first. The delimiter that ends the token is consumed.
func (d *decoder) readToken(first byte) (string, error) {
	buf := []byte{first}
	for {
		b, err := d.r.ReadByte()
		if err == io.EOF {
			return string(buf), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(b) {
			return string(buf), nil
		}
		if len(buf) == maxTokenLength {
			return "", fmt.Errorf("%w: token too long", ErrMalformedHeader)
		}
		buf = append(buf, b)
	}
}

func (d *decoder) readMagic() error {
	for {
		b, err := d.r.ReadByte()
		if err == io.EOF {
			return fmt.Errorf("%w: empty file", ErrUnsupportedMagic)
		}
		if err != nil {
			return err
		}
		if isSpace(b) {
			continue
		}

		token, err := d.readToken(b)
		if err != nil {
			if errors.Is(err, ErrMalformedHeader) {
				return ErrUnsupportedMagic
			}
			return err
		}

		magic, ok := parseMagic(token)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedMagic, token)
		}
		d.header.Magic = magic
		return nil
	}
}

// readField reads the next numeric header field, skipping whitespace and
// any comment lines in front of it.
func (d *decoder) readField(name string) (int, error) {
	for {
		b, err := d.r.ReadByte()
		if err == io.EOF {
			return 0, fmt.Errorf("%w: missing %s", ErrMalformedHeader, name)
		}
		if err != nil {
			return 0, err
		}

		switch {
		case isSpace(b):
		case b == '#':
			if _, err := d.r.ReadString('\n'); err != nil && err != io.EOF {
				return 0, err
			}
		default:
			token, err := d.readToken(b)
			if err != nil {
				return 0, err
			}
			n, err := strconv.ParseUint(token, 10, 31)
			if err != nil {
				return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedHeader, name, token)
			}
			return int(n), nil
		}
	}
}

func (d *decoder) readHeader() error {
	if err := d.readMagic(); err != nil {
		return err
	}

	var err error
	if d.header.Width, err = d.readField("width"); err != nil {
		return err
	}
	if d.header.Height, err = d.readField("height"); err != nil {
		return err
	}
	if d.header.MaxVal, err = d.readField("maximum value"); err != nil {
		return err
	}

	if d.header.Width == 0 || d.header.Height == 0 {
		return fmt.Errorf("%w: zero dimension %dx%d", ErrMalformedHeader, d.header.Width, d.header.Height)
	}
	if d.header.MaxVal == 0 || d.header.MaxVal > maxVal16 {
		return fmt.Errorf("%w: maximum value %d out of range", ErrMalformedHeader, d.header.MaxVal)
	}
	if d.header.Width > maxSamples/d.header.Height/d.header.Magic.Channels() {
		return fmt.Errorf("%w: image too large %dx%d", ErrMalformedHeader, d.header.Width, d.header.Height)
	}

	return nil
}

func (d *decoder) readSamples() error {
	n := d.header.Samples()

	// The buffer grows as data arrives so a short file never costs more
	// than its own size, whatever the header claims
	size := int64(n * d.header.SampleSize())
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, d.r, size); err != nil {
		if err != io.EOF {
			return err
		}
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, size, buf.Len())
	}
	tmp := buf.Bytes()

	d.image = &Image{Header: d.header}

	if d.header.SampleSize() == 1 {
		d.image.Pix8 = tmp
		if d.header.MaxVal != maxVal8 {
			rescale8(d.image.Pix8, d.header.MaxVal)
		}
		return nil
	}

	order := d.opts.byteOrder()
	d.image.Pix16 = make([]uint16, n)
	for i := range d.image.Pix16 {
		d.image.Pix16[i] = order.Uint16(tmp[i<<1:])
	}
	if d.header.MaxVal != maxVal16 {
		rescale16(d.image.Pix16, d.header.MaxVal)
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	if br, ok := r.(*bufio.Reader); ok {
		d.r = br
	} else {
		d.r = bufio.NewReader(r)
	}

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readSamples()
}

// rescale8 stretches samples in the range [0, maxVal] to [0, 255]. Samples
// above maxVal saturate.
func rescale8(p []uint8, maxVal int) {
	var table [256]uint8
	for i := range table {
		v := i
		if v > maxVal {
			v = maxVal
		}
		table[i] = uint8(v * maxVal8 / maxVal)
	}
	for i, v := range p {
		p[i] = table[v]
	}
}

// rescale16 stretches samples in the range [0, maxVal] to [0, 65535].
// Samples above maxVal saturate.
func rescale16(p []uint16, maxVal int) {
	m := uint32(maxVal)
	for i, v := range p {
		s := uint32(v)
		if s > m {
			s = m
		}
		p[i] = uint16(s * maxVal16 / m)
	}
}

// Decode reads a P5 or P6 image from r using little-endian 16-bit samples.
func Decode(r io.Reader) (*Image, error) {
	return DecodeWithOptions(r, Options{})
}

// DecodeWithOptions reads a P5 or P6 image from r. The returned samples are
// normalized to either 8 or 16 bits.
func DecodeWithOptions(r io.Reader, opts Options) (*Image, error) {
	d := decoder{opts: opts}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// ReadHeader parses just the header from r. If r is a *bufio.Reader it is
// read directly and left positioned at the first sample byte.
func ReadHeader(r io.Reader) (Header, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.header, nil
}

// DecodeConfig returns the color model and dimensions of an image without
// decoding the samples.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: colorModel(h.Magic, h.SampleSize()),
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}

func colorModel(m Magic, sampleSize int) color.Model {
	switch {
	case m == Gray && sampleSize == 1:
		return color.GrayModel
	case m == Gray:
		return color.Gray16Model
	case sampleSize == 1:
		return color.RGBAModel
	default:
		return color.RGBA64Model
	}
}
