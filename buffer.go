package tga

import "io"

// rowReader buffers the pixel data a whole number of scanlines at a time.
// Packets do not respect scanline boundaries so next always compacts the
// unread tail before refilling, guaranteeing the requested bytes are
// contiguous.
type rowReader struct {
	r       io.Reader
	buf     []byte
	pos     int
	end     int
	rowSize int
	limit   int64 // Bytes left to read from r, or -1 for no limit
}

func newRowReader(r io.Reader, rowSize int, limit int64) *rowReader {
	rows := minBufferSize/rowSize + 1
	return &rowReader{
		r:       r,
		buf:     make([]byte, rowSize*rows),
		rowSize: rowSize,
		limit:   limit,
	}
}

func (rr *rowReader) fill(need int) error {
	n := copy(rr.buf, rr.buf[rr.pos:rr.end])
	rr.pos, rr.end = 0, n

	// Refill with as many whole scanlines as fit
	want := (len(rr.buf) - rr.end) / rr.rowSize * rr.rowSize
	if want < need {
		want = len(rr.buf) - rr.end
	}
	if rr.limit >= 0 && int64(want) > rr.limit {
		want = int(rr.limit)
	}
	if want < need {
		return &IOError{Op: "reading pixel data", Err: io.ErrUnexpectedEOF}
	}

	n, err := io.ReadAtLeast(rr.r, rr.buf[rr.end:rr.end+want], need)
	rr.end += n
	if rr.limit >= 0 {
		rr.limit -= int64(n)
	}
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Op: "reading pixel data", Err: err}
	}
	return nil
}

// next returns the next n bytes. The slice is only valid until the
// following call.
func (rr *rowReader) next(n int) ([]byte, error) {
	if rr.end-rr.pos < n {
		if err := rr.fill(n - (rr.end - rr.pos)); err != nil {
			return nil, err
		}
	}
	b := rr.buf[rr.pos : rr.pos+n]
	rr.pos += n
	return b, nil
}

func (rr *rowReader) readByte() (byte, error) {
	b, err := rr.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
