package libio

import (
	"bufio"
	"encoding/binary"
	"io"
)

// BinaryReader tracks the byte offset of everything read from Src and keeps
// the first error it encounters. Once Err is set every read fails.
type BinaryReader struct {
	Order     binary.ByteOrder
	Src       io.Reader
	Index     int
	LastIndex int
	Err       error
	buf       []byte
	byteSrc   io.ByteReader
}

// NewBinaryReader wraps r in a bufio.Reader unless it can already read single bytes.
func NewBinaryReader(r io.Reader, order binary.ByteOrder) *BinaryReader {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	return &BinaryReader{
		Src:   r,
		Order: order,
	}
}

// ReadFull reads exactly len(p) bytes. A short read sets Err to
// io.ErrUnexpectedEOF, or io.EOF when nothing was read.
func (br *BinaryReader) ReadFull(p []byte) (ok bool) {
	if br.Err != nil {
		return false
	}

	nread, err := io.ReadFull(br.Src, p)
	br.LastIndex = br.Index
	br.Index += nread
	if err != nil {
		br.Err = err
		return false
	}
	return true
}

func (br *BinaryReader) ReadBytes(n int) (ok bool) {
	if cap(br.buf) < n {
		br.buf = make([]byte, n)
	} else {
		br.buf = br.buf[:n]
	}
	return br.ReadFull(br.buf)
}

// Bytes returns the bytes of the last ReadBytes call. The slice is reused.
func (br *BinaryReader) Bytes() []byte {
	return br.buf
}

// ReadByte implements io.ByteReader.
func (br *BinaryReader) ReadByte() (byte, error) {
	if br.Err != nil {
		return 0, br.Err
	}

	if br.byteSrc == nil {
		if bs, ok := br.Src.(io.ByteReader); ok {
			br.byteSrc = bs
		}
	}

	var c byte
	var err error
	if br.byteSrc != nil {
		c, err = br.byteSrc.ReadByte()
	} else {
		var one [1]byte
		_, err = io.ReadFull(br.Src, one[:])
		c = one[0]
	}

	br.LastIndex = br.Index
	if err != nil {
		br.Err = err
		return 0, err
	}
	br.Index++
	return c, nil
}

func (br *BinaryReader) Read(p []byte) (n int, err error) {
	if br.Err != nil {
		return 0, br.Err
	}
	n, err = br.Src.Read(p)
	br.LastIndex = br.Index
	br.Index += n
	return n, err
}

func (br *BinaryReader) ReadUInt32(i *int) (ok bool) {
	if !br.ReadBytes(4) {
		return false
	}
	*i = int(br.Order.Uint32(br.buf))
	return true
}

func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	err := binary.Read(br.Src, br.Order, data)
	br.Err = err
	br.LastIndex = br.Index
	if err == nil {
		br.Index += binary.Size(data)
	}
	return err == nil
}

type BinaryWriter struct {
	Order binary.ByteOrder
	Dst   io.Writer
	Err   error
}

func (bw *BinaryWriter) WriteBytes(p []byte) (ok bool) {
	if bw.Err != nil {
		return false
	}

	_, err := bw.Dst.Write(p)
	if err != nil {
		bw.Err = err
		return false
	}
	return true
}

func (bw *BinaryWriter) Write(p []byte) (n int, err error) {
	if bw.Err != nil {
		return 0, bw.Err
	}
	n, err = bw.Dst.Write(p)
	if err != nil {
		bw.Err = err
	}
	return n, err
}

func (bw *BinaryWriter) WriteUInt32(i uint32) (ok bool) {
	var buf [4]byte
	bw.Order.PutUint32(buf[:], i)
	return bw.WriteBytes(buf[:])
}

func (bw *BinaryWriter) WriteUInt16(i uint16) (ok bool) {
	var buf [2]byte
	bw.Order.PutUint16(buf[:], i)
	return bw.WriteBytes(buf[:])
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	err := binary.Write(bw.Dst, bw.Order, data)
	bw.Err = err
	return err == nil
}
