package persistence

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// BinaryWriter writes headers and aligned sections, tracking the offset.
type BinaryWriter struct {
	w   io.Writer
	n   int64
	pad [SectionAlign]byte
}

// NewBinaryWriter creates a new binary writer.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: w}
}

// Write implements io.Writer.
func (bw *BinaryWriter) Write(p []byte) (int, error) {
	n, err := bw.w.Write(p)
	bw.n += int64(n)
	return n, err
}

// Written returns the number of bytes written so far.
func (bw *BinaryWriter) Written() int64 {
	return bw.n
}

// WriteHeader writes a fixed-size header struct in little-endian order.
func (bw *BinaryWriter) WriteHeader(header any) error {
	return binary.Write(bw, binary.LittleEndian, header)
}

// Align writes zero bytes up to the next multiple of align.
func (bw *BinaryWriter) Align(align int) error {
	n := AlignUp(int(bw.n), align) - int(bw.n)
	for n > 0 {
		chunk := min(n, len(bw.pad))
		if _, err := bw.Write(bw.pad[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}

	return nil
}

// WriteSection aligns the writer to SectionAlign and writes s in native
// memory order. Empty sections occupy no space.
func WriteSection[E any](bw *BinaryWriter, s []E) error {
	if len(s) == 0 {
		return nil
	}

	if err := bw.Align(SectionAlign); err != nil {
		return err
	}

	_, err := bw.Write(AsBytes(s))
	return err
}

// SaveToFile atomically replaces filename with the output of writeFunc.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory to ensure rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile opens filename and passes a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}
