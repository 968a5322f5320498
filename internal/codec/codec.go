// Package codec translates between records and the binary store layout.
//
// Layout, all integers little-endian:
//
//	8 bytes  signature 0xF1C0F1C0F1C0F1C0
//	4 bytes  record count
//	per record:
//	  4 bytes  path length including the trailing NUL, then the path
//	  4 bytes  info length (0 when absent) including the NUL, then the info
//	  4 bytes  tag buffer length (0 when there are no tags), then the
//	           NUL-terminated tags packed back to back, then 4 bytes tag count
//	           (the count is only written when the buffer is non-empty)
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/models"
	"github.com/starford/ficor/internal/tagset"
)

// Signature identifies a store file.
const Signature uint64 = 0xF1C0F1C0F1C0F1C0

const (
	headerSize = 8 + 4
	// smallest possible record: path length, a one-byte path plus NUL,
	// info length and tag buffer length.
	minRecordSize = 4 + 2 + 4 + 4
)

var order = binary.LittleEndian

// EmptyStore returns the encoding of a store with no records.
func EmptyStore() []byte {
	b := make([]byte, headerSize)
	order.PutUint64(b, Signature)
	return b
}

// Marshal encodes recs into a new byte slice.
func Marshal(recs []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes recs to w. Nothing is written if a record cannot be
// represented in the layout.
func Encode(w io.Writer, recs []models.Record) error {
	if uint64(len(recs)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d records exceed the record count field", apperr.ErrFormat, len(recs))
	}
	e := encoder{buf: bytes.NewBuffer(make([]byte, 0, headerSize+len(recs)*minRecordSize))}
	e.u64(Signature)
	e.u32(uint32(len(recs)))
	for i := range recs {
		if err := e.record(&recs[i]); err != nil {
			return fmt.Errorf("record %d (%q): %w", i, recs[i].Path, err)
		}
	}
	if _, err := w.Write(e.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write: %w", apperr.ErrIO, err)
	}
	return nil
}

type encoder struct {
	buf *bytes.Buffer
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	order.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) cstring(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte(0)
}

// sized writes a length-prefixed NUL-terminated string.
func (e *encoder) sized(field, s string) error {
	n, err := fieldLen(field, len(s)+1)
	if err != nil {
		return err
	}
	e.u32(n)
	e.cstring(s)
	return nil
}

func (e *encoder) record(r *models.Record) error {
	if r.Path == "" {
		return fmt.Errorf("%w: empty path", apperr.ErrFormat)
	}
	if err := noNUL("path", r.Path); err != nil {
		return err
	}
	if err := e.sized("path", r.Path); err != nil {
		return err
	}

	if r.Info == nil {
		e.u32(0)
	} else {
		if err := noNUL("info", *r.Info); err != nil {
			return err
		}
		if err := e.sized("info", *r.Info); err != nil {
			return err
		}
	}

	if len(r.Tags) == 0 {
		e.u32(0)
		return nil
	}
	total := 0
	for _, t := range r.Tags {
		if err := noNUL("tag", t); err != nil {
			return err
		}
		total += len(t) + 1
	}
	bufLen, err := fieldLen("tag buffer", total)
	if err != nil {
		return err
	}
	count, err := fieldLen("tag count", len(r.Tags))
	if err != nil {
		return err
	}
	e.u32(bufLen)
	for _, t := range r.Tags {
		e.cstring(t)
	}
	e.u32(count)
	return nil
}

func fieldLen(field string, n int) (uint32, error) {
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s length %d does not fit in 32 bits", apperr.ErrFormat, field, n)
	}
	return uint32(n), nil
}

func noNUL(field, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: %s contains a null byte", apperr.ErrFormat, field)
	}
	return nil
}

// Decode reads a whole store from r.
func Decode(r io.Reader) ([]models.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", apperr.ErrIO, err)
	}
	return Unmarshal(data)
}

// errTruncated is wrapped into every decode failure caused by input
// ending before a declared length.
var errTruncated = errors.New("unexpected end of data")

// Unmarshal decodes a store held in memory. Tags of one record are
// substrings of a single string built from that record's tag buffer.
func Unmarshal(data []byte) ([]models.Record, error) {
	d := decoder{data: data}

	sig, err := d.u64()
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid store file", apperr.ErrFormat)
	}
	if sig != Signature {
		return nil, fmt.Errorf("%w: not a valid store file", apperr.ErrFormat)
	}
	count, err := d.u32()
	if err != nil {
		return nil, d.fail("record count", err)
	}
	// The count comes from the file; cap the preallocation by what the
	// remaining bytes could possibly hold.
	recs := make([]models.Record, 0, min(uint64(count), uint64(d.remaining()/minRecordSize)))
	for i := uint32(0); i < count; i++ {
		rec, err := d.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d records", apperr.ErrFormat, d.remaining(), count)
	}
	return recs, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) fail(field string, err error) error {
	return fmt.Errorf("%w: %s at offset %d: %w", apperr.ErrFormat, field, d.off, err)
}

func (d *decoder) take(n uint64) ([]byte, error) {
	if n > uint64(d.remaining()) {
		return nil, errTruncated
	}
	b := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// cstring reads a length-prefixed NUL-terminated string. A zero length
// reports ok == false.
func (d *decoder) cstring(field string) (s string, ok bool, err error) {
	n, err := d.u32()
	if err != nil {
		return "", false, d.fail(field+" length", err)
	}
	if n == 0 {
		return "", false, nil
	}
	b, err := d.take(uint64(n))
	if err != nil {
		return "", false, d.fail(field, err)
	}
	if b[n-1] != 0 {
		return "", false, fmt.Errorf("%w: %s is not NUL-terminated", apperr.ErrFormat, field)
	}
	b = b[:n-1]
	if bytes.IndexByte(b, 0) >= 0 {
		return "", false, fmt.Errorf("%w: %s contains a null byte", apperr.ErrFormat, field)
	}
	return string(b), true, nil
}

func (d *decoder) record() (models.Record, error) {
	var rec models.Record

	path, ok, err := d.cstring("path")
	if err != nil {
		return rec, err
	}
	if !ok || path == "" {
		return rec, fmt.Errorf("%w: empty path", apperr.ErrFormat)
	}
	rec.Path = path

	info, ok, err := d.cstring("info")
	if err != nil {
		return rec, err
	}
	if ok {
		rec.Info = &info
	}

	bufLen, err := d.u32()
	if err != nil {
		return rec, d.fail("tag buffer length", err)
	}
	if bufLen == 0 {
		return rec, nil
	}
	raw, err := d.take(uint64(bufLen))
	if err != nil {
		return rec, d.fail("tag buffer", err)
	}
	count, err := d.u32()
	if err != nil {
		return rec, d.fail("tag count", err)
	}
	tags, err := splitTags(raw, count)
	if err != nil {
		return rec, err
	}
	rec.Tags = tags
	return rec, nil
}

// splitTags slices a packed tag buffer into count tags sharing one string.
func splitTags(raw []byte, count uint32) (tagset.TagSet, error) {
	if raw[len(raw)-1] != 0 {
		return nil, fmt.Errorf("%w: tag buffer is not NUL-terminated", apperr.ErrFormat)
	}
	if n := bytes.Count(raw, []byte{0}); uint64(n) != uint64(count) {
		return nil, fmt.Errorf("%w: tag count %d does not match %d tags in buffer", apperr.ErrFormat, count, n)
	}
	buf := string(raw)
	tags := make(tagset.TagSet, 0, count)
	for len(buf) > 0 {
		end := strings.IndexByte(buf, 0)
		tags = append(tags, buf[:end])
		buf = buf[end+1:]
	}
	return tags, nil
}
