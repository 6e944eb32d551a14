package infrastructure

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zlib"
	pkgerrors "github.com/pkg/errors"
)

const headerSize = 4

var (
	ErrShortRead       = errors.New("connection closed before the full message arrived")
	ErrMessageTooLarge = errors.New("message exceeds size limit")
)

var wire = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteMessage writes v as a single frame: a 4-byte big-endian length
// followed by zlib-compressed JSON.
func WriteMessage(w io.Writer, v any) error {
	var payload bytes.Buffer
	zw := zlib.NewWriter(&payload)
	if err := wire.NewEncoder(zw).Encode(v); err != nil {
		return pkgerrors.Wrap(err, "encode message")
	}
	if err := zw.Close(); err != nil {
		return pkgerrors.Wrap(err, "compress message")
	}
	if uint64(payload.Len()) > uint64(^uint32(0)) {
		return pkgerrors.Wrapf(ErrMessageTooLarge, "%d bytes", payload.Len())
	}

	frame := make([]byte, headerSize, headerSize+payload.Len())
	binary.BigEndian.PutUint32(frame, uint32(payload.Len()))
	frame = append(frame, payload.Bytes()...)
	_, err := w.Write(frame)
	return err
}

// ReadMessage reads one frame from r into v. Frames declaring more than
// maxBytes compressed bytes are rejected before the payload is read; the
// decompressed size is capped at the same limit.
func ReadMessage(r io.Reader, v any, maxBytes int) error {
	var header [headerSize]byte
	if err := readFull(r, header[:]); err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(header[:])
	if maxBytes > 0 && uint64(size) > uint64(maxBytes) {
		return pkgerrors.Wrapf(ErrMessageTooLarge, "declared %d bytes, limit %d", size, maxBytes)
	}

	payload := make([]byte, size)
	if err := readFull(r, payload); err != nil {
		return err
	}

	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(err, "decompress message")
	}
	defer zr.Close()

	var body io.Reader = zr
	if maxBytes > 0 {
		body = io.LimitReader(zr, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return pkgerrors.Wrap(err, "decompress message")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return pkgerrors.Wrapf(ErrMessageTooLarge, "decompressed payload exceeds %d bytes", maxBytes)
	}
	if err := wire.Unmarshal(data, v); err != nil {
		return pkgerrors.Wrap(err, "decode message")
	}
	return nil
}

func readFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return pkgerrors.Wrapf(ErrShortRead, "got %d of %d bytes", n, len(buf))
	}
	return err
}
