package cache

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Remote payloads carry a one-byte framing marker so reads can tell
// compressed entries from raw ones.
const (
	encodingRaw  byte = 0x00
	encodingGzip byte = 0x01
)

// encodePayload frames data for remote storage, gzip-compressing it when it
// reaches the threshold. Compression is skipped when it would not shrink
// the payload, and any compression failure degrades to storing raw rather
// than failing the write. Reports whether compression was applied.
func encodePayload(data []byte, threshold, level int) ([]byte, bool) {
	if threshold <= 0 || len(data) < threshold {
		return frameRaw(data), false
	}

	var buf bytes.Buffer
	buf.WriteByte(encodingGzip)

	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return frameRaw(data), false
	}
	if _, err := w.Write(data); err != nil {
		return frameRaw(data), false
	}
	if err := w.Close(); err != nil {
		return frameRaw(data), false
	}

	if buf.Len() >= len(data)+1 {
		// Compression did not pay for itself.
		return frameRaw(data), false
	}

	return buf.Bytes(), true
}

// decodePayload unwraps a framed remote payload, decompressing when needed.
func decodePayload(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.Join(ErrUnmarshal, errors.New("empty payload"))
	}

	switch data[0] {
	case encodingGzip:
		r, err := gzip.NewReader(bytes.NewReader(data[1:]))
		if err != nil {
			return nil, errors.Join(ErrUnmarshal, err)
		}
		defer r.Close()

		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Join(ErrUnmarshal, err)
		}
		return raw, nil
	case encodingRaw:
		return data[1:], nil
	default:
		return nil, errors.Join(ErrUnmarshal, errors.New("unknown payload encoding"))
	}
}

func frameRaw(data []byte) []byte {
	framed := make([]byte, 0, len(data)+1)
	framed = append(framed, encodingRaw)
	return append(framed, data...)
}
