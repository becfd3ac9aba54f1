// Package codec packs an ordered list of question ids into a short,
// cookie-safe token and back.
//
// Token layout: "v1." + base64url(zlib(json array of ids)).
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Version is the tag written in front of every token
const Version = "v1"

const (
	separator = "."
	// maxPayload caps the inflated size of a token
	maxPayload = 1 << 20
)

var encoding = base64.RawURLEncoding

// EncodeIDs serializes ids into a token. The same ordering always yields the same token.
func EncodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(raw); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return Version + separator + encoding.EncodeToString(buf.Bytes()), nil
}

// DecodeIDs reverses EncodeIDs. Any malformed, foreign-version or corrupted
// token yields ok == false; it never returns an error.
func DecodeIDs(token string) (ids []int64, ok bool) {
	version, body, found := strings.Cut(token, separator)
	if !found || version != Version || body == "" {
		return nil, false
	}

	compressed, err := encoding.DecodeString(body)
	if err != nil {
		return nil, false
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxPayload+1))
	if err != nil || len(raw) > maxPayload {
		return nil, false
	}

	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	if ids == nil {
		return nil, false
	}
	return ids, true
}
