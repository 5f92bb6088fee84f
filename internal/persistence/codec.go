// Package persistence stores world snapshots and event logs, grounded on
// the teacher's compressLZ4/decompressLZ4/hashBLAKE3 helpers (utils.go),
// retargeted from network payload compression to on-disk snapshot and
// event-log compression plus content/state fingerprinting.
package persistence

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

// CompressLZ4 compresses src for storage.
func CompressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressLZ4 reverses CompressLZ4.
func DecompressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HashBLAKE3 returns the hex-encoded BLAKE3 digest of data, used both as
// the snapshot integrity check and as ContentVersion (a fingerprint of the
// canonical content JSON, so a content-authoring change that alters
// semantics is visible in every save it touches).
func HashBLAKE3(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
