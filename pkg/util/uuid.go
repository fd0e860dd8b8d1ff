package util

import (
	"crypto/md5"
	"encoding/json"

	"github.com/google/uuid"
)

// HashUUID derives a stable UUID from the JSON form of value, "" if it cannot be marshaled
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return Fingerprint(raw)
}

// Fingerprint derives a stable UUID from raw bytes, e.g. raster samples,
// so identical images log the same identifier
func Fingerprint(raw []byte) string {
	hash := md5.Sum(raw)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}

// NewRunID returns a random identifier for one CLI invocation
func NewRunID() string {
	return uuid.NewString()
}
