package primitives

import "encoding/base64"

// EncodeBase64 encodes data using standard Base64, the encoding used for
// every binary field in the on-disk JSON schemas of spec.md §6.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a standard Base64 string produced by [EncodeBase64].
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
