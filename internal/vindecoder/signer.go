package vindecoder

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// ControlSum computes the request-signing token for the decode API. The
// server recomputes the exact same digest to authenticate the request, so
// the concatenation order and the 10-character truncation are part of the
// wire protocol, not a local choice.
func ControlSum(vin, apiKey, secretKey string) string {
	input := fmt.Sprintf("%s|decode|%s|%s", strings.ToUpper(vin), apiKey, secretKey)
	digest := sha1.Sum([]byte(input))
	return hex.EncodeToString(digest[:])[:10]
}
