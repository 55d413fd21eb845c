// Package trading implements the signed trading client (C7): HMAC-signed
// order placement over a duplex WebSocket session, serialising one
// outstanding request at a time per client instance.
package trading

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

const defaultRecvWindow = 5000

// Sign canonicalizes params per the venue's signing contract and returns
// the signature to attach under the "signature" key: inject apiKey,
// timestamp, and recvWindow; sort keys by Unicode code point; join as
// k1=v1&k2=v2&... with no percent-encoding; HMAC-SHA256 with secret,
// hex-lowercase the digest. timestamp is supplied by the caller (the
// production call site passes time.Now()) rather than generated here, so
// that identical (params, apiKey, secret, timestamp, recvWindow) always
// produce a byte-identical signature.
func Sign(params map[string]string, apiKey, secret, timestamp string) (signed map[string]string, signature string) {
	signed = make(map[string]string, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	signed["apiKey"] = apiKey
	signed["timestamp"] = timestamp
	if _, ok := signed["recvWindow"]; !ok {
		signed["recvWindow"] = strconv.Itoa(defaultRecvWindow)
	}

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+signed[k])
	}
	query := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	signature = hex.EncodeToString(mac.Sum(nil))

	return signed, signature
}
