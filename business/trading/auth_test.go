package trading

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"testing"
)

func TestSign_Deterministic(t *testing.T) {
	params := map[string]string{"symbol": "BTCUSDT", "side": "BUY"}

	_, sig1 := Sign(params, "key", "secret", "1700000000000")
	_, sig2 := Sign(params, "key", "secret", "1700000000000")

	if sig1 == "" {
		t.Fatal("expected non-empty signature")
	}
	if sig1 != sig2 {
		t.Errorf("expected byte-identical signature for identical params/apiKey/secret/timestamp, got %q vs %q", sig1, sig2)
	}
}

func TestSign_InjectsRequiredFields(t *testing.T) {
	signed, _ := Sign(map[string]string{"symbol": "BTCUSDT"}, "mykey", "mysecret", "1700000000000")

	if signed["apiKey"] != "mykey" {
		t.Errorf("apiKey = %q, want %q", signed["apiKey"], "mykey")
	}
	if signed["timestamp"] != "1700000000000" {
		t.Errorf("timestamp = %q, want %q", signed["timestamp"], "1700000000000")
	}
	if signed["recvWindow"] != "5000" {
		t.Errorf("recvWindow = %q, want default 5000", signed["recvWindow"])
	}
}

func TestSign_RespectsExplicitRecvWindow(t *testing.T) {
	signed, _ := Sign(map[string]string{"symbol": "BTCUSDT", "recvWindow": "10000"}, "k", "s", "1700000000000")
	if signed["recvWindow"] != "10000" {
		t.Errorf("recvWindow = %q, want 10000", signed["recvWindow"])
	}
}

// TestSign_MatchesReferenceHMAC reconstructs the canonicalisation manually
// and checks the signature matches a from-scratch computation, verifying
// the sort-by-key, no-percent-encoding, hex-lowercase contract.
func TestSign_MatchesReferenceHMAC(t *testing.T) {
	signed, sig := Sign(map[string]string{"symbol": "BTCUSDT", "side": "SELL"}, "apikey123", "secretabc", "1700000000000")

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(signed[k])
	}

	mac := hmac.New(sha256.New, []byte("secretabc"))
	mac.Write([]byte(sb.String()))
	want := hex.EncodeToString(mac.Sum(nil))

	if sig != want {
		t.Errorf("signature = %q, want %q (canonical string %q)", sig, want, sb.String())
	}
}

// TestSign_Scenario6FixedTimestamp pins down the full order-placement
// signing contract against a fixed set of inputs: canonical query must be
// the sorted k=v&... form, and the signature must be the HMAC-SHA256
// hex-lowercase digest of exactly that string.
func TestSign_Scenario6FixedTimestamp(t *testing.T) {
	params := map[string]string{
		"symbol":      "LTCUSDT",
		"side":        "BUY",
		"type":        "LIMIT",
		"quantity":    "0.23",
		"price":       "9.7",
		"timeInForce": "GTC",
		"recvWindow":  "5000",
	}
	const apiKey = "K"
	const secret = "S"
	const timestamp = "1700000000000"
	const wantQuery = "apiKey=K&price=9.7&quantity=0.23&recvWindow=5000&side=BUY&symbol=LTCUSDT&timeInForce=GTC&timestamp=1700000000000&type=LIMIT"

	signed, sig := Sign(params, apiKey, secret, timestamp)

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(signed[k])
	}
	if sb.String() != wantQuery {
		t.Fatalf("canonical query = %q, want %q", sb.String(), wantQuery)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(wantQuery))
	want := hex.EncodeToString(mac.Sum(nil))

	if sig != want {
		t.Errorf("signature = %q, want %q", sig, want)
	}
}
