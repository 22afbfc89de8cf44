package sync

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Max allowed clock skew between the delivery timestamp and now.
const signatureTolerance = 5 * time.Minute

// VerifySignature checks the provider's Svix-style webhook signature.
// secret is the signing secret ("whsec_" + base64 key). msgID and timestamp
// come from the svix-id and svix-timestamp headers; sigHeader is the
// space-separated list of "v1,<base64 hmac>" entries from svix-signature.
func VerifySignature(secret, msgID, timestamp string, body []byte, sigHeader string) bool {
	if msgID == "" || timestamp == "" || sigHeader == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew > signatureTolerance || skew < -signatureTolerance {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header may list signatures for several key versions.
	for _, entry := range strings.Split(sigHeader, " ") {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}

// SignPayload computes the "v1,<sig>" signature entry for the given delivery.
// Used by tests and local delivery tooling.
func SignPayload(secret, msgID, timestamp string, body []byte) string {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return ""
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
