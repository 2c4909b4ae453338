package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	otpSecretBytes = 20
	otpDigits      = 6
)

var base32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// OTPEngine generates and verifies time-stepped one-time codes (RFC 6238,
// HMAC-SHA1). Secrets are shared base32 strings; the same secret drives both
// generation and verification.
type OTPEngine struct {
	step   time.Duration
	window int
}

// NewOTPEngine creates an engine with the given time step and the number of
// steps of clock-skew tolerance accepted on either side of now.
func NewOTPEngine(step time.Duration, window int) *OTPEngine {
	return &OTPEngine{
		step:   step,
		window: window,
	}
}

// GenerateSecret returns a fresh random secret, base32 encoded without padding
func (e *OTPEngine) GenerateSecret() (string, error) {
	raw := make([]byte, otpSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate otp secret: %w", err)
	}
	return base32NoPadding.EncodeToString(raw), nil
}

// GenerateCode computes the code for the secret at the time step containing now
func (e *OTPEngine) GenerateCode(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotpCode(key, e.counter(now)), nil
}

// VerifyCode reports whether code matches any step within the configured
// window around now. A missing or undecodable secret fails closed. The code
// comparison is constant time.
func (e *OTPEngine) VerifyCode(secret, code string, now time.Time) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != otpDigits || !isNumeric(trimmed) {
		return false
	}

	key, err := decodeSecret(secret)
	if err != nil || len(key) == 0 {
		return false
	}

	base := e.counter(now)
	for step := -e.window; step <= e.window; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(hotpCode(key, counter)), []byte(trimmed)) == 1 {
			return true
		}
	}

	return false
}

func (e *OTPEngine) counter(now time.Time) int64 {
	return now.Unix() / int64(e.step.Seconds())
}

func decodeSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimSpace(secret))
	if normalized == "" {
		return nil, errors.New("empty otp secret")
	}
	key, err := base32NoPadding.DecodeString(strings.TrimRight(normalized, "="))
	if err != nil {
		return nil, fmt.Errorf("invalid otp secret: %w", err)
	}
	return key, nil
}

// hotpCode implements RFC 4226 dynamic truncation over HMAC-SHA1
func hotpCode(key []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < otpDigits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", otpDigits, bin%mod)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
