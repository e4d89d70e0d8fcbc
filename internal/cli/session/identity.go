package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a credential is not a three-part dot-separated token
// or its payload does not decode to a JSON object.
var ErrMalformedToken = errors.New("malformed token")

// ClaimEmailAddress is the long-form email claim some identity servers emit instead of "email".
const ClaimEmailAddress = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"

// Identity is the display information carried in a token payload.
type Identity struct {
	Email  string
	Claims jwt.MapClaims
}

// AnyEmail returns the "email" claim or, failing that, ClaimEmailAddress.
func (id Identity) AnyEmail() string {
	if id.Email != "" {
		return id.Email
	}
	if v, ok := id.Claims[ClaimEmailAddress].(string); ok {
		return v
	}
	return ""
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeIdentity reads the payload segment of a token without verifying it.
// Display only: the result must never be used for authorization.
func DecodeIdentity(token string) (Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return Identity{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil || claims == nil {
		return Identity{}, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedToken)
	}
	id := Identity{Claims: claims}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	return id, nil
}

// decodeSegment accepts base64url (JWT) and, as a fallback, the standard alphabet.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := segmentParser.DecodeSegment(seg); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "="))
}
