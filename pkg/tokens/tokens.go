// pkg/tokens/tokens.go

// Package tokens issues and verifies the bearer tokens that authenticate
// empresas against the private API. Tokens are self-contained HS256-signed
// claims; there is no server-side session and no revocation — a token is good
// until exp.
package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Verification failures are distinguished so operators can tell tampering
// from expiry in the logs; callers treat all of them as a 401.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrNotYetValid      = errors.New("token not yet valid")
)

// Claims is the signed payload. sub carries the empresa's internal id as an
// integer, matching the wire format consumed by existing clients.
type Claims struct {
	Sub      int64  `json:"sub"`
	ClientID string `json:"client_id"`
	Iat      int64  `json:"iat"`
	Exp      int64  `json:"exp"`
}

// Issued is the login response body.
type Issued struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Service signs and verifies tokens with a single symmetric key, loaded once
// at startup and immutable for the process lifetime. Rotation requires a
// restart.
type Service struct {
	key      []byte
	lifetime time.Duration
}

func New(secret string, lifetime time.Duration) *Service {
	return &Service{key: []byte(secret), lifetime: lifetime}
}

// Issue signs a token binding the empresa's internal id and public client id.
func (s *Service) Issue(empresaID int64, clientID string) (Issued, error) {
	now := time.Now().UTC()
	claims := Claims{
		Sub:      empresaID,
		ClientID: clientID,
		Iat:      now.Unix(),
		Exp:      now.Add(s.lifetime).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return Issued{}, fmt.Errorf("marshal claims: %w", err)
	}
	signed, err := jws.Sign(payload, jws.WithKey(jwa.HS256, s.key))
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{
		AccessToken: string(signed),
		TokenType:   "Bearer",
		ExpiresIn:   int(s.lifetime / time.Second),
	}, nil
}

// Verify checks structure, signature and time bounds, in that order, and
// returns the claims. Zero clock-skew tolerance: exp is an exclusive upper
// bound, iat an inclusive lower one.
func (s *Service) Verify(token string) (Claims, error) {
	raw := []byte(token)
	if _, err := jws.Parse(raw); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	payload, err := jws.Verify(raw, jws.WithKey(jwa.HS256, s.key))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: bad claims: %v", ErrMalformed, err)
	}
	now := time.Now().UTC().Unix()
	if now >= claims.Exp {
		return Claims{}, ErrExpired
	}
	if claims.Iat > now {
		return Claims{}, ErrNotYetValid
	}
	return claims, nil
}

// ExtractFromHeader pulls the token out of an Authorization header of the
// exact form "Bearer <token>": scheme case-insensitive, exactly one space,
// no leading or trailing whitespace. Any other shape yields ok=false;
// absence is the caller's 401, not an error here.
func ExtractFromHeader(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
