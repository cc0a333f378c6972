package jwt

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"
)

const (
	jwtIssuer = "GRADES"

	JWTExpiry         = 24 * time.Hour
	jwtAudienceWriter = "writer"
	jwtAlg            = jwt.HS256
)

type Manager struct {
	aud      string
	builder  *jwt.Builder
	verifier jwt.Verifier
}

// NewJWTManager returns a new manager for jwt tokens signed with secret. A
// random secret is generated if secret is empty, tokens issued by such a
// manager are only valid for the lifetime of the process.
func NewJWTManager(secret []byte) (*Manager, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, err := rand.Read(secret)
		if err != nil {
			return nil, fmt.Errorf("rand.Read error: %w", err)
		}
	}

	signer, err := jwt.NewSignerHS(jwtAlg, secret)
	if err != nil {
		return nil, fmt.Errorf("jwt.NewSignerHS error: %w", err)
	}

	verifier, err := jwt.NewVerifierHS(jwtAlg, secret)
	if err != nil {
		return nil, fmt.Errorf("jwt.NewVerifierHS error: %w", err)
	}

	m := &Manager{
		aud:      jwtAudienceWriter,
		builder:  jwt.NewBuilder(signer),
		verifier: verifier,
	}

	return m, nil
}

// GenerateJWtToken generates a new jwt token for the specified id.
func (m *Manager) GenerateJWtToken(id string) (string, error) {
	claims := &jwt.RegisteredClaims{
		ID:        id,
		Audience:  jwt.Audience{jwtAudienceWriter},
		Issuer:    jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(JWTExpiry)),
	}

	token, err := m.builder.Build(claims)
	if err != nil {
		return "", fmt.Errorf("m.builder.Build error: %w", err)
	}

	return token.String(), nil
}

// ErrInvalidToken is returned for tokens that were not issued by the Manager
// or are no longer valid.
var ErrInvalidToken = errors.New("invalid token")

// ValidateToken checks that the provided token is valid and returns the
// unique id added to the auth token. The returned error wraps
// ErrInvalidToken.
func (m *Manager) ValidateToken(jwtToken string) (string, error) {
	jwtClaims := new(jwt.RegisteredClaims)
	err := jwt.ParseClaims([]byte(jwtToken), m.verifier, jwtClaims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	switch {
	case !jwtClaims.IsIssuer(jwtIssuer):
		return "", fmt.Errorf("%w: unknown issuer %q", ErrInvalidToken, jwtClaims.Issuer)
	case !jwtClaims.IsForAudience(m.aud):
		return "", fmt.Errorf("%w: not issued for %s", ErrInvalidToken, m.aud)
	case !jwtClaims.IsValidAt(time.Now()):
		return "", fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	return jwtClaims.ID, nil
}
