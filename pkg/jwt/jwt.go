package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gabzinnn/av-continua-sub001/config"
)

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

// Claims identifies the calling member. Tokens are minted by the member
// portal; this service only needs to know who is acting.
type Claims struct {
	MembroID      string `json:"membro_id"`
	IsCoordenador bool   `json:"is_coordenador"`
	jwtv5.RegisteredClaims
}

// Manager verifies (and, for tooling, signs) identity tokens.
type Manager struct {
	secret []byte
}

// NewManager creates the token manager.
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{secret: []byte(cfg.JWTSecret)}
}

// Generate signs an identity token. Used by seed/ops tooling and tests;
// production tokens come from the portal with the same shared secret.
func (m *Manager) Generate(membroID string, isCoordenador bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MembroID:      membroID,
		IsCoordenador: isCoordenador,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			Issuer:    "av-continua",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
