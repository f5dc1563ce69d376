package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Errores de parseo. Expirado se distingue de inválido porque el ciclo de
// vida de tokens los trata distinto (el ledger puede purgar expirados).
var (
	ErrInvalid = errors.New("token inválido")
	ErrExpired = errors.New("token expirado")
)

// Claims incluye los claims estándar JWT más los campos propios de la
// aplicación. ID (jti) identifica la instancia del token para revocación;
// TokenType evita que un refresh se use como access y viceversa.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string  `json:"type"` // access | refresh | reset-password | verify-email
	Role      string  `json:"role,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
}

// Issued es el resultado de generar un token firmado.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Generate firma un token HS256 con subject, jti nuevo, tipo y expiración.
// Role y companyID sólo viajan en tokens access (el middleware decide RBAC
// sin consultar la DB); para los demás tipos se pasan vacíos.
func Generate(secret, issuer, userID, tokenType, role string, companyID *string, ttl time.Duration) (Issued, error) {
	if secret == "" {
		return Issued{}, fmt.Errorf("token: secret vacío")
	}
	now := time.Now().UTC()
	expires := now.Add(ttl)
	jti := uuid.New().String()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		TokenType: tokenType,
		Role:      role,
		CompanyID: companyID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, JTI: jti, ExpiresAt: expires}, nil
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna ErrExpired si el token venció, ErrInvalid para cualquier otra falla.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: secret vacío")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" || claims.ID == "" || claims.TokenType == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
