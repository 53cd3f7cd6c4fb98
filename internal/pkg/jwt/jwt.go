package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims identifies the caller of the HR API. Tokens are minted by the identity
// provider in production and by cmd/devtoken locally.
type Claims struct {
	UserID     string
	EmployeeID string
	BusinessID string
	Role       employee.Role
}

func (c Claims) Validate() error {
	if c.UserID == "" || c.EmployeeID == "" || c.BusinessID == "" {
		return errors.New("user_id, employee_id and business_id are required")
	}
	for _, r := range employee.RoleValues {
		if string(c.Role) == r {
			return nil
		}
	}
	return errors.New("unknown role")
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateStreamToken(claims Claims) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	if err := claims.Validate(); err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claimsMap(claims, "access", expiresAt))
	return tokenString, expiresAt, err
}

// GenerateStreamToken issues a short-lived token for the notification stream, which
// browsers open with EventSource and therefore pass as a query parameter.
func (j *JWTService) GenerateStreamToken(claims Claims) (token string, expiresIn int, err error) {
	if err := claims.Validate(); err != nil {
		return "", 0, err
	}
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claimsMap(claims, "stream", expiresAt))
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresIn, nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (Claims, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "stream" {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	return ClaimsFromMap(token.PrivateClaims())
}

// ClaimsFromMap reads Claims out of decoded token claims.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	var c Claims
	var ok bool

	if c.UserID, ok = m["user_id"].(string); !ok {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	if c.EmployeeID, ok = m["employee_id"].(string); !ok {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	if c.BusinessID, ok = m["business_id"].(string); !ok {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	role, ok := m["role"].(string)
	if !ok {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	c.Role = employee.Role(role)

	if err := c.Validate(); err != nil {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	return c, nil
}

func claimsMap(c Claims, tokenType string, expiresAt int64) map[string]interface{} {
	return map[string]interface{}{
		"user_id":     c.UserID,
		"employee_id": c.EmployeeID,
		"business_id": c.BusinessID,
		"role":        string(c.Role),
		"type":        tokenType,
		"exp":         expiresAt,
	}
}
