package jwt

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	AccessTokenCookie = "jwt"
	SessionCookie     = "user_email"
)

// Claims is the identity carried by an access token.
type Claims struct {
	EmployeeID int64
	Email      string
	Role       string
}

type Service interface {
	GenerateAccessToken(employeeID int64, email string, role string) (token string, expiresAt int64, err error)
	ParseClaims(claims map[string]interface{}) (Claims, bool)
	JWTAuth() *jwtauth.JWTAuth
	SessionCookies(token string, email string, expiresAt int64) []*http.Cookie
	ClearSessionCookies() []*http.Cookie
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(employeeID int64, email string, role string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"sub":         strconv.FormatInt(employeeID, 10),
		"employee_id": strconv.FormatInt(employeeID, 10),
		"email":       email,
		"role":        role,
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseClaims extracts the identity from verified access token claims.
func (j *JWTService) ParseClaims(claims map[string]interface{}) (Claims, bool) {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return Claims{}, false
	}
	raw, ok := claims["employee_id"].(string)
	if !ok {
		return Claims{}, false
	}
	employeeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || employeeID <= 0 {
		return Claims{}, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Claims{EmployeeID: employeeID, Email: email, Role: role}, true
}

func (j *JWTService) SessionCookies(token string, email string, expiresAt int64) []*http.Cookie {
	expires := time.Unix(expiresAt, 0)
	return []*http.Cookie{
		{
			Name:     AccessTokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			Secure:   false,
			SameSite: http.SameSiteStrictMode,
		},
		{
			Name:     SessionCookie,
			Value:    email,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			Secure:   false,
			SameSite: http.SameSiteStrictMode,
		},
	}
}

func (j *JWTService) ClearSessionCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, 2)
	for _, name := range []string{AccessTokenCookie, SessionCookie} {
		cookies = append(cookies, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
	return cookies
}
