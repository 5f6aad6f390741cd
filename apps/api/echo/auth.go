package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/identity"
)

const (
	userTokenContextKey = "userToken"
	contextUserKey      = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
// The token is verified by the upstream gateway and again by the JWT
// middleware here; this layer only translates claims into an
// identity.UserToken.
type Claims struct {
	jwt.StandardClaims
	Username      string   `json:"username,omitempty"`
	Name          string   `json:"name,omitempty"`
	Email         string   `json:"email,omitempty"`
	Organization  string   `json:"organization,omitempty"`
	EmailVerified bool     `json:"email_verified,omitempty"`
	AccessGroups  []string `json:"access_groups,omitempty"`
}

// newAppJWTConfig is the JWT auth middleware config.
func newAppJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    userTokenContextKey,
		Claims:        new(Claims),
	}
}

// GetUserClaims builds the Claims for a UserToken.
func GetUserClaims(conf *core.Config, usr identity.UserToken) *Claims {
	now := time.Now()
	groups := make([]string, 0, len(usr.AccessGroups))
	for _, group := range usr.AccessGroups {
		groups = append(groups, group.String())
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.Username,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:      usr.Username,
		Name:          usr.Name,
		Email:         usr.Email,
		Organization:  usr.Organization,
		EmailVerified: usr.EmailVerified,
		AccessGroups:  groups,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(userTokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser builds the request's identity.UserToken from the verified
// claims, caching it on the context.
func getContextUser(ctx echo.Context) (identity.UserToken, error) {
	if usr, ok := ctx.Get(contextUserKey).(identity.UserToken); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return identity.UserToken{}, err
	}

	usr := identity.UserToken{
		Username:      core.CleanString(claims.Username, true /* lower */),
		Name:          claims.Name,
		Email:         claims.Email,
		Organization:  claims.Organization,
		EmailVerified: claims.EmailVerified,
		AccessGroups:  identity.ParseAccessGroups(claims.AccessGroups),
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
