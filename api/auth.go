package api

import (
	"errors"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

const defaultKeyCacheTTL = 15 * time.Minute

// AuthOptions configures token validation. Exactly one of JWKS or
// LocalSecret must be set: JWKS validates RS256 tokens minted by an identity
// provider, LocalSecret switches to HS256 tokens issued by this service.
type AuthOptions struct {
	JWKS        *keyfunc.JWKS
	Audience    string
	Issuer      string
	LocalSecret []byte
	TokenTTL    time.Duration
	KeyCacheTTL time.Duration
}

// Auth validates incoming JWT tokens and, in local mode, issues them.
type Auth struct {
	jwks        *keyfunc.JWKS
	audience    string
	issuer      string
	localSecret []byte
	tokenTTL    time.Duration

	parser      *jwt.Parser
	keyCache    sync.Map
	keyCacheTTL time.Duration
}

type cachedKey struct {
	key       any
	expiresAt time.Time
}

// NewAuth creates a new Auth instance.
func NewAuth(opts AuthOptions) (*Auth, error) {
	if opts.JWKS == nil && len(opts.LocalSecret) == 0 {
		return nil, errors.New("auth: either a JWKS or a local secret is required")
	}
	a := &Auth{
		jwks:        opts.JWKS,
		audience:    opts.Audience,
		issuer:      opts.Issuer,
		localSecret: opts.LocalSecret,
		tokenTTL:    opts.TokenTTL,
		keyCacheTTL: opts.KeyCacheTTL,
	}
	if a.tokenTTL <= 0 {
		a.tokenTTL = 24 * time.Hour
	}
	if a.keyCacheTTL <= 0 {
		a.keyCacheTTL = defaultKeyCacheTTL
	}
	if a.localMode() {
		a.parser = jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	} else {
		a.parser = jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	}
	return a, nil
}

func (a *Auth) localMode() bool {
	return len(a.localSecret) > 0
}

// CanIssue reports whether this instance can mint tokens itself.
func (a *Auth) CanIssue() bool {
	return a.localMode()
}

// Issue mints an HS256 token whose subject is the given user id. Only valid
// in local mode.
func (a *Auth) Issue(userID string) (string, error) {
	if !a.localMode() {
		return "", errors.New("auth: token issuance requires local mode")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	}
	if a.audience != "" {
		claims["aud"] = a.audience
	}
	if a.issuer != "" {
		claims["iss"] = a.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.localSecret)
}

// UserIDFromAuthHeader extracts the user identifier from the Authorization header.
func (a *Auth) UserIDFromAuthHeader(h string) (string, error) {
	token, err := bearerToken(h)
	if err != nil {
		return "", err
	}

	var parsed *jwt.Token
	if a.localMode() {
		parsed, err = a.parser.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return a.localSecret, nil
		})
	} else {
		parsed, err = a.parser.Parse(token, func(t *jwt.Token) (any, error) {
			return a.keyForToken(t)
		})
	}
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return "", errors.New("token expired")
	}
	if !claims.VerifyNotBefore(now, false) {
		return "", errors.New("token not valid yet")
	}
	if a.audience != "" && !claims.VerifyAudience(a.audience, false) {
		return "", errors.New("invalid audience")
	}
	if a.issuer != "" && !claims.VerifyIssuer(a.issuer, false) {
		return "", errors.New("invalid issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub")
	}
	return sub, nil
}

// keyForToken resolves the signing key through the JWKS, memoizing by kid so
// hot paths avoid hitting the keyfunc lock on every request.
func (a *Auth) keyForToken(token *jwt.Token) (any, error) {
	if a.jwks == nil {
		return nil, errors.New("jwks not configured")
	}

	kid, _ := token.Header["kid"].(string)
	if kid != "" {
		if cached, ok := a.keyCache.Load(kid); ok {
			entry := cached.(cachedKey)
			if time.Now().Before(entry.expiresAt) {
				return entry.key, nil
			}
			a.keyCache.Delete(kid)
		}
	}

	key, err := a.jwks.Keyfunc(token)
	if err != nil {
		return nil, err
	}

	if kid != "" {
		a.keyCache.Store(kid, cachedKey{key: key, expiresAt: time.Now().Add(a.keyCacheTTL)})
	}
	return key, nil
}
