package middleware

import (
	"net/http"
	"strings"

	"github.com/MrEthical07/campusdesk/jwt"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

// BearerSource serves requests carrying an Authorization bearer token under the session
// the token describes, and everything else under Fallback. An unreadable or expired
// token yields an anonymous session.
type BearerSource struct {
	Reader   *jwt.Reader
	Fallback Source
}

// Session decodes the bearer token, if any.
func (b BearerSource) Session(r *http.Request) session.Session {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok || b.Reader == nil {
		return resolve(b.Fallback, r)
	}

	claims, err := b.Reader.Read(token)
	if err != nil {
		return session.Session{}
	}
	s := session.Session{
		UserID:      claims.UserID(),
		Role:        role.Role(role.Normalize(claims.Role)),
		DisplayName: claims.Name,
		CollegeName: claims.CollegeName,
		Token:       token,
	}
	if exp := claims.Expiry(); !exp.IsZero() {
		s.ExpiresAt = exp.Unix()
	}
	if s.Role == "" {
		s.Token = ""
	}
	return s
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
