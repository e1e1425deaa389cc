package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/campusdesk/jwt"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

type fixedSource struct{ s session.Session }

func (f fixedSource) Session(*http.Request) session.Session { return f.s }

func okHandler(t *testing.T, want role.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want != "" {
			s, ok := SessionFromContext(r.Context())
			if !ok || s.Role != want {
				t.Errorf("expected session with role %q in context, got %+v %v", want, s, ok)
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
}

func serve(h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRequireRolesAdmits(t *testing.T) {
	h := RequireRoles(fixedSource{authed(role.MessAdmin)}, role.MessAdmin)(okHandler(t, role.MessAdmin))
	rr := serve(h, "/mess-admin/dashboard", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "page" {
		t.Fatalf("expected page, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRequireRolesRedirects(t *testing.T) {
	h := RequireRoles(fixedSource{authed(role.Student)}, role.MessAdmin)(okHandler(t, ""))
	rr := serve(h, "/mess-admin/dashboard", nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != UnauthorizedPath {
		t.Fatalf("expected 303 to unauthorized, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	h = RequireRoles(fixedSource{}, role.MessAdmin)(okHandler(t, ""))
	rr = serve(h, "/mess-admin/dashboard", nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != SelectPortalPath {
		t.Fatalf("expected 303 to select-portal, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireRolesPendingPlaceholder(t *testing.T) {
	h := RequireRoles(fixedSource{session.Session{Loading: true}})(okHandler(t, ""))
	rr := serve(h, "/student/dashboard", nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected placeholder with Retry-After, got %d %v", rr.Code, rr.Header())
	}
	if rr.Body.String() == "page" {
		t.Fatal("children rendered while loading")
	}
}

func TestRequirePortalWardenIntoHostelAdmin(t *testing.T) {
	h := RequirePortal(fixedSource{authed(role.Warden)}, role.PortalHostelAdmin)(okHandler(t, role.Warden))
	if rr := serve(h, "/hostel-admin/dashboard", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected warden admitted to hostel-admin portal, got %d", rr.Code)
	}
}

func TestPublicOnly(t *testing.T) {
	h := PublicOnly(fixedSource{authed(role.HostelAdmin)})(okHandler(t, ""))
	rr := serve(h, "/login/hostel-admin", nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/hostel-admin/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	h = PublicOnly(fixedSource{})(okHandler(t, ""))
	if rr := serve(h, "/login/student", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected anonymous render, got %d", rr.Code)
	}
}

func TestPublicOnlyNoSelfRedirect(t *testing.T) {
	h := PublicOnly(fixedSource{authed("librarian")})(okHandler(t, ""))
	if rr := serve(h, "/", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected render instead of redirecting / to itself, got %d", rr.Code)
	}
}

type snapshotFunc func() session.Session

func (f snapshotFunc) Snapshot() session.Session { return f() }

func TestStoreSourceReadsLatestSnapshot(t *testing.T) {
	store := session.NewStore(nil)
	h := RequireRoles(StoreSource{Store: store}, role.Student)(okHandler(t, role.Student))

	if rr := serve(h, "/student/dashboard", nil); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect before login, got %d", rr.Code)
	}
	_, err := store.Dispatch(context.Background(), session.Fulfilled(session.OpLogin, session.Identity{
		UserID: "u", Role: role.Student, Token: "tok",
	}))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if rr := serve(h, "/student/dashboard", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected render after login, got %d", rr.Code)
	}

	var src Source = StoreSource{Store: snapshotFunc(func() session.Session { return authed(role.Admin) })}
	if got := src.Session(nil); got.Role != role.Admin {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestBearerSource(t *testing.T) {
	secret := []byte("gateway-secret")
	reader, err := jwt.NewReader(jwt.Config{SigningMethod: jwt.MethodHS256, Key: secret})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	sign := func(c jwt.Claims) string {
		tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, c).SignedString(secret)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}

	src := BearerSource{Reader: reader, Fallback: fixedSource{authed(role.Student)}}
	h := RequirePortal(src, role.PortalMessAdmin)(okHandler(t, role.MessAdmin))

	good := sign(jwt.Claims{ID: "u1", Role: "mess-admin", RegisteredClaims: gjwt.RegisteredClaims{
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	if rr := serve(h, "/mess-admin/dashboard", http.Header{"Authorization": {"Bearer " + good}}); rr.Code != http.StatusOK {
		t.Fatalf("expected bearer session admitted, got %d", rr.Code)
	}

	expired := sign(jwt.Claims{ID: "u1", Role: "mess_admin", RegisteredClaims: gjwt.RegisteredClaims{
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	rr := serve(h, "/mess-admin/dashboard", http.Header{"Authorization": {"Bearer " + expired}})
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != SelectPortalPath {
		t.Fatalf("expected expired token treated as anonymous, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = serve(h, "/mess-admin/dashboard", nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != UnauthorizedPath {
		t.Fatalf("expected fallback student session unauthorized, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}
