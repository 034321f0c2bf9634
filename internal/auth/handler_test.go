package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type stubAuthService struct {
	result      *AuthResult
	authErr     error
	claims      *Claims
	validateErr error
}

func (s *stubAuthService) Authenticate(dto LoginDTO) (*AuthResult, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.result, nil
}

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		stub    *stubAuthService
	)

	ginkgo.BeforeEach(func() {
		stub = &stubAuthService{
			result: &AuthResult{
				Token: "signed-token",
				User:  &Identity{ID: 10, Role: RoleFaculty},
			},
			claims: &Claims{UserID: 10, Role: RoleFaculty},
		}
		handler = NewHandler(stub)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("returns the token and user on success", func() {
			rec := login(`{"email":"faculty@anits.edu.in","password":"pw"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var result AuthResult
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(gomega.Succeed())
			gomega.Expect(result.Token).To(gomega.Equal("signed-token"))
			gomega.Expect(result.User.ID).To(gomega.Equal(int64(10)))
		})

		ginkgo.It("rejects a malformed body", func() {
			rec := login(`{not json`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("rejects missing fields before hitting the service", func() {
			rec := login(`{"email":"faculty@anits.edu.in"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("answers every credential-class failure with the same 401", func() {
			for _, cause := range []error{ErrInvalidCredentials, ErrRoleMismatch, ErrDepartmentMismatch} {
				stub.authErr = cause
				rec := login(`{"email":"x@anits.edu.in","password":"pw"}`)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
				gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("invalid credentials"))
				gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("role"))
				gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("department"))
			}
		})

		ginkgo.It("answers a missing maintenance department with a 400", func() {
			stub.authErr = ErrDepartmentRequired
			rec := login(`{"email":"x@anits.edu.in","password":"pw","role":"Maintenance"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("returns no content for a valid token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer signed-token")
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		})

		ginkgo.It("rejects a missing token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("installs the identity into the request context", func() {
			var seen *Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = IdentityFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
			req.Header.Set("Authorization", "Bearer signed-token")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.ID).To(gomega.Equal(int64(10)))
			gomega.Expect(seen.Role).To(gomega.Equal(RoleFaculty))
		})

		ginkgo.It("rejects an invalid token", func() {
			stub.validateErr = ErrInvalidToken
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ginkgo.Fail("next handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
			req.Header.Set("Authorization", "Bearer bad")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
