package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	authPostgres "github.com/frahmantamala/maintenance-management/internal/auth/postgres"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

var _ = Describe("Auth Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	seedUser := func(username string, roles ...string) {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		u := userDatamodel.User{Username: username, Email: username + "@plant.local", PasswordHash: string(hash), IsActive: true}
		Expect(db.Create(&u).Error).To(Succeed())
		for _, name := range roles {
			var role userDatamodel.Role
			Expect(db.Where("name = ?", name).First(&role).Error).To(Succeed())
			Expect(db.Create(&userDatamodel.UserRole{UserID: u.ID, RoleID: role.ID}).Error).To(Succeed())
		}
	}

	do := func(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	login := func(username string) string {
		w, env := do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": "password123"}, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var result auth.AuthResult
		Expect(json.Unmarshal(env.Data, &result)).To(Succeed())
		return result.Token
	}

	BeforeEach(func() {
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		for _, name := range []string{auth.RoleAdministrator, auth.RoleManager, auth.RoleTechnician, auth.RoleOperator, auth.RoleViewer} {
			Expect(db.Create(&userDatamodel.Role{Name: name}).Error).To(Succeed())
		}
		seedUser("admin", auth.RoleAdministrator)
		seedUser("tech", auth.RoleTechnician)

		slogger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
		repo := authPostgres.NewAuthRepository(db)
		tokens := auth.NewJWTTokenGenerator("handler-test-secret-with-32-characters", "mm", "mm-clients", time.Hour)
		service := auth.NewService(repo, tokens, auth.NewMemoryTokenStore(), database.NewTransactor(db), auth.Options{BCryptCost: bcrypt.MinCost}, slogger)
		handler := auth.NewHandler(transport.NewBaseHandler(slogger), service)
		rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), slogger)

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/register", handler.Register)
		router.Post("/auth/refresh-token", handler.RefreshToken)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Get("/auth/me", handler.Me)
			r.Post("/auth/revoke-token", handler.RevokeToken)
			r.With(rbac.RequireAdmin()).Post("/auth/assign-role", handler.AssignRole)
		})
	})

	It("returns the same envelope for unknown users and wrong passwords", func() {
		w1, unknown := do(http.MethodPost, "/auth/login", map[string]string{"username": "unknown_user", "password": "x"}, "")
		w2, wrong := do(http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "wrong_pw"}, "")

		Expect(w1.Code).To(Equal(http.StatusUnauthorized))
		Expect(w2.Code).To(Equal(http.StatusUnauthorized))
		Expect(unknown.Success).To(BeFalse())
		Expect(unknown.Message).To(Equal(wrong.Message))
		Expect(unknown.Code).To(Equal(wrong.Code))
	})

	It("logs in and reads the current user", func() {
		token := login("tech")

		w, env := do(http.MethodGet, "/auth/me", nil, token)
		Expect(w.Code).To(Equal(http.StatusOK))

		var me auth.User
		Expect(json.Unmarshal(env.Data, &me)).To(Succeed())
		Expect(me.Username).To(Equal("tech"))
		Expect(me.Roles).To(ConsistOf(auth.RoleTechnician))
	})

	It("rejects requests without a bearer token", func() {
		w, env := do(http.MethodGet, "/auth/me", nil, "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Success).To(BeFalse())
	})

	It("refuses a revoked token", func() {
		token := login("tech")

		w, _ := do(http.MethodPost, "/auth/revoke-token", nil, token)
		Expect(w.Code).To(Equal(http.StatusOK))

		w, env := do(http.MethodGet, "/auth/me", nil, token)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Code).To(Equal("TOKEN_REVOKED"))
	})

	It("limits role assignment to administrators", func() {
		w, _ := do(http.MethodPost, "/auth/assign-role", map[string]interface{}{"userId": 2, "roleName": auth.RoleManager}, login("tech"))
		Expect(w.Code).To(Equal(http.StatusForbidden))

		adminToken := login("admin")
		w, _ = do(http.MethodPost, "/auth/assign-role", map[string]interface{}{"userId": 2, "roleName": auth.RoleManager}, adminToken)
		Expect(w.Code).To(Equal(http.StatusOK))

		w, env := do(http.MethodPost, "/auth/assign-role", map[string]interface{}{"userId": 2, "roleName": auth.RoleManager}, adminToken)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("ROLE_ALREADY_ASSIGNED"))

		w, env = do(http.MethodPost, "/auth/assign-role", map[string]interface{}{"userId": 99, "roleName": auth.RoleManager}, adminToken)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("USER_NOT_FOUND"))

		w, env = do(http.MethodPost, "/auth/assign-role", map[string]interface{}{"userId": 2, "roleName": "Janitor"}, adminToken)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("ROLE_NOT_FOUND"))
	})

	It("registers a new operator and refreshes its token", func() {
		w, env := do(http.MethodPost, "/auth/register", map[string]string{
			"username": "newbie", "email": "newbie@plant.local",
			"password": "secret1", "confirmPassword": "secret1",
		}, "")
		Expect(w.Code).To(Equal(http.StatusCreated))

		var result auth.AuthResult
		Expect(json.Unmarshal(env.Data, &result)).To(Succeed())
		Expect(result.User.Roles).To(ConsistOf(auth.RoleOperator))

		w, _ = do(http.MethodPost, "/auth/refresh-token", map[string]string{"token": result.Token, "refreshToken": result.RefreshToken}, "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects malformed bodies with a validation envelope", func() {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req.WithContext(context.Background()))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
