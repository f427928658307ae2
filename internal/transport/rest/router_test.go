package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/app"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	authPostgres "github.com/frahmantamala/maintenance-management/internal/auth/postgres"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/transport/rest"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Data    map[string]interface{} `json:"data"`
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		tokens map[string]string
	)

	const password = "secret123"

	BeforeEach(func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()
		Expect(authPostgres.SeedAccessControl(ctx, db)).To(Succeed())

		hash, err := auth.HashPassword(password, bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		for username, role := range map[string]string{
			"admin":    auth.RoleAdministrator,
			"tech":     auth.RoleTechnician,
			"operator": auth.RoleOperator,
		} {
			user := &userDatamodel.User{Username: username, Email: username + "@plant.local", PasswordHash: hash, IsActive: true}
			Expect(authPostgres.EnsureUser(ctx, db, user, role)).To(Succeed())
		}

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		a := app.New(app.Dependencies{
			DB:        db,
			Tokens:    auth.NewMemoryTokenStore(),
			Publisher: events.NewEventBus(slogger),
			Security: internal.SecurityConfig{
				JWTSecret:        "0123456789abcdef0123456789abcdef",
				Issuer:           "maintenance-management",
				Audience:         "maintenance-clients",
				TokenExpiryHours: 1,
				BCryptCost:       bcrypt.MinCost,
			},
			Logger: slogger,
		})

		handlers := a.Handlers
		handlers.Health = rest.NewHealthHandler(nil, nil)
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, handlers, rest.Options{MetricsPath: "/metrics"}, slogger)

		tokens = map[string]string{}
	})

	call := func(method, path, token string, body interface{}) (int, envelope) {
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
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		if rec.Body.Len() > 0 {
			_ = json.Unmarshal(rec.Body.Bytes(), &env)
		}
		return rec.Code, env
	}

	login := func(username string) string {
		if t, ok := tokens[username]; ok {
			return t
		}
		code, env := call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
		Expect(code).To(Equal(http.StatusOK), env.Message)
		token, _ := env.Data["token"].(string)
		Expect(token).NotTo(BeEmpty())
		tokens[username] = token
		return token
	}

	createEquipment := func() int64 {
		code, env := call(http.MethodPost, "/api/v1/equipements", login("admin"), map[string]interface{}{
			"reference": "CMP-100",
			"name":      "Air compressor",
		})
		Expect(code).To(Equal(http.StatusCreated), env.Message)
		return int64(env.Data["id"].(float64))
	}

	It("should answer ping and metrics without authentication", func() {
		code, _ := call(http.MethodGet, "/api/v1/ping", "", nil)
		Expect(code).To(Equal(http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should require a token on protected routes", func() {
		code, env := call(http.MethodGet, "/api/v1/ordres-travail", "", nil)

		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(env.Success).To(BeFalse())
	})

	It("should reject bad credentials", func() {
		code, env := call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})

		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(env.Code).To(Equal("INVALID_CREDENTIALS"))
	})

	It("should keep equipment management to staff roles", func() {
		code, _ := call(http.MethodPost, "/api/v1/equipements", login("tech"), map[string]interface{}{
			"reference": "CMP-200",
			"name":      "Pump",
		})

		Expect(code).To(Equal(http.StatusForbidden))
	})

	It("should run a work order from creation to validation", func() {
		// Given
		equipmentID := createEquipment()
		tech := login("tech")

		// When the technician creates and finishes the work order
		code, env := call(http.MethodPost, "/api/v1/ordres-travail", tech, map[string]interface{}{
			"equipmentId":     equipmentID,
			"taskDescription": "Replace the intake filter",
			"priority":        "High",
		})
		Expect(code).To(Equal(http.StatusCreated), env.Message)
		id := int64(env.Data["id"].(float64))
		Expect(env.Data["number"]).To(MatchRegexp(`^OT-\d{8}-[0-9A-Z]{6}$`))

		path := "/api/v1/ordres-travail/" + strconv.FormatInt(id, 10)
		code, env = call(http.MethodPatch, path+"/progression", tech, map[string]interface{}{
			"progression": 100,
			"status":      "Done",
		})
		Expect(code).To(Equal(http.StatusOK), env.Message)

		// Then only a validator may validate it
		code, _ = call(http.MethodPatch, path+"/validate", tech, map[string]string{})
		Expect(code).To(Equal(http.StatusForbidden))

		code, env = call(http.MethodPatch, path+"/validate", login("admin"), map[string]string{"comment": "checked"})
		Expect(code).To(Equal(http.StatusOK), env.Message)
		Expect(env.Data["status"]).To(Equal("Validated"))
	})

	It("should gate work order deletion on the delete permission", func() {
		equipmentID := createEquipment()
		code, env := call(http.MethodPost, "/api/v1/ordres-travail", login("tech"), map[string]interface{}{
			"equipmentId":     equipmentID,
			"taskDescription": "Inspect belts",
		})
		Expect(code).To(Equal(http.StatusCreated), env.Message)
		path := "/api/v1/ordres-travail/" + strconv.FormatInt(int64(env.Data["id"].(float64)), 10)

		code, _ = call(http.MethodDelete, path, login("tech"), nil)
		Expect(code).To(Equal(http.StatusForbidden))

		code, _ = call(http.MethodDelete, path, login("admin"), nil)
		Expect(code).To(Equal(http.StatusOK))
	})

	It("should let an operator file an intervention request", func() {
		equipmentID := createEquipment()

		code, env := call(http.MethodPost, "/api/v1/demandes-intervention", login("operator"), map[string]interface{}{
			"equipmentId":        equipmentID,
			"problemDescription": "Compressor trips on start",
		})

		Expect(code).To(Equal(http.StatusCreated), env.Message)
		Expect(env.Data["status"]).To(Equal("New"))

		path := "/api/v1/demandes-intervention/" + strconv.FormatInt(int64(env.Data["id"].(float64)), 10)
		code, _ = call(http.MethodPatch, path+"/statut", login("operator"), map[string]string{"status": "Closed"})
		Expect(code).To(Equal(http.StatusForbidden))
	})
})

