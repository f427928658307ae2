package workorder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/maintenance-management/internal/equipment/postgres"
	"github.com/frahmantamala/maintenance-management/internal/transport"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
	workorderPostgres "github.com/frahmantamala/maintenance-management/internal/workorder/postgres"
)

var _ = Describe("Work Order Handler Integration", func() {
	var (
		router      *chi.Mux
		equipmentID int64
	)

	BeforeEach(func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		transactor := database.NewTransactor(db)
		equipmentService := equipment.NewService(equipmentPostgres.NewEquipmentRepository(db), transactor, slogger)
		press, err := equipmentService.Create(context.Background(), equipment.EquipmentDTO{Reference: "PRS-001", Name: "Press"})
		Expect(err).NotTo(HaveOccurred())
		equipmentID = press.ID

		service := workorder.NewService(workorderPostgres.NewWorkOrderRepository(db), equipmentService, nil, nil, transactor, nil, slogger)
		handler := workorder.NewHandler(transport.NewBaseHandler(slogger), service)

		// X-User-ID stands in for the auth middleware.
		withUser := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("X-User-ID") != "" {
					r = r.WithContext(auth.ContextWithUser(r.Context(), &auth.User{ID: 7, Username: "manager", Roles: []string{auth.RoleManager}}))
				}
				next.ServeHTTP(w, r)
			})
		}

		router = chi.NewRouter()
		router.Use(withUser)
		router.Get("/ordres-travail", handler.List)
		router.Get("/ordres-travail/generate-number", handler.GenerateNumber)
		router.Get("/ordres-travail/numero/{number}", handler.GetByNumber)
		router.Post("/ordres-travail", handler.Create)
		router.Get("/ordres-travail/{id}", handler.Get)
		router.Patch("/ordres-travail/{id}/progression", handler.UpdateProgression)
		router.Patch("/ordres-travail/{id}/validate", handler.Validate)
		router.Delete("/ordres-travail/{id}", handler.Delete)
	})

	send := func(method, path, body string, authenticated bool) (*httptest.ResponseRecorder, transport.Envelope) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if authenticated {
			req.Header.Set("X-User-ID", "7")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env transport.Envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	createBody := func(number string) string {
		return fmt.Sprintf(`{"number":%q,"equipmentId":%d,"taskDescription":"Replace seal"}`, number, equipmentID)
	}

	It("should create a work order and record its author", func() {
		w, env := send(http.MethodPost, "/ordres-travail", createBody("OT-0001"), true)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
		Expect(env.Data).To(HaveKeyWithValue("status", "ToDo"))
		Expect(env.Data).To(HaveKeyWithValue("createdBy", BeNumerically("==", 7)))
	})

	It("should answer 400 with a distinct code for a duplicate number", func() {
		send(http.MethodPost, "/ordres-travail", createBody("OT-0001"), true)

		w, env := send(http.MethodPost, "/ordres-travail", createBody("OT-0001"), true)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Code).To(Equal("DUPLICATE_WORK_ORDER_NUMBER"))
	})

	It("should refuse to link an intervention request on the plain create path", func() {
		body := fmt.Sprintf(`{"number":"OT-0010","equipmentId":%d,"taskDescription":"Leak","interventionRequestId":42}`, equipmentID)

		w, env := send(http.MethodPost, "/ordres-travail", body, true)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("INVALID_REQUEST"))

		w, env = send(http.MethodGet, "/ordres-travail?interventionRequestId=42", "", true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("totalCount", BeNumerically("==", 0)))
	})

	It("should answer 400 for an out-of-range progression", func() {
		_, created := send(http.MethodPost, "/ordres-travail", createBody("OT-0002"), true)
		id := created.Data.(map[string]interface{})["id"]

		w, env := send(http.MethodPatch, fmt.Sprintf("/ordres-travail/%v/progression", id), `{"progression":150}`, true)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Errors).To(ContainElement("progression must be between 0 and 100"))
	})

	It("should validate a Done work order as the caller", func() {
		_, created := send(http.MethodPost, "/ordres-travail", createBody("OT-0003"), true)
		id := created.Data.(map[string]interface{})["id"]
		w, _ := send(http.MethodPatch, fmt.Sprintf("/ordres-travail/%v/progression", id), `{"progression":100,"status":"Done"}`, true)
		Expect(w.Code).To(Equal(http.StatusOK))

		w, _ = send(http.MethodPatch, fmt.Sprintf("/ordres-travail/%v/validate", id), "", false)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		w, env := send(http.MethodPatch, fmt.Sprintf("/ordres-travail/%v/validate", id), `{"comment":"checked"}`, true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("status", "Validated"))
		Expect(env.Data).To(HaveKeyWithValue("validatorId", BeNumerically("==", 7)))
		Expect(env.Data).To(HaveKeyWithValue("validationComment", "checked"))
	})

	It("should generate numbers and find work orders by number", func() {
		w, env := send(http.MethodGet, "/ordres-travail/generate-number", "", true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("number", MatchRegexp(`^OT-\d{8}-`)))

		send(http.MethodPost, "/ordres-travail", createBody("OT-0004"), true)
		w, env = send(http.MethodGet, "/ordres-travail/numero/OT-0004", "", true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("number", "OT-0004"))

		w, env = send(http.MethodGet, "/ordres-travail/numero/OT-9999", "", true)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("WORK_ORDER_NOT_FOUND"))
	})

	It("should list with paging metadata and reject a bad filter", func() {
		send(http.MethodPost, "/ordres-travail", createBody("OT-0005"), true)

		w, env := send(http.MethodGet, fmt.Sprintf("/ordres-travail?equipmentId=%d&pageSize=5", equipmentID), "", true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("totalCount", BeNumerically("==", 1)))
		Expect(env.Data).To(HaveKeyWithValue("pageSize", BeNumerically("==", 5)))

		w, _ = send(http.MethodGet, "/ordres-travail?technicianId=abc", "", true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a malformed id", func() {
		w, env := send(http.MethodGet, "/ordres-travail/abc", "", true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
	})
})
