package equipment_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/maintenance-management/internal/equipment/postgres"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

var _ = Describe("Equipment Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := equipment.NewService(equipmentPostgres.NewEquipmentRepository(db), database.NewTransactor(db), slogger)
		handler := equipment.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/equipements", handler.List)
		router.Post("/equipements", handler.Create)
		router.Get("/equipements/{id}", handler.Get)
		router.Get("/equipements/reference/{reference}", handler.GetByReference)
		router.Post("/equipements/{id}/organes", handler.CreateOrgan)
		router.Get("/equipements/{id}/organes", handler.ListOrgans)
	})

	send := func(method, path, body string) (*httptest.ResponseRecorder, transport.Envelope) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env transport.Envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	It("should create equipment and read it back by reference", func() {
		w, env := send(http.MethodPost, "/equipements", `{"reference":"PRS-010","name":"Press"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())

		w, env = send(http.MethodGet, "/equipements/reference/PRS-010", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("name", "Press"))
	})

	It("should filter the list by type and production line", func() {
		send(http.MethodPost, "/equipements", `{"reference":"CNV-001","name":"Conveyor","type":"Conveyor","productionLineId":2}`)
		send(http.MethodPost, "/equipements", `{"reference":"CNV-002","name":"Conveyor 2","type":"Conveyor","productionLineId":5}`)
		send(http.MethodPost, "/equipements", `{"reference":"PRS-001","name":"Press","type":"Press","productionLineId":2}`)

		w, env := send(http.MethodGet, "/equipements?type=Conveyor&productionLineId=2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("totalCount", BeNumerically("==", 1)))

		w, _ = send(http.MethodGet, "/equipements?productionLineId=line-2", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 with the error code for unknown equipment", func() {
		w, env := send(http.MethodGet, "/equipements/42", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
		Expect(env.Code).To(Equal("EQUIPMENT_NOT_FOUND"))
	})

	It("should reject a non-numeric id", func() {
		w, env := send(http.MethodGet, "/equipements/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Errors).To(ContainElement("id must be a positive integer"))
	})

	It("should list field errors for an invalid body", func() {
		w, env := send(http.MethodPost, "/equipements", `{"reference":"","name":""}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Errors).To(ContainElements("reference is required", "name is required"))
	})

	It("should reject unknown fields", func() {
		w, _ := send(http.MethodPost, "/equipements", `{"reference":"A-1","name":"A","colour":"red"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return a paged list", func() {
		send(http.MethodPost, "/equipements", `{"reference":"A-1","name":"Alpha"}`)
		w, env := send(http.MethodGet, "/equipements?pageSize=5", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("totalCount", BeNumerically("==", 1)))
		Expect(env.Data).To(HaveKeyWithValue("pageSize", BeNumerically("==", 5)))
	})

	It("should create organs under an equipment", func() {
		send(http.MethodPost, "/equipements", `{"reference":"A-1","name":"Alpha"}`)
		w, _ := send(http.MethodPost, "/equipements/1/organes", `{"name":"Motor"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w, env := send(http.MethodGet, "/equipements/1/organes", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveLen(1))
	})
})
