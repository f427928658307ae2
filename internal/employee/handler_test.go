package employee_test

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

	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	"github.com/frahmantamala/maintenance-management/internal/employee"
	employeePostgres "github.com/frahmantamala/maintenance-management/internal/employee/postgres"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

var _ = Describe("Employee Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), slogger)
		handler := employee.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Post("/employes", handler.Create)
		router.Get("/employes/equipes/{teamId}", handler.GetTeam)
		router.Post("/employes/equipes", handler.CreateTeam)
		router.Post("/employes/equipes/{teamId}/membres/{employeeId}", handler.AddTeamMember)
		router.Post("/employes/competences", handler.CreateCompetence)
		router.Get("/employes/competences/{competenceId}/employes", handler.ListCompetenceHolders)
		router.Post("/employes/{id}/competences/{competenceId}", handler.AssignCompetence)
	})

	send := func(method, path, body string) (*httptest.ResponseRecorder, transport.Envelope) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env transport.Envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	BeforeEach(func() {
		w, _ := send(http.MethodPost, "/employes", `{"lastName":"Durand","firstName":"Anne"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		w, _ = send(http.MethodPost, "/employes", `{"lastName":"Bernard","firstName":"Luc"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("should build a team and read its members back", func() {
		w, env := send(http.MethodPost, "/employes/equipes", `{"name":"Night shift","leaderId":1}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Data).To(HaveKeyWithValue("leaderId", BeNumerically("==", 1)))

		w, _ = send(http.MethodPost, "/employes/equipes/1/membres/2", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w, env = send(http.MethodGet, "/employes/equipes/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("members", HaveLen(1)))
	})

	It("should answer 400 with a distinct code for a repeated membership", func() {
		send(http.MethodPost, "/employes/equipes", `{"name":"Night shift","leaderId":1}`)
		send(http.MethodPost, "/employes/equipes/1/membres/2", "")

		w, env := send(http.MethodPost, "/employes/equipes/1/membres/2", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("ALREADY_TEAM_MEMBER"))
	})

	It("should answer 404 for an unknown team", func() {
		w, env := send(http.MethodGet, "/employes/equipes/9", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("TEAM_NOT_FOUND"))
	})

	It("should list the holders of an assigned competence", func() {
		w, _ := send(http.MethodPost, "/employes/competences", `{"name":"Welding"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w, _ = send(http.MethodPost, "/employes/2/competences/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w, env := send(http.MethodGet, "/employes/competences/1/employes", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveLen(1))
	})
})
