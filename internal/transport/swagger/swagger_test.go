package swagger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/maintenance-management/api"
	"github.com/frahmantamala/maintenance-management/internal/transport/swagger"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should load and validate the shipped document", func() {
		doc, err := swagger.Load(context.Background(), api.OpenAPI)

		Expect(err).NotTo(HaveOccurred())
		for _, path := range []string{
			"/ordres-travail",
			"/ordres-travail/{id}/progression",
			"/ordres-travail/{id}/validate",
			"/ordres-travail/{id}/workflow/history/{historyId}",
			"/demandes-intervention/{id}/ordres-travail",
			"/auth/login",
		} {
			Expect(doc.Paths.Value(path)).NotTo(BeNil(), path)
		}
	})

	It("should reject a broken document", func() {
		_, err := swagger.Load(context.Background(), []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"))
		Expect(err).To(HaveOccurred())
	})

	It("should serve the document as JSON", func() {
		doc, err := swagger.Load(context.Background(), api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())
		h, err := swagger.SpecHandler(doc)
		Expect(err).NotTo(HaveOccurred())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swagger.SpecPath, nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("openapi", "3.0.3"))
	})
})
