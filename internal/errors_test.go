package internal_test

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/maintenance-management/internal"
)

var _ = Describe("AppError", func() {
	It("should still match its sentinel after WithCause", func() {
		err := errors.ErrWorkOrderNotFound.WithCause(stderrors.New("record not found"))

		Expect(stderrors.Is(err, errors.ErrWorkOrderNotFound)).To(BeTrue())
		Expect(stderrors.Is(err, errors.ErrEquipmentNotFound)).To(BeFalse())
		Expect(errors.ErrWorkOrderNotFound.Cause).To(BeNil())
	})

	It("should be found through wrapping", func() {
		wrapped := fmt.Errorf("advance step: %w", errors.ErrHistoryClosed)

		appErr, ok := errors.IsAppError(wrapped)

		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.Type).To(Equal(errors.ErrorTypeConflict))
		Expect(appErr.Code).To(Equal(errors.ErrCodeHistoryClosed))
	})

	It("should surface the first field message", func() {
		err := errors.NewValidationFieldError("progression", "progression must be between 0 and 100", errors.ErrCodeOutOfRange)

		Expect(err.Error()).To(Equal("progression must be between 0 and 100"))
		Expect(err.FieldMessages()).To(ConsistOf("progression must be between 0 and 100"))
		Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("should not serialize the cause", func() {
		err := errors.NewInternalError("failed to load work order", stderrors.New("connection refused"))

		raw, marshalErr := json.Marshal(err)

		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("connection refused"))
		Expect(string(raw)).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
	})

	It("should map rate limiting to 429", func() {
		err := errors.NewTooManyRequestsError("slow down")
		Expect(err.StatusCode).To(Equal(http.StatusTooManyRequests))
		Expect(err.Code).To(Equal(errors.ErrCodeRateLimited))
	})
})
