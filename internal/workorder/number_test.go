package workorder

import (
	"context"
	stderrors "errors"
	"regexp"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/frahmantamala/maintenance-management/internal"
)

type stubChecker struct {
	taken  func(number string) bool
	err    error
	checks []string
}

func (c *stubChecker) NumberExists(_ context.Context, number string) (bool, error) {
	c.checks = append(c.checks, number)
	if c.err != nil {
		return false, c.err
	}
	return c.taken != nil && c.taken(number), nil
}

var _ = ginkgo.Describe("NumberGenerator", func() {
	var (
		checker   *stubChecker
		generator *NumberGenerator
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		checker = &stubChecker{}
		generator = NewNumberGenerator(checker)
		generator.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
		ctx = context.Background()
	})

	ginkgo.It("should produce OT-YYYYMMDD-XXXXXX numbers", func() {
		number, err := generator.Generate(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(number).To(gomega.MatchRegexp(`^OT-20240309-[0-9A-Z]{6}$`))
	})

	ginkgo.It("should not repeat within the same instant", func() {
		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			number, err := generator.Generate(ctx)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(seen).NotTo(gomega.HaveKey(number))
			seen[number] = true
		}
	})

	ginkgo.It("should retry when a candidate is taken", func() {
		// Given
		first := ""
		checker.taken = func(number string) bool {
			if first == "" {
				first = number
				return true
			}
			return false
		}

		// When
		number, err := generator.Generate(ctx)

		// Then
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(number).NotTo(gomega.Equal(first))
		gomega.Expect(checker.checks).To(gomega.HaveLen(2))
	})

	ginkgo.It("should give up after five collisions", func() {
		checker.taken = func(string) bool { return true }

		_, err := generator.Generate(ctx)

		gomega.Expect(err).To(gomega.MatchError(errors.ErrNumberGeneration))
		gomega.Expect(checker.checks).To(gomega.HaveLen(maxNumberAttempts))
	})

	ginkgo.It("should report a failing lookup as an internal error", func() {
		checker.err = stderrors.New("connection reset")

		_, err := generator.Generate(ctx)

		appErr, ok := errors.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeInternal))
		gomega.Expect(stderrors.Unwrap(err)).To(gomega.MatchError("connection reset"))
	})

	ginkgo.It("should use upper-case Crockford characters only", func() {
		number, err := generator.Generate(ctx)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(regexp.MustCompile(`[ILOU]`).MatchString(number[len(number)-numberSuffixLen:])).To(gomega.BeFalse())
	})
})
