package database_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	equipmentDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/equipment"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Suite")
}

var _ = Describe("GormTransactor", func() {
	var (
		db         *gorm.DB
		transactor *database.GormTransactor
		ctx        context.Context
	)

	count := func() int64 {
		var n int64
		Expect(db.Model(&equipmentDatamodel.Equipment{}).Count(&n).Error).To(Succeed())
		return n
	}

	insert := func(ctx context.Context, reference string) error {
		return database.Conn(ctx, db).Create(&equipmentDatamodel.Equipment{Reference: reference, Name: reference}).Error
	}

	BeforeEach(func() {
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		transactor = database.NewTransactor(db)
		ctx = context.Background()
	})

	It("commits every write when the function succeeds", func() {
		err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := insert(ctx, "EQ-1"); err != nil {
				return err
			}
			return insert(ctx, "EQ-2")
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(count()).To(Equal(int64(2)))
	})

	It("rolls back every write when the function fails", func() {
		boom := errors.New("boom")
		err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			Expect(insert(ctx, "EQ-1")).To(Succeed())
			return boom
		})
		Expect(err).To(MatchError(boom))
		Expect(count()).To(BeZero())
	})

	It("joins an outer transaction", func() {
		err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			Expect(insert(ctx, "EQ-1")).To(Succeed())
			Expect(transactor.WithinTransaction(ctx, func(ctx context.Context) error {
				return insert(ctx, "EQ-2")
			})).To(Succeed())
			return errors.New("outer failure")
		})
		Expect(err).To(HaveOccurred())
		Expect(count()).To(BeZero())
	})

	It("runs after-commit hooks only once the outer transaction commits", func() {
		var ran []string
		err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			database.AfterCommit(ctx, func() { ran = append(ran, "outer") })
			return transactor.WithinTransaction(ctx, func(ctx context.Context) error {
				database.AfterCommit(ctx, func() { ran = append(ran, "inner") })
				Expect(ran).To(BeEmpty())
				return nil
			})
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(Equal([]string{"outer", "inner"}))
	})

	It("drops after-commit hooks on rollback", func() {
		ran := false
		_ = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			database.AfterCommit(ctx, func() { ran = true })
			return errors.New("rollback")
		})
		Expect(ran).To(BeFalse())

		database.AfterCommit(ctx, func() { ran = true })
		Expect(ran).To(BeTrue())
	})

	It("translates unique violations", func() {
		Expect(insert(ctx, "EQ-1")).To(Succeed())
		err := insert(ctx, "EQ-1")
		Expect(database.IsUniqueViolation(err)).To(BeTrue())
	})

	It("recognises missing records", func() {
		var row equipmentDatamodel.Equipment
		err := db.First(&row, 42).Error
		Expect(database.IsNotFound(err)).To(BeTrue())
	})
})
