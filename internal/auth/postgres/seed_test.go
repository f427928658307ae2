package postgres_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	authPostgres "github.com/frahmantamala/maintenance-management/internal/auth/postgres"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
)

var _ = Describe("Access control seeding", func() {
	It("should be idempotent and grant the default permissions", func() {
		// Given
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		// When
		Expect(authPostgres.SeedAccessControl(ctx, db)).To(Succeed())
		Expect(authPostgres.SeedAccessControl(ctx, db)).To(Succeed())

		// Then
		var roles int64
		Expect(db.Model(&userDatamodel.Role{}).Count(&roles).Error).To(Succeed())
		Expect(roles).To(Equal(int64(len(auth.RolePermissions))))

		repo := authPostgres.NewAuthRepository(db)
		perms, err := repo.GetPermissionsForRoles(ctx, []string{auth.RoleTechnician})
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(ConsistOf(auth.PermWorkOrdersManage))
	})

	It("should create a user once and attach roles", func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()
		Expect(authPostgres.SeedAccessControl(ctx, db)).To(Succeed())

		first := &userDatamodel.User{Username: "admin", Email: "admin@plant.local", PasswordHash: "x", IsActive: true}
		Expect(authPostgres.EnsureUser(ctx, db, first, auth.RoleAdministrator)).To(Succeed())
		again := &userDatamodel.User{Username: "admin", Email: "admin@plant.local", PasswordHash: "y", IsActive: true}
		Expect(authPostgres.EnsureUser(ctx, db, again, auth.RoleAdministrator)).To(Succeed())

		Expect(again.ID).To(Equal(first.ID))
		roles, err := authPostgres.NewAuthRepository(db).GetUserRoles(ctx, first.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).To(Equal([]string{auth.RoleAdministrator}))
	})
})
