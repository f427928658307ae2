package employee_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	"github.com/frahmantamala/maintenance-management/internal/employee"
	employeePostgres "github.com/frahmantamala/maintenance-management/internal/employee/postgres"
)

var _ = Describe("Teams and competences", func() {
	var (
		service       *employee.Service
		ctx           context.Context
		leader, other *employee.Employee
	)

	BeforeEach(func() {
		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(employeePostgres.NewEmployeeRepository(db), logger)
		ctx = context.Background()

		leader, err = service.Create(ctx, employee.EmployeeDTO{LastName: "Durand", FirstName: "Anne"})
		Expect(err).NotTo(HaveOccurred())
		other, err = service.Create(ctx, employee.EmployeeDTO{LastName: "Bernard", FirstName: "Luc"})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateTeam", func() {
		It("should create a team under an existing leader", func() {
			team, err := service.CreateTeam(ctx, employee.TeamDTO{Name: " Night shift ", LeaderID: leader.ID})

			Expect(err).NotTo(HaveOccurred())
			Expect(team.Name).To(Equal("Night shift"))
			Expect(team.LeaderID).To(Equal(leader.ID))
		})

		It("should reject an unknown leader", func() {
			_, err := service.CreateTeam(ctx, employee.TeamDTO{Name: "Night shift", LeaderID: 99})
			Expect(err).To(MatchError(errors.ErrEmployeeNotFound))
		})

		It("should reject a duplicate name", func() {
			_, err := service.CreateTeam(ctx, employee.TeamDTO{Name: "Night shift", LeaderID: leader.ID})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateTeam(ctx, employee.TeamDTO{Name: "Night shift", LeaderID: other.ID})
			Expect(err).To(MatchError(errors.ErrDuplicateTeam))
		})

		It("should require a name", func() {
			_, err := service.CreateTeam(ctx, employee.TeamDTO{LeaderID: leader.ID})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})
	})

	Describe("membership", func() {
		var team *employee.Team

		BeforeEach(func() {
			var err error
			team, err = service.CreateTeam(ctx, employee.TeamDTO{Name: "Night shift", LeaderID: leader.ID})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should load members with the team", func() {
			Expect(service.AssignToTeam(ctx, team.ID, other.ID)).To(Succeed())

			loaded, err := service.GetTeam(ctx, team.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Members).To(HaveLen(1))
			Expect(loaded.Members[0].ID).To(Equal(other.ID))
		})

		It("should refuse the same member twice", func() {
			Expect(service.AssignToTeam(ctx, team.ID, other.ID)).To(Succeed())
			Expect(service.AssignToTeam(ctx, team.ID, other.ID)).To(MatchError(errors.ErrAlreadyTeamMember))
		})

		It("should report a removal of a non member", func() {
			Expect(service.RemoveFromTeam(ctx, team.ID, other.ID)).To(MatchError(errors.ErrNotTeamMember))
		})

		It("should report an unknown team", func() {
			_, err := service.ListByTeam(ctx, 99)
			Expect(err).To(MatchError(errors.ErrTeamNotFound))
		})

		It("should keep the leader while the team exists", func() {
			Expect(service.Delete(ctx, leader.ID)).To(MatchError(errors.ErrEmployeeInUse))

			Expect(service.DeleteTeam(ctx, team.ID)).To(Succeed())
			Expect(service.Delete(ctx, leader.ID)).To(Succeed())
		})

		It("should list teams by name", func() {
			_, err := service.CreateTeam(ctx, employee.TeamDTO{Name: "Day shift", LeaderID: other.ID})
			Expect(err).NotTo(HaveOccurred())

			page, err := service.ListTeams(ctx, paging.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalCount).To(Equal(int64(2)))
			Expect(page.Items[0].Name).To(Equal("Day shift"))
		})
	})

	Describe("competences", func() {
		var welding *employee.Competence

		BeforeEach(func() {
			var err error
			welding, err = service.CreateCompetence(ctx, employee.CompetenceDTO{Name: "Welding"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a duplicate name", func() {
			_, err := service.CreateCompetence(ctx, employee.CompetenceDTO{Name: "Welding"})
			Expect(err).To(MatchError(errors.ErrDuplicateCompetence))
		})

		It("should assign a competence once", func() {
			Expect(service.AssignCompetence(ctx, other.ID, welding.ID)).To(Succeed())
			Expect(service.AssignCompetence(ctx, other.ID, welding.ID)).To(MatchError(errors.ErrCompetenceAssigned))

			holders, err := service.ListByCompetence(ctx, welding.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(holders).To(HaveLen(1))
			Expect(holders[0].ID).To(Equal(other.ID))
		})

		It("should report an unknown competence", func() {
			Expect(service.AssignCompetence(ctx, other.ID, 99)).To(MatchError(errors.ErrCompetenceNotFound))
		})

		It("should report a competence the employee does not hold", func() {
			Expect(service.RemoveCompetence(ctx, other.ID, welding.ID)).To(MatchError(errors.ErrCompetenceMissing))
		})

		It("should drop assignments with the competence", func() {
			Expect(service.AssignCompetence(ctx, other.ID, welding.ID)).To(Succeed())
			Expect(service.DeleteCompetence(ctx, welding.ID)).To(Succeed())

			_, err := service.GetCompetence(ctx, welding.ID)
			Expect(err).To(MatchError(errors.ErrCompetenceNotFound))
		})
	})
})
