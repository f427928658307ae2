package workorder_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/database/databasetest"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/employee"
	employeePostgres "github.com/frahmantamala/maintenance-management/internal/employee/postgres"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/maintenance-management/internal/equipment/postgres"
	"github.com/frahmantamala/maintenance-management/internal/workflow"
	workflowPostgres "github.com/frahmantamala/maintenance-management/internal/workflow/postgres"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
	workorderPostgres "github.com/frahmantamala/maintenance-management/internal/workorder/postgres"
)

func TestWorkOrder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Work Order Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// interleavingRepository runs concurrentWrite right after the service has
// read a work order, as another request committing in between would.
type interleavingRepository struct {
	workorder.RepositoryAPI
	concurrentWrite func(ctx context.Context, id int64)
}

func (r *interleavingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error) {
	row, err := r.RepositoryAPI.GetByIDForUpdate(ctx, id)
	if err == nil && row != nil && r.concurrentWrite != nil {
		r.concurrentWrite(ctx, id)
	}
	return row, err
}

// uncheckedNumberRepository reports every number as free, leaving the unique
// index as the only guard against duplicates.
type uncheckedNumberRepository struct {
	workorder.RepositoryAPI
}

func (uncheckedNumberRepository) NumberExists(context.Context, string) (bool, error) {
	return false, nil
}

func intPtr(i int) *int           { return &i }
func int64Ptr(i int64) *int64     { return &i }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

var _ = Describe("Work Order Service", func() {
	var (
		db          *gorm.DB
		service     *workorder.Service
		workflows   *workflow.Service
		publisher   *recordingPublisher
		ctx         context.Context
		equipmentID int64
		newService  func(repo workorder.RepositoryAPI) *workorder.Service
	)

	BeforeEach(func() {
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		transactor := database.NewTransactor(db)
		publisher = &recordingPublisher{}
		ctx = context.Background()

		equipmentService := equipment.NewService(equipmentPostgres.NewEquipmentRepository(db), transactor, slogger)
		employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(db), slogger)
		workflows = workflow.NewService(workflowPostgres.NewWorkflowRepository(db), transactor, publisher, slogger)
		newService = func(repo workorder.RepositoryAPI) *workorder.Service {
			return workorder.NewService(repo, equipmentService, employeeService, workflows, transactor, publisher, slogger)
		}
		service = newService(workorderPostgres.NewWorkOrderRepository(db))

		press, err := equipmentService.Create(ctx, equipment.EquipmentDTO{Reference: "PRS-001", Name: "Hydraulic press"})
		Expect(err).NotTo(HaveOccurred())
		equipmentID = press.ID
	})

	create := func(number string) *workorder.WorkOrder {
		wo, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
			Number:          number,
			EquipmentID:     equipmentID,
			TaskDescription: "Replace seal",
		})
		Expect(err).NotTo(HaveOccurred())
		return wo
	}

	countOrders := func() int64 {
		var n int64
		Expect(db.Model(&workorderDatamodel.WorkOrder{}).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("lifecycle", func() {
		It("should run from creation to validation", func() {
			// Given
			wo := create("OT-0001")
			Expect(wo.Status).To(Equal(workorder.StatusToDo))
			Expect(wo.Progression).To(BeZero())

			// When a second order reuses the number
			_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{Number: "OT-0001", EquipmentID: equipmentID, TaskDescription: "Again"})

			// Then
			Expect(err).To(MatchError(errors.ErrDuplicateWorkOrder))

			_, err = service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(150)})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))

			done, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression: intPtr(100),
				Status:      strPtr(string(workorder.StatusDone)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(done.Progression).To(Equal(100))
			Expect(done.Status).To(Equal(workorder.StatusDone))

			validated, err := service.Validate(ctx, wo.ID, 7, workorder.ValidateDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(validated.Status).To(Equal(workorder.StatusValidated))
			Expect(validated.ValidatedAt).NotTo(BeNil())
			Expect(*validated.ValidatorID).To(Equal(int64(7)))

			stored, err := service.Get(ctx, wo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(workorder.StatusValidated))
			Expect(*stored.ValidatorID).To(Equal(int64(7)))
		})
	})

	Describe("Create", func() {
		It("should generate a number when none is given", func() {
			wo := create("")
			Expect(wo.Number).To(MatchRegexp(`^OT-\d{8}-[0-9A-Z]{6}$`))
		})

		It("should apply the defaults", func() {
			wo := create("OT-0002")
			Expect(wo.Priority).To(Equal(workorder.PriorityMedium))
			Expect(wo.MaintenanceType).To(Equal(workorder.MaintenanceCorrective))
		})

		It("should reject unknown equipment", func() {
			_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{EquipmentID: 999, TaskDescription: "x"})
			Expect(err).To(MatchError(errors.ErrEquipmentNotFound))
		})

		It("should reject an unknown technician", func() {
			_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
				EquipmentID:     equipmentID,
				TaskDescription: "x",
				TechnicianID:    int64Ptr(42),
			})
			Expect(err).To(MatchError(errors.ErrEmployeeNotFound))
		})

		It("should reject an organ of another equipment", func() {
			_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
				EquipmentID:     equipmentID,
				OrganID:         int64Ptr(5),
				TaskDescription: "x",
			})
			Expect(err).To(MatchError(errors.ErrOrganNotFound))
		})

		It("should reject an unknown priority", func() {
			_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
				EquipmentID:     equipmentID,
				TaskDescription: "x",
				Priority:        strPtr("Critical"),
			})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldMessages()).To(ContainElement(ContainSubstring("priority must be one of")))
		})

		It("should accept exactly one of many concurrent creations with the same number", func() {
			// Given
			const attempts = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
				conflicts int
			)

			// When
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
						Number:          "OT-RACE",
						EquipmentID:     equipmentID,
						TaskDescription: "Race",
					})
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						succeeded++
					} else if Expect(err).To(MatchError(errors.ErrDuplicateWorkOrder)) {
						conflicts++
					}
				}()
			}
			wg.Wait()

			// Then
			Expect(succeeded).To(Equal(1))
			Expect(conflicts).To(Equal(attempts - 1))
			Expect(countOrders()).To(Equal(int64(1)))
		})

		It("should report a duplicate caught only by the unique index", func() {
			// Given
			unchecked := newService(uncheckedNumberRepository{workorderPostgres.NewWorkOrderRepository(db)})
			dto := workorder.CreateWorkOrderDTO{
				Number:          "OT-INDEX",
				EquipmentID:     equipmentID,
				TaskDescription: "Replace seal",
			}
			_, err := unchecked.Create(ctx, nil, dto)
			Expect(err).NotTo(HaveOccurred())

			// When
			_, err = unchecked.Create(ctx, nil, dto)

			// Then
			Expect(err).To(MatchError(errors.ErrDuplicateWorkOrder))
			Expect(countOrders()).To(Equal(int64(1)))
			Expect(publisher.Types()).To(HaveLen(1))
		})

		It("should publish a created event after commit", func() {
			wo := create("OT-0003")

			Expect(publisher.Types()).To(ConsistOf(events.EventTypeWorkOrderCreated))
			Expect(publisher.events[0].Payload()).To(HaveKeyWithValue("work_order_id", wo.ID))
		})

		Context("with a workflow", func() {
			var wf *workflow.Workflow

			BeforeEach(func() {
				var err error
				wf, err = workflows.Create(ctx, workflow.CreateWorkflowDTO{
					Name: "Corrective",
					Steps: []workflow.StepDTO{
						{Name: "Diagnose", Order: 1},
						{Name: "Repair", Order: 2},
					},
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should attach it and open the first step in the same operation", func() {
				wo, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
					EquipmentID:     equipmentID,
					TaskDescription: "Leak",
					WorkflowID:      &wf.ID,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(*wo.WorkflowID).To(Equal(wf.ID))

				history, err := workflows.History(ctx, wo.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(history).To(HaveLen(1))
				Expect(history[0].StepID).To(Equal(wf.Steps[0].ID))
				Expect(history[0].Status).To(Equal(workflow.StepInProgress))
				Expect(history[0].IsClosed()).To(BeFalse())
			})

			It("should leave nothing behind when the workflow does not exist", func() {
				_, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
					Number:          "OT-ROLLBACK",
					EquipmentID:     equipmentID,
					TaskDescription: "Leak",
					WorkflowID:      int64Ptr(999),
				})

				Expect(err).To(MatchError(errors.ErrWorkflowNotFound))
				Expect(countOrders()).To(BeZero())

				var records int64
				Expect(db.Model(&workflowDatamodel.History{}).Count(&records).Error).To(Succeed())
				Expect(records).To(BeZero())
				Expect(publisher.Types()).To(BeEmpty())
			})
		})
	})

	Describe("UpdateProgression", func() {
		var wo *workorder.WorkOrder

		BeforeEach(func() {
			wo = create("OT-0100")
		})

		DescribeTable("percent bounds",
			func(percent int, valid bool) {
				_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(percent)})
				if valid {
					Expect(err).NotTo(HaveOccurred())
					return
				}
				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
			},
			Entry("zero", 0, true),
			Entry("fifty", 50, true),
			Entry("hundred", 100, true),
			Entry("negative", -1, false),
			Entry("above hundred", 150, false),
		)

		It("should require a progression", func() {
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldMessages()).To(ContainElement("progression is required"))
		})

		It("should refuse Done below 100", func() {
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression: intPtr(80),
				Status:      strPtr(string(workorder.StatusDone)),
			})
			Expect(err).To(MatchError(errors.ErrInvalidWorkOrderStatus))
		})

		It("should refuse setting Validated directly", func() {
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression: intPtr(100),
				Status:      strPtr(string(workorder.StatusValidated)),
			})
			Expect(err).To(MatchError(errors.ErrInvalidWorkOrderStatus))
		})

		It("should stamp actual times and keep partial fields", func() {
			// Given
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression:    intPtr(40),
				Status:         strPtr(string(workorder.StatusInProgress)),
				TimeSpentHours: floatPtr(2.5),
			})
			Expect(err).NotTo(HaveOccurred())

			// When
			updated, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression: intPtr(100),
				Status:      strPtr(string(workorder.StatusDone)),
				Solution:    strPtr("Seal replaced"),
			})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ActualStart).NotTo(BeNil())
			Expect(updated.ActualEnd).NotTo(BeNil())
			Expect(*updated.TimeSpentHours).To(Equal(2.5))
			Expect(*updated.Solution).To(Equal("Seal replaced"))
		})

		It("should allow moving back to InProgress", func() {
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(100), Status: strPtr("Done")})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(90), Status: strPtr("InProgress")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusInProgress))
		})

		It("should report an unknown work order", func() {
			_, err := service.UpdateProgression(ctx, 999, workorder.ProgressionDTO{Progression: intPtr(10)})
			Expect(err).To(MatchError(errors.ErrWorkOrderNotFound))
		})
	})

	Describe("Validate", func() {
		It("should refuse a work order that is not Done", func() {
			wo := create("OT-0200")

			_, err := service.Validate(ctx, wo.ID, 7, workorder.ValidateDTO{})

			Expect(err).To(MatchError(errors.ErrInvalidWorkOrderStatus))
			Expect(publisher.Types()).NotTo(ContainElement(events.EventTypeWorkOrderValidated))
		})

		It("should return NotFound for an unknown id", func() {
			_, err := service.Validate(ctx, 999, 7, workorder.ValidateDTO{})
			Expect(err).To(MatchError(errors.ErrWorkOrderNotFound))
		})

		It("should lock the work order", func() {
			// Given
			wo := create("OT-0201")
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(100), Status: strPtr("Done")})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Validate(ctx, wo.ID, 7, workorder.ValidateDTO{Comment: strPtr("ok")})
			Expect(err).NotTo(HaveOccurred())

			// When
			_, progressErr := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(50)})
			_, updateErr := service.Update(ctx, wo.ID, workorder.UpdateWorkOrderDTO{
				EquipmentID:     equipmentID,
				TaskDescription: "changed",
				Priority:        "Low",
				MaintenanceType: "Corrective",
			})
			_, validateErr := service.Validate(ctx, wo.ID, 8, workorder.ValidateDTO{})

			// Then
			Expect(progressErr).To(MatchError(errors.ErrWorkOrderLocked))
			Expect(updateErr).To(MatchError(errors.ErrWorkOrderLocked))
			Expect(validateErr).To(MatchError(errors.ErrWorkOrderLocked))
			Expect(publisher.Types()).To(ContainElement(events.EventTypeWorkOrderValidated))
		})
	})

	Describe("Update", func() {
		It("should replace the planning fields", func() {
			wo := create("OT-0300")

			updated, err := service.Update(ctx, wo.ID, workorder.UpdateWorkOrderDTO{
				EquipmentID:     equipmentID,
				TaskDescription: "Replace both seals",
				Priority:        "Urgent",
				MaintenanceType: "PreventiveConditional",
				Remarks:         strPtr("bring spares"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.TaskDescription).To(Equal("Replace both seals"))
			Expect(updated.Priority).To(Equal(workorder.PriorityUrgent))
			Expect(updated.Number).To(Equal("OT-0300"))
			Expect(updated.Status).To(Equal(workorder.StatusToDo))
		})
	})

	Describe("writes interleaved with other requests", func() {
		var (
			wo *workorder.WorkOrder
			wf *workflow.Workflow
		)

		BeforeEach(func() {
			wo = create("OT-0500")
			var err error
			wf, err = workflows.Create(ctx, workflow.CreateWorkflowDTO{
				Name:  "Inspection",
				Steps: []workflow.StepDTO{{Name: "Inspect", Order: 1}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		attachWorkflow := func(ctx context.Context, id int64) {
			Expect(database.Conn(ctx, db).Exec("UPDATE work_orders SET workflow_id = ? WHERE id = ?", wf.ID, id).Error).To(Succeed())
		}

		It("should keep a workflow attached after the progression was read", func() {
			// Given
			interleaved := newService(&interleavingRepository{
				RepositoryAPI:   workorderPostgres.NewWorkOrderRepository(db),
				concurrentWrite: attachWorkflow,
			})

			// When
			updated, err := interleaved.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(50)})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Progression).To(Equal(50))
			reloaded, err := service.Get(ctx, wo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Progression).To(Equal(50))
			Expect(reloaded.WorkflowID).NotTo(BeNil())
			Expect(*reloaded.WorkflowID).To(Equal(wf.ID))
		})

		It("should keep a workflow attached after the planning was read", func() {
			interleaved := newService(&interleavingRepository{
				RepositoryAPI:   workorderPostgres.NewWorkOrderRepository(db),
				concurrentWrite: attachWorkflow,
			})

			_, err := interleaved.Update(ctx, wo.ID, workorder.UpdateWorkOrderDTO{
				EquipmentID:     equipmentID,
				TaskDescription: "Replace both seals",
				Priority:        "High",
				MaintenanceType: "Corrective",
			})

			Expect(err).NotTo(HaveOccurred())
			reloaded, err := service.Get(ctx, wo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.TaskDescription).To(Equal("Replace both seals"))
			Expect(*reloaded.WorkflowID).To(Equal(wf.ID))
		})

		It("should refuse a progression when the order was validated after it was read", func() {
			// Given
			_, err := service.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{Progression: intPtr(100), Status: strPtr("Done")})
			Expect(err).NotTo(HaveOccurred())
			interleaved := newService(&interleavingRepository{
				RepositoryAPI: workorderPostgres.NewWorkOrderRepository(db),
				concurrentWrite: func(ctx context.Context, id int64) {
					Expect(database.Conn(ctx, db).Exec(
						"UPDATE work_orders SET status = ?, validator_id = ? WHERE id = ?", "Validated", 7, id,
					).Error).To(Succeed())
				},
			})

			// When
			_, err = interleaved.UpdateProgression(ctx, wo.ID, workorder.ProgressionDTO{
				Progression: intPtr(50),
				Status:      strPtr("InProgress"),
			})

			// Then
			Expect(err).To(MatchError(errors.ErrWorkOrderLocked))
			reloaded, err := service.Get(ctx, wo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Progression).To(Equal(100))
		})
	})

	Describe("Delete", func() {
		It("should delete a work order without history", func() {
			wo := create("OT-0400")

			Expect(service.Delete(ctx, wo.ID)).To(Succeed())

			_, err := service.Get(ctx, wo.ID)
			Expect(err).To(MatchError(errors.ErrWorkOrderNotFound))
		})

		It("should refuse when history exists", func() {
			wo := create("OT-0401")
			Expect(db.Create(&workflowDatamodel.History{WorkOrderID: wo.ID, StepID: 1, StartTime: wo.CreatedAt, Status: "InProgress"}).Error).To(Succeed())

			Expect(service.Delete(ctx, wo.ID)).To(MatchError(errors.ErrWorkOrderHasHistory))
		})
	})

	Describe("List and lookups", func() {
		BeforeEach(func() {
			create("OT-A")
			create("OT-B")
			urgent, err := service.Create(ctx, nil, workorder.CreateWorkOrderDTO{
				Number:          "OT-C",
				EquipmentID:     equipmentID,
				TaskDescription: "Motor overheating",
				Priority:        strPtr("Urgent"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(urgent.Priority).To(Equal(workorder.PriorityUrgent))
		})

		It("should filter by priority", func() {
			page, err := service.List(ctx, workorder.ListFilter{
				Filter:   paging.Filter{PageNumber: 1, PageSize: 10},
				Priority: strPtr("Urgent"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalCount).To(Equal(int64(1)))
			Expect(page.Items[0].Number).To(Equal("OT-C"))
		})

		It("should search the task description and page results", func() {
			page, err := service.List(ctx, workorder.ListFilter{
				Filter: paging.Filter{SearchTerm: "seal", PageNumber: 1, PageSize: 1, SortBy: "number"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalCount).To(Equal(int64(2)))
			Expect(page.TotalPages).To(Equal(2))
			Expect(page.HasNextPage).To(BeTrue())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Number).To(Equal("OT-A"))
		})

		It("should reject an unknown status filter", func() {
			_, err := service.List(ctx, workorder.ListFilter{Status: strPtr("Closed")})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})

		It("should find a work order by number", func() {
			wo, err := service.GetByNumber(ctx, "OT-B")
			Expect(err).NotTo(HaveOccurred())
			Expect(wo.Number).To(Equal("OT-B"))

			_, err = service.GetByNumber(ctx, "OT-Z")
			Expect(err).To(MatchError(errors.ErrWorkOrderNotFound))
		})
	})
})
