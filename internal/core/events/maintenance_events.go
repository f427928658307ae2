package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeWorkOrderCreated    = "workorder.created"
	EventTypeWorkOrderValidated  = "workorder.validated"
	EventTypeStepRecorded        = "workflow.step_recorded"
	EventTypeInterventionCreated = "intervention.created"
)

// AllTypes lists every domain event the application emits.
var AllTypes = []string{
	EventTypeWorkOrderCreated,
	EventTypeWorkOrderValidated,
	EventTypeStepRecorded,
	EventTypeInterventionCreated,
}

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewWorkOrderCreatedEvent(workOrderID int64, number string, equipmentID int64, priority string, createdBy *int64) BaseEvent {
	data := map[string]interface{}{
		"work_order_id": workOrderID,
		"number":        number,
		"equipment_id":  equipmentID,
		"priority":      priority,
	}
	if createdBy != nil {
		data["created_by"] = *createdBy
	}
	return newBaseEvent(EventTypeWorkOrderCreated, data)
}

func NewWorkOrderValidatedEvent(workOrderID int64, number string, validatorID int64) BaseEvent {
	return newBaseEvent(EventTypeWorkOrderValidated, map[string]interface{}{
		"work_order_id": workOrderID,
		"number":        number,
		"validator_id":  validatorID,
	})
}

func NewStepRecordedEvent(workOrderID, stepID, historyID int64, status string) BaseEvent {
	return newBaseEvent(EventTypeStepRecorded, map[string]interface{}{
		"work_order_id": workOrderID,
		"step_id":       stepID,
		"history_id":    historyID,
		"status":        status,
	})
}

func NewInterventionCreatedEvent(requestID, equipmentID, requesterID int64, priority string) BaseEvent {
	return newBaseEvent(EventTypeInterventionCreated, map[string]interface{}{
		"request_id":   requestID,
		"equipment_id": equipmentID,
		"requester_id": requesterID,
		"priority":     priority,
	})
}
