package models

import "time"

// The types below are the payload snapshots cached by the store. They mirror
// the remote service's row shapes (including nested relations returned by
// select) and are serialized to JSON before being written to a CachedRecord.

// WorkOrder is a field-service work order with its nested relations.
type WorkOrder struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
	EquipmentID string    `json:"equipment_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Customer  *Customer      `json:"customer,omitempty"`
	Equipment *EquipmentUnit `json:"equipment,omitempty"`
}

// Customer is the customer a work order is performed for.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// EquipmentUnit is a serviceable piece of equipment. Hierarchy holds the
// unit's ancestors (site, building, machine) as returned by the remote
// service's nested select.
type EquipmentUnit struct {
	ID            string          `json:"id"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	EquipmentType string          `json:"equipment_type"`
	Model         string          `json:"model,omitempty"`
	Hierarchy     []EquipmentUnit `json:"hierarchy,omitempty"`
}

// WorkSession is one technician visit against a work order.
type WorkSession struct {
	ID           string     `json:"id"`
	WorkOrderID  string     `json:"work_order_id"`
	TechnicianID string     `json:"technician_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Procedure is a service procedure template for an equipment type.
type Procedure struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	EquipmentType string          `json:"equipment_type"`
	Steps         []ProcedureStep `json:"steps,omitempty"`
}

// ProcedureStep is a single step within a procedure template.
type ProcedureStep struct {
	ID            string `json:"id"`
	ProcedureID   string `json:"procedure_id"`
	Seq           int    `json:"seq"`
	Instruction   string `json:"instruction"`
	RequiresPhoto bool   `json:"requires_photo,omitempty"`
}
