package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntryRequest body para POST /api/timesheets/:id/entries.
// EntryType project_task requiere TaskID; custom_task requiere CustomTaskName.
type CreateEntryRequest struct {
	ProjectID      string          `json:"project_id" validate:"required,uuid"`
	TaskID         string          `json:"task_id" validate:"omitempty,uuid"`
	CustomTaskName string          `json:"custom_task_name" validate:"omitempty,max=200"`
	Date           string          `json:"date" validate:"required"` // YYYY-MM-DD
	Hours          decimal.Decimal `json:"hours"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	IsBillable     bool            `json:"is_billable"`
	EntryType      string          `json:"entry_type" validate:"required,oneof=project_task custom_task"`
}

// UpdateEntryRequest body para PUT /api/timesheets/:id/entries/:entryID.
type UpdateEntryRequest struct {
	Date        string          `json:"date" validate:"omitempty"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	IsBillable  *bool           `json:"is_billable"`
}

// EntryResponse entrada de tiempo en respuestas.
type EntryResponse struct {
	ID             string          `json:"id"`
	TimesheetID    string          `json:"timesheet_id"`
	ProjectID      string          `json:"project_id"`
	TaskID         string          `json:"task_id,omitempty"`
	CustomTaskName string          `json:"custom_task_name,omitempty"`
	Date           string          `json:"date"`
	Hours          decimal.Decimal `json:"hours"`
	Description    string          `json:"description,omitempty"`
	IsBillable     bool            `json:"is_billable"`
	EntryType      string          `json:"entry_type"`
}

// TimesheetResponse hoja de tiempo con sus entradas.
type TimesheetResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	WeekStartDate string          `json:"week_start_date"`
	Status        string          `json:"status"`
	DisplayStatus string          `json:"display_status"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SubmitResponse resultado del envío: estado resultante más advertencias de
// validación (datos, no errores: el envío procede tras reconocerlas).
type SubmitResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings"`
}

// StatusResponse estado efectivo siempre derivado del ledger.
type StatusResponse struct {
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
}
