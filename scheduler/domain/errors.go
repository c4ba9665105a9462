package domain

import "errors"

var (
	// ErrScheduleNotFound se retorna cuando no se encuentra un agendamiento
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrContactNotFound se retorna cuando no se encuentra un contacto
	ErrContactNotFound = errors.New("contact not found")

	// ErrGroupNotFound se retorna cuando no se encuentra un grupo
	ErrGroupNotFound = errors.New("group not found")

	// ErrTemplateNotFound se retorna cuando no se encuentra un template
	ErrTemplateNotFound = errors.New("message template not found")

	// ErrLogNotFound se retorna cuando no se encuentra un log de envío
	ErrLogNotFound = errors.New("message log not found")

	// ErrScheduleNotActive indicates a firing raced a pause or terminal transition.
	ErrScheduleNotActive = errors.New("schedule is not active")

	// ErrScheduleMisconfigured indicates the recipient or media configuration
	// is broken; the schedule is forced to failed and never retried.
	ErrScheduleMisconfigured = errors.New("schedule recipient configuration is invalid")

	// ErrInvalidTransition se retorna en cambios de estado no permitidos
	ErrInvalidTransition = errors.New("invalid schedule status transition")

	// ErrDuplicateContact se retorna cuando el número de teléfono ya existe
	ErrDuplicateContact = errors.New("contact with this phone number already exists")

	// ErrDuplicateGroup se retorna cuando el group_id ya existe
	ErrDuplicateGroup = errors.New("group with this group_id already exists")
)
