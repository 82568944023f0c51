package main

import (
	"github.com/hibiken/asynq"

	royaltyjob "writerspocket-backend/internal/domains/royalty/job"
	emailjob "writerspocket-backend/internal/infrastructure/email/job"
	sheetsjob "writerspocket-backend/internal/infrastructure/sheets/job"
	"writerspocket-backend/internal/shared"
	"writerspocket-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	email *emailjob.EmailHandler

	// Collaborator sync
	sheets *sheetsjob.SheetsHandler

	// Royalty statements
	statements *royaltyjob.StatementHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		email:  emailjob.NewEmailHandler(c.EmailService),
		sheets: sheetsjob.NewSheetsHandler(c.SheetsService),
		statements: royaltyjob.NewStatementHandler(
			c.RoyaltyRepo,
			c.AuthorRepo,
			c.EmailService,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendNotificationEmail, h.email.ProcessNotificationEmail)
	mux.HandleFunc(shared.TypeSendWelcomeEmail, h.email.ProcessWelcomeEmail)

	// Sheets sync
	mux.HandleFunc(shared.TypeSyncLeadToSheets, h.sheets.ProcessSyncLead)

	// Royalty statements
	mux.HandleFunc(shared.TypeRoyaltyStatements, h.statements.ProcessTask)
}
