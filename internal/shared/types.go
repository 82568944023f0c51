package shared

// =====================================================
// ASYNQ TASK TYPES
// =====================================================
const (
	TypeSendNotificationEmail = "email:notification"
	TypeSendWelcomeEmail      = "email:welcome_author"
	TypeSyncLeadToSheets      = "sheets:sync_lead"
	TypeRoyaltyStatements     = "royalty:monthly_statements"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// NotificationEmailPayload is the task payload for delivering one
// notification by email.
type NotificationEmailPayload struct {
	NotificationID string `json:"notification_id"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	TemplateName   string `json:"template_name"`
	Variables      map[string]string `json:"variables"`
}

// WelcomeEmailPayload greets a freshly created author account.
type WelcomeEmailPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AuthorUID string `json:"author_uid"`
}

// SyncLeadPayload pushes a lead row to the back-office spreadsheet.
type SyncLeadPayload struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// RoyaltyStatementsPayload triggers statement emails for a period.
// An empty period means the previous calendar month.
type RoyaltyStatementsPayload struct {
	Period string `json:"period"`
}
