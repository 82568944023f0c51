package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncLeadReportsMockedSuccess(t *testing.T) {
	svc := NewMockSheetsService("sheet-123")

	result, err := svc.SyncLead(context.Background(), "lead@example.com", "New Author", "registration")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Mocked)
}

func TestSyncAnthologyReportsMockedSuccess(t *testing.T) {
	svc := NewMockSheetsService("sheet-123")

	result, err := svc.SyncAnthology(context.Background(), "Monsoon Voices", "editor@example.com", "submitted")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Mocked)
}
