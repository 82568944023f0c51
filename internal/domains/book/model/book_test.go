package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCanonicalISBN(t *testing.T) {
	tests := []struct {
		name      string
		paperback *string
		legacy    *string
		hardcover *string
		want      *string
	}{
		{"paperback wins", strPtr("9780143127741"), strPtr("9780143039952"), strPtr("9780525562023"), strPtr("9780143127741")},
		{"legacy when no paperback", nil, strPtr("9780143039952"), strPtr("9780525562023"), strPtr("9780143039952")},
		{"hardcover last", nil, nil, strPtr("9780525562023"), strPtr("9780525562023")},
		{"empty strings skipped", strPtr(""), strPtr(""), strPtr("9780525562023"), strPtr("9780525562023")},
		{"no isbn at all", nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Book{
				ISBNPaperback: tt.paperback,
				ISBN:          tt.legacy,
				ISBNHardcover: tt.hardcover,
			}
			got := b.CanonicalISBN()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestPublishingStageTransitions(t *testing.T) {
	// One step forward is allowed.
	assert.True(t, StageDraft.CanTransitionTo(StageEditing))
	assert.True(t, StageEditing.CanTransitionTo(StageDesign))
	assert.True(t, StagePrinting.CanTransitionTo(StagePublished))

	// Skipping ahead is not.
	assert.False(t, StageDraft.CanTransitionTo(StageDesign))
	assert.False(t, StageEditing.CanTransitionTo(StagePublished))

	// Any step backward is allowed for rework.
	assert.True(t, StagePublished.CanTransitionTo(StageDraft))
	assert.True(t, StageDesign.CanTransitionTo(StageEditing))

	// Self-transition and unknown stages are rejected.
	assert.False(t, StageDraft.CanTransitionTo(StageDraft))
	assert.False(t, StageDraft.CanTransitionTo(PublishingStage("archived")))
	assert.False(t, PublishingStage("bogus").CanTransitionTo(StageDraft))
}
