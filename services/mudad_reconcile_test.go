package services

import (
	"testing"

	"payroll-compliance-api/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveFileAttachment(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		existingHash string
		newHash      string
		wantStatus   string
		wantReason   string
	}{
		{
			name:       "first attachment advances pending to prepared",
			status:     models.MudadStatusPending,
			newHash:    "abc",
			wantStatus: models.MudadStatusPrepared,
			wantReason: ReasonFirstFileAttached,
		},
		{
			name:         "same hash is a no-op",
			status:       models.MudadStatusPrepared,
			existingHash: "abc",
			newHash:      "abc",
			wantStatus:   models.MudadStatusPrepared,
			wantReason:   ReasonFileUnchanged,
		},
		{
			name:         "same hash after submission stays submitted",
			status:       models.MudadStatusSubmitted,
			existingHash: "abc",
			newHash:      "abc",
			wantStatus:   models.MudadStatusSubmitted,
			wantReason:   ReasonFileUnchanged,
		},
		{
			name:         "changed hash from prepared flags resubmit",
			status:       models.MudadStatusPrepared,
			existingHash: "abc",
			newHash:      "xyz",
			wantStatus:   models.MudadStatusResubmitRequired,
			wantReason:   ReasonFileHashChanged,
		},
		{
			name:         "changed hash from submitted flags resubmit",
			status:       models.MudadStatusSubmitted,
			existingHash: "abc",
			newHash:      "xyz",
			wantStatus:   models.MudadStatusResubmitRequired,
			wantReason:   ReasonFileHashChanged,
		},
		{
			name:         "changed hash from rejected flags resubmit",
			status:       models.MudadStatusRejected,
			existingHash: "abc",
			newHash:      "xyz",
			wantStatus:   models.MudadStatusResubmitRequired,
			wantReason:   ReasonFileHashChanged,
		},
		{
			name:         "changed hash while already flagged stays flagged",
			status:       models.MudadStatusResubmitRequired,
			existingHash: "abc",
			newHash:      "xyz",
			wantStatus:   models.MudadStatusResubmitRequired,
			wantReason:   ReasonFileHashChanged,
		},
		{
			name:       "flagged submission without stored hash recovers to prepared",
			status:     models.MudadStatusResubmitRequired,
			newHash:    "abc",
			wantStatus: models.MudadStatusPrepared,
			wantReason: ReasonFileReattachedRecovery,
		},
		{
			name:         "flagged submission with matching hash stays flagged",
			status:       models.MudadStatusResubmitRequired,
			existingHash: "abc",
			newHash:      "abc",
			wantStatus:   models.MudadStatusResubmitRequired,
			wantReason:   ReasonFileUnchanged,
		},
		{
			name:       "no stored hash past pending keeps status",
			status:     models.MudadStatusSubmitted,
			newHash:    "abc",
			wantStatus: models.MudadStatusSubmitted,
			wantReason: ReasonFileAttached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveFileAttachment(tt.status, tt.existingHash, tt.newHash)
			assert.Equal(t, tt.wantStatus, got.NextStatus)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}
