package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDownloadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     DownloadRequest
		wantErr bool
	}{
		{name: "valid", req: DownloadRequest{Owner: "o", Name: "r", Count: 10}},
		{name: "zero count is valid", req: DownloadRequest{Owner: "o", Name: "r"}},
		{name: "negative count", req: DownloadRequest{Owner: "o", Name: "r", Count: -1}, wantErr: true},
		{name: "missing owner", req: DownloadRequest{Name: "r", Count: 1}, wantErr: true},
		{name: "missing name", req: DownloadRequest{Owner: "o", Count: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunResult_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &RunResult{StartedAt: start}

	assert.Zero(t, r.Duration())

	r.FinishedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Duration())
	assert.True(t, r.Succeeded())

	r.Failures = append(r.Failures, ItemFailure{SHA: "x", Reason: "not found"})
	assert.False(t, r.Succeeded())
}

func TestDownloadProgress_Fraction(t *testing.T) {
	assert.Zero(t, DownloadProgress{Stage: StageListing}.Fraction())
	assert.InDelta(t, 0.5, DownloadProgress{Stage: StageFetching, Listed: 4, Done: 2}.Fraction(), 0.0001)
	assert.Equal(t, 1.0, DownloadProgress{Stage: StageDone}.Fraction())
}
