package asynqadp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/adapter/queue/asynq"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		redisURL    string
		wantErr     bool
		errContains string
	}{
		{name: "valid redis URL", redisURL: "redis://localhost:6379"},
		{name: "valid redis URL with database", redisURL: "redis://localhost:6379/1"},
		{name: "invalid redis URL", redisURL: "invalid://url", wantErr: true, errContains: "redis"},
		{name: "empty URL", redisURL: "", wantErr: true, errContains: "redis"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := asynqadp.New(tt.redisURL)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, q)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, q)
		})
	}
}
