package pgerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsConcurrentConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: CodeSerializationFailure}, want: true},
		{name: "deadlock", err: &pq.Error{Code: CodeDeadlockDetected}, want: true},
		{name: "exclusion violation wrapped", err: fmt.Errorf("insert: %w", &pq.Error{Code: CodeExclusionViolation}), want: true},
		{name: "unique violation", err: &pq.Error{Code: CodeUniqueViolation}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConcurrentConflict(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: CodeForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(errors.New("x")))
}
