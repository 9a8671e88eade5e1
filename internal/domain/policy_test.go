package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOnFail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OnFail
		wantErr bool
	}{
		{name: "exception", input: "exception", want: OnFailException},
		{name: "fix", input: "fix", want: OnFailFix},
		{name: "filter", input: "filter", want: OnFailFilter},
		{name: "refrain", input: "refrain", want: OnFailRefrain},
		{name: "noop", input: "noop", want: OnFailNoop},
		{name: "upper case", input: "EXCEPTION", want: OnFailException},
		{name: "surrounding whitespace", input: "  Fix ", want: OnFailFix},
		{name: "empty defaults to noop", input: "", want: OnFailNoop},
		{name: "unknown", input: "reask", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOnFail(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOnFail_Valid(t *testing.T) {
	for _, p := range OnFailPolicies() {
		assert.True(t, p.Valid(), "policy %s should be valid", p)
	}
	assert.False(t, OnFail("Fix").Valid(), "Non-canonical spelling is not valid")
	assert.False(t, OnFail("").Valid())
}
