package validators

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-validlength/internal/domain"
)

// fixValidator builds the (3, 6) validator used throughout these tests.
func fixValidator(t *testing.T) *LengthValidator {
	t.Helper()
	lv, err := NewLengthValidator("text-length", LengthConfig{Min: 3, Max: 6, OnFail: domain.OnFailFix})
	require.NoError(t, err)
	return lv
}

func TestNewLengthValidator(t *testing.T) {
	tests := []struct {
		name       string
		validator  string
		config     LengthConfig
		wantError  bool
		errorMsg   string
		wantPolicy domain.OnFail
	}{
		{
			name:       "valid configuration",
			validator:  "text-length",
			config:     LengthConfig{Min: 3, Max: 6, OnFail: domain.OnFailFix},
			wantPolicy: domain.OnFailFix,
		},
		{
			name:       "default configuration",
			validator:  "text-length",
			config:     DefaultLengthConfig(),
			wantPolicy: domain.OnFailNoop,
		},
		{
			name:       "equal bounds",
			validator:  "exact",
			config:     LengthConfig{Min: 4, Max: 4, OnFail: domain.OnFailException},
			wantPolicy: domain.OnFailException,
		},
		{
			name:       "policy is case-folded",
			validator:  "text-length",
			config:     LengthConfig{Min: 1, Max: 5, OnFail: "EXCEPTION"},
			wantPolicy: domain.OnFailException,
		},
		{
			name:      "empty validator name",
			validator: "",
			config:    DefaultLengthConfig(),
			wantError: true,
			errorMsg:  "validator name cannot be empty",
		},
		{
			name:      "negative min",
			validator: "text-length",
			config:    LengthConfig{Min: -1, Max: 5, OnFail: domain.OnFailFix},
			wantError: true,
			errorMsg:  "configuration validation failed",
		},
		{
			name:      "max below min",
			validator: "text-length",
			config:    LengthConfig{Min: 6, Max: 3, OnFail: domain.OnFailFix},
			wantError: true,
			errorMsg:  "configuration validation failed",
		},
		{
			name:      "unknown policy",
			validator: "text-length",
			config:    LengthConfig{Min: 1, Max: 3, OnFail: "reask"},
			wantError: true,
			errorMsg:  "unknown on_fail policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv, err := NewLengthValidator(tt.validator, tt.config)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, lv)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.validator, lv.Name())
			assert.Equal(t, tt.wantPolicy, lv.OnFail())
			assert.Equal(t, domain.Bounds{Min: tt.config.Min, Max: tt.config.Max}, lv.Bounds())
			assert.NoError(t, lv.Check())
		})
	}
}

func TestNewLengthValidator_ConfigErrorsMatchSentinel(t *testing.T) {
	configs := []LengthConfig{
		{Min: -1, Max: 5, OnFail: domain.OnFailFix},
		{Min: 6, Max: 3, OnFail: domain.OnFailFix},
		{Min: 1, Max: 3, OnFail: "retry"},
	}

	for _, cfg := range configs {
		_, err := NewLengthValidator("text-length", cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration), "config %+v: %v", cfg, err)
	}
}

func TestLengthValidator_ValidateText(t *testing.T) {
	lv := fixValidator(t)

	tests := []struct {
		name          string
		input         string
		wantOutcome   domain.Outcome
		wantViolation domain.Violation
		wantFix       domain.Value
	}{
		{
			name:          "happy path",
			input:         "hello",
			wantOutcome:   domain.Pass,
			wantViolation: domain.WithinBounds,
		},
		{
			name:          "lower bound inclusive",
			input:         "abc",
			wantOutcome:   domain.Pass,
			wantViolation: domain.WithinBounds,
		},
		{
			name:          "upper bound inclusive",
			input:         "abcdef",
			wantOutcome:   domain.Pass,
			wantViolation: domain.WithinBounds,
		},
		{
			name:          "too short pads with last character",
			input:         "hi",
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooShort,
			wantFix:       domain.Text("hii"),
		},
		{
			name:          "empty pads with placeholder",
			input:         "",
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooShort,
			wantFix:       domain.Text("aaa"),
		},
		{
			name:          "too long keeps prefix",
			input:         "hello there!",
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooLong,
			wantFix:       domain.Text("hello "),
		},
		{
			name:          "too long cuts mid word",
			input:         "educational",
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooLong,
			wantFix:       domain.Text("educat"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := lv.Validate(context.Background(), domain.Text(tt.input), domain.NewMetadata())
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, verdict.Outcome)
			assert.Equal(t, tt.wantViolation, verdict.Violation)
			assert.Equal(t, tt.wantFix, verdict.FixValue)

			// The typed entry point must agree with the generic one.
			assert.Equal(t, verdict, lv.ValidateText(tt.input))
		})
	}
}

func TestLengthValidator_ValidateList(t *testing.T) {
	lv := fixValidator(t)

	tests := []struct {
		name          string
		input         []string
		wantOutcome   domain.Outcome
		wantViolation domain.Violation
		wantFix       domain.Value
	}{
		{
			name:          "happy path",
			input:         []string{"Hello", "there!", "General"},
			wantOutcome:   domain.Pass,
			wantViolation: domain.WithinBounds,
		},
		{
			name:          "too short repeats last element",
			input:         []string{"Hello", "there!"},
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooShort,
			wantFix:       domain.List{"Hello", "there!", "there!"},
		},
		{
			name:          "empty pads with placeholder element",
			input:         []string{},
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooShort,
			wantFix:       domain.List{"", "", ""},
		},
		{
			name:          "too long keeps first elements",
			input:         []string{"General", "Kenobi,", "you", "are", "a", "bold", "one!"},
			wantOutcome:   domain.Fail,
			wantViolation: domain.TooLong,
			wantFix:       domain.List{"General", "Kenobi,", "you", "are", "a", "bold"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.input...)

			verdict, err := lv.Validate(context.Background(), domain.List(tt.input), domain.NewMetadata())
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, verdict.Outcome)
			assert.Equal(t, tt.wantViolation, verdict.Violation)
			assert.Equal(t, tt.wantFix, verdict.FixValue)
			assert.Equal(t, original, tt.input, "Input must not be mutated")

			assert.Equal(t, verdict, lv.ValidateList(tt.input))
		})
	}
}

func TestLengthValidator_FixLengths(t *testing.T) {
	lv := fixValidator(t)

	empty := lv.ValidateText("")
	require.False(t, empty.Passed())
	assert.Equal(t, 3, empty.FixValue.Len())
	assert.IsType(t, domain.Text(""), empty.FixValue)

	emptyList := lv.ValidateList(nil)
	require.False(t, emptyList.Passed())
	assert.Equal(t, 3, emptyList.FixValue.Len())
	assert.IsType(t, domain.List{}, emptyList.FixValue)
}

func TestLengthValidator_GuardScenarios(t *testing.T) {
	lv, err := NewLengthValidator("test_val", LengthConfig{Min: 1, Max: 5, OnFail: domain.OnFailException})
	require.NoError(t, err)

	for _, input := range []string{"testsdfs", "b test value"} {
		verdict := lv.ValidateText(input)
		assert.Equal(t, domain.Fail, verdict.Outcome, "input %q", input)
		assert.Equal(t, domain.TooLong, verdict.Violation)
		assert.Equal(t, 5, verdict.FixValue.Len())
	}
}

func TestLengthValidator_UnsupportedShape(t *testing.T) {
	lv := fixValidator(t)

	_, err := lv.Validate(context.Background(), nil, domain.NewMetadata())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedShape))
}

func TestLengthValidator_MetadataIsPassthrough(t *testing.T) {
	lv := fixValidator(t)
	md := domain.With(domain.NewMetadata(), domain.KeyField, "text")

	withMD, err := lv.Validate(context.Background(), domain.Text("hi"), md)
	require.NoError(t, err)
	withoutMD, err := lv.Validate(context.Background(), domain.Text("hi"), domain.NewMetadata())
	require.NoError(t, err)

	assert.Equal(t, withoutMD, withMD)
}

func TestLengthValidator_UnboundedDefault(t *testing.T) {
	lv, err := NewLengthValidator("any", DefaultLengthConfig())
	require.NoError(t, err)

	assert.True(t, lv.ValidateText("").Passed())
	assert.True(t, lv.ValidateList(make([]string, 1000)).Passed())
	assert.Equal(t, math.MaxInt, lv.Bounds().Max)
}

func TestLengthValidator_ConcurrentValidate(t *testing.T) {
	lv := fixValidator(t)
	inputs := []string{"", "hi", "hello", "hello there!"}

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			verdict, err := lv.Validate(context.Background(), domain.Text(s), domain.NewMetadata())
			assert.NoError(t, err)
			if !verdict.Passed() {
				assert.True(t, lv.Bounds().Contains(verdict.FixValue.Len()))
			}
		}(inputs[i%len(inputs)])
	}
	wg.Wait()
}

func TestNewLengthFromConfig(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]any
		wantBounds domain.Bounds
		wantPolicy domain.OnFail
		wantErr    bool
	}{
		{
			name:       "all keys",
			params:     map[string]any{"min": 3, "max": 6, "on_fail": "fix"},
			wantBounds: domain.Bounds{Min: 3, Max: 6},
			wantPolicy: domain.OnFailFix,
		},
		{
			name:       "only max",
			params:     map[string]any{"max": 5, "on_fail": "exception"},
			wantBounds: domain.Bounds{Min: 0, Max: 5},
			wantPolicy: domain.OnFailException,
		},
		{
			name:       "nil params use defaults",
			params:     nil,
			wantBounds: domain.Bounds{Min: 0, Max: math.MaxInt},
			wantPolicy: domain.OnFailNoop,
		},
		{
			name:    "string bound",
			params:  map[string]any{"min": "three"},
			wantErr: true,
		},
		{
			name:    "inverted bounds",
			params:  map[string]any{"min": 9, "max": 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewLengthFromConfig("field", tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, v)
				return
			}
			require.NoError(t, err)

			lv, ok := v.(*LengthValidator)
			require.True(t, ok)
			assert.Equal(t, tt.wantBounds, lv.Bounds())
			assert.Equal(t, tt.wantPolicy, lv.OnFail())
		})
	}
}
