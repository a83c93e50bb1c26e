package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

func testRegistry(t *testing.T) *lint.Registry {
	t.Helper()

	reg, err := lint.NewRegistry(
		kindMeta("interfaces", "interface_declaration", lint.SeverityWarn),
		kindMeta("aliases", "type_alias_declaration", lint.SeverityOff),
	)
	require.NoError(t, err)

	return reg
}

func TestConfigure_Defaults(t *testing.T) {
	t.Parallel()

	active, problems := lint.Configure(testRegistry(t), nil)
	require.Empty(t, problems)
	require.Len(t, active, 1)
	assert.Equal(t, "test/interfaces", active[0].Meta.ID())
	assert.Equal(t, lint.SeverityWarn, active[0].Severity)
}

func TestConfigure_Overrides(t *testing.T) {
	t.Parallel()

	active, problems := lint.Configure(testRegistry(t), map[string]lint.RuleSetting{
		"interfaces":   {Severity: lint.SeverityOff},
		"test/aliases": {Severity: lint.SeverityError},
	})
	require.Empty(t, problems)
	require.Len(t, active, 1)
	assert.Equal(t, "test/aliases", active[0].Meta.ID())
	assert.Equal(t, lint.SeverityError, active[0].Severity)
}

func TestConfigure_Problems(t *testing.T) {
	t.Parallel()

	active, problems := lint.Configure(testRegistry(t), map[string]lint.RuleSetting{
		"test/interfaces": {Severity: lint.SeverityError, Options: map[string]any{"x": 1}},
		"nope":            {Severity: lint.SeverityError},
		"test/aliases":    {Severity: lint.SeverityWarn},
	})

	require.Len(t, active, 1)
	assert.Equal(t, "test/aliases", active[0].Meta.ID())

	require.Len(t, problems, 2)
	assert.Equal(t, "nope", problems[0].Rule)
	require.ErrorIs(t, problems[0], lint.ErrUnknownRule)
	assert.Equal(t, "test/interfaces", problems[1].Rule)
	require.ErrorIs(t, problems[1], errBadOptions)
	assert.Contains(t, problems[1].Error(), "rule test/interfaces")
}

func TestConfigure_BareAndFullIDConflict(t *testing.T) {
	t.Parallel()

	active, problems := lint.Configure(testRegistry(t), map[string]lint.RuleSetting{
		"test/interfaces": {Severity: lint.SeverityError},
		"interfaces":      {Severity: lint.SeverityOff},
	})

	require.Len(t, problems, 1)
	assert.Equal(t, "test/interfaces", problems[0].Rule)
	require.ErrorIs(t, problems[0], lint.ErrDuplicateSetting)
	assert.Contains(t, problems[0].Error(), `"interfaces" and "test/interfaces"`)

	require.Len(t, active, 1)
	assert.Equal(t, "test/interfaces", active[0].Meta.ID())
	assert.Equal(t, lint.SeverityError, active[0].Severity)
}

func TestRegistry_CanonicalSettings(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)

	tests := []struct {
		name     string
		settings map[string]lint.RuleSetting
		want     map[string]lint.RuleSetting
		problems int
	}{
		{
			name:     "bare name",
			settings: map[string]lint.RuleSetting{"aliases": {Severity: lint.SeverityWarn}},
			want:     map[string]lint.RuleSetting{"test/aliases": {Severity: lint.SeverityWarn}},
		},
		{
			name:     "unknown kept",
			settings: map[string]lint.RuleSetting{" nope ": {Severity: lint.SeverityWarn}},
			want:     map[string]lint.RuleSetting{"nope": {Severity: lint.SeverityWarn}},
		},
		{
			name: "full id wins",
			settings: map[string]lint.RuleSetting{
				"aliases":      {Severity: lint.SeverityWarn},
				"test/aliases": {Severity: lint.SeverityError},
			},
			want:     map[string]lint.RuleSetting{"test/aliases": {Severity: lint.SeverityError}},
			problems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, problems := reg.CanonicalSettings(tt.settings)
			assert.Equal(t, tt.want, got)
			assert.Len(t, problems, tt.problems)
		})
	}
}
