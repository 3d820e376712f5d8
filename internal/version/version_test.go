package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Version
	}{
		{"6.45.1", Version{Major: 6, Minor: 45, Patch: 1}},
		{"3.1", Version{Major: 3, Minor: 1}},
		{"6.46rc12", Version{Major: 6, Minor: 46, Pre: "b", PreNum: 12}},
		{"6.46.2b3", Version{Major: 6, Minor: 46, Patch: 2, Pre: "b", PreNum: 3}},
		{"7.0.4a1", Version{Major: 7, Minor: 0, Patch: 4, Pre: "a", PreNum: 1}},
		{"0.0.0", Version{}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			v, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestParse_Unparsable(t *testing.T) {
	inputs := []string{
		"", "6.x", "latest", "6", "6.45.1.2", "v6.45.1", " 6.45.1",
		"6.45.1rc", "6.45.1-rc1", "6..1", "6.45.1c2", "99999999999999999999.1",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUnparsableVersion), "got %v", err)
		})
	}
}

func TestNormalize_AppliesToAnyOperand(t *testing.T) {
	assert.Equal(t, "6.46b1", Normalize("6.46rc1"))
	assert.Equal(t, "6.45.1", Normalize("6.45.1"))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"6.45.1", "6.45.1", 0},
		{"6.45", "6.45.0", 0},
		{"6.44.0", "6.45.1", -1},
		{"6.45.10", "6.45.9", 1},
		{"6.9", "6.10", -1},
		{"7.0.0", "6.99.99", 1},
		{"6.46rc12", "6.46", -1},
		{"6.46", "6.46rc12", 1},
		{"6.46rc2", "6.46rc12", -1},
		{"6.46a9", "6.46b1", -1},
		{"6.45.9", "6.46rc1", -1},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_vs_"+tc.b, func(t *testing.T) {
			got, err := CompareStrings(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)

			back, err := CompareStrings(tc.b, tc.a)
			require.NoError(t, err)
			assert.Equal(t, -tc.expected, back, "compare must be antisymmetric")
		})
	}
}

func TestCompare_Transitive(t *testing.T) {
	ordered := []string{"6.40rc1", "6.40rc7", "6.40", "6.40.1", "6.44.6", "6.45rc3", "6.45.1", "6.45.10", "7.1"}

	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			c, err := CompareStrings(ordered[i], ordered[j])
			require.NoError(t, err)
			assert.Equal(t, -1, c, "%s should sort below %s", ordered[i], ordered[j])
		}
	}
}

func TestIsOutOfDate(t *testing.T) {
	out, err := IsOutOfDate("6.44.0", "6.45.1")
	require.NoError(t, err)
	assert.True(t, out)

	out, err = IsOutOfDate("6.45.1", "6.44.0")
	require.NoError(t, err)
	assert.False(t, out, "a newer current version is not out of date")

	out, err = IsOutOfDate("3.1", "3.2")
	require.NoError(t, err)
	assert.True(t, out)
}

func TestIsOutOfDate_SelfIsNeverOutOfDate(t *testing.T) {
	for _, v := range []string{"6.45.1", "3.1", "6.46rc12", "0.0", "7.10.2a4"} {
		out, err := IsOutOfDate(v, v)
		require.NoError(t, err)
		assert.False(t, out, "%s compared to itself", v)
	}
}

func TestIsOutOfDate_ParseFailure(t *testing.T) {
	_, err := IsOutOfDate("6.45.1", "latest")
	require.ErrorIs(t, err, domain.ErrUnparsableVersion)
	assert.Contains(t, err.Error(), "latest version")

	_, err = IsOutOfDate("6.x", "6.45.1")
	require.ErrorIs(t, err, domain.ErrUnparsableVersion)
	assert.Contains(t, err.Error(), "current version")
}

func TestVersion_String(t *testing.T) {
	v, err := Parse("6.46rc12")
	require.NoError(t, err)
	assert.Equal(t, "6.46.0b12", v.String())
	assert.True(t, v.PreRelease())
}
