package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	assert.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3}, v)

	v, err = ParseVersion("0.0.0")
	assert.NoError(t, err)
	assert.Equal(t, Version{}, v)

	for _, bad := range []string{"", "1", "1.2", "1.2.3.4", "a.b.c", "1.-2.3", "1.2.x", "1..3", " 1.2.3"} {
		_, err := ParseVersion(bad)
		assert.ErrorIs(t, err, ErrInvalidVersionFormat, "input %q", bad)
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "3.11.0", Version{Major: 3, Minor: 11}.String())
}

func TestVersionCompare(t *testing.T) {
	assert.Equal(t, 0, Version{1, 2, 3}.Compare(Version{1, 2, 3}))
	assert.Equal(t, -1, Version{1, 2, 3}.Compare(Version{1, 2, 4}))
	assert.Equal(t, -1, Version{1, 2, 3}.Compare(Version{1, 3, 0}))
	assert.Equal(t, -1, Version{1, 9, 9}.Compare(Version{2, 0, 0}))
	assert.Equal(t, 1, Version{2, 0, 0}.Compare(Version{1, 9, 9}))
}

func TestNextVersion_EmptyLine(t *testing.T) {
	for _, bump := range []Bump{BumpMajor, BumpMinor, BumpPatch, ""} {
		v, err := NextVersion(nil, bump)
		assert.NoError(t, err)
		assert.Equal(t, "1.0.0", v.String(), "bump %q", bump)
	}
}

func TestNextVersion_Bumps(t *testing.T) {
	line := []*VersionRecord{{Version: "1.2.3"}}

	v, err := NextVersion(line, BumpPatch)
	assert.NoError(t, err)
	assert.Equal(t, "1.2.4", v.String())

	v, err = NextVersion(line, BumpMinor)
	assert.NoError(t, err)
	assert.Equal(t, "1.3.0", v.String())

	v, err = NextVersion(line, BumpMajor)
	assert.NoError(t, err)
	assert.Equal(t, "2.0.0", v.String())

	// unknown bump kinds default to patch
	v, err = NextVersion(line, Bump("weird"))
	assert.NoError(t, err)
	assert.Equal(t, "1.2.4", v.String())
}

func TestNextVersion_UsesLatestRecord(t *testing.T) {
	line := []*VersionRecord{
		{Version: "1.0.0"},
		{Version: "1.0.1"},
		{Version: "1.1.0"},
	}

	v, err := NextVersion(line, BumpPatch)
	assert.NoError(t, err)
	assert.Equal(t, "1.1.1", v.String())
}

func TestNextVersion_CorruptLatest(t *testing.T) {
	line := []*VersionRecord{{Version: "not-a-version"}}

	_, err := NextVersion(line, BumpPatch)
	assert.ErrorIs(t, err, ErrInvalidVersionFormat)
}

// Any sequence of bumps produces a strictly increasing version sequence.
func TestNextVersion_MonotonicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bumps := rapid.SliceOfN(rapid.SampledFrom([]Bump{BumpMajor, BumpMinor, BumpPatch}), 1, 50).Draw(t, "bumps")

		var line []*VersionRecord
		prev := Version{}
		for _, bump := range bumps {
			next, err := NextVersion(line, bump)
			if err != nil {
				t.Fatalf("NextVersion: %v", err)
			}
			if next.Compare(prev) <= 0 && len(line) > 0 {
				t.Fatalf("version %s not greater than %s", next, prev)
			}
			prev = next
			line = append(line, &VersionRecord{Version: next.String()})
		}
	})
}
