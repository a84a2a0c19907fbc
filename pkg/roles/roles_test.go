package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetsOrExceeds(t *testing.T) {
	cases := []struct {
		required, actual Role
		want             bool
	}{
		{None, None, true},
		{Staff, None, false},
		{Staff, Staff, true},
		{Staff, Admin, true},
		{Admin, Staff, false},
		{Admin, Admin, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MeetsOrExceeds(c.required, c.actual), "required=%s actual=%s", c.required, c.actual)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("Admin")
	require.NoError(t, err)
	assert.Equal(t, Admin, r)

	r, err = Parse("staff")
	require.NoError(t, err)
	assert.Equal(t, Staff, r)

	_, err = Parse("root")
	assert.Error(t, err)
}
