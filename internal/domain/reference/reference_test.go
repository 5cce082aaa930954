package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssueCategory(t *testing.T) {
	c, err := NewIssueCategory("Maintenance", "Facilities and equipment", "#f59e0b", "wrench")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "Maintenance", c.Name())

	_, err = NewIssueCategory("", "", "", "")
	assert.Error(t, err)

	_, err = NewIssueCategory("Safety", "", "orange", "")
	assert.Error(t, err)
}

func TestNewDepartment(t *testing.T) {
	d, err := NewDepartment("Operations", "")
	require.NoError(t, err)
	assert.Equal(t, "Operations", d.Name())

	_, err = NewDepartment("", "x")
	assert.Error(t, err)
}
