package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadAdvanceToForward(t *testing.T) {
	lead := &Lead{ID: 1, Status: LeadStatusNew}

	assert.NoError(t, lead.AdvanceTo(LeadStatusContacted))
	assert.Equal(t, LeadStatusContacted, lead.Status)

	assert.NoError(t, lead.AdvanceTo(LeadStatusInterested))
	assert.NoError(t, lead.AdvanceTo(LeadStatusEnrolled))
	assert.True(t, lead.Enrolled())
}

func TestLeadAdvanceToSkipsStages(t *testing.T) {
	// A payment can land on a lead that was never contacted.
	lead := &Lead{ID: 2, Status: LeadStatusNew}

	assert.NoError(t, lead.AdvanceTo(LeadStatusEnrolled))
	assert.Equal(t, LeadStatusEnrolled, lead.Status)
}

func TestLeadAdvanceToSameStatusIsNoOp(t *testing.T) {
	lead := &Lead{ID: 3, Status: LeadStatusInterested}

	assert.NoError(t, lead.AdvanceTo(LeadStatusInterested))
	assert.Equal(t, LeadStatusInterested, lead.Status)
}

func TestLeadAdvanceToRejectsRegression(t *testing.T) {
	lead := &Lead{ID: 4, Status: LeadStatusEnrolled}

	err := lead.AdvanceTo(LeadStatusContacted)
	assert.Error(t, err)
	assert.Equal(t, LeadStatusEnrolled, lead.Status)
}

func TestLeadAdvanceToRejectsUnknownStatus(t *testing.T) {
	lead := &Lead{ID: 5, Status: LeadStatusNew}

	assert.Error(t, lead.AdvanceTo("archived"))
	assert.Equal(t, LeadStatusNew, lead.Status)
}

func TestValidLeadStatus(t *testing.T) {
	for _, s := range []string{LeadStatusNew, LeadStatusContacted, LeadStatusInterested, LeadStatusEnrolled} {
		assert.True(t, ValidLeadStatus(s), s)
	}
	assert.False(t, ValidLeadStatus("archived"))
	assert.False(t, ValidLeadStatus(""))
}
