package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func TestAssignmentGrantsAndRevokesAccess(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.createUser(t, "lee", permissions.RoleUser)
	helper := f.createUser(t, "mo", permissions.RoleUser)
	teammate := f.createUser(t, "nia", permissions.RoleUser)

	lead := &models.Lead{Name: "Acme expansion"}
	require.NoError(t, f.repos.Leads.Create(context.Background(), lead, owner.ID))

	require.True(t, f.authorizer.HasEntityAccess(asUser(owner), permissions.EntityLead, lead.ID))
	require.False(t, f.authorizer.HasEntityAccess(asUser(helper), permissions.EntityLead, lead.ID))

	direct, err := f.assignments.Assign(asUser(owner), AssignInput{
		EntityType: permissions.EntityLead, EntityID: lead.ID,
		AssigneeType: "user", AssigneeID: helper.ID, Notes: "covering",
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, direct.AssignedBy)
	require.True(t, f.authorizer.HasEntityAccess(asUser(helper), permissions.EntityLead, lead.ID))

	team, err := f.teams.Create(context.Background(), CreateTeamInput{Name: "closers"})
	require.NoError(t, err)
	_, err = f.teams.AddMember(context.Background(), team.ID, teammate.ID)
	require.NoError(t, err)
	_, err = f.assignments.Assign(asUser(owner), AssignInput{
		EntityType: permissions.EntityLead, EntityID: lead.ID,
		AssigneeType: "team", AssigneeID: team.ID,
	})
	require.NoError(t, err)
	require.True(t, f.authorizer.HasEntityAccess(asUser(teammate), permissions.EntityLead, lead.ID))

	listed, err := f.assignments.List(context.Background(), permissions.EntityLead, lead.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	require.NoError(t, f.assignments.Delete(asUser(owner), direct.ID))
	require.False(t, f.authorizer.HasEntityAccess(asUser(helper), permissions.EntityLead, lead.ID))
	require.ErrorIs(t, f.assignments.Delete(asUser(owner), direct.ID), ErrAssignmentNotFound)

	require.Contains(t, f.auditActions(t), "assignment.create")
}

func TestAssignmentValidation(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.createUser(t, "ola", permissions.RoleUser)
	contact := &models.Contact{Name: "Pat"}
	require.NoError(t, f.repos.Contacts.Create(context.Background(), contact, owner.ID))
	ctx := asUser(owner)

	_, err := f.assignments.Assign(ctx, AssignInput{EntityType: "invoice", EntityID: 1, AssigneeType: "user", AssigneeID: owner.ID})
	require.ErrorIs(t, err, ErrEntityTypeUnknown)

	_, err = f.assignments.Assign(ctx, AssignInput{EntityType: permissions.EntityContact, EntityID: contact.ID + 10, AssigneeType: "user", AssigneeID: owner.ID})
	require.ErrorIs(t, err, ErrEntityNotFound)

	_, err = f.assignments.Assign(ctx, AssignInput{EntityType: permissions.EntityContact, EntityID: contact.ID, AssigneeType: "group", AssigneeID: owner.ID})
	require.Error(t, err)

	_, err = f.assignments.Assign(ctx, AssignInput{EntityType: permissions.EntityContact, EntityID: contact.ID, AssigneeType: "team", AssigneeID: 999})
	require.ErrorIs(t, err, ErrTeamNotFound)

	_, err = f.assignments.Assign(ctx, AssignInput{EntityType: permissions.EntityContact, EntityID: contact.ID, AssigneeType: "user", AssigneeID: 999})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.assignments.List(ctx, "invoice", 1)
	require.ErrorIs(t, err, ErrEntityTypeUnknown)
}
