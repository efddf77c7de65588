package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		globalRole    string
		workspaceRole string
		projectRole   string
		want          Level
	}{
		{"global admin beats everything", "admin", "", "", LevelGlobalAdmin},
		{"global admin with memberships", "admin", "viewer", "viewer", LevelGlobalAdmin},
		{"workspace owner", "member", "owner", "", LevelWorkspaceAdmin},
		{"workspace admin", "member", "admin", "", LevelWorkspaceAdmin},
		{"workspace admin beats project lead", "member", "admin", "lead", LevelWorkspaceAdmin},
		{"project lead", "member", "member", "lead", LevelProjectLead},
		{"project lead without workspace role", "member", "", "lead", LevelProjectLead},
		{"workspace member", "member", "member", "", LevelMember},
		{"workspace viewer", "member", "viewer", "", LevelMember},
		{"project developer only", "member", "", "developer", LevelMember},
		{"project viewer only", "member", "", "viewer", LevelMember},
		{"manager without memberships", "manager", "", "", LevelNone},
		{"no roles at all", "member", "", "", LevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.globalRole, tt.workspaceRole, tt.projectRole))
		})
	}
}

func TestLevelCapabilities(t *testing.T) {
	assert.False(t, LevelNone.CanView())
	assert.True(t, LevelMember.CanView())

	assert.False(t, LevelMember.CanManageProject())
	assert.True(t, LevelProjectLead.CanManageProject())
	assert.True(t, LevelWorkspaceAdmin.CanManageProject())

	assert.False(t, LevelProjectLead.CanManageWorkspace())
	assert.True(t, LevelWorkspaceAdmin.CanManageWorkspace())
	assert.True(t, LevelGlobalAdmin.CanManageWorkspace())
}
