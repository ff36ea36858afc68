// models/team_role.go
package models

// TeamRoleTag classifies the functional role a user plays on a team, or the
// role a post is looking for.
type TeamRoleTag string

const (
	TeamRoleTeamLead     TeamRoleTag = "team-lead"
	TeamRoleDeveloper    TeamRoleTag = "developer"
	TeamRoleDesigner     TeamRoleTag = "designer"
	TeamRoleAnalyst      TeamRoleTag = "analyst"
	TeamRoleGameDesigner TeamRoleTag = "game-designer"
	TeamRoleFrontend     TeamRoleTag = "frontend"
	TeamRoleBackend      TeamRoleTag = "backend"
	TeamRoleFullstack    TeamRoleTag = "fullstack"
	TeamRoleOther        TeamRoleTag = "other"
)

var teamRoleTags = map[TeamRoleTag]struct{}{
	TeamRoleTeamLead:     {},
	TeamRoleDeveloper:    {},
	TeamRoleDesigner:     {},
	TeamRoleAnalyst:      {},
	TeamRoleGameDesigner: {},
	TeamRoleFrontend:     {},
	TeamRoleBackend:      {},
	TeamRoleFullstack:    {},
	TeamRoleOther:        {},
}

func (t TeamRoleTag) Valid() bool {
	_, ok := teamRoleTags[t]
	return ok
}

// Role is the administrative role of a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
