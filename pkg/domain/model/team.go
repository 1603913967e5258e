package model

import (
	"fmt"
	"strconv"
)

// Team groups users under a product owner and a project manager
type Team struct {
	ID                   int64   `json:"id"`
	DomainName           string  `json:"domain_name"`
	ProductOwnerUserID   *int64  `json:"productowner_userid"`
	ProjectManagerUserID *int64  `json:"projectmanager_userid"`
	Members              []int64 `json:"members,omitempty"`
}

// Teams is a list of teams as returned by the API
type Teams []*Team

// TagIDs returns the identifiers used to tag cached team lists
func (t Teams) TagIDs() []string {
	ids := make([]string, 0, len(t))
	for _, team := range t {
		if team == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(team.ID, 10))
	}
	return ids
}

// TeamInput is the payload of the create team form. Members are usernames.
type TeamInput struct {
	DomainName           string   `json:"domain_name"`
	ProductOwnerUserID   int64    `json:"productowner_userid"`
	ProjectManagerUserID int64    `json:"projectmanager_userid"`
	Members              []string `json:"members"`
}

// Validate checks the required team fields
func (in *TeamInput) Validate() error {
	if err := requireText("domain_name", in.DomainName); err != nil {
		return err
	}
	if err := requireID("productowner_userid", in.ProductOwnerUserID); err != nil {
		return err
	}
	if err := requireID("projectmanager_userid", in.ProjectManagerUserID); err != nil {
		return err
	}
	for _, m := range in.Members {
		if err := requireText("members", m); err != nil {
			return err
		}
	}
	return nil
}

// MembersInput adds users to an existing team by username
type MembersInput struct {
	Members []string `json:"members"`
}

// Validate requires at least one non-blank username
func (in *MembersInput) Validate() error {
	if len(in.Members) == 0 {
		return requireText("members", "")
	}
	for _, m := range in.Members {
		if err := requireText("members", m); err != nil {
			return err
		}
	}
	return nil
}

// TeamProject links a team to a project
type TeamProject struct {
	TeamID    int64 `json:"team_id"`
	ProjectID int64 `json:"project_id"`
}

// ID returns the identifier of the link used in cache tags
func (l *TeamProject) ID() string {
	return fmt.Sprintf("%d-%d", l.TeamID, l.ProjectID)
}

// TeamProjects is a list of team to project links
type TeamProjects []*TeamProject

// TagIDs returns the identifiers used to tag cached link lists
func (l TeamProjects) TagIDs() []string {
	ids := make([]string, 0, len(l))
	for _, link := range l {
		if link == nil {
			continue
		}
		ids = append(ids, link.ID())
	}
	return ids
}

// ProjectIDs returns the projects linked to the team
func (l TeamProjects) ProjectIDs(teamID int64) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, link := range l {
		if link.TeamID == teamID {
			ids[link.ProjectID] = struct{}{}
		}
	}
	return ids
}
