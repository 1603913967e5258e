package juno

import (
	"net/http"

	"github.com/secmon-lab/juno/pkg/query"
)

// Cache tag types
const (
	TagProject     = "Project"
	TagTask        = "Task"
	TagUser        = "User"
	TagTeam        = "Team"
	TagComment     = "Comment"
	TagAttachment  = "Attachment"
	TagTeamProject = "TeamProject"
)

// Endpoint names
const (
	GetProjects   = "getProjects"
	CreateProject = "createProject"
	DeleteProject = "deleteProject"

	GetTasks         = "getTasks"
	GetTask          = "getTask"
	CreateTask       = "createTask"
	UpdateTaskStatus = "updateTaskStatus"
	UpdateTask       = "updateTask"
	DeleteTask       = "deleteTask"
	GetTasksByUser   = "getTasksByUser"

	GetUsers    = "getUsers"
	GetUser     = "getUser"
	CreateUser  = "createUser"
	SearchUsers = "searchUsers"

	GetTeams          = "getTeams"
	CreateTeam        = "createTeam"
	AddTeamMembers    = "addTeamMembers"
	DeleteTeam        = "deleteTeam"
	GetTeamProjects   = "getTeamProjects"
	LinkTeamProject   = "linkTeamProject"
	UnlinkTeamProject = "unlinkTeamProject"

	GetAttachments   = "getAttachments"
	CreateAttachment = "createAttachment"
	GetComments      = "getComments"
	CreateComment    = "createComment"
	DeleteComment    = "deleteComment"

	Search = "search"
)

// Path and query parameter names
const (
	ParamProjectID = "project_id"
	ParamTaskID    = "task_id"
	ParamUserID    = "user_id"
	ParamTeamID    = "team_id"
	ParamCommentID = "comment_id"
	ParamSub       = "sub"
	ParamQuery     = "q"
)

type rules = []query.TagRule

func get(name, path string, provides rules, q ...string) *query.Endpoint {
	return &query.Endpoint{Name: name, Method: http.MethodGet, Path: path, Query: q, Provides: provides}
}

func mutation(name, method, path string, invalidates rules, q ...string) *query.Endpoint {
	return &query.Endpoint{Name: name, Method: method, Path: path, Query: q, Invalidates: invalidates}
}

// Endpoints returns the declarations of the whole Juno REST surface
func Endpoints() []*query.Endpoint {
	var (
		projectItem = query.ItemOf(TagProject, ParamProjectID)
		taskItem    = query.ItemOf(TagTask, ParamTaskID)
		teamItem    = query.ItemOf(TagTeam, ParamTeamID)
		commentItem = query.ItemOf(TagComment, ParamCommentID)

		projects     = query.CollectionOf(TagProject)
		tasks        = query.CollectionOf(TagTask)
		users        = query.CollectionOf(TagUser)
		teams        = query.CollectionOf(TagTeam)
		comments     = query.CollectionOf(TagComment)
		attachments  = query.CollectionOf(TagAttachment)
		teamProjects = query.CollectionOf(TagTeamProject)
	)

	return []*query.Endpoint{
		get(GetProjects, "/api/projects/", rules{query.ListOf(TagProject)}),
		mutation(CreateProject, http.MethodPost, "/api/projects/", rules{projects}),
		mutation(DeleteProject, http.MethodDelete, "/api/projects/{project_id}/", rules{projectItem, projects, teamProjects}),

		get(GetTasks, "/api/tasks/", rules{query.ListOf(TagTask)}, ParamProjectID),
		get(GetTask, "/api/tasks/{task_id}/", rules{taskItem}, ParamProjectID),
		mutation(CreateTask, http.MethodPost, "/api/tasks/", rules{tasks}),
		mutation(UpdateTaskStatus, http.MethodPatch, "/api/tasks/{task_id}/status/", rules{taskItem, tasks}),
		mutation(UpdateTask, http.MethodPatch, "/api/tasks/{task_id}/", rules{taskItem, tasks}, ParamProjectID),
		mutation(DeleteTask, http.MethodDelete, "/api/tasks/{task_id}", rules{taskItem, tasks}),
		get(GetTasksByUser, "/api/tasks/user/{user_id}", rules{query.ListOf(TagTask)}),

		get(GetUsers, "/api/users/", rules{query.ListOf(TagUser)}),
		get(GetUser, "/api/users/{sub}", rules{query.ResultOf(TagUser)}),
		mutation(CreateUser, http.MethodPost, "/api/users/create-user", rules{users}),
		get(SearchUsers, "/api/teams/search/", rules{query.ListOf(TagUser)}, ParamQuery),

		get(GetTeams, "/api/teams/", rules{query.ListOf(TagTeam)}),
		mutation(CreateTeam, http.MethodPost, "/api/teams/", rules{teams, users}),
		mutation(AddTeamMembers, http.MethodPatch, "/api/teams/{team_id}/members/", rules{teamItem, teams, users}),
		mutation(DeleteTeam, http.MethodDelete, "/api/teams/{team_id}/delete/", rules{teamItem, teams, teamProjects}),
		get(GetTeamProjects, "/api/teams/project", rules{query.ListOf(TagTeamProject)}),
		mutation(LinkTeamProject, http.MethodPost, "/api/teams/{team_id}/project/{project_id}", rules{teamProjects, projects}),
		mutation(UnlinkTeamProject, http.MethodDelete, "/api/teams/{team_id}/project/{project_id}/delete", rules{teamProjects, projects}),

		get(GetAttachments, "/api/tasks/{task_id}/attachments/", rules{query.ListOf(TagAttachment)}),
		mutation(CreateAttachment, http.MethodPost, "/api/tasks/{task_id}/attachments/", rules{attachments, taskItem}, ParamUserID),
		get(GetComments, "/api/tasks/{task_id}/comments/", rules{query.ListOf(TagComment)}),
		mutation(CreateComment, http.MethodPost, "/api/tasks/{task_id}/comments/", rules{comments, taskItem}, ParamUserID),
		mutation(DeleteComment, http.MethodDelete, "/api/tasks/{task_id}/comments/{comment_id}/", rules{commentItem, comments, taskItem}),

		get(Search, "/api/search/", rules{
			query.CollectionOf(TagTask),
			query.CollectionOf(TagProject),
			query.CollectionOf(TagUser),
		}, ParamQuery),
	}
}

// NewRegistry returns the registry of every Juno endpoint
func NewRegistry() *query.Registry {
	r, err := query.NewRegistry(Endpoints()...)
	if err != nil {
		// names are constants declared above
		panic(err)
	}
	return r
}
