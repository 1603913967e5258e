// Package junotest serves an in-memory Juno API for tests.
package junotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

// Server is a fake Juno backend. Requests are counted per endpoint name.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	failures map[string][]int
	token    string
	nextID   int64

	projects    model.Projects
	tasks       model.Tasks
	users       model.Users
	teams       model.Teams
	links       model.TeamProjects
	comments    model.Comments
	attachments model.Attachments
}

// Option configures a Server
type Option func(*Server)

// WithToken makes every request require the bearer token
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// New starts a Server that is closed when the test ends
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		calls:    make(map[string]int),
		failures: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Calls returns how many requests reached the endpoint
func (s *Server) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// TotalCalls returns the number of requests of every endpoint
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, c := range s.calls {
		n += c
	}
	return n
}

// FailNext makes the next request to the endpoint fail with status
func (s *Server) FailNext(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = append(s.failures[name], status)
}

func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}

// AddProject stores a project and returns it with its ID
func (s *Server) AddProject(p model.Project) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.newID()
	s.projects = append(s.projects, &p)
	return &p
}

// AddUser stores a user and returns it with its ID
func (s *Server) AddUser(u model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.newID()
	s.users = append(s.users, &u)
	return &u
}

// AddTask stores a task and returns it with its ID
func (s *Server) AddTask(task model.Task) *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.newID()
	if task.Status == "" {
		task.Status = types.TaskStatusToDo
	}
	if task.Priority == "" {
		task.Priority = types.TaskPriorityBacklog
	}
	s.embedUsers(&task)
	s.tasks = append(s.tasks, &task)
	return &task
}

// AddTeam stores a team and returns it with its ID
func (s *Server) AddTeam(team model.Team) *model.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	team.ID = s.newID()
	s.teams = append(s.teams, &team)
	return &team
}

// Link stores a team to project link
func (s *Server) Link(teamID, projectID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, &model.TeamProject{TeamID: teamID, ProjectID: projectID})
}

// Task returns the stored task, or nil
func (s *Server) Task(id int64) *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			c := *t
			return &c
		}
	}
	return nil
}

// Users returns the stored users
func (s *Server) Users() model.Users {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/projects/", s.handle(juno.GetProjects, s.getProjects))
	r.Post("/api/projects/", s.handle(juno.CreateProject, s.createProject))
	r.Delete("/api/projects/{project_id}/", s.handle(juno.DeleteProject, s.deleteProject))

	r.Get("/api/tasks/", s.handle(juno.GetTasks, s.getTasks))
	r.Post("/api/tasks/", s.handle(juno.CreateTask, s.createTask))
	r.Get("/api/tasks/user/{user_id}", s.handle(juno.GetTasksByUser, s.getTasksByUser))
	r.Get("/api/tasks/{task_id}/", s.handle(juno.GetTask, s.getTask))
	r.Patch("/api/tasks/{task_id}/", s.handle(juno.UpdateTask, s.updateTask))
	r.Patch("/api/tasks/{task_id}/status/", s.handle(juno.UpdateTaskStatus, s.updateTaskStatus))
	r.Delete("/api/tasks/{task_id}", s.handle(juno.DeleteTask, s.deleteTask))

	r.Get("/api/tasks/{task_id}/attachments/", s.handle(juno.GetAttachments, s.getAttachments))
	r.Post("/api/tasks/{task_id}/attachments/", s.handle(juno.CreateAttachment, s.createAttachment))
	r.Get("/api/tasks/{task_id}/comments/", s.handle(juno.GetComments, s.getComments))
	r.Post("/api/tasks/{task_id}/comments/", s.handle(juno.CreateComment, s.createComment))
	r.Delete("/api/tasks/{task_id}/comments/{comment_id}/", s.handle(juno.DeleteComment, s.deleteComment))

	r.Get("/api/users/", s.handle(juno.GetUsers, s.getUsers))
	r.Post("/api/users/create-user", s.handle(juno.CreateUser, s.createUser))
	r.Get("/api/users/{sub}", s.handle(juno.GetUser, s.getUser))

	r.Get("/api/teams/", s.handle(juno.GetTeams, s.getTeams))
	r.Post("/api/teams/", s.handle(juno.CreateTeam, s.createTeam))
	r.Get("/api/teams/search/", s.handle(juno.SearchUsers, s.searchUsers))
	r.Get("/api/teams/project", s.handle(juno.GetTeamProjects, s.getTeamProjects))
	r.Patch("/api/teams/{team_id}/members/", s.handle(juno.AddTeamMembers, s.addTeamMembers))
	r.Delete("/api/teams/{team_id}/delete/", s.handle(juno.DeleteTeam, s.deleteTeam))
	r.Post("/api/teams/{team_id}/project/{project_id}", s.handle(juno.LinkTeamProject, s.linkTeamProject))
	r.Delete("/api/teams/{team_id}/project/{project_id}/delete", s.handle(juno.UnlinkTeamProject, s.unlinkTeamProject))

	r.Get("/api/search/", s.handle(juno.Search, s.search))

	return r
}

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// handle counts the request, checks the token and injects failures. The
// wrapped handler runs with mu held.
func (s *Server) handle(name string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.calls[name]++

		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if queue := s.failures[name]; len(queue) > 0 {
			s.failures[name] = queue[1:]
			writeError(w, queue[0], "injected failure")
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

func pathID(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v
}

func queryID(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

func find[T any](items []*T, match func(*T) bool) *T {
	for _, it := range items {
		if match(it) {
			return it
		}
	}
	return nil
}

func (s *Server) findUser(id int64) *model.User {
	return find(s.users, func(u *model.User) bool { return u.ID == id })
}

func (s *Server) embedUsers(t *model.Task) {
	t.Author = s.findUser(t.AuthorUserID)
	t.Assigned = nil
	if t.AssignedUserID != nil {
		t.Assigned = s.findUser(*t.AssignedUserID)
	}
}

func (s *Server) getProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decode(w, r, &in) {
		return
	}
	p := &model.Project{ID: s.newID(), Name: in.Name, Description: in.Description, StartDate: in.StartDate, DueDate: in.DueDate}
	s.projects = append(s.projects, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "project_id")
	s.projects = slices.DeleteFunc(s.projects, func(p *model.Project) bool { return p.ID == id })
	s.links = slices.DeleteFunc(s.links, func(l *model.TeamProject) bool { return l.ProjectID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	projectID := queryID(r, "project_id")
	tasks := model.Tasks{}
	for _, t := range s.tasks {
		if projectID == 0 || t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "task_id")
	t := find(s.tasks, func(t *model.Task) bool { return t.ID == id })
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var in model.TaskInput
	if !decode(w, r, &in) {
		return
	}
	assigned := in.AssignedUserID
	t := &model.Task{
		ID:             s.newID(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		Tags:           in.Tags,
		StartDate:      in.StartDate,
		DueDate:        in.DueDate,
		Points:         in.Points,
		ProjectID:      in.ProjectID,
		AuthorUserID:   in.AuthorUserID,
		AssignedUserID: &assigned,
	}
	s.embedUsers(t)
	s.tasks = append(s.tasks, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "task_id")
	t := find(s.tasks, func(t *model.Task) bool { return t.ID == id })
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	var in model.StatusUpdate
	if !decode(w, r, &in) {
		return
	}
	t.Status = in.Status
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "task_id")
	t := find(s.tasks, func(t *model.Task) bool { return t.ID == id })
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	var in model.TaskUpdate
	if !decode(w, r, &in) {
		return
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	t.AssignedUserID = in.AssignedUserID
	if t.AssignedUserID != nil && *t.AssignedUserID == 0 {
		t.AssignedUserID = nil
	}
	s.embedUsers(t)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "task_id")
	s.tasks = slices.DeleteFunc(s.tasks, func(t *model.Task) bool { return t.ID == id })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTasksByUser(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "user_id")
	tasks := model.Tasks{}
	for _, t := range s.tasks {
		if t.AuthorUserID == userID || t.AssigneeID() == userID {
			tasks = append(tasks, t)
		}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getAttachments(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "task_id")
	out := model.Attachments{}
	for _, a := range s.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createAttachment(w http.ResponseWriter, r *http.Request) {
	var in model.AttachmentInput
	if !decode(w, r, &in) {
		return
	}
	a := &model.Attachment{
		ID:           s.newID(),
		FileURL:      in.FileURL,
		FileName:     in.FileName,
		TaskID:       pathID(r, "task_id"),
		UploadedByID: queryID(r, "user_id"),
	}
	s.attachments = append(s.attachments, a)
	if t := find(s.tasks, func(t *model.Task) bool { return t.ID == a.TaskID }); t != nil {
		t.Attachments = append(t.Attachments, a)
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "task_id")
	out := model.Comments{}
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in model.CommentInput
	if !decode(w, r, &in) {
		return
	}
	c := &model.Comment{
		ID:     s.newID(),
		Text:   in.Text,
		TaskID: pathID(r, "task_id"),
		UserID: queryID(r, "user_id"),
	}
	if u := s.findUser(c.UserID); u != nil {
		c.Username = u.Username
	}
	s.comments = append(s.comments, c)
	if t := find(s.tasks, func(t *model.Task) bool { return t.ID == c.TaskID }); t != nil {
		t.Comments = append(t.Comments, c)
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "comment_id")
	match := func(c *model.Comment) bool { return c.ID == id }
	s.comments = slices.DeleteFunc(s.comments, match)
	for _, t := range s.tasks {
		t.Comments = slices.DeleteFunc(t.Comments, match)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	sub := chi.URLParam(r, "sub")
	u := find(s.users, func(u *model.User) bool { return u.CognitoID == sub })
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decode(w, r, &in) {
		return
	}
	u := &model.User{ID: s.newID(), Username: in.Username, Email: in.Email, CognitoID: in.CognitoID}
	s.users = append(s.users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) searchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	result := model.UserSearchResult{Users: model.Users{}}
	for _, u := range s.users {
		if q != "" && strings.Contains(strings.ToLower(u.Username), q) {
			result.Users = append(result.Users, u)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.teams)
}

func (s *Server) memberIDs(teamID int64, usernames []string) []int64 {
	var ids []int64
	for _, name := range usernames {
		if u := find(s.users, func(u *model.User) bool { return u.Username == name }); u != nil {
			team := teamID
			u.TeamID = &team
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var in model.TeamInput
	if !decode(w, r, &in) {
		return
	}
	owner, manager := in.ProductOwnerUserID, in.ProjectManagerUserID
	team := &model.Team{
		ID:                   s.newID(),
		DomainName:           in.DomainName,
		ProductOwnerUserID:   &owner,
		ProjectManagerUserID: &manager,
	}
	team.Members = s.memberIDs(team.ID, in.Members)
	s.teams = append(s.teams, team)
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) addTeamMembers(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "team_id")
	team := find(s.teams, func(t *model.Team) bool { return t.ID == id })
	if team == nil {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}
	var in model.MembersInput
	if !decode(w, r, &in) {
		return
	}
	for _, uid := range s.memberIDs(id, in.Members) {
		if !slices.Contains(team.Members, uid) {
			team.Members = append(team.Members, uid)
		}
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "team_id")
	s.teams = slices.DeleteFunc(s.teams, func(t *model.Team) bool { return t.ID == id })
	s.links = slices.DeleteFunc(s.links, func(l *model.TeamProject) bool { return l.TeamID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team deleted"})
}

func (s *Server) getTeamProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.links)
}

func (s *Server) linkTeamProject(w http.ResponseWriter, r *http.Request) {
	link := &model.TeamProject{TeamID: pathID(r, "team_id"), ProjectID: pathID(r, "project_id")}
	s.links = append(s.links, link)
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) unlinkTeamProject(w http.ResponseWriter, r *http.Request) {
	teamID, projectID := pathID(r, "team_id"), pathID(r, "project_id")
	s.links = slices.DeleteFunc(s.links, func(l *model.TeamProject) bool {
		return l.TeamID == teamID && l.ProjectID == projectID
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	contains := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}

	result := model.SearchResult{Tasks: model.Tasks{}, Projects: model.Projects{}, Users: model.Users{}}
	for _, t := range s.tasks {
		if contains(t.Title, t.Description) {
			result.Tasks = append(result.Tasks, t)
		}
	}
	for _, p := range s.projects {
		if contains(p.Name, p.Description) {
			result.Projects = append(result.Projects, p)
		}
	}
	for _, u := range s.users {
		if contains(u.Username) {
			result.Users = append(result.Users, u)
		}
	}
	writeJSON(w, http.StatusOK, result)
}
