package juno

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/query"
)

// Client is the typed Juno API client. Queries go through a shared cache
// and mutations invalidate the tags declared in the registry.
type Client struct {
	transport *Transport
	registry  *query.Registry
	cache     *query.Cache
	fetchers  map[string]query.FetchFunc
}

// NewClient creates a Client with an empty cache
func NewClient(transport *Transport) *Client {
	c := &Client{
		transport: transport,
		registry:  NewRegistry(),
		cache:     query.NewCache(),
	}

	c.fetchers = map[string]query.FetchFunc{
		GetProjects:     fetchAs[model.Projects](c, GetProjects),
		GetTasks:        fetchAs[model.Tasks](c, GetTasks),
		GetTask:         fetchAs[*model.Task](c, GetTask),
		GetTasksByUser:  fetchAs[model.Tasks](c, GetTasksByUser),
		GetUsers:        fetchAs[model.Users](c, GetUsers),
		GetUser:         fetchAs[*model.User](c, GetUser),
		SearchUsers:     fetchAs[*model.UserSearchResult](c, SearchUsers),
		GetTeams:        fetchAs[model.Teams](c, GetTeams),
		GetTeamProjects: fetchAs[model.TeamProjects](c, GetTeamProjects),
		GetAttachments:  fetchAs[model.Attachments](c, GetAttachments),
		GetComments:     fetchAs[model.Comments](c, GetComments),
		Search:          fetchAs[*model.SearchResult](c, Search),
	}
	return c
}

// Registry returns the endpoint table
func (c *Client) Registry() *query.Registry {
	return c.registry
}

// Cache returns the query cache shared by every call of the client
func (c *Client) Cache() *query.Cache {
	return c.cache
}

// ResetCache drops every cached result. It is called when the signed in
// identity changes.
func (c *Client) ResetCache(ctx context.Context) {
	c.cache.Reset(ctx)
}

// Watch mounts a subscription to a query endpoint. The data of its states
// has the same type as the matching typed method returns from the API.
func (c *Client) Watch(ctx context.Context, name string, p query.Params, opts ...query.SubscribeOption) (*query.Subscription, error) {
	ep, err := c.registry.Get(name)
	if err != nil {
		return nil, err
	}
	fetch, ok := c.fetchers[name]
	if !ok {
		return nil, goerr.New("endpoint cannot be watched", goerr.V(query.EndpointKey, name))
	}
	return c.cache.Subscribe(ctx, ep, p, fetch, opts...), nil
}

func (c *Client) endpoint(name string) *query.Endpoint {
	ep, err := c.registry.Get(name)
	if err != nil {
		panic(err)
	}
	return ep
}

func fetchAs[T any](c *Client, name string) query.FetchFunc {
	ep := c.endpoint(name)
	return func(ctx context.Context, p query.Params) (any, error) {
		path, err := ep.URL(p)
		if err != nil {
			return nil, err
		}
		var out T
		if err := c.transport.Do(ctx, ep.Method, path, nil, &out); err != nil {
			return nil, err
		}
		if isNilPointer(out) {
			return nil, goerr.Wrap(ErrEmptyResponse, "failed to fetch entity",
				goerr.V(query.EndpointKey, name), goerr.V("path", path))
		}
		return out, nil
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil())
}

func doQuery[T any](ctx context.Context, c *Client, name string, p query.Params) (T, error) {
	var zero T
	v, err := c.cache.Query(ctx, c.endpoint(name), p, c.fetchers[name])
	if err != nil {
		return zero, goerr.Wrap(err, "failed to query juno API", goerr.V(query.EndpointKey, name))
	}
	out, ok := v.(T)
	if !ok {
		return zero, goerr.New("unexpected cached value type", goerr.V(query.EndpointKey, name))
	}
	return out, nil
}

func doMutation[T any](ctx context.Context, c *Client, name string, p query.Params, body any) (T, error) {
	var zero T
	ep := c.endpoint(name)
	v, err := c.cache.Mutate(ctx, ep, p, func(ctx context.Context, p query.Params) (any, error) {
		path, err := ep.URL(p)
		if err != nil {
			return nil, err
		}
		var out T
		if err := c.transport.Do(ctx, ep.Method, path, body, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return zero, goerr.Wrap(err, "failed to mutate via juno API", goerr.V(query.EndpointKey, name))
	}
	if isNilPointer(v) {
		return zero, goerr.Wrap(ErrEmptyResponse, "mutation succeeded without a body", goerr.V(query.EndpointKey, name))
	}
	return v.(T), nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// GetProjects lists every project
func (c *Client) GetProjects(ctx context.Context) (model.Projects, error) {
	return doQuery[model.Projects](ctx, c, GetProjects, nil)
}

// CreateProject validates and creates a project
func (c *Client) CreateProject(ctx context.Context, in *model.ProjectInput) (*model.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return doMutation[*model.Project](ctx, c, CreateProject, nil, in)
}

// DeleteProject deletes a project. Its tasks are not removed from the cache.
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	_, err := doMutation[json.RawMessage](ctx, c, DeleteProject, query.Params{ParamProjectID: id(projectID)}, nil)
	return err
}

// GetTasks lists the tasks of a project
func (c *Client) GetTasks(ctx context.Context, projectID int64) (model.Tasks, error) {
	return doQuery[model.Tasks](ctx, c, GetTasks, query.Params{ParamProjectID: id(projectID)})
}

// GetTask fetches one task. projectID is optional.
func (c *Client) GetTask(ctx context.Context, taskID, projectID int64) (*model.Task, error) {
	p := query.Params{ParamTaskID: id(taskID)}
	if projectID > 0 {
		p[ParamProjectID] = id(projectID)
	}
	return doQuery[*model.Task](ctx, c, GetTask, p)
}

// CreateTask fills defaults, validates and creates a task
func (c *Client) CreateTask(ctx context.Context, in *model.TaskInput) (*model.Task, error) {
	input := in.WithDefaults()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return doMutation[*model.Task](ctx, c, CreateTask, nil, &input)
}

// UpdateTaskStatus moves a task to another board column
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status types.TaskStatus) (*model.Task, error) {
	body := &model.StatusUpdate{Status: status}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	return doMutation[*model.Task](ctx, c, UpdateTaskStatus, query.Params{ParamTaskID: id(taskID)}, body)
}

// UpdateTask sends the full editable payload of a task
func (c *Client) UpdateTask(ctx context.Context, taskID, projectID int64, u *model.TaskUpdate) (*model.Task, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	p := query.Params{ParamTaskID: id(taskID)}
	if projectID > 0 {
		p[ParamProjectID] = id(projectID)
	}
	return doMutation[*model.Task](ctx, c, UpdateTask, p, u)
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	_, err := doMutation[json.RawMessage](ctx, c, DeleteTask, query.Params{ParamTaskID: id(taskID)}, nil)
	return err
}

// GetTasksByUser lists the tasks authored by or assigned to a user
func (c *Client) GetTasksByUser(ctx context.Context, userID int64) (model.Tasks, error) {
	return doQuery[model.Tasks](ctx, c, GetTasksByUser, query.Params{ParamUserID: id(userID)})
}

// GetUsers lists every user
func (c *Client) GetUsers(ctx context.Context) (model.Users, error) {
	return doQuery[model.Users](ctx, c, GetUsers, nil)
}

// GetUser fetches the user federated with the identity subject
func (c *Client) GetUser(ctx context.Context, sub string) (*model.User, error) {
	return doQuery[*model.User](ctx, c, GetUser, query.Params{ParamSub: sub})
}

// CreateUser registers an identity as a Juno user
func (c *Client) CreateUser(ctx context.Context, in *model.UserInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return doMutation[*model.User](ctx, c, CreateUser, nil, in)
}

// SearchUsers looks up users by username
func (c *Client) SearchUsers(ctx context.Context, q string) (model.Users, error) {
	result, err := doQuery[*model.UserSearchResult](ctx, c, SearchUsers, query.Params{ParamQuery: q})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return model.Users{}, nil
	}
	return result.Users, nil
}

// GetTeams lists every team
func (c *Client) GetTeams(ctx context.Context) (model.Teams, error) {
	return doQuery[model.Teams](ctx, c, GetTeams, nil)
}

// CreateTeam validates and creates a team
func (c *Client) CreateTeam(ctx context.Context, in *model.TeamInput) (*model.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	body := *in
	if body.Members == nil {
		body.Members = []string{}
	}
	return doMutation[*model.Team](ctx, c, CreateTeam, nil, &body)
}

// AddTeamMembers adds users to a team by username
func (c *Client) AddTeamMembers(ctx context.Context, teamID int64, in *model.MembersInput) (*model.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return doMutation[*model.Team](ctx, c, AddTeamMembers, query.Params{ParamTeamID: id(teamID)}, in)
}

// DeleteTeam deletes a team
func (c *Client) DeleteTeam(ctx context.Context, teamID int64) error {
	_, err := doMutation[json.RawMessage](ctx, c, DeleteTeam, query.Params{ParamTeamID: id(teamID)}, nil)
	return err
}

// GetTeamProjects lists every team to project link
func (c *Client) GetTeamProjects(ctx context.Context) (model.TeamProjects, error) {
	return doQuery[model.TeamProjects](ctx, c, GetTeamProjects, nil)
}

// LinkTeamProject assigns a project to a team
func (c *Client) LinkTeamProject(ctx context.Context, teamID, projectID int64) error {
	p := query.Params{ParamTeamID: id(teamID), ParamProjectID: id(projectID)}
	_, err := doMutation[json.RawMessage](ctx, c, LinkTeamProject, p, nil)
	return err
}

// UnlinkTeamProject removes a project from a team
func (c *Client) UnlinkTeamProject(ctx context.Context, teamID, projectID int64) error {
	p := query.Params{ParamTeamID: id(teamID), ParamProjectID: id(projectID)}
	_, err := doMutation[json.RawMessage](ctx, c, UnlinkTeamProject, p, nil)
	return err
}

// GetAttachments lists the attachments of a task
func (c *Client) GetAttachments(ctx context.Context, taskID int64) (model.Attachments, error) {
	return doQuery[model.Attachments](ctx, c, GetAttachments, query.Params{ParamTaskID: id(taskID)})
}

// CreateAttachment registers a file on a task on behalf of userID
func (c *Client) CreateAttachment(ctx context.Context, taskID, userID int64, in *model.AttachmentInput) (*model.Attachment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := query.Params{ParamTaskID: id(taskID), ParamUserID: id(userID)}
	return doMutation[*model.Attachment](ctx, c, CreateAttachment, p, in)
}

// GetComments lists the comments of a task
func (c *Client) GetComments(ctx context.Context, taskID int64) (model.Comments, error) {
	return doQuery[model.Comments](ctx, c, GetComments, query.Params{ParamTaskID: id(taskID)})
}

// CreateComment adds a comment to a task on behalf of userID
func (c *Client) CreateComment(ctx context.Context, taskID, userID int64, in *model.CommentInput) (*model.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := query.Params{ParamTaskID: id(taskID), ParamUserID: id(userID)}
	return doMutation[*model.Comment](ctx, c, CreateComment, p, in)
}

// DeleteComment removes a comment from a task
func (c *Client) DeleteComment(ctx context.Context, taskID, commentID int64) error {
	p := query.Params{ParamTaskID: id(taskID), ParamCommentID: id(commentID)}
	_, err := doMutation[json.RawMessage](ctx, c, DeleteComment, p, nil)
	return err
}

// Search runs the global search over tasks, projects and users
func (c *Client) Search(ctx context.Context, q string) (*model.SearchResult, error) {
	return doQuery[*model.SearchResult](ctx, c, Search, query.Params{ParamQuery: q})
}
