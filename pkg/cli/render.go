package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

var (
	headerColor = color.New(color.Bold)
	errorColor  = color.New(color.FgRed)
	mutedColor  = color.New(color.Faint)
)

var priorityColors = map[types.TaskPriority]*color.Color{
	types.TaskPriorityUrgent:  color.New(color.FgRed, color.Bold),
	types.TaskPriorityHigh:    color.New(color.FgYellow),
	types.TaskPriorityMedium:  color.New(color.FgGreen),
	types.TaskPriorityLow:     color.New(color.FgBlue),
	types.TaskPriorityBacklog: color.New(color.Faint),
}

var statusColors = map[types.TaskStatus]*color.Color{
	types.TaskStatusToDo:           color.New(color.FgWhite),
	types.TaskStatusWorkInProgress: color.New(color.FgCyan),
	types.TaskStatusUnderReview:    color.New(color.FgMagenta),
	types.TaskStatusCompleted:      color.New(color.FgGreen),
}

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	for i, h := range headers {
		headers[i] = headerColor.Sprint(h)
	}
	t.row(headers...)
	return t
}

func (t *table) row(cols ...string) {
	_, _ = fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) flush() {
	_ = t.w.Flush()
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func priority(p types.TaskPriority) string {
	if c, ok := priorityColors[p]; ok {
		return c.Sprint(p)
	}
	return string(p)
}

func status(s types.TaskStatus) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s)
	}
	return string(s)
}

func orNone(s string) string {
	if s == "" {
		return mutedColor.Sprint("-")
	}
	return s
}

func renderProjects(out io.Writer, projects model.Projects) {
	t := newTable(out, "ID", "NAME", "START", "DUE", "DESCRIPTION")
	for _, p := range projects {
		t.row(id(p.ID), p.Name, p.StartDate.String(), p.DueDate.String(), orNone(p.Description))
	}
	t.flush()
}

func renderTasks(out io.Writer, tasks model.Tasks) {
	t := newTable(out, "ID", "PROJECT", "TITLE", "STATUS", "PRIORITY", "DUE", "ASSIGNEE")
	for _, task := range tasks {
		t.row(id(task.ID), id(task.ProjectID), task.Title, status(task.Status), priority(task.Priority),
			task.DueDate.String(), orNone(task.AssigneeName()))
	}
	t.flush()
}

func renderTask(out io.Writer, task *model.Task) {
	t := newTable(out, "FIELD", "VALUE")
	t.row("id", id(task.ID))
	t.row("project", id(task.ProjectID))
	t.row("title", task.Title)
	t.row("description", orNone(task.Description))
	t.row("status", status(task.Status))
	t.row("priority", priority(task.Priority))
	t.row("tags", orNone(strings.Join(task.TagList(), ", ")))
	t.row("start", task.StartDate.String())
	t.row("due", task.DueDate.String())
	t.row("assignee", orNone(task.AssigneeName()))
	if task.Author != nil {
		t.row("author", task.Author.Username)
	}
	t.row("comments", strconv.Itoa(len(task.Comments)))
	t.row("attachments", strconv.Itoa(len(task.Attachments)))
	t.flush()
}

func renderUsers(out io.Writer, users model.Users) {
	t := newTable(out, "ID", "USERNAME", "EMAIL", "TEAM")
	for _, u := range users {
		team := ""
		if u.TeamID != nil {
			team = id(*u.TeamID)
		}
		t.row(id(u.ID), u.Username, orNone(u.Email), orNone(team))
	}
	t.flush()
}

func renderTeams(out io.Writer, teams model.Teams) {
	t := newTable(out, "ID", "NAME", "MEMBERS")
	for _, team := range teams {
		t.row(id(team.ID), team.DomainName, strconv.Itoa(len(team.Members)))
	}
	t.flush()
}

func renderLinks(out io.Writer, links model.TeamProjects) {
	t := newTable(out, "TEAM", "PROJECT")
	for _, l := range links {
		t.row(id(l.TeamID), id(l.ProjectID))
	}
	t.flush()
}

func renderComments(out io.Writer, comments model.Comments) {
	t := newTable(out, "ID", "USER", "TEXT")
	for _, c := range comments {
		user := c.Username
		if user == "" {
			user = id(c.UserID)
		}
		t.row(id(c.ID), user, c.Text)
	}
	t.flush()
}

func renderAttachments(out io.Writer, attachments model.Attachments) {
	t := newTable(out, "ID", "FILE", "URL")
	for _, a := range attachments {
		t.row(id(a.ID), a.FileName, a.FileURL)
	}
	t.flush()
}

func renderCounts(out io.Writer, label string, counts []model.Count) {
	t := newTable(out, label, "COUNT")
	for _, c := range counts {
		t.row(c.Name, strconv.Itoa(c.Count))
	}
	t.flush()
}

func renderBoard(out io.Writer, columns []model.StatusColumn) {
	for _, col := range columns {
		_, _ = fmt.Fprintf(out, "%s (%d)\n", headerColor.Sprint(col.Status), len(col.Tasks))
		for _, task := range col.Tasks {
			_, _ = fmt.Fprintf(out, "  #%d %s [%s]\n", task.ID, task.Title, priority(task.Priority))
		}
	}
}

func renderSearch(out io.Writer, r *model.SearchResult) {
	if r.IsEmpty() {
		_, _ = fmt.Fprintln(out, mutedColor.Sprint("no results"))
		return
	}
	if len(r.Tasks) > 0 {
		_, _ = fmt.Fprintln(out, headerColor.Sprint("Tasks"))
		renderTasks(out, r.Tasks)
	}
	if len(r.Projects) > 0 {
		_, _ = fmt.Fprintln(out, headerColor.Sprint("Projects"))
		renderProjects(out, r.Projects)
	}
	if len(r.Users) > 0 {
		_, _ = fmt.Fprintln(out, headerColor.Sprint("Users"))
		renderUsers(out, r.Users)
	}
}

// describe turns API errors into the messages shown by the views
func describe(err error, what string) string {
	switch {
	case juno.IsNotFound(err):
		return what + " not found"
	case juno.IsForbidden(err):
		return "you do not have access to this " + what
	case juno.IsNetworkError(err):
		return "error fetching data: cannot reach the API"
	default:
		return "error fetching data"
	}
}

func printError(out io.Writer, err error, what string) {
	_, _ = errorColor.Fprintln(out, describe(err, what))
}
