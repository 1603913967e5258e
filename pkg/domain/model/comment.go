package model

import "strconv"

// Comment is a note left on a task
type Comment struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	TaskID   int64  `json:"task_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// Comments is a list of comments on a task
type Comments []*Comment

// TagIDs returns the identifiers used to tag cached comment lists
func (c Comments) TagIDs() []string {
	ids := make([]string, 0, len(c))
	for _, comment := range c {
		if comment == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(comment.ID, 10))
	}
	return ids
}

// CommentInput is the body of the add comment form
type CommentInput struct {
	Text string `json:"text"`
}

// Validate requires non-blank text
func (in *CommentInput) Validate() error {
	return requireText("text", in.Text)
}
