package model

import "strconv"

// Project is a container of tasks
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   Date   `json:"start_date"`
	DueDate     Date   `json:"due_date"`
}

// Projects is a list of projects as returned by the API
type Projects []*Project

// TagIDs returns the identifiers used to tag cached project lists
func (p Projects) TagIDs() []string {
	ids := make([]string, 0, len(p))
	for _, project := range p {
		if project == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(project.ID, 10))
	}
	return ids
}

// Find returns the project with id, or nil
func (p Projects) Find(id int64) *Project {
	for _, project := range p {
		if project.ID == id {
			return project
		}
	}
	return nil
}

// ProjectInput is the payload of the create project form
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   Date   `json:"start_date"`
	DueDate     Date   `json:"due_date"`
}

// Validate checks that every form field is filled in
func (in *ProjectInput) Validate() error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	if err := requireText("description", in.Description); err != nil {
		return err
	}
	if err := requireDate("start_date", in.StartDate); err != nil {
		return err
	}
	if err := requireDate("due_date", in.DueDate); err != nil {
		return err
	}
	if in.DueDate.Before(in.StartDate.Time) {
		return invalidValue("due_date", in.DueDate.String())
	}
	return nil
}
