package model

import "strconv"

// Attachment is a file reference attached to a task
type Attachment struct {
	ID           int64  `json:"id"`
	FileURL      string `json:"file_url"`
	FileName     string `json:"file_name"`
	TaskID       int64  `json:"task_id"`
	UploadedByID int64  `json:"uploadedby_id"`
}

// Attachments is a list of attachments on a task
type Attachments []*Attachment

// TagIDs returns the identifiers used to tag cached attachment lists
func (a Attachments) TagIDs() []string {
	ids := make([]string, 0, len(a))
	for _, att := range a {
		if att == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(att.ID, 10))
	}
	return ids
}

// AttachmentInput registers an already uploaded file
type AttachmentInput struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
}

// Validate requires both the URL and the file name
func (in *AttachmentInput) Validate() error {
	if err := requireText("file_url", in.FileURL); err != nil {
		return err
	}
	return requireText("file_name", in.FileName)
}
