package model

// SearchResult is the response of the global search endpoint
type SearchResult struct {
	Tasks    Tasks    `json:"tasks"`
	Projects Projects `json:"projects"`
	Users    Users    `json:"users"`
}

// IsEmpty reports whether nothing matched
func (r *SearchResult) IsEmpty() bool {
	return r == nil || (len(r.Tasks) == 0 && len(r.Projects) == 0 && len(r.Users) == 0)
}
