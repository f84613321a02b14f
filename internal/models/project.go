package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Categories is the set of categories the service accepts. An empty
// category is also allowed.
var Categories = []string{
	"Engenharia de Software",
	"Sistemas de Informação",
	"Ciência da Computação",
	"Engenharia Civil",
	"Engenharia Elétrica",
	"Engenharia Mecânica",
	"Administração",
	"Psicologia",
	"Medicina",
	"Direito",
	"Educação",
	"Design",
	"Arquitetura",
	"Outro",
}

// IsKnownCategory reports whether category is empty or one of Categories
func IsKnownCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ProjectDraft is the metadata of a project before it is persisted
type ProjectDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Validate checks the required fields and the category
func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if !IsKnownCategory(d.Category) {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("%q is not a known category", d.Category),
			Err:     ErrUnknownCategory,
		}
	}
	return nil
}

// Project represents a published project
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category,omitempty"`
	Views       int           `json:"views"`
	Likes       int           `json:"likes"`
	CreatedAt   Timestamp     `json:"created_at"`
	UpdatedAt   Timestamp     `json:"updated_at"`
	Author      *Author       `json:"author,omitempty"`
	Files       []ProjectFile `json:"files,omitempty"`
}

// Author is the user that owns a project
type Author struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ProjectFile is a file stored for a project
type ProjectFile struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	FileType         FileKind  `json:"file_type"`
	FilePath         string    `json:"file_path"`
	FileSize         int64     `json:"file_size,omitempty"`
	UploadedAt       Timestamp `json:"uploaded_at"`
}

// ProjectPage is one page of a project listing
type ProjectPage struct {
	Projects    []Project `json:"projects"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
}

// ListOptions are passed through to the listing endpoint unchanged.
// Zero values are omitted.
type ListOptions struct {
	Search   string
	Category string
	SortBy   string
	Page     int
	PerPage  int
}

// Timestamp decodes the service's timestamps, which may lack a zone offset
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON parses RFC 3339 and zone-less ISO 8601 timestamps (as UTC)
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unrecognised timestamp %q", raw)
}

// MarshalJSON writes the timestamp as RFC 3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
