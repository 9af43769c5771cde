package model

import "time"

// ParsedResume is the structured data extracted from an uploaded resume.
//
// Extraction is heuristic (regex and keyword matching over the document
// text), so every field can be empty — the profile step lets the user fill
// in whatever the parser missed.
type ParsedResume struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Title      string   `json:"title"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Location   string   `json:"location,omitempty"`
	Education  []string `json:"education,omitempty"`
}

// Resume is a stored upload together with its parsed data.
type Resume struct {
	ID        string       `json:"id"        db:"id"`
	UserID    string       `json:"userId"    db:"user_id"`
	Filename  string       `json:"filename"  db:"filename"`
	FileSize  int64        `json:"fileSize"  db:"file_size"`
	Parsed    ParsedResume `json:"parsed"    db:"parsed_data"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
