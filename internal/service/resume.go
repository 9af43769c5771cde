package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// DefaultMaxResumeBytes caps uploads when config doesn't override it.
const DefaultMaxResumeBytes = 10 << 20 // 10MB

// allowedResumeExts is the upload whitelist, keyed by lowercase extension.
var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// phonePattern matches common US-style phone formats, with or without
// country code and separators.
var phonePattern = regexp.MustCompile(`(\+?\d{1,2}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)

// skillKeywords are scanned case-insensitively. The canonical casing here
// is what ends up in the parsed profile.
var skillKeywords = []string{
	"React", "JavaScript", "TypeScript", "Python", "Java", "C++", "Go", "Node.js",
	"MongoDB", "PostgreSQL", "MySQL", "SQLite", "AWS", "Docker", "Kubernetes",
	"HTML", "CSS", "Vue", "Angular", "Django", "Flask", "Express",
	"Git", "API", "REST", "GraphQL", "Machine Learning", "AI",
}

var titleKeywords = []string{
	"Software Engineer", "Developer", "Data Scientist", "Product Manager",
	"Designer", "Analyst", "Consultant", "Manager", "Director", "Lead",
}

// ResumeService handles resume uploads: validation, text extraction, and
// heuristic field parsing.
//
// The parser is regex and keyword matching over whatever text the file
// yields. That's deliberate — accurate document OCR is out of scope, and
// every extracted field is editable by the user afterwards. Binary formats
// (pdf, docx) are scanned for the printable runs they contain, which is
// enough for the email/phone/skill heuristics to latch onto.
type ResumeService struct {
	resumes  repository.ResumeRepository
	maxBytes int64
	logger   *slog.Logger
}

func NewResumeService(resumes repository.ResumeRepository, maxBytes int64, logger *slog.Logger) *ResumeService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResumeBytes
	}
	return &ResumeService{resumes: resumes, maxBytes: maxBytes, logger: logger}
}

// MaxBytes is the upload size cap, exposed for the handler's request body limit.
func (s *ResumeService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload validates, parses, and stores a resume. The file bytes are
// discarded after parsing; only the extracted fields persist.
func (s *ResumeService) Upload(ctx context.Context, userID, filename string, content []byte) (*model.Resume, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedResumeExts[ext] {
		return nil, apperror.ValidationFailed("file", "only pdf, doc, docx, and txt files are supported")
	}
	if len(content) == 0 {
		return nil, apperror.ValidationFailed("file", "uploaded file is empty")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, apperror.ValidationFailed("file", "file exceeds the upload size limit")
	}

	text := extractText(content)
	parsed := parseResumeText(text)

	resume := &model.Resume{
		UserID:   userID,
		Filename: filepath.Base(filename),
		FileSize: int64(len(content)),
		Parsed:   parsed,
	}
	if err := s.resumes.CreateResume(ctx, resume); err != nil {
		return nil, err
	}

	s.logger.Info("resume uploaded",
		slog.String("userID", userID),
		slog.String("filename", resume.Filename),
		slog.Int("skills", len(parsed.Skills)),
	)
	return resume, nil
}

// Latest returns the user's most recent upload, or nil when they have
// none (skipping the step is allowed, so "no resume" is not an error).
func (s *ResumeService) Latest(ctx context.Context, userID string) (*model.Resume, error) {
	resume, err := s.resumes.GetLatestResume(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resume, nil
}

// extractText pulls printable text out of the upload. Plain text passes
// through; binary formats are reduced to their runs of printable ASCII,
// which keeps emails, phone numbers, and keywords findable.
func extractText(content []byte) string {
	var b strings.Builder
	b.Grow(len(content))

	run := 0
	for _, c := range content {
		printable := (c >= 0x20 && c < 0x7f) || c == '\n' || c == '\t'
		if printable {
			b.WriteByte(c)
			run++
			continue
		}
		// Break words at binary gaps so unrelated fragments don't fuse.
		if run > 0 {
			b.WriteByte('\n')
			run = 0
		}
	}
	return b.String()
}

// parseResumeText runs the field heuristics over extracted text.
func parseResumeText(text string) model.ParsedResume {
	parsed := model.ParsedResume{
		Title:    "Software Engineer",
		Location: "Remote",
		Skills:   []string{},
	}

	if m := emailPattern.FindString(text); m != "" {
		parsed.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		parsed.Phone = strings.TrimSpace(m)
	}

	// Name heuristic: the first short line near the top that isn't an
	// email or phone number. Resumes almost always lead with the name.
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "@") || len(line) >= 50 {
			continue
		}
		if phonePattern.MatchString(line) {
			continue
		}
		parsed.Name = line
		break
	}

	upper := strings.ToUpper(text)
	for _, skill := range skillKeywords {
		if strings.Contains(upper, strings.ToUpper(skill)) {
			parsed.Skills = append(parsed.Skills, skill)
		}
		if len(parsed.Skills) == 10 {
			break
		}
	}

	lower := strings.ToLower(text)
	for _, title := range titleKeywords {
		if strings.Contains(lower, strings.ToLower(title)) {
			parsed.Title = title
			break
		}
	}

	if len(text) > 500 {
		parsed.Experience = text[:500] + "..."
	} else {
		parsed.Experience = text
	}

	return parsed
}
