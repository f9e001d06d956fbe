// Package models defines the domain types for the portfolio content document.
package models

// SectionKey names an editable area of site copy.
type SectionKey string

// Fixed section keys. Every document carries all of them.
const (
	SectionProgramming SectionKey = "programming"
	SectionPosts       SectionKey = "posts"
	SectionUtilities   SectionKey = "utilities"
	SectionGame        SectionKey = "game"
	SectionConnect     SectionKey = "connect"
)

// IntroSection is the marker used by field updates to address the intro block.
const IntroSection = "intro"

// Editable field names within a section.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// FixedSections lists the section keys in display order.
var FixedSections = []SectionKey{
	SectionProgramming,
	SectionPosts,
	SectionUtilities,
	SectionGame,
	SectionConnect,
}

// Section is a title/description pair.
type Section struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Project is a portfolio entry, optionally with an attached PDF.
type Project struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	File        *string `json:"file"`
}

// ContentDocument is the whole persisted site state.
type ContentDocument struct {
	Intro             Section                `json:"intro"`
	ResumeFile        *string                `json:"resumeFile"`
	Sections          map[SectionKey]Section `json:"sections"`
	Projects          []Project              `json:"projects"`
	NextProjectID     int                    `json:"nextProjectId,omitempty"`
	AdminPasswordHash string                 `json:"adminPassword,omitempty"`
}

// Clone returns a deep copy of d.
func (d *ContentDocument) Clone() *ContentDocument {
	out := *d
	out.ResumeFile = cloneString(d.ResumeFile)
	out.Sections = make(map[SectionKey]Section, len(d.Sections))
	for k, v := range d.Sections {
		out.Sections[k] = v
	}
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.File = cloneString(p.File)
		out.Projects[i] = p
	}
	return &out
}

// Public returns a copy safe to hand to unauthenticated readers.
func (d *ContentDocument) Public() *ContentDocument {
	out := d.Clone()
	out.AdminPasswordHash = ""
	return out
}

// Normalize fills nil collections and restores missing fixed sections.
// It reports whether anything was changed.
func (d *ContentDocument) Normalize() bool {
	changed := false
	if d.Sections == nil {
		d.Sections = make(map[SectionKey]Section, len(FixedSections))
		changed = true
	}
	defaults := DefaultDocument("").Sections
	for _, k := range FixedSections {
		if _, ok := d.Sections[k]; !ok {
			d.Sections[k] = defaults[k]
			changed = true
		}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
		changed = true
	}
	return changed
}

// ProjectIndex returns the slice index of the project with id, or -1.
func (d *ContentDocument) ProjectIndex(id int) int {
	for i, p := range d.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AllocateProjectID returns the next project id and advances the high-water mark.
// Ids are never handed out twice, even after the highest one is deleted.
func (d *ContentDocument) AllocateProjectID() int {
	next := 1
	for _, p := range d.Projects {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	if d.NextProjectID > next {
		next = d.NextProjectID
	}
	d.NextProjectID = next + 1
	return next
}

// DefaultDocument returns the first-boot document.
func DefaultDocument(passwordHash string) *ContentDocument {
	return &ContentDocument{
		Intro: Section{
			Title: "Hello and Welcome to my Website!",
			Description: "This is my personal portfolio where I share programming projects, articles, " +
				"useful finance tools, and a small pixel art studio. Scroll to explore my work. " +
				"My resume is embedded below for quick viewing and is available to download.",
		},
		Sections: map[SectionKey]Section{
			SectionProgramming: {Title: "Programming Works", Description: "Code examples from school and site sources"},
			SectionPosts:       {Title: "Articles & Projects", Description: "Project reports and updates"},
			SectionUtilities:   {Title: "Investment Vehicle Valuations", Description: "Live market data & quick redirects"},
			SectionGame:        {Title: "Pixel Art Studio Max", Description: "A fun 16×16 Pixel Art Studio"},
			SectionConnect:     {Title: "Connect", Description: "Find my social links and projects"},
		},
		Projects:          []Project{},
		AdminPasswordHash: passwordHash,
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
