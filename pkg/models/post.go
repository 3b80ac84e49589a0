package models

// Post describes one blog post as listed in the index file. Path is the
// location of the Markdown source inside the repository and doubles as
// the key for commit-metadata lookups.
type Post struct {
	Title string   `yaml:"title" json:"title"`
	Tags  []string `yaml:"tags" json:"tags"`
	Path  string   `yaml:"path" json:"path"`
}

// CommitAuthor is the author block of a raw commit record.
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date"`
}

// CommitDetail is the commit block of a raw commit record.
type CommitDetail struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

// CommitRecord is one commit object as returned by the REST history
// endpoint, passed through unmodified.
type CommitRecord struct {
	SHA    string       `json:"sha"`
	Commit CommitDetail `json:"commit"`
}

// CommitInfo is the shaped result of a metadata lookup for one path.
// When real data is unavailable the fields hold sentinel strings, so a
// lookup always yields a well-formed result.
type CommitInfo struct {
	LastModified string
	Author       string
	Message      string
	OID          string
}

// PathCommits is the per-path entry of a REST batch lookup. Err is empty
// on success; on failure Commits is nil and Total is zero.
type PathCommits struct {
	Path    string
	Commits []CommitRecord
	Total   int
	Err     string
}

// CommitMap maps a post path to its commit metadata. Every requested
// path appears exactly once.
type CommitMap map[string]CommitInfo

// User is the authenticated account identity.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// RateLimit reports the core API quota counters.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}
