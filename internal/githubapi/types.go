package githubapi

// IssueComment is a snapshot of a single issue comment.
type IssueComment struct {
	// ID is the GitHub comment database ID.
	ID int64
	// Body is the raw markdown body of the comment.
	Body string
	// Author is the GitHub login of the comment author.
	Author string
	// URL is the canonical URL of the comment.
	URL string
}

// MaxPerPage is the largest page size the REST API accepts.
const MaxPerPage = 100
