package ports

// Page carries raw pagination values as they arrived on the wire. Services
// parse them so a malformed value is rejected before any query runs.
type Page struct {
	Limit  string
	Offset string
}

// Pagination is the parsed form of Page.
type Pagination struct {
	Limit  int
	Offset int
}
