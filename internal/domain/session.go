package domain

// Session carries the identity supplied by the authentication layer.
// It is threaded explicitly through every core call; there is no
// ambient module-level session.
type Session struct {
	OrganizationID string
	BranchID       string
	UserID         string
}

// LegacyOrganizationID is the sentinel organization assigned to rows
// whose creator could not be resolved to an organization. Rows are
// never dropped for a missing org.
const LegacyOrganizationID = "org-legacy"
