package models

// ErrorResponse is the shared error payload returned by every handler.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ActorContext carries the resolved request identity into the core. Identity
// resolution itself happens upstream; the core only ever sees these opaque
// values and never reads them from globals.
type ActorContext struct {
	OrganizationID string
	VoterID        string
	Role           string
}

// IsAuthenticated reports whether a voter identity was presented.
func (a ActorContext) IsAuthenticated() bool {
	return a.VoterID != ""
}
