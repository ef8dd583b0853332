package greenhouse

// Request and response shapes of the Harvest v1 candidate endpoints.

type EmailAddress struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type PhoneNumber struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type SocialMediaAddress struct {
	Value string `json:"value"`
}

// Attachment carries base64 content; Type is the Harvest attachment kind
// ("resume", "cover_letter", ...), ContentType the MIME type.
type Attachment struct {
	Filename    string `json:"filename"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type Referrer struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ApplicationRequest is both the element of CandidateRequest.Applications and
// the body of POST /candidates/{id}/applications.
type ApplicationRequest struct {
	JobID          int64        `json:"job_id"`
	SourceID       *int64       `json:"source_id,omitempty"`
	InitialStageID *int64       `json:"initial_stage_id,omitempty"`
	Referrer       *Referrer    `json:"referrer,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// CandidateRequest is the body of POST /candidates.
type CandidateRequest struct {
	FirstName            string               `json:"first_name"`
	LastName             string               `json:"last_name"`
	PreferredName        string               `json:"preferred_name,omitempty"`
	PhoneNumbers         []PhoneNumber        `json:"phone_numbers,omitempty"`
	EmailAddresses       []EmailAddress       `json:"email_addresses"`
	SocialMediaAddresses []SocialMediaAddress `json:"social_media_addresses,omitempty"`
	Applications         []ApplicationRequest `json:"applications"`
	Attachments          []Attachment         `json:"attachments,omitempty"`
}

type Candidate struct {
	ID           int64         `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	ProfileURL   string        `json:"profile_url"`
	Applications []Application `json:"applications"`
}

type Application struct {
	ID          int64  `json:"id"`
	CandidateID int64  `json:"candidate_id"`
	Status      string `json:"status"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}
