package submitapplication

import (
	"context"

	"application-relay/internal/common/greenhouse"
	"application-relay/internal/common/logger"
)

// Mode selects how a submission is sequenced against the remote service.
type Mode string

const (
	// ModeTwoStep creates the candidate, then adds the application to it.
	ModeTwoStep Mode = "two_step"
	// ModeSingle creates the candidate with the application embedded.
	ModeSingle Mode = "single"
	// ModeApplicationOnly adds an application to an existing candidate.
	ModeApplicationOnly Mode = "application_only"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeTwoStep, ModeSingle, ModeApplicationOnly:
		return true
	}
	return false
}

// Input is the submission sent by the form client.
type Input struct {
	JobID                int64                `json:"job_id,omitempty"`
	CandidateInformation CandidateInformation `json:"candidate_information"`
	Attachment           *Attachment          `json:"attachment,omitempty"`
	SourceID             *int64               `json:"source_id,omitempty"`
	Referrer             *Referrer            `json:"referrer,omitempty"`
	InitialStageID       *int64               `json:"initial_stage_id,omitempty"`
	Mode                 Mode                 `json:"mode,omitempty"`
	CandidateID          int64                `json:"candidate_id,omitempty"`
}

type CandidateInformation struct {
	FirstName        string                 `json:"first_name"`
	LastName         string                 `json:"last_name"`
	PreferredName    string                 `json:"preferred_name,omitempty"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone,omitempty"`
	PhoneNumbers     []string               `json:"phone_numbers,omitempty"`
	SocialProfileURL string                 `json:"social_profile_url,omitempty"`
	CustomFields     map[string]interface{} `json:"custom_fields,omitempty"`
}

// Attachment is a pre-encoded file. Content is base64 text.
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

// Output is the success outcome. ApplicationID is zero only in single mode
// when the remote response carried no application.
type Output struct {
	ID            int64  `json:"id"`
	ApplicationID int64  `json:"application_id,omitempty"`
	ProfileURL    string `json:"profile_url"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Client HarvestClient
	// Secrets are scrubbed from remote bodies before they reach the caller.
	Secrets []string
}

// HarvestClient is the part of the greenhouse client the service uses.
type HarvestClient interface {
	CreateCandidate(ctx context.Context, candidate *greenhouse.CandidateRequest) (*greenhouse.Candidate, error)
	AddApplication(ctx context.Context, candidateID int64, application *greenhouse.ApplicationRequest) (*greenhouse.Application, error)
}
