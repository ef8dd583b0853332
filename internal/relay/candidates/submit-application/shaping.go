package submitapplication

import (
	"strings"

	"application-relay/internal/common/greenhouse"
)

const (
	emailTypeWork   = "work"
	phoneTypeMobile = "mobile"
	linkedInField   = "linkedin_url"
)

// BuildCandidateRequest maps a submission onto the candidate payload. When
// embedHints is set the routing hints ride on applications[0].
func BuildCandidateRequest(input *Input, jobID int64, embedHints bool) *greenhouse.CandidateRequest {
	info := input.CandidateInformation

	req := &greenhouse.CandidateRequest{
		FirstName:     info.FirstName,
		LastName:      info.LastName,
		PreferredName: info.PreferredName,
		EmailAddresses: []greenhouse.EmailAddress{
			{Value: strings.TrimSpace(info.Email), Type: emailTypeWork},
		},
		Applications: []greenhouse.ApplicationRequest{{JobID: jobID}},
	}

	if phone := firstPhone(info); phone != "" {
		req.PhoneNumbers = []greenhouse.PhoneNumber{{Value: phone, Type: phoneTypeMobile}}
	}
	if url := socialProfileURL(info); url != "" {
		req.SocialMediaAddresses = []greenhouse.SocialMediaAddress{{Value: url}}
	}
	if input.Attachment != nil {
		req.Attachments = []greenhouse.Attachment{toAttachment(input.Attachment)}
	}
	if embedHints {
		applyHints(&req.Applications[0], input)
	}
	return req
}

// BuildApplicationRequest maps a submission onto the add-application payload.
func BuildApplicationRequest(input *Input, jobID int64, withAttachment bool) *greenhouse.ApplicationRequest {
	req := &greenhouse.ApplicationRequest{JobID: jobID}
	applyHints(req, input)
	if withAttachment && input.Attachment != nil {
		req.Attachments = []greenhouse.Attachment{toAttachment(input.Attachment)}
	}
	return req
}

func applyHints(req *greenhouse.ApplicationRequest, input *Input) {
	req.SourceID = input.SourceID
	req.InitialStageID = input.InitialStageID
	if input.Referrer != nil {
		req.Referrer = &greenhouse.Referrer{Type: input.Referrer.Type, Value: input.Referrer.Value}
	}
}

func toAttachment(a *Attachment) greenhouse.Attachment {
	return greenhouse.Attachment{
		Filename:    a.Filename,
		Type:        a.Type,
		Content:     a.Content,
		ContentType: a.ContentType,
	}
}

func firstPhone(info CandidateInformation) string {
	if p := strings.TrimSpace(info.Phone); p != "" {
		return p
	}
	for _, p := range info.PhoneNumbers {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

func socialProfileURL(info CandidateInformation) string {
	if u := strings.TrimSpace(info.SocialProfileURL); u != "" {
		return u
	}
	if v, ok := info.CustomFields[linkedInField].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
