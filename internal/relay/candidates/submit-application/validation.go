package submitapplication

import (
	"encoding/json"
	stderrors "errors"

	"application-relay/internal/common/errors"
	"application-relay/internal/common/validation"
)

// ParseInput validates raw against the input schema and decodes it. Every
// failure is an invalid-request error except a broken schema.
func ParseInput(raw []byte) (*Input, error) {
	result, err := validation.ValidateJSON(raw, GetInputSchema())
	if err != nil {
		var malformed *validation.ErrMalformedJSON
		if stderrors.As(err, &malformed) {
			return nil, errors.NewInvalidRequestError([]string{malformed.Error()})
		}
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidRequestError(result.GetErrorMessages())
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidRequestError([]string{err.Error()})
	}
	return &input, nil
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"candidate_information"},
		Properties: map[string]validation.Property{
			"job_id": {
				Type:        "integer",
				Description: "Job the application is filed against; falls back to the configured default",
				Minimum:     validation.FloatPtr(1),
			},
			"candidate_information": {
				Type:     "object",
				Required: []string{"first_name", "last_name", "email"},
				Properties: map[string]validation.Property{
					"first_name": {
						Type:      "string",
						MinLength: validation.IntPtr(1),
						MaxLength: validation.IntPtr(255),
					},
					"last_name": {
						Type:      "string",
						MinLength: validation.IntPtr(1),
						MaxLength: validation.IntPtr(255),
					},
					"preferred_name": {
						Type:      "string",
						MaxLength: validation.IntPtr(255),
					},
					"email": {
						Type:      "string",
						Format:    "email",
						MaxLength: validation.IntPtr(255),
					},
					"phone": {
						Type:      "string",
						MaxLength: validation.IntPtr(50),
					},
					"phone_numbers": {
						Type:  "array",
						Items: &validation.Property{Type: "string", MaxLength: validation.IntPtr(50)},
					},
					"social_profile_url": {
						Type:      "string",
						MaxLength: validation.IntPtr(2048),
					},
					"custom_fields": {
						Type:        "object",
						Description: "Free-form fields; linkedin_url is used as the social profile when none is given",
					},
				},
			},
			"attachment": {
				Type:     "object",
				Required: []string{"filename", "content"},
				Properties: map[string]validation.Property{
					"filename":     {Type: "string", MinLength: validation.IntPtr(1)},
					"type":         {Type: "string"},
					"content":      {Type: "string", MinLength: validation.IntPtr(1), Description: "Base64 encoded file"},
					"content_type": {Type: "string"},
				},
			},
			"source_id": {
				Type:    "integer",
				Minimum: validation.FloatPtr(1),
			},
			"initial_stage_id": {
				Type:    "integer",
				Minimum: validation.FloatPtr(1),
			},
			"referrer": {
				Type:     "object",
				Required: []string{"type", "value"},
				Properties: map[string]validation.Property{
					"type":  {Type: "string", Enum: []string{"id", "email", "outside"}},
					"value": {Type: "string", MinLength: validation.IntPtr(1)},
				},
				AdditionalProperties: validation.BoolPtr(false),
			},
			"mode": {
				Type: "string",
				Enum: []string{string(ModeTwoStep), string(ModeSingle), string(ModeApplicationOnly)},
			},
			"candidate_id": {
				Type:    "integer",
				Minimum: validation.FloatPtr(1),
			},
		},
	}
}
