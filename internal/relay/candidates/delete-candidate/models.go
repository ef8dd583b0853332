package deletecandidate

import (
	"context"

	"application-relay/internal/common/greenhouse"
	"application-relay/internal/common/logger"
)

// Input names the candidate to delete. Zero means the configured default.
type Input struct {
	CandidateID int64 `json:"candidate_id,omitempty"`
}

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Client  HarvestClient
	Secrets []string
}

type HarvestClient interface {
	DeleteCandidate(ctx context.Context, candidateID int64) (*greenhouse.DeleteResponse, error)
}
