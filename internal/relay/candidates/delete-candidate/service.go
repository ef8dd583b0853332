package deletecandidate

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"application-relay/internal/common/errors"
	"application-relay/internal/common/greenhouse"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/metrics"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	client  HarvestClient
	secrets []string
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:  config,
		logger:  deps.Logger,
		client:  deps.Client,
		secrets: deps.Secrets,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	candidateID := input.CandidateID
	if candidateID == 0 {
		candidateID = s.config.DefaultCandidateID
	}
	if candidateID <= 0 {
		return nil, errors.NewInvalidRequestError([]string{
			"candidate_id: required when no default candidate is configured",
		})
	}

	if s.client == nil {
		return nil, errors.NewRemoteNotConfiguredError("greenhouse client not configured")
	}

	s.logger.Info("Deleting candidate", map[string]interface{}{
		"candidateId": candidateID,
	})

	start := time.Now()
	_, err := s.client.DeleteCandidate(ctx, candidateID)
	s.observe(start, err)
	if err != nil {
		var apiErr *greenhouse.APIError
		if stderrors.As(err, &apiErr) {
			stdErr := errors.NewDeleteFailedError(apiErr.StatusCode, apiErr.Details(s.secrets...))
			stdErr.Cause = apiErr
			return nil, stdErr.WithMetadata("candidateId", candidateID)
		}
		return nil, errors.NewInternalError(err).WithMetadata("candidateId", candidateID)
	}

	s.logger.Info("Candidate deleted", map[string]interface{}{
		"candidateId": candidateID,
	})

	return &Output{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted candidate %d", candidateID),
	}, nil
}

func (s *Service) observe(start time.Time, err error) {
	status := "ok"
	var apiErr *greenhouse.APIError
	switch {
	case stderrors.As(err, &apiErr):
		status = strconv.Itoa(apiErr.StatusCode)
	case err != nil:
		status = "transport_error"
	}
	metrics.RemoteCallsTotal.WithLabelValues(greenhouse.OpDeleteCandidate, status).Inc()
	metrics.RemoteCallDuration.WithLabelValues(greenhouse.OpDeleteCandidate).Observe(time.Since(start).Seconds())
}
