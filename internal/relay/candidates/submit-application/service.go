package submitapplication

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

// Execute relays one submission. Steps run strictly in order and the first
// failing step ends the submission with its status.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	mode := s.resolveMode(input)
	jobID := input.JobID
	if jobID == 0 {
		jobID = s.config.DefaultJobID
	}

	if problems := s.checkInput(input, mode, jobID); len(problems) > 0 {
		return nil, errors.NewInvalidRequestError(problems)
	}

	if s.client == nil {
		return nil, errors.NewRemoteNotConfiguredError("greenhouse client not configured")
	}

	s.logger.Info("Relaying submission", map[string]interface{}{
		"mode":          string(mode),
		"jobId":         jobID,
		"hasAttachment": input.Attachment != nil,
	})

	switch mode {
	case ModeSingle:
		return s.executeSingle(ctx, input, jobID)
	case ModeApplicationOnly:
		return s.executeApplicationOnly(ctx, input, jobID)
	default:
		return s.executeTwoStep(ctx, input, jobID)
	}
}

func (s *Service) executeTwoStep(ctx context.Context, input *Input, jobID int64) (*Output, error) {
	candidate, err := s.createCandidate(ctx, BuildCandidateRequest(input, jobID, false))
	if err != nil {
		return nil, err
	}

	application, err := s.addApplication(ctx, candidate.ID, BuildApplicationRequest(input, jobID, false))
	if err != nil {
		metrics.OrphanedCandidates.Inc()
		s.logger.Warn("Application step failed after candidate was created", map[string]interface{}{
			"orphanedCandidateId": candidate.ID,
			"jobId":               jobID,
		})
		if stdErr, ok := err.(*errors.StandardError); ok {
			stdErr.WithMetadata("orphanedCandidateId", candidate.ID)
		}
		return nil, err
	}

	s.logger.Info("Submission relayed", map[string]interface{}{
		"candidateId":   candidate.ID,
		"applicationId": application.ID,
	})

	return &Output{
		ID:            candidate.ID,
		ApplicationID: application.ID,
		ProfileURL:    candidate.ProfileURL,
	}, nil
}

func (s *Service) executeSingle(ctx context.Context, input *Input, jobID int64) (*Output, error) {
	candidate, err := s.createCandidate(ctx, BuildCandidateRequest(input, jobID, true))
	if err != nil {
		return nil, err
	}

	output := &Output{ID: candidate.ID, ProfileURL: candidate.ProfileURL}
	if len(candidate.Applications) > 0 {
		output.ApplicationID = candidate.Applications[0].ID
	}

	s.logger.Info("Submission relayed", map[string]interface{}{
		"candidateId":   output.ID,
		"applicationId": output.ApplicationID,
	})
	return output, nil
}

func (s *Service) executeApplicationOnly(ctx context.Context, input *Input, jobID int64) (*Output, error) {
	application, err := s.addApplication(ctx, input.CandidateID, BuildApplicationRequest(input, jobID, true))
	if err != nil {
		return nil, err
	}

	candidateID := application.CandidateID
	if candidateID == 0 {
		candidateID = input.CandidateID
	}

	s.logger.Info("Application added to existing candidate", map[string]interface{}{
		"candidateId":   candidateID,
		"applicationId": application.ID,
	})

	return &Output{ID: candidateID, ApplicationID: application.ID}, nil
}

func (s *Service) createCandidate(ctx context.Context, req *greenhouse.CandidateRequest) (*greenhouse.Candidate, error) {
	start := time.Now()
	candidate, err := s.client.CreateCandidate(ctx, req)
	s.observe(greenhouse.OpCreateCandidate, start, err)
	if err != nil {
		return nil, s.remoteFailure(err, errors.NewCandidateCreationFailedError)
	}
	return candidate, nil
}

func (s *Service) addApplication(ctx context.Context, candidateID int64, req *greenhouse.ApplicationRequest) (*greenhouse.Application, error) {
	start := time.Now()
	application, err := s.client.AddApplication(ctx, candidateID, req)
	s.observe(greenhouse.OpAddApplication, start, err)
	if err != nil {
		return nil, s.remoteFailure(err, errors.NewApplicationSubmissionFailedError)
	}
	return application, nil
}

// remoteFailure keeps the remote status for non-2xx responses; anything else
// becomes a generic internal error.
func (s *Service) remoteFailure(err error, build func(int, interface{}) *errors.StandardError) error {
	var apiErr *greenhouse.APIError
	if stderrors.As(err, &apiErr) {
		stdErr := build(apiErr.StatusCode, apiErr.Details(s.secrets...))
		stdErr.Cause = apiErr
		return stdErr
	}
	return errors.NewInternalError(err)
}

func (s *Service) observe(step string, start time.Time, err error) {
	status := "ok"
	var apiErr *greenhouse.APIError
	switch {
	case stderrors.As(err, &apiErr):
		status = strconv.Itoa(apiErr.StatusCode)
	case err != nil:
		status = "transport_error"
	}
	metrics.RemoteCallsTotal.WithLabelValues(step, status).Inc()
	metrics.RemoteCallDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

func (s *Service) resolveMode(input *Input) Mode {
	if input.Mode != "" {
		return input.Mode
	}
	if s.config.DefaultMode != "" {
		return s.config.DefaultMode
	}
	return ModeTwoStep
}

func (s *Service) checkInput(input *Input, mode Mode, jobID int64) []string {
	var problems []string
	if !mode.Valid() {
		problems = append(problems, fmt.Sprintf("mode: %q is not supported", mode))
	}
	if jobID <= 0 {
		problems = append(problems, "job_id: required when no default job is configured")
	}
	if mode == ModeApplicationOnly && input.CandidateID <= 0 {
		problems = append(problems, "candidate_id: required in application_only mode")
	}
	return problems
}
