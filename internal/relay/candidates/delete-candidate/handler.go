package deletecandidate

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"application-relay/internal/common/config"
	"application-relay/internal/common/errors"
	relayhttp "application-relay/internal/common/http"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

const RouteDelete = "/delete"

type Handler struct {
	config     *Config
	logger     logger.Logger
	service    *Service
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Client       HarvestClient
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	handlerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := handlerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for delete-candidate: %w", err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	handler := &Handler{
		config:     handlerConfig,
		logger:     loggerInstance,
		errHandler: errors.NewErrorHandler(loggerInstance),
	}

	handler.service = NewService(ServiceDependencies{
		Logger:  loggerInstance,
		Client:  opts.Client,
		Secrets: secretsFromAppConfig(opts.AppConfig),
	}, handler.config)

	return handler, nil
}

func (h *Handler) Register(r gin.IRoutes) {
	r.DELETE(RouteDelete, h.HandleDelete)
}

// HandleDelete resolves the candidate id from the query, then an optional
// JSON body, then configuration.
func (h *Handler) HandleDelete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	fields := map[string]interface{}{
		"route":     RouteDelete,
		"requestId": c.GetString("requestId"),
	}

	if !h.config.Enabled {
		c.JSON(http.StatusServiceUnavailable, errors.FailureOutcome{
			Error:  "delete disabled",
			Status: http.StatusServiceUnavailable,
		})
		return
	}

	input, err := h.parseInput(c)
	if err != nil {
		h.fail(c, err, fields)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(c, err, fields)
		return
	}

	metrics.DeletesTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, output)
}

func (h *Handler) fail(c *gin.Context, err error, fields map[string]interface{}) {
	status, outcome := h.errHandler.Handle(err, fields)

	metrics.DeletesTotal.WithLabelValues("failure").Inc()
	metrics.DeleteFailures.WithLabelValues(extractErrorCode(err)).Inc()

	c.JSON(status, outcome)
}

func extractErrorCode(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

// parseInput always reads the body so a malformed one is rejected even when
// the query names the candidate.
func (h *Handler) parseInput(c *gin.Context) (*Input, error) {
	input, err := decodeBody(c.Request.Body)
	if err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(c.Query("candidate_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.NewInvalidRequestError([]string{"candidate_id: must be a positive integer"})
		}
		input.CandidateID = id
	}
	return input, nil
}

func decodeBody(body io.Reader) (*Input, error) {
	if body == nil {
		return &Input{}, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			stdErr := errors.NewInvalidRequestError([]string{fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			stdErr.Status = http.StatusRequestEntityTooLarge
			return nil, stdErr
		}
		return nil, errors.NewInvalidRequestError([]string{"request body could not be read"})
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &Input{}, nil
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidRequestError([]string{fmt.Sprintf("malformed JSON: %v", err)})
	}
	if input.CandidateID < 0 {
		return nil, errors.NewInvalidRequestError([]string{"candidate_id: must be a positive integer"})
	}
	return &input, nil
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		cfg.DefaultCandidateID = appConfig.Greenhouse.DefaultCandidateID
		if appConfig.Greenhouse.Timeout > 0 {
			cfg.Timeout = config.GetDuration(appConfig.Greenhouse.Timeout)
		}
	}
	return cfg
}

func secretsFromAppConfig(appConfig *config.Config) []string {
	if appConfig == nil || appConfig.Greenhouse.APIKey == "" {
		return nil
	}
	creds := relayhttp.Credentials{APIKey: appConfig.Greenhouse.APIKey}
	return []string{creds.APIKey, creds.BasicToken()}
}
