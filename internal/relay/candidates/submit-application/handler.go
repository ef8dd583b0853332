package submitapplication

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"application-relay/internal/common/config"
	"application-relay/internal/common/errors"
	relayhttp "application-relay/internal/common/http"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

const (
	RouteSubmitApplication = "/submit-application"
	RouteSubmitCandidate   = "/submit-candidate"
)

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
		return nil, fmt.Errorf("invalid configuration for submit-application: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
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

// Register mounts both submission entry points.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST(RouteSubmitApplication, h.HandleSubmitApplication)
	r.POST(RouteSubmitCandidate, h.HandleSubmitCandidate)
}

// HandleSubmitApplication uses the submission's mode, else the configured default.
func (h *Handler) HandleSubmitApplication(c *gin.Context) {
	h.handle(c, RouteSubmitApplication, "")
}

// HandleSubmitCandidate always runs in single mode.
func (h *Handler) HandleSubmitCandidate(c *gin.Context) {
	h.handle(c, RouteSubmitCandidate, ModeSingle)
}

func (h *Handler) handle(c *gin.Context, route string, forced Mode) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	fields := map[string]interface{}{
		"route":     route,
		"requestId": c.GetString("requestId"),
	}

	if !h.config.Enabled {
		h.logger.Info("Submissions disabled by configuration", fields)
		c.JSON(http.StatusServiceUnavailable, errors.FailureOutcome{
			Error:  "submissions disabled",
			Status: http.StatusServiceUnavailable,
		})
		return
	}

	input, err := h.parseInput(c.Request.Body)
	if err != nil {
		h.fail(c, h.modeLabel(forced), err, fields)
		return
	}
	if forced != "" {
		input.Mode = forced
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(c, h.modeLabel(input.Mode), err, fields)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues(h.modeLabel(input.Mode), "success").Inc()
	c.JSON(http.StatusOK, output)
}

// Execute implements the standard direct-execution entry point.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) parseInput(body io.Reader) (*Input, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			stdErr := errors.NewInvalidRequestError([]string{
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			stdErr.Status = http.StatusRequestEntityTooLarge
			return nil, stdErr
		}
		return nil, errors.NewInvalidRequestError([]string{"request body could not be read"})
	}

	return ParseInput(raw)
}

func (h *Handler) fail(c *gin.Context, mode string, err error, fields map[string]interface{}) {
	status, outcome := h.errHandler.Handle(err, fields)

	metrics.SubmissionsTotal.WithLabelValues(mode, "failure").Inc()
	metrics.SubmissionFailures.WithLabelValues(mode, extractErrorCode(err)).Inc()

	c.JSON(status, outcome)
}

func (h *Handler) modeLabel(mode Mode) string {
	if mode != "" {
		return string(mode)
	}
	return string(h.config.DefaultMode)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if appConfig.Relay.DefaultMode != "" {
			cfg.DefaultMode = Mode(appConfig.Relay.DefaultMode)
		}
		cfg.DefaultJobID = appConfig.Greenhouse.DefaultJobID
		// Two sequential calls share one budget.
		if appConfig.Greenhouse.Timeout > 0 {
			cfg.Timeout = 2*config.GetDuration(appConfig.Greenhouse.Timeout) + 5*time.Second
		}
	}

	return cfg
}

func secretsFromAppConfig(appConfig *config.Config) []string {
	if appConfig == nil || appConfig.Greenhouse.APIKey == "" {
		return nil
	}
	creds := relayhttp.Credentials{
		APIKey:     appConfig.Greenhouse.APIKey,
		OnBehalfOf: appConfig.Greenhouse.OnBehalfOf,
	}
	return []string{creds.APIKey, creds.BasicToken()}
}
