// Package mailrelay implements the HTTP service that turns new-application
// notifications into admin emails.
package mailrelay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solarhub/internal/domain"
	"solarhub/internal/metrics"
	"solarhub/internal/middleware"
	"solarhub/internal/port"
)

const maxPayloadBytes = 1 << 20

// applicationSchema is the accepted shape of a notification payload.
const applicationSchema = `{
  "type": "object",
  "required": ["id", "owner_id", "project_name", "status"],
  "properties": {
    "id":           {"type": "string", "format": "uuid"},
    "owner_id":     {"type": "string", "format": "uuid"},
    "project_name": {"type": "string", "minLength": 1},
    "facility_type":{"type": "string"},
    "location":     {"type": "string"},
    "latitude":     {"type": "number", "minimum": -90, "maximum": 90},
    "longitude":    {"type": "number", "minimum": -180, "maximum": 180},
    "system_type":  {"type": "string"},
    "load_profile": {"type": "string"},
    "notes":        {"type": "string"},
    "status":       {"type": "string", "minLength": 1},
    "files":        {"type": "object"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(applicationSchema)

// Handler serves POST /api/send-application-email.
type Handler struct {
	sender     port.EmailSender
	recipients []string
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewHandler creates a relay handler. A nil limiter disables rate limiting.
func NewHandler(sender port.EmailSender, recipients []string, limiter *rate.Limiter, log *zap.Logger) *Handler {
	return &Handler{sender: sender, recipients: recipients, limiter: limiter, log: log}
}

// SendApplicationEmail validates the payload and emails the configured
// recipients. Replies are always {success, error?}.
func (h *Handler) SendApplicationEmail(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow() {
		metrics.RelayEmails.WithLabelValues("rate_limited").Inc()
		c.Header("Retry-After", "1")
		reply(c, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes+1))
	if err != nil {
		reply(c, http.StatusBadRequest, errors.New("could not read request body"))
		return
	}
	if len(body) > maxPayloadBytes {
		reply(c, http.StatusRequestEntityTooLarge, errors.New("payload too large"))
		return
	}

	if err := validatePayload(body); err != nil {
		metrics.RelayEmails.WithLabelValues("invalid").Inc()
		reply(c, http.StatusBadRequest, err)
		return
	}

	var app domain.Application
	if err := json.Unmarshal(body, &app); err != nil {
		metrics.RelayEmails.WithLabelValues("invalid").Inc()
		reply(c, http.StatusBadRequest, errors.New("malformed application payload"))
		return
	}

	if err := h.sender.SendNewApplicationEmail(c.Request.Context(), h.recipients, &app); err != nil {
		metrics.RelayEmails.WithLabelValues("failed").Inc()
		h.log.Error("mailrelay.SendApplicationEmail: send failed",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
		// A relay without recipients cannot serve any request until it is
		// redeployed, so it reports itself unavailable rather than blaming SES.
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		reply(c, status, errors.New("failed to send email"))
		return
	}

	metrics.RelayEmails.WithLabelValues("sent").Inc()
	h.log.Info("mailrelay.SendApplicationEmail: sent",
		zap.String("application_id", app.ID.String()),
		zap.Int("recipients", len(h.recipients)))
	c.JSON(http.StatusOK, port.NotifyResult{Success: true})
}

func validatePayload(body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.New("payload is not valid JSON")
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return errors.New("invalid payload: " + strings.Join(msgs, "; "))
	}
	return nil
}

func reply(c *gin.Context, status int, err error) {
	c.JSON(status, port.NotifyResult{Success: false, Error: err.Error()})
}

// NewRouter mounts the relay endpoints.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/send-application-email", h.SendApplicationEmail)
	return r
}
