package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/i474232898/weather-chat/internal/chat"
	"github.com/i474232898/weather-chat/internal/scheduler"
	"github.com/i474232898/weather-chat/internal/weather"
)

var validate = validator.New()

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET,POST,OPTIONS"

	// User-facing texts.
	rateLimitText       = "Rate limit exceeded. Please try again later."
	paymentRequiredText = "AI service requires payment. Please add credits."
	apologyText         = "Sorry, I encountered an error processing your request. Please try again."
)

// Replier answers one chat turn.
type Replier interface {
	Reply(ctx context.Context, transcript []chat.Message) (chat.Reply, error)
}

// LocalLookup serves the live weather tile.
type LocalLookup interface {
	Lookup(ctx context.Context, coords weather.Coordinates) (weather.LocalWeather, error)
}

// ProbeReporter exposes the last provider probe.
type ProbeReporter interface {
	Last() (scheduler.ProbeResult, bool)
}

// Options carries the route dependencies. Local and Probe may be nil.
type Options struct {
	Chat           Replier
	Local          LocalLookup
	Probe          ProbeReporter
	Logger         *zap.Logger
	AllowedOrigins string
	// ChatRateLimit caps chat requests per minute per client IP; 0 disables it.
	ChatRateLimit int
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Kind    chat.ErrorKind `json:"kind,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: corsAllowHeaders,
		AllowMethods: corsAllowMethods,
		// Preflights are answered by preflight below with an empty 200.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
	}))
	app.Options("/*", preflight(origins))

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"service": "weather-chat",
		}
		if opts.Probe != nil {
			if res, ok := opts.Probe.Last(); ok {
				body["probe"] = res
				if !res.OK {
					body["status"] = "degraded"
				}
			}
		}
		return c.JSON(body)
	})

	h := &chatHandler{chat: opts.Chat, logger: logger}
	chatHandlers := []fiber.Handler{h.handle}
	if opts.ChatRateLimit > 0 {
		chatHandlers = append([]fiber.Handler{newChatLimiter(opts.ChatRateLimit)}, chatHandlers...)
	}

	v1 := app.Group("/api/v1")
	v1.Post("/weather-chat", chatHandlers...)
	// Same path as the hosted edge function so existing clients keep working.
	app.Post("/functions/v1/weather-chat", chatHandlers...)

	if opts.Local != nil {
		v1.Get("/weather/local", localHandler(opts.Local, logger))
	}
}

func preflight(origins string) fiber.Handler {
	allowed := strings.Split(origins, ",")
	return func(c *fiber.Ctx) error {
		if origins == "*" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		} else {
			c.Vary(fiber.HeaderOrigin)
			origin := c.Get(fiber.HeaderOrigin)
			for _, o := range allowed {
				if strings.EqualFold(strings.TrimSpace(o), origin) {
					c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
					break
				}
			}
		}
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
		c.Status(fiber.StatusOK)
		return nil
	}
}

func newChatLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{
				Error: rateLimitText,
				Kind:  chat.KindRateLimited,
			})
		},
	})
}

// chatRequest is the body of POST /weather-chat.
type chatRequest struct {
	Messages []chatMessage `json:"messages" validate:"required,min=1,dive"`
}

type chatMessage struct {
	Role    string          `json:"role" validate:"required,oneof=user assistant"`
	Content string          `json:"content"`
	Weather *weather.Report `json:"weather,omitempty"`
}

func (r chatRequest) transcript() []chat.Message {
	out := make([]chat.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, chat.Message{
			Role:    chat.Role(m.Role),
			Content: m.Content,
			Weather: m.Weather,
		})
	}
	return out
}

type chatHandler struct {
	chat   Replier
	logger *zap.Logger
}

func (h *chatHandler) handle(c *fiber.Ctx) error {
	log := h.logger.With(zap.String("request_id", requestID(c)))

	var req chatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Info("rejecting malformed chat body", zap.Error(err))
		return writeChatError(c, log, fmt.Errorf("%w: %v", chat.ErrInvalidRequest, err))
	}
	if err := validate.Struct(req); err != nil {
		return writeChatError(c, log, fmt.Errorf("%w: %v", chat.ErrInvalidRequest, err))
	}

	transcript := req.transcript()
	log.Info("chat request", zap.Int("messages", len(transcript)))

	reply, err := h.chat.Reply(c.UserContext(), transcript)
	if err != nil {
		return writeChatError(c, log, err)
	}

	log.Info("chat reply", zap.Bool("weather", reply.Weather != nil))
	return c.JSON(reply)
}

// writeChatError renders err with its kind. Classifier rate limits and
// payment failures keep their upstream status; everything else is a 500.
func writeChatError(c *fiber.Ctx, log *zap.Logger, err error) error {
	kind := chat.KindOf(err)
	log.Warn("chat request failed", zap.String("kind", string(kind)), zap.Error(err))

	switch kind {
	case chat.KindRateLimited:
		return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: rateLimitText, Kind: kind})
	case chat.KindPaymentRequired:
		return c.Status(fiber.StatusPaymentRequired).JSON(errorBody{Error: paymentRequiredText, Kind: kind})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Error:   errorText(kind, err),
		Message: apologyText,
		Kind:    kind,
	})
}

func errorText(kind chat.ErrorKind, err error) string {
	switch kind {
	case chat.KindInvalidRequest, chat.KindConfigurationMissing:
		return err.Error()
	case chat.KindClassifierUnavailable:
		return "AI service error"
	case chat.KindLookupUnavailable:
		return "Weather API error"
	default:
		return "An unexpected error occurred"
	}
}

// localQuery holds the coordinates of the live weather tile.
type localQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func (q localQuery) coordinates() (weather.Coordinates, error) {
	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return weather.Coordinates{}, err
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return weather.Coordinates{}, err
	}
	return weather.Coordinates{Lat: lat, Lon: lon}, nil
}

func localHandler(local LocalLookup, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := localQuery{Lat: c.Query("lat"), Lon: c.Query("lon")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coords, err := q.coordinates()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := local.Lookup(c.UserContext(), coords)
		if err != nil {
			logger.Warn("local weather lookup failed",
				zap.String("request_id", requestID(c)),
				zap.Error(err))
			if errors.Is(err, weather.ErrCityNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
		}

		return c.JSON(res)
	}
}

// ErrorHandler renders errors that escape handlers in the JSON error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(errorBody{Error: err.Error()})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
