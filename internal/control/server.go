// Package control exposes the panel over HTTP so the discussion can be
// driven without the TUI, and streams state changes over a WebSocket.
package control

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"relicpanel/internal/app"
	"relicpanel/internal/commands"
	"relicpanel/internal/discussion"
	"relicpanel/internal/models"
)

// Panel is what the server drives. *app.App implements it.
type Panel interface {
	Status() app.Status
	Subscribe(fn func(app.Status)) (unsubscribe func())
	StartDiscussion(topic string) error
	StopDiscussion()
	SetPanel(open bool)
	ExecuteLine(line string) (app.Result, error)
	Features() []models.Feature
	ReadCard(i int) (bool, error)
	VoiceList() []app.VoiceInfo
	TranscriptMarkdown() string
}

// Server bundles the echo router and its dependencies.
type Server struct {
	Echo  *echo.Echo
	panel Panel
	log   zerolog.Logger
}

type startRequest struct {
	Topic string `json:"topic"`
}

type commandRequest struct {
	Text string `json:"text"`
}

// Card is a feature card as served by GET /cards.
type Card struct {
	Number int `json:"number"` // 1-based, as used by /read and /discuss
	models.Feature
	Reading bool `json:"reading"`
}

// New creates the server with all routes registered.
func New(panel Panel, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Debug()
			if v.Error != nil {
				ev = logger.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))

	s := &Server{Echo: e, panel: panel, log: logger}
	s.register(e)
	return s
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/panel/status", s.status)
	e.POST("/panel/start", s.start)
	e.POST("/panel/stop", s.stop)
	e.POST("/panel/close", s.closePanel)
	e.GET("/panel/events", s.events)
	e.GET("/panel/transcript.md", s.transcript)
	e.POST("/command", s.command)
	e.GET("/cards", s.cards)
	e.POST("/cards/:number/read", s.readCard)
	e.GET("/voices", s.voices)
}

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("control server listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, s.panel.Status())
}

func (s *Server) start(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.panel.StartDiscussion(req.Topic); err != nil {
		if errors.Is(err, discussion.ErrRunning) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusAccepted, s.panel.Status())
}

func (s *Server) stop(c echo.Context) error {
	s.panel.StopDiscussion()
	return c.JSON(http.StatusOK, s.panel.Status())
}

func (s *Server) closePanel(c echo.Context) error {
	s.panel.SetPanel(false)
	return c.JSON(http.StatusOK, s.panel.Status())
}

func (s *Server) transcript(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.panel.TranscriptMarkdown()))
}

func (s *Server) command(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	res, err := s.panel.ExecuteLine(req.Text)
	if err != nil {
		var perr commands.ParseError
		switch {
		case errors.As(err, &perr), errors.Is(err, app.ErrNotCommand):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrNoCard):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrEmptyTranscript):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, app.ErrNoStore):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		default:
			return err
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) cards(c echo.Context) error {
	playing := s.panel.Status().Playing
	features := s.panel.Features()
	out := make([]Card, 0, len(features))
	for i, f := range features {
		out = append(out, Card{
			Number:  i + 1,
			Feature: f,
			Reading: playing == app.CardChannel(i),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) readCard(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid card number")
	}
	reading, err := s.panel.ReadCard(n - 1)
	if err != nil {
		if errors.Is(err, app.ErrNoCard) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"reading": reading})
}

func (s *Server) voices(c echo.Context) error {
	return c.JSON(http.StatusOK, s.panel.VoiceList())
}

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)
