// Package web serves a read-only JSON view of the running mind.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keshon/v0id/internal/archive"
	"github.com/keshon/v0id/internal/logging"
	"github.com/keshon/v0id/internal/mind"
	"github.com/rs/zerolog"
)

// StateSource hands out copies of the live state.
type StateSource interface {
	Snapshot() *mind.State
}

// HistorySource reads the thought archive.
type HistorySource interface {
	History(ctx context.Context, limit int, sessionID string) ([]archive.Record, error)
}

type Server struct {
	state   StateSource
	history HistorySource
	skipped func() int64
	engine  *gin.Engine
	log     zerolog.Logger
	started time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSkipped reports the scheduler's skipped tick counter on /api/state.
func WithSkipped(f func() int64) Option {
	return func(s *Server) { s.skipped = f }
}

// New builds the router. history may be nil.
func New(state StateSource, history HistorySource, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		state:   state,
		history: history,
		engine:  gin.New(),
		log:     logging.Component("web"),
		started: time.Now(),
	}
	for _, o := range opts {
		o(s)
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.GET("/healthz", s.health)
	api := s.engine.Group("/api")
	api.GET("/state", s.getState)
	api.GET("/memories", s.getMemories)
	api.GET("/graph", s.getGraph)
	api.GET("/history", s.getHistory)
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("status api listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info().Msg("status api stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// stateView is /api/state. Memory and the graph have their own endpoints.
type stateView struct {
	SessionID     string             `json:"session_id"`
	Tick          int64              `json:"tick"`
	Mode          mind.Mode          `json:"mode"`
	Pulse         bool               `json:"pulse"`
	Topic         string             `json:"topic"`
	TopicLock     int                `json:"topic_lock"`
	SubAgent      string             `json:"sub_agent"`
	Maturity      float64            `json:"maturity"`
	Tension       float64            `json:"tension"`
	Dominant      string             `json:"dominant_emotion"`
	Emotions      mind.Emotions      `json:"emotions"`
	Beliefs       []mind.Belief      `json:"beliefs"`
	Conflicts     []string           `json:"conflicts"`
	OpenQuestions []string           `json:"open_questions"`
	Stream        []string           `json:"stream"`
	LastThought   string             `json:"last_thought"`
	ExternalInput string             `json:"external_input,omitempty"`
	Self          mind.SelfModel     `json:"self"`
	Environment   mind.Environment   `json:"environment"`
	Banner        string             `json:"banner,omitempty"`
	DreamEndsAt   *time.Time         `json:"dream_ends_at,omitempty"`
	DreamJournal  []mind.DreamRecord `json:"dream_journal"`
	Insights      []mind.Insight     `json:"insights"`
	SkippedTicks  int64              `json:"skipped_ticks"`
}

func (s *Server) getState(c *gin.Context) {
	st := s.state.Snapshot()
	v := stateView{
		SessionID:     st.SessionID,
		Tick:          st.TickCount,
		Mode:          st.Mode,
		Pulse:         st.Pulse,
		Topic:         st.Topic,
		TopicLock:     st.TopicLock,
		SubAgent:      st.SubAgent,
		Maturity:      st.Maturity,
		Tension:       st.Tension(),
		Dominant:      st.Emotions.Dominant(),
		Emotions:      st.Emotions,
		Beliefs:       st.Beliefs,
		Conflicts:     st.Conflicts,
		OpenQuestions: st.OpenQuestions,
		Stream:        st.Stream,
		LastThought:   st.LastThought,
		ExternalInput: st.ExternalInput,
		Self:          st.Self,
		Environment:   st.Environment,
		Banner:        st.LastError,
		DreamJournal:  st.DreamJournal,
		Insights:      st.Insights,
	}
	if st.Mode == mind.ModeDream && !st.DreamEndsAt.IsZero() {
		at := st.DreamEndsAt
		v.DreamEndsAt = &at
	}
	if s.skipped != nil {
		v.SkippedTicks = s.skipped()
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) getMemories(c *gin.Context) {
	st := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{"count": len(st.Memory), "memories": st.Memory})
}

func (s *Server) getGraph(c *gin.Context) {
	st := s.state.Snapshot()
	if st.Graph == nil {
		c.JSON(http.StatusOK, gin.H{"nodes": 0, "edges": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nodes": st.Graph.Len(),
		"edges": st.Graph.Edges(),
		"graph": st.Graph.Export(),
	})
}

func (s *Server) getHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive disabled"})
		return
	}
	limit := archive.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.history.History(c.Request.Context(), limit, c.Query("session"))
	if err != nil {
		s.log.Error().Err(err).Msg("history query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if records == nil {
		records = []archive.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}
