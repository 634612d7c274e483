// Package server exposes the HTTP API and the ICS calendar feed.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/noorweb/noorweb/internal/auth"
	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/metrics"
	"github.com/noorweb/noorweb/internal/provider"
	"github.com/noorweb/noorweb/internal/store"
)

// QuranSource serves scripture text.
type QuranSource interface {
	Surah(ctx context.Context, number int, edition string) (*provider.Surah, error)
	AyahAudio(ctx context.Context, surah, ayah int, reciter string) (string, error)
	Search(ctx context.Context, text, edition string) (provider.SearchResult, error)
}

// HadithSource serves hadith collections.
type HadithSource interface {
	Section(ctx context.Context, book string, section int) ([]provider.HadithEntry, error)
}

// AstronomySource serves Qibla bearings and Hijri calendars.
type AstronomySource interface {
	Qibla(ctx context.Context, lat, lon float64) (float64, error)
	HijriCalendar(ctx context.Context, year int, month time.Month, adjustment int) ([]engine.DatePair, error)
}

// Deps are the services the API is built on. Nil services disable their
// routes with 404.
type Deps struct {
	Zones      *engine.ZoneClock
	Timings    engine.TimingsFetcher
	Aggregator *engine.Aggregator
	Ramadan    engine.RamadanPolicy
	Policy     engine.CalculationPolicy

	// RamadanBoard tracks the Sehri/Iftar board. It keeps at least one city.
	RamadanBoard *engine.Aggregator

	// DefaultCity answers requests that name no city and have no stored
	// preference.
	DefaultCity string

	Bookmarks *store.Bookmarks
	Prefs     *store.UserPrefs
	Tasbeeh   *store.Tasbeeh
	Progress  *store.ReadingProgress
	Auth      *auth.Service

	Quran     QuranSource
	Hadith    HadithSource
	Astronomy AstronomySource

	Registry    *prometheus.Registry
	CORSOrigins []string
}

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// Server handles the JSON API and the generated ICS file.
type Server struct {
	// cache is read on every calendar request and replaced only on refresh.
	cache atomic.Pointer[cacheItem]

	BindAddr string
	Port     string

	deps   Deps
	router *gin.Engine
}

// New builds the server and its routes.
func New(bindAddr, port string, deps Deps) *Server {
	if bindAddr == "" {
		bindAddr = config.LocalhostBindAddr
	}
	if deps.Zones == nil {
		deps.Zones = engine.NewZoneClock(engine.RealClock{})
	}
	if deps.Ramadan.Window <= 0 {
		deps.Ramadan = engine.DefaultRamadanPolicy()
	}
	if deps.DefaultCity == "" {
		deps.DefaultCity = config.DefaultCityName
	}
	s := &Server{BindAddr: bindAddr, Port: port, deps: deps}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())

	origins := s.deps.CORSOrigins
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowHeaders:  []string{"Origin", config.HeaderContentType, config.HeaderAuth, config.HeaderIfNoneMatch},
		ExposeHeaders: []string{config.HeaderETag, config.HeaderRequest},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	r.Any(config.RouteCalendar, gin.WrapF(s.handleCalendarRequest))
	r.GET(config.RouteHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{config.RespKeyStatus: config.StatusOK})
	})
	if s.deps.Registry != nil {
		r.GET(config.RouteMetrics, gin.WrapH(metrics.Handler(s.deps.Registry)))
	}

	api := r.Group(config.RouteAPI)
	s.mountPrayer(api)
	s.mountLibrary(api)
	s.mountUser(api)
	s.mountAuth(api)
	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.BindAddr + config.AddrSeparator + s.Port,
		Handler:      s.router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served calendar.
func (s *Server) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *Server) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
