package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
)

type prayerResponse struct {
	Location  engine.Location             `json:"location"`
	Date      engine.DatePair             `json:"date"`
	Timings   map[engine.EventName]string `json:"timings"`
	LocalTime string                      `json:"localTime"`
	Next      engine.Event                `json:"next"`
	Countdown string                      `json:"countdown"`
}

type ramadanResponse struct {
	Location  engine.Location `json:"location"`
	LocalTime string          `json:"localTime"`
	engine.RamadanState
}

// ramadanBoardEntry is a tracked city with its Sehri/Iftar state, once its
// schedule is loaded.
type ramadanBoardEntry struct {
	engine.CityEntry
	Ramadan *engine.RamadanState `json:"ramadan,omitempty"`
}

type cityRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) mountPrayer(api *gin.RouterGroup) {
	api.GET(config.RouteCatalog, func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Catalog)
	})
	if s.deps.Timings != nil {
		api.GET(config.RoutePrayer, s.handlePrayer)
		api.GET(config.RouteRamadan, s.handleRamadan)
	}
	if s.deps.Aggregator != nil {
		api.GET(config.RouteCities, s.handleCities)
		api.POST(config.RouteCities, s.handleAddCity(s.deps.Aggregator))
		api.DELETE(config.RouteCities, s.handleRemoveCity(s.deps.Aggregator))
	}
	if s.deps.RamadanBoard != nil && s.deps.Zones != nil {
		api.GET(config.RouteRamadanCities, s.handleRamadanBoard)
		api.POST(config.RouteRamadanCities, s.handleAddCity(s.deps.RamadanBoard))
		api.DELETE(config.RouteRamadanCities, s.handleRemoveCity(s.deps.RamadanBoard))
	}
	if s.deps.Astronomy != nil {
		api.GET(config.RouteQibla, s.handleQibla)
		api.GET(config.RouteHijri, s.handleHijri)
	}
}

// resolveCity reads ?city=, falling back to the stored preference and then
// to the configured default.
func (s *Server) resolveCity(c *gin.Context) (engine.Location, error) {
	name := c.Query(config.QueryCity)
	if name == "" {
		name = s.deps.DefaultCity
		if s.deps.Prefs != nil {
			name = s.deps.Prefs.City(c.Request.Context(), name)
		}
	}
	return engine.FindCity(name)
}

func (s *Server) fetchToday(c *gin.Context) (*engine.DailySchedule, engine.TimeOfDay, bool) {
	loc, err := s.resolveCity(c)
	if err != nil {
		fail(c, err)
		return nil, engine.TimeOfDay{}, false
	}
	date := s.deps.Zones.NowIn(loc.Timezone)
	sched, err := s.deps.Timings.FetchDay(c.Request.Context(), loc, date)
	if err != nil {
		fail(c, err)
		return nil, engine.TimeOfDay{}, false
	}
	return sched, engine.TimeOfDayOf(date), true
}

func (s *Server) handlePrayer(c *gin.Context) {
	sched, now, ok := s.fetchToday(c)
	if !ok {
		return
	}
	next := engine.NextEvent(sched, now)
	c.JSON(http.StatusOK, prayerResponse{
		Location:  sched.Location,
		Date:      sched.Date,
		Timings:   sched.Timings(),
		LocalTime: now.String(),
		Next:      next,
		Countdown: engine.CountdownTo(next.Name, next.At, now).String(),
	})
}

func (s *Server) handleRamadan(c *gin.Context) {
	sched, now, ok := s.fetchToday(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ramadanResponse{
		Location:     sched.Location,
		LocalTime:    now.String(),
		RamadanState: s.deps.Ramadan.ResolveSchedule(sched, now),
	})
}

func (s *Server) handleCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.RespKeyCities: s.deps.Aggregator.Entries()})
}

func (s *Server) handleRamadanBoard(c *gin.Context) {
	now := s.deps.Zones.Clock.Now()
	entries := s.deps.RamadanBoard.Entries()
	out := make([]ramadanBoardEntry, len(entries))
	for i, e := range entries {
		out[i].CityEntry = e
		if e.Schedule != nil {
			state := s.deps.Ramadan.ResolveSchedule(e.Schedule, s.deps.Zones.At(e.Location.Timezone, now))
			out[i].Ramadan = &state
		}
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyCities: out})
}

// handleAddCity adds the posted city to agg. Capacity no-ops answer 200
// with changed=false.
func (s *Server) handleAddCity(agg *engine.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, config.HTTPMsgBadRequest)
			return
		}
		loc, err := engine.FindCity(req.Name)
		if err != nil {
			fail(c, err)
			return
		}
		changed := agg.Add(loc)
		if changed {
			agg.RefreshCity(c.Request.Context(), loc.Name)
		}
		c.JSON(http.StatusOK, gin.H{
			config.RespKeyChanged: changed,
			config.RespKeyCities:  agg.Entries(),
		})
	}
}

func (s *Server) handleRemoveCity(agg *engine.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query(config.QueryCity)
		if name == "" {
			badRequest(c, config.HTTPMsgBadRequest)
			return
		}
		if loc, err := engine.FindCity(name); err == nil {
			name = loc.Name
		}
		changed := agg.Remove(name)
		c.JSON(http.StatusOK, gin.H{
			config.RespKeyChanged: changed,
			config.RespKeyCities:  agg.Entries(),
		})
	}
}
