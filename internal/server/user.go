package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/store"
)

type valueRequest struct {
	Value string `json:"value" binding:"required"`
}

type progressRequest struct {
	SurahNumber int `json:"surahNumber" binding:"required,min=1,max=114"`
	AyahNumber  int `json:"ayahNumber" binding:"required,min=1"`
}

type zakatRequest struct {
	Assets engine.Assets `json:"assets"`
	Debts  float64       `json:"debts"`
	Nisab  float64       `json:"nisab"`
}

func (s *Server) mountUser(api *gin.RouterGroup) {
	api.POST(config.RouteZakat, s.handleZakat)

	if s.deps.Bookmarks != nil {
		api.GET(config.RouteBookmarks, s.handleBookmarks)
		api.POST(config.RouteBookmarks, s.handleAddBookmark)
		api.DELETE(config.RouteBookmarks, s.handleRemoveBookmark)
		api.GET(config.RouteBookmarkGroups, s.handleBookmarkGroups)
	}
	if s.deps.Prefs != nil {
		api.GET(config.RoutePrefLanguage, s.handleGetLanguage)
		api.PUT(config.RoutePrefLanguage, s.handleSetLanguage)
		api.GET(config.RoutePrefCity, s.handleGetCity)
		api.PUT(config.RoutePrefCity, s.handleSetCity)
	}
	if s.deps.Tasbeeh != nil {
		api.GET(config.RouteTasbeeh, s.handleTasbeeh)
		api.POST(config.RouteTasbeehInc, s.handleTasbeehIncrement)
		api.DELETE(config.RouteTasbeeh, s.handleTasbeehReset)
	}
	if s.deps.Progress != nil {
		api.GET(config.RouteProgress, s.handleGetProgress)
		api.PUT(config.RouteProgress, s.handleSaveProgress)
	}
}

func (s *Server) handleBookmarks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.RespKeyBookmarks: s.deps.Bookmarks.All(c.Request.Context())})
}

func (s *Server) handleAddBookmark(c *gin.Context) {
	var bm store.Bookmark
	if err := c.ShouldBindJSON(&bm); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	if bm.SurahNumber < config.MinSurah || bm.SurahNumber > config.MaxSurah || bm.AyahNumber < 1 {
		badRequest(c, config.ErrBadSurah)
		return
	}
	added, err := s.deps.Bookmarks.Add(c.Request.Context(), bm)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyChanged: added})
}

func (s *Server) handleRemoveBookmark(c *gin.Context) {
	surah, sErr := strconv.Atoi(c.Query(config.QuerySurah))
	ayah, aErr := strconv.Atoi(c.Query(config.QueryAyah))
	if sErr != nil || aErr != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	removed, err := s.deps.Bookmarks.Remove(c.Request.Context(), surah, ayah)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyChanged: removed})
}

func (s *Server) handleBookmarkGroups(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.DefaultQuery(config.QueryBy, config.GroupBySurah) {
	case config.GroupBySurah:
		c.JSON(http.StatusOK, s.deps.Bookmarks.GroupBySurah(ctx))
	case config.GroupByDate:
		c.JSON(http.StatusOK, s.deps.Bookmarks.GroupByDate(ctx))
	default:
		badRequest(c, config.HTTPMsgBadRequest)
	}
}

func (s *Server) handleGetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.RespKeyValue: s.deps.Prefs.Language(c.Request.Context())})
}

func (s *Server) handleSetLanguage(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	if err := s.deps.Prefs.SetLanguage(c.Request.Context(), req.Value); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyValue: req.Value})
}

func (s *Server) handleGetCity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.RespKeyValue: s.deps.Prefs.City(c.Request.Context(), s.deps.DefaultCity)})
}

func (s *Server) handleSetCity(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	loc, err := engine.FindCity(req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.deps.Prefs.SetCity(c.Request.Context(), loc.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyValue: loc.Name})
}

func (s *Server) handleTasbeeh(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{config.RespKeyCount: s.deps.Tasbeeh.Count(c.Request.Context(), c.Param(config.PathDhikr))})
}

func (s *Server) handleTasbeehIncrement(c *gin.Context) {
	n, err := s.deps.Tasbeeh.Increment(c.Request.Context(), c.Param(config.PathDhikr))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyCount: n})
}

func (s *Server) handleTasbeehReset(c *gin.Context) {
	if err := s.deps.Tasbeeh.Reset(c.Request.Context(), c.Param(config.PathDhikr)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyCount: 0})
}

func (s *Server) handleGetProgress(c *gin.Context) {
	p, ok := s.deps.Progress.Load(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{config.RespKeyError: config.HTTPMsgNotFound})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleSaveProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	p, err := s.deps.Progress.Save(c.Request.Context(), req.SurahNumber, req.AyahNumber)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleZakat(c *gin.Context) {
	var req zakatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	res, err := engine.Zakat(req.Assets, req.Debts, req.Nisab)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
