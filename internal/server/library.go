package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noorweb/noorweb/internal/config"
)

func (s *Server) mountLibrary(api *gin.RouterGroup) {
	if s.deps.Quran != nil {
		api.GET(config.RouteQuran, s.handleSurah)
		api.GET(config.RouteAyahAudio, s.handleAyahAudio)
		api.GET(config.RouteQuranFind, s.handleQuranSearch)
	}
	if s.deps.Hadith != nil {
		api.GET(config.RouteHadith, s.handleHadith)
	}
}

func (s *Server) handleSurah(c *gin.Context) {
	n, err := strconv.Atoi(c.Param(config.PathSurah))
	if err != nil {
		badRequest(c, config.ErrBadSurah)
		return
	}
	surah, err := s.deps.Quran.Surah(c.Request.Context(), n, c.Query(config.QueryEdition))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, surah)
}

func (s *Server) handleAyahAudio(c *gin.Context) {
	surah, sErr := strconv.Atoi(c.Param(config.PathSurah))
	ayah, aErr := strconv.Atoi(c.Param(config.PathAyah))
	if sErr != nil || aErr != nil || ayah < 1 {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	url, err := s.deps.Quran.AyahAudio(c.Request.Context(), surah, ayah, c.Query(config.QueryReciter))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyURL: url})
}

func (s *Server) handleQuranSearch(c *gin.Context) {
	res, err := s.deps.Quran.Search(c.Request.Context(), c.Query(config.QueryText), c.Query(config.QueryEdition))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleHadith(c *gin.Context) {
	section, err := strconv.Atoi(c.Param(config.PathSection))
	if err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	entries, err := s.deps.Hadith.Section(c.Request.Context(), c.Param(config.PathBook), section)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
