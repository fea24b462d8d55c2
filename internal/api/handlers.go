package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchwatch/merchwatch/internal/database"
	"github.com/merchwatch/merchwatch/internal/domain"
)

// handleHealth reports service and backing-store liveness.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.pinger.PingContext(c.Request.Context()); err != nil {
		s.log.WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListRecords serves filtered record listings. A failing store query
// degrades to an empty list so dashboards keep rendering.
func (s *Server) handleListRecords(c *gin.Context) {
	filter, err := recordFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := s.records.List(c.Request.Context(), filter)
	if err != nil {
		s.log.WithError(err).Error("record listing failed")
		records = []domain.InformationRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// handleRecentRestocks serves the most recent restock events.
func (s *Server) handleRecentRestocks(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := s.restocks.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("restock listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(events),
		"restocks": events,
	})
}

// recordFilterFromQuery translates query parameters into a store filter.
func recordFilterFromQuery(c *gin.Context) (database.RecordFilter, error) {
	filter := database.RecordFilter{
		Search: c.Query("q"),
	}

	if raw := c.Query("category"); raw != "" {
		category := domain.Category(raw)
		if !category.Valid() {
			return filter, &queryError{param: "category", value: raw}
		}
		filter.Category = category
	}

	if raw := c.Query("sources"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			source := domain.Source(strings.TrimSpace(part))
			if !source.Valid() {
				return filter, &queryError{param: "sources", value: part}
			}
			filter.Sources = append(filter.Sources, source)
		}
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return filter, &queryError{param: "status", value: raw}
		}
		filter.Status = status
	}

	hours, err := intQuery(c, "hours", 0)
	if err != nil {
		return filter, err
	}
	if hours > 0 {
		since := time.Now().In(domain.JST).Add(-time.Duration(hours) * time.Hour)
		filter.Since = &since
	}

	if raw := c.Query("has_images"); raw != "" {
		hasImages, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return filter, &queryError{param: "has_images", value: raw}
		}
		filter.HasImages = hasImages
	}

	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit

	return filter, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *gin.Context, param string, fallback int) (int, error) {
	raw := c.Query(param)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, &queryError{param: param, value: raw}
	}
	return value, nil
}

type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for parameter " + e.param
}
