package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope wraps every successful payload.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp"`
	Path      string      `json:"path"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PaginatedEnvelope is Envelope with pagination metadata.
type PaginatedEnvelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message,omitempty"`
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
}

// JSON writes a raw JSON payload with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes data inside the success envelope.
func Success(c *gin.Context, status int, data interface{}, message string) {
	JSON(c, status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: timestamp(),
		Path:      c.Request.URL.Path,
	})
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data, "")
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message)
}

// NoContent writes an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 page of items.
func Paginated(c *gin.Context, items interface{}, p Pagination) {
	JSON(c, http.StatusOK, PaginatedEnvelope{
		Success:    true,
		Data:       items,
		Pagination: p,
		Timestamp:  timestamp(),
		Path:       c.Request.URL.Path,
	})
}
