package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OK sends a 200 JSON response with message and data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Status: true, Message: message, Data: data})
}

// Created sends a 201 JSON response with message and data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Status: true, Message: message, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Status: false, Message: message})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Status: false, Message: message})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Body{Status: false, Message: message})
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Status: false, Message: message})
}

// Unprocessable sends 422 with optional data (e.g. a fallback playback hint).
func Unprocessable(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusUnprocessableEntity, Body{Status: false, Message: message, Data: data})
}

// Internal sends 500.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Body{Status: false, Message: message})
}
