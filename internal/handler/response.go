package handler

import "github.com/gin-gonic/gin"

// ApiResponse is the uniform success/error envelope.
type ApiResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ApiPaginatedResponse is the envelope for list endpoints.
type ApiPaginatedResponse struct {
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Page        int    `json:"page"`
	Total       int    `json:"total"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Limit       int    `json:"limit"`
}

func respondSuccess(c *gin.Context, code int, data any, message string) {
	c.JSON(code, ApiResponse{Data: data, Message: message, Status: "success"})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, ApiResponse{Data: nil, Message: message, Status: "error"})
}
