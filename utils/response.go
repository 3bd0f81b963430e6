package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every API answer uses. Code 0 means success;
// errors use a five digit code whose first three digits are the HTTP status.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes the envelope with the given status.
func Respond(ctx *gin.Context, status, code int, message string, data any) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success answers 200 with data.
func Success(ctx *gin.Context, data any) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created answers 201 with the new resource.
func Created(ctx *gin.Context, data any) {
	Respond(ctx, http.StatusCreated, 0, "created", data)
}

// Error aborts the chain and answers with an error envelope.
func Error(ctx *gin.Context, status, code int, message string) {
	ctx.Abort()
	Respond(ctx, status, code, message, nil)
}
