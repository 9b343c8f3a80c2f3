package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope:
// {success, data?, error?, message?}; the status code carries the error kind.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func RespondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func RespondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func RespondMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func RespondDataMessage(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Envelope{Success: false, Error: message})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}
