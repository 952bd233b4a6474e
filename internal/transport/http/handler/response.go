package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Data     any      `json:"data"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode"`
}

// respond writes data wrapped with request metadata.
func respond(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, envelope{
		Data: data,
		Metadata: metadata{
			Timestamp:  time.Now().UTC(),
			Path:       ctx.Request.URL.Path,
			StatusCode: status,
		},
	})
}
