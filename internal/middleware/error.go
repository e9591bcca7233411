package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-registry/pkg/errors"
	"github.com/jwalitptl/patient-registry/pkg/httputil"
)

// ErrorHandler logs every error attached with c.Error and renders the last
// one when the handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Warn().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("kind", kindOf(e.Err).String()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		abortWithError(c, httputil.AsAppError(c.Errors.Last().Err))
	}
}

func kindOf(err error) errors.ErrorCode {
	if code, ok := errors.CodeOf(err); ok {
		return code
	}
	return errors.ErrInternal
}

// abortWithError stops the chain with the same envelope the handlers use.
func abortWithError(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode(), httputil.NewErrorResponse(appErr))
}
