package httputil

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAsAppError(t *testing.T) {
	notFound := errors.NewNotFound("patient 4", nil)
	assert.Same(t, notFound, AsAppError(fmt.Errorf("lookup: %w", notFound)))

	cause := stderrors.New("disk on fire")
	internal := AsAppError(cause)
	assert.Equal(t, errors.ErrInternal, internal.Code)
	assert.True(t, stderrors.Is(internal, cause))
}

func TestRespondWithErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, stderrors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	require.Len(t, c.Errors, 1)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal", resp.Error.Kind)
	assert.Equal(t, "internal server error", resp.Error.Message)
}

func TestRespondWithErrorUsesRegistryStatus(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, errors.NewEmptyCollection("emergency queue"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"EmptyCollection"`)
	assert.Contains(t, w.Body.String(), "emergency queue is empty")
}
