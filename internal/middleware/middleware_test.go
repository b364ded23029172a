package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/handler"
)

func newTestEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares...)
	return engine
}

func TestTimeoutInstallsDeadline(t *testing.T) {
	engine := newTestEngine(Timeout(TimeoutConfig{Duration: time.Second}))

	var deadlineSet bool
	engine.GET("/", func(c *gin.Context) {
		_, deadlineSet = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, deadlineSet)
}

func TestTimeoutKeepsHandlersOnRequestGoroutine(t *testing.T) {
	// A panic downstream of Timeout must unwind through Recovery's
	// deferred recover, which only holds if the handlers never leave
	// the request goroutine.
	engine := newTestEngine(Recovery(), Timeout(TimeoutConfig{Duration: time.Second}))

	engine.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTimeoutDoesNotWriteAfterHandlerResponse(t *testing.T) {
	// A handler that outlives the deadline still owns the response; the
	// middleware itself never writes.
	engine := newTestEngine(Timeout(TimeoutConfig{Duration: time.Millisecond}))

	engine.GET("/", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.JSON(http.StatusOK, handler.NewSuccessResponse("done"))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryRendersErrorEnvelope(t *testing.T) {
	engine := newTestEngine(RequestID(), Recovery())

	engine.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestRequestIDHonorsCallerSuppliedID(t *testing.T) {
	engine := newTestEngine(RequestID())

	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextRequestID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "upstream-42")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", w.Header().Get(HeaderXRequestID))
}
