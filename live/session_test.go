package live

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexedwards/scs/v2"
	"github.com/ryanhamamura/elegant/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteSessionManager(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS sessions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	sm, err := NewSQLiteSessionManager(db, 2*time.Hour, 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, sm.Lifetime)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteSessionManager_TableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS sessions")).
		WillReturnError(errors.New("disk I/O error"))

	sm, err := NewSQLiteSessionManager(db, 0, 0)
	assert.Nil(t, sm)
	assert.ErrorContains(t, err, "create sessions table")
}

func TestSessionWithoutManagerIsNoop(t *testing.T) {
	c := newContext("no-sess", "/", New())
	s := c.Session()

	s.Set("contact_name", "Jane")
	assert.Nil(t, s.Get("contact_name"))
	assert.Empty(t, s.GetString("contact_name"))
	assert.False(t, s.Exists("contact_name"))
	assert.Empty(t, s.PopString("contact_name"))
	assert.Empty(t, s.ID())
}

func TestSessionRoundTripAcrossActions(t *testing.T) {
	var (
		store   *Signal
		greet   string
		save    *ActionTrigger
		readOut *ActionTrigger
	)
	a := New()
	a.Config(Options{SessionManager: scs.New()})
	a.Page("/", func(c *Context) {
		store = c.Signal("")
		save = c.Action(func() { c.Session().Set("contact_name", store.String()) })
		readOut = c.Action(func() { greet = c.Session().GetString("contact_name") })
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")

	handler := a.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, actionRequest(t, c, save.ID(), map[string]any{store.ID(): "Jane"}))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := actionRequest(t, c, readOut.ID(), nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Jane", greet)
}
