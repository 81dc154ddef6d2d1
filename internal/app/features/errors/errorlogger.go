// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"
	"strings"

	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes a friendly
// error response: an error page for browsers, plain text otherwise.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// pageData is the view model for the error page.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
	BackURL string
}

// LogServerError logs at error level and responds 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, append(requestFields(r), zap.Error(err))...)
	e.respond(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and responds 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, append(requestFields(r), zap.Error(err))...)
	e.respond(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogForbidden logs at warn level and responds 403.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, append(requestFields(r), zap.Error(err))...)
	e.respond(w, r, http.StatusForbidden, "Access denied", userMsg, backURL)
}

// NotFound renders the 404 page. Mounted as the router's NotFound handler.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request) {
	e.respond(w, r, http.StatusNotFound, "Not found", "We couldn't find that page.", "/")
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	if userMsg == "" {
		userMsg = http.StatusText(status)
	}
	if backURL == "" {
		backURL = "/"
	}
	if !wantsHTML(r) {
		http.Error(w, userMsg, status)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title),
		Status:  status,
		Message: userMsg,
		BackURL: backURL,
	})
}

func requestFields(r *http.Request) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
