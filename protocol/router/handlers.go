package router

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gptankit/minihttpd/errorlog"
	"github.com/gptankit/minihttpd/model"
)

const (
	CONTENT_TYPE_TEXT   = "text/plain"
	CONTENT_TYPE_BINARY = "application/octet-stream"
)

func root() model.Response {

	return model.EmptyResponse(model.STATUS_OK)
}

func notFound() model.Response {

	return model.EmptyResponse(model.STATUS_NOT_FOUND)
}

func badRequest() model.Response {

	return model.EmptyResponse(model.STATUS_BAD_REQUEST)
}

// echo returns the path remainder as a text body.
func echo(msg string) model.Response {

	return withBody(CONTENT_TYPE_TEXT, []byte(msg))
}

// userAgent echoes the User-Agent header. A request without one is
// malformed for this route.
func userAgent(headers model.Header) model.Response {

	ua, ok := headers.Get("User-Agent")
	if !ok {
		return badRequest()
	}

	return withBody(CONTENT_TYPE_TEXT, []byte(ua))
}

// staticFile reads filename from under baseDir. Anything that cannot be
// read, or that resolves outside baseDir, is a 404.
func staticFile(baseDir string, filename string) model.Response {

	fullPath, ok := resolve(baseDir, filename)
	if !ok {
		return notFound()
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		errorlog.Logger().WithField("file", fullPath).Debug(err)
		return notFound()
	}

	return withBody(CONTENT_TYPE_BINARY, content)
}

// resolve maps a request filename onto a path inside baseDir. Symlinks are
// resolved before the containment check, so a link pointing out of baseDir
// is refused.
func resolve(baseDir string, filename string) (string, bool) {

	if baseDir == "" || filename == "" {
		return "", false
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}

	cleaned := path.Clean("/" + filename)
	if cleaned == "/" {
		return "", false
	}
	full := filepath.Join(base, filepath.FromSlash(cleaned))
	if !within(base, full) {
		return "", false
	}

	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", false
	}
	realFull, err := filepath.EvalSymlinks(full)
	if err != nil || !within(realBase, realFull) {
		return "", false
	}

	return realFull, true
}

// within reports whether target lies strictly below base.
func within(base string, target string) bool {

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	return true
}

func withBody(contentType string, body []byte) model.Response {

	var headers model.Header
	headers.Add("Content-Type", contentType)
	headers.Add("Content-Length", strconv.Itoa(len(body)))

	return model.Response{
		Status:  model.STATUS_OK,
		Headers: headers,
		Body:    body,
	}
}
