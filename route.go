package grademywork

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Params holds the values substituted into a route's placeholders.
type Params map[string]string

// Route is an endpoint of the service: an HTTP method plus a path template
// whose ":name" placeholders are declared up front.
type Route struct {
	Method   string
	Template string
	params   []string
}

var placeholderPattern = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9]*)`)

// newRoute panics if the placeholders found in template differ from the
// declared ones, so a bad route fails at package initialization.
func newRoute(method, template string, params ...string) Route {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		if declared[p] {
			panic(fmt.Sprintf("grademywork: route %s %s declares %q twice", method, template, p))
		}
		declared[p] = true
	}

	found := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		found[m[1]] = true
	}

	for name := range found {
		if !declared[name] {
			panic(fmt.Sprintf("grademywork: route %s %s uses undeclared placeholder %q", method, template, name))
		}
	}
	for name := range declared {
		if !found[name] {
			panic(fmt.Sprintf("grademywork: route %s %s declares %q but never uses it", method, template, name))
		}
	}

	sorted := append([]string(nil), params...)
	sort.Strings(sorted)

	return Route{Method: method, Template: template, params: sorted}
}

// Placeholders returns the declared placeholder names in sorted order.
func (r Route) Placeholders() []string {
	return append([]string(nil), r.params...)
}

// Path substitutes every occurrence of every placeholder with its
// path-escaped value. All declared placeholders must be given and no others.
func (r Route) Path(values Params) (string, error) {
	for _, name := range r.params {
		if _, ok := values[name]; !ok {
			return "", &ClientError{
				Type:    ErrorTypeRoute,
				Message: fmt.Sprintf("%s %s: parameter %q", r.Method, r.Template, name),
				Cause:   ErrMissingParam,
			}
		}
	}
	if len(values) != len(r.params) {
		for name := range values {
			if !r.declares(name) {
				return "", &ClientError{
					Type:    ErrorTypeRoute,
					Message: fmt.Sprintf("%s %s: parameter %q", r.Method, r.Template, name),
					Cause:   ErrUnknownParam,
				}
			}
		}
	}

	return placeholderPattern.ReplaceAllStringFunc(r.Template, func(match string) string {
		return url.PathEscape(values[strings.TrimPrefix(match, ":")])
	}), nil
}

func (r Route) declares(name string) bool {
	i := sort.SearchStrings(r.params, name)
	return i < len(r.params) && r.params[i] == name
}

const (
	assessmentPath = "/api/users/:username/assessments/:assessmentCaption/"
	sheetsPath     = assessmentPath + "sheets/"
	sheetPath      = sheetsPath + ":sheet/"
	privilegesPath = sheetsPath + ":sheet/privileges"
)

// Endpoints of the service.
var (
	routeRegister       = newRoute(http.MethodPost, "/api/register")
	routeReset          = newRoute(http.MethodPost, "/api/reset")
	routeChangePassword = newRoute(http.MethodPatch, "/api/users/:username/profile/password/", "username")
	routeVerify         = newRoute(http.MethodPost, "/api/verify")
	routeLogin          = newRoute(http.MethodPost, "/api/login")
	routeLogout         = newRoute(http.MethodGet, "/api/logout")
	routeGetUser        = newRoute(http.MethodGet, "/api/")

	routeNewAssessment    = newRoute(http.MethodPut, "/api/users/:username/assessments/:caption/", "username", "caption")
	routeGetAssessment    = newRoute(http.MethodGet, assessmentPath, "username", "assessmentCaption")
	routeUpdateAssessment = newRoute(http.MethodPatch, assessmentPath, "username", "assessmentCaption")
	routeAssessmentStats  = newRoute(http.MethodGet, assessmentPath+"stats/", "username", "assessmentCaption")
	routeDeleteAssessment = newRoute(http.MethodDelete, assessmentPath, "username", "assessmentCaption")
	routeSetPublic        = newRoute(http.MethodPatch, assessmentPath+"settings/public", "username", "assessmentCaption")
	routeSetArchive       = newRoute(http.MethodPatch, assessmentPath+"settings/archive", "username", "assessmentCaption")
	routeSetRelease       = newRoute(http.MethodPatch, assessmentPath+"settings/release", "username", "assessmentCaption")
	routeSetAnswer        = newRoute(http.MethodPost, sheetPath+"questions/:question/", "username", "assessmentCaption", "sheet", "question")
	routeGetSheet         = newRoute(http.MethodGet, sheetPath, "username", "assessmentCaption", "sheet")
	routeAddSheet         = newRoute(http.MethodPost, sheetsPath, "username", "assessmentCaption")
	routeUpdateSheet      = newRoute(http.MethodPatch, sheetPath, "username", "assessmentCaption", "sheet")
	routeDeleteSheet      = newRoute(http.MethodDelete, sheetPath, "username", "assessmentCaption", "sheet")
	routeGetPrivileges    = newRoute(http.MethodGet, privilegesPath, "username", "assessmentCaption", "sheet")
	routeAddPrivilege     = newRoute(http.MethodPut, privilegesPath, "username", "assessmentCaption", "sheet")
	routeDeletePrivilege  = newRoute(http.MethodDelete, privilegesPath, "username", "assessmentCaption", "sheet")
)
