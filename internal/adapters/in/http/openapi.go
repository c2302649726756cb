package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawSpec []byte

var registerDocOnce sync.Once

// LoadSpec parses and validates the embedded API description.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return doc, nil
}

type swaggerDoc struct {
	body string
}

func (d swaggerDoc) ReadDoc() string {
	return d.body
}

// registerSwaggerDoc publishes doc to the swagger UI. swag panics on duplicate
// names, so only the first call registers.
func registerSwaggerDoc(doc *openapi3.T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{body: string(body)})
	})
	return nil
}

// requestValidator checks every request routed to an operation of doc. Echo
// has already matched the route, so the operation is looked up by the route
// template instead of matching the URL a second time. Authentication is left
// to the JWT middleware.
func requestValidator(doc *openapi3.T) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route, ok := findRoute(doc, c)
			if !ok {
				return next(c)
			}

			pathParams := make(map[string]string, len(c.ParamNames()))
			for i, name := range c.ParamNames() {
				pathParams[name] = c.ParamValues()[i]
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(c.Request().Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}

			return next(c)
		}
	}
}

func findRoute(doc *openapi3.T, c echo.Context) (*routers.Route, bool) {
	path := openAPIPath(c.Path())
	item := doc.Paths.Find(path)
	if item == nil {
		return nil, false
	}
	method := c.Request().Method
	op := item.GetOperation(method)
	if op == nil {
		return nil, false
	}
	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}, true
}

// openAPIPath turns /packages/:packageId into /packages/{packageId}.
func openAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return err.Error()
	}

	msg := reqErr.Reason
	if reqErr.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += reqErr.Err.Error()
	}

	switch {
	case reqErr.Parameter != nil:
		return "parameter " + reqErr.Parameter.Name + ": " + msg
	case reqErr.RequestBody != nil:
		return "request body: " + msg
	default:
		return msg
	}
}
