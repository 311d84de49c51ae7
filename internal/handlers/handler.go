package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/services"
)

type errorResponse struct {
	Error          string   `json:"error"`
	MissingFields  []string `json:"missingFields,omitempty"`
	RequiredFields []string `json:"requiredFields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Text is a request field that accepts a JSON string or number. The mobile
// client sends phone numbers either way.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// RequestValidator plugs go-playground/validator into echo and reports
// fields by their JSON names.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// decode binds the JSON body and path params into req and validates it. It
// returns a ready-to-send response when the request is unusable.
func decode(c echo.Context, req any) *errorResponse {
	if err := c.Bind(req); err != nil {
		return &errorResponse{Error: "Corpo da requisição inválido."}
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return &errorResponse{Error: "Dados incompletos!", MissingFields: missing}
		}
		return &errorResponse{Error: "Corpo da requisição inválido."}
	}
	return nil
}

// messages are the client-facing texts for one route's failure outcomes.
type messages struct {
	notFound     string
	unauthorized string
	internal     string
}

// failure maps a service error to an HTTP response. Internal errors are
// logged and reported; the client only sees m.internal.
func failure(c echo.Context, logger *zap.Logger, err error, m messages) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: m.notFound})
	case errors.Is(err, services.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: m.unauthorized})
	case errors.Is(err, services.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "A senha deve ter no máximo 72 bytes."})
	case errors.Is(err, services.ErrInvalidFormat):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Formato de data/hora inválido! Use " + datetime.Hint + "."})
	}

	logger.Error(m.internal,
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: m.internal})
}

func emptyUpdate(c echo.Context, fields []string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Error:          "Nenhum campo para atualizar foi fornecido!",
		RequiredFields: fields,
	})
}
