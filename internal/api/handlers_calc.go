package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
	"github.com/Gal0-avrd/LongD-Arc/internal/stats"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// flexString accepts a JSON string or a JSON number, keeping the literal text
// so bounds such as 0.1 reach the engine unrounded.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*s = flexString(n)
	return nil
}

type calculateRequest struct {
	Funcion string     `json:"funcion" validate:"required,max=512"`
	LimiteA flexString `json:"limite_a" validate:"required"`
	LimiteB flexString `json:"limite_b" validate:"required"`
}

type calculateResponse struct {
	Success             bool                   `json:"success"`
	Resultado           string                 `json:"resultado"`
	ResultadoExacto     string                 `json:"resultado_exacto"`
	Pasos               []string               `json:"pasos"`
	Grafico             []arclength.GraphPoint `json:"grafico"`
	GraficoCurva        []arclength.GraphPoint `json:"grafico_curva"`
	FuncionLatexDisplay string                 `json:"funcion_latex_display"`
	Variable            string                 `json:"variable"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	req, err := decodeCalculateRequest(r.Body)
	if err != nil {
		s.fail(w, r, err, start)
		return
	}

	res, err := s.calc.Compute(r.Context(), arclength.Request{
		Function:   req.Funcion,
		LowerBound: string(req.LimiteA),
		UpperBound: string(req.LimiteB),
	})
	if err != nil {
		s.fail(w, r, err, start)
		return
	}

	s.record(stats.OK, time.Since(start))
	writeJSON(w, http.StatusOK, calculateResponse{
		Success:             true,
		Resultado:           strconv.FormatFloat(res.Numeric, 'g', -1, 64),
		ResultadoExacto:     res.Exact,
		Pasos:               res.Steps,
		Grafico:             nonNil(res.Area),
		GraficoCurva:        nonNil(res.Curve),
		FuncionLatexDisplay: res.Display,
		Variable:            res.Variable,
	})
}

func decodeCalculateRequest(body io.Reader) (calculateRequest, error) {
	var req calculateRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, arclength.WrapError(arclength.KindInvalidInput, err,
				"la solicitud excede el límite de %d bytes", tooLarge.Limit)
		}
		return req, arclength.WrapError(arclength.KindInvalidInput, err, "el cuerpo de la solicitud no es un JSON válido")
	}
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return req, arclength.WrapError(arclength.KindInvalidInput, err, "%s", fieldMessage(fieldErrs[0]))
		}
		return req, arclength.WrapError(arclength.KindInvalidInput, err, "solicitud inválida")
	}
	return req, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("falta el campo %q", fe.Field())
	case "max":
		return fmt.Sprintf("el campo %q admite como máximo %s caracteres", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("el campo %q no es válido", fe.Field())
}

// fail writes the error body and records the outcome. Only *arclength.Error
// messages reach the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	kind := arclength.KindOf(err)
	outcome := string(kind)
	if outcome == "" {
		outcome = "INTERNAL"
	}
	s.record(outcome, time.Since(start))

	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.log.Error("computation failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("kind", outcome),
			zap.Error(err),
		)
	} else {
		s.log.Debug("computation rejected",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("kind", outcome),
			zap.Error(err),
		)
	}

	msg := arclength.UserMessage(err)
	if kind == "" {
		msg = "Error en el cálculo: error interno del servidor"
	}
	jsonError(w, msg, status)
}

func (s *Server) record(outcome string, d time.Duration) {
	s.stats.Record(d, outcome)
	s.metrics.ObserveComputation(outcome, d)
}

func statusFor(kind arclength.Kind) int {
	switch kind {
	case arclength.KindInvalidInput:
		return http.StatusBadRequest
	case arclength.KindComputationTimeout:
		return http.StatusGatewayTimeout
	case arclength.KindAmbiguousVariable, arclength.KindSymbolicComputation,
		arclength.KindDivergentIntegral, arclength.KindSamplingUnavailable:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func nonNil(points []arclength.GraphPoint) []arclength.GraphPoint {
	if points == nil {
		return []arclength.GraphPoint{}
	}
	return points
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, errorResponse{Success: false, Error: msg})
}
