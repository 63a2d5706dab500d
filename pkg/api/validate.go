package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldError is one entry of a 422 response.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationResponse struct {
	Detail []fieldError `json:"detail"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody decodes the JSON body into dst and validates it. It writes the
// 422 response itself and reports false when the request is rejected.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: decodeErrors(err)})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: validationErrors(err)})
		return false
	}
	return true
}

func decodeErrors(err error) []fieldError {
	if errors.Is(err, io.EOF) {
		return []fieldError{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg, typ := "Input should be a valid "+typeErr.Type.Kind().String(), "type_error"
		switch typeErr.Type.Kind() {
		case reflect.Float32, reflect.Float64:
			msg, typ = "Input should be a valid number", "float_type"
		case reflect.Int, reflect.Int32, reflect.Int64:
			msg, typ = "Input should be a valid integer", "int_type"
		case reflect.String:
			msg, typ = "Input should be a valid string", "string_type"
		}
		return []fieldError{{Loc: []string{"body", typeErr.Field}, Msg: msg, Type: typ}}
	}
	return []fieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
}

func validationErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		e := fieldError{Loc: []string{"body", fe.Field()}}
		switch fe.Tag() {
		case "required":
			e.Msg, e.Type = "Field required", "missing"
		case "gt":
			e.Msg, e.Type = "Input should be greater than "+fe.Param(), "greater_than"
		case "gte":
			e.Msg, e.Type = "Input should be greater than or equal to "+fe.Param(), "greater_than_equal"
		default:
			e.Msg, e.Type = fe.Error(), "value_error"
		}
		out = append(out, e)
	}
	return out
}

// intParam parses a path or query integer. On failure it writes the 422
// response and reports false.
func intParam(w http.ResponseWriter, where, name, raw string) (int, bool) {
	if raw == "" {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []fieldError{
			{Loc: []string{where, name}, Msg: "Field required", Type: "missing"},
		}})
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []fieldError{
			{Loc: []string{where, name}, Msg: "Input should be a valid integer", Type: "int_parsing"},
		}})
		return 0, false
	}
	return n, true
}
