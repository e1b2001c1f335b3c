package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"installations-bknd/internal/geometry"
	"installations-bknd/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 4 << 20

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.SubmitResponse{Success: false, Error: msg})
}

// writeValidationError reports a broken geometry rule with its rule name and
// row.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *geometry.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, models.SubmitResponse{
			Success: false,
			Error:   verr.Error(),
			Rule:    string(verr.Rule),
			Row:     verr.Row,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// decodeBody reads a JSON body into dst and runs struct validation.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// parseCSVFloat parses "w,s,e,n" style lists. Any bad item fails the list.
func parseCSVFloat(input string) ([]float64, error) {
	if input == "" {
		return nil, nil
	}
	parts := strings.Split(input, ",")
	result := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		result = append(result, f)
	}
	return result, nil
}
