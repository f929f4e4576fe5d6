package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/auth"
	"github.com/Dan9191/bank-cards/internal/models"
)

const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "len":
		return "Value must be " + fe.Param() + " characters long"
	case "numeric":
		return "Value must contain digits only"
	case "oneof":
		return "Value must be one of " + fe.Param()
	default:
		return "Invalid value"
	}
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Wrap(err, apperror.KindValidation, "Malformed request body: "+err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperror.Wrap(err, apperror.KindValidation, "Invalid request")
		}
		appErr := apperror.New(apperror.KindValidation, "Validation failed")
		for _, fe := range verrs {
			appErr.With(fe.Field(), validationMessage(fe))
		}
		return appErr
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindValidation, fmt.Sprintf("Invalid %s: %q", name, raw)).
			With(name, "must be a UUID")
	}
	return id, nil
}

// pageFrom reads ?page=&size= with defaults.
func pageFrom(r *http.Request) (models.Page, error) {
	page := models.Page{Number: 0, Size: models.DefaultPageSize}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxPageNumber {
			return page, apperror.New(apperror.KindValidation, "Invalid page").
				With("page", fmt.Sprintf("must be an integer between 0 and %d", models.MaxPageNumber))
		}
		page.Number = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return page, apperror.New(apperror.KindValidation, "Invalid size").With("size", "must be a positive integer")
		}
		page.Size = n
	}
	return page.Normalize(), nil
}

func principal(r *http.Request) (*auth.Principal, error) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return nil, apperror.New(apperror.KindUnauthenticated, "Authentication required")
	}
	return p, nil
}
