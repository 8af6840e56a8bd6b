package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/project-showcase-backend/errs"
)

// defaultMaxBodyBytes bounds request bodies when MAX_BODY_BYTES is unset
const defaultMaxBodyBytes = 1 << 20

// createProjectRequest is the accepted shape of POST /api/project
type createProjectRequest struct {
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description" validate:"required"`
	GithubRepository string    `json:"githubRepository" validate:"required"`
	Tags             []*string `json:"tags" validate:"required,dive,notnull"`
	CoverImg         string    `json:"coverImg" validate:"required"`
	AuthorID         string    `json:"authorId" validate:"required,uuidtext"`
}

// tagList flattens the validated tags; every element is non-nil by then
func (req createProjectRequest) tagList() []string {
	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tags = append(tags, *tag)
	}
	return tags
}

// bodyValidator decodes JSON request bodies and checks them against the
// `validate` tags of the target struct. Field names in errors are the JSON names.
type bodyValidator struct {
	validate *validator.Validate
	maxBytes int64
}

func newBodyValidator(maxBytes int64) bodyValidator {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// a nil element fails any tag before its func runs, so notnull only has to pass the rest
	mustRegister(validate, "notnull", func(fl validator.FieldLevel) bool { return true })
	// the builtin uuid tag only accepts lowercase hex
	mustRegister(validate, "uuidtext", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})

	return bodyValidator{validate: validate, maxBytes: maxBytes}
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// decode fills dst from the request body. It returns nil when the body is
// valid, otherwise the field errors found.
func (v bodyValidator) decode(w http.ResponseWriter, r *http.Request, dst any) *errs.ValidationError {
	verr := errs.NewValidationError()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, v.maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			verr.Add("body", fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		} else {
			verr.Add("body", "request body could not be read")
		}
		return verr
	}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				verr.Add("body", "request body must be valid JSON")
				return verr
			}
			if typeErr.Field == "" {
				verr.Add("body", "request body must be a JSON object")
				return verr
			}
			verr.Add(typeErr.Field, fmt.Sprintf("%s has an invalid type (expected %s, got %s)", typeErr.Field, typeErr.Type, typeErr.Value))
		}
	}

	if err := v.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Add("body", "request body could not be validated")
			return verr
		}
		for _, fe := range fieldErrs {
			verr.Add(fieldKey(fe), fieldMessage(fe))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// fieldKey drops the element index validator appends inside slices, so
// "tags[1]" is reported under "tags"
func fieldKey(fe validator.FieldError) string {
	name, _, _ := strings.Cut(fe.Field(), "[")
	return name
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldKey(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notnull":
		return fmt.Sprintf("%s must only contain strings", field)
	case "uuidtext":
		return fmt.Sprintf("%s must be a valid UUID", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
