package wizard

import (
	"fmt"
	"html"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jonathan/resume-builder/internal/types"
)

// MaxTitleLength bounds the free-text draft title.
const MaxTitleLength = 120

// FieldError describes one invalid field of a patch.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FieldErrors is returned by ValidatePatch when any field is invalid.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	markup       = bluemonday.StrictPolicy()
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			d, ok := field.Interface().(types.Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.Time
		}, types.Date{})
		_ = v.RegisterValidation("safe_text", func(fl validator.FieldLevel) bool {
			return IsPlainText(fl.Field().String())
		})
		v.RegisterStructValidation(workExperienceDates, types.WorkExperience{})
		v.RegisterStructValidation(educationDates, types.Education{})
		validate = v
	})
	return validate
}

// IsPlainText reports whether s carries no HTML markup. Line endings are
// compared in their normalised form and a literal '&' never counts as markup,
// so "&amp;" typed by a user passes. Anything the tokenizer reads as a tag,
// such as "<canvas>", is markup and fails.
func IsPlainText(s string) bool {
	s = NormalizeNewlines(s)
	escaped := strings.ReplaceAll(s, "&", "&amp;")
	return html.UnescapeString(markup.Sanitize(escaped)) == s
}

// NormalizeNewlines rewrites CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// NormalizePatch applies NormalizeNewlines to every text field of p in place.
func NormalizePatch(p *types.FormDataPatch) {
	normalizeText(reflect.ValueOf(p).Elem())
}

func normalizeText(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			normalizeText(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				normalizeText(v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			normalizeText(v.Index(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(NormalizeNewlines(v.String()))
		}
	}
}

func workExperienceDates(sl validator.StructLevel) {
	we := sl.Current().Interface().(types.WorkExperience)
	if we.EndDate != nil && !we.EndDate.IsZero() && !we.StartDate.IsZero() && we.EndDate.Before(we.StartDate.Time) {
		sl.ReportError(we.EndDate, "end_date", "EndDate", "end_after_start", "")
	}
}

func educationDates(sl validator.StructLevel) {
	ed := sl.Current().Interface().(types.Education)
	if ed.EndDate != nil && !ed.EndDate.IsZero() && !ed.StartDate.IsZero() && ed.EndDate.Before(ed.StartDate.Time) {
		sl.ReportError(ed.EndDate, "end_date", "EndDate", "end_after_start", "")
	}
}

// ValidatePatch runs the field-level checks on every category present in p.
// It returns FieldErrors naming each offending field, or nil.
func ValidatePatch(p types.FormDataPatch) error {
	v := fieldValidator()
	var errs FieldErrors

	if p.Title != nil {
		if len(*p.Title) > MaxTitleLength {
			errs = append(errs, FieldError{Field: "title", Tag: "max", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)})
		} else if !IsPlainText(*p.Title) {
			errs = append(errs, FieldError{Field: "title", Tag: "safe_text", Message: messageFor("safe_text", "")})
		}
	}
	if p.PersonalInfo != nil {
		errs = append(errs, collect(v, string(CategoryPersonalInfo), p.PersonalInfo)...)
	}
	if p.ProfessionalSummary != nil {
		errs = append(errs, collect(v, string(CategoryProfessionalSummary), p.ProfessionalSummary)...)
	}
	if p.WorkExperiences != nil {
		errs = append(errs, collectEach(v, CategoryWorkExperience, *p.WorkExperiences)...)
	}
	if p.Educations != nil {
		errs = append(errs, collectEach(v, CategoryEducation, *p.Educations)...)
	}
	if p.Skills != nil {
		errs = append(errs, collectEach(v, CategorySkills, *p.Skills)...)
	}
	if p.Languages != nil {
		errs = append(errs, collectEach(v, CategoryLanguages, *p.Languages)...)
	}
	if p.Projects != nil {
		errs = append(errs, collectEach(v, CategoryProjects, *p.Projects)...)
	}
	if p.Certifications != nil {
		errs = append(errs, collectEach(v, CategoryCertifications, *p.Certifications)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateFormData checks every category of fd.
func ValidateFormData(fd types.FormData) error {
	return ValidatePatch(types.FormDataPatch{
		Title:               &fd.Title,
		PersonalInfo:        fd.PersonalInfo,
		ProfessionalSummary: fd.ProfessionalSummary,
		WorkExperiences:     &fd.WorkExperiences,
		Educations:          &fd.Educations,
		Skills:              &fd.Skills,
		Languages:           &fd.Languages,
		Projects:            &fd.Projects,
		Certifications:      &fd.Certifications,
	})
}

func collectEach[T any](v *validator.Validate, category Category, items []T) FieldErrors {
	var errs FieldErrors
	for i := range items {
		errs = append(errs, collect(v, fmt.Sprintf("%s[%d]", category, i), &items[i])...)
	}
	return errs
}

func collect(v *validator.Validate, prefix string, item interface{}) FieldErrors {
	err := v.Struct(item)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Field: prefix, Tag: "invalid", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{
			Field:   prefix + "." + fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe.Tag(), fe.Param()),
		})
	}
	return out
}

func messageFor(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + param
	case "safe_text":
		return "must not contain markup"
	case "end_after_start":
		return "must not be before the start date"
	default:
		return "is invalid"
	}
}
