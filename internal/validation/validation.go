// Package validation checks incoming form payloads before they reach the
// services.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/models"
)

// CampgroundForm holds the raw campground fields as submitted.
type CampgroundForm struct {
	Title       string
	Price       string
	Location    string
	Description string
}

// ReviewForm holds the raw review fields as submitted.
type ReviewForm struct {
	Body   string
	Rating string
}

type campgroundPayload struct {
	Title       string   `json:"title" validate:"required,nohtml"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"required,nohtml"`
	Description string   `json:"description" validate:"required,nohtml"`
}

type reviewPayload struct {
	Body   string `json:"body" validate:"required,nohtml"`
	Rating *int   `json:"rating" validate:"required,min=1,max=5"`
}

type registerPayload struct {
	Username string `json:"username" validate:"required,nohtml,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// registration cannot fail for a well-formed tag name
	_ = v.RegisterValidation("nohtml", func(fl validator.FieldLevel) bool {
		return IsHTMLFree(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Campground validates a campground submission and returns the typed payload.
func (v *Validator) Campground(form CampgroundForm) (models.CampgroundInput, error) {
	parseErrs := map[string]string{}
	payload := campgroundPayload{
		Title:       form.Title,
		Location:    form.Location,
		Description: form.Description,
	}

	if raw := strings.TrimSpace(form.Price); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
			parseErrs["price"] = `"price" must be a number`
		} else {
			payload.Price = &price
		}
	}

	if err := v.check(payload, parseErrs); err != nil {
		return models.CampgroundInput{}, err
	}

	return models.CampgroundInput{
		Title:       payload.Title,
		Price:       *payload.Price,
		Location:    payload.Location,
		Description: payload.Description,
	}, nil
}

// Review validates a review submission and returns the typed payload.
func (v *Validator) Review(form ReviewForm) (models.ReviewInput, error) {
	parseErrs := map[string]string{}
	payload := reviewPayload{Body: form.Body}

	if raw := strings.TrimSpace(form.Rating); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs["rating"] = `"rating" must be an integer`
		} else {
			payload.Rating = &rating
		}
	}

	if err := v.check(payload, parseErrs); err != nil {
		return models.ReviewInput{}, err
	}

	return models.ReviewInput{Body: payload.Body, Rating: *payload.Rating}, nil
}

// Register validates a registration submission.
func (v *Validator) Register(req models.CreateUserRequest) (models.CreateUserRequest, error) {
	payload := registerPayload{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	if err := v.check(payload, nil); err != nil {
		return models.CreateUserRequest{}, err
	}

	return models.CreateUserRequest{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}, nil
}

func (v *Validator) check(payload any, parseErrs map[string]string) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	verr := &apperror.ValidationError{}
	for _, fe := range fieldErrs {
		if verr.Has(fe.Field()) {
			continue
		}
		if msg, ok := parseErrs[fe.Field()]; ok {
			verr.Add(fe.Field(), msg)
			continue
		}
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "nohtml":
		return fmt.Sprintf("%q must not include HTML!", fe.Field())
	case "gte", "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}

// textEscaper escapes text the way a sanitizer that allows no tags does.
// Quotes are left alone.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// IsHTMLFree reports whether sanitizing s with no allowed tags would leave it
// unchanged: s must tokenize to plain text only, and re-escaping its decoded
// text must give back s, so bare &, < and > are rejected.
func IsHTMLFree(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return textEscaper.Replace(html.UnescapeString(s)) == s
		case html.TextToken:
			continue
		default:
			return false
		}
	}
}
