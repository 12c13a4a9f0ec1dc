package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/models"
)

func TestIsHTMLFree(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"quiet site", true},
		{"Tom and Jerry's \"best\" camp", true},
		{"Fish &amp; Chips", true},
		{"", true},
		{"Fish & Chips", false},
		{"5 > 3", false},
		{"a < b", false},
		{"I <3 camping", false},
		{"<b>bold</b>", false},
		{"hello <script>alert(1)</script>", false},
		{"<img src=x onerror=alert(1)>", false},
		{"text <!-- comment -->", false},
		{"line<br/>break", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHTMLFree(tt.in))
		})
	}
}

func TestValidator_Campground(t *testing.T) {
	v := New()

	t.Run("valid payload passes through unchanged", func(t *testing.T) {
		got, err := v.Campground(CampgroundForm{
			Title:       "Hidden Falls",
			Price:       "15",
			Location:    "Boulder, CO",
			Description: "quiet site",
		})
		require.NoError(t, err)
		assert.Equal(t, models.CampgroundInput{
			Title:       "Hidden Falls",
			Price:       15,
			Location:    "Boulder, CO",
			Description: "quiet site",
		}, got)
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		got, err := v.Campground(CampgroundForm{Title: "Free", Price: "0", Location: "x", Description: "y"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Price)
	})

	t.Run("every violated field is reported", func(t *testing.T) {
		_, err := v.Campground(CampgroundForm{
			Title:       "",
			Price:       "-1",
			Location:    "<b>Boulder</b>",
			Description: "",
		})

		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []apperror.FieldError{
			{Field: "title", Message: `"title" is required`},
			{Field: "price", Message: `"price" must be greater than or equal to 0`},
			{Field: "location", Message: `"location" must not include HTML!`},
			{Field: "description", Message: `"description" is required`},
		}, verr.Fields)
	})

	t.Run("html in each free-text field is rejected", func(t *testing.T) {
		for _, field := range []string{"title", "location", "description"} {
			form := CampgroundForm{Title: "t", Price: "1", Location: "l", Description: "d"}
			switch field {
			case "title":
				form.Title = "<i>t</i>"
			case "location":
				form.Location = "<i>l</i>"
			case "description":
				form.Description = "<i>d</i>"
			}

			_, err := v.Campground(form)
			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr, field)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, field, verr.Fields[0].Field)
			assert.Contains(t, verr.Error(), "must not include HTML!")
		}
	})

	t.Run("non numeric price", func(t *testing.T) {
		_, err := v.Campground(CampgroundForm{Title: "t", Price: "cheap", Location: "l", Description: "d"})
		assert.EqualError(t, err, `"price" must be a number`)
	})

	t.Run("price must be finite", func(t *testing.T) {
		for _, raw := range []string{"Inf", "+Infinity", "-inf", "NaN"} {
			_, err := v.Campground(CampgroundForm{Title: "t", Price: raw, Location: "l", Description: "d"})
			assert.EqualError(t, err, `"price" must be a number`, raw)
		}
	})

	t.Run("bare ampersand in title", func(t *testing.T) {
		_, err := v.Campground(CampgroundForm{Title: "Fish & Chips", Price: "1", Location: "l", Description: "d"})
		assert.EqualError(t, err, `"title" must not include HTML!`)
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := v.Campground(CampgroundForm{Title: "t", Location: "l", Description: "d"})
		assert.EqualError(t, err, `"price" is required`)
	})
}

func TestValidator_Review(t *testing.T) {
	v := New()

	got, err := v.Review(ReviewForm{Body: "Great spot", Rating: "5"})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInput{Body: "Great spot", Rating: 5}, got)

	tests := []struct {
		name string
		form ReviewForm
		want string
	}{
		{"rating too low", ReviewForm{Body: "ok", Rating: "0"}, `"rating" must be greater than or equal to 1`},
		{"rating too high", ReviewForm{Body: "ok", Rating: "6"}, `"rating" must be less than or equal to 5`},
		{"rating not integer", ReviewForm{Body: "ok", Rating: "4.5"}, `"rating" must be an integer`},
		{"missing rating", ReviewForm{Body: "ok"}, `"rating" is required`},
		{"empty body", ReviewForm{Rating: "3"}, `"body" is required`},
		{"html body", ReviewForm{Body: "<a href=x>spam</a>", Rating: "3"}, `"body" must not include HTML!`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Review(tt.form)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestValidator_Register(t *testing.T) {
	v := New()

	got, err := v.Register(models.CreateUserRequest{Username: " epicman ", Email: "epic@gmail.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "epicman", got.Username)

	_, err = v.Register(models.CreateUserRequest{Username: "<b>x</b>", Email: "nope", Password: ""})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("username"))
	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("password"))
}
