package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Gender validation
	validate.RegisterValidation("gender", oneOf("male", "female", "other", ""))

	// Gender preference for roommate search
	validate.RegisterValidation("gender_preference", oneOf("female_only", "male_only", "mixed", ""))

	// Housing search type
	validate.RegisterValidation("housing_type", oneOf("looking_for_roommate", "looking_for_room", "has_room", ""))

	// Smoking habit
	validate.RegisterValidation("smoking", oneOf("no", "social", "regular", ""))

	// Pet compatibility
	validate.RegisterValidation("pets", oneOf("no", "doesnt_matter", "not_bothered", "loves_pets", ""))

	// Alcohol consumption
	validate.RegisterValidation("alcohol", oneOf("never", "occasionally", "socially", "regularly", ""))

	// Swipe action
	validate.RegisterValidation("swipe_action", oneOf("like", "pass"))
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "gender":
			errors[field] = "Invalid gender. Must be: male, female, or other"
		case "gender_preference":
			errors[field] = "Invalid preference. Must be: female_only, male_only, or mixed"
		case "housing_type":
			errors[field] = "Invalid housing type. Must be: looking_for_roommate, looking_for_room, or has_room"
		case "smoking":
			errors[field] = "Invalid smoking habit. Must be: no, social, or regular"
		case "pets":
			errors[field] = "Invalid pet value. Must be: no, doesnt_matter, not_bothered, or loves_pets"
		case "alcohol":
			errors[field] = "Invalid alcohol value. Must be: never, occasionally, socially, or regularly"
		case "swipe_action":
			errors[field] = "Invalid action. Must be: like or pass"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
