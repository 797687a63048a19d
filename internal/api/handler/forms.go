package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// formErrorKey holds errors that do not belong to a single field.
const formErrorKey = "_form"

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

const msgInvalidUsername = "Username may only contain letters, digits, dashes and underscores."

var msgPasswordTooLong = fmt.Sprintf("Field cannot be longer than %d bytes.", maxPasswordBytes)

// usernamePattern keeps usernames safe to use as a single path segment.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("unexpected gin validator engine")
	}
	if err := v.RegisterValidation("maxbytes", validateMaxBytes); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		panic(err)
	}
}

// validateMaxBytes limits the encoded length of a string, unlike max which counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

type registerForm struct {
	Username  string `form:"username" binding:"required,max=20,username"`
	Password  string `form:"password" binding:"required,maxbytes=72"`
	Email     string `form:"email" binding:"required,email,max=50"`
	FirstName string `form:"first_name" binding:"required,max=30"`
	LastName  string `form:"last_name" binding:"required,max=30"`
}

type loginForm struct {
	Username string `form:"username" binding:"required,max=20"`
	Password string `form:"password" binding:"required,maxbytes=72"`
}

type feedbackForm struct {
	Title   string `form:"title" binding:"required,max=100"`
	Content string `form:"content" binding:"required,max=300"`
}

// fieldErrors turns a binding error into one message per struct field.
func fieldErrors(err error) map[string]string {
	errs := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[formErrorKey] = "Invalid form submission."
		return errs
	}

	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Field cannot be longer than %s bytes.", fe.Param())
	case "username":
		return msgInvalidUsername
	default:
		return "Invalid value."
	}
}
