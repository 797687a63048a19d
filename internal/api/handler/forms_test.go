package handler

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterForm() registerForm {
	return registerForm{
		Username:  "alice_1-x",
		Password:  "pw1",
		Email:     "a@x.com",
		FirstName: "A",
		LastName:  "L",
	}
}

func TestRegisterForm_PasswordByteLimit(t *testing.T) {
	form := validRegisterForm()
	form.Password = strings.Repeat("é", 36) // 72 bytes
	require.NoError(t, binding.Validator.ValidateStruct(form))

	form.Password = strings.Repeat("é", 37)
	errs := fieldErrors(binding.Validator.ValidateStruct(form))
	assert.Equal(t, msgPasswordTooLong, errs["Password"])

	form.Password = strings.Repeat("a", 73)
	errs = fieldErrors(binding.Validator.ValidateStruct(form))
	assert.Equal(t, "Field cannot be longer than 72 bytes.", errs["Password"])
}

func TestRegisterForm_UsernameCharset(t *testing.T) {
	for _, name := range []string{"a/b", "a?b", "a#b", "a%2Fb", "a b", "..", "é"} {
		form := validRegisterForm()
		form.Username = name
		errs := fieldErrors(binding.Validator.ValidateStruct(form))
		assert.Equal(t, msgInvalidUsername, errs["Username"], name)
	}
}

func TestLoginForm_PasswordByteLimit(t *testing.T) {
	form := loginForm{Username: "alice", Password: strings.Repeat("é", 72)}
	errs := fieldErrors(binding.Validator.ValidateStruct(form))
	assert.Equal(t, msgPasswordTooLong, errs["Password"])
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	errs := fieldErrors(assert.AnError)
	assert.Equal(t, map[string]string{formErrorKey: "Invalid form submission."}, errs)
}
