package llm

import (
	"os"
	"strings"

	"github.com/xhad/srdx/internal/errs"
)

// DefaultCredentialVar names the environment variable holding the Groq key.
const DefaultCredentialVar = "GROQ_API_KEY"

// ReadCredential reads the API key once from the environment.
func ReadCredential(variable string) (string, error) {
	if variable == "" {
		variable = DefaultCredentialVar
	}
	key := strings.TrimSpace(os.Getenv(variable))
	if key == "" {
		return "", &errs.MissingCredentialError{Variable: variable}
	}
	return key, nil
}
