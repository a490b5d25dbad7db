package auth

import (
	"context"
	"os"
	"slices"
)

// envCookies maps environment variables to the cookie each one carries.
var envCookies = map[string]string{
	"LINKEDIN_LI_AT":      "li_at",
	"LINKEDIN_JSESSIONID": "JSESSIONID",
	"LINKEDIN_LIDC":       "lidc",
	"LINKEDIN_BCOOKIE":    "bcookie",
}

// EnvSource reads cookies from environment variables.
type EnvSource struct{}

// Cookies returns the cookies set in the environment.
func (EnvSource) Cookies(context.Context) (map[string]string, error) {
	cookies := make(map[string]string)
	for envVar, name := range envCookies {
		if value := os.Getenv(envVar); value != "" {
			cookies[name] = value
		}
	}
	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVars returns the environment variable names EnvSource reads, sorted.
func EnvVars() []string {
	vars := make([]string, 0, len(envCookies))
	for v := range envCookies {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	return vars
}
