// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package validation provides validation functions for AWS resource names and other inputs.
//
// It includes validation for:
// - SSM Parameter Store hierarchy paths
// - AWS Region names
// - AWS IAM Role ARNs
// - Shared config profile names
// - Environment variable names
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Regular expressions for AWS resource validation
	parameterPathRegex = regexp.MustCompile(`^/([a-zA-Z0-9_.-]+(/[a-zA-Z0-9_.-]+)*/?)?$`)
	regionRegex        = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	roleArnRegex       = regexp.MustCompile(`^arn:aws(-[a-z]+)*:iam::\d{12}:role/[a-zA-Z0-9+=,.@_-]+(/[a-zA-Z0-9+=,.@_-]+)*$`)
	profileRegex       = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]+$`)
	envNameRegex       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateParameterPath checks if the given SSM hierarchy path is valid
// for a by-path query.
// A valid path:
// - Must start with a forward slash
// - Can be "/" alone (the root of the hierarchy)
// - Can contain letters, numbers, dots, hyphens, and underscores
// - May end with a single forward slash
// - Must not contain consecutive forward slashes
func ValidateParameterPath(path string) error {
	if path == "" {
		return fmt.Errorf("parameter path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("parameter path must start with '/'")
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("parameter path must not contain consecutive '/'")
	}
	if !parameterPathRegex.MatchString(path) {
		return fmt.Errorf("invalid parameter path format: %s", path)
	}
	return nil
}

// ValidateRegion checks if the given AWS region name is valid.
// A valid region name:
// - Must be in the format: [a-z]{2}-[a-z]+-\d
// - Examples: us-east-1, eu-central-1, ap-southeast-2
// - Empty string is considered valid (for optional fields)
func ValidateRegion(region string) error {
	if region == "" {
		return nil
	}
	if !regionRegex.MatchString(region) {
		return fmt.Errorf("invalid region format: %s", region)
	}
	return nil
}

// ValidateRoleARN checks if the given IAM role ARN is valid.
// A valid role ARN:
// - Must be in the format: arn:aws:iam::<account-id>:role/<role-name-with-path>
// - Account ID must be 12 digits
// - Role name must follow IAM naming rules
// - Empty string is considered valid (for optional fields)
func ValidateRoleARN(arn string) error {
	if arn == "" {
		return nil
	}
	if !roleArnRegex.MatchString(arn) {
		return fmt.Errorf("invalid role ARN format: %s", arn)
	}
	return nil
}

// ValidateProfile checks a shared config profile name. Empty means the
// SDK default.
func ValidateProfile(profile string) error {
	if profile == "" {
		return nil
	}
	if !profileRegex.MatchString(profile) {
		return fmt.Errorf("invalid AWS profile name: %q", profile)
	}
	return nil
}

// ValidateEnvName checks that name can be used as an environment
// variable and placeholder name.
func ValidateEnvName(name string) error {
	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment variable name: %q", name)
	}
	return nil
}
