// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package aws wraps the SSM Parameter Store API calls used by ssm-env-subst.
package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// Errors returned by GetParametersByPath, checked with errors.Is
var (
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidPath  = errors.New("invalid parameter path")
)

// SSMAPI defines the interface for AWS SSM operations
type SSMAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// Client represents an AWS SSM client
type Client struct {
	SSMClient SSMAPI
}

// Options selects where and as whom the client talks to SSM.
// Empty fields fall back to the SDK default chain.
type Options struct {
	Region  string
	Profile string
	Role    string
}

// Parameter is a single decrypted parameter fetched from SSM.
type Parameter struct {
	Name  string
	Value string
}

// NewClientFunc is the type for the client creation function
type NewClientFunc func(context.Context, Options) (*Client, error)

// DefaultNewClient is the default implementation of NewClientFunc
var DefaultNewClient NewClientFunc = func(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required: set --region, the config file, AWS_REGION or a region in the profile")
	}

	if opts.Role != "" {
		// Create an STS client to assume the role
		stsClient := sts.NewFromConfig(cfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, opts.Role)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return &Client{
		SSMClient: ssm.NewFromConfig(cfg),
	}, nil
}

// NewClient is the function used to create new AWS SSM clients
var NewClient = DefaultNewClient

// GetParametersByPath retrieves every parameter below path, decrypted,
// following NextToken until the last page. Parameters keep the order
// in which SSM returned them.
func (c *Client) GetParametersByPath(ctx context.Context, path string, recursive bool) ([]Parameter, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidPath)
	}

	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(recursive),
		WithDecryption: aws.Bool(true),
	}

	var params []Parameter
	paginator := ssm.NewGetParametersByPathPaginator(c.SSMClient, input)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(path, err)
		}
		for _, p := range output.Parameters {
			if p.Name == nil {
				continue
			}
			params = append(params, Parameter{
				Name:  aws.ToString(p.Name),
				Value: aws.ToString(p.Value),
			})
		}
	}

	return params, nil
}

// classifyError maps SSM API errors to the package sentinels.
func classifyError(path string, err error) error {
	var ifv *ssmtypes.InvalidFilterValue
	if errors.As(err, &ifv) {
		return fmt.Errorf("%w %s: %w", ErrInvalidPath, path, err)
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "AccessDeniedException":
			return fmt.Errorf("%w: insufficient permissions to read parameters under %s: %w", ErrAccessDenied, path, err)
		case "ValidationException":
			return fmt.Errorf("%w %s: %w", ErrInvalidPath, path, err)
		}
	}
	return fmt.Errorf("failed to get parameters by path %s: %w", path, err)
}

// ShortName returns the last segment of a parameter name, which is
// the placeholder name it substitutes: /myapp/prod/DB_HOST -> DB_HOST.
func ShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
