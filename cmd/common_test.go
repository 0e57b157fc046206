// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// testSetup provides common test setup functionality
type testSetup struct {
	output *bytes.Buffer
	tmpDir string
	// opts records the options of every client created
	opts []aws.Options
	// inputs records every GetParametersByPath request
	inputs []*ssm.GetParametersByPathInput
}

// setupTest isolates HOME, resets all flags and installs an empty mock client.
func setupTest(t *testing.T) *testSetup {
	t.Helper()

	ts := &testSetup{
		output: &bytes.Buffer{},
		tmpDir: t.TempDir(),
	}

	t.Setenv("HOME", ts.tmpDir)
	t.Setenv("AWS_REGION", "eu-central-1")

	origNewClient := aws.NewClient
	t.Cleanup(func() {
		aws.NewClient = origNewClient
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	resetFlags()
	ts.setupMockClient(&aws.MockSSMClient{GetParamsByPathFunc: aws.PagedMock()})

	rootCmd.SetOut(ts.output)
	rootCmd.SetErr(ts.output)
	return ts
}

// resetFlags recreates the flag sets so values and Changed state from a
// previous run do not leak into the next one.
func resetFlags() {
	rootCmd.ResetFlags()
	listCmd.ResetFlags()
	setupRootFlags()
	setupListFlags()
}

// setupMockClient sets up a mock AWS client for testing
func (ts *testSetup) setupMockClient(mockClient *aws.MockSSMClient) {
	inner := mockClient.GetParamsByPathFunc
	recording := &aws.MockSSMClient{
		GetParamsByPathFunc: func(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
			ts.inputs = append(ts.inputs, input)
			if inner == nil {
				return mockClient.GetParametersByPath(ctx, input, opts...)
			}
			return inner(ctx, input, opts...)
		},
	}
	aws.NewClient = func(ctx context.Context, opts aws.Options) (*aws.Client, error) {
		ts.opts = append(ts.opts, opts)
		return &aws.Client{SSMClient: recording}, nil
	}
}

// writeEnvFile creates an environment file in the temp dir
func (ts *testSetup) writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(ts.tmpDir, ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

// setupConfigFile creates a test configuration file in HOME
func (ts *testSetup) setupConfigFile(t *testing.T, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(ts.tmpDir, ".ssm-env-subst.yaml"), content, 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

// run executes the root command with args
func (ts *testSetup) run(args ...string) error {
	rootCmd.SetArgs(args)
	return Execute()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
