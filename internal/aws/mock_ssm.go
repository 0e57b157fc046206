// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// MockSSMClient implements SSMAPI for testing
type MockSSMClient struct {
	GetParamsByPathFunc func(context.Context, *ssm.GetParametersByPathInput, ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func (m *MockSSMClient) GetParametersByPath(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if m.GetParamsByPathFunc != nil {
		return m.GetParamsByPathFunc(ctx, input, opts...)
	}
	return nil, fmt.Errorf("GetParametersByPath not implemented")
}

// PagedMock serves pages in order, keyed by NextToken "1", "2", ...
// It returns a GetParamsByPathFunc suitable for MockSSMClient.
func PagedMock(pages ...map[string]string) func(context.Context, *ssm.GetParametersByPathInput, ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	return func(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
		idx := 0
		if input.NextToken != nil {
			if _, err := fmt.Sscanf(*input.NextToken, "%d", &idx); err != nil {
				return nil, fmt.Errorf("bad token %q", *input.NextToken)
			}
		}
		if idx >= len(pages) {
			return &ssm.GetParametersByPathOutput{}, nil
		}

		out := &ssm.GetParametersByPathOutput{}
		for _, name := range sortedKeys(pages[idx]) {
			n, v := name, pages[idx][name]
			out.Parameters = append(out.Parameters, ssmtypes.Parameter{Name: &n, Value: &v})
		}
		if idx+1 < len(pages) {
			next := fmt.Sprintf("%d", idx+1)
			out.NextToken = &next
		}
		return out, nil
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
