package matchapi

import (
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ClassifySuite struct {
	suite.Suite
}

func (s *ClassifySuite) TestClassify(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		failure     Failure
		expectedMsg string
		expected    Kind
	}{
		{
			name:        "Should fall back to HTTP status when body has no message",
			failure:     Failure{Response: &FailureResponse{Status: 500, Body: map[string]any{}}},
			expectedMsg: "HTTP 500",
			expected:    KindServer,
		},
		{
			name: "Should surface error field",
			failure: Failure{Response: &FailureResponse{Status: 400, Body: map[string]any{
				"error": "Email already exists",
			}}},
			expectedMsg: "Email already exists",
			expected:    KindValidation,
		},
		{
			name: "Should prefer error over detail",
			failure: Failure{Response: &FailureResponse{Status: 400, Body: map[string]any{
				"error":  "Primary error message",
				"detail": "Secondary detail message",
			}}},
			expectedMsg: "Primary error message",
			expected:    KindValidation,
		},
		{
			name: "Should use detail when error is empty",
			failure: Failure{Response: &FailureResponse{Status: 404, Body: map[string]any{
				"error":  "",
				"detail": "User not found",
			}}},
			expectedMsg: "User not found",
			expected:    KindValidation,
		},
		{
			name: "Should use msg sent by matching backend",
			failure: Failure{Response: &FailureResponse{Status: 403, Body: map[string]any{
				"msg": "Only session creator can end session",
			}}},
			expectedMsg: "Only session creator can end session",
			expected:    KindAuth,
		},
		{
			name: "Should show structured detail as JSON",
			failure: Failure{Response: &FailureResponse{Status: 422, Body: map[string]any{
				"detail": []any{map[string]any{"loc": "genres", "msg": "field required"}},
			}}},
			expectedMsg: `[{"loc":"genres","msg":"field required"}]`,
			expected:    KindValidation,
		},
		{
			name: "Should report an undecodable success body as unknown",
			failure: Failure{
				Response:    &FailureResponse{Status: 200, Body: map[string]any{"movies": []any{}}},
				RequestSent: true,
				Message:     "json: cannot unmarshal string into int",
			},
			expectedMsg: "Invalid response: json: cannot unmarshal string into int",
			expected:    KindUnknown,
		},
		{
			name:        "Should classify 401 with nil body as auth",
			failure:     Failure{Response: &FailureResponse{Status: 401}},
			expectedMsg: "HTTP 401",
			expected:    KindAuth,
		},
		{
			name:        "Should classify unexpected status as unknown",
			failure:     Failure{Response: &FailureResponse{Status: 302}},
			expectedMsg: "HTTP 302",
			expected:    KindUnknown,
		},
		{
			name:        "Should report timeout when connection aborted",
			failure:     Failure{RequestSent: true, Code: "ECONNABORTED"},
			expectedMsg: "Request timeout",
			expected:    KindTimeout,
		},
		{
			name:        "Should report no response for other codes",
			failure:     Failure{RequestSent: true, Code: "ENOTFOUND"},
			expectedMsg: "No response from server",
			expected:    KindNetwork,
		},
		{
			name:        "Should report no response without code",
			failure:     Failure{RequestSent: true},
			expectedMsg: "No response from server",
			expected:    KindNetwork,
		},
		{
			name:        "Should keep message of other errors",
			failure:     Failure{Message: "Network request failed"},
			expectedMsg: "Network request failed",
			expected:    KindUnknown,
		},
		{
			name:        "Should default to request error",
			failure:     Failure{},
			expectedMsg: "Request error",
			expected:    KindUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			err := Classify(tc.failure)

			assert.NotNil(t, err)
			assert.Equal(t, tc.expectedMsg, err.Error())
			assert.Equal(t, tc.expected, err.Kind)
		})
	}
}

func (s *ClassifySuite) TestErrorsIsByKind(t provider.T) {
	t.Parallel()

	err := error(Classify(Failure{RequestSent: true, Code: codeConnAborted}))

	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(ErrMissingToken, ErrAuth))
	assert.Equal(t, KindValidation, KindOf(ErrNoVotes))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestClassifySuite(t *testing.T) {
	suite.RunSuite(t, new(ClassifySuite))
}
