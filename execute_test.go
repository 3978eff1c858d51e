// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/httpapi/request"
	"github.com/gogama/httpapi/stub"
	"github.com/gogama/httpapi/timeout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string `json:"name"`
}

type apiMessage struct {
	Message string `json:"message"`
}

func newStubClient(t *testing.T) (*Client, *stub.Registry) {
	reg := stub.New()
	cl, err := New("https://api.example.com", request.Configuration{
		Header: request.Header{request.Authorization: "Bearer X"},
	})
	require.NoError(t, err)
	cl.HTTPDoer = reg
	return cl, reg
}

func TestExecute(t *testing.T) {
	t.Run("scenarios", testExecuteScenarios)
	t.Run("status boundary", testExecuteStatusBoundary)
	t.Run("empty error body", testExecuteEmptyErrorBody)
	t.Run("ignored bodies", testExecuteIgnoredBodies)
	t.Run("error body decode failure", testExecuteErrorBodyDecodeFailure)
	t.Run("transport error", testExecuteTransportError)
	t.Run("cancelled", testExecuteCancelled)
	t.Run("round trip", testExecuteRoundTrip)
	t.Run("stub miss", testExecuteStubMiss)
	t.Run("executor", testExecuteExecutor)
	t.Run("server", testExecuteServer)
}

func testExecuteScenarios(t *testing.T) {
	t.Parallel()

	ep := request.Get[user, apiMessage]("/user", request.WithParam("api_key", "test"))

	testCases := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, out user, err error)
	}{
		{
			name:       "A output",
			statusCode: 200,
			body:       `{"name":"gonzalezreal"}`,
			check: func(t *testing.T, out user, err error) {
				require.NoError(t, err)
				assert.Equal(t, user{Name: "gonzalezreal"}, out)
			},
		},
		{
			name:       "B API error with body",
			statusCode: 404,
			body:       `{"message":"not found"}`,
			check: func(t *testing.T, out user, err error) {
				assert.Equal(t, user{}, out)
				var apiErr *Error[apiMessage]
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, APIError, apiErr.Kind)
				assert.Equal(t, 404, apiErr.StatusCode)
				require.NotNil(t, apiErr.Body)
				assert.Equal(t, apiMessage{Message: "not found"}, *apiErr.Body)
				assert.NoError(t, apiErr.Err)
				assert.Equal(t, APIError, KindOf(err))
			},
		},
		{
			name:       "C API error without body",
			statusCode: 404,
			body:       "",
			check: func(t *testing.T, out user, err error) {
				var apiErr *Error[apiMessage]
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, APIError, apiErr.Kind)
				assert.Equal(t, 404, apiErr.StatusCode)
				assert.Nil(t, apiErr.Body)
			},
		},
		{
			name:       "D decoding failure",
			statusCode: 200,
			body:       `{"name":`,
			check: func(t *testing.T, out user, err error) {
				assert.Equal(t, user{}, out)
				var apiErr *Error[apiMessage]
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, DecodingError, apiErr.Kind)
				assert.Equal(t, 200, apiErr.StatusCode)
				assert.Nil(t, apiErr.Body)
				assert.Error(t, apiErr.Err)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cl, reg := newStubClient(t)
			p := cl.Plan(context.Background(), ep.Request)
			assert.Equal(t, "https://api.example.com/user?api_key=test", p.URL.String())
			assert.Equal(t, "Bearer X", p.Header.Get("Authorization"))
			require.NoError(t, reg.Stub(p, testCase.statusCode, nil, testCase.body))

			out, err := Execute(context.Background(), cl, ep)

			testCase.check(t, out, err)
		})
	}

	t.Run("E adding query", func(t *testing.T) {
		cl, _ := newStubClient(t)
		p := cl.Plan(context.Background(), request.Request{Path: "search", Query: request.Query{"foo": "bar"}})
		p2 := p.AddingQuery(request.Query{"baz": "qux"})
		assert.Equal(t, "baz=qux&foo=bar", p2.URL.RawQuery)
		assert.Equal(t, "foo=bar", p.URL.RawQuery)
	})
}

func testExecuteStatusBoundary(t *testing.T) {
	t.Parallel()

	ep := request.Get[user, apiMessage]("status")
	testCases := []struct {
		statusCode int
		kind       Kind
	}{
		{199, APIError},
		{200, OK},
		{204, OK},
		{299, OK},
		{300, APIError},
		{302, APIError},
		{500, APIError},
	}
	for _, testCase := range testCases {
		t.Run(strconv.Itoa(testCase.statusCode), func(t *testing.T) {
			cl, reg := newStubClient(t)
			require.NoError(t, reg.Stub(cl.Plan(context.Background(), ep.Request), testCase.statusCode, nil, `{"name":"x","message":"y"}`))

			out, err := Execute(context.Background(), cl, ep)

			assert.Equal(t, testCase.kind, KindOf(err))
			if testCase.kind == OK {
				assert.Equal(t, user{Name: "x"}, out)
			} else {
				var apiErr *Error[apiMessage]
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, testCase.statusCode, apiErr.StatusCode)
				require.NotNil(t, apiErr.Body)
				assert.Equal(t, "y", apiErr.Body.Message)
			}
		})
	}
}

func testExecuteEmptyErrorBody(t *testing.T) {
	t.Parallel()

	ep := request.Get[user, apiMessage]("empty")
	ep.Error = func(_ []byte) (apiMessage, error) {
		panic("error decoder must not be called on an empty body")
	}
	for _, statusCode := range []int{199, 300, 400, 503} {
		cl, reg := newStubClient(t)
		require.NoError(t, reg.Stub(cl.Plan(context.Background(), ep.Request), statusCode, nil, nil))

		_, err := Execute(context.Background(), cl, ep)

		var apiErr *Error[apiMessage]
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, APIError, apiErr.Kind)
		assert.Equal(t, statusCode, apiErr.StatusCode)
		assert.Nil(t, apiErr.Body)
	}
}

func testExecuteIgnoredBodies(t *testing.T) {
	t.Parallel()

	t.Run("Empty output", func(t *testing.T) {
		cl, reg := newStubClient(t)
		ep := request.Delete[request.Empty, apiMessage]("users/1")
		_, ok := ep.Header[request.Accept]
		assert.False(t, ok)
		require.NoError(t, reg.Stub(cl.Plan(context.Background(), ep.Request), 200, nil, "not json"))

		out, err := Execute(context.Background(), cl, ep)

		assert.NoError(t, err)
		assert.Equal(t, request.Empty{}, out)
	})
	t.Run("nil decoders", func(t *testing.T) {
		cl, reg := newStubClient(t)
		ep := request.Endpoint[int, string]{Request: request.Request{Path: "nil"}}
		p := cl.Plan(context.Background(), ep.Request)
		require.NoError(t, reg.Stub(p, 200, nil, "garbage"))

		out, err := Execute(context.Background(), cl, ep)
		assert.NoError(t, err)
		assert.Equal(t, 0, out)

		require.NoError(t, reg.Stub(p, 409, nil, "garbage"))
		_, err = Execute(context.Background(), cl, ep)
		var apiErr *Error[string]
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, APIError, apiErr.Kind)
		assert.Equal(t, 409, apiErr.StatusCode)
		assert.Nil(t, apiErr.Body)
	})
}

func testExecuteErrorBodyDecodeFailure(t *testing.T) {
	t.Parallel()

	cl, reg := newStubClient(t)
	ep := request.Get[user, apiMessage]("broken")
	require.NoError(t, reg.Stub(cl.Plan(context.Background(), ep.Request), 500, nil, "<html>oops</html>"))

	_, err := Execute(context.Background(), cl, ep)

	var apiErr *Error[apiMessage]
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, DecodingError, apiErr.Kind)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Nil(t, apiErr.Body)
	assert.Error(t, apiErr.Err)
}

func testExecuteTransportError(t *testing.T) {
	t.Parallel()

	mockDoer := newMockHTTPDoer(t)
	mockDoer.On("Do", mock.Anything).Return(nil, syscall.ECONNREFUSED).Once()
	cl := &Client{HTTPDoer: mockDoer}
	ep := request.Get[user, apiMessage]("down")

	out, err := Execute(context.Background(), cl, ep)

	mockDoer.AssertExpectations(t)
	assert.Equal(t, user{}, out)
	var apiErr *Error[apiMessage]
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, TransportError, apiErr.Kind)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Nil(t, apiErr.Body)
	var urlErr *url.Error
	require.ErrorAs(t, err, &urlErr)
	assert.True(t, errors.Is(err, syscall.ECONNREFUSED))
	assert.False(t, apiErr.Timeout())
}

func testExecuteCancelled(t *testing.T) {
	t.Parallel()

	cl, _ := newStubClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, cl, request.Get[user, apiMessage]("never/stubbed"))

	assert.Equal(t, TransportError, KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func testExecuteRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		ID    int               `json:"id"`
		Tags  []string          `json:"tags"`
		Attrs map[string]string `json:"attrs"`
		When  time.Time         `json:"when"`
	}
	in := payload{
		ID:    7,
		Tags:  []string{"a", "b"},
		Attrs: map[string]string{"k": "v"},
		When:  time.Date(2021, 5, 4, 3, 2, 1, 0, time.UTC),
	}
	for _, codec := range []request.Codec{request.StdJSON, request.JSONIter} {
		cl, reg := newStubClient(t)
		ep, err := request.PostBody[payload, apiMessage]("echo", in, request.WithCodec(codec))
		require.NoError(t, err)
		require.NoError(t, reg.Stub(cl.Plan(context.Background(), ep.Request), 201, nil, ep.Body))

		out, err := Execute(context.Background(), cl, ep)

		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func testExecuteStubMiss(t *testing.T) {
	t.Parallel()

	cl, _ := newStubClient(t)

	assert.PanicsWithError(t, "httpapi/stub: no response registered for GET https://api.example.com/missing\n"+
		"GET https://api.example.com/missing\n"+
		"Accept: \"application/json\"\n"+
		"Authorization: \"Bearer X\"\n\n", func() {
		_, _ = Execute(context.Background(), cl, request.Get[user, apiMessage]("missing"))
	})
}

func testExecuteExecutor(t *testing.T) {
	t.Parallel()

	t.Run("plain error from Do", func(t *testing.T) {
		x := newMockExecutor(t)
		p := request.NewPlan(context.Background(), nil, request.Request{}, request.Configuration{})
		doErr := errors.New("custom executor failure")
		x.On("Plan", mock.Anything, mock.Anything).Return(p).Once()
		x.On("Do", p).Return(&request.Execution{Plan: p, Err: doErr}, doErr).Once()

		_, err := Execute(context.Background(), x, request.Get[user, apiMessage]("x"))

		x.AssertExpectations(t)
		var apiErr *Error[apiMessage]
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, TransportError, apiErr.Kind)
		assert.Same(t, doErr, apiErr.Err)
	})
	t.Run("decode installed", func(t *testing.T) {
		x := newMockExecutor(t)
		p := request.NewPlan(context.Background(), nil, request.Request{}, request.Configuration{})
		x.On("Plan", mock.Anything, mock.MatchedBy(func(r request.Request) bool {
			return r.Path == "x" && r.Method == request.GET
		})).Return(p).Once()
		x.On("Do", p).Return(nil, nil).Run(func(args mock.Arguments) {
			p := args.Get(0).(*request.Plan)
			require.NotNil(t, p.Decode)
			e := &request.Execution{
				Plan:     p,
				Response: &http.Response{StatusCode: 200},
				Body:     []byte(`{"name":"z"}`),
			}
			require.NoError(t, p.Decode(e))
		}).Once()

		out, err := Execute(context.Background(), x, request.Get[user, apiMessage]("x"))

		x.AssertExpectations(t)
		assert.NoError(t, err)
		assert.Equal(t, user{Name: "z"}, out)
	})
}

func testExecuteServer(t *testing.T) {
	t.Parallel()

	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			cl := &Client{
				BaseURL: serverURL(server),
				Configuration: request.Configuration{
					Header: request.Header{request.Authorization: "Bearer X"},
					Query:  request.Query{"page": 2, "api_key": "test"},
				},
				HTTPDoer:      server.Client(),
				TimeoutPolicy: timeout.Fixed(5 * time.Second),
			}
			ep, err := request.PostBody[echoedRequest, apiMessage]("/v1/echo",
				serverInstruction{StatusCode: 200, Echo: true},
				request.WithParam("page", 1),
				request.WithHeader("X-Trace", "t1"))
			require.NoError(t, err)

			out, err := Execute(context.Background(), cl, ep)

			require.NoError(t, err)
			assert.Equal(t, "POST", out.Method)
			assert.Equal(t, "/v1/echo", out.Path)
			assert.Equal(t, "api_key=test&page=1", out.Query)
			assert.Equal(t, "Bearer X", out.Header.Get("Authorization"))
			assert.Equal(t, "application/json", out.Header.Get("Accept"))
			assert.Equal(t, "application/json", out.Header.Get("Content-Type"))
			assert.Equal(t, "t1", out.Header.Get("X-Trace"))
		})
	}
	t.Run("API error", func(t *testing.T) {
		cl := &Client{BaseURL: serverURL(httpServer)}
		ep, err := request.PostBody[echoedRequest, apiMessage]("", serverInstruction{
			StatusCode: 422,
			Body:       []bodyChunk{{Data: []byte(`{"message":"unprocessable"}`)}},
		})
		require.NoError(t, err)

		_, err = Execute(context.Background(), cl, ep)

		var apiErr *Error[apiMessage]
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, APIError, apiErr.Kind)
		assert.Equal(t, 422, apiErr.StatusCode)
		require.NotNil(t, apiErr.Body)
		assert.Equal(t, "unprocessable", apiErr.Body.Message)
	})
}

type mockExecutor struct {
	mock.Mock
}

func newMockExecutor(t *testing.T) *mockExecutor {
	m := &mockExecutor{}
	m.Test(t)
	return m
}

func (m *mockExecutor) Plan(ctx context.Context, r request.Request) *request.Plan {
	args := m.Called(ctx, r)
	return args.Get(0).(*request.Plan)
}

func (m *mockExecutor) Do(p *request.Plan) (*request.Execution, error) {
	args := m.Called(p)
	err := args.Error(1)
	if e, ok := args.Get(0).(*request.Execution); ok {
		return e, err
	}
	return nil, err
}
