package mocks

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
)

type HTTPClient struct {
	mock.Mock
}

func (c *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	args := c.Called(ctx, url, headers)
	return args.Get(0).(*http.Response), args.Error(1)
}

func (c *HTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	args := c.Called(ctx, url, body, headers)
	return args.Get(0).(*http.Response), args.Error(1)
}

func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := c.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}
