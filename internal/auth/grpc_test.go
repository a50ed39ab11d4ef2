package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestUnaryClientInterceptor(t *testing.T) {
	var got metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		got, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	if err := NewUnaryClientInterceptor(staticToken("abc"))(context.Background(), "/x", nil, nil, nil, invoker); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if v := got.Get("authorization"); len(v) != 1 || v[0] != "Bearer abc" {
		t.Fatalf("authorization = %v", v)
	}

	got = nil
	if err := NewUnaryClientInterceptor(staticToken(""))(context.Background(), "/x", nil, nil, nil, invoker); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(got.Get("authorization")) != 0 {
		t.Fatalf("no header expected when signed out: %v", got)
	}
}

func TestBearerTransport(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &BearerTransport{Source: staticToken("tok")}}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if seen != "Bearer tok" {
		t.Fatalf("header = %q", seen)
	}
	if req.Header.Get("Authorization") != "" {
		t.Fatalf("caller request was mutated")
	}
}
