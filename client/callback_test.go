package client_test

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adamwoolhether/rester/client"
)

type asyncResult struct {
	resp *client.Response
	err  *client.Error
}

// awaitAsync collects the single outcome of an *Async call and fails the
// test if a second callback ever fires.
func awaitAsync(t *testing.T, fire func(onSuccess func(*client.Response), onFail func(*client.Error))) asyncResult {
	t.Helper()

	var fired atomic.Int32
	ch := make(chan asyncResult, 2)
	fire(
		func(r *client.Response) { fired.Add(1); ch <- asyncResult{resp: r} },
		func(e *client.Error) { fired.Add(1); ch <- asyncResult{err: e} },
	)

	var res asyncResult
	select {
	case res = <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback fired")
	}

	time.Sleep(10 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Fatalf("callbacks fired %d times, want 1", n)
	}
	return res
}

func TestClient_Async(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    []byte
		expKind client.Kind
	}{
		{
			name:   "ok with body",
			status: http.StatusOK,
			body:   []byte(`{"id":1}`),
		},
		{
			name:    "ok without body",
			status:  http.StatusOK,
			expKind: client.KindMissingBody,
		},
		{
			name:    "created",
			status:  http.StatusCreated,
			body:    []byte(`{"id":1}`),
			expKind: client.KindStatus,
		},
		{
			name:    "no content",
			status:  http.StatusNoContent,
			expKind: client.KindStatus,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    []byte("boom"),
			expKind: client.KindStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ft := &fakeTransport{reply: reply(tc.status, nil, tc.body)}
			c := newTestClient(t, ft)

			res := awaitAsync(t, func(onSuccess func(*client.Response), onFail func(*client.Error)) {
				c.PostAsync(t.Context(), "/items", onSuccess, onFail, client.WithBody([]byte("x")))
			})

			if tc.expKind == 0 {
				if res.err != nil {
					t.Fatalf("exp success, got: %v", res.err)
				}
				if string(res.resp.Body) != string(tc.body) {
					t.Errorf("body = %q, want %q", res.resp.Body, tc.body)
				}
				return
			}

			if res.err == nil {
				t.Fatalf("exp %s failure, got success", tc.expKind)
			}
			if res.err.Kind != tc.expKind {
				t.Errorf("kind = %s, want %s", res.err.Kind, tc.expKind)
			}
			if res.err.StatusCode != tc.status {
				t.Errorf("status = %d, want %d", res.err.StatusCode, tc.status)
			}
		})
	}
}

func TestClient_AsyncVerbs(t *testing.T) {
	ft := &fakeTransport{reply: reply(http.StatusOK, nil, []byte("ok"))}
	c := newTestClient(t, ft)

	calls := map[string]func(onSuccess func(*client.Response), onFail func(*client.Error)){
		http.MethodGet: func(s func(*client.Response), f func(*client.Error)) {
			c.GetAsync(t.Context(), "/items", s, f)
		},
		http.MethodHead: func(s func(*client.Response), f func(*client.Error)) {
			c.HeadAsync(t.Context(), "/items", s, f)
		},
		http.MethodPut: func(s func(*client.Response), f func(*client.Error)) {
			c.PutAsync(t.Context(), "/items/1", s, f)
		},
		http.MethodDelete: func(s func(*client.Response), f func(*client.Error)) {
			c.DeleteAsync(t.Context(), "/items/1", s, f)
		},
	}

	for method, fire := range calls {
		t.Run(method, func(t *testing.T) {
			res := awaitAsync(t, fire)
			if res.err != nil {
				t.Fatalf("exp success, got: %v", res.err)
			}

			req, _ := ft.last(t)
			if req.Method != method {
				t.Errorf("method = %q, want %q", req.Method, method)
			}
		})
	}
}

func TestClient_AsyncBuildFailure(t *testing.T) {
	ft := &fakeTransport{reply: reply(http.StatusOK, nil, []byte("ok"))}
	c := newTestClient(t, ft)

	var got *client.Error
	c.GetAsync(t.Context(), "/\xff", func(*client.Response) {
		t.Error("unexpected success")
	}, func(e *client.Error) {
		got = e
	})

	// Build failures are reported before GetAsync returns.
	if got == nil || got.Kind != client.KindBuild {
		t.Fatalf("exp build failure, got: %v", got)
	}
	if n := ft.calls.Load(); n != 0 {
		t.Errorf("transport called %d times, want 0", n)
	}
}

func TestClient_AsyncNilHandlers(t *testing.T) {
	ft := &fakeTransport{reply: reply(http.StatusOK, nil, []byte("ok"))}
	c := newTestClient(t, ft)

	c.GetAsync(t.Context(), "/items", nil, nil)

	deadline := time.Now().Add(time.Second)
	for ft.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := ft.calls.Load(); n != 1 {
		t.Errorf("transport called %d times, want 1", n)
	}
}
