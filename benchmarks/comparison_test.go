// Copyright 2025 The Tallyhub Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package benchmarks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"

	"github.com/tallyhub/dispatch"
)

// Router Comparison Benchmarks
//
// This file benchmarks dispatch's Execute against popular Go HTTP routers
// on an equivalent route set; every router is set up before the timer starts. It is isolated in a separate module
// to avoid polluting the main module's dependencies.
//
// To run these benchmarks:
//   cd benchmarks
//   go test -bench=.

type httpHandlerFunc func(w http.ResponseWriter, r *http.Request, bindings dispatch.Bindings)

func newDispatchTable(b *testing.B) *dispatch.Table {
	handlers := map[string]httpHandlerFunc{
		"root": func(w http.ResponseWriter, r *http.Request, bindings dispatch.Bindings) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Hello"))
		},
		"user": func(w http.ResponseWriter, r *http.Request, bindings dispatch.Bindings) {
			id, _ := bindings.Lookup("id")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "User: %s", id)
		},
		"userPost": func(w http.ResponseWriter, r *http.Request, bindings dispatch.Bindings) {
			id, _ := bindings.Lookup("id")
			postID, _ := bindings.Lookup("post_id")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "User: %s, Post: %s", id, postID)
		},
	}

	table, err := dispatch.Compile([]dispatch.Route{
		{
			Host: dispatch.Any,
			Paths: []dispatch.PathRoute{
				{Path: "/", Handler: handlers["root"]},
				{Path: "/users/:id", Handler: handlers["user"]},
				{Path: "/users/:id/posts/:post_id", Handler: handlers["userPost"]},
			},
		},
	})
	if err != nil {
		b.Fatalf("compile routes: %v", err)
	}
	return table
}

func serveDispatch(table *dispatch.Table, w http.ResponseWriter, r *http.Request) {
	match, err := dispatch.Execute(table, dispatch.HostString(r.Host), dispatch.PathString(r.URL.Path))
	if err != nil {
		if me, ok := err.(*dispatch.MatchError); ok {
			w.WriteHeader(me.StatusCode())
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	handler := match.Handler.(httpHandlerFunc)
	handler(w, r, match.Bindings)
}

// BenchmarkDispatchRouter benchmarks dispatch's Execute path (the table is
// compiled before the timer starts) against a bound handler, mirroring the
// other routers' "match then invoke" shape.
func BenchmarkDispatchRouter(b *testing.B) {
	table := newDispatchTable(b)

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		serveDispatch(table, w, req)
	}
}

// BenchmarkDispatchRouterNested benchmarks a deeper path with two bindings.
func BenchmarkDispatchRouterNested(b *testing.B) {
	table := newDispatchTable(b)

	req := httptest.NewRequest(http.MethodGet, "/users/123/posts/456", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		serveDispatch(table, w, req)
	}
}

// BenchmarkStandardMux benchmarks net/http's ServeMux as a baseline.
func BenchmarkStandardMux(b *testing.B) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Hello"))
	})
	mux.HandleFunc("/users/123", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User: 123"))
	})
	mux.HandleFunc("/users/123/posts/456", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User: 123, Post: 456"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		mux.ServeHTTP(w, req)
	}
}

// BenchmarkGinRouter benchmarks Gin's router.
func BenchmarkGinRouter(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s", c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s, Post: %s", c.Param("id"), c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkEchoRouter benchmarks Echo's router.
func BenchmarkEchoRouter(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	e.GET("/users/:id/posts/:post_id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		e.ServeHTTP(w, req)
	}
}

// BenchmarkChiRouter benchmarks Chi's router.
func BenchmarkChiRouter(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Hello"))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "User: %s", chi.URLParam(r, "id"))
	})
	r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "User: %s, Post: %s", chi.URLParam(r, "id"), chi.URLParam(r, "post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}
