package router

import (
	"errors"
	"reflect"
	"testing"
)

// TestPatternLiteral tests exact matching of literal-only templates
func TestPatternLiteral(t *testing.T) {
	p := MustCompile("echo")

	tests := []struct {
		path        string
		shouldMatch bool
	}{
		{"/echo", true},
		{"echo", true},
		{"/echo/", false},
		{"/echo/123", false},
		{"/ech", false},
		{"/echoes", false},
		{"/", false},
	}

	for _, tt := range tests {
		params, ok := p.Match(tt.path)
		if ok != tt.shouldMatch {
			t.Errorf("Path %s: expected match=%v, got match=%v", tt.path, tt.shouldMatch, ok)
		}
		if ok && len(params) != 0 {
			t.Errorf("Path %s: literal template produced params %v", tt.path, params)
		}
	}
}

func TestPatternRoot(t *testing.T) {
	p := MustCompile("/")

	if _, ok := p.Match("/"); !ok {
		t.Error("Root template should match /")
	}
	if _, ok := p.Match("/x"); ok {
		t.Error("Root template should not match /x")
	}
}

// TestPatternParams tests extraction of named segments
func TestPatternParams(t *testing.T) {
	p := MustCompile("/users/:user/posts/:post")

	tests := []struct {
		path string
		want map[string]string
	}{
		{"/users/alice/posts/7", map[string]string{"user": "alice", "post": "7"}},
		{"/users/bob/posts/hello-world", map[string]string{"user": "bob", "post": "hello-world"}},
		{"/users/alice/posts", nil},
		{"/users//posts/7", nil},
		{"/users/alice/posts/7/extra", nil},
		{"/users/alice/comments/7", nil},
	}

	for _, tt := range tests {
		params, ok := p.Match(tt.path)
		if tt.want == nil {
			if ok {
				t.Errorf("Path %s: expected no match, got %v", tt.path, params)
			}
			continue
		}
		if !ok {
			t.Errorf("Path %s: expected match", tt.path)
			continue
		}
		if !reflect.DeepEqual(params, tt.want) {
			t.Errorf("Path %s: params = %v, want %v", tt.path, params, tt.want)
		}
	}
}

func TestPatternSingleParam(t *testing.T) {
	p := MustCompile("echo/:id")

	if p.Template() != "/echo/:id" {
		t.Errorf("Expected normalized template /echo/:id, got %s", p.Template())
	}

	for _, path := range []string{"/echo", "/echo/", "/echo/123/extra"} {
		if _, ok := p.Match(path); ok {
			t.Errorf("Path %s should not match %s", path, p)
		}
	}

	params, ok := p.Match("/echo/123")
	if !ok || params["id"] != "123" || len(params) != 1 {
		t.Errorf("Expected {id:123}, got %v (match=%v)", params, ok)
	}

	params, ok = p.Match("/echo/a%2Fb")
	if !ok || params["id"] != "a%2Fb" {
		t.Errorf("Expected {id:a%%2Fb}, got %v (match=%v)", params, ok)
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile("/users/:"); !errors.Is(err, ErrUnnamedParam) {
		t.Errorf("Expected ErrUnnamedParam, got %v", err)
	}
	if _, err := Compile("/a/:id/b/:id"); !errors.Is(err, ErrDuplicateParam) {
		t.Errorf("Expected ErrDuplicateParam, got %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on an invalid template")
		}
	}()
	MustCompile("/:")
}

func BenchmarkPatternParam(b *testing.B) {
	p := MustCompile("/user/:id")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Match("/user/123")
	}
}
