package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sains1/flashapi/app/lib/http"
)

func TestParseArgsDefaults(t *testing.T) {
	// act
	conf, err := parseArgs(nil)

	// assert
	if err != nil {
		t.Fatalf("expected no error but got %v", err)
	}

	if conf.Port != http.DefaultPort {
		t.Errorf("expected default port %d but got %d", http.DefaultPort, conf.Port)
	}

	if conf.Store != "memory" {
		t.Errorf("expected memory store but got %s", conf.Store)
	}

	if conf.methodPolicy() != http.MethodFallbackGet || conf.serveMode() != http.ServeConcurrent {
		t.Errorf("unexpected defaults %+v", conf)
	}
}

func TestParseArgsFlags(t *testing.T) {
	// act
	conf, err := parseArgs([]string{"-port", "9001", "-debug", "-strict-methods", "-sequential", "-store", "redis", "-redis-addr", "redis:6379"})

	// assert
	if err != nil {
		t.Fatalf("expected no error but got %v", err)
	}

	if conf.Port != 9001 || !conf.Debug || conf.Store != "redis" || conf.RedisAddr != "redis:6379" {
		t.Errorf("unexpected config %+v", conf)
	}

	if conf.methodPolicy() != http.MethodStrict {
		t.Error("expected strict method policy")
	}

	if conf.serveMode() != http.ServeSequential {
		t.Error("expected sequential mode")
	}
}

func TestParseArgsInvalid(t *testing.T) {
	tests := [][]string{
		{"-store", "postgres"},
		{"-port", "abc"},
		{"-unknown"},
		{"-config", "/does/not/exist.conf"},
	}

	for _, args := range tests {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("expected %v to fail", args)
		}
	}
}

func TestParseArgsConfigFile(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "app.conf")
	content := "port = 9100\nstrict_methods = true\nstore = redis\nredis_addr = 10.0.0.1:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// act
	conf, err := parseArgs([]string{"-config", path, "-port", "9200"})

	// assert
	if err != nil {
		t.Fatalf("expected no error but got %v", err)
	}

	if conf.Port != 9200 {
		t.Errorf("expected the flag to win over the file but got port %d", conf.Port)
	}

	if !conf.StrictMethods {
		t.Error("expected strict_methods from the file")
	}

	if conf.Store != "redis" || conf.RedisAddr != "10.0.0.1:6379" {
		t.Errorf("expected redis settings from the file but got %+v", conf)
	}

	if conf.Sequential {
		t.Error("expected sequential to keep its default")
	}
}
