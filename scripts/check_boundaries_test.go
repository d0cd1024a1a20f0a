package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.go")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path    string
		service string
		layer   string
		ok      bool
	}{
		{"contexts/estimation/voting-room/domain/services/room.go", "ivote/contexts/estimation/voting-room", "domain", true},
		{"contexts/estimation/voting-room/module.go", "ivote/contexts/estimation/voting-room", "", true},
		{"internal/platform/messaging/broadcaster.go", "", "internal/platform/messaging", true},
		{"contexts/estimation/doc.go", "", "", false},
		{"cmd/api/main.go", "", "", false},
	}
	for _, tc := range cases {
		u, ok := classify(tc.path)
		if ok != tc.ok || u.Service != tc.service || u.Layer != tc.layer {
			t.Fatalf("classify(%q) = %+v, %v", tc.path, u, ok)
		}
	}
}

func TestCheckFileRules(t *testing.T) {
	const service = "contexts/estimation/voting-room/"
	cases := []struct {
		name     string
		path     string
		body     string
		messages []string
	}{
		{
			name: "domain on stdlib and domain",
			path: service + "domain/services/room.go",
			body: "package services\nimport (\n\"strconv\"\n\"ivote/contexts/estimation/voting-room/domain/entities\"\n)\n",
		},
		{
			name: "domain importing ports",
			path: service + "domain/services/room.go",
			body: "package services\nimport \"ivote/contexts/estimation/voting-room/ports\"\n",
			messages: []string{
				"domain may import only the standard library and its own domain packages",
			},
		},
		{
			name: "domain importing a third party library",
			path: service + "domain/entities/room.go",
			body: "package entities\nimport \"github.com/google/uuid\"\n",
			messages: []string{
				"domain may import only the standard library and its own domain packages",
			},
		},
		{
			name: "ports importing an adapter",
			path: service + "ports/ports.go",
			body: "package ports\nimport \"ivote/contexts/estimation/voting-room/adapters/memory\"\n",
			messages: []string{
				"ports may import only the standard library, domain and ports",
				"core layers must not import adapters",
			},
		},
		{
			name: "application importing platform",
			path: service + "application/commands/room_usecase.go",
			body: "package commands\nimport \"ivote/internal/platform/messaging\"\n",
			messages: []string{
				"application may import only the standard library, domain, ports and application",
				"core layers must not import platform or command packages",
			},
		},
		{
			name: "application across its own packages",
			path: service + "application/commands/room_usecase.go",
			body: "package commands\nimport (\n\"ivote/contexts/estimation/voting-room/application/queries\"\n\"ivote/contexts/estimation/voting-room/ports\"\n)\n",
		},
		{
			name: "transport importing application",
			path: service + "transport/http/dto.go",
			body: "package httptransport\nimport \"ivote/contexts/estimation/voting-room/application/queries\"\n",
			messages: []string{
				"transport DTOs may import only the standard library and domain",
			},
		},
		{
			name: "adapters may use infrastructure",
			path: service + "adapters/redis/store.go",
			body: "package redisadapter\nimport (\n\"ivote/internal/shared/codec\"\n\"github.com/redis/go-redis/v9\"\n)\n",
		},
		{
			name: "adapter importing another context",
			path: service + "adapters/memory/store.go",
			body: "package memory\nimport \"ivote/contexts/estimation/retro-board/ports\"\n",
			messages: []string{
				"a bounded context may not import another context",
			},
		},
		{
			name: "platform package importing an adapter",
			path: "internal/platform/httpserver/server.go",
			body: "package httpserver\nimport \"ivote/contexts/estimation/voting-room/adapters/memory\"\n",
			messages: []string{
				"only the composition root may import context adapters or use cases",
			},
		},
		{
			name: "platform package on the module root and ports",
			path: "internal/platform/messaging/broadcaster.go",
			body: "package messaging\nimport (\nvotingroom \"ivote/contexts/estimation/voting-room\"\n\"ivote/contexts/estimation/voting-room/ports\"\n)\n",
		},
		{
			name: "composition root wires adapters",
			path: "internal/app/bootstrap/bootstrap.go",
			body: "package bootstrap\nimport (\n\"ivote/contexts/estimation/voting-room/adapters/sqlite\"\n\"ivote/contexts/estimation/voting-room/application/workers\"\n)\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, ok := classify(tc.path)
			if !ok {
				t.Fatalf("path %q not classified", tc.path)
			}
			got := checkFile(writeSource(t, tc.body), u)
			if len(got) != len(tc.messages) {
				t.Fatalf("expected %d findings, got %+v", len(tc.messages), got)
			}
			for i, message := range tc.messages {
				if got[i].Message != message || got[i].File != tc.path {
					t.Fatalf("finding %d = %+v, want %q", i, got[i], message)
				}
			}
		})
	}
}

func TestUnparsableFileIsReported(t *testing.T) {
	u, _ := classify("contexts/estimation/voting-room/ports/ports.go")
	got := checkFile(writeSource(t, "package ports\nimport (\n"), u)
	if len(got) != 1 || got[0].Line != 1 {
		t.Fatalf("expected one parse finding, got %+v", got)
	}
}

func TestIsStdlib(t *testing.T) {
	cases := map[string]bool{
		"net/http":                   true,
		"context":                    true,
		"ivote/internal/platform/db": false,
		"ivote":                      false,
		"gorm.io/gorm":               false,
		"github.com/google/uuid":     false,
	}
	for importPath, want := range cases {
		if got := isStdlib(importPath); got != want {
			t.Fatalf("isStdlib(%q) = %v, want %v", importPath, got, want)
		}
	}
}
