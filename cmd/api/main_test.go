package main

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/middleware"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("XDNMB_JWT_SECRET", "cli-secret")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", t.TempDir(), "token", "--subject", "me"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	tok := strings.TrimSpace(out.String())
	claims, err := middleware.ParseJWT(tok, "cli-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "me" || claims.Scope != middleware.ScopeManage {
		t.Errorf("claims = %+v", claims)
	}
	if config.Get().JWT.Secret != "cli-secret" {
		t.Errorf("env override not applied")
	}
}

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()
	if openRedis(ctx, &config.RedisConfig{Enabled: false}) != nil {
		t.Error("disabled redis should give no client")
	}

	mr := miniredis.RunT(t)
	host, portStr, _ := net.SplitHostPort(mr.Addr())
	port, _ := strconv.Atoi(portStr)
	cfg := &config.RedisConfig{Enabled: true, Host: host, Port: port, PoolSize: 1}

	client := openRedis(ctx, cfg)
	if client == nil {
		t.Fatal("reachable redis should give a client")
	}
	if err := client.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	mr.Close()
	if openRedis(ctx, cfg) != nil {
		t.Error("unreachable redis should give no client")
	}
}
