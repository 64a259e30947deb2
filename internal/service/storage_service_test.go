package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simco_backend/internal/config"
)

func TestNewStorageService_Local(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("provider = %T, want local", svc.Provider)
	}
}

func TestNewStorageService_MinioInitFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "minio"
	cfg.Storage.MinioEndpoint = "not a valid endpoint"
	cfg.Storage.LocalPath = t.TempDir()

	// 端点无效时MinIO客户端创建失败，回退到本地存储而不是崩溃
	svc := NewStorageService(cfg)
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("provider = %T, want local fallback", svc.Provider)
	}
}

func TestLocalStorageProvider_Upload(t *testing.T) {
	dir := t.TempDir()
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}

	url, err := provider.Upload(context.Background(), "training/features.csv", strings.NewReader("a,b\n1,2\n"), 8, "text/csv")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/exports/training/features.csv" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "training", "features.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("content = %q", data)
	}
}
