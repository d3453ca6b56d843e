package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "namespace with separator returns ErrNamespaceInvalid",
			config:  Config{Backend: BackendMemory, Namespace: "a:b"},
			wantErr: ErrNamespaceInvalid,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid jsonl config with namespace",
			config:  Config{Backend: BackendJSONL, DataDir: "/tmp/data", Namespace: "tables"},
			wantErr: nil,
		},
		{
			name:    "memory with empty DataDir is valid",
			config:  Config{Backend: BackendMemory},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigGetNamespace(t *testing.T) {
	if got := (Config{}).GetNamespace(); got != DefaultNamespace {
		t.Errorf("expected %q, got %q", DefaultNamespace, got)
	}
	if got := (Config{Namespace: "mine"}).GetNamespace(); got != "mine" {
		t.Errorf("expected %q, got %q", "mine", got)
	}
}
