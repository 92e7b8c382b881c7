package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	fallback := zap.NewExample()
	scoped := zap.NewExample().With(zap.String("request_id", "r-1"))

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger")
	}
	if got := FromContext(ContextWithLogger(context.Background(), scoped), fallback); got != scoped {
		t.Error("expected request-scoped logger")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Error("expected no-op logger, got nil")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env, level string
		wantErr    bool
	}{
		{"test", "", false},
		{"local", "", false},
		{"prod", "warn", false},
		{"staging", "", true},
		{"dev", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			_, err := NewLogger(tt.env, tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger(%q, %q) err = %v, wantErr %v", tt.env, tt.level, err, tt.wantErr)
			}
		})
	}
}
