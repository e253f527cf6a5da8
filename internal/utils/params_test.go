package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/apperr"
)

func TestGetIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"abc", 0, true},
		{"-3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Params = gin.Params{{Key: "id", Value: tt.raw}}

		got, err := GetIDParam(ctx, "id")
		if tt.wantErr {
			if apperr.KindOf(err) != apperr.KindInvalidInput {
				t.Fatalf("GetIDParam(%q) err = %v, want invalid input", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("GetIDParam(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestGetIDQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/tasks?project=4", nil)
	if id, ok, err := GetIDQuery(ctx, "project"); err != nil || !ok || id != 4 {
		t.Fatalf("GetIDQuery = %d, %v, %v", id, ok, err)
	}
	if _, ok, err := GetIDQuery(ctx, "status"); err != nil || ok {
		t.Fatalf("absent query reported ok=%v err=%v", ok, err)
	}

	ctx, _ = gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/tasks?project=x", nil)
	if _, _, err := GetIDQuery(ctx, "project"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
