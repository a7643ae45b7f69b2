package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"network", apperr.NetworkError(errors.New("dial tcp")), apperr.CodeNetworkError},
		{"wrapped parse", fmt.Errorf("showf: %w", apperr.ParseError(errors.New("bad json"))), apperr.CodeParseError},
		{"plain", errors.New("boom"), apperr.CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			Fail(c, tt.err)
			if w.Code != 200 {
				t.Errorf("status = %d", w.Code)
			}
			if got := decode(t, w).Code; got != tt.code {
				t.Errorf("code = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, []int{1, 2})
	resp := decode(t, w)
	if resp.Code != apperr.CodeSuccess || resp.Msg != "success" {
		t.Errorf("resp = %+v", resp)
	}
}
