package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", 0)
	userID := uuid.New()

	token, expiresAt, err := service.GenerateToken(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), expiresAt, time.Minute)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestJWTService_Expired(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	token, _, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenExpired))
}

func TestJWTService_Tampered(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	token, _, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService("another-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenInvalid))

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := fmt.Sprintf(`{"user_id":%q,"exp":%d}`, uuid.New().String(), time.Now().Add(time.Hour).Unix())
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
	tampered := strings.Join(parts, ".")
	_, err = service.ValidateToken(tampered)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenInvalid))

	_, err = service.ValidateToken("not-a-token")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenInvalid))
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()
	valid, _, err := service.GenerateToken(userID)
	require.NoError(t, err)

	expiredService := NewJWTService("test-secret", time.Hour)
	expiredService.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredService.GenerateToken(userID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, apperrors.ErrCodeTokenMissing},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, apperrors.ErrCodeTokenMissing},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, apperrors.ErrCodeTokenExpired},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", JWTMiddleware(service), func(c *gin.Context) {
				id, ok := CurrentUserID(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				assert.NotEmpty(t, body["error"])
			} else {
				assert.Equal(t, userID.String(), body["user_id"])
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := hashPasswordWithCost("hunter22", 4)
	require.NoError(t, err)

	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
}
