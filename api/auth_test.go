package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/anandk/placement/api"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository/mock"
)

func seedSignedUpStudent(t *testing.T, m *mock.Mocks, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	branch := "Computer Science"
	cgpa := 8.2
	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Seeded Student",
		Phone:        "9876543210",
		Role:         models.RoleStudent,
		Branch:       &branch,
		CGPA:         &cgpa,
		IsActive:     true,
	}
	id, err := m.Users.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	u.ID = id
	return u
}

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	studentBody := func(overrides map[string]any) map[string]any {
		body := map[string]any{
			"full_name": "Alice Kumar",
			"email":     "alice@example.com",
			"phone":     "9876500001",
			"password":  "s3cret",
			"role":      "STUDENT",
			"branch":    "Computer Science",
			"cgpa":      8.5,
		}
		for k, v := range overrides {
			body[k] = v
		}
		return body
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Signup_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signup",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Name",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(map[string]any{"full_name": "  "}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Phone",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(map[string]any{"phone": ""}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_InvalidRole",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(map[string]any{"role": "DEAN"}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_StudentWithoutBranch",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(map[string]any{"branch": ""}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_StudentCGPAOutOfRange",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(map[string]any{"cgpa": 11.0}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "Signup_TPOWithoutBranch",
			method: http.MethodPost,
			path:   "/signup",
			body: map[string]any{
				"full_name": "Placement Officer",
				"email":     "tpo@example.com",
				"phone":     "9876500002",
				"password":  "pw",
				"role":      "TPO",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Signup_Success",
			method:     http.MethodPost,
			path:       "/signup",
			body:       studentBody(nil),
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
					User  models.User
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				if _, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil }); err != nil {
					t.Fatalf("invalid token: %v", err)
				}
			},
		},
		{
			name:   "Signup_DuplicateEmail",
			method: http.MethodPost,
			path:   "/signup",
			body:   studentBody(map[string]any{"email": "dup@example.com"}),
			prepare: func(m *mock.Mocks) {
				seedSignedUpStudent(t, m, "dup@example.com", "pw")
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Signin_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signin",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingFields",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"identifier": "bob@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingUser",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"identifier": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_Success",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"identifier": "bob@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				seedSignedUpStudent(t, m, "bob@example.com", "hunter2")
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal token: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
			},
		},
		{
			name:   "Signin_ByPhone",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"identifier": "9876543210", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				seedSignedUpStudent(t, m, "phone@example.com", "hunter2")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "Signin_WrongPassword",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"identifier": "c@example.com", "password": "wrongpw"},
			prepare: func(m *mock.Mocks) {
				seedSignedUpStudent(t, m, "c@example.com", "rightpw")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_DeactivatedAccount",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"identifier": "gone@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				u := seedSignedUpStudent(t, m, "gone@example.com", "hunter2")
				u.IsActive = false
				if err := m.Users.UpdateUser(context.Background(), u); err != nil {
					t.Fatalf("deactivate user: %v", err)
				}
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Signout_OK",
			method:     http.MethodPost,
			path:       "/signout",
			body:       nil,
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("signed out")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Users, nil, secret, tokenDur)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(tt.method, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/signup":
				handler.Signup(w, req)
			case "/signin":
				handler.Signin(w, req)
			case "/signout":
				handler.Signout(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
			// Successful auth responses carry role and exp claims
			if res.StatusCode < 300 && (tt.path == "/signup" || tt.path == "/signin") {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(data, &ar); err == nil && ar.Token != "" {
					tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
					if err != nil {
						t.Fatalf("parse token: %v", err)
					}
					if claims, ok := tok.Claims.(jwt.MapClaims); ok {
						if _, ok := claims["role"]; !ok {
							t.Fatalf("missing role claim")
						}
						if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
							t.Fatalf("invalid exp claim")
						}
					}
				}
			}
		})
	}
}
