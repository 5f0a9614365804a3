package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/paradox-app/paradox/internal/adapter/http/fiber/handlers"
	"github.com/paradox-app/paradox/internal/adapter/http/fiber/middleware"
	pgstore "github.com/paradox-app/paradox/internal/adapter/storage/postgres"
	"github.com/paradox-app/paradox/internal/mocks"
	"github.com/paradox-app/paradox/internal/service/auth"
	"github.com/paradox-app/paradox/internal/service/coupon"
	"github.com/paradox-app/paradox/internal/service/earnings"
	"github.com/paradox-app/paradox/internal/service/task"
	"github.com/paradox-app/paradox/internal/service/verification"
	"github.com/paradox-app/paradox/pkg/config"
)

var phoneCounter int64

// nextPhone mints a unique Nigerian number per request so signups never
// collide across tests sharing one database
func nextPhone() string {
	n := atomic.AddInt64(&phoneCounter, 1)
	return fmt.Sprintf("+2348%09d", n)
}

// setupTestApp wires the real services over the container-backed
// database and cache, with delivery mocked out
func setupTestApp(t *testing.T) *fiber.App {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil || env.Cache == nil {
		t.Skip("Backing services not available")
	}

	userRepo := pgstore.NewUserRepository(env.DB, env.Logger)
	taskRepo := pgstore.NewTaskRepository(env.DB, env.Logger)
	ledgerRepo := pgstore.NewLedgerRepository(env.DB, env.Logger)
	referralRepo := pgstore.NewReferralRepository(env.DB, env.Logger)
	couponRepo := pgstore.NewCouponRepository(env.DB, env.Logger)

	couponService := coupon.NewService(couponRepo, config.RolesConfig{}, config.CouponsConfig{}, env.Logger)
	earningsService := earnings.NewService(userRepo, taskRepo, ledgerRepo, referralRepo, nil, env.Logger)
	verificationService := verification.NewService(env.Cache, &mocks.MockEmailService{}, &mocks.MockSMSSender{}, config.VerificationConfig{}, env.Logger)
	authService := auth.NewService(userRepo, couponService, earningsService, verificationService, &mocks.MockEmailService{},
		config.JWTConfig{Secret: "integration-test-secret"}, env.Logger)
	taskService := task.NewService(taskRepo, ledgerRepo, userRepo, env.Logger)

	authHandler := handlers.NewAuthHandler(authService, env.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, earningsService, env.Logger)
	dashboardHandler := handlers.NewDashboardHandler(earningsService, env.Logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(env.Logger),
	})

	api := app.Group("/api/v1")
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/check-email", authHandler.CheckEmail)

	protected := api.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/tasks", taskHandler.Available)
	protected.Post("/tasks/:id/complete", taskHandler.Complete)
	protected.Get("/dashboard/stats", dashboardHandler.Stats)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	return resp, result
}

// signupAndLogin registers a fresh free-plan user and returns their
// access token
func signupAndLogin(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()
	phone := nextPhone()
	email := fmt.Sprintf("user%s@example.com", phone[4:])

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"fullname": "Ada Obi",
		"email":    email,
		"phone":    phone,
		"password": "password123",
		"plan":     "free",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Signup failed with status %d", resp.StatusCode)
	}

	resp, result := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"phone":    phone,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login failed with status %d", resp.StatusCode)
	}

	tokens, _ := result["tokens"].(map[string]interface{})
	token, _ := tokens["accessToken"].(string)
	if token == "" {
		t.Fatal("Expected an access token in the login response")
	}
	return token, phone
}

// TestAPI_SignupLoginFlow walks the full authentication flow over HTTP
func TestAPI_SignupLoginFlow(t *testing.T) {
	app := setupTestApp(t)

	phone := nextPhone()
	email := fmt.Sprintf("flow%s@example.com", phone[4:])
	signup := map[string]interface{}{
		"fullname": "Ada Obi",
		"email":    email,
		"phone":    phone,
		"password": "password123",
		"plan":     "free",
	}

	t.Run("Signup", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", signup)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", resp.StatusCode)
		}

		user, _ := result["user"].(map[string]interface{})
		if user["email"] != email {
			t.Errorf("Expected email %q in response, got %v", email, user["email"])
		}
		code, _ := user["referral_code"].(string)
		if len(code) != 11 || code[:3] != "VIP" {
			t.Errorf("Unexpected referral code %q", code)
		}
	})

	t.Run("DuplicateSignup", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", signup)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", resp.StatusCode)
		}
	})

	t.Run("Login", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"phone":    phone,
			"password": "password123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		tokens, _ := result["tokens"].(map[string]interface{})
		if tokens["accessToken"] == nil || tokens["refreshToken"] == nil {
			t.Error("Expected both tokens in the login response")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"phone":    phone,
			"password": "wrongpassword",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", resp.StatusCode)
		}
	})

	t.Run("CheckEmailTaken", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodGet, "/api/v1/auth/check-email?email="+email, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if result["available"] != false {
			t.Error("Expected the email to be reported as taken")
		}
	})

	t.Run("MeRequiresToken", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401 without a token, got %d", resp.StatusCode)
		}
	})
}

// TestAPI_TaskCompletionFlow completes a task over HTTP and checks the
// duplicate guard and the dashboard totals
func TestAPI_TaskCompletionFlow(t *testing.T) {
	app := setupTestApp(t)
	env := SetupTestEnvironment(t)
	token, _ := signupAndLogin(t, app)

	seeded := seedTask(t, env, 250)

	t.Run("ListAvailable", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodGet, "/api/v1/tasks", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		tasks, _ := result["tasks"].([]interface{})
		found := false
		for _, raw := range tasks {
			task, _ := raw.(map[string]interface{})
			if task["id"] == seeded.ID {
				found = true
			}
		}
		if !found {
			t.Error("Expected the seeded task to be listed")
		}
	})

	t.Run("Complete", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodPost, "/api/v1/tasks/"+seeded.ID+"/complete", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if result["reward"] != float64(250) {
			t.Errorf("Expected reward 250, got %v", result["reward"])
		}
	})

	t.Run("CompleteAgain", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks/"+seeded.ID+"/complete", token, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected status 409 for a repeat completion, got %d", resp.StatusCode)
		}
	})

	t.Run("CompletedTaskHidden", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodGet, "/api/v1/tasks", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		tasks, _ := result["tasks"].([]interface{})
		for _, raw := range tasks {
			task, _ := raw.(map[string]interface{})
			if task["id"] == seeded.ID {
				t.Error("Completed task must not be listed again")
			}
		}
	})

	t.Run("DashboardReflectsCredit", func(t *testing.T) {
		resp, result := doJSON(t, app, http.MethodGet, "/api/v1/dashboard/stats", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		stats, _ := result["stats"].(map[string]interface{})
		if stats["task_balance"] != float64(250) {
			t.Errorf("Expected task balance 250, got %v", stats["task_balance"])
		}
	})

	t.Run("UnknownTask", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks/no-such-task/complete", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})
}
