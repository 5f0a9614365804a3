package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgstore "github.com/paradox-app/paradox/internal/adapter/storage/postgres"
	"github.com/paradox-app/paradox/internal/domain"
)

func seedUser(t *testing.T, env *TestEnv, plan domain.Plan) *domain.User {
	t.Helper()
	id := uuid.NewString()
	user := &domain.User{
		ID:           id,
		FullName:     "Ada Obi",
		Email:        fmt.Sprintf("%s@example.com", id[:8]),
		Phone:        "+234" + id[:4] + id[24:30],
		Password:     "hashed",
		Plan:         plan,
		UserType:     domain.UserTypeRegular,
		ReferralCode: "VIP" + id[:8],
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, env.DB.Create(user).Error, "Failed to seed user")
	return user
}

func seedTask(t *testing.T, env *TestEnv, reward float64) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:        uuid.NewString(),
		Title:     "Watch sponsor video",
		Reward:    reward,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, env.DB.Create(task).Error, "Failed to seed task")
	return task
}

// TestUserRepository_Lookups exercises every lookup key against a real
// database
func TestUserRepository_Lookups(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	repo := pgstore.NewUserRepository(env.DB, env.Logger)
	user := seedUser(t, env, domain.PlanStandard)

	t.Run("ByID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.Email, found.Email)
	})

	t.Run("ByEmail", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, user.Email)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("ByPhone", func(t *testing.T) {
		found, err := repo.FindByPhone(ctx, user.Phone)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("ByReferralCode", func(t *testing.T) {
		found, err := repo.FindByReferralCode(ctx, user.ReferralCode)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("MissReturnsNilNil", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err, "a miss is not an error")
		assert.Nil(t, found)
	})
}

// TestUserRepository_DuplicateEmail verifies the unique index surfaces
// as a DuplicateError
func TestUserRepository_DuplicateEmail(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	repo := pgstore.NewUserRepository(env.DB, env.Logger)
	existing := seedUser(t, env, domain.PlanLite)

	clone := *existing
	clone.ID = uuid.NewString()
	clone.Phone = "+2348000000001"
	clone.ReferralCode = "VIPDEADBEEF"

	err := repo.Save(ctx, &clone)

	var dupErr *domain.DuplicateError
	require.True(t, errors.As(err, &dupErr), "expected DuplicateError, got %v", err)
}

// TestLedgerRepository_TaskCompletion checks the ledger write updates
// the balance, the earnings history and the completion record together
func TestLedgerRepository_TaskCompletion(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	ledger := pgstore.NewLedgerRepository(env.DB, env.Logger)
	users := pgstore.NewUserRepository(env.DB, env.Logger)

	user := seedUser(t, env, domain.PlanLite)
	task := seedTask(t, env, 250)

	completion, err := ledger.RecordTaskCompletion(ctx, user, task)
	require.NoError(t, err)
	assert.Equal(t, 250.0, completion.RewardPaid, "reward snapshot")

	// Balance, lifetime total and counter all move in the same write.
	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, reloaded.CurrentBalance)
	assert.Equal(t, 250.0, reloaded.TotalEarnings)
	assert.Equal(t, 1, reloaded.TasksCompleted)

	// The ledger row lands with the task-completion type.
	total, err := ledger.SumEarningsByType(ctx, user.ID, domain.EarningTypeTaskCompletion)
	require.NoError(t, err)
	assert.Equal(t, 250.0, total)

	// A second completion of the same task is rejected.
	_, err = ledger.RecordTaskCompletion(ctx, user, task)
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyCompleted)

	done, err := ledger.HasCompleted(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, done)
}

// TestLedgerRepository_ConcurrentCompletion races several writers on
// the same (user, task) pair; the unique index lets exactly one through
func TestLedgerRepository_ConcurrentCompletion(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	ledger := pgstore.NewLedgerRepository(env.DB, env.Logger)
	users := pgstore.NewUserRepository(env.DB, env.Logger)

	user := seedUser(t, env, domain.PlanLite)
	task := seedTask(t, env, 100)

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.RecordTaskCompletion(ctx, user, task)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, duplicates int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrTaskAlreadyCompleted):
			duplicates++
		default:
			t.Errorf("Unexpected error from racing writer: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one writer wins")
	assert.Equal(t, writers-1, duplicates)

	// Losing writers must not have touched the balance.
	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.CurrentBalance)
	assert.Equal(t, 1, reloaded.TasksCompleted)
}

// TestLedgerRepository_ReferralCommission verifies the commission write
// credits the referrer and keeps the two earning streams separate
func TestLedgerRepository_ReferralCommission(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	ledger := pgstore.NewLedgerRepository(env.DB, env.Logger)
	users := pgstore.NewUserRepository(env.DB, env.Logger)
	referrals := pgstore.NewReferralRepository(env.DB, env.Logger)

	referrer := seedUser(t, env, domain.PlanStandard)
	referred := seedUser(t, env, domain.PlanPremium)

	now := time.Now()
	referral := &domain.Referral{
		ID:             uuid.NewString(),
		ReferrerID:     referrer.ID,
		ReferredUserID: referred.ID,
		Commission:     13000,
		IsPaid:         true,
		CreatedAt:      now,
	}
	earning := &domain.Earning{
		ID:          uuid.NewString(),
		UserID:      referrer.ID,
		Amount:      13000,
		Type:        domain.EarningTypeReferralCommission,
		Description: "Referral commission (premium plan)",
		ReferenceID: referred.ID,
		CreatedAt:   now,
	}

	require.NoError(t, ledger.RecordReferralCommission(ctx, referral, earning))

	reloaded, err := users.FindByID(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 13000.0, reloaded.CurrentBalance)

	count, err := referrals.CountByReferrerID(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The streams stay separate for withdrawal eligibility.
	taskTotal, err := ledger.SumEarningsByType(ctx, referrer.ID, domain.EarningTypeTaskCompletion)
	require.NoError(t, err)
	refTotal, err := ledger.SumEarningsByType(ctx, referrer.ID, domain.EarningTypeReferralCommission)
	require.NoError(t, err)
	assert.Equal(t, 0.0, taskTotal)
	assert.Equal(t, 13000.0, refTotal)
}

// TestCouponRepository_StaticCatalog checks the seeded catalog and the
// single-use marking
func TestCouponRepository_StaticCatalog(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}

	ctx := context.Background()
	repo := pgstore.NewCouponRepository(env.DB, env.Logger)

	coupon, err := repo.FindByCode(ctx, "PREMIUM50")
	require.NoError(t, err)
	require.NotNil(t, coupon, "catalog must be seeded by migrations")
	assert.Equal(t, domain.PlanPremium, coupon.RequiredPlan)
	assert.Equal(t, 50, coupon.DiscountPercent)

	t.Run("MarkUsed", func(t *testing.T) {
		code := "VENDOR" + uuid.NewString()[:4]
		require.NoError(t, repo.Save(ctx, &domain.Coupon{
			Code:            code,
			DiscountPercent: 25,
			RequiredPlan:    domain.PlanLite,
			CreatedBy:       "vendor-1",
			CreatedAt:       time.Now(),
		}))

		require.NoError(t, repo.MarkUsed(ctx, code))
		marked, err := repo.FindByCode(ctx, code)
		require.NoError(t, err)
		require.NotNil(t, marked)
		assert.True(t, marked.Used)
	})

	t.Run("MarkUsedUnknownCode", func(t *testing.T) {
		assert.ErrorIs(t, repo.MarkUsed(ctx, "NOSUCHCODE"), domain.ErrNotFound)
	})
}

// TestTaskRepository_FindActiveForPlan verifies plan gating happens in
// the query, not in application code
func TestTaskRepository_FindActiveForPlan(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	repo := pgstore.NewTaskRepository(env.DB, env.Logger)

	open := seedTask(t, env, 100)

	premium := domain.PlanPremium
	gated := &domain.Task{
		ID:           uuid.NewString(),
		Title:        "Premium survey",
		Reward:       500,
		PlanRequired: &premium,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, env.DB.Create(gated).Error)

	inactive := seedTask(t, env, 100)
	require.NoError(t, repo.SetActive(ctx, inactive.ID, false))

	liteTasks, err := repo.FindActiveForPlan(ctx, domain.PlanLite)
	require.NoError(t, err)
	require.Len(t, liteTasks, 1, "lite sees only the ungated active task")
	assert.Equal(t, open.ID, liteTasks[0].ID)

	premiumTasks, err := repo.FindActiveForPlan(ctx, domain.PlanPremium)
	require.NoError(t, err)
	assert.Len(t, premiumTasks, 2, "premium sees the gated task too")
}

// TestShareLinkRepository_ClickCounting checks the click row and the
// counter move together
func TestShareLinkRepository_ClickCounting(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.SQL)

	ctx := context.Background()
	repo := pgstore.NewShareLinkRepository(env.DB, env.Logger)
	user := seedUser(t, env, domain.PlanLite)

	link := &domain.ShareLink{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Platform:     "whatsapp",
		TrackingCode: "TRK_AABBCC112233",
		URL:          "https://viprus.com/join?ref=" + user.ReferralCode,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Save(ctx, link))

	for i := 0; i < 3; i++ {
		click := &domain.ShareClick{
			ID:           uuid.NewString(),
			TrackingCode: link.TrackingCode,
			UserAgent:    "Mozilla/5.0",
			IPAddress:    "41.190.2.10",
			ClickedAt:    time.Now(),
		}
		require.NoError(t, repo.RecordClick(ctx, click))
	}

	reloaded, err := repo.FindByTrackingCode(ctx, link.TrackingCode)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, 3, reloaded.Clicks)
}
