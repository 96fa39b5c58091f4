package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	repo "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type SweetRepoMock struct{ mock.Mock }

func (m *SweetRepoMock) List(ctx context.Context, q repo.SweetListQuery) ([]model.Sweet, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Sweet)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *SweetRepoMock) FindByID(ctx context.Context, id int64) (model.Sweet, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Sweet)
	return s, args.Error(1)
}

func (m *SweetRepoMock) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Sweet)
	return created, args.Error(1)
}

func (m *SweetRepoMock) Update(ctx context.Context, s model.Sweet) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SweetRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SweetRepoMock) AdjustQuantity(ctx context.Context, id int64, delta int64) (model.Sweet, error) {
	args := m.Called(ctx, id, delta)
	s, _ := args.Get(0).(model.Sweet)
	return s, args.Error(1)
}

// =====================
// インメモリのfake（状態を持つテスト用）
// =====================

type fakeSweetStore struct {
	mu     sync.Mutex
	sweets map[int64]model.Sweet
	nextID int64
	writes int // 永続化された書き込み回数
}

func newFakeSweetStore() *fakeSweetStore {
	return &fakeSweetStore{sweets: map[int64]model.Sweet{}, nextID: 1}
}

func (f *fakeSweetStore) List(ctx context.Context, q repo.SweetListQuery) ([]model.Sweet, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Sweet
	for _, s := range f.sweets {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSweetStore) FindByID(ctx context.Context, id int64) (model.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}
	return s, nil
}

func (f *fakeSweetStore) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s.ID = f.nextID
	f.nextID++
	f.sweets[s.ID] = s
	f.writes++
	return s, nil
}

func (f *fakeSweetStore) Update(ctx context.Context, s model.Sweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sweets[s.ID]; !ok {
		return repo.ErrNotFound
	}
	f.sweets[s.ID] = s
	f.writes++
	return nil
}

func (f *fakeSweetStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sweets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.sweets, id)
	f.writes++
	return nil
}

// 本物と同じ契約：ガードを破る更新は書き込みゼロで失敗する。
func (f *fakeSweetStore) AdjustQuantity(ctx context.Context, id int64, delta int64) (model.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}
	if s.Quantity+delta < 0 {
		return model.Sweet{}, &repo.InsufficientStockError{Available: s.Quantity}
	}

	s.Quantity += delta
	f.sweets[id] = s
	f.writes++
	return s, nil
}

// =====================
// Purchase / Restock
// =====================

func TestPurchase_Success_DecrementsQuantity(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(-3)).
		Return(model.Sweet{ID: 1, Name: "Barfi", Quantity: 7}, nil)

	out, err := uc.Purchase(ctx, 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Quantity)

	sRepo.AssertExpectations(t)
}

func TestRestock_Success_IncrementsQuantity(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("AdjustQuantity", mock.Anything, int64(1), int64(5)).
		Return(model.Sweet{ID: 1, Name: "Barfi", Quantity: 15}, nil)

	out, err := uc.Restock(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), out.Quantity)

	sRepo.AssertExpectations(t)
}

func TestPurchase_InvalidAmount_Rejected(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	for _, amount := range []int64{0, -1, -100} {
		_, err := uc.Purchase(ctx, 1, amount)
		assert.ErrorIs(t, err, repo.ErrInvalidInput)

		_, err = uc.Restock(ctx, 1, amount)
		assert.ErrorIs(t, err, repo.ErrInvalidInput)
	}

	// 不正な入力ではrepoまで行かない
	sRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchase_NotFound(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("AdjustQuantity", mock.Anything, int64(99), int64(-1)).
		Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Purchase(ctx, 99, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestRestock_NotFound(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("AdjustQuantity", mock.Anything, int64(99), int64(10)).
		Return(model.Sweet{}, repo.ErrNotFound)

	_, err := uc.Restock(ctx, 99, 10)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestPurchase_InsufficientStock_LeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()

	store := newFakeSweetStore()
	uc := usecase.NewSweetUsecase(store)

	created, err := uc.CreateSweet(ctx, usecase.SweetInput{
		Name:     "Ladoo",
		Category: "Traditional",
		Price:    decimal.NewFromFloat(5.50),
		Quantity: 3,
	})
	require.NoError(t, err)

	writesBefore := store.writes

	_, err = uc.Purchase(ctx, created.ID, 4)

	var insufficient *repo.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(3), insufficient.Available)

	// 失敗時は書き込みゼロ、在庫は変わらない
	assert.Equal(t, writesBefore, store.writes)

	after, err := uc.GetSweet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), after.Quantity)
}

// 作成→購入→補充→在庫不足の一連のシナリオ
func TestSweetLifecycleScenario(t *testing.T) {
	ctx := context.Background()

	store := newFakeSweetStore()
	uc := usecase.NewSweetUsecase(store)

	created, err := uc.CreateSweet(ctx, usecase.SweetInput{
		Name:     "Chocolate Cake",
		Category: "Cakes",
		Price:    decimal.NewFromFloat(15.99),
		Quantity: 10,
	})
	require.NoError(t, err)

	// 作成→取得で全項目がそのまま返る
	got, err := uc.GetSweet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Cake", got.Name)
	assert.Equal(t, "Cakes", got.Category)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(15.99)))
	assert.Equal(t, int64(10), got.Quantity)

	// purchase(2) → 8
	afterPurchase, err := uc.Purchase(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(8), afterPurchase.Quantity)

	// restock(5) → 13
	afterRestock, err := uc.Restock(ctx, created.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(13), afterRestock.Quantity)

	// purchase(20) → 在庫不足、13のまま
	_, err = uc.Purchase(ctx, created.ID, 20)
	var insufficient *repo.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(13), insufficient.Available)

	final, err := uc.GetSweet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), final.Quantity)
}

// 同じ商品への同時購入で在庫がマイナスにならないこと
func TestPurchase_Concurrent_NeverOversells(t *testing.T) {
	ctx := context.Background()

	store := newFakeSweetStore()
	uc := usecase.NewSweetUsecase(store)

	created, err := uc.CreateSweet(ctx, usecase.SweetInput{
		Name:     "Gulab Jamun",
		Category: "Traditional",
		Price:    decimal.NewFromFloat(3.25),
		Quantity: 10,
	})
	require.NoError(t, err)

	amounts := []int64{5, 5, 10}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var soldTotal int64
	var insufficientCount int

	for _, amount := range amounts {
		wg.Add(1)
		go func(a int64) {
			defer wg.Done()

			_, err := uc.Purchase(ctx, created.ID, a)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				soldTotal += a
				return
			}

			var insufficient *repo.InsufficientStockError
			if errors.As(err, &insufficient) {
				insufficientCount++
				return
			}
			t.Errorf("unexpected error: %v", err)
		}(amount)
	}
	wg.Wait()

	final, err := uc.GetSweet(ctx, created.ID)
	require.NoError(t, err)

	// 成功した分だけ減り、マイナスにはならない
	assert.GreaterOrEqual(t, final.Quantity, int64(0))
	assert.Equal(t, int64(10)-soldTotal, final.Quantity)
	assert.LessOrEqual(t, soldTotal, int64(10))

	// 全員成功はあり得ない（合計20 > 10）
	assert.GreaterOrEqual(t, insufficientCount, 1)
}

// =====================
// List / Create / Update / Delete
// =====================

func TestListSweets_Validation(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	_, err := uc.ListSweets(ctx, usecase.ListSweetsInput{Page: 0, Limit: 20})
	assert.ErrorIs(t, err, repo.ErrInvalidInput)

	_, err = uc.ListSweets(ctx, usecase.ListSweetsInput{Page: 1, Limit: 101})
	assert.ErrorIs(t, err, repo.ErrInvalidInput)

	minP := decimal.NewFromFloat(10.00)
	maxP := decimal.NewFromFloat(5.00)
	_, err = uc.ListSweets(ctx, usecase.ListSweetsInput{Page: 1, Limit: 20, MinPrice: &minP, MaxPrice: &maxP})
	assert.ErrorIs(t, err, repo.ErrInvalidInput)

	negative := decimal.NewFromFloat(-1.00)
	_, err = uc.ListSweets(ctx, usecase.ListSweetsInput{Page: 1, Limit: 20, MinPrice: &negative})
	assert.ErrorIs(t, err, repo.ErrInvalidInput)

	_, err = uc.ListSweets(ctx, usecase.ListSweetsInput{Page: 1, Limit: 20, Sort: "bogus"})
	assert.ErrorIs(t, err, repo.ErrInvalidInput)
}

func TestListSweets_PassesFiltersToRepo(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	minP := decimal.NewFromFloat(1.00)
	maxP := decimal.NewFromFloat(20.00)

	q := repo.SweetListQuery{
		Page: 1, Limit: 20,
		Name: "cake", Category: "Cakes",
		MinPrice: &minP, MaxPrice: &maxP,
		Sort: "price_asc",
	}
	items := []model.Sweet{{ID: 1, Name: "Chocolate Cake", Category: "Cakes"}}
	sRepo.On("List", mock.Anything, q).Return(items, int64(1), nil)

	out, err := uc.ListSweets(ctx, usecase.ListSweetsInput{
		Page: 1, Limit: 20,
		Name: "cake", Category: "Cakes",
		MinPrice: &minP, MaxPrice: &maxP,
		Sort: "price_asc",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)

	sRepo.AssertExpectations(t)
}

func TestCreateSweet_Validation(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSweetUsecase(new(SweetRepoMock))

	cases := []usecase.SweetInput{
		{Name: "", Category: "Cakes", Price: decimal.NewFromInt(1), Quantity: 1},
		{Name: "  ", Category: "Cakes", Price: decimal.NewFromInt(1), Quantity: 1},
		{Name: "Cake", Category: "", Price: decimal.NewFromInt(1), Quantity: 1},
		{Name: "Cake", Category: "Cakes", Price: decimal.NewFromInt(-1), Quantity: 1},
		{Name: "Cake", Category: "Cakes", Price: decimal.NewFromInt(1), Quantity: -1},
	}

	for _, in := range cases {
		_, err := uc.CreateSweet(ctx, in)
		assert.ErrorIs(t, err, repo.ErrInvalidInput)
	}
}

func TestUpdateSweet_NotFound(t *testing.T) {
	ctx := context.Background()

	sRepo := new(SweetRepoMock)
	uc := usecase.NewSweetUsecase(sRepo)

	sRepo.On("Update", mock.Anything, mock.Anything).Return(repo.ErrNotFound)

	_, err := uc.UpdateSweet(ctx, 42, usecase.SweetInput{
		Name:     "Cake",
		Category: "Cakes",
		Price:    decimal.NewFromInt(1),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDeleteSweet(t *testing.T) {
	ctx := context.Background()

	store := newFakeSweetStore()
	uc := usecase.NewSweetUsecase(store)

	created, err := uc.CreateSweet(ctx, usecase.SweetInput{
		Name:     "Jalebi",
		Category: "Traditional",
		Price:    decimal.NewFromFloat(2.00),
		Quantity: 5,
	})
	require.NoError(t, err)

	assert.NoError(t, uc.DeleteSweet(ctx, created.ID))

	_, err = uc.GetSweet(ctx, created.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 二重削除はNotFound
	assert.ErrorIs(t, uc.DeleteSweet(ctx, created.ID), repo.ErrNotFound)
}
