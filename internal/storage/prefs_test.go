package storage

import (
	"context"
	"errors"
	"testing"

	"fxconv/internal/adapters/memory"
	"fxconv/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKVStore struct{ mock.Mock }

func (m *MockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	v, _ := args.Get(0).([]byte)
	return v, args.Error(1)
}

func (m *MockKVStore) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestPrefs_SaveThenLoad(t *testing.T) {
	p := NewPrefs(memory.NewKVStore())
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, KeySelectedCurrencies, []string{"CNY", "USD"}))

	var got []string
	require.True(t, p.Load(ctx, KeySelectedCurrencies, &got))
	require.Equal(t, []string{"CNY", "USD"}, got)
}

func TestPrefs_Load_Missing(t *testing.T) {
	p := NewPrefs(memory.NewKVStore())

	var got []string
	require.False(t, p.Load(context.Background(), KeySelectedCurrencies, &got))
	require.Nil(t, got)
}

func TestPrefs_Load_Malformed(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyCurrencyAmounts, []byte(`{not json`)))

	var got map[string]string
	require.False(t, NewPrefs(kv).Load(ctx, KeyCurrencyAmounts, &got))
}

func TestPrefs_Load_BackendError(t *testing.T) {
	kv := new(MockKVStore)
	kv.On("Get", mock.Anything, KeySettings).Return(nil, errors.New("connection refused"))

	var got domain.Settings
	require.False(t, NewPrefs(kv).Load(context.Background(), KeySettings, &got))
	kv.AssertExpectations(t)
}

func TestPrefs_Save_BackendErrorIsStorageError(t *testing.T) {
	kv := new(MockKVStore)
	kv.On("Set", mock.Anything, KeyRatesBase, []byte(`"USD"`)).Return(errors.New("quota exceeded"))

	err := NewPrefs(kv).Save(context.Background(), KeyRatesBase, "USD")
	require.ErrorIs(t, err, domain.ErrStorage)
	kv.AssertExpectations(t)
}

func TestPrefs_Save_EncodeErrorIsStorageError(t *testing.T) {
	p := NewPrefs(memory.NewKVStore())
	err := p.Save(context.Background(), KeySettings, make(chan int))
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestPrefs_Remove(t *testing.T) {
	kv := memory.NewKVStore()
	p := NewPrefs(kv)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, KeyQueryHistory, []int{1}))
	require.NoError(t, p.Remove(ctx, KeyQueryHistory))

	_, err := kv.Get(ctx, KeyQueryHistory)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
