package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMirror struct {
	data  []byte
	err   error
	calls int
}

func (m *fakeMirror) MirrorCatalog(_ context.Context, data []byte) error {
	m.calls++
	m.data = data
	return m.err
}

func fetchPage(addon, ver, platform string) *eks.DescribeAddonVersionsOutput {
	return &eks.DescribeAddonVersionsOutput{
		Addons: []types.AddonInfo{
			{
				AddonName: aws.String(addon),
				AddonVersions: []types.AddonVersionInfo{
					{
						AddonVersion:    aws.String(ver),
						Compatibilities: []types.Compatibility{compatRow(platform, true)},
					},
				},
			},
		},
	}
}

func seedCache(t *testing.T, st *Store, generatedAt time.Time) {
	t.Helper()
	cat, err := Build(validEntries(), generatedAt, "us-west-2", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), cat))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, nil, nil)
	st.now = func() time.Time { return fetchedAt.Add(2 * time.Hour) }

	seedCache(t, st, fetchedAt)

	loaded, age, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, age)
	assert.Equal(t, "us-west-2", loaded.Region())
	assert.True(t, loaded.FetchedAt().Equal(fetchedAt))
	assert.Equal(t, validEntries()[2].AddonName, loaded.Entries()[0].AddonName)
	assert.Equal(t, 3, loaded.Len())
}

func TestStore_LoadMissingCache(t *testing.T) {
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, nil, nil)

	_, _, err := st.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_LoadCorruptCache(t *testing.T) {
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, nil, nil)
	require.NoError(t, os.MkdirAll(st.dir, 0o755))
	require.NoError(t, os.WriteFile(st.Path(), []byte("{not json"), 0o644))

	_, _, err := st.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt catalog cache")
}

func TestStore_LoadOrFetch_UsesFreshCache(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	client := &fakeVersionsClient{err: errors.New("must not be called")}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, NewFetcher(client, nil), nil)
	st.now = func() time.Time { return now }

	seedCache(t, st, now.Add(-time.Hour))

	cat, err := st.LoadOrFetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, 0, client.calls)
}

func TestStore_LoadOrFetch_ForceRefetches(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	client := &fakeVersionsClient{
		pages: []*eks.DescribeAddonVersionsOutput{fetchPage("metrics-server", "v0.7.0-eksbuild.1", "1.33")},
	}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, NewFetcher(client, nil), nil)
	st.now = func() time.Time { return now }

	seedCache(t, st, now.Add(-time.Hour))

	cat, err := st.LoadOrFetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, []string{"metrics-server"}, cat.Addons())
	assert.True(t, cat.FetchedAt().Equal(now))

	// The refreshed catalog replaced the cache file.
	reloaded, _, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"metrics-server"}, reloaded.Addons())
}

func TestStore_LoadOrFetch_StaleCacheRefetches(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	client := &fakeVersionsClient{
		pages: []*eks.DescribeAddonVersionsOutput{fetchPage("metrics-server", "v0.7.0-eksbuild.1", "1.33")},
	}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, NewFetcher(client, nil), nil)
	st.now = func() time.Time { return now }

	seedCache(t, st, now.Add(-48*time.Hour))

	cat, err := st.LoadOrFetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, []string{"metrics-server"}, cat.Addons())
}

func TestStore_LoadOrFetch_ZeroMaxAgeNeverExpires(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	client := &fakeVersionsClient{err: errors.New("must not be called")}
	st := NewStore(t.TempDir(), "us-west-2", 0, NewFetcher(client, nil), nil)
	st.now = func() time.Time { return now }

	seedCache(t, st, now.Add(-1000*time.Hour))

	cat, err := st.LoadOrFetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, 0, client.calls)
}

func TestStore_LoadOrFetch_FallsBackToStaleCache(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	client := &fakeVersionsClient{err: errors.New("api down")}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, NewFetcher(client, nil), nil)
	st.now = func() time.Time { return now }

	seedCache(t, st, now.Add(-48*time.Hour))

	cat, err := st.LoadOrFetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 3, cat.Len())
}

func TestStore_LoadOrFetch_NoCacheFetchErrorFatal(t *testing.T) {
	client := &fakeVersionsClient{err: errors.New("api down")}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, NewFetcher(client, nil), nil)

	_, err := st.LoadOrFetch(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh addon version catalog")
}

func TestStore_SaveMirrors(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	mirror := &fakeMirror{}
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, nil, nil)
	st.SetMirror(mirror)

	seedCache(t, st, fetchedAt)

	assert.Equal(t, 1, mirror.calls)
	assert.Contains(t, string(mirror.data), "coredns")
}

func TestStore_SaveMirrorFailureNotFatal(t *testing.T) {
	st := NewStore(t.TempDir(), "us-west-2", 24*time.Hour, nil, nil)
	st.SetMirror(&fakeMirror{err: errors.New("bucket gone")})

	cat, err := Build(validEntries(), time.Now(), "us-west-2", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, st.Save(context.Background(), cat))
}
