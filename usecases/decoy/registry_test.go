package decoy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTunnel struct {
	url    string
	closed bool
}

func (t *fakeTunnel) Url() string  { return t.url }
func (t *fakeTunnel) Close() error { t.closed = true; return nil }

type fakeTunnelOpener struct {
	opened []*fakeTunnel
}

func (o *fakeTunnelOpener) OpenTunnel(ctx context.Context, localAddr string) (PublicTunnel, error) {
	tunnel := &fakeTunnel{url: fmt.Sprintf("https://decoy-%d.trycloudflare.com", len(o.opened))}
	o.opened = append(o.opened, tunnel)
	return tunnel, nil
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>decoy</body></html>"), 0o644))
	return path
}

func TestRegistryDeployServesSnapshot(t *testing.T) {
	opener := &fakeTunnelOpener{}
	registry := NewRegistry(Configuration{
		CoreBaseUrl: "http://127.0.0.1:1",
		LearningUrl: "https://hookwise.test/t/learn",
	}, opener)
	campaignId := uuid.New()
	snapshotPath := writeSnapshot(t)

	publicUrl, err := registry.Deploy(context.Background(), campaignId, snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, "https://decoy-0.trycloudflare.com", publicUrl)
	t.Cleanup(func() { _ = registry.Teardown(context.Background(), campaignId) })

	registry.mu.Lock()
	localAddr := registry.deployments[campaignId].listener.Addr().String()
	registry.mu.Unlock()

	resp, err := http.Get("http://" + localAddr + "/?token=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "decoy")
}

func TestRegistryTeardown(t *testing.T) {
	opener := &fakeTunnelOpener{}
	registry := NewRegistry(Configuration{LearningUrl: "https://hookwise.test/t/learn"}, opener)
	campaignId := uuid.New()
	snapshotPath := writeSnapshot(t)

	_, err := registry.Deploy(context.Background(), campaignId, snapshotPath)
	require.NoError(t, err)

	require.NoError(t, registry.Teardown(context.Background(), campaignId))

	assert.True(t, opener.opened[0].closed, "tunnel should be closed")
	_, statErr := os.Stat(snapshotPath)
	assert.True(t, os.IsNotExist(statErr), "snapshot file should be deleted")
	_, live := registry.PublicUrl(campaignId)
	assert.False(t, live)

	t.Run("teardown is idempotent", func(t *testing.T) {
		assert.NoError(t, registry.Teardown(context.Background(), campaignId))
	})
}

func TestRegistryRedeployReplacesDeployment(t *testing.T) {
	opener := &fakeTunnelOpener{}
	registry := NewRegistry(Configuration{LearningUrl: "https://hookwise.test/t/learn"}, opener)
	campaignId := uuid.New()

	first := writeSnapshot(t)
	_, err := registry.Deploy(context.Background(), campaignId, first)
	require.NoError(t, err)

	second := writeSnapshot(t)
	publicUrl, err := registry.Deploy(context.Background(), campaignId, second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Teardown(context.Background(), campaignId) })

	assert.Equal(t, "https://decoy-1.trycloudflare.com", publicUrl)
	assert.True(t, opener.opened[0].closed, "first tunnel should be closed on redeploy")
	_, statErr := os.Stat(first)
	assert.True(t, os.IsNotExist(statErr), "first snapshot should be deleted on redeploy")
}
