package decoy

import (
	"context"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type Configuration struct {
	// Base URL of the core API, where boolean submit events are forwarded.
	CoreBaseUrl string
	// Absolute URL of the learning moment page, without the token parameter.
	LearningUrl string
	// Grace period for in-flight requests when stopping a decoy server.
	ShutdownTimeout time.Duration
}

type PublicTunnel interface {
	Url() string
	Close() error
}

type TunnelOpener interface {
	OpenTunnel(ctx context.Context, localAddr string) (PublicTunnel, error)
}

type deployment struct {
	campaignId   uuid.UUID
	snapshotPath string
	tunnel       PublicTunnel
	server       *http.Server
	listener     net.Listener
}

// Registry owns the live decoy deployments, one per campaign. A deployment is
// an ephemeral local listener serving the transformed snapshot plus the tunnel
// subprocess exposing it publicly.
type Registry struct {
	config       Configuration
	tunnelOpener TunnelOpener

	mu          sync.Mutex
	deployments map[uuid.UUID]*deployment
}

func NewRegistry(config Configuration, tunnelOpener TunnelOpener) *Registry {
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	return &Registry{
		config:       config,
		tunnelOpener: tunnelOpener,
		deployments:  make(map[uuid.UUID]*deployment),
	}
}

// Deploy serves the snapshot on an ephemeral local port, opens a public tunnel
// to it and registers the pair under the campaign id. Redeploying a campaign
// tears the previous deployment down first.
func (r *Registry) Deploy(ctx context.Context, campaignId uuid.UUID, snapshotPath string) (string, error) {
	logger := utils.LoggerFromContext(ctx)

	if err := r.Teardown(ctx, campaignId); err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", errors.Wrap(models.TunnelError, err.Error())
	}

	server := newDecoyServer(serverParams{
		snapshotPath: snapshotPath,
		coreBaseUrl:  r.config.CoreBaseUrl,
		learningUrl:  r.config.LearningUrl,
	})
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "decoy server stopped unexpectedly",
				"campaign_id", campaignId.String(), "error", err.Error())
		}
	}()

	tunnel, err := r.tunnelOpener.OpenTunnel(ctx, listener.Addr().String())
	if err != nil {
		_ = server.Close()
		return "", err
	}

	r.mu.Lock()
	r.deployments[campaignId] = &deployment{
		campaignId:   campaignId,
		snapshotPath: snapshotPath,
		tunnel:       tunnel,
		server:       server,
		listener:     listener,
	}
	r.mu.Unlock()

	logger.InfoContext(ctx, "decoy deployed",
		"campaign_id", campaignId.String(),
		"local_addr", listener.Addr().String(),
		"public_url", tunnel.Url())
	return tunnel.Url(), nil
}

// Teardown stops the campaign's deployment if one is live: tunnel first so no
// new public traffic arrives, then the local server, then the snapshot file.
func (r *Registry) Teardown(ctx context.Context, campaignId uuid.UUID) error {
	r.mu.Lock()
	dep, ok := r.deployments[campaignId]
	delete(r.deployments, campaignId)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "tearing down decoy", "campaign_id", campaignId.String())

	errs := make([]error, 0, 3)
	if err := dep.tunnel.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "error closing tunnel"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
	defer cancel()
	if err := dep.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, errors.Wrap(err, "error stopping decoy server"))
	}

	if err := os.Remove(dep.snapshotPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, errors.Wrap(err, "error deleting snapshot"))
	}
	return errors.Join(errs...)
}

// TeardownAll is called on process shutdown.
func (r *Registry) TeardownAll(ctx context.Context) {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.deployments))
	for id := range r.deployments {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	logger := utils.LoggerFromContext(ctx)
	for _, id := range ids {
		if err := r.Teardown(ctx, id); err != nil {
			logger.WarnContext(ctx, "error tearing down decoy",
				"campaign_id", id.String(), "error", err.Error())
		}
	}
}

// PublicUrl returns the live public address for a campaign, if deployed.
func (r *Registry) PublicUrl(campaignId uuid.UUID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dep, ok := r.deployments[campaignId]
	if !ok {
		return "", false
	}
	return dep.tunnel.Url(), true
}
